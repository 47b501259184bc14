package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/t3ch-N/mAGICAL-clone-sub001/internal/authz"
	"github.com/t3ch-N/mAGICAL-clone-sub001/internal/model"
)

// NewPolicyCommand creates the policy command.
func NewPolicyCommand() *cobra.Command {
	var role string

	cmd := &cobra.Command{
		Use:   "policy",
		Short: "Print the role permission table",
		Long: `Print, for each role, every action it may take and the modules it may
take it on. "*" means every module plus global configuration; "global" is
configuration that belongs to no module.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			roles := authz.Roles
			if role != "" {
				r := authz.Role(role)
				if !r.IsValid() {
					return fmt.Errorf("unknown role %q", role)
				}
				roles = []authz.Role{r}
			}
			WritePolicyMatrix(cmd.OutOrStdout(), authz.DefaultPolicy(), roles)
			return nil
		},
	}

	cmd.Flags().StringVar(&role, "role", "", "only this role")
	return cmd
}

// policyScopes are the scopes checked per action; "" is global configuration.
var policyScopes = append([]model.ModuleType{""}, model.ModuleTypes...)

// WritePolicyMatrix writes the grants of p for roles, evaluated for approved actors.
func WritePolicyMatrix(w io.Writer, p *authz.Policy, roles []authz.Role) {
	for i, r := range roles {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "%s (rank %d)\n", r, r.Rank())

		actor := authz.Actor{ID: "policy", Role: r, Status: authz.StatusApproved}
		lines := 0
		for _, a := range authz.Actions() {
			scopes := make([]string, 0, len(policyScopes))
			for _, m := range policyScopes {
				if p.Can(actor, a, m) {
					scopes = append(scopes, scopeName(m))
				}
			}
			if len(scopes) == 0 {
				continue
			}
			list := strings.Join(scopes, ",")
			if len(scopes) == len(policyScopes) {
				list = "*"
			}
			fmt.Fprintf(w, "  %-28s%s\n", a, list)
			lines++
		}
		if lines == 0 {
			fmt.Fprintln(w, "  (none)")
		}
	}
}

func scopeName(m model.ModuleType) string {
	if m == "" {
		return "global"
	}
	return string(m)
}
