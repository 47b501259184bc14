package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/t3ch-N/mAGICAL-clone-sub001/internal/authz"
)

// WebmasterOptions flags of create-webmaster.
type WebmasterOptions struct {
	Username string
	Password string
	FullName string
	Role     string
}

// NewCreateWebmasterCommand creates the create-webmaster command.
func NewCreateWebmasterCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &WebmasterOptions{}

	cmd := &cobra.Command{
		Use:   "create-webmaster",
		Short: "Create an approved bootstrap account",
		Long: `Create an approved staff account outside the role request workflow.

The password is read from --password or MKO_BOOTSTRAP_PASSWORD. Running the
command again for an existing username changes nothing.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.Password == "" {
				opts.Password = os.Getenv("MKO_BOOTSTRAP_PASSWORD")
			}
			if opts.Password == "" {
				return errors.New("a password is required (--password or MKO_BOOTSTRAP_PASSWORD)")
			}

			e, err := openEnv(rootOpts)
			if err != nil {
				return err
			}
			defer e.Close()

			user, created, err := e.services().User.Bootstrap(cmd.Context(), opts.Username, opts.Password, opts.FullName, authz.Role(opts.Role))
			if err != nil {
				return err
			}
			if created {
				fmt.Fprintf(cmd.OutOrStdout(), "created %s %s (%s)\n", user.Role, user.Username, user.ID)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "user %s already exists with role %s\n", user.Username, user.Role)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.Username, "username", "u", "", "login name")
	cmd.Flags().StringVarP(&opts.Password, "password", "p", "", "initial password")
	cmd.Flags().StringVar(&opts.FullName, "full-name", "Site Webmaster", "display name")
	cmd.Flags().StringVar(&opts.Role, "role", string(authz.RoleWebmaster), "staff role to grant")
	_ = cmd.MarkFlagRequired("username")

	return cmd
}
