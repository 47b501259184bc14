package authz

import (
	"fmt"
	"slices"

	"github.com/t3ch-N/mAGICAL-clone-sub001/internal/model"
	pkgerrors "github.com/t3ch-N/mAGICAL-clone-sub001/pkg/errors"
)

// Rule grants Kinds to Role. Nil Targets allows every transition target; nil
// Modules allows every module and also the module-less scope used by global
// configuration.
type Rule struct {
	Role    Role
	Kinds   []ActionKind
	Targets []model.SubmissionStatus
	Modules []model.ModuleType
}

func (r Rule) allows(action Action, module model.ModuleType) bool {
	if !slices.Contains(r.Kinds, action.Kind) {
		return false
	}
	if action.Kind == KindTransition && r.Targets != nil && !slices.Contains(r.Targets, action.Target) {
		return false
	}
	if r.Modules != nil && !slices.Contains(r.Modules, module) {
		return false
	}
	return true
}

// Policy is a declarative role × action × module table. Anything not granted
// by a rule is denied.
type Policy struct {
	rules []Rule
}

// NewPolicy builds a Policy from rules.
func NewPolicy(rules ...Rule) *Policy {
	return &Policy{rules: append([]Rule(nil), rules...)}
}

var allKinds = []ActionKind{KindView, KindTransition, KindAssign, KindAnnotate, KindManageConfig, KindManageUsers}

// DefaultRules is the tournament's permission table.
func DefaultRules() []Rule {
	rules := make([]Rule, 0, 16)
	for _, r := range ManagementRoles {
		rules = append(rules, Rule{Role: r, Kinds: allKinds})
	}
	reviewer := []ActionKind{KindView, KindTransition, KindAssign, KindAnnotate}
	rules = append(rules,
		Rule{Role: RoleWebmaster, Kinds: []ActionKind{KindView}},
		Rule{Role: RoleWebmaster, Kinds: []ActionKind{KindManageConfig}, Modules: []model.ModuleType{""}},
		Rule{Role: RoleAreaSupervisor, Kinds: []ActionKind{KindView, KindTransition, KindAnnotate},
			Targets: []model.SubmissionStatus{model.StatusUnderReview, model.StatusActive, model.StatusCompleted},
			Modules: []model.ModuleType{model.ModuleVolunteers}},
		Rule{Role: RoleMediaOfficer, Kinds: reviewer, Modules: []model.ModuleType{model.ModuleMedia}},
		Rule{Role: RoleProAmCoordinator, Kinds: append(reviewer, KindManageConfig), Modules: []model.ModuleType{model.ModuleProAm}},
		Rule{Role: RoleProcurementOfficer, Kinds: reviewer, Modules: []model.ModuleType{model.ModuleProcurement, model.ModuleVendors}},
		Rule{Role: RoleHROfficer, Kinds: reviewer, Modules: []model.ModuleType{model.ModuleJobs}},
		Rule{Role: RoleViewer, Kinds: []ActionKind{KindView}},
	)
	return rules
}

// DefaultPolicy is NewPolicy(DefaultRules()...).
func DefaultPolicy() *Policy {
	return NewPolicy(DefaultRules()...)
}

// Can reports whether actor may perform action on module. Pass "" as module
// for actions that are not scoped to a module.
// Mutating actions additionally require the actor's role to be approved.
func (p *Policy) Can(actor Actor, action Action, module model.ModuleType) bool {
	if !actor.Role.IsValid() || actor.ID == "" {
		return false
	}
	if action.Mutating() && !actor.IsApproved() {
		return false
	}
	for _, r := range p.rules {
		if r.Role == actor.Role && r.allows(action, module) {
			return true
		}
	}
	return false
}

// Authorize is Can returning a Forbidden error on denial.
func (p *Policy) Authorize(actor Actor, action Action, module model.ModuleType) error {
	if p.Can(actor, action, module) {
		return nil
	}
	if action.Mutating() && actor.Role.IsValid() && !actor.IsApproved() {
		return pkgerrors.Kind(pkgerrors.ErrForbidden,
			fmt.Sprintf("role %s is %s; only approved roles may %s", actor.Role, actor.Status, action))
	}
	scope := string(module)
	if scope == "" {
		scope = "global"
	}
	return pkgerrors.Kind(pkgerrors.ErrForbidden,
		fmt.Sprintf("role %s may not %s on %s", actor.Role, action, scope))
}

// VisibleModules returns the modules actor may view.
func (p *Policy) VisibleModules(actor Actor) []model.ModuleType {
	out := make([]model.ModuleType, 0, len(model.ModuleTypes))
	for _, m := range model.ModuleTypes {
		if p.Can(actor, ActionView, m) {
			out = append(out, m)
		}
	}
	return out
}

// Actions enumerates every concrete action: the plain kinds plus one
// transition per reachable target status.
func Actions() []Action {
	out := []Action{ActionView}
	for _, s := range model.SubmissionStatuses {
		if s == model.StatusDraft || s == model.StatusSubmitted {
			continue
		}
		out = append(out, TransitionTo(s))
	}
	return append(out, ActionAssign, ActionAnnotate, ActionManageConfig, ActionManageUsers)
}
