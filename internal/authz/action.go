package authz

import (
	"strings"

	"github.com/t3ch-N/mAGICAL-clone-sub001/internal/model"
)

// ActionKind groups actions for the permission table.
type ActionKind string

const (
	KindView         ActionKind = "view"
	KindTransition   ActionKind = "transition_to"
	KindAssign       ActionKind = "assign"
	KindAnnotate     ActionKind = "annotate"
	KindManageConfig ActionKind = "manage_config"
	KindManageUsers  ActionKind = "manage_users"
)

// ActionKinds in display order.
var ActionKinds = []ActionKind{KindView, KindTransition, KindAssign, KindAnnotate, KindManageConfig, KindManageUsers}

// Action is what an actor wants to do. Target is set only for transitions.
type Action struct {
	Kind   ActionKind
	Target model.SubmissionStatus
}

var (
	ActionView         = Action{Kind: KindView}
	ActionAssign       = Action{Kind: KindAssign}
	ActionAnnotate     = Action{Kind: KindAnnotate}
	ActionManageConfig = Action{Kind: KindManageConfig}
	ActionManageUsers  = Action{Kind: KindManageUsers}
)

// TransitionTo is the action of moving a submission into target.
func TransitionTo(target model.SubmissionStatus) Action {
	return Action{Kind: KindTransition, Target: target}
}

// Mutating reports whether the action changes state.
func (a Action) Mutating() bool { return a.Kind != KindView }

func (a Action) String() string {
	if a.Kind == KindTransition {
		return string(a.Kind) + "(" + string(a.Target) + ")"
	}
	return string(a.Kind)
}

// ParseAction reads the String form back.
func ParseAction(s string) (Action, bool) {
	if rest, ok := strings.CutPrefix(s, string(KindTransition)+"("); ok {
		target := model.SubmissionStatus(strings.TrimSuffix(rest, ")"))
		if !strings.HasSuffix(rest, ")") || !target.IsValid() {
			return Action{}, false
		}
		return TransitionTo(target), true
	}
	for _, k := range ActionKinds {
		if k != KindTransition && string(k) == s {
			return Action{Kind: k}, true
		}
	}
	return Action{}, false
}
