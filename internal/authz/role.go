// Package authz decides which actors may act on which accreditation modules.
package authz

// Role is the tagged enumeration of staff and public roles.
type Role string

const (
	RoleAdmin              Role = "admin"
	RoleTournamentDirector Role = "tournament_director"
	RoleChiefMarshal       Role = "chief_marshal"
	RoleOperationsManager  Role = "operations_manager"
	RoleWebmaster          Role = "webmaster"
	RoleAreaSupervisor     Role = "area_supervisor"
	RoleMediaOfficer       Role = "media_officer"
	RoleProAmCoordinator   Role = "proam_coordinator"
	RoleProcurementOfficer Role = "procurement_officer"
	RoleHROfficer          Role = "hr_officer"
	RoleViewer             Role = "viewer"
	RolePublic             Role = "public"
)

// roleRanks orders roles; a higher rank may approve role requests for lower ranks.
var roleRanks = map[Role]int{
	RoleAdmin:              100,
	RoleTournamentDirector: 90,
	RoleChiefMarshal:       80,
	RoleOperationsManager:  70,
	RoleWebmaster:          60,
	RoleAreaSupervisor:     50,
	RoleMediaOfficer:       40,
	RoleProAmCoordinator:   40,
	RoleProcurementOfficer: 40,
	RoleHROfficer:          40,
	RoleViewer:             10,
	RolePublic:             0,
}

// Roles lists every role from highest to lowest rank.
var Roles = []Role{
	RoleAdmin, RoleTournamentDirector, RoleChiefMarshal, RoleOperationsManager,
	RoleWebmaster, RoleAreaSupervisor, RoleMediaOfficer, RoleProAmCoordinator,
	RoleProcurementOfficer, RoleHROfficer, RoleViewer, RolePublic,
}

// ManagementRoles may invoke every transition and assignment on every module.
var ManagementRoles = []Role{RoleAdmin, RoleTournamentDirector, RoleChiefMarshal, RoleOperationsManager}

// IsValid reports whether r is known.
func (r Role) IsValid() bool {
	_, ok := roleRanks[r]
	return ok
}

// Rank of r; unknown roles rank below public.
func (r Role) Rank() int {
	if n, ok := roleRanks[r]; ok {
		return n
	}
	return -1
}

// Outranks reports whether r sits strictly above other.
func (r Role) Outranks(other Role) bool {
	return r.Rank() > other.Rank()
}

// IsManagement reports whether r is one of ManagementRoles.
func (r Role) IsManagement() bool {
	for _, m := range ManagementRoles {
		if m == r {
			return true
		}
	}
	return false
}

// ApprovalStatus is the vetting state of an actor's role.
type ApprovalStatus string

const (
	StatusPending  ApprovalStatus = "pending"
	StatusApproved ApprovalStatus = "approved"
	StatusRejected ApprovalStatus = "rejected"
)

// IsValid reports whether s is known.
func (s ApprovalStatus) IsValid() bool {
	return s == StatusPending || s == StatusApproved || s == StatusRejected
}

// Actor is the resolved identity performing an operation. It is passed
// explicitly into every service call; nothing reads it from ambient state.
type Actor struct {
	ID     string
	Role   Role
	Status ApprovalStatus
}

// PublicActor is the unauthenticated applicant.
var PublicActor = Actor{ID: "public", Role: RolePublic, Status: StatusApproved}

// IsApproved reports whether the actor's role has been vetted.
func (a Actor) IsApproved() bool { return a.Status == StatusApproved }
