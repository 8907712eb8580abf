package authz

import "strings"

// Role is the ranked position hierarchy. Higher values outrank lower ones,
// so capability checks are plain comparisons instead of string matching.
type Role int

const (
	RoleUnknown Role = iota
	RoleUser
	RoleTechnician
	RoleSupervisor
	RoleAdmin
)

var roleNames = map[Role]string{
	RoleUser:       "user",
	RoleTechnician: "technician",
	RoleSupervisor: "supervisor",
	RoleAdmin:      "admin",
}

var rolesByName = map[string]Role{
	"user":       RoleUser,
	"technician": RoleTechnician,
	"supervisor": RoleSupervisor,
	"admin":      RoleAdmin,
}

func (r Role) String() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	return "unknown"
}

func RoleFromString(s string) Role {
	if r, ok := rolesByName[strings.ToLower(strings.TrimSpace(s))]; ok {
		return r
	}
	return RoleUnknown
}

func IsValidRoleName(s string) bool {
	_, ok := rolesByName[strings.ToLower(strings.TrimSpace(s))]
	return ok
}

// AtLeast reports whether r outranks or equals other.
func (r Role) AtLeast(other Role) bool { return r >= other }

// CanApprove: supervisors and above decide approval status and run bulk
// completion.
func (r Role) CanApprove() bool { return r.AtLeast(RoleSupervisor) }

// CanSubmitPartOrders: technicians and above push restock orders into review.
func (r Role) CanSubmitPartOrders() bool { return r.AtLeast(RoleTechnician) }

// CanFinalizePartOrders: supervisors and above complete or approve restock orders.
func (r Role) CanFinalizePartOrders() bool { return r.AtLeast(RoleSupervisor) }

// CanAdminister: destructive reset/wipe operations and user management.
func (r Role) CanAdminister() bool { return r.AtLeast(RoleAdmin) }
