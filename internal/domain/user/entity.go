package user

import "time"

type Role string

const (
	RoleDueno     Role = "DUENO"     // Business owner - full access
	RoleEncargado Role = "ENCARGADO" // Manager - can review team activity
	RoleEmpleado  Role = "EMPLEADO"  // Regular employee
	RoleVisitante Role = "VISITANTE" // No privileges, default for new signups
)

// ValidRole reports whether s is one of the known roles.
func ValidRole(s string) bool {
	switch Role(s) {
	case RoleDueno, RoleEncargado, RoleEmpleado, RoleVisitante:
		return true
	}
	return false
}

type User struct {
	ID        string
	Name      *string
	GameName  *string
	Email     *string
	DiscordID *string
	Role      Role
	Active    bool
	// CurrentShiftStart is set if and only if the user has an open shift.
	CurrentShiftStart *time.Time
	DisabledAt        *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// IsOwner checks if the user holds the top-privilege role.
func (u *User) IsOwner() bool {
	return u.Role == RoleDueno
}

// IsManager checks if the user can review team data.
func (u *User) IsManager() bool {
	return u.Role == RoleEncargado || u.Role == RoleDueno
}

// IsStaff checks if the user counts toward hour aggregation.
func (u *User) IsStaff() bool {
	return u.Role != RoleVisitante
}

// DisplayName prefers the in-game alias over the account name.
func (u *User) DisplayName() string {
	if u.GameName != nil && *u.GameName != "" {
		return *u.GameName
	}
	if u.Name != nil && *u.Name != "" {
		return *u.Name
	}
	return "Usuario"
}
