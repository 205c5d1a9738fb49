package user

// AdminUserRow is the shape exposed to the owner's user administration view.
// Email is intentionally omitted from the admin listing.
type AdminUserRow struct {
	ID        string  `json:"id"`
	Name      *string `json:"name"`
	GameName  *string `json:"gameName"`
	Role      Role    `json:"role"`
	Active    bool    `json:"active"`
	DiscordID *string `json:"discordId"`
}

// DirectoryRow is the shape returned to managers for user filters.
type DirectoryRow struct {
	ID       string  `json:"id"`
	Name     *string `json:"name"`
	GameName *string `json:"gameName"`
	Role     Role    `json:"role"`
}

// ProfileResponse is the caller's own account view.
type ProfileResponse struct {
	ID       string  `json:"id"`
	Name     *string `json:"name"`
	GameName *string `json:"gameName"`
	Role     Role    `json:"role"`
	Active   bool    `json:"active"`
}

// UpdateUserRequest carries the owner-editable fields. Nil means unchanged.
type UpdateUserRequest struct {
	Role     *string `json:"role"`
	Active   *bool   `json:"active"`
	GameName *string `json:"gameName"`
}

// UpdateProfileRequest carries the self-editable fields.
type UpdateProfileRequest struct {
	GameName string `json:"gameName"`
}

func NewAdminUserRow(u User) AdminUserRow {
	return AdminUserRow{
		ID:        u.ID,
		Name:      u.Name,
		GameName:  u.GameName,
		Role:      u.Role,
		Active:    u.Active,
		DiscordID: u.DiscordID,
	}
}

func NewProfileResponse(u User) ProfileResponse {
	return ProfileResponse{
		ID:       u.ID,
		Name:     u.Name,
		GameName: u.GameName,
		Role:     u.Role,
		Active:   u.Active,
	}
}
