package dto

import "github.com/spec-kit/helpdesk-service/internal/domain"

// UserResponse is the account representation. Password hashes never
// leave the server.
type UserResponse struct {
	ID           int64  `json:"id"`
	Email        string `json:"email"`
	Role         string `json:"role"`
	Associations string `json:"associations"`
}

// NewUserResponse maps a user.
func NewUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:           user.ID,
		Email:        user.Email,
		Role:         string(user.Role),
		Associations: user.Associations,
	}
}

// NewUserResponses maps a slice of users.
func NewUserResponses(users []domain.User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for i := range users {
		out = append(out, NewUserResponse(&users[i]))
	}
	return out
}

// UpdateRoleRequest carries a role change.
type UpdateRoleRequest struct {
	Role string `json:"role"`
}

// UpdateAssociationsRequest carries an associations change.
type UpdateAssociationsRequest struct {
	Associations string `json:"associations"`
}

// UpdatePasswordRequest carries an admin-set password change.
type UpdatePasswordRequest struct {
	NewPassword string `json:"new_password"`
}

// UpdateSelfPasswordRequest carries a self-service password change.
type UpdateSelfPasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}
