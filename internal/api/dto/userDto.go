package dto

import "reviewhub/internal/api/models"

// CreateUserDTO for POST /api/v1/users (admin only)
type CreateUserDTO struct {
	Username string      `json:"username" binding:"required,max=150"`
	Email    string      `json:"email" binding:"required,email,max=254"`
	Bio      string      `json:"bio"`
	Role     models.Role `json:"role"`
}

// UpdateUserDTO is one shared shape for PATCH /users/{username} and
// PATCH /users/me. Which fields are actually applied depends on the
// caller's role: Role is dropped for non-admin callers.
type UpdateUserDTO struct {
	Username *string      `json:"username,omitempty" binding:"omitempty,max=150"`
	Email    *string      `json:"email,omitempty" binding:"omitempty,email,max=254"`
	Bio      *string      `json:"bio,omitempty"`
	Role     *models.Role `json:"role,omitempty"`
}

type UserResponse struct {
	Username string      `json:"username"`
	Email    string      `json:"email"`
	Bio      string      `json:"bio"`
	Role     models.Role `json:"role"`
}

// FromModelToUserResponse converts a User model to UserResponse DTO
func FromModelToUserResponse(user *models.User) *UserResponse {
	return &UserResponse{
		Username: user.Username,
		Email:    user.Email,
		Bio:      user.Bio,
		Role:     user.Role,
	}
}
