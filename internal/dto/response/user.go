package response

import (
	"time"

	"catalog-review/internal/data/entity"
)

// UserResponse is the public view of a user. The password hash has no field here.
type UserResponse struct {
	ID        string           `json:"id"`
	Email     string           `json:"email"`
	Name      string           `json:"name"`
	Age       *int             `json:"age"`
	CreatedAt time.Time        `json:"createdAt"`
	UpdatedAt time.Time        `json:"updatedAt"`
	Reviews   []ReviewResponse `json:"reviews,omitempty"`
}

type AuthResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      UserResponse `json:"user"`
}

// Helper converters
func UserToResponse(user *entity.User) UserResponse {
	return UserResponse{
		ID:        user.ID.String(),
		Email:     user.Email,
		Name:      user.Name,
		Age:       user.Age,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}

func UsersToResponse(users []*entity.User) []UserResponse {
	result := make([]UserResponse, len(users))
	for i, user := range users {
		result[i] = UserToResponse(user)
	}
	return result
}
