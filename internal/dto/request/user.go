package request

type CreateUserRequest struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Name     string `json:"name" validate:"required,max=255"`
	Age      *int   `json:"age,omitempty" validate:"omitnil,min=0,max=150"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

// UpdateUserRequest is a partial update; absent fields keep their value.
type UpdateUserRequest struct {
	Email    *string `json:"email,omitempty" validate:"omitnil,email,max=255"`
	Name     *string `json:"name,omitempty" validate:"omitnil,min=1,max=255"`
	Age      *int    `json:"age,omitempty" validate:"omitnil,min=0,max=150"`
	Password *string `json:"password,omitempty" validate:"omitnil,min=6,max=72"`
}

func (r UpdateUserRequest) IsEmpty() bool {
	return r.Email == nil && r.Name == nil && r.Age == nil && r.Password == nil
}

// UserListQuery holds the GET /users query string.
type UserListQuery struct {
	Name           *string
	Email          *string
	Age            *int
	IncludeReviews bool
}
