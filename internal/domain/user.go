package domain

import "time"

// Role names carried in the user record and checked by the admin route group.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	UserID         string     `json:"id" dynamodbav:"user_id"`
	Username       string     `json:"username" dynamodbav:"username"`
	Email          string     `json:"email" dynamodbav:"email"`
	Phone          *string    `json:"phone,omitempty" dynamodbav:"phone"`
	PasswordHash   string     `json:"-" dynamodbav:"password_hash"`
	Role           string     `json:"role" dynamodbav:"role"`
	Name           string     `json:"name" dynamodbav:"name"`
	Birthday       time.Time  `json:"birthday" dynamodbav:"birthday"`
	EmailConfirmed bool       `json:"email_confirmed" dynamodbav:"email_confirmed"`
	PhoneConfirmed bool       `json:"phone_confirmed" dynamodbav:"phone_confirmed"`
	AuthProvider   string     `json:"auth_provider,omitempty" dynamodbav:"auth_provider"` // "local" | "google"
	GoogleSub      string     `json:"-"                       dynamodbav:"google_sub"`
	Enable         int        `json:"enable" dynamodbav:"enable"`
	DeletedAt      *time.Time `json:"deleted_at,omitempty" dynamodbav:"deleted_at"`
	CreatedAt      time.Time  `json:"created" dynamodbav:"created_at"`
	UpdatedAt      time.Time  `json:"updated" dynamodbav:"updated_at"`
}

type CreateUserRequest struct {
	Username string  `json:"username" validate:"required,min=3,max=32"`
	Password string  `json:"password" validate:"required,min=8,max=72"`
	Email    string  `json:"email" validate:"required,email"`
	Phone    *string `json:"phone"`
	Name     string  `json:"name" validate:"required"`
	Birthday string  `json:"birthday" validate:"required"` // expected format: YYYY-MM-DD
}

type UpdateUserRequest struct {
	Username *string `json:"username" validate:"omitempty,min=3,max=32"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Phone    *string `json:"phone"`
	Name     *string `json:"name"`
	Birthday *string `json:"birthday"` // expected format: YYYY-MM-DD
	Role     *string `json:"role" validate:"omitempty,oneof=user admin"`
	Enable   *int    `json:"enable"` // 1 = enabled, 0 = disabled
}
