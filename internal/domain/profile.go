package domain

import "time"

// Profile is the card shown in the browsing stack. Each user owns at most one.
type Profile struct {
	ProfileID   string    `json:"id" dynamodbav:"profile_id"`
	UserID      string    `json:"user_id" dynamodbav:"user_id"`
	DisplayName string    `json:"display_name" dynamodbav:"display_name"`
	Gender      string    `json:"gender" dynamodbav:"gender"`
	Bio         string    `json:"bio" dynamodbav:"bio"`
	City        string    `json:"city" dynamodbav:"city"`
	PhotoURL    string    `json:"photo_url,omitempty" dynamodbav:"photo_url"`
	CreatedAt   time.Time `json:"created" dynamodbav:"created_at"`
	UpdatedAt   time.Time `json:"updated" dynamodbav:"updated_at"`
}

type CreateProfileRequest struct {
	DisplayName string `json:"display_name" validate:"required,max=64"`
	Gender      string `json:"gender" validate:"required,oneof=male female other"`
	Bio         string `json:"bio" validate:"max=500"`
	City        string `json:"city" validate:"max=64"`
}

type UpdateProfileRequest struct {
	DisplayName *string `json:"display_name" validate:"omitempty,max=64"`
	Gender      *string `json:"gender" validate:"omitempty,oneof=male female other"`
	Bio         *string `json:"bio" validate:"omitempty,max=500"`
	City        *string `json:"city" validate:"omitempty,max=64"`
	PhotoURL    *string `json:"photo_url"`
}
