package domain

import "time"

// Subscription statuses.
const (
	SubscriptionActive   = "active"
	SubscriptionCanceled = "canceled"
	SubscriptionExpired  = "expired"
)

// Plan is an admin-managed subscription tier.
type Plan struct {
	PlanID     string    `json:"id" dynamodbav:"plan_id"`
	Name       string    `json:"name" dynamodbav:"name"`
	PriceCents int       `json:"price_cents" dynamodbav:"price_cents"`
	PeriodDays int       `json:"period_days" dynamodbav:"period_days"`
	Enable     bool      `json:"enable" dynamodbav:"enable"`
	CreatedAt  time.Time `json:"created" dynamodbav:"created_at"`
	UpdatedAt  time.Time `json:"updated" dynamodbav:"updated_at"`
}

// Subscription ties a user to a plan for a paid period.
type Subscription struct {
	SubscriptionID string    `json:"id" dynamodbav:"subscription_id"`
	UserID         string    `json:"user_id" dynamodbav:"user_id"`
	PlanID         string    `json:"plan_id" dynamodbav:"plan_id"`
	Status         string    `json:"status" dynamodbav:"status"`
	StartsAt       time.Time `json:"starts_at" dynamodbav:"starts_at"`
	EndsAt         time.Time `json:"ends_at" dynamodbav:"ends_at"`
	CreatedAt      time.Time `json:"created" dynamodbav:"created_at"`
	UpdatedAt      time.Time `json:"updated" dynamodbav:"updated_at"`
}

type CreatePlanRequest struct {
	Name       string `json:"name" validate:"required,max=64"`
	PriceCents int    `json:"price_cents" validate:"gte=0"`
	PeriodDays int    `json:"period_days" validate:"required,gte=1"`
}

type UpdatePlanRequest struct {
	Name       *string `json:"name" validate:"omitempty,max=64"`
	PriceCents *int    `json:"price_cents" validate:"omitempty,gte=0"`
	PeriodDays *int    `json:"period_days" validate:"omitempty,gte=1"`
	Enable     *bool   `json:"enable"`
}

type SubscribeRequest struct {
	PlanID string `json:"plan_id" validate:"required"`
}
