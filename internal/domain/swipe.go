package domain

import "time"

// Swipe types.
const (
	SwipeLike = "like"
	SwipePass = "pass"
)

// Swipe outcomes returned to the client. A like that completes a mutual pair
// is reported as a match.
const (
	OutcomePass  = "pass"
	OutcomeLike  = "like"
	OutcomeMatch = "match"
)

// Swipe is an append-only event: one item per decision the user takes.
// The set of a user's swipes within a calendar day drives the stack quota.
type Swipe struct {
	SwipeID   string    `json:"id" dynamodbav:"swipe_id"`
	UserID    string    `json:"user_id" dynamodbav:"user_id"`
	ProfileID string    `json:"profile_id" dynamodbav:"profile_id"`
	Type      string    `json:"type" dynamodbav:"type"`
	CreatedAt time.Time `json:"created" dynamodbav:"created_at"`
}

type CreateSwipeRequest struct {
	ProfileID string `json:"profile_id" validate:"required"`
	Type      string `json:"type" validate:"required,oneof=like pass"`
}
