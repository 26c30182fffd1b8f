package domain

import "time"

// Notification kinds.
const (
	NotificationMatch = "match"
)

type Notification struct {
	NotificationID string    `json:"id" dynamodbav:"notification_id"`
	UserID         string    `json:"user_id" dynamodbav:"user_id"`
	Kind           string    `json:"kind" dynamodbav:"kind"`
	Title          string    `json:"title" dynamodbav:"title"`
	Body           string    `json:"body" dynamodbav:"body"`
	Readed         bool      `json:"readed" dynamodbav:"readed"`
	CreatedAt      time.Time `json:"created" dynamodbav:"created_at"`
	UpdatedAt      time.Time `json:"updated" dynamodbav:"updated_at"`
}
