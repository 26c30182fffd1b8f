package domain

// Verification types.
const (
	VerificationEmail = "email"
	VerificationPhone = "phone"
)

// UserVerification is a short-lived confirmation code. ExpiresAt doubles as
// the DynamoDB TTL attribute so stale codes disappear on their own.
type UserVerification struct {
	UserID    string `dynamodbav:"user_id"`
	Type      string `dynamodbav:"type"`
	Code      string `dynamodbav:"code"`
	ExpiresAt int64  `dynamodbav:"expires_at"`
}
