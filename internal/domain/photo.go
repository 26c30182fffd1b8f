package domain

import "time"

// Photo is the metadata record for a profile picture stored in S3.
type Photo struct {
	PhotoID     string    `json:"id" dynamodbav:"photo_id"`
	ProfileID   string    `json:"profile_id" dynamodbav:"profile_id"`
	UserID      string    `json:"user_id" dynamodbav:"user_id"`
	Key         string    `json:"-" dynamodbav:"s3_key"`
	URL         string    `json:"url" dynamodbav:"url"`
	ContentType string    `json:"content_type" dynamodbav:"content_type"`
	CreatedAt   time.Time `json:"created" dynamodbav:"created_at"`
}

type UploadPhotoBase64Request struct {
	Filename string `json:"filename" validate:"required"`
	Data     string `json:"data" validate:"required,base64"`
}
