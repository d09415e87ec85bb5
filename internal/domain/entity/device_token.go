package entity

import "time"

// DeviceToken is one push registration for a user's browser or device.
// The token value is the natural key: re-registering the same token
// overwrites the existing record.
type DeviceToken struct {
	UID       string    `json:"uid" firestore:"uid"`
	Token     string    `json:"token" firestore:"token"`
	UserAgent string    `json:"user_agent,omitempty" firestore:"userAgent,omitempty"`
	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updated_at" firestore:"updatedAt"`
}
