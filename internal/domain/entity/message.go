package entity

import "time"

// Message is a single chat message. Immutable once created; removed only by
// the cascade delete of its owning chat.
type Message struct {
	ID          string    `json:"id" firestore:"id"`
	Text        string    `json:"text" firestore:"text"`
	UID         string    `json:"uid" firestore:"uid"`
	DisplayName string    `json:"display_name,omitempty" firestore:"displayName,omitempty"`
	CreatedAt   time.Time `json:"created_at" firestore:"createdAt"`
}
