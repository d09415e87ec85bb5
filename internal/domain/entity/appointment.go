package entity

import "time"

// Appointment is one scheduled workshop visit.
type Appointment struct {
	ID           string    `json:"id" firestore:"id"`
	StartsAt     time.Time `json:"starts_at" firestore:"startsAt"`
	Plate        string    `json:"plate,omitempty" firestore:"plate,omitempty"`
	CustomerName string    `json:"customer_name,omitempty" firestore:"customerName,omitempty"`
	Phone        string    `json:"phone,omitempty" firestore:"phone,omitempty"`
	Notes        string    `json:"notes,omitempty" firestore:"notes,omitempty"`
	CreatedBy    string    `json:"created_by,omitempty" firestore:"createdBy,omitempty"`
	CreatedAt    time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt    time.Time `json:"updated_at" firestore:"updatedAt"`
}
