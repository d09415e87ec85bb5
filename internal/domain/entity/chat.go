package entity

import "time"

// Chat is the root summary document for a work order's messaging thread.
// It is created lazily on first access and carries denormalized work order
// metadata so chat lists can render without extra reads.
type Chat struct {
	ID            string    `json:"id" firestore:"id"`
	WorkOrderID   string    `json:"work_order_id" firestore:"workOrderId"`
	LastMessage   string    `json:"last_message,omitempty" firestore:"lastMessage,omitempty"`
	LastSenderUID string    `json:"last_sender_uid,omitempty" firestore:"lastSenderUid,omitempty"`
	Plate         string    `json:"plate,omitempty" firestore:"plate,omitempty"`
	OrderNumber   string    `json:"order_number,omitempty" firestore:"orderNumber,omitempty"`
	CustomerName  string    `json:"customer_name,omitempty" firestore:"customerName,omitempty"`
	BudgetStatus  string    `json:"budget_status,omitempty" firestore:"budgetStatus,omitempty"`
	CreatedAt     time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt     time.Time `json:"updated_at" firestore:"updatedAt"`
}

// Channel is a named sub-thread under a chat. Every chat has at least the
// "general" channel; messages always live under a channel, never on the root.
type Channel struct {
	ID            string    `json:"id" firestore:"id"`
	Name          string    `json:"name" firestore:"name"`
	LastMessage   string    `json:"last_message,omitempty" firestore:"lastMessage,omitempty"`
	LastSenderUID string    `json:"last_sender_uid,omitempty" firestore:"lastSenderUid,omitempty"`
	UpdatedAt     time.Time `json:"updated_at" firestore:"updatedAt"`
}

// ReadMarker is a per-viewer bookmark, keyed by the viewer's uid under the
// chat. Only the owning viewer ever writes it.
type ReadMarker struct {
	LastReadAt time.Time `json:"last_read_at" firestore:"lastReadAt"`
}

// DefaultChannelName is the implicit channel used when no named sub-threads
// are configured.
const DefaultChannelName = "general"
