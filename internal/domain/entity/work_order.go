package entity

import "time"

const (
	BudgetStatusPending   = "pending"
	BudgetStatusApproved  = "approved"
	BudgetStatusRejected  = "rejected"
	BudgetStatusFinalized = "finalized"
)

// WorkOrder is one workshop job: the customer intake questionnaire plus the
// diagnostic checklist and parts tracking that accumulate on it. Data holds
// the free-form questionnaire fields; missing keys are treated as empty.
type WorkOrder struct {
	ID           string                 `json:"id" firestore:"id"`
	Data         map[string]interface{} `json:"data" firestore:"data"`
	Checklist    map[string]interface{} `json:"checklist,omitempty" firestore:"checklist,omitempty"`
	Parts        []PartOrder            `json:"parts,omitempty" firestore:"parts,omitempty"`
	BudgetStatus string                 `json:"budget_status" firestore:"budgetStatus"`
	CreatedBy    string                 `json:"created_by,omitempty" firestore:"createdBy,omitempty"`
	CreatedAt    time.Time              `json:"created_at" firestore:"createdAt"`
	UpdatedAt    time.Time              `json:"updated_at" firestore:"updatedAt"`
}

// PartOrder tracks one spare part requested for a work order.
type PartOrder struct {
	Name      string `json:"name" firestore:"name"`
	Reference string `json:"reference,omitempty" firestore:"reference,omitempty"`
	Quantity  int    `json:"quantity" firestore:"quantity"`
	Status    string `json:"status" firestore:"status"` // "requested", "ordered", "received"
}

func (w *WorkOrder) stringField(key string) string {
	if w.Data == nil {
		return ""
	}
	if v, ok := w.Data[key].(string); ok {
		return v
	}
	return ""
}

func (w *WorkOrder) Plate() string        { return w.stringField("plate") }
func (w *WorkOrder) OrderNumber() string  { return w.stringField("orderNumber") }
func (w *WorkOrder) CustomerName() string { return w.stringField("customerName") }
