package entity

import "time"

// FileMetadata records one stored document or image for a work order.
type FileMetadata struct {
	ID          string    `json:"id" firestore:"id"`
	URL         string    `json:"url" firestore:"url"`
	ObjectName  string    `json:"object_name" firestore:"objectName"`
	WorkOrderID string    `json:"work_order_id" firestore:"workOrderId"`
	Category    string    `json:"category" firestore:"category"` // "document" or "image"
	UploadedBy  string    `json:"uploaded_by" firestore:"uploadedBy"`
	Filename    string    `json:"filename" firestore:"filename"`
	FileType    string    `json:"file_type" firestore:"fileType"`
	FileSize    int64     `json:"file_size" firestore:"fileSize"`
	CreatedAt   time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt   time.Time `json:"updated_at,omitempty" firestore:"updatedAt"`
}
