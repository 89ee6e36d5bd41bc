package model

// Attachment belongs to exactly one task and is never mutated.
type Attachment struct {
	ID         FlexID `json:"id"`
	TaskID     FlexID `json:"task_id"`
	Filename   string `json:"filename"`
	Remark     string `json:"remark,omitempty"`
	UploadedBy FlexID `json:"created_by,omitempty"`
	CreatedAt  string `json:"created_at,omitempty"`
}
