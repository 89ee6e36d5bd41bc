package model

// Remark is a comment on a task, optionally carrying one file. The
// backend keys remarks by document id.
type Remark struct {
	ID        FlexID `json:"_id"`
	TaskID    FlexID `json:"task_id"`
	Comment   string `json:"comment"`
	AuthorID  FlexID `json:"e_id"`
	FileID    string `json:"file_id,omitempty"`
	FileName  string `json:"file_name,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
	UpdatedAt string `json:"updated_at,omitempty"`
}

// Notification is an unread remark on a task the viewer follows.
type Notification struct {
	ID        FlexID `json:"_id"`
	TaskID    FlexID `json:"task_id"`
	TaskTitle string `json:"task_title,omitempty"`
	Comment   string `json:"comment,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
}
