package model

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// FlexID decodes an identifier the backend may send as a JSON string,
// a number or null. It always holds the string form.
type FlexID string

func (id *FlexID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = FlexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id must be a string or number: %w", err)
	}
	*id = FlexID(n.String())
	return nil
}

// MarshalJSON writes numeric identifiers as JSON numbers, the way the
// backend's integer keys expect them.
func (id FlexID) MarshalJSON() ([]byte, error) {
	if id.numeric() {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

func (id FlexID) numeric() bool {
	if id == "" || len(id) > 18 {
		return false
	}
	for _, r := range id {
		if r < '0' || r > '9' {
			return false
		}
	}
	return id == "0" || id[0] != '0'
}

func (id FlexID) String() string {
	return string(id)
}

// TaskRecord is a task exactly as the backend serializes it. The task
// list names the identifier t_id; older payloads use id.
type TaskRecord struct {
	ID              FlexID  `json:"t_id"`
	Title           string  `json:"title"`
	Description     string  `json:"description"`
	Priority        string  `json:"priority"`
	Status          string  `json:"status"`
	CreatedBy       FlexID  `json:"created_by"`
	AssignedTo      FlexID  `json:"assigned_to"`
	AssignedBy      FlexID  `json:"assigned_by"`
	Reviewer        FlexID  `json:"reviewer"`
	ExpectedClosure string  `json:"expected_closure"`
	ActualClosure   *string `json:"actual_closure"`
	UpdatedAt       string  `json:"updated_at,omitempty"`
}

func (r *TaskRecord) UnmarshalJSON(data []byte) error {
	type plain TaskRecord
	var aux struct {
		plain
		LegacyID FlexID `json:"id"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*r = TaskRecord(aux.plain)
	if r.ID == "" {
		r.ID = aux.LegacyID
	}
	return nil
}
