package model

// Employee is an entry of the backend's employee directory.
type Employee struct {
	ID          FlexID `json:"e_id"`
	Name        string `json:"name"`
	FullName    string `json:"full_name,omitempty"`
	Email       string `json:"email"`
	Designation string `json:"designation,omitempty"`
	ManagerID   FlexID `json:"mgr_id,omitempty"`
}

// DisplayName falls back to the full_name spelling some records use.
func (e Employee) DisplayName() string {
	if e.Name != "" {
		return e.Name
	}
	return e.FullName
}

// EmployeeInput is the body of employee create and update calls.
type EmployeeInput struct {
	Name        string `json:"name,omitempty"`
	Email       string `json:"email,omitempty"`
	Designation string `json:"designation,omitempty"`
	ManagerID   FlexID `json:"mgr_id,omitempty"`
}

// User is a login account. The backend also returns the password,
// which is never decoded.
type User struct {
	ID     FlexID   `json:"e_id"`
	Roles  []string `json:"roles"`
	Status string   `json:"status"`
}

// UserUpdate is the body of a user update call.
type UserUpdate struct {
	Roles  []string `json:"roles,omitempty"`
	Status string   `json:"status,omitempty"`
}
