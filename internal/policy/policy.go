// Package policy holds every role-conditional rule of the dashboard.
// All functions are pure and safe to call without a backend.
package policy

import (
	"taskdash/internal/model"
)

const (
	ReasonAdminBoard       = "Admins cannot change task status by drag and drop."
	ReasonNotAssignee      = "You can only move tasks assigned to you."
	ReasonDeveloperPath    = "Developers can only move tasks from To Do to In Progress and from In Progress to Review."
	ReasonManagerPath      = "Managers can only move tasks from Review to To Do or to Done."
	ReasonDenied           = "Permission denied."
	ReasonDeveloperCreate  = "Developers cannot create tasks."
	ReasonDeveloperDelete  = "Developers cannot delete tasks."
	ReasonAttachmentDelete = "Only admins and managers can delete attachments."
	ReasonAdminUpload      = "Admins cannot upload attachments."
	ReasonEmployeeList     = "Only admins and managers can view employees."
	ReasonEmployeeEdit     = "Only admins can change employee records."
	ReasonUserAdmin        = "Only admins can manage user accounts."
	ReasonRemarkOwner      = "Not allowed to change this remark."

	AdvisoryRemark = "A remark is expected when sending a task back from Review to In Progress."
)

// Decision is the outcome of a policy check. Advisory is informational
// and never affects Allowed.
type Decision struct {
	Allowed  bool   `json:"allowed"`
	Reason   string `json:"reason,omitempty"`
	Advisory string `json:"advisory,omitempty"`
}

type transition struct {
	from, to model.Status
}

var developerMoves = map[transition]bool{
	{model.StatusToDo, model.StatusInProgress}:   true,
	{model.StatusInProgress, model.StatusReview}: true,
}

var managerMoves = map[transition]bool{
	{model.StatusReview, model.StatusToDo}: true,
	{model.StatusReview, model.StatusDone}: true,
}

// CanTransition decides whether a viewer acting as role may drag task
// from one status column to another.
func CanTransition(role model.Role, viewerID string, task model.Task, from, to model.Status) Decision {
	d := decide(role, viewerID, task, from, to)
	if from == model.StatusReview && to == model.StatusInProgress {
		d.Advisory = AdvisoryRemark
	}
	return d
}

func decide(role model.Role, viewerID string, task model.Task, from, to model.Status) Decision {
	move := transition{from, to}

	switch role {
	case model.RoleAdmin:
		return deny(ReasonAdminBoard)
	case model.RoleDeveloper:
		if task.AssignedTo == "" || task.AssignedTo != viewerID {
			return deny(ReasonNotAssignee)
		}
		if developerMoves[move] {
			return allow()
		}
		return deny(ReasonDeveloperPath)
	case model.RoleManager:
		if managerMoves[move] {
			return allow()
		}
		return deny(ReasonManagerPath)
	}
	return deny(ReasonDenied)
}

// CanCreateTask: tasks are created by managers and admins only.
func CanCreateTask(role model.Role) Decision {
	switch role {
	case model.RoleAdmin, model.RoleManager:
		return allow()
	case model.RoleDeveloper:
		return deny(ReasonDeveloperCreate)
	}
	return deny(ReasonDenied)
}

func CanDeleteTask(role model.Role) Decision {
	switch role {
	case model.RoleAdmin, model.RoleManager:
		return allow()
	case model.RoleDeveloper:
		return deny(ReasonDeveloperDelete)
	}
	return deny(ReasonDenied)
}

func CanUploadAttachment(role model.Role) Decision {
	switch role {
	case model.RoleManager, model.RoleDeveloper:
		return allow()
	case model.RoleAdmin:
		return deny(ReasonAdminUpload)
	}
	return deny(ReasonDenied)
}

func CanDeleteAttachment(role model.Role) Decision {
	switch role {
	case model.RoleAdmin, model.RoleManager:
		return allow()
	case model.RoleDeveloper:
		return deny(ReasonAttachmentDelete)
	}
	return deny(ReasonDenied)
}

// CanListEmployees: managers see their own reports, admins everyone.
func CanListEmployees(role model.Role) Decision {
	switch role {
	case model.RoleAdmin, model.RoleManager:
		return allow()
	}
	return deny(ReasonEmployeeList)
}

func CanEditEmployees(role model.Role) Decision {
	if role == model.RoleAdmin {
		return allow()
	}
	return deny(ReasonEmployeeEdit)
}

func CanManageUsers(role model.Role) Decision {
	if role == model.RoleAdmin {
		return allow()
	}
	return deny(ReasonUserAdmin)
}

// CanChangeRemark: a remark belongs to its author; admins may change any.
func CanChangeRemark(role model.Role, viewerID, authorID string) Decision {
	if role == model.RoleAdmin {
		return allow()
	}
	if authorID != "" && authorID == viewerID {
		return allow()
	}
	return deny(ReasonRemarkOwner)
}

func allow() Decision {
	return Decision{Allowed: true}
}

func deny(reason string) Decision {
	return Decision{Reason: reason}
}
