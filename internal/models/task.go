package models

import "time"

// TaskStatus is the workflow column a task sits in.
type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "todo"
	TaskStatusInProgress TaskStatus = "in-progress"
	TaskStatusInReview   TaskStatus = "in-review"
	TaskStatusDone       TaskStatus = "done"
)

// TaskPriority ranks tasks within a project.
type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
)

// Task is a unit of work with an optional assignee and dependencies on other
// tasks.
type Task struct {
	BaseModel `bson:",inline"`

	Title        string       `gorm:"not null" json:"title" bson:"title"`
	Description  string       `json:"description" bson:"description"`
	Status       TaskStatus   `gorm:"size:16;index;not null;default:todo" json:"status" bson:"status"`
	Priority     TaskPriority `gorm:"size:16;not null;default:medium" json:"priority" bson:"priority"`
	DueDate      *time.Time   `json:"dueDate,omitempty" bson:"dueDate,omitempty"`
	AssigneeID   *string      `gorm:"size:36;index" json:"assigneeId,omitempty" bson:"assignee,omitempty"`
	AssigneeName string       `json:"assigneeName" bson:"assigneeName"`
	CreatedByID  *string      `gorm:"size:36" json:"createdById,omitempty" bson:"createdBy,omitempty"`
	ProjectID    string       `gorm:"size:36;index" json:"projectId,omitempty" bson:"projectId,omitempty"`

	DependencyIDs []string `gorm:"-" json:"dependencyIds" bson:"dependencies"`

	Assignee     *UserSummary `gorm:"-" json:"assignee,omitempty" bson:"-"`
	CreatedBy    *UserSummary `gorm:"-" json:"createdBy,omitempty" bson:"-"`
	Dependencies []Task       `gorm:"-" json:"dependencies,omitempty" bson:"-"`
}

// TaskDependency is the join row backing Task.DependencyIDs in the relational
// store.
type TaskDependency struct {
	TaskID      string `gorm:"primaryKey;size:36"`
	DependsOnID string `gorm:"primaryKey;size:36;index"`
	Position    int    `gorm:"not null;default:0"`
}
