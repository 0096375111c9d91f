package models

import "time"

// TaskStatus defines the possible statuses for a task.
type TaskStatus string

const (
	TaskPending    TaskStatus = "PENDING"
	TaskInProgress TaskStatus = "IN_PROGRESS"
	TaskCompleted  TaskStatus = "COMPLETED"
	TaskCancelled  TaskStatus = "CANCELLED"
)

// Priority is shared by tasks and tax returns.
type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
	PriorityUrgent Priority = "URGENT"
)

// TaskType classifies where a task came from and what kind of work it is.
type TaskType string

const (
	TaskDocumentRequest TaskType = "DOCUMENT_REQUEST"
	TaskNoticeResponse  TaskType = "NOTICE_RESPONSE"
	TaskPreparation     TaskType = "PREPARATION"
	TaskReviewWork      TaskType = "REVIEW"
	TaskFiling          TaskType = "FILING"
	TaskOther           TaskType = "OTHER"
)

// Task represents a unit of work, created directly by a user or spawned by a
// workflow cascade. CompletedAt is set exactly when the task reaches
// COMPLETED and cleared otherwise.
type Task struct {
	ID           string     `json:"id"`
	ClientID     string     `json:"client_id"`
	TaxReturnID  *string    `json:"tax_return_id,omitempty"`
	EngagementID *string    `json:"engagement_id,omitempty"`
	NoticeID     *string    `json:"notice_id,omitempty"`
	Title        string     `json:"title"`
	Description  string     `json:"description,omitempty"`
	Type         TaskType   `json:"type"`
	Status       TaskStatus `json:"status"`
	Priority     Priority   `json:"priority"`
	AssignedToID string     `json:"assigned_to_id,omitempty"`
	CreatedByID  string     `json:"created_by_id,omitempty"`
	DueDate      *time.Time `json:"due_date,omitempty"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// TaskFilter defines the available parameters for filtering tasks.
type TaskFilter struct {
	AssignedToID *string
	ClientID     *string
	TaxReturnID  *string
	Status       *TaskStatus
	Priority     *Priority
	Type         *TaskType
}
