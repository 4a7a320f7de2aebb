package domain

import "time"

type TaskStatus string

const (
	TaskOpen      TaskStatus = "open"
	TaskCompleted TaskStatus = "completed"
)

func (s TaskStatus) Valid() bool {
	return s == TaskOpen || s == TaskCompleted
}

// Task pertence a uma conta. Invariante: CompletedAt está preenchido
// se e somente se Status == completed. Tasks não geram touches.
type Task struct {
	ID          int        `json:"id"`
	AccountID   int        `json:"account_id"`
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	DueDate     *Date      `json:"due_date"`
	Status      TaskStatus `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at"`
	Synced      bool       `json:"synced_to_sheets"`
}

type CreateTaskRequest struct {
	AccountID   int     `json:"account_id"`
	Title       string  `json:"title"`
	Description *string `json:"description"`
	DueDate     *Date   `json:"due_date"`
}

type UpdateTaskRequest struct {
	ID          int            `json:"-"`
	Title       OptionalString `json:"title"`
	Description OptionalString `json:"description"`
	DueDate     OptionalDate   `json:"due_date"`
	Status      OptionalString `json:"status"`
}
