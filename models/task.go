package models

import (
	"time"
)

// Типы задач
const (
	TaskTypeTask    = "TASK"
	TaskTypeExam    = "EXAM"
	TaskTypeProject = "PROJECT"
	TaskTypeMeeting = "MEETING"
	TaskTypeOther   = "OTHER"
)

// Статусы задач. Порядок сортировки: TODO, IN_PROGRESS, DONE -
// порядок объявления, а не алфавитный.
const (
	TaskStatusTodo       = "TODO"
	TaskStatusInProgress = "IN_PROGRESS"
	TaskStatusDone       = "DONE"
)

// Task - личная задача пользователя. Теги db нужны для sqlx-запроса сортировки.
type Task struct {
	ID          uint       `json:"id" db:"id" gorm:"primaryKey;autoIncrement"`
	Title       string     `json:"title" db:"title" gorm:"not null;size:255"`
	Description string     `json:"description" db:"description"`
	Type        string     `json:"type" db:"type" gorm:"size:20;default:TASK"`
	Subject     string     `json:"subject" db:"subject" gorm:"size:100"`
	DueDate     *time.Time `json:"dueDate" db:"due_date"`
	Status      string     `json:"status" db:"status" gorm:"not null;size:20;default:TODO"`
	Priority    string     `json:"priority" db:"priority" gorm:"size:20"`
	UserID      uint       `json:"userId" db:"user_id" gorm:"not null;index"`
	CreatedAt   time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time  `json:"updatedAt" db:"updated_at"`
}

func (Task) TableName() string {
	return "tasks"
}
