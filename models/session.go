package models

import (
	"time"
)

// Роли участников учебной сессии
const (
	ParticipantHost   = "HOST"
	ParticipantMember = "PARTICIPANT"
)

type StudySession struct {
	ID              uint                 `json:"id" gorm:"primaryKey;autoIncrement"`
	Title           string               `json:"title" gorm:"not null;size:255"`
	Description     string               `json:"description"`
	StartTime       time.Time            `json:"startTime" gorm:"not null;index"`
	EndTime         time.Time            `json:"endTime" gorm:"not null"`
	Mode            string               `json:"mode" gorm:"size:50"`
	MaxParticipants *int                 `json:"maxParticipants"`
	IsPublic        bool                 `json:"isPublic" gorm:"default:true"`
	CreatedByID     uint                 `json:"createdById" gorm:"not null"`
	CreatedBy       *UserSummary         `json:"createdBy,omitempty" gorm:"foreignKey:CreatedByID"`
	Participants    []SessionParticipant `json:"participants,omitempty" gorm:"foreignKey:SessionID"`
	Messages        []Message            `json:"messages,omitempty" gorm:"foreignKey:SessionID"`
	CreatedAt       time.Time            `json:"createdAt"`
	UpdatedAt       time.Time            `json:"updatedAt"`
}

func (StudySession) TableName() string {
	return "study_sessions"
}

// SessionParticipant - связь пользователь/сессия.
// Уникальность (user_id, session_id) обеспечивает идемпотентность повторного join.
type SessionParticipant struct {
	ID        uint         `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID    uint         `json:"userId" gorm:"not null;uniqueIndex:idx_participants_user_session"`
	SessionID uint         `json:"sessionId" gorm:"not null;uniqueIndex:idx_participants_user_session"`
	Role      string       `json:"role" gorm:"not null;size:20"`
	User      *UserSummary `json:"user,omitempty" gorm:"foreignKey:UserID"`
	CreatedAt time.Time    `json:"createdAt"`
}

func (SessionParticipant) TableName() string {
	return "session_participants"
}

// Message - сообщение в чате сессии. Только добавление, без редактирования.
type Message struct {
	ID        uint         `json:"id" gorm:"primaryKey;autoIncrement"`
	Content   string       `json:"content" gorm:"not null"`
	UserID    uint         `json:"userId" gorm:"not null"`
	SessionID uint         `json:"sessionId" gorm:"not null;index"`
	User      *UserSummary `json:"user,omitempty" gorm:"foreignKey:UserID"`
	CreatedAt time.Time    `json:"createdAt"`
}

func (Message) TableName() string {
	return "messages"
}
