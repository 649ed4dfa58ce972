package model

import (
	"time"

	"gorm.io/datatypes"
)

// Log table logs, written by the zap database core
type Log struct {
	LogID     int64          `gorm:"primaryKey;autoIncrement"           json:"log_id"`
	Level     string         `gorm:"type:varchar(10);not null"          json:"level"`
	Message   string         `gorm:"type:text;not null"                 json:"message"`
	Context   datatypes.JSON `gorm:"type:jsonb"                         json:"context,omitempty"`
	UserID    *string        `gorm:"type:uuid"                          json:"user_id,omitempty"`
	IP        *string        `gorm:"column:ip;type:varchar(45)"         json:"ip,omitempty"`
	CreatedAt time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	User      *User          `gorm:"foreignKey:UserID;references:UserID" json:"user,omitempty"`
}

func (Log) TableName() string { return "logs" }

// Auth event kinds
const (
	AuthEventLogin  = "login"
	AuthEventLogout = "logout"
)

// AuthEvent table auth_events, source of teacher login/logout times
type AuthEvent struct {
	EventID    string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"event_id"`
	UserID     string    `gorm:"type:uuid;not null"                             json:"user_id"`
	Event      string    `gorm:"type:varchar(10);not null"                      json:"event"`
	IP         string    `gorm:"column:ip;type:varchar(45);not null;default:''" json:"ip"`
	UserAgent  string    `gorm:"type:varchar(255);not null;default:''"          json:"user_agent"`
	OccurredAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"occurred_at"`
}

func (AuthEvent) TableName() string { return "auth_events" }
