package model

import (
	"encoding/json"
	"time"
)

// Submission is the persisted waitlist record. Rows are append-only: the
// intake pipeline inserts them and nothing in this codebase updates or
// deletes them afterwards.
type Submission struct {
	ID string `json:"id" gorm:"primaryKey;type:text;not null"`

	Role  string `json:"role" gorm:"not null;size:50;index"`
	Name  string `json:"name" gorm:"not null;size:255"`
	Email string `json:"email" gorm:"not null;size:255;index"`

	ProjectName     string          `json:"project_name,omitempty" gorm:"size:255"`
	ProjectLink     string          `json:"project_link,omitempty" gorm:"size:512"`
	NetworkName     string          `json:"network_name,omitempty" gorm:"size:255"`
	NumGPUs         int             `json:"num_gpus,omitempty"`
	HardwareType    json.RawMessage `json:"hardware_type,omitempty" gorm:"type:jsonb"`
	Stage           string          `json:"stage,omitempty" gorm:"size:50"`
	RoleDescription string          `json:"role_description,omitempty" gorm:"type:text"`
	Twitter         string          `json:"twitter,omitempty" gorm:"size:255"`
	Telegram        string          `json:"telegram,omitempty" gorm:"size:255"`

	// Request metadata, advisory only.
	IP                string    `json:"ip" gorm:"size:64"`
	UserAgent         string    `json:"user_agent" gorm:"size:512"`
	Country           string    `json:"country" gorm:"size:64"`
	ReceivedAt        time.Time `json:"received_at" gorm:"not null"`
	RemainingAttempts int       `json:"remaining_attempts"`

	CreatedAt time.Time `json:"created_at" gorm:"not null"`
}
