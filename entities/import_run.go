package entities

import (
	"time"

	"gorm.io/datatypes"
)

const (
	ImportRunning   = "running"
	ImportSucceeded = "succeeded"
	ImportFailed    = "failed"
)

// ImportRun is the audit row of one import attempt. It is written outside the
// import transaction so failed attempts are kept.
type ImportRun struct {
	ID         string            `gorm:"primaryKey;size:36" json:"id"`
	UserID     string            `gorm:"index" json:"user_id"`
	Status     string            `gorm:"index" json:"status"` // running|succeeded|failed
	ErrorKind  string            `json:"error_kind,omitempty"`
	Error      string            `json:"error,omitempty"`
	Counts     datatypes.JSONMap `json:"counts,omitempty"`
	BackupKey  string            `json:"backup_key,omitempty"`
	StartedAt  time.Time         `gorm:"index" json:"started_at"`
	FinishedAt *time.Time        `json:"finished_at,omitempty"`
}
