package models

import "time"

// Terminal statuses for an archived run.
const (
	RunStatusDone   = "done"
	RunStatusFailed = "failed"
)

// RunRecord is the per-run row appended to the history archive. It exists for
// operators only; the resolver and session never read it.
type RunRecord struct {
	ID                uint   `gorm:"primaryKey"`
	RunID             string `gorm:"size:36;uniqueIndex"`
	Mode              string `gorm:"size:16"`
	StartCommit       string `gorm:"size:64"`
	HeadCommit        string `gorm:"size:64"`
	Branch            string `gorm:"size:255"`
	FilesResolved     int
	FilesDocumented   int
	ClassesDocumented int
	MethodsDocumented int
	Failures          int
	DryRun            bool
	Status            string `gorm:"size:16;index"`
	Error             string `gorm:"type:text"`
	StartedAt         time.Time
	FinishedAt        time.Time
}
