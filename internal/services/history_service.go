package services

import (
	"log"
	"time"

	"github.com/google/uuid"

	"javadocbot/internal/models"
	"javadocbot/internal/repositories"
)

// HistoryService archives completed runs. Archiving failures are logged and
// swallowed: losing a history row must never fail a run that already pushed
// its branch.
type HistoryService struct {
	repo repositories.RunRecordRepository
}

func NewHistoryService(repo repositories.RunRecordRepository) *HistoryService {
	return &HistoryService{repo: repo}
}

// RecordRun appends one archive row for a finished run. runErr, when
// non-nil, marks the row failed and stores the error text.
func (h *HistoryService) RecordRun(report *models.RunReport, startCommit string, startedAt time.Time, runErr error) {
	if h == nil || h.repo == nil {
		return
	}

	record := &models.RunRecord{
		RunID:       uuid.NewString(),
		StartCommit: startCommit,
		Status:      models.RunStatusDone,
		StartedAt:   startedAt,
		FinishedAt:  time.Now(),
	}
	if report != nil {
		record.Mode = string(report.Mode)
		record.HeadCommit = report.HeadCommit
		record.Branch = report.Branch
		record.FilesResolved = report.FilesResolved
		record.FilesDocumented = report.TotalFiles()
		record.ClassesDocumented = report.TotalClasses()
		record.MethodsDocumented = report.TotalMethods()
		record.Failures = len(report.Failures)
		record.DryRun = report.DryRun
	}
	if runErr != nil {
		record.Status = models.RunStatusFailed
		record.Error = runErr.Error()
	}

	if err := h.repo.Create(record); err != nil {
		log.Printf("failed to archive run %s: %v", record.RunID, err)
	}
}

// ListRecent returns the newest archive rows for the history command.
func (h *HistoryService) ListRecent(limit int) ([]models.RunRecord, error) {
	return h.repo.ListRecent(limit)
}
