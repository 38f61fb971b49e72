package models

import "time"

// Cumulative counter names persisted in the run state record.
const (
	StatFilesProcessed     = "files_processed"
	StatClassesDocumented  = "classes_documented"
	StatMethodsDocumented  = "methods_documented"
	StatElementsDocumented = "elements_documented"
	StatRunsCompleted      = "runs_completed"
)

// RunState is the durable record consulted before a run and committed after a
// successful one. LastCommit is empty exactly when IsFirstRun is true.
type RunState struct {
	LastCommit string         `json:"last_commit,omitempty"`
	IsFirstRun bool           `json:"is_first_run"`
	LastRunAt  *time.Time     `json:"last_run_at,omitempty"`
	TotalRuns  int            `json:"total_runs"`
	Stats      map[string]int `json:"cumulative_stats"`
}

// NewRunState returns the state of a system that has never run.
func NewRunState() *RunState {
	return &RunState{
		IsFirstRun: true,
		Stats: map[string]int{
			StatFilesProcessed:     0,
			StatClassesDocumented:  0,
			StatMethodsDocumented:  0,
			StatElementsDocumented: 0,
			StatRunsCompleted:      0,
		},
	}
}

// Clone returns a deep copy so a failed run can never leak mutations into the
// loaded state.
func (s *RunState) Clone() *RunState {
	out := *s
	out.Stats = make(map[string]int, len(s.Stats))
	for k, v := range s.Stats {
		out.Stats[k] = v
	}
	if s.LastRunAt != nil {
		at := *s.LastRunAt
		out.LastRunAt = &at
	}
	return &out
}

// Advance folds a completed run into the state: the head commit becomes the
// new baseline and the counters grow monotonically.
func (s *RunState) Advance(headCommit string, at time.Time, report *RunReport) *RunState {
	next := s.Clone()
	next.LastCommit = headCommit
	next.IsFirstRun = false
	next.LastRunAt = &at
	next.TotalRuns++
	next.Stats[StatFilesProcessed] += report.TotalFiles()
	next.Stats[StatClassesDocumented] += report.TotalClasses()
	next.Stats[StatMethodsDocumented] += report.TotalMethods()
	next.Stats[StatElementsDocumented] += report.TotalElements()
	next.Stats[StatRunsCompleted]++
	return next
}
