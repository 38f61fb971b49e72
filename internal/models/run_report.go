package models

// DocumentedFile records what one file received during a session.
type DocumentedFile struct {
	Path     string   `json:"path"`
	Classes  int      `json:"classes"`
	Methods  int      `json:"methods"`
	Elements []string `json:"elements"`
}

// FileFailure records a file-level failure that did not abort the run.
type FileFailure struct {
	Path   string `json:"path"`
	Reason string `json:"reason"`
}

// RunReport accumulates during a documentation session and is delivered once
// at the end. It is never persisted as decision input; the run history
// archive keeps a summarized copy for operators.
type RunReport struct {
	Date          string           `json:"date"`
	Mode          ResolveMode      `json:"mode"`
	HeadCommit    string           `json:"head_commit"`
	Branch        string           `json:"branch,omitempty"`
	Pushed        bool             `json:"pushed"`
	DryRun        bool             `json:"dry_run"`
	FilesResolved int              `json:"files_resolved"`
	Files         []DocumentedFile `json:"files"`
	Failures      []FileFailure    `json:"failures"`
}

// TotalFiles returns the number of files that actually received documentation.
func (r *RunReport) TotalFiles() int { return len(r.Files) }

// TotalClasses sums documented classes across files.
func (r *RunReport) TotalClasses() int {
	n := 0
	for _, f := range r.Files {
		n += f.Classes
	}
	return n
}

// TotalMethods sums documented methods across files.
func (r *RunReport) TotalMethods() int {
	n := 0
	for _, f := range r.Files {
		n += f.Methods
	}
	return n
}

// TotalElements sums all documented elements across files.
func (r *RunReport) TotalElements() int {
	return r.TotalClasses() + r.TotalMethods()
}
