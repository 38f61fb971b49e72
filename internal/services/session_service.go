package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"time"

	"javadocbot/internal/javaparse"
	"javadocbot/internal/llm/client"
	"javadocbot/internal/models"
)

// SourceProvider is the slice of GitService the session needs: file access
// in the working clone plus publication of the documentation branch.
type SourceProvider interface {
	ReadFile(relPath string) (string, error)
	WriteFile(relPath, content string) error
	TrackedBranch() string
	DocumentationBranchName(date string) string
	CreateDocumentationBranch(name string) error
	CommitAndPush(message, branchName string) (bool, error)
}

// SessionOptions bound a single run.
type SessionOptions struct {
	MaxFiles          int
	MaxMethodsPerFile int
	ContextLines      int
	UpdateExisting    bool
	DryRun            bool
	// InfraFatal escalates every generation failure to run-aborting, not
	// just the infrastructural ones.
	InfraFatal bool
}

// SessionService executes one documentation run over a resolved change set:
// parse each file, generate Javadoc for the undocumented elements, and
// publish the results on a date-stamped branch.
type SessionService struct {
	source    SourceProvider
	generator client.Generator
	opts      SessionOptions
	now       func() time.Time
}

func NewSessionService(source SourceProvider, generator client.Generator, opts SessionOptions) *SessionService {
	if opts.ContextLines <= 0 {
		opts.ContextLines = 20
	}
	return &SessionService{
		source:    source,
		generator: generator,
		opts:      opts,
		now:       time.Now,
	}
}

// Run processes the change set and returns the run report. A per-file
// failure is recorded and the run continues; only infrastructural generation
// failures abort the run.
func (s *SessionService) Run(ctx context.Context, changeSet models.ChangeSet, headCommit string) (*models.RunReport, error) {
	report := &models.RunReport{
		Date:          s.now().Format("2006-01-02"),
		Mode:          changeSet.Mode,
		HeadCommit:    headCommit,
		DryRun:        s.opts.DryRun,
		FilesResolved: len(changeSet.Files),
	}

	if changeSet.Empty() {
		log.Printf("nothing to document")
		return report, nil
	}

	files := changeSet.Files
	if s.opts.MaxFiles > 0 && len(files) > s.opts.MaxFiles {
		log.Printf("capping run to %d of %d files, the rest stays pending for the next run", s.opts.MaxFiles, len(files))
		files = files[:s.opts.MaxFiles]
	}

	updated := make(map[string]string)
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		docFile, content, elementFailures, err := s.processFile(ctx, path)
		report.Failures = append(report.Failures, elementFailures...)
		if err != nil {
			var genErr *client.GenerationError
			if errors.As(err, &genErr) && (genErr.Infra() || s.opts.InfraFatal) {
				return report, fmt.Errorf("aborting run: %w", err)
			}
			log.Printf("skipping %s: %v", path, err)
			report.Failures = append(report.Failures, models.FileFailure{Path: path, Reason: err.Error()})
			continue
		}
		if docFile == nil {
			continue
		}
		updated[path] = content
		report.Files = append(report.Files, *docFile)
	}

	if len(updated) == 0 {
		log.Printf("no elements needed documentation")
		return report, nil
	}

	report.Branch = s.source.DocumentationBranchName(report.Date)
	if s.opts.DryRun {
		log.Printf("dry run: would publish %d files on %s", len(updated), report.Branch)
		return report, nil
	}

	if err := s.publish(report, updated); err != nil {
		return report, err
	}
	return report, nil
}

// processFile documents one file in memory. A nil DocumentedFile means the
// file has nothing publishable; element-level generation failures come back
// in the failure slice so the report can enumerate every one of them.
func (s *SessionService) processFile(ctx context.Context, path string) (*models.DocumentedFile, string, []models.FileFailure, error) {
	content, err := s.source.ReadFile(path)
	if err != nil {
		return nil, "", nil, err
	}

	elements, err := javaparse.ParseFile(path, content)
	if err != nil {
		return nil, "", nil, err
	}
	pending := javaparse.ElementsNeedingDocumentation(elements, s.opts.UpdateExisting)
	pending = s.capMethods(pending)
	if len(pending) == 0 {
		return nil, "", nil, nil
	}

	// Bottom-up so earlier insertions never shift the line numbers of the
	// elements still waiting.
	sort.Slice(pending, func(i, j int) bool { return pending[i].Line > pending[j].Line })

	docFile := &models.DocumentedFile{Path: path}
	var failures []models.FileFailure
	for _, el := range pending {
		javadoc, err := s.generateFor(ctx, path, content, el)
		if err != nil {
			var genErr *client.GenerationError
			if errors.As(err, &genErr) && (genErr.Infra() || s.opts.InfraFatal) {
				return nil, "", failures, err
			}
			log.Printf("element %s in %s failed: %v", el.Ident(), path, err)
			failures = append(failures, models.FileFailure{
				Path:   path,
				Reason: fmt.Sprintf("%s: %v", el.Ident(), err),
			})
			continue
		}
		content = javaparse.InsertJavadoc(content, el, javadoc)
		switch el.Kind {
		case models.ElementClass:
			docFile.Classes++
		case models.ElementMethod:
			docFile.Methods++
		}
		docFile.Elements = append(docFile.Elements, el.Ident())
	}

	if docFile.Classes+docFile.Methods == 0 {
		return nil, "", failures, nil
	}
	return docFile, content, failures, nil
}

func (s *SessionService) generateFor(ctx context.Context, path, content string, el models.JavaElement) (string, error) {
	raw, err := s.generator.GenerateJavadoc(ctx, client.GenerationRequest{
		FilePath:    path,
		ElementKind: string(el.Kind),
		ElementName: el.Name,
		Signature:   el.Signature,
		CodeContext: javaparse.ExtractContext(content, el, s.opts.ContextLines),
	})
	if err != nil {
		return "", err
	}
	raw = client.StripCodeFence(raw)
	if err := client.ValidateResponse(raw); err != nil {
		return "", fmt.Errorf("rejected response for %s: %w", el.Ident(), err)
	}
	return javaparse.NormalizeJavadoc(raw), nil
}

// capMethods limits the method elements per file, keeping class elements.
func (s *SessionService) capMethods(elements []models.JavaElement) []models.JavaElement {
	if s.opts.MaxMethodsPerFile <= 0 {
		return elements
	}
	methods := 0
	var out []models.JavaElement
	for _, el := range elements {
		if el.Kind == models.ElementMethod {
			if methods >= s.opts.MaxMethodsPerFile {
				continue
			}
			methods++
		}
		out = append(out, el)
	}
	return out
}

// publish writes the documented files onto the date-stamped branch and
// pushes it.
func (s *SessionService) publish(report *models.RunReport, updated map[string]string) error {
	if err := s.source.CreateDocumentationBranch(report.Branch); err != nil {
		return fmt.Errorf("failed to create branch %s: %w", report.Branch, err)
	}
	for path, content := range updated {
		if err := s.source.WriteFile(path, content); err != nil {
			return fmt.Errorf("failed to write documented file: %w", err)
		}
	}

	message := fmt.Sprintf("docs: add javadoc to %d files (%d classes, %d methods)",
		report.TotalFiles(), report.TotalClasses(), report.TotalMethods())
	pushed, err := s.source.CommitAndPush(message, report.Branch)
	if err != nil {
		return err
	}
	report.Pushed = pushed
	return nil
}
