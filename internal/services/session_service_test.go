package services

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"javadocbot/internal/llm/client"
	"javadocbot/internal/models"
)

type fakeSource struct {
	files    map[string]string
	written  map[string]string
	branches []string
	commits  []string
	pushOK   bool
}

func newFakeSource(files map[string]string) *fakeSource {
	return &fakeSource{files: files, written: make(map[string]string), pushOK: true}
}

func (f *fakeSource) ReadFile(relPath string) (string, error) {
	content, ok := f.files[relPath]
	if !ok {
		return "", fmt.Errorf("no such file: %s", relPath)
	}
	return content, nil
}

func (f *fakeSource) WriteFile(relPath, content string) error {
	f.written[relPath] = content
	return nil
}

func (f *fakeSource) TrackedBranch() string { return "PROD" }

func (f *fakeSource) DocumentationBranchName(date string) string {
	return "PROD_documented_" + date
}

func (f *fakeSource) CreateDocumentationBranch(name string) error {
	f.branches = append(f.branches, name)
	return nil
}

func (f *fakeSource) CommitAndPush(message, branchName string) (bool, error) {
	f.commits = append(f.commits, message)
	return f.pushOK, nil
}

type fakeGenerator struct {
	responses map[string]string
	errs      map[string]error
	calls     []string
}

func (g *fakeGenerator) GenerateJavadoc(_ context.Context, req client.GenerationRequest) (string, error) {
	g.calls = append(g.calls, req.ElementName)
	if err, ok := g.errs[req.ElementName]; ok {
		return "", err
	}
	if resp, ok := g.responses[req.ElementName]; ok {
		return resp, nil
	}
	return "Documents " + req.ElementName + ".", nil
}

const undocumentedFile = `package shop;

public class OrderService {
    public int countOrders() {
        return 0;
    }

    public void cancel(String id) {
    }
}
`

func changeSetOf(files ...string) models.ChangeSet {
	return models.ChangeSet{Mode: models.ModeIncremental, Files: files}
}

func TestRunDocumentsAndPublishes(t *testing.T) {
	source := newFakeSource(map[string]string{"src/OrderService.java": undocumentedFile})
	gen := &fakeGenerator{}
	s := NewSessionService(source, gen, SessionOptions{})

	report, err := s.Run(context.Background(), changeSetOf("src/OrderService.java"), "head1")
	require.NoError(t, err)

	assert.Equal(t, 1, report.TotalFiles())
	assert.Equal(t, 1, report.TotalClasses())
	assert.Equal(t, 2, report.TotalMethods())
	assert.True(t, report.Pushed)
	assert.Equal(t, []string{"PROD_documented_" + report.Date}, source.branches)

	out := source.written["src/OrderService.java"]
	require.NotEmpty(t, out)
	assert.Contains(t, out, "Documents OrderService.")
	assert.Contains(t, out, "Documents countOrders.")
	assert.Contains(t, out, "Documents cancel.")
	// javadoc framed and above each declaration
	assert.True(t, strings.Index(out, "Documents countOrders.") < strings.Index(out, "public int countOrders()"))
}

func TestRunEmptyChangeSetShortCircuits(t *testing.T) {
	source := newFakeSource(nil)
	gen := &fakeGenerator{}
	s := NewSessionService(source, gen, SessionOptions{})

	report, err := s.Run(context.Background(), changeSetOf(), "head1")
	require.NoError(t, err)

	assert.Zero(t, report.TotalFiles())
	assert.Empty(t, gen.calls)
	assert.Empty(t, source.branches)
	assert.Empty(t, report.Branch)
}

func TestRunDryRunSkipsPublication(t *testing.T) {
	source := newFakeSource(map[string]string{"src/OrderService.java": undocumentedFile})
	s := NewSessionService(source, &fakeGenerator{}, SessionOptions{DryRun: true})

	report, err := s.Run(context.Background(), changeSetOf("src/OrderService.java"), "head1")
	require.NoError(t, err)

	assert.Equal(t, 1, report.TotalFiles())
	assert.True(t, report.DryRun)
	assert.False(t, report.Pushed)
	assert.NotEmpty(t, report.Branch, "report still names the branch a real run would use")
	assert.Empty(t, source.branches)
	assert.Empty(t, source.written)
}

func TestRunFileFailureDoesNotAbort(t *testing.T) {
	source := newFakeSource(map[string]string{"src/Good.java": undocumentedFile})
	s := NewSessionService(source, &fakeGenerator{}, SessionOptions{})

	report, err := s.Run(context.Background(), changeSetOf("src/Gone.java", "src/Good.java"), "head1")
	require.NoError(t, err)

	require.Len(t, report.Failures, 1)
	assert.Equal(t, "src/Gone.java", report.Failures[0].Path)
	assert.Equal(t, 1, report.TotalFiles())
	assert.True(t, report.Pushed)
}

func TestRunInfraErrorAborts(t *testing.T) {
	source := newFakeSource(map[string]string{"src/OrderService.java": undocumentedFile})
	gen := &fakeGenerator{errs: map[string]error{
		"cancel": &client.GenerationError{Provider: client.ProviderOpenAI, Err: fmt.Errorf("429 rate limit")},
	}}
	s := NewSessionService(source, gen, SessionOptions{})

	_, err := s.Run(context.Background(), changeSetOf("src/OrderService.java"), "head1")
	require.Error(t, err)
	var genErr *client.GenerationError
	assert.ErrorAs(t, err, &genErr)
	assert.Empty(t, source.branches, "nothing published on abort")
}

func TestRunElementErrorSkipsElementOnly(t *testing.T) {
	source := newFakeSource(map[string]string{"src/OrderService.java": undocumentedFile})
	gen := &fakeGenerator{errs: map[string]error{"cancel": fmt.Errorf("model hiccup")}}
	s := NewSessionService(source, gen, SessionOptions{})

	report, err := s.Run(context.Background(), changeSetOf("src/OrderService.java"), "head1")
	require.NoError(t, err)

	assert.Equal(t, 1, report.TotalClasses())
	assert.Equal(t, 1, report.TotalMethods(), "only countOrders documented")
	out := source.written["src/OrderService.java"]
	assert.NotContains(t, out, "Documents cancel.")

	// the skipped element still shows up in the report
	require.Len(t, report.Failures, 1)
	assert.Equal(t, "src/OrderService.java", report.Failures[0].Path)
	assert.Contains(t, report.Failures[0].Reason, "cancel")
	assert.Contains(t, report.Failures[0].Reason, "model hiccup")
}

func TestRunAllElementsFailedEnumeratesEachOne(t *testing.T) {
	source := newFakeSource(map[string]string{"src/OrderService.java": undocumentedFile})
	gen := &fakeGenerator{errs: map[string]error{
		"OrderService": fmt.Errorf("bad class answer"),
		"countOrders":  fmt.Errorf("bad count answer"),
		"cancel":       fmt.Errorf("bad cancel answer"),
	}}
	s := NewSessionService(source, gen, SessionOptions{})

	report, err := s.Run(context.Background(), changeSetOf("src/OrderService.java"), "head1")
	require.NoError(t, err)

	assert.Zero(t, report.TotalFiles())
	assert.Empty(t, source.branches, "nothing publishable, no branch")
	require.Len(t, report.Failures, 3)
	for _, f := range report.Failures {
		assert.Equal(t, "src/OrderService.java", f.Path)
	}
}

func TestRunMaxFilesDefersRemainder(t *testing.T) {
	source := newFakeSource(map[string]string{
		"src/A.java": undocumentedFile,
		"src/B.java": undocumentedFile,
	})
	s := NewSessionService(source, &fakeGenerator{}, SessionOptions{MaxFiles: 1})

	report, err := s.Run(context.Background(), changeSetOf("src/A.java", "src/B.java"), "head1")
	require.NoError(t, err)

	assert.Equal(t, 2, report.FilesResolved)
	assert.Equal(t, 1, report.TotalFiles())
	_, wroteB := source.written["src/B.java"]
	assert.False(t, wroteB)
}

func TestRunMaxMethodsPerFileCapsMethodsNotClasses(t *testing.T) {
	source := newFakeSource(map[string]string{"src/OrderService.java": undocumentedFile})
	s := NewSessionService(source, &fakeGenerator{}, SessionOptions{MaxMethodsPerFile: 1})

	report, err := s.Run(context.Background(), changeSetOf("src/OrderService.java"), "head1")
	require.NoError(t, err)

	assert.Equal(t, 1, report.TotalClasses())
	assert.Equal(t, 1, report.TotalMethods())
}

func TestRunBottomUpInsertionKeepsBothJavadocsAttached(t *testing.T) {
	source := newFakeSource(map[string]string{"src/OrderService.java": undocumentedFile})
	s := NewSessionService(source, &fakeGenerator{}, SessionOptions{})

	_, err := s.Run(context.Background(), changeSetOf("src/OrderService.java"), "head1")
	require.NoError(t, err)

	out := source.written["src/OrderService.java"]
	countIdx := strings.Index(out, "public int countOrders()")
	cancelIdx := strings.Index(out, "public void cancel(")
	docCount := strings.Index(out, "Documents countOrders.")
	docCancel := strings.Index(out, "Documents cancel.")
	require.True(t, docCount >= 0 && docCancel >= 0)
	assert.True(t, docCount < countIdx && countIdx < docCancel && docCancel < cancelIdx)
}

func TestRunFencedResponseIsUnwrapped(t *testing.T) {
	source := newFakeSource(map[string]string{"src/OrderService.java": undocumentedFile})
	gen := &fakeGenerator{responses: map[string]string{
		"OrderService": "```java\n/**\n * Handles orders.\n */\n```",
		"countOrders":  "Counts.",
		"cancel":       "Cancels.",
	}}
	s := NewSessionService(source, gen, SessionOptions{})

	_, err := s.Run(context.Background(), changeSetOf("src/OrderService.java"), "head1")
	require.NoError(t, err)

	out := source.written["src/OrderService.java"]
	assert.Contains(t, out, " * Handles orders.")
	assert.NotContains(t, out, "```")
}
