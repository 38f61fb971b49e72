package services

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"javadocbot/internal/models"
)

type fakeLister struct {
	files []string
	err   error
	from  string
	to    string
}

func (f *fakeLister) ChangedJavaFiles(from, to string) ([]string, error) {
	f.from, f.to = from, to
	return f.files, f.err
}

func writeTree(t *testing.T, root string, paths []string) {
	t.Helper()
	for _, p := range paths {
		full := filepath.Join(root, filepath.FromSlash(p))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte("class X {}\n"), 0o644))
	}
}

func TestResolveFirstRunScansWholeTree(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, []string{
		"src/main/java/a/Order.java",
		"src/main/java/b/Invoice.java",
		"src/main/resources/notes.txt",
	})

	r := NewResolverService(dir, nil, false)
	cs, err := r.Resolve(models.NewRunState(), "abc", &fakeLister{}, false)
	require.NoError(t, err)

	assert.Equal(t, models.ModeFull, cs.Mode)
	assert.Equal(t, []string{
		"src/main/java/a/Order.java",
		"src/main/java/b/Invoice.java",
	}, cs.Files)
}

func TestResolveForceFullOverridesIncremental(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, []string{"src/A.java"})

	state := models.NewRunState()
	state.IsFirstRun = false
	state.LastCommit = "old"

	lister := &fakeLister{files: []string{"never/used.java"}}
	r := NewResolverService(dir, nil, false)
	cs, err := r.Resolve(state, "new", lister, true)
	require.NoError(t, err)

	assert.Equal(t, models.ModeFull, cs.Mode)
	assert.Equal(t, []string{"src/A.java"}, cs.Files)
	assert.Empty(t, lister.from, "lister must not be consulted on a full run")
}

func TestResolveIncrementalUsesCommitDelta(t *testing.T) {
	state := models.NewRunState()
	state.IsFirstRun = false
	state.LastCommit = "aaa"

	lister := &fakeLister{files: []string{"src/B.java", "src/A.java", "src/A.java"}}
	r := NewResolverService(t.TempDir(), nil, false)
	cs, err := r.Resolve(state, "bbb", lister, false)
	require.NoError(t, err)

	assert.Equal(t, models.ModeIncremental, cs.Mode)
	assert.Equal(t, []string{"src/A.java", "src/B.java"}, cs.Files)
	assert.Equal(t, "aaa", lister.from)
	assert.Equal(t, "bbb", lister.to)
}

func TestResolveUnchangedHeadIsEmpty(t *testing.T) {
	state := models.NewRunState()
	state.IsFirstRun = false
	state.LastCommit = "same"

	r := NewResolverService(t.TempDir(), nil, false)
	cs, err := r.Resolve(state, "same", &fakeLister{files: []string{"src/A.java"}}, false)
	require.NoError(t, err)

	assert.True(t, cs.Empty())
	assert.Equal(t, models.ModeIncremental, cs.Mode)
}

func TestResolvePropagatesHistoryDiverged(t *testing.T) {
	state := models.NewRunState()
	state.IsFirstRun = false
	state.LastCommit = "gone"

	lister := &fakeLister{err: &HistoryDivergedError{Commit: "gone"}}
	r := NewResolverService(t.TempDir(), nil, false)
	_, err := r.Resolve(state, "head", lister, false)

	var diverged *HistoryDivergedError
	require.ErrorAs(t, err, &diverged)
	assert.Equal(t, "gone", diverged.Commit)
}

func TestExclusionPatternsFilterBothModes(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, []string{
		"src/main/java/App.java",
		"src/main/java/AppGenerated.java",
		"build/gen/Stub.java",
	})

	r := NewResolverService(dir, []string{"*Generated.java", "build/**"}, false)
	cs, err := r.Resolve(models.NewRunState(), "abc", &fakeLister{}, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"src/main/java/App.java"}, cs.Files)

	state := models.NewRunState()
	state.IsFirstRun = false
	state.LastCommit = "aaa"
	lister := &fakeLister{files: []string{"src/main/java/AppGenerated.java", "src/main/java/App.java"}}
	cs, err = r.Resolve(state, "bbb", lister, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"src/main/java/App.java"}, cs.Files)
}

func TestTestRootsExcludedWhenConfigured(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, []string{
		"src/main/java/App.java",
		"src/test/java/AppTest.java",
		"tests/Integration.java",
		"src/main/java/testdata/Fixture.java",
	})

	r := NewResolverService(dir, nil, true)
	cs, err := r.Resolve(models.NewRunState(), "abc", &fakeLister{}, false)
	require.NoError(t, err)

	// only exact "test"/"tests" segments count, "testdata" stays
	assert.Equal(t, []string{
		"src/main/java/App.java",
		"src/main/java/testdata/Fixture.java",
	}, cs.Files)
}
