package pluginmanager

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/polychat-dev/polychat-core/observer"
)

func TestNewFromPathRejectsRelativePath(t *testing.T) {
	_, err := NewFromPath("./plugins", nil)
	require.Error(t, err)
	var relErr *RelativePathError
	assert.ErrorAs(t, err, &relErr)
}

func TestNewFromPathRejectsNonExistentPath(t *testing.T) {
	_, err := NewFromPath(filepath.Join(t.TempDir(), "does-not-exist"), nil)
	require.Error(t, err)
	var nonExistent *NonExistentError
	assert.ErrorAs(t, err, &nonExistent)
}

func TestNewFromPathRejectsNonDirectory(t *testing.T) {
	file := filepath.Join(t.TempDir(), "not-a-dir")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	_, err := NewFromPath(file, nil)
	require.Error(t, err)
	var nonDir *NonDirectoryError
	assert.ErrorAs(t, err, &nonDir)
}

func TestLoadProcessesWithoutDirReturnsNoPathError(t *testing.T) {
	m := New(nil)
	err := m.LoadProcesses(nil)
	require.Error(t, err)
	var noPath *NoPathError
	assert.ErrorAs(t, err, &noPath)
}

type recordingObserver struct {
	observer.NoopObserver
	statusChanges []observer.LoadStatus
	loaded        []string
	failures      []string
}

func (r *recordingObserver) OnPluginsLoadedStatusChange(s observer.LoadStatus) {
	r.statusChanges = append(r.statusChanges, s)
}
func (r *recordingObserver) OnPluginLoaded(name string)      { r.loaded = append(r.loaded, name) }
func (r *recordingObserver) OnPluginLoadFailure(reason string) { r.failures = append(r.failures, reason) }

func TestLoadProcessesBracketsStatusEvenWhenDirectoryIsEmpty(t *testing.T) {
	dir := t.TempDir()
	m, err := NewFromPath(dir, nil)
	require.NoError(t, err)

	obs := &recordingObserver{}
	require.NoError(t, m.LoadProcesses(obs))

	assert.Equal(t, []observer.LoadStatus{observer.Started, observer.Finished}, obs.statusChanges)
	assert.Empty(t, obs.loaded)
	assert.Empty(t, obs.failures)
}

func TestLoadProcessesIgnoresEntriesNotAtDepthTwo(t *testing.T) {
	dir := t.TempDir()
	// A file directly under the root (depth 1) must be ignored: only
	// <dir>/<plugin-name>/<executable> (depth 2) is a candidate.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "stray"+extSuffix()), []byte{}, 0o755))

	m, err := NewFromPath(dir, nil)
	require.NoError(t, err)

	obs := &recordingObserver{}
	require.NoError(t, m.LoadProcesses(obs))
	assert.Empty(t, obs.loaded)
	assert.Empty(t, obs.failures)
}

func TestLoadProcessesIgnoresSymlinksAtDepthTwo(t *testing.T) {
	if _, err := os.Stat("/bin/true"); err != nil {
		t.Skip("/bin/true not available on this system")
	}

	dir := t.TempDir()
	pluginDir := filepath.Join(dir, "evil")
	require.NoError(t, os.Mkdir(pluginDir, 0o755))

	link := filepath.Join(pluginDir, "run"+extSuffix())
	require.NoError(t, os.Symlink("/bin/true", link))

	m, err := NewFromPath(dir, nil)
	require.NoError(t, err)

	obs := &recordingObserver{}
	require.NoError(t, m.LoadProcesses(obs))
	assert.Empty(t, obs.loaded, "a symlinked entry must never be spawned as a plugin")
	assert.Empty(t, obs.failures)
	assert.Empty(t, m.Children())
}

func TestPrepareDirCreatesMissingDirectory(t *testing.T) {
	root := t.TempDir()
	target := filepath.Join(root, "a", "b", "plugins")

	m, err := NewFromPath(target, nil)
	// target does not exist yet, so construction itself fails; exercise
	// PrepareDir through a manually configured Manager instead.
	assert.Error(t, err)

	m = New(nil)
	m.dir = target
	m.hasDir = true
	require.NoError(t, m.PrepareDir())

	info, err := os.Stat(target)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestRandomEndpointNameIsSevenCharsFromAlphabet(t *testing.T) {
	name, err := randomEndpointName()
	require.NoError(t, err)
	assert.Len(t, name, 7)
	for _, r := range name {
		assert.Contains(t, endpointNameAlphabet, string(r))
	}
}

func TestLoadProcessAndCloseTearsDownSpawnedChild(t *testing.T) {
	if _, err := os.Stat("/bin/true"); err != nil {
		t.Skip("/bin/true not available on this system")
	}

	dir := t.TempDir()
	m, err := NewFromPath(dir, nil)
	require.NoError(t, err)

	require.NoError(t, m.LoadProcess("/bin/true"))
	require.Len(t, m.Children(), 1)

	assert.NotPanics(t, func() {
		m.Close()
	})
	assert.Empty(t, m.Children())
}
