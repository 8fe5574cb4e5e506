// Package pluginmanager discovers plugin executables on disk, spawns and
// attaches one Child per executable, and exposes the single shared queue
// that every Child's fetch loop forwards decoded core-bound instructions
// onto.
package pluginmanager

import (
	"context"
	"crypto/rand"
	"fmt"
	"io/fs"
	"log/slog"
	"math/big"
	"os"
	"path/filepath"

	"github.com/oklog/run"

	"github.com/polychat-dev/polychat-core/child"
	"github.com/polychat-dev/polychat-core/endpoint"
	"github.com/polychat-dev/polychat-core/envelope"
	"github.com/polychat-dev/polychat-core/observer"
)

const sharedQueueCapacity = 100

const endpointNameAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Manager discovers and owns every spawned plugin Child, and the shared
// queue their fetch loops drain into.
type Manager struct {
	dir    string // empty means "no directory configured"
	hasDir bool

	children []*child.Child

	queue  chan envelope.CoreEnvelope
	logger *slog.Logger
}

// New creates a Manager with no configured plugin directory. Executables
// can still be loaded one at a time with LoadProcess.
func New(logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		queue:  make(chan envelope.CoreEnvelope, sharedQueueCapacity),
		logger: logger,
	}
}

// NewFromPath creates a Manager rooted at dir, which must be an absolute,
// existing directory.
func NewFromPath(dir string, logger *slog.Logger) (*Manager, error) {
	if err := checkDirectory(dir); err != nil {
		return nil, err
	}
	m := New(logger)
	m.dir = dir
	m.hasDir = true
	return m, nil
}

// NewFromHome creates a Manager rooted at $HOME/.polychat/plugins,
// creating that directory (and any missing parents) if it does not
// already exist.
func NewFromHome(logger *slog.Logger) (*Manager, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}
	return newFromPathCreating(filepath.Join(home, ".polychat", "plugins"), logger)
}

// NewFromWorkingDir creates a Manager rooted at <cwd>/plugins, creating
// that directory (and any missing parents) if it does not already exist.
func NewFromWorkingDir(logger *slog.Logger) (*Manager, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("resolve working directory: %w", err)
	}
	return newFromPathCreating(filepath.Join(wd, "plugins"), logger)
}

// newFromPathCreating is like NewFromPath but creates dir first when it
// is missing, for the facade constructors that are expected to work on
// a fresh install rather than only against a pre-existing plugin tree.
func newFromPathCreating(dir string, logger *slog.Logger) (*Manager, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create plugin directory %q: %w", dir, err)
	}
	return NewFromPath(dir, logger)
}

// Dir returns the configured plugin directory, if any.
func (m *Manager) Dir() (dir string, ok bool) {
	return m.dir, m.hasDir
}

// Queue returns the shared channel every loaded plugin's fetch loop
// forwards decoded core-bound envelopes onto.
func (m *Manager) Queue() <-chan envelope.CoreEnvelope {
	return m.queue
}

// Children returns every currently loaded plugin Child.
func (m *Manager) Children() []*child.Child {
	out := make([]*child.Child, len(m.children))
	copy(out, m.children)
	return out
}

// PrepareDir ensures the configured plugin directory exists, creating it
// and any missing parents.
func (m *Manager) PrepareDir() error {
	if !m.hasDir {
		return &NoPathError{}
	}
	return os.MkdirAll(m.dir, 0o755)
}

// LoadProcesses enumerates the configured plugin directory two levels
// deep (<dir>/<plugin-name>/<executable>) and loads every matching
// executable. obs is notified around the whole pass and per entry; obs
// may be nil.
func (m *Manager) LoadProcesses(obs observer.Observer) error {
	if obs == nil {
		obs = observer.NoopObserver{}
	}
	if !m.hasDir {
		err := &NoPathError{}
		m.logger.Error(err.Error())
		return err
	}
	if err := checkDirectory(m.dir); err != nil {
		return err
	}

	obs.OnPluginsLoadedStatusChange(observer.Started)
	defer obs.OnPluginsLoadedStatusChange(observer.Finished)

	m.logger.Debug("loading plugins", "dir", m.dir)

	return filepath.WalkDir(m.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			m.logger.Warn("could not read directory entry", "path", path, "error", err)
			return nil
		}
		depth := relativeDepth(m.dir, path)
		if d.IsDir() {
			if depth >= 2 {
				return filepath.SkipDir
			}
			return nil
		}
		if depth != 2 {
			return nil
		}
		if !d.Type().IsRegular() {
			// Never follow a symlink (or spawn a device/socket/etc.) into
			// an arbitrary executable outside the plugin tree.
			return nil
		}
		if filepath.Ext(path) != extSuffix() {
			return nil
		}

		m.logger.Debug("found executable", "path", path)
		if err := m.LoadProcess(path); err != nil {
			obs.OnPluginLoadFailure(err.Error())
			return err
		}
		obs.OnPluginLoaded(filepath.Base(path))
		return nil
	})
}

// LoadProcess spawns a single plugin executable at path, minting it a
// fresh random endpoint name and registering the resulting Child.
func (m *Manager) LoadProcess(path string) error {
	name, err := randomEndpointName()
	if err != nil {
		return fmt.Errorf("generate endpoint name: %w", err)
	}

	ep, err := endpoint.New(name, m.logger)
	if err != nil {
		return fmt.Errorf("create endpoint for %q: %w", path, err)
	}

	c, err := child.New(path, ep, m.queue, m.logger)
	if err != nil {
		ep.Close()
		wrapped := &SpawnError{Path: path, Err: err}
		m.logger.Warn(wrapped.Error())
		return wrapped
	}

	m.children = append(m.children, c)
	return nil
}

// Close tears down every loaded Child, waiting for all of them to finish
// before returning. Each child is modeled as one oklog/run actor: its
// execute half blocks on a context that is cancelled immediately, and
// its interrupt half performs the actual Child.Close. run.Group invokes
// interrupt for each actor one at a time on the calling goroutine after
// cancel, so children are closed sequentially, not in parallel; this
// still gives every Close a single well-defined completion point even
// as the number of children varies.
func (m *Manager) Close() {
	if len(m.children) == 0 {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())

	var g run.Group
	for _, c := range m.children {
		c := c
		g.Add(func() error {
			<-ctx.Done()
			return ctx.Err()
		}, func(error) {
			c.Close()
		})
	}

	cancel()
	_ = g.Run()
	m.children = nil
}

func checkDirectory(dir string) error {
	if !filepath.IsAbs(dir) {
		return &RelativePathError{Path: dir}
	}
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return &NonExistentError{Path: dir}
	}
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return &NonDirectoryError{Path: dir}
	}
	return nil
}

// relativeDepth returns the number of path elements in path relative to
// root: 0 for root itself, 1 for its direct entries, 2 one level below.
func relativeDepth(root, path string) int {
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == "." {
		return 0
	}
	depth := 1
	for _, r := range rel {
		if r == filepath.Separator {
			depth++
		}
	}
	return depth
}

func extSuffix() string {
	if execExtension == "" {
		return ""
	}
	return "." + execExtension
}

func randomEndpointName() (string, error) {
	b := make([]byte, 7)
	for i := range b {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(endpointNameAlphabet))))
		if err != nil {
			return "", err
		}
		b[i] = endpointNameAlphabet[n.Int64()]
	}
	return string(b), nil
}
