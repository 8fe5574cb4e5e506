// Package host provides the top-level facade used by a UI or CLI to start
// polychat-core: resolve the plugin directory, discover and spawn
// plugins, and hand back the shared instruction queue to drive further
// dispatch.
package host

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/polychat-dev/polychat-core/envelope"
	"github.com/polychat-dev/polychat-core/observer"
	"github.com/polychat-dev/polychat-core/pluginmanager"
)

// Host is the single entry point embedding applications use: it owns the
// plugin manager and exposes the shared queue of decoded core-bound
// instructions once Run has completed discovery.
type Host struct {
	manager *pluginmanager.Manager
	logger  *slog.Logger
}

// NewInHome creates a Host whose plugin directory is $HOME/.polychat/plugins.
func NewInHome(logger *slog.Logger) (*Host, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}
	return NewFromDir(filepath.Join(home, ".polychat"), logger)
}

// NewInWorkingDir creates a Host whose plugin directory is <cwd>/polychat/plugins.
func NewInWorkingDir(logger *slog.Logger) (*Host, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("resolve working directory: %w", err)
	}
	return NewFromDir(filepath.Join(wd, "polychat"), logger)
}

// NewFromDir creates a Host whose plugin directory is <dir>/plugins,
// creating that directory (and any missing parents) up front if it does
// not already exist. Run still calls PrepareDir itself, so a directory
// removed between construction and Run is recreated there too.
func NewFromDir(dir string, logger *slog.Logger) (*Host, error) {
	if logger == nil {
		logger = slog.Default()
	}
	pluginsDir := filepath.Join(dir, "plugins")
	if err := os.MkdirAll(pluginsDir, 0o755); err != nil {
		return nil, fmt.Errorf("create plugin directory %q: %w", pluginsDir, err)
	}
	m, err := pluginmanager.NewFromPath(pluginsDir, logger)
	if err != nil {
		return nil, err
	}
	return &Host{manager: m, logger: logger}, nil
}

// Dir returns the resolved plugins directory.
func (h *Host) Dir() string {
	dir, _ := h.manager.Dir()
	return dir
}

// Queue returns the shared channel of decoded core-bound instructions
// accumulated from every loaded plugin. Valid to read from as soon as Run
// has started discovery; it continues to receive instructions for the
// lifetime of the Host.
func (h *Host) Queue() <-chan envelope.CoreEnvelope {
	return h.manager.Queue()
}

// Run ensures the plugin directory exists, discovers and spawns every
// plugin executable found in it, and reports progress through obs. This
// mirrors the five-step bootstrap: pre-init notification, directory
// preparation, discovery (with per-plugin load notifications), discovery
// failure reporting, and post-init notification.
func (h *Host) Run(obs observer.Observer) error {
	if obs == nil {
		obs = observer.NoopObserver{}
	}

	obs.OnCorePreInit()
	defer func() { obs.OnCorePostInit(h.Dir()) }()

	if err := h.manager.PrepareDir(); err != nil {
		h.logger.Error("could not prepare plugin directory", "error", err)
		return err
	}

	if err := h.manager.LoadProcesses(obs); err != nil {
		h.logger.Warn("loading plugins finished with an error", "error", err)
		obs.OnPluginLoadFailure(err.Error())
	}

	return nil
}

// Close tears down every spawned plugin.
func (h *Host) Close() {
	h.manager.Close()
}
