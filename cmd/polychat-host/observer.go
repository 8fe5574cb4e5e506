package main

import (
	"log/slog"

	"github.com/polychat-dev/polychat-core/observer"
)

// loggingObserver logs every host lifecycle callback at an appropriate
// level; it is the observer polychat-host uses when run standalone
// rather than embedded in a UI.
type loggingObserver struct {
	logger *slog.Logger
}

func (o *loggingObserver) OnCorePreInit() {
	o.logger.Info("starting plugin discovery")
}

func (o *loggingObserver) OnCorePostInit(pluginDir string) {
	o.logger.Info("plugin discovery finished", "plugin_dir", pluginDir)
}

func (o *loggingObserver) OnPluginsLoadedStatusChange(status observer.LoadStatus) {
	o.logger.Debug("plugin load status changed", "status", status)
}

func (o *loggingObserver) OnPluginLoaded(name string) {
	o.logger.Info("plugin loaded", "plugin", name)
}

func (o *loggingObserver) OnPluginLoadFailure(reason string) {
	o.logger.Warn("plugin load failure", "reason", reason)
}

func (o *loggingObserver) OnPluginInit(endpointName string) {
	o.logger.Info("plugin completed handshake", "endpoint", endpointName)
}
