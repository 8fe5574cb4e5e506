// Package observer defines the callback surface a host implementation
// uses to watch plugin discovery and the core handshake as they happen,
// without the runtime taking any direct dependency on a UI toolkit.
package observer

// LoadStatus marks the beginning and end of a plugin-directory enumeration
// pass, so an observer can show and hide a "loading plugins" indicator.
type LoadStatus int

const (
	// Started is reported once, before the first entry in a plugin
	// directory is examined.
	Started LoadStatus = iota
	// Finished is reported once when the pass ends, including when a
	// failed load ends it before the remaining entries are examined.
	Finished
)

func (s LoadStatus) String() string {
	switch s {
	case Started:
		return "Started"
	case Finished:
		return "Finished"
	default:
		return "Unknown"
	}
}

// Observer receives notifications about plugin discovery and the core
// handshake lifecycle. Every method is optional in the sense that a host
// may embed NoopObserver and override only the callbacks it cares about.
type Observer interface {
	// OnPluginsLoadedStatusChange brackets a LoadProcesses pass.
	OnPluginsLoadedStatusChange(status LoadStatus)
	// OnPluginLoaded is called once per executable successfully spawned
	// and attached during LoadProcesses, with its file name.
	OnPluginLoaded(name string)
	// OnPluginLoadFailure is called once per executable that could not be
	// spawned or attached during LoadProcesses, with a human-readable
	// description of the failure.
	OnPluginLoadFailure(reason string)

	// OnCorePreInit is called by Host.Run before the plugin directory is
	// prepared and before any plugin is loaded.
	OnCorePreInit()
	// OnCorePostInit is called by Host.Run once directory preparation and
	// plugin loading have ended, whether or not they succeeded, with the
	// resolved plugin directory (empty if none was configured). It does
	// not wait for any plugin's Init envelope.
	OnCorePostInit(pluginDir string)
	// OnPluginInit takes the endpoint name of a plugin whose handshake has
	// completed. Host.Run and the plugin manager do not call it; Init
	// envelopes arrive on Host.Queue.
	OnPluginInit(endpointName string)
}

// NoopObserver implements Observer with no-op methods, so callers that
// only care about a subset of callbacks can embed it and override the
// rest.
type NoopObserver struct{}

func (NoopObserver) OnPluginsLoadedStatusChange(LoadStatus) {}
func (NoopObserver) OnPluginLoaded(string)                  {}
func (NoopObserver) OnPluginLoadFailure(string)             {}
func (NoopObserver) OnCorePreInit()                         {}
func (NoopObserver) OnCorePostInit(string)                  {}
func (NoopObserver) OnPluginInit(string)                    {}
