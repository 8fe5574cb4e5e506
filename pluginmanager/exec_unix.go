//go:build !windows

package pluginmanager

// execExtension is the filename extension expected on plugin executables
// enumerated from a plugin directory.
const execExtension = ""
