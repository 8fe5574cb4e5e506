//go:build !windows

package endpoint

import (
	"fmt"
	"log/slog"
	"net"
	"os"
)

// resolveName maps a logical endpoint name to the POSIX socket path.
// Linux additionally supports the abstract namespace; a leading "@" in a
// *net.UnixAddr.Name is rewritten to a NUL byte by the standard library
// itself when the platform supports it, so the same /tmp/<name>.sock
// naming below would also work unprefixed — we use the filesystem path
// on every POSIX target for simplicity and because macOS/BSD have no
// abstract namespace to fall back to.
func resolveName(name string) string {
	return fmt.Sprintf("/tmp/%s.sock", name)
}

func listen(resolved string) (net.Listener, error) {
	// A stale socket file from a prior crash would otherwise make bind
	// fail with "address already in use".
	_ = os.Remove(resolved)
	return net.Listen("unix", resolved)
}

// cleanupName removes the socket file, logging and swallowing any error
// per the endpoint drop contract.
func cleanupName(resolved string, logger *slog.Logger) {
	if _, err := os.Stat(resolved); err != nil {
		return
	}
	if err := os.Remove(resolved); err != nil {
		logger.Debug("could not remove socket file on close", "path", resolved, "error", err)
	}
}
