//go:build windows

package endpoint

import (
	"fmt"
	"log/slog"
	"net"

	winio "github.com/Microsoft/go-winio"
)

// resolveName maps a logical endpoint name to a Windows named pipe path.
// Named pipes are this platform's only abstract-namespace-like transport,
// matching the spec's "OnlyNamespaced" branch.
func resolveName(name string) string {
	return fmt.Sprintf(`\\.\pipe\%s.sock`, name)
}

func listen(resolved string) (net.Listener, error) {
	return winio.ListenPipe(resolved, nil)
}

// cleanupName is a no-op on Windows: named pipes have no filesystem
// artifact to remove once the listener is closed.
func cleanupName(resolved string, logger *slog.Logger) {
	logger.Debug("no filesystem cleanup needed for named pipe", "name", resolved)
}
