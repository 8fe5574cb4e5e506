//go:build windows

package pluginsdk

import (
	"context"
	"fmt"
	"net"
	"time"

	winio "github.com/Microsoft/go-winio"
)

// resolveName mirrors endpoint.resolveName on this platform: the host
// binds a named pipe.
func resolveName(name string) string {
	return fmt.Sprintf(`\\.\pipe\%s.sock`, name)
}

func dial(address string) (net.Conn, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return winio.DialPipeContext(ctx, address)
}
