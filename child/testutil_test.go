package child

import (
	"fmt"
	"log/slog"
	"math/rand"
	"testing"
)

func randomTestName(t *testing.T) string {
	t.Helper()
	return fmt.Sprintf("childtest%06d", rand.Intn(1_000_000))
}

func testLogger() *slog.Logger {
	return slog.Default()
}
