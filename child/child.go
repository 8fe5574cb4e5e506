// Package child wraps a single spawned plugin executable: the OS process,
// its IPC endpoint, and the background fetch loop that drains decoded
// instructions into the manager-owned shared queue.
package child

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"time"

	"github.com/polychat-dev/polychat-core/endpoint"
	"github.com/polychat-dev/polychat-core/envelope"
)

// fetchTick is the loop period used for lock acquisition, recv, and
// shared-queue send attempts. It bounds latency while avoiding a tight
// spin under idle conditions; it is not externally observable.
const fetchTick = 16 * time.Millisecond

// Child owns one OS child process and one IPC endpoint for its entire
// lifetime. At most one reader (fetch) goroutine and at most one
// in-flight Send exist concurrently per Child.
type Child struct {
	path     string
	cmd      *exec.Cmd
	ep       *endpoint.Endpoint
	epLock   *timedMutex
	queue    chan<- envelope.CoreEnvelope
	logger   *slog.Logger

	cancel context.CancelFunc
	done   chan struct{}
}

// New spawns the executable at path with argv = [endpointName], attaches
// ep as its IPC endpoint, and starts the background fetch loop that
// forwards decoded core-bound envelopes onto queue.
func New(path string, ep *endpoint.Endpoint, queue chan<- envelope.CoreEnvelope, logger *slog.Logger) (*Child, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("plugin_path", path)

	// cmd.Stdout/Stderr left nil: output is discarded, matching the
	// original process wrapper's Stdio::null().
	cmd := exec.Command(path, ep.Name())

	if err := cmd.Start(); err != nil {
		logger.Error("could not start plugin process", "error", err)
		return nil, fmt.Errorf("spawn plugin %q: %w", path, err)
	}
	logger.Debug("started plugin process", "pid", cmd.Process.Pid)

	ctx, cancel := context.WithCancel(context.Background())
	c := &Child{
		path:   path,
		cmd:    cmd,
		ep:     ep,
		epLock: newTimedMutex(),
		queue:  queue,
		logger: logger,
		cancel: cancel,
		done:   make(chan struct{}),
	}

	go c.runFetchLoop(ctx)

	return c, nil
}

// Send delivers a plugin-bound instruction. This is a user-initiated
// operation, so unlike the fetch loop it acquires the endpoint lock
// without a timeout.
func (c *Child) Send(env envelope.PluginEnvelope) error {
	c.epLock.Lock()
	defer c.epLock.Unlock()
	return c.ep.Send(env)
}

// runFetchLoop drains the endpoint into the shared queue until ctx is
// cancelled. Each iteration: try to acquire the endpoint lock, try to
// recv one envelope, try to forward any staged envelope onto the shared
// queue, then pace out at fetchTick regardless of outcome.
func (c *Child) runFetchLoop(ctx context.Context) {
	defer close(c.done)

	var staged []envelope.CoreEnvelope

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if !c.epLock.TryLock(fetchTick) {
			if !sleepOrDone(ctx, fetchTick) {
				return
			}
			continue
		}

		env, recvErr := c.ep.RecvTimeout(fetchTick)
		c.epLock.Unlock()

		switch {
		case recvErr == nil:
			staged = append(staged, env)
		case endpoint.IsTimeout(recvErr):
			// No envelope ready yet; fall through to the staged-send
			// attempt and pacing sleep below.
		default:
			c.logger.Warn("recv error on plugin endpoint", "error", recvErr)
		}

		if len(staged) > 0 {
			select {
			case c.queue <- staged[0]:
				staged = staged[1:]
			case <-time.After(fetchTick):
				// Shared queue is full; retain the envelope and retry
				// next iteration rather than drop it.
			case <-ctx.Done():
				return
			}
		}

		if !sleepOrDone(ctx, fetchTick) {
			return
		}
	}
}

func sleepOrDone(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-ctx.Done():
		return false
	}
}

// Close tears the child down, in order:
//  1. abort the fetch loop (so it can't observe transient read errors as
//     the child exits and misreport them); if the loop is still waiting
//     for the plugin to connect, the endpoint is closed to end that wait,
//  2. skip the kill and reap if the process has already been waited on
//     (cmd.ProcessState is set),
//  3. kill it if not,
//  4. wait for it to be reaped,
//  5. close the endpoint (filesystem cleanup, see endpoint.Close).
//
// Close must complete even if one of these steps fails; failures are
// logged, never panicked, except in test builds where failing to kill or
// reap the process is promoted to an assertion (see assert.go).
func (c *Child) Close() {
	c.cancel()
	select {
	case <-c.done:
	case <-time.After(2 * fetchTick):
		// Every other step of the loop gives up within one tick once ctx
		// is cancelled; only the first accept blocks until a client
		// connects, so close the endpoint to make that accept fail.
		c.ep.Close()
		<-c.done
	}

	if c.cmd.ProcessState != nil {
		c.logger.Debug("plugin process had already exited", "pid", c.cmd.Process.Pid)
		c.ep.Close()
		return
	}

	if err := c.cmd.Process.Kill(); err != nil {
		c.logger.Warn("could not kill plugin process", "pid", c.cmd.Process.Pid, "error", err)
		assertInTests(false, "error killing plugin process %d: %v", c.cmd.Process.Pid, err)
	}

	if _, err := c.cmd.Process.Wait(); err != nil {
		c.logger.Warn("plugin process did not reap cleanly", "pid", c.cmd.Process.Pid, "error", err)
		assertInTests(false, "error reaping plugin process %d: %v", c.cmd.Process.Pid, err)
	} else {
		c.logger.Debug("plugin process reaped", "pid", c.cmd.Process.Pid)
	}

	c.ep.Close()
}
