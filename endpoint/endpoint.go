// Package endpoint implements the per-child IPC endpoint: a listener
// bound to a unique local-machine name that accepts exactly one client
// connection and exchanges framed instruction envelopes with it.
package endpoint

import (
	"bufio"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/polychat-dev/polychat-core/envelope"
)

// Endpoint owns a listener and, once a client has connected, the split
// read/write halves of that connection. Only one client is ever accepted
// per Endpoint: accept is performed lazily on the first Send or Recv call
// and the resulting halves are cached for every subsequent call.
type Endpoint struct {
	name     string
	listener net.Listener
	logger   *slog.Logger

	once      sync.Once
	sendMu    sync.Mutex
	recvMu    sync.Mutex
	conn      net.Conn
	reader    *bufio.Reader
	writer    *bufio.Writer
	acceptErr error
}

// New binds a listener for name using the platform-appropriate socket
// naming rule (see name_unix.go / name_windows.go).
func New(name string, logger *slog.Logger) (*Endpoint, error) {
	if logger == nil {
		logger = slog.Default()
	}
	resolved := resolveName(name)
	logger.Debug("binding endpoint listener", "name", resolved)

	listener, err := listen(resolved)
	if err != nil {
		logger.Error("could not bind endpoint listener", "name", resolved, "error", err)
		return nil, fmt.Errorf("bind endpoint %q: %w", resolved, err)
	}

	logger.Debug("endpoint listener bound", "name", resolved)
	return &Endpoint{
		name:     resolved,
		listener: listener,
		logger:   logger.With("endpoint", resolved),
	}, nil
}

// Name returns the resolved platform-specific socket name this endpoint
// is bound to.
func (e *Endpoint) Name() string { return e.name }

// ensureAccepted performs the one-time accept and connection split. Safe
// for concurrent callers; only the first caller actually blocks on
// Accept, the rest observe the cached result.
func (e *Endpoint) ensureAccepted() error {
	e.once.Do(func() {
		conn, err := e.listener.Accept()
		if err != nil {
			e.logger.Error("accept failed", "error", err)
			e.acceptErr = fmt.Errorf("accept on %q: %w", e.name, err)
			return
		}
		e.logger.Debug("accepted client connection")
		e.conn = conn
		e.reader = bufio.NewReader(conn)
		e.writer = bufio.NewWriter(conn)
	})
	return e.acceptErr
}

// AcceptAndAttach blocks until the single client connection has been
// accepted, attaching the read/write halves for subsequent Send/Recv
// calls. Calling Send or Recv first implicitly performs this step, so
// most callers never need to call it directly.
func (e *Endpoint) AcceptAndAttach() error {
	return e.ensureAccepted()
}

// Send writes a plugin-bound envelope as one newline-terminated JSON line
// and flushes it.
func (e *Endpoint) Send(env envelope.PluginEnvelope) error {
	if err := e.ensureAccepted(); err != nil {
		return err
	}
	e.sendMu.Lock()
	defer e.sendMu.Unlock()
	return envelope.WritePluginEnvelope(e.writer, env)
}

// Recv reads and decodes one core-bound envelope.
func (e *Endpoint) Recv() (envelope.CoreEnvelope, error) {
	if err := e.ensureAccepted(); err != nil {
		return envelope.CoreEnvelope{}, err
	}
	e.recvMu.Lock()
	defer e.recvMu.Unlock()
	return envelope.ReadCoreEnvelope(e.reader)
}

// RecvTimeout behaves like Recv but gives up after d if no full line has
// arrived, returning an error that IsTimeout reports true for. Used by
// the child fetch loop to interleave recv attempts with lock acquisition
// rather than blocking indefinitely.
func (e *Endpoint) RecvTimeout(d time.Duration) (envelope.CoreEnvelope, error) {
	if err := e.ensureAccepted(); err != nil {
		return envelope.CoreEnvelope{}, err
	}
	e.recvMu.Lock()
	defer e.recvMu.Unlock()

	if err := e.conn.SetReadDeadline(time.Now().Add(d)); err != nil {
		return envelope.CoreEnvelope{}, fmt.Errorf("set read deadline: %w", err)
	}
	defer e.conn.SetReadDeadline(time.Time{})

	return envelope.ReadCoreEnvelope(e.reader)
}

// IsTimeout reports whether err resulted from a Recv/RecvTimeout deadline
// expiring rather than a genuine read or decode failure.
func IsTimeout(err error) bool {
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// Close tears down the listener and, on filesystem-path platforms,
// removes the socket file. Errors are logged and swallowed, matching the
// "drop" semantics specified for endpoints: cleanup must never fail the
// caller's teardown sequence.
func (e *Endpoint) Close() {
	if e.conn != nil {
		if err := e.conn.Close(); err != nil {
			e.logger.Debug("error closing accepted connection", "error", err)
		}
	}
	if err := e.listener.Close(); err != nil {
		e.logger.Debug("error closing listener", "error", err)
	}
	cleanupName(e.name, e.logger)
}
