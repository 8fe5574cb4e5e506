// Package pluginsdk is the client-side counterpart of polychat-core:
// what a plugin executable links against to connect back to the host's
// per-plugin endpoint and exchange framed instruction envelopes.
package pluginsdk

import (
	"bufio"
	"fmt"
	"net"

	"github.com/polychat-dev/polychat-core/envelope"
)

// Client connects to the endpoint the host bound for this plugin and
// exchanges framed instruction envelopes over it.
type Client struct {
	conn   net.Conn
	reader *bufio.Reader
	writer *bufio.Writer
}

// Connect dials the endpoint identified by name, using the same
// platform-specific naming rule as the host's endpoint package.
func Connect(name string) (*Client, error) {
	address := resolveName(name)
	conn, err := dial(address)
	if err != nil {
		return nil, fmt.Errorf("connect to endpoint %q: %w", address, err)
	}
	return &Client{
		conn:   conn,
		reader: bufio.NewReader(conn),
		writer: bufio.NewWriter(conn),
	}, nil
}

// SendCoreInstruction writes one plugin-to-core envelope.
func (c *Client) SendCoreInstruction(env envelope.CoreEnvelope) error {
	return envelope.WriteCoreEnvelope(c.writer, env)
}

// RecvPluginInstruction reads and decodes one core-to-plugin envelope.
func (c *Client) RecvPluginInstruction() (envelope.PluginEnvelope, error) {
	return envelope.ReadPluginEnvelope(c.reader)
}

// SendInit is a convenience wrapper sending an Init envelope built from
// data, the first message every plugin must send once connected.
func (c *Client) SendInit(data envelope.InitData) error {
	env, err := envelope.NewCoreEnvelope(envelope.KindInit, data)
	if err != nil {
		return err
	}
	return c.SendCoreInstruction(env)
}

// Close closes the underlying connection.
func (c *Client) Close() error {
	return c.conn.Close()
}
