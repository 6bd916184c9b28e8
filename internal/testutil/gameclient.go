// Package testutil provides test helpers for exercising the game channel
// end to end.
package testutil

import (
	"encoding/binary"
	"fmt"
	"math/rand/v2"
	"net"
	"testing"
	"time"

	"github.com/saddleworks/rccemu/internal/protocol"
)

// GameClient simplifies integration tests against the game server. It
// manages the connection and frame-level reads and writes.
type GameClient struct {
	t       testing.TB
	conn    net.Conn
	timeout time.Duration
}

// NewGameClient dials the game server at addr. The connection is closed via
// t.Cleanup.
func NewGameClient(t testing.TB, addr string) (*GameClient, error) {
	t.Helper()

	// Retry dial with backoff + jitter: the listener may still be coming up
	// and mass test connections can outrun port recycling.
	var conn net.Conn
	var err error
	for attempt := range 10 {
		conn, err = net.DialTimeout("tcp", addr, 5*time.Second)
		if err == nil {
			break
		}
		if attempt < 9 {
			base := time.Duration(20<<min(attempt, 6)) * time.Millisecond
			jitter := time.Duration(rand.IntN(int(base/2)+1)) * time.Millisecond
			time.Sleep(base + jitter)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("dial game server: %w", err)
	}

	if tcpConn, ok := conn.(*net.TCPConn); ok {
		if err := tcpConn.SetLinger(0); err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("set linger: %w", err)
		}
	}

	client := &GameClient{
		t:       t,
		conn:    conn,
		timeout: 5 * time.Second,
	}

	t.Cleanup(func() {
		_ = client.Close()
	})

	return client, nil
}

// Close closes the connection.
func (c *GameClient) Close() error {
	return c.conn.Close()
}

// SendFrame writes one frame with the given payload.
func (c *GameClient) SendFrame(payload []byte) error {
	c.t.Helper()

	if err := c.conn.SetWriteDeadline(time.Now().Add(c.timeout)); err != nil {
		return fmt.Errorf("set write deadline: %w", err)
	}
	return protocol.WriteFrame(c.conn, payload)
}

// SendRaw writes raw bytes with no framing, for malformed-input tests.
func (c *GameClient) SendRaw(data []byte) error {
	c.t.Helper()

	if err := c.conn.SetWriteDeadline(time.Now().Add(c.timeout)); err != nil {
		return fmt.Errorf("set write deadline: %w", err)
	}
	_, err := c.conn.Write(data)
	return err
}

// ReadFrame reads one frame and returns its payload.
func (c *GameClient) ReadFrame() ([]byte, error) {
	c.t.Helper()

	if err := c.conn.SetReadDeadline(time.Now().Add(c.timeout)); err != nil {
		return nil, fmt.Errorf("set read deadline: %w", err)
	}
	return protocol.ReadFrame(c.conn)
}

// BuildLoginPayload assembles the authorization blob: wrapper byte, protocol
// version, four wrapper bytes, the Steam id, and a raw token.
func BuildLoginPayload(version byte, steamID uint64, token []byte) []byte {
	payload := make([]byte, 0, 14+len(token))
	payload = append(payload, 0, version, 0, 0, 0, 0)
	payload = binary.LittleEndian.AppendUint64(payload, steamID)
	return append(payload, token...)
}

// SendLogin sends a login message on ServiceLogin with the given RPC id.
func (c *GameClient) SendLogin(rpcID uint16, steamID uint64, token []byte) error {
	c.t.Helper()

	msg := make([]byte, 0, 64)
	msg = append(msg, 100) // ServiceLogin
	msg = binary.LittleEndian.AppendUint16(msg, rpcID)
	msg = append(msg, BuildLoginPayload(34, steamID, token)...)
	return c.SendFrame(msg)
}
