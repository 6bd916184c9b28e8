package gameserver

import (
	"fmt"
	"net"
	"sync"
)

// Client represents a single client connection to the game server.
type Client struct {
	conn net.Conn
	id   string
	ip   string

	playerID uint32
	loggedIn bool

	mu sync.Mutex
}

// NewClient creates game client state for the given connection.
func NewClient(conn net.Conn) (*Client, error) {
	host, _, err := net.SplitHostPort(conn.RemoteAddr().String())
	if err != nil {
		return nil, fmt.Errorf("splitting host port: %w", err)
	}

	return &Client{
		conn: conn,
		id:   conn.RemoteAddr().String(),
		ip:   host,
	}, nil
}

// ID returns the client identifier (remote host:port).
func (c *Client) ID() string {
	return c.id
}

// IP returns the client's remote IP address.
func (c *Client) IP() string {
	return c.ip
}

// LoggedIn reports whether the client has completed the login exchange.
func (c *Client) LoggedIn() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loggedIn
}

// PlayerID returns the player id assigned at login, 0 before login.
func (c *Client) PlayerID() uint32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.playerID
}

// SetLoggedIn records a completed login.
func (c *Client) SetLoggedIn(playerID uint32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.loggedIn = true
	c.playerID = playerID
}
