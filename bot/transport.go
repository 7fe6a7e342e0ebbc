// File: bot/transport.go
package bot

import (
	"net"
	"strings"
	"time"

	"golang.org/x/net/websocket"
)

// Transport is the minimal surface the Bot Facade needs from a WebSocket
// connection. It exists so tests can substitute an in-memory fake instead
// of dialing a real server.
type Transport interface {
	Write(text string) error
	ReadFrame() (string, error)
	Close() error
}

// wsTransport wraps golang.org/x/net/websocket the way pongoClient's
// main.go dials out: a plain text-mode client connection, read in a
// growable buffer loop.
type wsTransport struct {
	conn *websocket.Conn
}

// Dial opens a WebSocket connection to server's Socket.IO endpoint,
// prepending "wss://" if server lacks a scheme. dialTimeout bounds only
// the TCP handshake; once connected, the conn carries no read/write
// deadline, matching pongoClient/main.go, which never sets one either.
func Dial(server string, dialTimeout time.Duration) (Transport, error) {
	url := buildURL(server)

	config, err := websocket.NewConfig(url, originFor(url))
	if err != nil {
		return nil, &TransportError{Op: "configure " + url, Err: err}
	}
	config.Dialer = &net.Dialer{Timeout: dialTimeout}

	conn, err := websocket.DialConfig(config)
	if err != nil {
		return nil, &TransportError{Op: "dial " + url, Err: err}
	}
	return &wsTransport{conn: conn}, nil
}

func buildURL(server string) string {
	if !strings.Contains(server, "://") {
		server = "wss://" + server
	}
	if !strings.Contains(server, "/socket.io/") {
		server = strings.TrimRight(server, "/") + "/socket.io/?EIO=4&transport=websocket"
	}
	return server
}

func originFor(wsURL string) string {
	origin := strings.Replace(wsURL, "wss://", "https://", 1)
	origin = strings.Replace(origin, "ws://", "http://", 1)
	if idx := strings.Index(origin, "/socket.io/"); idx >= 0 {
		origin = origin[:idx+1]
	}
	return origin
}

func (t *wsTransport) Write(text string) error {
	_, err := t.conn.Write([]byte(text))
	return err
}

// ReadFrame reads one WebSocket text message, growing the read buffer
// across partial reads the way pongoClient's main.go does.
func (t *wsTransport) ReadFrame() (string, error) {
	var message []byte
	buffer := make([]byte, 512)
	for {
		n, err := t.conn.Read(buffer)
		if err != nil {
			return "", err
		}
		message = append(message, buffer[:n]...)
		if n < len(buffer) {
			break
		}
	}
	return string(message), nil
}

func (t *wsTransport) Close() error {
	return t.conn.Close()
}
