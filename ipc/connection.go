package ipc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sync"
)

// Handler processes a received envelope. Return nil to send no reply; a
// returned error is sent back as an error message.
type Handler func(ctx context.Context, env Envelope) (*Envelope, error)

// Connection is one client session. Each session is identified after the
// hello handshake.
type Connection struct {
	conn     net.Conn
	handlers map[string]Handler
	logger   *slog.Logger
	writeMu  sync.Mutex
	Client   string
}

func NewConnection(conn net.Conn, handlers map[string]Handler) *Connection {
	if handlers == nil {
		handlers = make(map[string]Handler)
	}
	return &Connection{
		conn:     conn,
		handlers: handlers,
		logger:   slog.Default(),
	}
}

// SetLogger replaces the session logger.
func (c *Connection) SetLogger(l *slog.Logger) { c.logger = l }

func (c *Connection) RegisterHandler(msgType string, handler Handler) {
	c.handlers[msgType] = handler
}

func (c *Connection) Send(msgType string, data any) error {
	env, err := NewEnvelope(msgType, data)
	if err != nil {
		return err
	}
	return c.write(env)
}

// Receive blocks for the next envelope. Clients use it to read replies.
func (c *Connection) Receive() (Envelope, error) {
	return ReadEnvelope(c.conn)
}

// Call sends a request and waits for its reply. An error reply is
// returned as an error.
func (c *Connection) Call(msgType string, data any) (Envelope, error) {
	if err := c.Send(msgType, data); err != nil {
		return Envelope{}, err
	}
	env, err := c.Receive()
	if err != nil {
		return Envelope{}, err
	}
	if env.Type == TypeError {
		var msg ErrorMessage
		if err := env.Decode(&msg); err != nil {
			return Envelope{}, err
		}
		return Envelope{}, fmt.Errorf("%s failed: %s", msg.Request, msg.Error)
	}
	return env, nil
}

func (c *Connection) Close() error { return c.conn.Close() }

func (c *Connection) write(env Envelope) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return WriteEnvelope(c.conn, env)
}

// ReadLoop blocks until the connection closes, errors or ctx is done. It
// owns the conn lifetime so callers don't need to track cleanup.
func (c *Connection) ReadLoop(ctx context.Context) {
	defer c.conn.Close()
	stop := context.AfterFunc(ctx, func() { c.conn.Close() })
	defer stop()

	for {
		env, err := ReadEnvelope(c.conn)
		if err != nil {
			c.logger.Info("connection read ended", "client", c.Client, "error", err)
			return
		}

		handler, ok := c.handlers[env.Type]
		if !ok {
			c.logger.Warn("no handler for message type", "type", env.Type)
			c.replyError(env.Type, fmt.Errorf("unknown message type %q", env.Type))
			continue
		}

		resp, err := handler(ctx, env)
		if err != nil {
			c.logger.Error("handler error", "type", env.Type, "error", err)
			c.replyError(env.Type, err)
			continue
		}

		if resp != nil {
			if err := c.write(*resp); err != nil {
				c.logger.Error("failed to send response", "type", resp.Type, "error", err)
				// An oversized frame is rejected before anything is written.
				if errors.Is(err, ErrMessageSize) {
					c.replyError(env.Type, fmt.Errorf("%s reply too large: %w", resp.Type, err))
					continue
				}
				return
			}
			c.logger.Info("sent response", "type", resp.Type, "client", c.Client)
		}
	}
}

func (c *Connection) replyError(request string, err error) {
	if err := c.Send(TypeError, ErrorMessage{Request: request, Error: err.Error()}); err != nil {
		c.logger.Error("failed to send error", "type", request, "error", err)
	}
}
