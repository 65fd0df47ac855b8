package connect

import (
	"context"
	"fmt"
	"time"

	"github.com/AlexZinkM/wallet-connect/internal/model"

	"github.com/gorilla/websocket"
)

const writeWait = 10 * time.Second

// Session is an open request attached to its channel
type Session struct {
	model.OpenResponse
	conn *websocket.Conn
}

// SendMessage sends a message to the request over the channel
func (s *Session) SendMessage(msg model.OpenerMessage) error {
	_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := s.conn.WriteJSON(msg); err != nil {
		return fmt.Errorf("failed to send %s: %w", msg.Type, err)
	}
	return nil
}

// Wait blocks until the result envelope arrives or ctx is done.
// The session cannot be waited on again after ctx expired.
func (s *Session) Wait(ctx context.Context) (model.Envelope, error) {
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = s.conn.SetReadDeadline(time.Now())
		case <-done:
		}
	}()

	var env model.Envelope
	if err := s.conn.ReadJSON(&env); err != nil {
		if ctx.Err() != nil {
			return env, ctx.Err()
		}
		return env, fmt.Errorf("failed to read result: %w", err)
	}
	return env, nil
}

// Close detaches from the channel
func (s *Session) Close() error {
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	_ = s.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
	return s.conn.Close()
}
