package channel

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/AlexZinkM/wallet-connect/internal/logger"
	"github.com/AlexZinkM/wallet-connect/internal/model"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 1 << 20
)

// Serve attaches conn as the mailbox opener. Inbound frames are decoded as
// model.OpenerMessage and queued; the terminal envelope is written as JSON
// followed by a normal close frame. Serve returns when the envelope has been
// written, the peer goes away or ctx is done. The caller owns conn.
func Serve(ctx context.Context, conn *websocket.Conn, mb *Mailbox) error {
	envelopes, detach, err := mb.Subscribe()
	if err != nil {
		closeWith(conn, websocket.ClosePolicyViolation, err.Error())
		return err
	}
	defer detach()

	readErr := make(chan error, 1)
	go func() {
		readErr <- readLoop(ctx, conn, mb)
	}()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case env := <-envelopes:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(env); err != nil {
				return fmt.Errorf("failed to write envelope: %w", err)
			}
			closeWith(conn, websocket.CloseNormalClosure, string(env.Status))
			return nil
		case err := <-readErr:
			return err
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return fmt.Errorf("failed to ping opener: %w", err)
			}
		case <-ctx.Done():
			closeWith(conn, websocket.CloseGoingAway, "shutting down")
			return ctx.Err()
		}
	}
}

func readLoop(ctx context.Context, conn *websocket.Conn, mb *Mailbox) error {
	log := logger.FromContext(ctx)

	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			return fmt.Errorf("failed to read from opener: %w", err)
		}

		var msg model.OpenerMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			log.Warn().Err(err).Msg("Dropping malformed opener message")
			continue
		}
		if err := mb.Deliver(msg); err != nil {
			if errors.Is(err, ErrClosed) {
				return nil
			}
			log.Warn().Err(err).Str("type", msg.Type).Msg("Dropping opener message")
		}
	}
}

func closeWith(conn *websocket.Conn, code int, text string) {
	msg := websocket.FormatCloseMessage(code, text)
	_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
}
