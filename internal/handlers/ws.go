package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vancomm/sweeper/internal/command"
	"github.com/vancomm/sweeper/internal/session"
)

const writeWait = 10 * time.Second

// ConnectWS upgrades to a WebSocket. Every text message is a command batch and
// is answered with the session snapshot; a malformed batch is answered with
// the offending line and the connection stays open.
func (g GameHandler) ConnectWS(w http.ResponseWriter, r *http.Request) {
	s, ok := g.authorizedSession(w, r)
	if !ok {
		return
	}

	conn, err := g.ws.Upgrader.Upgrade(w, r, nil) // headers sent here
	if err != nil {
		g.logger.Error("unable to upgrade", slog.Any("error", err))
		return
	}
	defer conn.Close()

	g.logger.Debug("established ws connection", slog.String("session", s.Id()))

	err = g.wsRunGameLoop(r.Context(), conn, s)
	if err != nil && !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
		g.logger.Warn("abnormal ws break", slog.Any("error", err))
	}
}

func (g GameHandler) wsKeepAlive(conn *websocket.Conn, done <-chan struct{}) {
	ticker := time.NewTicker(g.ws.PongWait * 9 / 10)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
			if err != nil {
				return
			}
		}
	}
}

func (g GameHandler) wsRunGameLoop(ctx context.Context, conn *websocket.Conn, s *session.Session) error {
	conn.SetReadLimit(g.ws.ReadLimit)
	conn.SetReadDeadline(time.Now().Add(g.ws.PongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(g.ws.PongWait))
	})

	done := make(chan struct{})
	defer close(done)
	go g.wsKeepAlive(conn, done)

	for {
		mt, buf, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		if mt != websocket.TextMessage {
			return fmt.Errorf("unexpected ws message type %d", mt)
		}
		g.logger.Debug("ws batch", slog.String("session", s.Id()), slog.Int("bytes", len(buf)))

		var reply any
		cmds, err := command.ParseBatch(string(buf))
		var lineErr *command.LineError
		switch {
		case errors.As(err, &lineErr):
			reply = lineErr
		case err != nil:
			return err
		default:
			res, err := s.Apply(cmds...)
			if err != nil {
				return fmt.Errorf("unable to apply commands: %w", err)
			}
			g.finish(ctx, s, res)
			reply = NewGameSessionDTO(res.Snapshot)
		}

		conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteJSON(reply); err != nil {
			return fmt.Errorf("unable to write json: %w", err)
		}
	}
}
