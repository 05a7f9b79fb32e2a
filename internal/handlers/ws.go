package handlers

import (
	"net/http"
	"time"

	"swanchat/internal/chat"
	"swanchat/internal/models"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

const (
	wsWriteWait  = 10 * time.Second
	wsPongWait   = 60 * time.Second
	wsPingPeriod = (wsPongWait * 9) / 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The widget is embedded on customer sites, so any origin may connect.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// EventsHandler streams session events over a WebSocket
// @Summary Subscribe to session events
// @Description Push every transcript message and state change of a session as it happens
// @Tags sessions
// @Param id path string true "Session ID"
// @Success 101
// @Failure 404 {object} models.ErrorResponse
// @Router /api/sessions/{id}/events [get]
func EventsHandler(sessions *chat.Manager, logger zerolog.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		session, ok := sessions.Get(c.Param("id"))
		if !ok {
			return c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "session not found"})
		}

		conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
		if err != nil {
			return err
		}

		events, cancel := session.Subscribe()
		log := logger.With().Str("session_id", session.ID).Logger()
		log.Debug().Msg("WebSocket subscriber connected")

		go writePump(conn, events, cancel, log)
		go readPump(conn, log)
		return nil
	}
}

// writePump forwards session events to the socket and keeps it alive
// with pings. It owns all writes on the connection.
func writePump(conn *websocket.Conn, events <-chan chat.Event, cancel func(), log zerolog.Logger) {
	ticker := time.NewTicker(wsPingPeriod)
	defer func() {
		ticker.Stop()
		cancel()
		conn.Close()
		log.Debug().Msg("WebSocket subscriber disconnected")
	}()

	for {
		select {
		case event, ok := <-events:
			conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if !ok {
				conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, "session ended"))
				return
			}
			if err := conn.WriteJSON(event); err != nil {
				log.Debug().Err(err).Msg("WebSocket write failed")
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump drains the socket so close frames and pongs are processed.
// Incoming payloads are ignored: clients talk through the REST API.
func readPump(conn *websocket.Conn, log zerolog.Logger) {
	conn.SetReadLimit(512)
	conn.SetReadDeadline(time.Now().Add(wsPongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(wsPongWait))
		return nil
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Debug().Err(err).Msg("WebSocket read failed")
			}
			conn.Close()
			return
		}
	}
}
