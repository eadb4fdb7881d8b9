package delivery

import (
	"errors"
	"net/http"
	"slices"
	"time"

	authdelivery "syncode-backend/internal/auth/delivery"
	authusecase "syncode-backend/internal/auth/usecase"
	"syncode-backend/internal/collab"
	"syncode-backend/pkg/perrors"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 1 << 20
)

type Options struct {
	AllowedOrigins []string
	// RequireAuth rejects upgrades that carry no valid access token.
	RequireAuth bool
}

// CollabHandler upgrades requests to websockets and joins them to the hub
type CollabHandler struct {
	hub         *collab.Hub
	authUsecase authusecase.AuthUsecase
	upgrader    websocket.Upgrader
	opts        Options
	log         *zap.Logger
}

// NewCollabHandler creates a new CollabHandler
func NewCollabHandler(hub *collab.Hub, authUsecase authusecase.AuthUsecase, opts Options, log *zap.Logger) *CollabHandler {
	h := &CollabHandler{
		hub:         hub,
		authUsecase: authUsecase,
		opts:        opts,
		log:         log,
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin:     h.checkOrigin,
	}
	return h
}

func (h *CollabHandler) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	return slices.Contains(h.opts.AllowedOrigins, "*") || slices.Contains(h.opts.AllowedOrigins, origin)
}

// Connect joins the caller to the collaboration room
// GET /ws
func (h *CollabHandler) Connect(c *gin.Context) {
	userID, err := h.admit(c)
	if err != nil {
		perrors.Abort(c, h.log, err)
		return
	}

	ws, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error.
		h.log.Debug("websocket upgrade failed", zap.Error(err))
		return
	}

	conn := collab.NewConn(userID, collab.DefaultSendBuffer)
	if !h.hub.Register(conn) {
		ws.Close()
		return
	}

	go h.writePump(ws, conn)
	h.readPump(ws, conn)
}

func (h *CollabHandler) admit(c *gin.Context) (string, error) {
	if user, ok := authdelivery.CurrentUser(c); ok {
		return user.ID, nil
	}
	if token := c.Query("token"); token != "" {
		user, err := h.authUsecase.ValidateToken(c.Request.Context(), token)
		if err == nil {
			return user.ID, nil
		}
		if h.opts.RequireAuth {
			return "", err
		}
	}
	if h.opts.RequireAuth {
		return "", perrors.NewErrUnauthenticated("authentication required", nil)
	}
	return "", nil
}

// readPump relays frames in arrival order, so a sender's events reach peers
// in the order it sent them.
func (h *CollabHandler) readPump(ws *websocket.Conn, conn *collab.Conn) {
	defer func() {
		h.hub.Unregister(conn)
		ws.Close()
	}()

	ws.SetReadLimit(maxMessageSize)
	_ = ws.SetReadDeadline(time.Now().Add(pongWait))
	ws.SetPongHandler(func(string) error {
		return ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, frame, err := ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.Debug("collab connection read failed", zap.String("conn_id", conn.ID), zap.Error(err))
			}
			return
		}

		out, err := collab.Relay(frame)
		if err != nil {
			if !errors.Is(err, collab.ErrUnknownEvent) {
				h.log.Debug("ignoring malformed collab frame", zap.String("conn_id", conn.ID), zap.Error(err))
			}
			continue
		}
		h.hub.Broadcast(conn, out)
	}
}

func (h *CollabHandler) writePump(ws *websocket.Conn, conn *collab.Conn) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		ws.Close()
	}()

	for {
		select {
		case frame, ok := <-conn.Send():
			_ = ws.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = ws.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := ws.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}
		case <-ticker.C:
			_ = ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
