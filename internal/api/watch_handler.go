package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"carpool-backend-go/internal/core"
	"carpool-backend-go/internal/observability"
)

// WatchHandler serves WebSocket subscriptions to ride, route, group, and chat
// state. Each connection carries one subscription; every frame is the full
// current snapshot, so a client that misses intermediate states still ends up
// correct. A null payload means the entity is absent.
type WatchHandler struct {
	rideService  core.RideService
	groupService core.GroupService
	chatService  core.ChatService
	upgrader     websocket.Upgrader
	logger       *zap.Logger
}

// NewWatchHandler creates a new WatchHandler. Only clientURL is accepted as a
// WebSocket origin; empty origin (non-browser clients) is allowed.
func NewWatchHandler(rs core.RideService, gs core.GroupService, cs core.ChatService, clientURL string, logger *zap.Logger) *WatchHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WatchHandler{
		rideService:  rs,
		groupService: gs,
		chatService:  cs,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || origin == clientURL
			},
		},
		logger: logger,
	}
}

// watchFrame is the single frame shape for every watch endpoint.
type watchFrame struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// WatchRide handles GET /watch/rides/:rideId
func (h *WatchHandler) WatchRide(c *gin.Context) {
	rideID := c.Param("rideId")
	h.serve(c, "ride", func(ctx context.Context, send func(interface{}) error) (func(), error) {
		ch, stop, err := h.rideService.WatchRide(ctx, rideID)
		if err != nil {
			return nil, err
		}
		go func() {
			for ride := range ch {
				if ride == nil {
					if send(nil) != nil {
						return
					}
					continue
				}
				resp := toRideResponse(ride)
				if send(resp) != nil {
					return
				}
			}
		}()
		return stop, nil
	})
}

// WatchRoute handles GET /watch/rides/:rideId/route
func (h *WatchHandler) WatchRoute(c *gin.Context) {
	rideID := c.Param("rideId")
	h.serve(c, "route", func(ctx context.Context, send func(interface{}) error) (func(), error) {
		ch, stop, err := h.rideService.WatchRoute(ctx, rideID)
		if err != nil {
			return nil, err
		}
		go func() {
			for route := range ch {
				if route == nil {
					if send(nil) != nil {
						return
					}
					continue
				}
				resp := toRouteResponse(route)
				if send(resp) != nil {
					return
				}
			}
		}()
		return stop, nil
	})
}

// WatchGroup handles GET /watch/groups/:groupId
func (h *WatchHandler) WatchGroup(c *gin.Context) {
	groupID := c.Param("groupId")
	h.serve(c, "group", func(ctx context.Context, send func(interface{}) error) (func(), error) {
		ch, stop, err := h.groupService.WatchGroup(ctx, groupID)
		if err != nil {
			return nil, err
		}
		go func() {
			for group := range ch {
				if group == nil {
					if send(nil) != nil {
						return
					}
					continue
				}
				resp := toGroupResponse(group)
				if send(resp) != nil {
					return
				}
			}
		}()
		return stop, nil
	})
}

// WatchGroupChat handles GET /watch/groups/:groupId/chat
func (h *WatchHandler) WatchGroupChat(c *gin.Context) {
	groupID := c.Param("groupId")
	h.serve(c, "chat", func(ctx context.Context, send func(interface{}) error) (func(), error) {
		ch, stop, err := h.chatService.WatchGroupChat(ctx, groupID)
		if err != nil {
			return nil, err
		}
		go func() {
			for msgs := range ch {
				if send(msgs) != nil {
					return
				}
			}
		}()
		return stop, nil
	})
}

// WatchRideChat handles GET /watch/rides/:rideId/chat
func (h *WatchHandler) WatchRideChat(c *gin.Context) {
	rideID := c.Param("rideId")
	h.serve(c, "chat", func(ctx context.Context, send func(interface{}) error) (func(), error) {
		ch, stop, err := h.chatService.WatchRideChat(ctx, rideID)
		if err != nil {
			return nil, err
		}
		go func() {
			for msgs := range ch {
				if send(msgs) != nil {
					return
				}
			}
		}()
		return stop, nil
	})
}

// serve upgrades the connection, wires a subscription through `start`, and
// blocks until the peer disconnects. The subscription is always stopped on
// exit so no watcher goroutine outlives its socket.
func (h *WatchHandler) serve(c *gin.Context, frameType string, start func(ctx context.Context, send func(interface{}) error) (func(), error)) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error response.
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	observability.WatchSessionsActive.Inc()
	defer observability.WatchSessionsActive.Dec()

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	send := func(data interface{}) error {
		return conn.WriteJSON(watchFrame{Type: frameType, Data: data})
	}

	stop, err := start(ctx, send)
	if err != nil {
		h.logger.Error("failed to start watch subscription", zap.String("type", frameType), zap.Error(err))
		conn.WriteJSON(watchFrame{Type: "error", Data: "subscription failed"})
		return
	}
	defer stop()

	// Drain reads only to notice the close; clients never send data frames.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Debug("websocket closed unexpectedly", zap.Error(err))
			}
			return
		}
	}
}
