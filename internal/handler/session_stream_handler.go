package handler

import (
	"physio-notes-be/internal/pkg/apperror"
	"physio-notes-be/internal/pkg/logger"
	"physio-notes-be/internal/pkg/serverutils"
	"physio-notes-be/internal/service"
	internalWS "physio-notes-be/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// SessionStreamHandler pushes session state changes to the user's open
// websocket connections.
type SessionStreamHandler struct {
	sessionService service.ISessionService
	verifier       *serverutils.TokenVerifier
	hub            *internalWS.Hub
	logger         logger.ILogger
}

func NewSessionStreamHandler(sessionService service.ISessionService, verifier *serverutils.TokenVerifier, hub *internalWS.Hub, log logger.ILogger) *SessionStreamHandler {
	return &SessionStreamHandler{
		sessionService: sessionService,
		verifier:       verifier,
		hub:            hub,
		logger:         log,
	}
}

func (h *SessionStreamHandler) RegisterRoutes(r fiber.Router) {
	r.Get("/session/ws", h.ServeWs)
}

// ServeWs upgrades the request after checking the token. Browsers cannot set
// headers on a websocket handshake, so ?token= is tried before the
// Authorization header.
func (h *SessionStreamHandler) ServeWs(c *fiber.Ctx) error {
	tokenStr := c.Query("token")
	if tokenStr == "" {
		tokenStr = serverutils.BearerToken(c)
	}
	if tokenStr == "" {
		return apperror.NewUnauthorized("Missing token (query 'token' or Authorization header)")
	}

	userID, err := h.verifier.Verify(tokenStr)
	if err != nil {
		h.logger.Warn("SessionStreamHandler", "Invalid token in websocket handshake", map[string]interface{}{"error": err.Error()})
		return apperror.NewUnauthorized("Invalid token")
	}

	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}

	initial, err := internalWS.Encode("session_state", h.sessionService.Get(c.UserContext(), userID).Snapshot)
	if err != nil {
		initial = nil
	}

	return websocket.New(func(conn *websocket.Conn) {
		h.logger.Info("SessionStreamHandler", "Starting websocket session", map[string]interface{}{"user_id": userID.String()})
		internalWS.ServeWs(h.hub, conn, userID, initial)
		h.logger.Info("SessionStreamHandler", "Websocket session ended", map[string]interface{}{"user_id": userID.String()})
	})(c)
}
