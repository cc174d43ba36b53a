package http

import (
	"crypto/rand"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/Yuji-2251/expert-assistant/domain"
	"github.com/Yuji-2251/expert-assistant/usecase"
	"github.com/Yuji-2251/expert-assistant/utils/log"
)

const (
	JWTExpiry = 24 * time.Hour

	// HistoryDisplayLimit caps how many exchanges the UI ever sees.
	HistoryDisplayLimit = 3
)

type ChatHandler struct {
	responder *usecase.Responder
	sessions  *usecase.Sessions
	broker    domain.MessageBroker
	jwtSecret []byte
}

type ChatRequest struct {
	Persona string `json:"persona"`
	Message string `json:"message"`
}

type ChatResponse struct {
	Answer  string `json:"answer,omitempty"`
	Error   string `json:"error,omitempty"`
	Persona string `json:"persona"`
}

type PersonaInfo struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Description string `json:"description"`
}

type JWTClaims struct {
	SessionID string `json:"session_id"`
	jwt.RegisteredClaims
}

func NewChatHandler(responder *usecase.Responder, sessions *usecase.Sessions, broker domain.MessageBroker, jwtSecret string) *ChatHandler {
	return &ChatHandler{
		responder: responder,
		sessions:  sessions,
		broker:    broker,
		jwtSecret: []byte(jwtSecret),
	}
}

// GenerateToken issues a session token. Every token carries a fresh random
// session ID; the exchange history lives and dies with it.
func (h *ChatHandler) GenerateToken(c echo.Context) error {
	sessionID, err := generateSessionID()
	if err != nil {
		log.With().Error("generating session id", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create session")
	}

	claims := &JWTClaims{
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(JWTExpiry)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
			Issuer:    "expert-assistant",
			Subject:   "chat-session",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(h.jwtSecret)
	if err != nil {
		log.With().Error("signing session token", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to generate token")
	}

	return c.JSON(http.StatusOK, map[string]string{
		"token": tokenString,
		"type":  "Bearer",
	})
}

// JWTMiddleware validates the Bearer token and stores the session ID in the
// request context.
func (h *ChatHandler) JWTMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "Missing authorization header")
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid authorization format")
		}

		token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return h.jwtSecret, nil
		})
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
		}

		if claims, ok := token.Claims.(*JWTClaims); ok && token.Valid {
			c.Set("session_id", claims.SessionID)
			return next(c)
		}

		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token claims")
	}
}

// Chat answers one question under a persona. Failed completions come back as
// plain text in the error field with status 200: the turn completed, the
// answer just happens to be bad news. Only successful exchanges enter the
// session history.
func (h *ChatHandler) Chat(c echo.Context) error {
	var req ChatRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	message := strings.TrimSpace(req.Message)
	if message == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Please enter a question")
	}

	persona, err := domain.ParsePersona(req.Persona)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Unknown persona %q", req.Persona))
	}

	sessionID := c.Get("session_id").(string)
	ctx := c.Request().Context()

	result := h.responder.Respond(ctx, message, persona)
	if result.Failed() {
		return c.JSON(http.StatusOK, ChatResponse{
			Error:   result.Err,
			Persona: string(persona),
		})
	}

	exchange := domain.Exchange{
		Persona:  persona,
		Question: message,
		Answer:   result.Text,
		At:       time.Now(),
	}
	h.sessions.Log(sessionID).Append(exchange)
	h.publishExchange(c, sessionID, exchange)

	return c.JSON(http.StatusOK, ChatResponse{
		Answer:  result.Text,
		Persona: string(persona),
	})
}

// publishExchange announces the exchange on the broker so live channels can
// follow along. Delivery failures are logged, never surfaced to the user.
func (h *ChatHandler) publishExchange(c echo.Context, sessionID string, exchange domain.Exchange) {
	event := domain.ExchangeEvent{
		SessionID: sessionID,
		Persona:   exchange.Persona,
		Question:  exchange.Question,
		Answer:    exchange.Answer,
		Timestamp: exchange.At,
	}
	payload, err := json.Marshal(event)
	if err != nil {
		log.With().Error("marshaling exchange event", zap.Error(err))
		return
	}
	if err := h.broker.Publish(c.Request().Context(), domain.ExchangeTopic, "", payload); err != nil {
		log.With().Warn("publishing exchange event",
			zap.String("session_id", sessionID),
			zap.Error(err))
	}
}

// Personas lists the closed persona set for the selector.
func (h *ChatHandler) Personas(c echo.Context) error {
	all := domain.Personas()
	infos := make([]PersonaInfo, len(all))
	for i, p := range all {
		infos[i] = PersonaInfo{
			ID:          string(p),
			DisplayName: domain.DisplayName(p),
			Description: domain.Description(p),
		}
	}
	return c.JSON(http.StatusOK, infos)
}

// History returns the session's most recent exchanges, newest first.
func (h *ChatHandler) History(c echo.Context) error {
	sessionID := c.Get("session_id").(string)
	exchangeLog := h.sessions.Log(sessionID)
	return c.JSON(http.StatusOK, map[string]interface{}{
		"exchanges": exchangeLog.Recent(HistoryDisplayLimit),
		"total":     exchangeLog.Len(),
	})
}

// ClearHistory empties the session's exchange log.
func (h *ChatHandler) ClearHistory(c echo.Context) error {
	sessionID := c.Get("session_id").(string)
	h.sessions.Clear(sessionID)
	return c.NoContent(http.StatusNoContent)
}

// HealthCheck reports service liveness.
func (h *ChatHandler) HealthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC(),
		"service":   "expert-assistant",
	})
}

// generateSessionID creates a unique session identifier.
func generateSessionID() (string, error) {
	bytes := make([]byte, 16)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return fmt.Sprintf("%x", bytes), nil
}
