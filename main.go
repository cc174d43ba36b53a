package main

import (
	"log"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/subosito/gotenv"

	"github.com/Yuji-2251/expert-assistant/adapters/hasher"
	adapterhttp "github.com/Yuji-2251/expert-assistant/adapters/http"
	"github.com/Yuji-2251/expert-assistant/adapters/llm"
	"github.com/Yuji-2251/expert-assistant/adapters/message_broker"
	"github.com/Yuji-2251/expert-assistant/adapters/secrets"
	"github.com/Yuji-2251/expert-assistant/adapters/websocket"
	"github.com/Yuji-2251/expert-assistant/config"
	"github.com/Yuji-2251/expert-assistant/usecase"
)

func main() {
	gotenv.Load()
	cfg := config.Load()

	completer, err := llm.New(cfg.Provider, cfg.Model, cfg.Temperature)
	if err != nil {
		log.Fatal(err)
	}

	secretStore := secrets.New(cfg.SecretsFile)
	responder := usecase.NewResponder(completer, secretStore, hasher.New())
	sessions := usecase.NewSessions()
	broker := message_broker.NewChannelBroker()
	defer broker.Close()

	server := websocket.NewServer(responder, sessions, broker)
	go server.RunWebsocketHub()

	chatHandler := adapterhttp.NewChatHandler(responder, sessions, broker, cfg.JWTSecret)

	e := echo.New()

	// Security middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.Secure())
	e.Use(middleware.RateLimiter(middleware.NewRateLimiterMemoryStore(20))) // 20 requests per minute

	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"}, // In production, specify exact origins
		AllowMethods: []string{echo.GET, echo.POST, echo.DELETE, echo.OPTIONS},
		AllowHeaders: []string{
			echo.HeaderOrigin,
			echo.HeaderContentType,
			echo.HeaderAccept,
			echo.HeaderAuthorization,
		},
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}))

	// Questions are text; nothing legitimate needs more than this.
	e.Use(middleware.BodyLimit("64KB"))

	// The chat page itself
	e.GET("/", chatHandler.Page)

	// WebSocket live channel (JWT required)
	wsGroup := e.Group("/ws")
	wsGroup.Use(chatHandler.JWTMiddleware)
	wsGroup.GET("", server.Handler)

	// HTTP API routes
	api := e.Group("/api/v1")

	// Public endpoints (no auth required)
	api.GET("/health", chatHandler.HealthCheck)
	api.GET("/personas", chatHandler.Personas)
	api.POST("/auth/token", chatHandler.GenerateToken)

	// Session endpoints (JWT auth required)
	session := api.Group("")
	session.Use(chatHandler.JWTMiddleware)
	session.POST("/chat", chatHandler.Chat)
	session.GET("/history", chatHandler.History)
	session.DELETE("/history", chatHandler.ClearHistory)

	log.Printf("Starting server on %s", cfg.Addr)
	log.Println("Available endpoints:")
	log.Println("  GET    /                      - Chat page")
	log.Println("  GET    /api/v1/health         - Health check")
	log.Println("  GET    /api/v1/personas       - Persona list")
	log.Println("  POST   /api/v1/auth/token     - Get session token")
	log.Println("  POST   /api/v1/chat           - Ask a question (JWT required)")
	log.Println("  GET    /api/v1/history        - Recent exchanges (JWT required)")
	log.Println("  DELETE /api/v1/history        - Clear history (JWT required)")
	log.Println("  GET    /ws                    - WebSocket (JWT required)")
	log.Fatal(e.Start(cfg.Addr))
}
