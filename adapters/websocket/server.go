package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/Yuji-2251/expert-assistant/domain"
	"github.com/Yuji-2251/expert-assistant/usecase"
	"github.com/Yuji-2251/expert-assistant/utils/log"
)

// Server runs the live chat channel. Each socket belongs to one session and
// runs the same orchestration as the HTTP chat endpoint.
type Server struct {
	upgrader  websocket.Upgrader
	responder *usecase.Responder
	sessions  *usecase.Sessions
	broker    domain.MessageBroker
	hub       *Hub
}

func NewServer(responder *usecase.Responder, sessions *usecase.Sessions, broker domain.MessageBroker) *Server {
	hub := NewHub()

	server := &Server{
		upgrader:  websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }},
		responder: responder,
		sessions:  sessions,
		broker:    broker,
		hub:       hub,
	}

	// Follow completed exchanges so sockets see what the HTTP API did.
	go server.startExchangeListener()

	return server
}

func (s *Server) RunWebsocketHub() {
	s.hub.Run()
}

func (s *Server) GetHub() *Hub {
	return s.hub
}

// handleAsk answers one inbound frame. Only successful exchanges enter the
// session history; errors go back over the socket as plain text.
func (s *Server) handleAsk(client *Client, frame AskFrame) {
	ctx := client.Context()

	message := strings.TrimSpace(frame.Message)
	if message == "" {
		s.reply(client, AnswerFrame{Type: "error", Error: "Please enter a question"})
		return
	}

	persona, err := domain.ParsePersona(frame.Persona)
	if err != nil {
		s.reply(client, AnswerFrame{Type: "error", Error: "Unknown persona " + frame.Persona})
		return
	}

	result := s.responder.Respond(ctx, message, persona)
	if result.Failed() {
		s.reply(client, AnswerFrame{Type: "error", Persona: string(persona), Error: result.Err})
		return
	}

	exchange := domain.Exchange{
		Persona:  persona,
		Question: message,
		Answer:   result.Text,
		At:       time.Now(),
	}
	s.sessions.Log(client.SessionID()).Append(exchange)
	s.publishExchange(ctx, client.SessionID(), exchange)

	s.reply(client, AnswerFrame{Type: "answer", Persona: string(persona), Answer: result.Text})
}

func (s *Server) reply(client *Client, frame AnswerFrame) {
	data, err := json.Marshal(frame)
	if err != nil {
		log.WithCtx(client.Context()).Error("marshaling answer frame", zap.Error(err))
		return
	}
	if err := client.SendMessage(data); err != nil {
		log.WithCtx(client.Context()).Debug("client gone before reply", zap.Error(err))
	}
}

func (s *Server) publishExchange(ctx context.Context, sessionID string, exchange domain.Exchange) {
	event := domain.ExchangeEvent{
		SessionID: sessionID,
		Persona:   exchange.Persona,
		Question:  exchange.Question,
		Answer:    exchange.Answer,
		Timestamp: exchange.At,
	}
	payload, err := json.Marshal(event)
	if err != nil {
		log.WithCtx(ctx).Error("marshaling exchange event", zap.Error(err))
		return
	}
	if err := s.broker.Publish(ctx, domain.ExchangeTopic, "", payload); err != nil {
		log.WithCtx(ctx).Warn("publishing exchange event", zap.Error(err))
	}
}

// startExchangeListener pushes exchange events to the sockets of the session
// they belong to, so a page and a socket sharing a session stay in sync.
func (s *Server) startExchangeListener() {
	ctx := context.Background()

	messageChan, err := s.broker.Subscribe(ctx, domain.ExchangeTopic, "")
	if err != nil {
		log.WithCtx(ctx).Error("failed to subscribe to exchange topic", zap.Error(err))
		return
	}

	for {
		select {
		case msg, ok := <-messageChan:
			if !ok {
				return
			}

			var event domain.ExchangeEvent
			if err := json.Unmarshal(msg.Payload, &event); err != nil {
				log.WithCtx(ctx).Error("failed to unmarshal exchange event", zap.Error(err))
				continue
			}

			wsMessage := map[string]interface{}{
				"type":      "exchange",
				"persona":   event.Persona,
				"question":  event.Question,
				"answer":    event.Answer,
				"timestamp": event.Timestamp,
			}
			data, err := json.Marshal(wsMessage)
			if err != nil {
				log.WithCtx(ctx).Error("failed to marshal exchange frame", zap.Error(err))
				continue
			}

			if err := s.hub.SendToSession(event.SessionID, data); err != nil {
				log.WithCtx(ctx).Warn("failed to push exchange frame",
					zap.String("session_id", event.SessionID),
					zap.Error(err))
			}

		case <-ctx.Done():
			return
		}
	}
}
