package websocket

import (
	"github.com/labstack/echo/v4"
)

// Handler upgrades the "/ws" endpoint. The JWT middleware has already put the
// session ID in context.
func (s *Server) Handler(c echo.Context) error {
	conn, err := s.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}

	sessionID := c.Get("session_id").(string)

	client := NewClient(conn, sessionID)
	s.hub.Register(client)
	defer s.hub.Unregister(client)

	client.Run(func(frame AskFrame) {
		s.handleAsk(client, frame)
	})

	// Hold the handler open until the connection is done.
	<-client.Context().Done()

	return nil
}
