package handlers

import (
	"context"
	"time"

	"github.com/anjiri1684/interview_portal/middleware"
	"github.com/anjiri1684/interview_portal/models"
	"github.com/anjiri1684/interview_portal/websocket"
	fiberws "github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

const hubTimeout = 5 * time.Second

// UpgradeEvents lets only staff websocket upgrades through.
func UpgradeEvents(c *fiber.Ctx) error {
	if !fiberws.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}
	role := middleware.CurrentIdentity(c).Role
	if role != models.RoleAdmin && role != models.RoleHR {
		return fiber.NewError(fiber.StatusForbidden, "Forbidden: insufficient role")
	}
	return c.Next()
}

// StreamEvents registers the connection with the event hub and holds it open
// until the client goes away. Clients only listen; anything they send is
// discarded.
var StreamEvents = fiberws.New(func(conn *fiberws.Conn) {
	ctx, cancel := context.WithTimeout(context.Background(), hubTimeout)
	registered := websocket.Events.Register(ctx, conn)
	cancel()
	if !registered {
		conn.Close()
		return
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), hubTimeout)
		websocket.Events.Unregister(ctx, conn)
		cancel()
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			log.Debug().Err(err).Msg("event client disconnected")
			return
		}
	}
})
