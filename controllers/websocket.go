package controllers

import (
	"github.com/PragnyanAssociates/Vivekananda-Public-School-ERP-sub002/config"
	"github.com/PragnyanAssociates/Vivekananda-Public-School-ERP-sub002/middleware"
	ws "github.com/PragnyanAssociates/Vivekananda-Public-School-ERP-sub002/services/websocket"

	"github.com/gofiber/fiber/v2"
	fiberws "github.com/gofiber/websocket/v2"
	"github.com/golang-jwt/jwt/v4"
)

// WebSocketUpgrade authenticates the upgrade request. Browsers cannot set an
// Authorization header on websocket connects, so the JWT rides in the token
// query parameter.
func WebSocketUpgrade(c *fiber.Ctx) error {
	if !fiberws.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}

	tokenString := c.Query("token")
	if tokenString == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Missing token",
		})
	}

	token, err := jwt.ParseWithClaims(tokenString, &middleware.Claims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(config.AppConfig.JWTSecret), nil
	})
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid token",
		})
	}

	claims, ok := token.Claims.(*middleware.Claims)
	if !ok || !token.Valid {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid token claims",
		})
	}

	c.Locals("ws_user_id", claims.UserID)
	return c.Next()
}

// WebSocketHandler hands the upgraded connection to the hub
func WebSocketHandler(hub *ws.Hub) fiber.Handler {
	return fiberws.New(func(conn *fiberws.Conn) {
		userID, ok := conn.Locals("ws_user_id").(uint)
		if !ok {
			conn.Close()
			return
		}
		hub.ServeFiberWS(conn, userID)
	})
}
