package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/google/uuid"
)

const (
	SessionCookie = "esg_sid"
	sessionLocal  = "session_id"
)

// Session makes sure every browser carries an esg_sid cookie and exposes
// its value through SessionID.
func Session(secure bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		// the id outlives the request as a cache key, so it must not alias
		// fasthttp's buffers
		id := utils.CopyString(c.Cookies(SessionCookie))
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
			c.Cookie(&fiber.Cookie{
				Name:     SessionCookie,
				Value:    id,
				Path:     "/",
				Expires:  time.Now().Add(30 * 24 * time.Hour),
				HTTPOnly: true,
				Secure:   secure,
				SameSite: fiber.CookieSameSiteLaxMode,
			})
		}
		c.Locals(sessionLocal, id)
		return c.Next()
	}
}

// SessionID returns the id set by Session, or "" when the middleware did
// not run.
func SessionID(c *fiber.Ctx) string {
	id, _ := c.Locals(sessionLocal).(string)
	return id
}
