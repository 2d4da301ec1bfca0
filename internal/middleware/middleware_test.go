package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sessionApp() *fiber.App {
	app := fiber.New()
	app.Use(Session(false))
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString(SessionID(c))
	})
	return app
}

func TestSession_IssuesCookie(t *testing.T) {
	resp, err := sessionApp().Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)

	body, _ := io.ReadAll(resp.Body)
	_, err = uuid.Parse(string(body))
	require.NoError(t, err)

	var cookie *http.Cookie
	for _, ck := range resp.Cookies() {
		if ck.Name == SessionCookie {
			cookie = ck
		}
	}
	require.NotNil(t, cookie)
	assert.Equal(t, string(body), cookie.Value)
	assert.True(t, cookie.HttpOnly)
}

func TestSession_KeepsExistingCookie(t *testing.T) {
	id := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: id})

	resp, err := sessionApp().Test(req)
	require.NoError(t, err)

	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, id, string(body))
	assert.Empty(t, resp.Cookies())
}

func TestSession_ReplacesGarbageCookie(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "not-a-uuid"})

	resp, err := sessionApp().Test(req)
	require.NoError(t, err)

	body, _ := io.ReadAll(resp.Body)
	assert.NotEqual(t, "not-a-uuid", string(body))
}

func TestRateLimiter(t *testing.T) {
	app := fiber.New()
	app.Post("/predict", RateLimiter(2, time.Minute), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/predict", nil))
		require.NoError(t, err)
		codes = append(codes, resp.StatusCode)
	}
	assert.Equal(t, []int{200, 200, 429}, codes)
}
