package handler

import (
	"errors"
	"strings"

	"github.com/fadilmartias/esg-dashboard/internal/dto"
	"github.com/fadilmartias/esg-dashboard/internal/util"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/sirupsen/logrus"
)

// ErrorHandler renders unhandled errors as an error page, or as the JSON
// envelope for JSON endpoints.
func ErrorHandler(log *logrus.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		var e *fiber.Error
		if errors.As(err, &e) {
			code = e.Code
		}

		message := err.Error()
		if code >= fiber.StatusInternalServerError {
			log.WithError(err).WithFields(logrus.Fields{
				"method": c.Method(),
				"path":   c.Path(),
			}).Error("request failed")
			message = "Internal Server Error"
		}

		if wantsJSON(c) {
			return util.ErrorResponse(c, util.ErrorResponseFormat{Code: code, Message: message}, err)
		}

		c.Status(code)
		renderErr := render(c, "error", "Error", "", &dto.ErrorPanel{
			Title:   statusTitle(code),
			Message: message,
		})
		if renderErr != nil {
			return c.Status(code).SendString(message)
		}
		return nil
	}
}

func wantsJSON(c *fiber.Ctx) bool {
	return strings.HasSuffix(c.Path(), "/progress") ||
		strings.Contains(c.Get(fiber.HeaderAccept), fiber.MIMEApplicationJSON)
}

func statusTitle(code int) string {
	if msg := utils.StatusMessage(code); msg != "" {
		return msg
	}
	return "Error"
}
