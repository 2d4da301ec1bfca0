package handler

import (
	"errors"
	"strings"
	"time"

	"github.com/fadilmartias/esg-dashboard/internal/middleware"
	"github.com/fadilmartias/esg-dashboard/internal/usecase"
	"github.com/gofiber/fiber/v2"
)

type PredictHandler struct {
	uc *usecase.PredictUsecase
}

func NewPredictHandler(uc *usecase.PredictUsecase) *PredictHandler {
	return &PredictHandler{uc: uc}
}

func (h *PredictHandler) RegisterRoutes(app *fiber.App) {
	app.Get("/predict", h.Form)
	app.Post("/predict", middleware.RateLimiter(10, 10*time.Second), h.Predict)
}

func (h *PredictHandler) Form(c *fiber.Ctx) error {
	return render(c, "predict", "Predict", "/predict", usecase.NewPredictForm().View())
}

func (h *PredictHandler) Predict(c *fiber.Ctx) error {
	form := usecase.NewPredictForm()
	var invalid []string
	for _, field := range usecase.PredictFields {
		if err := form.SetRaw(field.Name, c.FormValue(field.Name)); err != nil {
			invalid = append(invalid, field.Label)
		}
	}
	if len(invalid) > 0 {
		form.Error = strings.Join(invalid, ", ") + " must be a number"
		if len(invalid) > 1 {
			form.Error = strings.Join(invalid, ", ") + " must be numbers"
		}
		return render(c.Status(fiber.StatusBadRequest), "predict", "Predict", "/predict", form.View())
	}

	err := h.uc.Submit(backendContext(c), middleware.SessionID(c), form)
	switch {
	case errors.Is(err, usecase.ErrPredictionInFlight):
		form.Error = "A prediction is already running, please wait"
		c.Status(fiber.StatusConflict)
	case err != nil:
		c.Status(fiber.StatusBadGateway)
	}
	return render(c, "predict", "Predict", "/predict", form.View())
}
