package handler

import (
	"context"
	"errors"
	"time"

	"github.com/fadilmartias/esg-dashboard/internal/middleware"
	"github.com/fadilmartias/esg-dashboard/internal/usecase"
	"github.com/fadilmartias/esg-dashboard/internal/util"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
)

type UploadHandler struct {
	uc *usecase.UploadUsecase
}

func NewUploadHandler(uc *usecase.UploadUsecase) *UploadHandler {
	return &UploadHandler{uc: uc}
}

func (h *UploadHandler) RegisterRoutes(app *fiber.App) {
	app.Get("/upload", h.Form)
	app.Post("/upload", middleware.RateLimiter(5, time.Minute), h.Upload)
	app.Post("/upload/:id/retry", middleware.RateLimiter(5, time.Minute), h.Retry)
	app.Post("/upload/:id/remove", h.Remove)
	app.Get("/upload/:id/progress", h.Progress)
}

func (h *UploadHandler) Form(c *fiber.Ctx) error {
	s := h.uc.Tracker().GetOrNew(utils.CopyString(c.Query("id")))
	return render(c, "upload", "Upload", "/upload", h.uc.View(s))
}

func (h *UploadHandler) Upload(c *fiber.Ctx) error {
	s := h.uc.Tracker().GetOrNew(utils.CopyString(c.FormValue("upload_id")))

	name, size := "", int64(0)
	file, err := c.FormFile("file")
	if err == nil {
		name, size = file.Filename, file.Size
	}
	err = h.uc.Accept(s, name, size, func(dst string) error {
		return c.SaveFile(file, dst)
	})
	switch {
	case errors.Is(err, usecase.ErrInvalidFileType):
		return render(c.Status(fiber.StatusBadRequest), "upload", "Upload", "/upload", h.uc.View(s))
	case errors.Is(err, usecase.ErrFileTooLarge):
		return render(c.Status(fiber.StatusRequestEntityTooLarge), "upload", "Upload", "/upload", h.uc.View(s))
	case errors.Is(err, usecase.ErrUploadInProgress):
		return c.Redirect("/upload?id="+s.ID, fiber.StatusSeeOther)
	case err != nil:
		return err
	}

	return h.start(c, s)
}

// Retry re-sends the file retained after a failed upload.
func (h *UploadHandler) Retry(c *fiber.Ctx) error {
	s, ok := h.uc.Tracker().Get(utils.CopyString(c.Params("id")))
	if !ok {
		return fiber.NewError(fiber.StatusNotFound, usecase.ErrUploadNotFound.Error())
	}
	return h.start(c, s)
}

// Remove discards the selected file.
func (h *UploadHandler) Remove(c *fiber.Ctx) error {
	s, ok := h.uc.Tracker().Get(utils.CopyString(c.Params("id")))
	if !ok {
		return fiber.NewError(fiber.StatusNotFound, usecase.ErrUploadNotFound.Error())
	}
	if err := h.uc.Remove(s); err != nil {
		return fiber.NewError(fiber.StatusConflict, err.Error())
	}
	return c.Redirect("/upload?id="+s.ID, fiber.StatusSeeOther)
}

func (h *UploadHandler) start(c *fiber.Ctx, s *usecase.UploadSession) error {
	// The transfer outlives this request.
	ctx := context.WithoutCancel(backendContext(c))
	err := h.uc.Start(ctx, s)
	if err != nil && !errors.Is(err, usecase.ErrUploadInProgress) {
		return fiber.NewError(fiber.StatusConflict, err.Error())
	}
	return c.Redirect("/upload?id="+s.ID, fiber.StatusSeeOther)
}

func (h *UploadHandler) Progress(c *fiber.Ctx) error {
	s, ok := h.uc.Tracker().Get(utils.CopyString(c.Params("id")))
	if !ok {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusNotFound,
			Message: usecase.ErrUploadNotFound.Error(),
		})
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success get upload progress",
		Data:    h.uc.Progress(s),
	})
}
