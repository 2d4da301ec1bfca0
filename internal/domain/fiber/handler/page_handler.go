package handler

import (
	"context"

	"github.com/fadilmartias/esg-dashboard/internal/dto"
	"github.com/fadilmartias/esg-dashboard/internal/service"
	"github.com/gofiber/fiber/v2"
)

const layout = "layouts/main"

var navItems = []dto.NavItem{
	{Name: "Home", Path: "/"},
	{Name: "Dashboard", Path: "/dashboard"},
	{Name: "Companies", Path: "/companies"},
	{Name: "News", Path: "/news"},
	{Name: "Predict", Path: "/predict"},
	{Name: "Upload", Path: "/upload"},
}

func nav(active string) []dto.NavItem {
	items := make([]dto.NavItem, len(navItems))
	for i, item := range navItems {
		item.Active = item.Path == active
		items[i] = item
	}
	return items
}

// render wraps data in the page shell and renders view inside the layout.
func render(c *fiber.Ctx, view, title, active string, data any) error {
	return c.Render(view, dto.Page{
		Title:  title,
		Active: active,
		Nav:    nav(active),
		Data:   data,
	}, layout)
}

// backendContext carries the browser's cookies to backend calls.
func backendContext(c *fiber.Ctx) context.Context {
	return service.WithCookies(c.UserContext(), string(c.Request().Header.Peek(fiber.HeaderCookie)))
}

type HomeHandler struct{}

func NewHomeHandler() *HomeHandler {
	return &HomeHandler{}
}

func (h *HomeHandler) RegisterRoutes(app *fiber.App) {
	app.Get("/", h.Home)
}

func (h *HomeHandler) Home(c *fiber.Ctx) error {
	return render(c, "home", "Home", "/", nil)
}
