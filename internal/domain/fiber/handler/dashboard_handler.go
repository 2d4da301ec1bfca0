package handler

import (
	"github.com/fadilmartias/esg-dashboard/internal/dto"
	"github.com/fadilmartias/esg-dashboard/internal/usecase"
	"github.com/gofiber/fiber/v2"
)

type DashboardHandler struct {
	dashboard *usecase.DashboardUsecase
	companies *usecase.CompaniesUsecase
	detail    *usecase.CompanyDetailUsecase
	news      *usecase.NewsUsecase
}

func NewDashboardHandler(
	dashboard *usecase.DashboardUsecase,
	companies *usecase.CompaniesUsecase,
	detail *usecase.CompanyDetailUsecase,
	news *usecase.NewsUsecase,
) *DashboardHandler {
	return &DashboardHandler{
		dashboard: dashboard,
		companies: companies,
		detail:    detail,
		news:      news,
	}
}

func (h *DashboardHandler) RegisterRoutes(app *fiber.App) {
	app.Get("/dashboard", h.Dashboard)
	app.Get("/companies", h.Companies)
	app.Get("/companies/:id", h.CompanyDetail)
	app.Get("/news", h.News)
}

func (h *DashboardHandler) Dashboard(c *fiber.Ctx) error {
	view := h.dashboard.Load(backendContext(c))
	if view.Error != nil {
		c.Status(fiber.StatusBadGateway)
	}
	return render(c, "dashboard", "Dashboard", "/dashboard", view)
}

func (h *DashboardHandler) Companies(c *fiber.Ctx) error {
	view := h.companies.Load(backendContext(c), c.Query("search"), c.Query("sort"))
	if view.Error != nil {
		c.Status(fiber.StatusBadGateway)
	}
	return render(c, "companies", "Companies", "/companies", view)
}

func (h *DashboardHandler) CompanyDetail(c *fiber.Ctx) error {
	id, ok := usecase.ParseCompanyID(c.Params("id"))
	if !ok {
		return render(c.Status(fiber.StatusBadRequest), "company_detail", "Company", "/companies", dto.CompanyDetailView{
			Error: &dto.ErrorPanel{Title: "Invalid company id", Message: "Company ids are positive numbers."},
		})
	}

	view := h.detail.Load(backendContext(c), id)
	title := "Company"
	switch {
	case view.Error != nil && view.Error.RetryURL == "":
		c.Status(fiber.StatusNotFound)
	case view.Error != nil:
		c.Status(fiber.StatusBadGateway)
	default:
		title = view.Company.Company
	}
	return render(c, "company_detail", title, "/companies", view)
}

func (h *DashboardHandler) News(c *fiber.Ctx) error {
	view := h.news.Load(backendContext(c), c.Query("filter"))
	if view.Error != nil {
		c.Status(fiber.StatusBadGateway)
	}
	return render(c, "news", "News", "/news", view)
}
