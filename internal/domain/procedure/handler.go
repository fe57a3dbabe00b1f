package procedure

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/brightsmile/clinic/internal/platform/auth"
	"github.com/brightsmile/clinic/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/procedures", h.List)
	api.GET("/procedures/:id", h.Get)

	admin := api.Group("", auth.RequireRole(auth.RoleAdmin))
	admin.POST("/procedures", h.Create)
	admin.PUT("/procedures/:id", h.Update)
	admin.DELETE("/procedures/:id", h.Delete)
}

type upsertRequest struct {
	Name            string `json:"name"`
	DurationMinutes int    `json:"duration_minutes"`
}

func (h *Handler) Create(c echo.Context) error {
	var req upsertRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	p := &Procedure{Name: req.Name, DurationMinutes: req.DurationMinutes}
	if err := h.svc.Create(c.Request().Context(), p); err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusCreated, p)
}

func (h *Handler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	p, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) List(c echo.Context) error {
	ctx := c.Request().Context()

	// duration range filter
	if minStr := c.QueryParam("min_duration"); minStr != "" {
		maxStr := c.QueryParam("max_duration")
		min, err := strconv.Atoi(minStr)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid min_duration")
		}
		max, err := strconv.Atoi(maxStr)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid max_duration")
		}
		items, err := h.svc.ListByDuration(ctx, min, max)
		if err != nil {
			return mapError(err)
		}
		return c.JSON(http.StatusOK, map[string]interface{}{"data": items, "total": len(items)})
	}

	pg := pagination.FromContext(c)
	items, total, err := h.svc.List(ctx, pg.Limit, pg.Offset)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) Update(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var req upsertRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	p, err := h.svc.Update(c.Request().Context(), id, req.Name, req.DurationMinutes)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) Delete(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return mapError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func mapError(err error) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "procedure not found")
	case errors.Is(err, ErrInvalidInput):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}
