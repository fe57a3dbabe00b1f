package availability

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/brightsmile/clinic/internal/platform/auth"
	"github.com/brightsmile/clinic/internal/platform/clinictime"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/dentists/:id/availability", h.ListByDentist)

	staff := api.Group("", auth.RequireRole(auth.RoleAdmin, auth.RoleDentist))
	staff.POST("/dentists/:id/availability", h.Create)
	staff.DELETE("/dentists/:id/availability/:windowID", h.Delete)
}

type createRequest struct {
	Weekday     int    `json:"weekday"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	StartMinute *int   `json:"start_minute"`
	EndMinute   *int   `json:"end_minute"`
}

type windowResponse struct {
	ID        uuid.UUID `json:"id"`
	DentistID uuid.UUID `json:"dentist_id"`
	Weekday   int       `json:"weekday"`
	StartTime string    `json:"start_time"`
	EndTime   string    `json:"end_time"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toResponse(w *Window) windowResponse {
	return windowResponse{
		ID:        w.ID,
		DentistID: w.DentistID,
		Weekday:   int(w.Weekday),
		StartTime: w.StartClock(),
		EndTime:   w.EndClock(),
		CreatedAt: w.CreatedAt,
		UpdatedAt: w.UpdatedAt,
	}
}

func (h *Handler) Create(c echo.Context) error {
	dentistID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid dentist id")
	}
	var req createRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	w := &Window{DentistID: dentistID, Weekday: time.Weekday(req.Weekday)}
	w.StartMinute, err = resolveMinute(req.StartMinute, req.StartTime)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid start_time")
	}
	w.EndMinute, err = resolveMinute(req.EndMinute, req.EndTime)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid end_time")
	}

	if err := h.svc.Create(c.Request().Context(), w); err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusCreated, toResponse(w))
}

// resolveMinute accepts either a raw minute offset or an HH:MM clock string,
// preferring the explicit minute when both are present.
func resolveMinute(minute *int, clock string) (int, error) {
	if minute != nil {
		return *minute, nil
	}
	return clinictime.ClockMinute(clock)
}

func (h *Handler) ListByDentist(c echo.Context) error {
	dentistID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid dentist id")
	}

	var windows []*Window
	if date := c.QueryParam("date"); date != "" {
		windows, err = h.svc.WindowsOn(c.Request().Context(), dentistID, date)
	} else {
		windows, err = h.svc.ListByDentist(c.Request().Context(), dentistID)
	}
	if err != nil {
		return mapError(err)
	}

	out := make([]windowResponse, 0, len(windows))
	for _, w := range windows {
		out = append(out, toResponse(w))
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"data": out, "total": len(out)})
}

func (h *Handler) Delete(c echo.Context) error {
	id, err := uuid.Parse(c.Param("windowID"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid window id")
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return mapError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func mapError(err error) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "availability window not found")
	case errors.Is(err, ErrInvalidInput), errors.Is(err, clinictime.ErrInvalidTimeInput):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}
