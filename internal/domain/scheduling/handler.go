package scheduling

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/brightsmile/clinic/internal/platform/auth"
	"github.com/brightsmile/clinic/internal/platform/clinictime"
	"github.com/brightsmile/clinic/pkg/pagination"
)

type Handler struct {
	svc *Service
	loc *time.Location
}

func NewHandler(svc *Service, loc *time.Location) *Handler {
	return &Handler{svc: svc, loc: loc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/appointments", h.Create)
	api.GET("/appointments", h.List)
	api.GET("/appointments/:id", h.Get)
	api.PUT("/appointments/:id", h.Update)
	api.POST("/appointments/:id/cancel", h.Cancel)
	api.DELETE("/appointments/:id", h.Delete, auth.RequireRole(auth.RoleAdmin))

	api.GET("/dentists/:id/slots", h.Slots)
	api.GET("/dentists/:id/appointments", h.ListForDentist, auth.RequireRole(auth.RoleAdmin, auth.RoleDentist))
}

// appointmentResponse renders the stored UTC interval back in clinic-local
// wall-clock terms, the same shape the booking request used.
type appointmentResponse struct {
	ID          uuid.UUID `json:"id"`
	PatientID   uuid.UUID `json:"patient_id"`
	DentistID   uuid.UUID `json:"dentist_id"`
	ProcedureID uuid.UUID `json:"procedure_id"`
	Date        string    `json:"date"`
	StartTime   string    `json:"start_time"`
	EndTime     string    `json:"end_time"`
	Status      Status    `json:"status"`
	Notes       string    `json:"notes,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (h *Handler) toResponse(a *Appointment) appointmentResponse {
	date, startClock := clinictime.Localize(h.loc, a.StartTime)
	_, endClock := clinictime.Localize(h.loc, a.EndTime)
	return appointmentResponse{
		ID:          a.ID,
		PatientID:   a.PatientID,
		DentistID:   a.DentistID,
		ProcedureID: a.ProcedureID,
		Date:        date,
		StartTime:   startClock,
		EndTime:     endClock,
		Status:      a.Status,
		Notes:       a.Notes,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}

func (h *Handler) toResponses(items []*Appointment) []appointmentResponse {
	out := make([]appointmentResponse, 0, len(items))
	for _, a := range items {
		out = append(out, h.toResponse(a))
	}
	return out
}

type createRequest struct {
	PatientID   *uuid.UUID `json:"patient_id"`
	DentistID   uuid.UUID  `json:"dentist_id"`
	ProcedureID uuid.UUID  `json:"procedure_id"`
	Date        string     `json:"date"`
	StartTime   string     `json:"start_time"`
	EndTime     string     `json:"end_time"`
	Notes       string     `json:"notes"`
}

func (h *Handler) Create(c echo.Context) error {
	ctx := c.Request().Context()
	var req createRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	// Patients book for themselves; staff may book on a patient's behalf.
	patientID := auth.UserIDFromContext(ctx)
	if req.PatientID != nil {
		if auth.RoleFromContext(ctx) == auth.RolePatient && *req.PatientID != patientID {
			return echo.NewHTTPError(http.StatusForbidden, "cannot book for another patient")
		}
		patientID = *req.PatientID
	}

	a, err := h.svc.Create(ctx, CreateInput{
		PatientID:   patientID,
		DentistID:   req.DentistID,
		ProcedureID: req.ProcedureID,
		Date:        req.Date,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Notes:       req.Notes,
	})
	if err != nil {
		return h.mapError(err)
	}
	return c.JSON(http.StatusCreated, h.toResponse(a))
}

func (h *Handler) Get(c echo.Context) error {
	a, err := h.loadOwned(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, h.toResponse(a))
}

// List returns the caller's appointments; staff can pass ?patient_id= to
// read another patient's history.
func (h *Handler) List(c echo.Context) error {
	ctx := c.Request().Context()
	patientID := auth.UserIDFromContext(ctx)
	if idStr := c.QueryParam("patient_id"); idStr != "" {
		id, err := uuid.Parse(idStr)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid patient_id")
		}
		if auth.RoleFromContext(ctx) == auth.RolePatient && id != patientID {
			return echo.NewHTTPError(http.StatusForbidden, "cannot list another patient's appointments")
		}
		patientID = id
	}

	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListByPatient(ctx, patientID, pg.Limit, pg.Offset)
	if err != nil {
		return h.mapError(err)
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(h.toResponses(items), total, pg.Limit, pg.Offset))
}

type updateRequest struct {
	DentistID   *uuid.UUID `json:"dentist_id"`
	ProcedureID *uuid.UUID `json:"procedure_id"`
	Date        *string    `json:"date"`
	StartTime   *string    `json:"start_time"`
	EndTime     *string    `json:"end_time"`
	Status      *string    `json:"status"`
	Notes       *string    `json:"notes"`
}

func (h *Handler) Update(c echo.Context) error {
	a, err := h.loadOwned(c)
	if err != nil {
		return err
	}
	var req updateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	updated, err := h.svc.Update(c.Request().Context(), a.ID, UpdateInput{
		DentistID:   req.DentistID,
		ProcedureID: req.ProcedureID,
		Date:        req.Date,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Status:      req.Status,
		Notes:       req.Notes,
	})
	if err != nil {
		return h.mapError(err)
	}
	return c.JSON(http.StatusOK, h.toResponse(updated))
}

func (h *Handler) Cancel(c echo.Context) error {
	a, err := h.loadOwned(c)
	if err != nil {
		return err
	}
	cancelled, err := h.svc.Cancel(c.Request().Context(), a.ID)
	if err != nil {
		return h.mapError(err)
	}
	return c.JSON(http.StatusOK, h.toResponse(cancelled))
}

func (h *Handler) Delete(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return h.mapError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ListForDentist is the staff day-sheet: every appointment of the dentist on
// the given clinic-local date, regardless of status.
func (h *Handler) ListForDentist(c echo.Context) error {
	dentistID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid dentist id")
	}
	date := c.QueryParam("date")
	if date == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "date query parameter is required")
	}
	items, err := h.svc.ListByDentist(c.Request().Context(), dentistID, date)
	if err != nil {
		return h.mapError(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"data": h.toResponses(items), "total": len(items)})
}

func (h *Handler) Slots(c echo.Context) error {
	dentistID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid dentist id")
	}
	date := c.QueryParam("date")
	if date == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "date query parameter is required")
	}
	slots, err := h.svc.AvailableSlots(c.Request().Context(), dentistID, date)
	if err != nil {
		return h.mapError(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"data": slots, "total": len(slots)})
}

// loadOwned fetches the appointment and enforces that patients only touch
// their own bookings. Dentists and admins pass through.
func (h *Handler) loadOwned(c echo.Context) (*Appointment, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	ctx := c.Request().Context()
	a, err := h.svc.Get(ctx, id)
	if err != nil {
		return nil, h.mapError(err)
	}
	if auth.RoleFromContext(ctx) == auth.RolePatient && a.PatientID != auth.UserIDFromContext(ctx) {
		return nil, h.mapError(ErrNotOwner)
	}
	return a, nil
}

func (h *Handler) mapError(err error) error {
	var conflict *ConflictError
	switch {
	case errors.As(err, &conflict):
		return echo.NewHTTPError(http.StatusConflict, map[string]interface{}{
			"message":   conflict.Error(),
			"conflicts": h.toResponses(conflict.Conflicts),
		})
	case errors.Is(err, ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "appointment not found")
	case errors.Is(err, ErrNotOwner):
		return echo.NewHTTPError(http.StatusForbidden, err.Error())
	case errors.Is(err, ErrImmutable):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, ErrInvalidTransition):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, ErrInvalidInput), errors.Is(err, clinictime.ErrInvalidTimeInput):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}
