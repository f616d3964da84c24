package patient

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/carejournal/api/internal/platform/auth"
	"github.com/carejournal/api/pkg/pagination"
	"github.com/carejournal/api/pkg/validation"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	g := api.Group("", auth.RequireRole("admin", "manager", "staff"))
	g.POST("/patients", h.CreatePatient)
	g.GET("/patients", h.ListPatients)
	g.GET("/patients/:id", h.GetPatient)
	g.PUT("/patients/:id", h.UpdatePatient)
	g.GET("/patients/:id/medications", h.ListMedications)
	g.GET("/patients/:id/medications/active", h.ListActiveMedications)
	g.POST("/patients/:id/medications", h.AddMedication)
	g.PUT("/patients/:id/medications/:medID", h.UpdateMedication)
	g.DELETE("/patients/:id/medications/:medID", h.RemoveMedication)

	// Removing a patient hides them from active views; records are kept.
	api.DELETE("/patients/:id", h.DeactivatePatient, auth.RequireRole("admin"))
}

func (h *Handler) CreatePatient(c echo.Context) error {
	var p Patient
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.CreatePatient(c.Request().Context(), &p); err != nil {
		return patientError(c, err)
	}
	return c.JSON(http.StatusCreated, &p)
}

func (h *Handler) GetPatient(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	p, err := h.svc.GetPatient(c.Request().Context(), id)
	if err != nil {
		return patientError(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) ListPatients(c echo.Context) error {
	pg := pagination.FromContext(c)
	activeOnly := c.QueryParam("include_inactive") != "true"
	items, total, err := h.svc.ListPatients(c.Request().Context(),
		c.QueryParam("search"), activeOnly, pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) UpdatePatient(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var p Patient
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	p.ID = id
	updated, err := h.svc.UpdatePatient(c.Request().Context(), &p)
	if err != nil {
		return patientError(c, err)
	}
	return c.JSON(http.StatusOK, updated)
}

func (h *Handler) DeactivatePatient(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.DeactivatePatient(c.Request().Context(), id); err != nil {
		return patientError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) ListMedications(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	items, err := h.svc.ListMedications(c.Request().Context(), id)
	if err != nil {
		return patientError(c, err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) ListActiveMedications(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	items, err := h.svc.ListActiveMedications(c.Request().Context(), id)
	if err != nil {
		return patientError(c, err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) AddMedication(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var m Medication
	if err := c.Bind(&m); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.AddMedication(c.Request().Context(), id, &m); err != nil {
		return patientError(c, err)
	}
	return c.JSON(http.StatusCreated, &m)
}

func (h *Handler) UpdateMedication(c echo.Context) error {
	medID, err := uuid.Parse(c.Param("medID"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid medication id")
	}
	var m Medication
	if err := c.Bind(&m); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	m.ID = medID
	if err := h.svc.UpdateMedication(c.Request().Context(), &m); err != nil {
		return patientError(c, err)
	}
	return c.JSON(http.StatusOK, &m)
}

func (h *Handler) RemoveMedication(c echo.Context) error {
	medID, err := uuid.Parse(c.Param("medID"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid medication id")
	}
	if err := h.svc.RemoveMedication(c.Request().Context(), medID); err != nil {
		return patientError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func patientError(c echo.Context, err error) error {
	if ve, ok := validation.As(err); ok {
		return c.JSON(http.StatusUnprocessableEntity, map[string]interface{}{"errors": ve})
	}
	if errors.Is(err, ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "patient not found")
	}
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}
