package journal

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/carejournal/api/internal/platform/auth"
	"github.com/carejournal/api/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	g := api.Group("", auth.RequireRole("admin", "manager", "staff"))
	g.POST("/journals", h.CreateEntry)
	g.GET("/journals", h.ListEntries)
	g.GET("/journals/:id", h.GetEntry)
	g.PUT("/journals/:id", h.UpdateEntry)
	g.GET("/journals/:id/versions", h.GetVersions)
	g.POST("/journals/:id/sign", h.SignEntry)
	g.POST("/journals/:id/notes", h.AppendNote)
	g.POST("/journals/:id/archive", h.ArchiveEntry)
	g.GET("/patients/:id/journals", h.ListPatientEntries)

	// Registered so the route exists and answers with policy instead of 404.
	g.DELETE("/journals/:id", h.DeleteEntry)
}

func (h *Handler) CreateEntry(c echo.Context) error {
	var e Entry
	if err := c.Bind(&e); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.CreateEntry(c.Request().Context(), &e, actorFrom(c)); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, &e)
}

func (h *Handler) GetEntry(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	e, err := h.svc.GetEntry(c.Request().Context(), id)
	if err != nil {
		return entryError(c, err)
	}
	return c.JSON(http.StatusOK, e)
}

func (h *Handler) ListEntries(c echo.Context) error {
	pg := pagination.FromContext(c)
	params := map[string]string{}
	for _, k := range []string{"patient_id", "entry_type", "status", "category"} {
		if v := c.QueryParam(k); v != "" {
			params[k] = v
		}
	}
	items, total, err := h.svc.SearchEntries(c.Request().Context(), params, pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) ListPatientEntries(c echo.Context) error {
	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid patient id")
	}
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListByPatient(c.Request().Context(), patientID, pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) UpdateEntry(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var e Entry
	if err := c.Bind(&e); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	e.ID = id
	updated, err := h.svc.UpdateDraft(c.Request().Context(), &e, actorFrom(c))
	if err != nil {
		return entryError(c, err)
	}
	return c.JSON(http.StatusOK, updated)
}

func (h *Handler) GetVersions(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	vc, err := h.svc.Versions(c.Request().Context(), id)
	if err != nil {
		return entryError(c, err)
	}
	return c.JSON(http.StatusOK, vc)
}

func (h *Handler) SignEntry(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	e, err := h.svc.SignEntry(c.Request().Context(), id, actorFrom(c))
	if err != nil {
		return entryError(c, err)
	}
	return c.JSON(http.StatusOK, e)
}

type appendNoteRequest struct {
	Text string `json:"text"`
}

func (h *Handler) AppendNote(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var req appendNoteRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	e, err := h.svc.AppendNote(c.Request().Context(), id, req.Text, actorFrom(c))
	if err != nil {
		return entryError(c, err)
	}
	return c.JSON(http.StatusOK, e)
}

func (h *Handler) ArchiveEntry(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	e, err := h.svc.ArchiveEntry(c.Request().Context(), id, actorFrom(c))
	if err != nil {
		return entryError(c, err)
	}
	return c.JSON(http.StatusOK, e)
}

// DeleteEntry always refuses: journal entries are part of the patient's
// legal record and are never deleted, only archived.
func (h *Handler) DeleteEntry(c echo.Context) error {
	return echo.NewHTTPError(http.StatusForbidden, "journal entries cannot be deleted; archive instead")
}

// entryError maps domain errors to HTTP responses. Validation failures are
// rendered as a field->message object so clients can show inline errors.
func entryError(c echo.Context, err error) error {
	if ve, ok := AsValidationErrors(err); ok {
		return c.JSON(http.StatusUnprocessableEntity, map[string]interface{}{"errors": ve})
	}
	switch {
	case errors.Is(err, ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "journal entry not found")
	case errors.Is(err, ErrIllegalTransition):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, ErrStaleEntry):
		return echo.NewHTTPError(http.StatusConflict, "entry changed on the server; reload and try again")
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}

func actorFrom(c echo.Context) Actor {
	ctx := c.Request().Context()
	id, _ := uuid.Parse(auth.UserIDFromContext(ctx))
	return Actor{ID: id, Name: auth.UserNameFromContext(ctx)}
}
