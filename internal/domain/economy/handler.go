package economy

import (
	"errors"
	"net/http"
	"strconv"
	"time"

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

// RegisterRoutes mounts the economy endpoints. Finances are not staff
// business, so the whole group requires admin or manager.
func (h *Handler) RegisterRoutes(api *echo.Group) {
	g := api.Group("/economy", auth.RequireRole("admin", "manager"))
	g.POST("", h.CreateRecord)
	g.GET("", h.ListRecords)
	g.GET("/stats", h.Stats)
	g.GET("/:id", h.GetRecord)
	g.PUT("/:id", h.UpdateRecord)
	g.DELETE("/:id", h.DeleteRecord)
}

func (h *Handler) CreateRecord(c echo.Context) error {
	var rec Record
	if err := c.Bind(&rec); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.CreateRecord(c.Request().Context(), &rec); err != nil {
		return recordError(c, err)
	}
	return c.JSON(http.StatusCreated, &rec)
}

func (h *Handler) ListRecords(c echo.Context) error {
	if yearParam := c.QueryParam("year"); yearParam != "" {
		year, err := strconv.Atoi(yearParam)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid year")
		}
		items, err := h.svc.ListByYear(c.Request().Context(), year)
		if err != nil {
			return recordError(c, err)
		}
		return c.JSON(http.StatusOK, items)
	}

	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListRecords(c.Request().Context(), pg.Limit, pg.Offset)
	if err != nil {
		return recordError(c, err)
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) GetRecord(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	rec, err := h.svc.GetRecord(c.Request().Context(), id)
	if err != nil {
		return recordError(c, err)
	}
	return c.JSON(http.StatusOK, rec)
}

func (h *Handler) UpdateRecord(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var rec Record
	if err := c.Bind(&rec); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	rec.ID = id
	updated, err := h.svc.UpdateRecord(c.Request().Context(), &rec)
	if err != nil {
		return recordError(c, err)
	}
	return c.JSON(http.StatusOK, updated)
}

func (h *Handler) DeleteRecord(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.DeleteRecord(c.Request().Context(), id); err != nil {
		return recordError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) Stats(c echo.Context) error {
	year := time.Now().Year()
	if yearParam := c.QueryParam("year"); yearParam != "" {
		var err error
		year, err = strconv.Atoi(yearParam)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid year")
		}
	}
	stats, err := h.svc.Stats(c.Request().Context(), year)
	if err != nil {
		return recordError(c, err)
	}
	return c.JSON(http.StatusOK, stats)
}

func recordError(c echo.Context, err error) error {
	if ve, ok := validation.As(err); ok {
		return c.JSON(http.StatusUnprocessableEntity, map[string]interface{}{"errors": ve})
	}
	if errors.Is(err, ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "economy record not found")
	}
	if errors.Is(err, ErrDuplicatePeriod) {
		return echo.NewHTTPError(http.StatusConflict, ErrDuplicatePeriod.Error())
	}
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}
