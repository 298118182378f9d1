package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-room-reservation/internal/booking"
	"github.com/iliyamo/hotel-room-reservation/internal/model"
	"github.com/iliyamo/hotel-room-reservation/internal/repository"
)

// CatalogHandler serves the read-only room-category catalog and the
// public availability check.  These endpoints require no
// authentication so guests can browse before signing in.
type CatalogHandler struct {
	Categories *repository.RoomCategoryRepo
	Controller *booking.Controller
}

// NewCatalogHandler constructs a CatalogHandler; both dependencies must
// be non-nil.
func NewCatalogHandler(categories *repository.RoomCategoryRepo, ctrl *booking.Controller) *CatalogHandler {
	if categories == nil || ctrl == nil {
		panic("nil dependency passed to NewCatalogHandler")
	}
	return &CatalogHandler{Categories: categories, Controller: ctrl}
}

// ListCategories handles GET /v1/categories.
func (h *CatalogHandler) ListCategories(c echo.Context) error {
	cats, err := h.Categories.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "catalog unavailable"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": cats})
}

// GetCategory handles GET /v1/categories/:id.
func (h *CatalogHandler) GetCategory(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid category id"})
	}
	cat, err := h.Categories.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "category not found"})
		}
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "catalog unavailable"})
	}
	return c.JSON(http.StatusOK, echo.Map{"item": cat})
}

// CheckAvailability handles GET /v1/categories/:id/availability with
// check_in and check_out query parameters.  The answer is a snapshot:
// it can go stale the moment it is produced, which is why commit
// re-checks inside its transaction.
func (h *CatalogHandler) CheckAvailability(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid category id"})
	}
	stay, err := model.ParseDateRange(c.QueryParam("check_in"), c.QueryParam("check_out"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	avail, err := h.Controller.CheckAvailability(c.Request().Context(), id, stay)
	if err != nil {
		return respondBookingError(c, err)
	}
	return c.JSON(http.StatusOK, avail)
}
