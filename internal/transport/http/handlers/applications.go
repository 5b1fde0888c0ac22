package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/EveryMundo/azure-app-exporter/internal/core/port"
	"github.com/EveryMundo/azure-app-exporter/internal/repository"
)

// ApplicationsHandler serves the cached directory applications read-only.
type ApplicationsHandler struct {
	apps port.ApplicationReader
}

// NewApplicationsHandler builds the applications handler.
func NewApplicationsHandler(apps port.ApplicationReader) *ApplicationsHandler {
	return &ApplicationsHandler{apps: apps}
}

// RegisterRoutes binds application endpoints.
func (h *ApplicationsHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/apps", h.GetAll)
	r.GET("/apps/:id", h.GetByID)
}

// GetAll godoc
// @Summary List cached applications
// @Description Returns every application currently held in the cache, keyed by id. An empty object is returned before the first successful refresh.
// @Tags Applications
// @Produce json
// @Success 200 {object} map[string]domain.Application
// @Router /api/apps [get]
func (h *ApplicationsHandler) GetAll(c *gin.Context) {
	c.JSON(http.StatusOK, h.apps.GetAll())
}

// GetByID godoc
// @Summary Show one cached application
// @Description Looks up a single application by its directory object id.
// @Tags Applications
// @Produce json
// @Param id path string true "Application object id"
// @Success 200 {object} domain.Application
// @Failure 404 {object} ErrorResponse
// @Router /api/apps/{id} [get]
func (h *ApplicationsHandler) GetByID(c *gin.Context) {
	app, err := h.apps.GetByID(c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "no application found by the given id"})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, app)
}
