package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"partshub/internal/core/apperror"
	"partshub/internal/core/id"
	"partshub/internal/domain/locations"
	"partshub/internal/infrastructure/http/v1/dto"
)

// LocationsHandler handles HTTP requests for storage locations.
type LocationsHandler struct {
	*BaseHandler
	service *locations.Service
}

// NewLocationsHandler creates a new storage locations handler.
func NewLocationsHandler(base *BaseHandler, service *locations.Service) *LocationsHandler {
	return &LocationsHandler{
		BaseHandler: base,
		service:     service,
	}
}

func (h *LocationsHandler) bindLayout(c *gin.Context) (locations.LayoutConfig, bool) {
	var req dto.LayoutConfigRequest
	if !h.BindJSON(c, &req) {
		return locations.LayoutConfig{}, false
	}
	cfg, err := req.ToConfig()
	if err != nil {
		h.Error(c, err)
		return locations.LayoutConfig{}, false
	}
	return cfg, true
}

// Preview handles POST /storage-locations/generate-preview
func (h *LocationsHandler) Preview(c *gin.Context) {
	cfg, ok := h.bindLayout(c)
	if !ok {
		return
	}

	result, err := h.service.Preview(c.Request.Context(), cfg)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromPreview(result))
}

// BulkCreate handles POST /storage-locations/bulk-create
func (h *LocationsHandler) BulkCreate(c *gin.Context) {
	cfg, ok := h.bindLayout(c)
	if !ok {
		return
	}

	result, err := h.service.BulkCreate(c.Request.Context(), cfg)
	if err != nil {
		// a malformed range is a bad request here, not an unprocessable preview
		if appErr, ok := apperror.AsAppError(err); ok && appErr.Code == apperror.CodeRange {
			err = appErr.WithStatus(http.StatusBadRequest)
		}
		h.Error(c, err)
		return
	}

	h.Created(c, dto.FromBulkCreate(result))
}

// Create handles POST /storage-locations
func (h *LocationsHandler) Create(c *gin.Context) {
	var req dto.CreateLocationRequest
	if !h.BindJSON(c, &req) {
		return
	}
	loc, err := req.ToEntity()
	if err != nil {
		h.Error(c, err)
		return
	}
	if err := h.service.Create(c.Request.Context(), loc); err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, dto.FromLocation(loc))
}

// Get handles GET /storage-locations/:id
func (h *LocationsHandler) Get(c *gin.Context) {
	locID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	loc, err := h.service.Get(c.Request.Context(), locID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromLocation(loc))
}

// List handles GET /storage-locations
func (h *LocationsHandler) List(c *gin.Context) {
	var query dto.ListLocationsQuery
	if !h.BindQuery(c, &query) {
		return
	}
	filter, err := query.ToFilter()
	if err != nil {
		h.Error(c, err)
		return
	}

	result, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromLocationList(result))
}

// Tree handles GET /storage-locations/tree?root_id=
func (h *LocationsHandler) Tree(c *gin.Context) {
	var rootID *id.ID
	if raw := c.Query("root_id"); raw != "" {
		v, err := id.Parse(raw)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid root_id").
				WithDetail("field", "root_id").
				WithCause(err))
			return
		}
		rootID = &v
	}

	items, err := h.service.Tree(c.Request.Context(), rootID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, gin.H{"items": dto.BuildTree(items)})
}

// Delete handles DELETE /storage-locations/:id
func (h *LocationsHandler) Delete(c *gin.Context) {
	locID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), locID); err != nil {
		h.Error(c, err)
		return
	}

	h.NoContent(c)
}
