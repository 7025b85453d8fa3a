package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/safewalk/safewalk-backend-go/internal/geocode"
	"github.com/safewalk/safewalk-backend-go/internal/models"
	"github.com/safewalk/safewalk-backend-go/internal/service"
	"github.com/safewalk/safewalk-backend-go/pkg/response"
)

// HeatmapHandler handles HTTP requests for heatmap and aggregate data
type HeatmapHandler struct {
	service  *service.HeatmapService
	geocoder *geocode.Client
}

// NewHeatmapHandler creates a new heatmap handler
func NewHeatmapHandler(service *service.HeatmapService, geocoder *geocode.Client) *HeatmapHandler {
	return &HeatmapHandler{service: service, geocoder: geocoder}
}

// GetHeatmap handles GET /api/v1/heatmap
func (h *HeatmapHandler) GetHeatmap(c *gin.Context) {
	var filter models.HeatmapFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}
	if filter.MinSamples < 1 {
		filter.MinSamples = 1
	}

	result, err := h.service.HeatmapPoints(filter)
	if err != nil {
		response.InternalError(c, "Failed to compute heatmap")
		return
	}
	response.Success(c, result)
}

// GetAggregates handles GET /api/v1/heatmap/aggregates
func (h *HeatmapHandler) GetAggregates(c *gin.Context) {
	var filter models.HeatmapFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}
	if filter.MinSamples < 1 {
		filter.MinSamples = 1
	}

	aggs, err := h.service.Aggregates(filter.Band, filter.MinSamples)
	if err != nil {
		response.InternalError(c, "Failed to compute aggregates")
		return
	}
	response.Success(c, gin.H{
		"data":  aggs.Buckets(),
		"count": len(aggs),
	})
}

// GetNear handles GET /api/v1/heatmap/near
func (h *HeatmapHandler) GetNear(c *gin.Context) {
	var filter models.NearFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	lat, lng := filter.Lat, filter.Lng
	if (lat == nil || lng == nil) && filter.Address != "" {
		gLat, gLng, found, err := h.geocoder.Geocode(c.Request.Context(), filter.Address)
		if err != nil {
			response.InternalError(c, "Geocoding failed")
			return
		}
		if !found {
			response.NotFound(c, "Address not found")
			return
		}
		lat, lng = &gLat, &gLng
	}
	if lat == nil || lng == nil {
		response.BadRequest(c, "Provide lat/lng or address")
		return
	}

	results, err := h.service.Near(*lat, *lng, filter.RadiusMeters, filter.Band)
	if err != nil {
		response.InternalError(c, "Failed to query nearby aggregates")
		return
	}
	response.Success(c, gin.H{
		"query_lat": *lat,
		"query_lng": *lng,
		"results":   results,
	})
}

// Geocode handles GET /api/v1/geocode
func (h *HeatmapHandler) Geocode(c *gin.Context) {
	address := c.Query("address")
	if address == "" {
		response.BadRequest(c, "address required")
		return
	}

	lat, lng, found, err := h.geocoder.Geocode(c.Request.Context(), address)
	if err != nil {
		response.InternalError(c, "Geocoding failed")
		return
	}
	if !found {
		response.NotFound(c, "not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"lat": lat, "lng": lng})
}
