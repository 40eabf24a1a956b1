// internal/interfaces/http/handlers/region.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/storefront-api/internal/domain/region"
)

// RegionHandler handles administrative region lookups
type RegionHandler struct {
	client *region.Client
}

// NewRegionHandler creates a new region handler
func NewRegionHandler(client *region.Client) *RegionHandler {
	return &RegionHandler{client: client}
}

func (h *RegionHandler) respond(c *gin.Context, regions []region.Region, err error) {
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Regions retrieved successfully",
		"data":    regions,
	})
}

// Provinces lists all provinces
func (h *RegionHandler) Provinces(c *gin.Context) {
	regions, err := h.client.Provinces(c.Request.Context())
	h.respond(c, regions, err)
}

// Regencies lists regencies of a province
func (h *RegionHandler) Regencies(c *gin.Context) {
	regions, err := h.client.Regencies(c.Request.Context(), c.Param("provinceCode"))
	h.respond(c, regions, err)
}

// Districts lists districts of a regency
func (h *RegionHandler) Districts(c *gin.Context) {
	regions, err := h.client.Districts(c.Request.Context(), c.Param("regencyCode"))
	h.respond(c, regions, err)
}

// Villages lists villages of a district
func (h *RegionHandler) Villages(c *gin.Context) {
	regions, err := h.client.Villages(c.Request.Context(), c.Param("districtCode"))
	h.respond(c, regions, err)
}
