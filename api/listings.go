package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/stavangersaad-create/Baggage-Buddy-Website-Concept/internal/service/listings"
)

type ListingHandler struct {
	service listings.ListingUseCase
}

func NewListingHandler(service listings.ListingUseCase) *ListingHandler {
	return &ListingHandler{service: service}
}

// Register wires the public read and the session-protected writes.
func (h *ListingHandler) Register(router *gin.RouterGroup, auth gin.HandlerFunc) {
	router.GET("/listings", h.list)
	router.POST("/listings", auth, h.create)
	router.PUT("/listings/:id", auth, h.update)
	router.DELETE("/listings/:id", auth, h.remove)
}

func (h *ListingHandler) list(c *gin.Context) {
	result, err := h.service.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch listings"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"listings": result})
}

func (h *ListingHandler) create(c *gin.Context) {
	var listing map[string]any
	if err := c.ShouldBindJSON(&listing); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	id, err := h.service.Create(c.Request.Context(), UserFrom(c).ID, listing)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create listing"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "id": id})
}

func (h *ListingHandler) update(c *gin.Context) {
	var patch map[string]any
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.service.Update(c.Request.Context(), c.Param("id"), patch); err != nil {
		if errors.Is(err, listings.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Listing not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update listing"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *ListingHandler) remove(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete listing"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
