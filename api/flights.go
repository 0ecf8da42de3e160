package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/stavangersaad-create/Baggage-Buddy-Website-Concept/internal/service/flights"
)

type FlightHandler struct {
	service flights.SearchUseCase
}

type searchRequest struct {
	Origin        string `json:"origin" binding:"required"`
	Destination   string `json:"destination" binding:"required"`
	DepartureDate string `json:"departureDate" binding:"required"`
}

func NewFlightHandler(service flights.SearchUseCase) *FlightHandler {
	return &FlightHandler{service: service}
}

func (h *FlightHandler) Register(router *gin.RouterGroup) {
	router.POST("/api/flights/search", h.search)
}

// search always answers with at least one offer; upstream failures are
// absorbed by the demo fallback inside the service.
func (h *FlightHandler) search(c *gin.Context) {
	var req searchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	offers, isDemo := h.service.Search(c.Request.Context(), req.Origin, req.Destination, req.DepartureDate)

	c.JSON(http.StatusOK, gin.H{
		"flights": offers,
		"isDemo":  isDemo,
		"searchParams": gin.H{
			"origin":        req.Origin,
			"destination":   req.Destination,
			"departureDate": req.DepartureDate,
		},
	})
}
