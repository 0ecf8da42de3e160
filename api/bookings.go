package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/stavangersaad-create/Baggage-Buddy-Website-Concept/internal/domain"
	"github.com/stavangersaad-create/Baggage-Buddy-Website-Concept/internal/service/booking"
)

type BookingHandler struct {
	service booking.BookingUseCase
}

func NewBookingHandler(service booking.BookingUseCase) *BookingHandler {
	return &BookingHandler{service: service}
}

func (h *BookingHandler) Register(router *gin.RouterGroup, auth gin.HandlerFunc) {
	router.POST("/bookings", auth, h.create)
	router.GET("/bookings", auth, h.list)
}

func (h *BookingHandler) create(c *gin.Context) {
	var payload domain.Booking
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	created, err := h.service.Create(c.Request.Context(), UserFrom(c), payload)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create booking"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "bookingId": created.ID, "booking": created})
}

// list serves the admin database view; every authenticated caller sees
// all bookings.
func (h *BookingHandler) list(c *gin.Context) {
	result, err := h.service.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch bookings"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": result})
}
