package routes

import (
	"autocare/handlers"
	"autocare/middleware"
	"autocare/models"

	"github.com/gin-gonic/gin"
)

// RegisterBookingRoutes registers all endpoints for the booking engine.
func RegisterBookingRoutes(r *gin.Engine, h *handlers.BookingHandler) {
	api := r.Group("/api")
	api.Use(middleware.AuthMiddleware())

	bookings := api.Group("/bookings")
	{
		bookings.POST("", h.CreateBooking)
		bookings.GET("", h.ListBookings)
		bookings.GET("/:id", h.GetBooking)
		bookings.PATCH("/:id/status", h.TransitionBooking)
		bookings.POST("/:id/reschedule", h.RescheduleBooking)
	}

	mechanics := api.Group("/mechanics")
	mechanics.Use(middleware.RequireRole(models.RoleAdmin, models.RoleMechanic))
	{
		mechanics.GET("/:id/calendar", h.MechanicCalendar)
	}
}
