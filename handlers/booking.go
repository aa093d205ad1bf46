package handlers

import (
	"net/http"
	"strconv"
	"time"

	"autocare/middleware"
	"autocare/models"
	"autocare/services/booking"
	"autocare/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BookingHandler exposes the booking lifecycle over HTTP.
type BookingHandler struct {
	Service booking.LifecycleService
	Logger  *zap.Logger
}

func NewBookingHandler(service booking.LifecycleService, logger *zap.Logger) *BookingHandler {
	return &BookingHandler{Service: service, Logger: logger}
}

// actorFromContext reads the identity stamped by the auth middleware.
func actorFromContext(c *gin.Context) booking.Actor {
	return booking.Actor{
		ID:   c.GetString(middleware.ContextActorID),
		Role: models.Role(c.GetString(middleware.ContextActorRole)),
	}
}

// respondError maps booking error codes onto HTTP statuses. Everything in
// the taxonomy is a structured, user-displayable failure; only dependency
// faults surface as a generic retryable error.
func (h *BookingHandler) respondError(c *gin.Context, err error) {
	code := booking.CodeOf(err)

	status := http.StatusInternalServerError
	switch code {
	case booking.CodeValidation, booking.CodeInvalidTimeFormat, booking.CodePastDateTime:
		status = http.StatusBadRequest
	case booking.CodeNotFound:
		status = http.StatusNotFound
	case booking.CodeForbidden:
		status = http.StatusForbidden
	case booking.CodeSlotUnavailable, booking.CodeInvalidTransition:
		status = http.StatusConflict
	case booking.CodeMechanicUnavailable:
		status = http.StatusUnprocessableEntity
	case booking.CodeDependency:
		status = http.StatusServiceUnavailable
		h.Logger.Error("booking dependency failure", zap.Error(err))
		c.JSON(status, gin.H{"error": "temporary failure, please retry", "code": code})
		return
	}

	c.JSON(status, gin.H{"error": err.Error(), "code": code})
}

// CreateBooking handles POST /api/bookings.
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	var input struct {
		OwnerID    string `json:"owner_id"` // admin only; defaults to the caller
		VehicleID  string `json:"vehicle_id"`
		ServiceID  string `json:"service_id"`
		MechanicID string `json:"mechanic_id"`
		Date       string `json:"date"`
		Time       string `json:"time"`
		Location   string `json:"location"`
		Notes      string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	actor := actorFromContext(c)
	ownerID := actor.ID
	if actor.Role == models.RoleAdmin && input.OwnerID != "" {
		ownerID = input.OwnerID
	}

	created, err := h.Service.Create(c.Request.Context(), booking.CreateInput{
		OwnerID:    ownerID,
		VehicleID:  input.VehicleID,
		ServiceID:  input.ServiceID,
		MechanicID: input.MechanicID,
		Date:       input.Date,
		Time:       input.Time,
		Location:   models.ServiceLocation(input.Location),
		Notes:      input.Notes,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"booking": created})
}

// GetBooking handles GET /api/bookings/:id.
func (h *BookingHandler) GetBooking(c *gin.Context) {
	b, err := h.Service.GetBooking(c.Request.Context(), actorFromContext(c), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"booking": b})
}

// ListBookings handles GET /api/bookings, scoped by the caller's role.
func (h *BookingHandler) ListBookings(c *gin.Context) {
	filter := booking.ListFilter{
		Status: models.BookingStatus(c.Query("status")),
	}
	bookings, err := h.Service.ListBookings(c.Request.Context(), actorFromContext(c), filter)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": bookings})
}

// TransitionBooking handles PATCH /api/bookings/:id/status.
func (h *BookingHandler) TransitionBooking(c *gin.Context) {
	var input struct {
		Status             string   `json:"status"`
		Notes              string   `json:"notes"`
		CancellationReason string   `json:"cancellation_reason"`
		ActualCost         *float64 `json:"actual_cost"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	updated, err := h.Service.Transition(c.Request.Context(), booking.TransitionInput{
		BookingID:          c.Param("id"),
		Actor:              actorFromContext(c),
		Target:             models.BookingStatus(input.Status),
		Notes:              input.Notes,
		CancellationReason: input.CancellationReason,
		ActualCost:         input.ActualCost,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"booking": updated})
}

// RescheduleBooking handles POST /api/bookings/:id/reschedule.
func (h *BookingHandler) RescheduleBooking(c *gin.Context) {
	var input struct {
		Date   string `json:"date"`
		Time   string `json:"time"`
		Reason string `json:"reason"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	updated, err := h.Service.Reschedule(c.Request.Context(), booking.RescheduleInput{
		BookingID: c.Param("id"),
		Actor:     actorFromContext(c),
		NewDate:   input.Date,
		NewTime:   input.Time,
		Reason:    input.Reason,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"booking": updated})
}

// MechanicCalendar handles GET /api/mechanics/:id/calendar with optional
// month and year query parameters.
func (h *BookingHandler) MechanicCalendar(c *gin.Context) {
	var month time.Month
	var year int
	if m := c.Query("month"); m != "" {
		v, err := strconv.Atoi(m)
		if err != nil {
			utils.JSONError(c, http.StatusBadRequest, "invalid input", "month must be a number")
			return
		}
		month = time.Month(v)
	}
	if y := c.Query("year"); y != "" {
		v, err := strconv.Atoi(y)
		if err != nil {
			utils.JSONError(c, http.StatusBadRequest, "invalid input", "year must be a number")
			return
		}
		year = v
	}

	bookings, err := h.Service.MechanicCalendar(c.Request.Context(), actorFromContext(c), c.Param("id"), month, year)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"calendar": bookings})
}
