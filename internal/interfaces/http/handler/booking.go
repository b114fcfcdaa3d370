package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	appcrm "github.com/lifeos/backend/internal/application/crm"
	"github.com/lifeos/backend/internal/interfaces/http/dto"
)

// BookingHandler serves booking endpoints
type BookingHandler struct {
	BaseHandler
	bookingService *appcrm.BookingService
}

// NewBookingHandler creates a new BookingHandler
func NewBookingHandler(bookingService *appcrm.BookingService) *BookingHandler {
	return &BookingHandler{bookingService: bookingService}
}

// Create creates a booking
func (h *BookingHandler) Create(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req appcrm.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	resp, err := h.bookingService.Create(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// Get retrieves a single booking
func (h *BookingHandler) Get(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid booking ID")
		return
	}

	resp, err := h.bookingService.Get(c.Request.Context(), userID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// List lists bookings with pagination, or by calendar range when from/to are given
func (h *BookingHandler) List(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	fromRaw, toRaw := c.Query("from"), c.Query("to")
	if fromRaw != "" && toRaw != "" {
		from, err := time.Parse(time.RFC3339, fromRaw)
		if err != nil {
			h.BadRequest(c, "Invalid from timestamp, expected RFC 3339")
			return
		}
		to, err := time.Parse(time.RFC3339, toRaw)
		if err != nil {
			h.BadRequest(c, "Invalid to timestamp, expected RFC 3339")
			return
		}
		bookings, err := h.bookingService.ListInRange(c.Request.Context(), userID, from, to)
		if err != nil {
			h.HandleError(c, err)
			return
		}
		h.Success(c, bookings)
		return
	}

	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.ValidationError(c, err)
		return
	}
	filter := req.ToFilter()

	bookings, total, err := h.bookingService.List(c.Request.Context(), userID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, bookings, total, filter.Page, filter.PageSize)
}

// CheckAvailability reports whether a slot is free and lists any conflicts
func (h *BookingHandler) CheckAvailability(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req appcrm.AvailabilityRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	resp, err := h.bookingService.CheckAvailability(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Update updates a booking
func (h *BookingHandler) Update(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid booking ID")
		return
	}

	var req appcrm.UpdateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	resp, err := h.bookingService.Update(c.Request.Context(), userID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Confirm confirms a booking and queues its side effects
func (h *BookingHandler) Confirm(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid booking ID")
		return
	}

	resp, err := h.bookingService.Confirm(c.Request.Context(), userID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Cancel cancels a booking
func (h *BookingHandler) Cancel(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid booking ID")
		return
	}

	resp, err := h.bookingService.Cancel(c.Request.Context(), userID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// MarkDone marks a booking as handled
func (h *BookingHandler) MarkDone(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid booking ID")
		return
	}

	resp, err := h.bookingService.MarkDone(c.Request.Context(), userID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Delete removes a booking
func (h *BookingHandler) Delete(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid booking ID")
		return
	}

	if err := h.bookingService.Delete(c.Request.Context(), userID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// RegisterRoutes registers booking routes
func (h *BookingHandler) RegisterRoutes(rg *gin.RouterGroup) {
	bookings := rg.Group("/bookings")
	{
		bookings.POST("", h.Create)
		bookings.GET("", h.List)
		bookings.GET("/availability", h.CheckAvailability)
		bookings.GET("/:id", h.Get)
		bookings.PUT("/:id", h.Update)
		bookings.DELETE("/:id", h.Delete)
		bookings.POST("/:id/confirm", h.Confirm)
		bookings.POST("/:id/cancel", h.Cancel)
		bookings.POST("/:id/done", h.MarkDone)
	}
}
