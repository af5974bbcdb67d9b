package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"craftly/middleware"
	"craftly/services/booking"
	"craftly/utils"
)

// BookingHandler exposes the booking core over HTTP.
type BookingHandler struct {
	Service booking.BookingService
	Logger  *zap.Logger
}

func NewBookingHandler(svc booking.BookingService, logger *zap.Logger) *BookingHandler {
	return &BookingHandler{Service: svc, Logger: logger}
}

type createBookingRequest struct {
	ArtisanID string     `json:"artisanId" binding:"required"`
	ServiceID string     `json:"serviceId"`
	Start     time.Time  `json:"start" binding:"required"`
	End       *time.Time `json:"end"`
	Notes     string     `json:"notes" binding:"omitempty,max=500"`
}

// CreateBooking reserves a slot for the authenticated user.
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	in := booking.CreateBookingInput{
		UserID:    c.GetString(middleware.CtxCallerID),
		ArtisanID: req.ArtisanID,
		ServiceID: req.ServiceID,
		Start:     req.Start,
		Notes:     req.Notes,
	}
	if req.End != nil {
		in.End = *req.End
	}

	b, err := h.Service.CreateBooking(c.Request.Context(), in)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, b)
}

// GetBooking returns one booking to one of its parties.
func (h *BookingHandler) GetBooking(c *gin.Context) {
	b, err := h.Service.GetBooking(c.Request.Context(), c.Param("id"), c.GetString(middleware.CtxCallerID))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// ListMyBookings returns the authenticated user's booking history.
func (h *BookingHandler) ListMyBookings(c *gin.Context) {
	bookings, err := h.Service.ListForUser(c.Request.Context(), c.GetString(middleware.CtxCallerID))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": bookings})
}

// ListArtisanBookings returns the authenticated artisan's booking thread.
func (h *BookingHandler) ListArtisanBookings(c *gin.Context) {
	bookings, err := h.Service.ListForArtisan(c.Request.Context(), c.GetString(middleware.CtxCallerID))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": bookings})
}

type respondRequest struct {
	Action string `json:"action" binding:"required"`
	Reason string `json:"reason" binding:"omitempty,max=500"`
}

// Respond lets the artisan accept or reject a pending request.
func (h *BookingHandler) Respond(c *gin.Context) {
	var req respondRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	b, err := h.Service.Respond(c.Request.Context(), c.Param("id"), c.GetString(middleware.CtxCallerID), req.Action, req.Reason)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

type cancelRequest struct {
	Reason string `json:"reason" binding:"omitempty,max=500"`
}

// Cancel lets either party cancel an active booking.
func (h *BookingHandler) Cancel(c *gin.Context) {
	var req cancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	b, err := h.Service.Cancel(c.Request.Context(), c.Param("id"), c.GetString(middleware.CtxCallerID), req.Reason)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// Complete lets the artisan mark a confirmed booking done.
func (h *BookingHandler) Complete(c *gin.Context) {
	b, err := h.Service.Complete(c.Request.Context(), c.Param("id"), c.GetString(middleware.CtxCallerID))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

type modificationRequest struct {
	NewStart time.Time  `json:"newStart" binding:"required"`
	NewEnd   *time.Time `json:"newEnd"`
	Reason   string     `json:"reason" binding:"omitempty,max=500"`
}

// RequestModification proposes a reschedule on behalf of the caller.
func (h *BookingHandler) RequestModification(c *gin.Context) {
	var req modificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	in := booking.ModificationInput{NewStart: req.NewStart, Reason: req.Reason}
	if req.NewEnd != nil {
		in.NewEnd = *req.NewEnd
	}

	b, err := h.Service.RequestModification(c.Request.Context(), c.Param("id"), c.GetString(middleware.CtxCallerID), in)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

type modificationResponseRequest struct {
	Action string `json:"action" binding:"required"`
}

// RespondToModification lets the counterparty approve or reject a reschedule.
func (h *BookingHandler) RespondToModification(c *gin.Context) {
	var req modificationResponseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	b, err := h.Service.RespondToModification(c.Request.Context(), c.Param("id"), c.GetString(middleware.CtxCallerID), req.Action)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// respondError maps booking error codes onto HTTP statuses. Anything without
// a code is internal and never leaks its details.
func (h *BookingHandler) respondError(c *gin.Context, err error) {
	code := booking.ErrCode(err)

	var status int
	switch code {
	case booking.CodeUnauthenticated:
		status = http.StatusUnauthorized
	case booking.CodeForbidden:
		status = http.StatusForbidden
	case booking.CodeNotFound:
		status = http.StatusNotFound
	case booking.CodeInvalidInterval, booking.CodeInvalidInput, booking.CodeInvalidAction, booking.CodeServiceMismatch:
		status = http.StatusBadRequest
	case booking.CodeInactiveArtisan, booking.CodeSlotConflict, booking.CodeAlreadyHandled,
		booking.CodeInvalidState, booking.CodeModificationConflict:
		status = http.StatusConflict
	case booking.CodeTransientStore:
		status = http.StatusServiceUnavailable
	default:
		h.Logger.Error("booking handler: internal error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, utils.ErrorResponse{
			Message: "Internal Server Error",
		})
		return
	}

	c.JSON(status, utils.ErrorResponse{Code: code, Message: booking.ErrMessage(err)})
}
