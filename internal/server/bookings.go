package server

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sabaispa/sabai/internal/auth"
	bookingdomain "github.com/sabaispa/sabai/internal/booking/domain"
)

type createBookingRequest struct {
	CustomerID    string                          `json:"customer_id"`
	StaffID       string                          `json:"staff_id"`
	TreatmentID   string                          `json:"treatment_id"`
	ScheduledAt   time.Time                       `json:"scheduled_at"`
	Address       string                          `json:"address"`
	Addons        []bookingdomain.AddonSelection  `json:"addons"`
	PaymentMethod string                          `json:"payment_method"`
}

func (s *Server) CreateBooking(c *gin.Context) {
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	customerID := strings.TrimSpace(req.CustomerID)
	if principal, ok := principalFrom(c); ok && principal.Role == auth.RoleCustomer {
		// Customers book for themselves regardless of the payload.
		customerID = principal.UserID
	}

	resp, err := s.bookingSvc.Create(c.Request.Context(), bookingdomain.CreateBookingRequest{
		CustomerID:    customerID,
		StaffID:       strings.TrimSpace(req.StaffID),
		TreatmentID:   strings.TrimSpace(req.TreatmentID),
		ScheduledAt:   req.ScheduledAt,
		Address:       strings.TrimSpace(req.Address),
		Addons:        req.Addons,
		PaymentMethod: strings.TrimSpace(req.PaymentMethod),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetBooking(c *gin.Context) {
	resp, err := s.bookingSvc.GetByID(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListBookings(c *gin.Context) {
	var query struct {
		Page     int    `form:"page"`
		PageSize int    `form:"page_size"`
		StaffID  string `form:"staff_id"`
		Status   string `form:"status"`
		Unpaid   string `form:"unpaid"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	req := bookingdomain.ListBookingRequest{
		Page:     query.Page,
		PageSize: query.PageSize,
		StaffID:  strings.TrimSpace(query.StaffID),
	}
	if status := strings.TrimSpace(query.Status); status != "" {
		req.Statuses = []bookingdomain.Status{bookingdomain.Status(status)}
	}
	if strings.EqualFold(strings.TrimSpace(query.Unpaid), "true") {
		unpaid := false
		req.PaidToStaff = &unpaid
	}

	// Customers only see their own bookings, staff their own schedule.
	if principal, ok := principalFrom(c); ok {
		switch principal.Role {
		case auth.RoleCustomer:
			req.CustomerID = principal.UserID
		case auth.RoleStaff:
			req.StaffID = principal.UserID
		}
	}

	resp, err := s.bookingSvc.List(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpdateBooking(c *gin.Context) {
	fields := map[string]any{}
	if err := c.ShouldBindJSON(&fields); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.bookingSvc.Update(c.Request.Context(), bookingdomain.UpdateBookingRequest{
		ID:     strings.TrimSpace(c.Param("id")),
		Fields: fields,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ConfirmBooking(c *gin.Context) {
	s.transitionBooking(c, s.bookingSvc.Confirm)
}

func (s *Server) CompleteBooking(c *gin.Context) {
	s.transitionBooking(c, s.bookingSvc.Complete)
}

func (s *Server) CancelBooking(c *gin.Context) {
	s.transitionBooking(c, s.bookingSvc.Cancel)
}

func (s *Server) transitionBooking(c *gin.Context, op func(ctx context.Context, id string) (bookingdomain.Booking, error)) {
	resp, err := op(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type assignStaffRequest struct {
	StaffID string `json:"staff_id"`
}

func (s *Server) AssignBookingStaff(c *gin.Context) {
	var req assignStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.bookingSvc.AssignStaff(c.Request.Context(), strings.TrimSpace(c.Param("id")), strings.TrimSpace(req.StaffID))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
