package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/sabaispa/sabai/internal/auth"
	orderdomain "github.com/sabaispa/sabai/internal/order/domain"
)

type checkoutRequest struct {
	CustomerID    string                      `json:"customer_id"`
	Items         []orderdomain.ItemSelection `json:"items"`
	PaymentMethod string                      `json:"payment_method"`
}

func (s *Server) Checkout(c *gin.Context) {
	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	customerID := strings.TrimSpace(req.CustomerID)
	if principal, ok := principalFrom(c); ok && principal.Role == auth.RoleCustomer {
		customerID = principal.UserID
	}

	resp, err := s.orderSvc.Checkout(c.Request.Context(), orderdomain.CheckoutRequest{
		CustomerID:    customerID,
		Items:         req.Items,
		PaymentMethod: strings.TrimSpace(req.PaymentMethod),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetOrder(c *gin.Context) {
	resp, err := s.orderSvc.GetByID(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListOrders(c *gin.Context) {
	var query struct {
		Page          int    `form:"page"`
		PageSize      int    `form:"page_size"`
		Status        string `form:"status"`
		PaymentStatus string `form:"payment_status"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	req := orderdomain.ListOrderRequest{
		Page:     query.Page,
		PageSize: query.PageSize,
	}
	if status := strings.TrimSpace(query.Status); status != "" {
		req.Statuses = []orderdomain.Status{orderdomain.Status(status)}
	}
	if payment := strings.TrimSpace(query.PaymentStatus); payment != "" {
		req.PaymentStatuses = []orderdomain.PaymentStatus{orderdomain.PaymentStatus(payment)}
	}

	if principal, ok := principalFrom(c); ok && principal.Role == auth.RoleCustomer {
		req.CustomerID = principal.UserID
	}

	resp, err := s.orderSvc.List(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ConfirmCashReceipt(c *gin.Context) {
	resp, err := s.orderSvc.ConfirmCashReceipt(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) CancelOrder(c *gin.Context) {
	resp, err := s.orderSvc.Cancel(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
