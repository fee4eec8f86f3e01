package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/sabaispa/sabai/internal/auth"
)

func (s *Server) AccountingSummary(c *gin.Context) {
	if staffID := strings.TrimSpace(c.Query("staff_id")); staffID != "" {
		resp, err := s.reconciliationSvc.StaffSummary(c.Request.Context(), staffID)
		if err != nil {
			AbortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": resp})
		return
	}

	resp, err := s.reconciliationSvc.GlobalSummary(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) StaffPayouts(c *gin.Context) {
	resp, err := s.reconciliationSvc.Payouts(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// MyEarnings is the staff self-service view, always scoped to the caller.
func (s *Server) MyEarnings(c *gin.Context) {
	principal, ok := principalFrom(c)
	if !ok {
		AbortWithError(c, auth.ErrUnauthorized)
		return
	}

	resp, err := s.reconciliationSvc.StaffSummary(c.Request.Context(), principal.UserID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
