package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	settingsdomain "github.com/sabaispa/sabai/internal/settings/domain"
)

func (s *Server) GetPaymentMethods(c *gin.Context) {
	methods, version, err := s.settingsSvc.GetPaymentMethods(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": methods, "version": version})
}

type updatePaymentMethodsRequest struct {
	CashEnabled bool  `json:"cash_enabled"`
	CardEnabled bool  `json:"card_enabled"`
	Version     int64 `json:"version"`
}

func (s *Server) UpdatePaymentMethods(c *gin.Context) {
	var req updatePaymentMethodsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	methods, version, err := s.settingsSvc.UpdatePaymentMethods(c.Request.Context(), settingsdomain.PaymentMethods{
		CashEnabled: req.CashEnabled,
		CardEnabled: req.CardEnabled,
	}, req.Version)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": methods, "version": version})
}
