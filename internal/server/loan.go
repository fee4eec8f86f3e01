package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) LoanProgress(c *gin.Context) {
	resp, err := s.loanSvc.Progress(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type repayLoanRequest struct {
	Amount int64 `json:"amount"`
}

func (s *Server) RepayLoan(c *gin.Context) {
	var req repayLoanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.loanSvc.Repay(c.Request.Context(), req.Amount)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ResetLoan(c *gin.Context) {
	resp, err := s.loanSvc.Reset(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
