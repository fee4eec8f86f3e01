package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	settlementdomain "github.com/sabaispa/sabai/internal/settlement/domain"
)

type createSettlementRequest struct {
	BookingIDs []string `json:"booking_ids"`
	Notes      string   `json:"notes"`
}

func (s *Server) CreateSettlement(c *gin.Context) {
	var req createSettlementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	actor := ""
	if principal, ok := principalFrom(c); ok {
		actor = principal.UserID
	}

	resp, err := s.settlementSvc.Settle(c.Request.Context(), settlementdomain.SettleRequest{
		BookingIDs: req.BookingIDs,
		Notes:      strings.TrimSpace(req.Notes),
		Actor:      actor,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type settleAllRequest struct {
	StaffID string `json:"staff_id"`
	Notes   string `json:"notes"`
}

func (s *Server) SettleAllForStaff(c *gin.Context) {
	var req settleAllRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	actor := ""
	if principal, ok := principalFrom(c); ok {
		actor = principal.UserID
	}

	resp, err := s.settlementSvc.SettleAllForStaff(c.Request.Context(), settlementdomain.SettleAllRequest{
		StaffID: strings.TrimSpace(req.StaffID),
		Notes:   strings.TrimSpace(req.Notes),
		Actor:   actor,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetSettlement(c *gin.Context) {
	resp, err := s.settlementSvc.GetBatch(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListSettlements(c *gin.Context) {
	resp, err := s.settlementSvc.ListBatches(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) SettlementStatement(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	doc, err := s.settlementSvc.Statement(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="settlement-`+id+`.pdf"`)
	c.Data(http.StatusOK, "application/pdf", doc)
}
