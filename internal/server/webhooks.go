package server

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	paymentdomain "github.com/sabaispa/sabai/internal/payment/domain"
)

// HandleStripeWebhook ingests gateway callbacks. Replays and event types we
// do not consume are acknowledged with 200 so the gateway stops retrying.
func (s *Server) HandleStripeWebhook(c *gin.Context) {
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	if err := s.webhookVerifier.Verify(payload, c.GetHeader("Stripe-Signature")); err != nil {
		AbortWithError(c, err)
		return
	}

	event, err := s.webhookVerifier.Parse(payload)
	if err != nil {
		if errors.Is(err, paymentdomain.ErrUnsupportedEvent) {
			c.JSON(http.StatusOK, gin.H{"status": "ignored"})
			return
		}
		AbortWithError(c, err)
		return
	}

	if err := s.webhookSvc.HandleEvent(c.Request.Context(), *event); err != nil {
		if errors.Is(err, paymentdomain.ErrEventAlreadyProcessed) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
			return
		}
		s.log.Error("webhook processing failed",
			zap.String("event_id", event.EventID),
			zap.Error(err),
		)
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
