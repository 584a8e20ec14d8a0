package server

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/villagambera/channelbridge/internal/observability/logger"
	webhookdomain "github.com/villagambera/channelbridge/internal/webhook/domain"
	"go.uber.org/zap"
)

const maxWebhookBody = 1 << 20

func (s *Server) ReceiveWebhook(c *gin.Context) {
	notification := webhookdomain.Notification{
		Method:       c.Request.Method,
		Query:        c.Request.URL.Query(),
		HeaderSecret: c.GetHeader("X-Webhook-Secret"),
		UserAgent:    c.GetHeader("User-Agent"),
		ForwardedFor: c.GetHeader("X-Forwarded-For"),
		ClientIP:     c.ClientIP(),
	}

	if c.Request.Method == http.MethodPost && c.Request.Body != nil {
		raw, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
		if err != nil {
			logger.FromContext(c.Request.Context()).Debug("webhook body unreadable", zap.Error(err))
		}
		notification.Body = webhookdomain.ParseBody(c.ContentType(), raw)
	}

	ack, err := s.webhookSvc.Receive(c.Request.Context(), notification)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, ack)
}
