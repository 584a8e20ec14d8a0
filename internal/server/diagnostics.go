package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

type envTestResponse struct {
	HasAPIKey        bool   `json:"hasApiKey"`
	PropertyID       string `json:"propertyId"`
	HasPropKey       bool   `json:"hasPropKey"`
	HasWebhookSecret bool   `json:"hasWebhookSecret"`
}

// EnvTest reports which settings are present without revealing any of them.
func (s *Server) EnvTest(c *gin.Context) {
	c.JSON(http.StatusOK, envTestResponse{
		HasAPIKey:        s.cfg.Beds24.APIKey != "",
		PropertyID:       s.cfg.Beds24.PropertyID,
		HasPropKey:       s.cfg.Beds24.PropKey != "",
		HasWebhookSecret: strings.TrimSpace(s.cfg.WebhookSecret) != "",
	})
}

func (s *Server) ListRooms(c *gin.Context) {
	preference := strings.TrimSpace(c.Query("locale"))
	if preference == "" {
		preference = c.GetHeader("Accept-Language")
	}
	c.JSON(http.StatusOK, s.catalog.Localized(preference))
}
