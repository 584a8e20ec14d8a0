package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

func (s *Server) GetRoomDates(c *gin.Context) {
	roomID := strings.TrimSpace(c.Query("roomId"))
	month := strings.TrimSpace(c.Query("month"))
	c.Set("room_id", roomID)

	resp, err := s.availabilitySvc.GetMonth(c.Request.Context(), roomID, month)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
