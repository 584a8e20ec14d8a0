package domain

import "github.com/villagambera/channelbridge/internal/apperror"

var (
	ErrMissingParameters = apperror.Validation("", "missing_parameters", "roomId and month are required")
	ErrInvalidRoomID     = apperror.Validation("roomId", "invalid_room_id", "roomId must be a positive integer")
	ErrInvalidMonth      = apperror.Validation("month", "invalid_month", "month must be YYYY-MM")
)
