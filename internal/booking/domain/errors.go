package domain

import "github.com/villagambera/channelbridge/internal/apperror"

var (
	ErrMissingFields   = apperror.Validation("", "missing_fields", "Missing roomId, arrival, departure or numAdult")
	ErrInvalidRoomID   = apperror.Validation("roomId", "invalid_room_id", "roomId must be a positive integer")
	ErrInvalidNumAdult = apperror.Validation("numAdult", "invalid_num_adult", "numAdult must be a positive integer")
	ErrInvalidNumChild = apperror.Validation("numChild", "invalid_num_child", "numChild must be zero or a positive integer")
	ErrInvalidArrival  = apperror.Validation("arrival", "invalid_arrival", "arrival must be YYYY-MM-DD")
	ErrInvalidDepart   = apperror.Validation("departure", "invalid_departure", "departure must be YYYY-MM-DD")
	ErrInvalidStay     = apperror.Validation("departure", "invalid_stay", "departure must be after arrival")
	ErrMissingBookID   = apperror.Upstream("missing_book_id", "Beds24 did not return a booking id.")
)
