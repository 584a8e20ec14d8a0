package beds24

import "github.com/villagambera/channelbridge/internal/apperror"

var (
	ErrMissingCredentials = apperror.Configuration("missing_credentials", "Missing BEDS24_API_KEY or BEDS24_PROP_KEY")
	ErrRequestFailed      = apperror.Upstream("beds24_unreachable", "Beds24 request failed")
	ErrBadStatus          = apperror.Upstream("beds24_status", "Beds24 error")
	ErrInvalidResponse    = apperror.Upstream("beds24_invalid_response", "Beds24 returned an unreadable response")
	ErrRejected           = apperror.Upstream("beds24_rejected", "Beds24 rejected the request")
)
