package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/villagambera/channelbridge/internal/beds24"
	"github.com/villagambera/channelbridge/internal/booking/domain"
	"github.com/villagambera/channelbridge/internal/config"
	"github.com/villagambera/channelbridge/internal/observability/metrics"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const dateLayout = "2006-01-02"

const (
	outcomeCreated  = "created"
	outcomeRejected = "rejected"
	outcomeFailed   = "failed"
)

// bookIDPaths lists where the PMS has been seen to put a new booking id.
var bookIDPaths = [][]string{
	{"bookId"},
	{"newBookId"},
	{"data", "bookId"},
	{"result", "bookId"},
}

// Submitter is the slice of the PMS client bookings need.
type Submitter interface {
	Configured() bool
	SetBooking(ctx context.Context, payload beds24.BookingPayload) (map[string]any, error)
}

type ServiceParam struct {
	fx.In

	Config    config.Config
	Log       *zap.Logger
	Submitter Submitter
	Metrics   *metrics.Metrics `optional:"true"`
}

type Service struct {
	log       *zap.Logger
	submitter Submitter
	metrics   *metrics.Metrics
	payURL    string
}

func NewService(p ServiceParam) domain.Service {
	payURL := strings.TrimSpace(p.Config.Beds24.PayURL)
	if payURL == "" {
		payURL = "https://beds24.com/bookpay.php"
	}
	return &Service{
		log:       p.Log.Named("booking.service"),
		submitter: p.Submitter,
		metrics:   p.Metrics,
		payURL:    payURL,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateBookingRequest) (domain.CreateBookingResponse, error) {
	payload, err := buildPayload(req)
	if err != nil {
		s.metrics.RecordBooking(outcomeRejected)
		return domain.CreateBookingResponse{}, err
	}
	if !s.submitter.Configured() {
		s.metrics.RecordBooking(outcomeFailed)
		return domain.CreateBookingResponse{}, beds24.ErrMissingCredentials
	}

	result, err := s.submitter.SetBooking(ctx, payload)
	if err != nil {
		s.metrics.RecordBooking(outcomeFailed)
		return domain.CreateBookingResponse{}, err
	}

	bookID, ok := extractBookID(result)
	if !ok {
		s.metrics.RecordBooking(outcomeFailed)
		s.log.Warn("booking response without id", zap.String("room_id", payload.RoomID), zap.Strings("keys", keys(result)))
		return domain.CreateBookingResponse{}, domain.ErrMissingBookID
	}

	s.metrics.RecordBooking(outcomeCreated)
	s.log.Info("booking created",
		zap.String("book_id", bookID),
		zap.String("room_id", payload.RoomID),
		zap.String("first_night", payload.FirstNight),
		zap.String("last_night", payload.LastNight),
	)

	return domain.CreateBookingResponse{
		BookID: bookID,
		PayURL: s.payURL + "?bookid=" + url.QueryEscape(bookID),
	}, nil
}

func buildPayload(req domain.CreateBookingRequest) (beds24.BookingPayload, error) {
	roomID := strings.TrimSpace(req.RoomID.String())
	arrival := strings.TrimSpace(req.Arrival)
	departure := strings.TrimSpace(req.Departure)
	numAdult := strings.TrimSpace(req.NumAdult.String())
	if roomID == "" || arrival == "" || departure == "" || numAdult == "" {
		return beds24.BookingPayload{}, domain.ErrMissingFields
	}

	if id, err := strconv.ParseInt(roomID, 10, 64); err != nil || id <= 0 {
		return beds24.BookingPayload{}, domain.ErrInvalidRoomID
	}
	if n, err := strconv.Atoi(numAdult); err != nil || n <= 0 {
		return beds24.BookingPayload{}, domain.ErrInvalidNumAdult
	}
	numChild := strings.TrimSpace(req.NumChild.String())
	if numChild == "" {
		numChild = "0"
	}
	if n, err := strconv.Atoi(numChild); err != nil || n < 0 {
		return beds24.BookingPayload{}, domain.ErrInvalidNumChild
	}

	firstNight, err := time.Parse(dateLayout, arrival)
	if err != nil {
		return beds24.BookingPayload{}, domain.ErrInvalidArrival
	}
	departureDate, err := time.Parse(dateLayout, departure)
	if err != nil {
		return beds24.BookingPayload{}, domain.ErrInvalidDepart
	}
	if !departureDate.After(firstNight) {
		return beds24.BookingPayload{}, domain.ErrInvalidStay
	}
	lastNight := departureDate.AddDate(0, 0, -1)

	guest := domain.Guest{}
	if req.Guest != nil {
		guest = *req.Guest
	}

	return beds24.BookingPayload{
		CheckAvailability: true,
		AssignBooking:     true,

		RoomID:     roomID,
		RoomQty:    "1",
		Status:     "1",
		FirstNight: firstNight.Format(dateLayout),
		LastNight:  lastNight.Format(dateLayout),
		NumAdult:   numAdult,
		NumChild:   numChild,

		GuestTitle:       guest.Title,
		GuestFirstName:   guest.FirstName,
		GuestName:        guest.LastName,
		GuestEmail:       guest.Email,
		GuestPhone:       guest.Phone,
		GuestMobile:      guest.Mobile,
		GuestAddress:     guest.Address,
		GuestCity:        guest.City,
		GuestPostcode:    guest.Postcode,
		GuestCountry:     guest.Country,
		GuestArrivalTime: guest.ArrivalTime,
		GuestComments:    guest.Comments,
	}, nil
}

func extractBookID(result map[string]any) (string, bool) {
	for _, path := range bookIDPaths {
		if id, ok := lookup(result, path); ok {
			return id, true
		}
	}
	return "", false
}

func lookup(node map[string]any, path []string) (string, bool) {
	value, ok := node[path[0]]
	if !ok {
		return "", false
	}
	if len(path) > 1 {
		child, ok := value.(map[string]any)
		if !ok {
			return "", false
		}
		return lookup(child, path[1:])
	}

	var id string
	switch v := value.(type) {
	case string:
		id = strings.TrimSpace(v)
	case json.Number:
		id = v.String()
		if f, err := v.Float64(); err == nil && f == 0 {
			id = ""
		}
	case float64:
		if v != 0 {
			id = strconv.FormatFloat(v, 'f', -1, 64)
		}
	case int, int64:
		id = fmt.Sprint(v)
		if id == "0" {
			id = ""
		}
	}
	return id, id != ""
}

func keys(m map[string]any) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
