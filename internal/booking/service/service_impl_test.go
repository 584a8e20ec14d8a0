package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/villagambera/channelbridge/internal/apperror"
	"github.com/villagambera/channelbridge/internal/beds24"
	"github.com/villagambera/channelbridge/internal/booking/domain"
	"github.com/villagambera/channelbridge/internal/config"
	"go.uber.org/zap"
)

type mockSubmitter struct {
	mock.Mock
}

func (m *mockSubmitter) Configured() bool {
	return m.Called().Bool(0)
}

func (m *mockSubmitter) SetBooking(ctx context.Context, payload beds24.BookingPayload) (map[string]any, error) {
	args := m.Called(ctx, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]any), args.Error(1)
}

func newTestService(submitter Submitter) domain.Service {
	return NewService(ServiceParam{
		Config:    config.Config{Beds24: config.Beds24Config{PayURL: "https://beds24.com/bookpay.php"}},
		Log:       zap.NewNop(),
		Submitter: submitter,
	})
}

func validRequest() domain.CreateBookingRequest {
	return domain.CreateBookingRequest{
		RoomID:    "335357",
		Arrival:   "2024-06-01",
		Departure: "2024-06-05",
		NumAdult:  "2",
		Guest: &domain.Guest{
			Title:     "Mr",
			FirstName: "Ivan",
			LastName:  "Horvat",
			Email:     "ivan@example.com",
			Country:   "HR",
			Comments:  "Late arrival",
		},
	}
}

func TestCreateBuildsPayload(t *testing.T) {
	submitter := &mockSubmitter{}
	submitter.On("Configured").Return(true)
	submitter.On("SetBooking", mock.Anything, mock.MatchedBy(func(p beds24.BookingPayload) bool {
		return p.CheckAvailability && p.AssignBooking &&
			p.RoomID == "335357" && p.RoomQty == "1" && p.Status == "1" &&
			p.FirstNight == "2024-06-01" && p.LastNight == "2024-06-04" &&
			p.NumAdult == "2" && p.NumChild == "0" &&
			p.GuestTitle == "Mr" && p.GuestFirstName == "Ivan" && p.GuestName == "Horvat" &&
			p.GuestEmail == "ivan@example.com" && p.GuestCountry == "HR" &&
			p.GuestComments == "Late arrival" && p.GuestPhone == ""
	})).Return(map[string]any{"bookId": json.Number("98765")}, nil)

	resp, err := newTestService(submitter).Create(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, "98765", resp.BookID)
	assert.Equal(t, "https://beds24.com/bookpay.php?bookid=98765", resp.PayURL)
	submitter.AssertExpectations(t)
}

func TestCreateLastNightCrossesMonth(t *testing.T) {
	submitter := &mockSubmitter{}
	submitter.On("Configured").Return(true)
	submitter.On("SetBooking", mock.Anything, mock.MatchedBy(func(p beds24.BookingPayload) bool {
		return p.FirstNight == "2024-02-28" && p.LastNight == "2024-02-29"
	})).Return(map[string]any{"bookId": "1"}, nil)

	req := validRequest()
	req.Arrival = "2024-02-28"
	req.Departure = "2024-03-01"
	_, err := newTestService(submitter).Create(context.Background(), req)
	require.NoError(t, err)
	submitter.AssertExpectations(t)
}

func TestCreateExtractsAlternateBookIDs(t *testing.T) {
	cases := map[string]struct {
		response map[string]any
		want     string
	}{
		"newBookId":     {map[string]any{"newBookId": json.Number("11")}, "11"},
		"data.bookId":   {map[string]any{"data": map[string]any{"bookId": "22"}}, "22"},
		"result.bookId": {map[string]any{"result": map[string]any{"bookId": json.Number("33")}}, "33"},
		"first wins":    {map[string]any{"bookId": "44", "newBookId": "55"}, "44"},
		"skips empty":   {map[string]any{"bookId": "", "newBookId": json.Number("66")}, "66"},
		"escaped":       {map[string]any{"bookId": "a b&c"}, "a b&c"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			submitter := &mockSubmitter{}
			submitter.On("Configured").Return(true)
			submitter.On("SetBooking", mock.Anything, mock.Anything).Return(tc.response, nil)

			resp, err := newTestService(submitter).Create(context.Background(), validRequest())
			require.NoError(t, err)
			assert.Equal(t, tc.want, resp.BookID)
		})
	}
}

func TestCreatePayURLEscapesBookID(t *testing.T) {
	submitter := &mockSubmitter{}
	submitter.On("Configured").Return(true)
	submitter.On("SetBooking", mock.Anything, mock.Anything).Return(map[string]any{"bookId": "a b&c"}, nil)

	resp, err := newTestService(submitter).Create(context.Background(), validRequest())
	require.NoError(t, err)
	assert.Equal(t, "https://beds24.com/bookpay.php?bookid=a+b%26c", resp.PayURL)
}

func TestCreateWithoutBookIDIsUpstreamError(t *testing.T) {
	for _, response := range []map[string]any{
		{},
		{"bookId": json.Number("0")},
		{"data": "nope"},
		{"result": map[string]any{"status": "ok"}},
	} {
		submitter := &mockSubmitter{}
		submitter.On("Configured").Return(true)
		submitter.On("SetBooking", mock.Anything, mock.Anything).Return(response, nil)

		_, err := newTestService(submitter).Create(context.Background(), validRequest())
		assert.ErrorIs(t, err, domain.ErrMissingBookID)
		assert.ErrorIs(t, err, apperror.ErrUpstream)
	}
}

func TestCreateValidation(t *testing.T) {
	cases := map[string]struct {
		mutate func(*domain.CreateBookingRequest)
		want   error
	}{
		"missing numAdult":  {func(r *domain.CreateBookingRequest) { r.NumAdult = "" }, domain.ErrMissingFields},
		"missing roomId":    {func(r *domain.CreateBookingRequest) { r.RoomID = "" }, domain.ErrMissingFields},
		"missing arrival":   {func(r *domain.CreateBookingRequest) { r.Arrival = " " }, domain.ErrMissingFields},
		"missing departure": {func(r *domain.CreateBookingRequest) { r.Departure = "" }, domain.ErrMissingFields},
		"zero adults":       {func(r *domain.CreateBookingRequest) { r.NumAdult = "0" }, domain.ErrInvalidNumAdult},
		"negative children": {func(r *domain.CreateBookingRequest) { r.NumChild = "-1" }, domain.ErrInvalidNumChild},
		"non-numeric room":  {func(r *domain.CreateBookingRequest) { r.RoomID = "bamboo" }, domain.ErrInvalidRoomID},
		"bad arrival":       {func(r *domain.CreateBookingRequest) { r.Arrival = "01.06.2024" }, domain.ErrInvalidArrival},
		"bad departure":     {func(r *domain.CreateBookingRequest) { r.Departure = "2024-02-30" }, domain.ErrInvalidDepart},
		"same day":          {func(r *domain.CreateBookingRequest) { r.Departure = r.Arrival }, domain.ErrInvalidStay},
		"reversed":          {func(r *domain.CreateBookingRequest) { r.Departure = "2024-05-01" }, domain.ErrInvalidStay},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			submitter := &mockSubmitter{}
			req := validRequest()
			tc.mutate(&req)

			_, err := newTestService(submitter).Create(context.Background(), req)
			assert.ErrorIs(t, err, tc.want)
			assert.ErrorIs(t, err, apperror.ErrValidation)
			submitter.AssertNotCalled(t, "SetBooking", mock.Anything, mock.Anything)
		})
	}
}

func TestCreateRequiresCredentials(t *testing.T) {
	submitter := &mockSubmitter{}
	submitter.On("Configured").Return(false)

	_, err := newTestService(submitter).Create(context.Background(), validRequest())
	assert.ErrorIs(t, err, apperror.ErrConfiguration)
	submitter.AssertNotCalled(t, "SetBooking", mock.Anything, mock.Anything)
}

func TestCreatePropagatesUpstreamFailure(t *testing.T) {
	submitter := &mockSubmitter{}
	submitter.On("Configured").Return(true)
	submitter.On("SetBooking", mock.Anything, mock.Anything).Return(nil, beds24.ErrBadStatus)

	_, err := newTestService(submitter).Create(context.Background(), validRequest())
	assert.ErrorIs(t, err, beds24.ErrBadStatus)
}

func TestFlexStringAcceptsNumbers(t *testing.T) {
	var req domain.CreateBookingRequest
	require.NoError(t, json.Unmarshal([]byte(`{"roomId": 335357, "numAdult": "2", "numChild": null}`), &req))
	assert.Equal(t, domain.FlexString("335357"), req.RoomID)
	assert.Equal(t, domain.FlexString("2"), req.NumAdult)
	assert.Equal(t, domain.FlexString(""), req.NumChild)

	assert.Error(t, json.Unmarshal([]byte(`{"roomId": true}`), &req))
}
