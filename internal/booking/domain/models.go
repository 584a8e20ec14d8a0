package domain

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
)

// FlexString accepts a JSON string or number.
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = FlexString(n.String())
	return nil
}

func (f FlexString) String() string {
	return string(f)
}

// Guest holds the contact details forwarded to the PMS.
type Guest struct {
	Title       string `json:"title" binding:"omitempty,max=50"`
	FirstName   string `json:"firstName" binding:"omitempty,max=100"`
	LastName    string `json:"lastName" binding:"omitempty,max=100"`
	Email       string `json:"email" binding:"omitempty,max=254"`
	Phone       string `json:"phone" binding:"omitempty,max=50"`
	Mobile      string `json:"mobile" binding:"omitempty,max=50"`
	Address     string `json:"address" binding:"omitempty,max=200"`
	City        string `json:"city" binding:"omitempty,max=100"`
	Postcode    string `json:"postcode" binding:"omitempty,max=20"`
	Country     string `json:"country" binding:"omitempty,max=100"`
	ArrivalTime string `json:"arrivalTime" binding:"omitempty,max=50"`
	Comments    string `json:"comments" binding:"omitempty,max=2000"`
}

// CreateBookingRequest is the website's booking form.
type CreateBookingRequest struct {
	RoomID    FlexString `json:"roomId"`
	Arrival   string     `json:"arrival"`
	Departure string     `json:"departure"`
	NumAdult  FlexString `json:"numAdult"`
	NumChild  FlexString `json:"numChild"`
	Guest     *Guest     `json:"guest"`
}

// CreateBookingResponse carries the new booking id and where to pay for it.
type CreateBookingResponse struct {
	BookID string `json:"bookId"`
	PayURL string `json:"payUrl"`
}

type Service interface {
	Create(ctx context.Context, req CreateBookingRequest) (CreateBookingResponse, error)
}
