package beds24

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/villagambera/channelbridge/internal/config"
	"github.com/villagambera/channelbridge/internal/observability/metrics"
	"github.com/villagambera/channelbridge/internal/observability/tracing"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	OperationGetRoomDates = "getRoomDates"
	OperationSetBooking   = "setBooking"

	maxResponseBytes = 4 << 20
)

type ClientParam struct {
	fx.In

	Config     config.Config
	Log        *zap.Logger
	Metrics    *metrics.Metrics `optional:"true"`
	HTTPClient *http.Client     `optional:"true"`
}

// Client talks to the Beds24 JSON API.
type Client struct {
	baseURL    string
	auth       Authentication
	configured bool
	http       *http.Client
	log        *zap.Logger
	metrics    *metrics.Metrics
	tracer     trace.Tracer
}

func NewClient(p ClientParam) *Client {
	httpClient := p.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: p.Config.Beds24.Timeout}
	}
	log := p.Log
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		baseURL: strings.TrimRight(p.Config.Beds24.BaseURL, "/"),
		auth: Authentication{
			APIKey:  p.Config.Beds24.APIKey,
			PropKey: p.Config.Beds24.PropKey,
		},
		configured: p.Config.Beds24.HasCredentials(),
		http:       httpClient,
		log:        log.Named("beds24.client"),
		metrics:    p.Metrics,
		tracer:     otel.Tracer("channelbridge/beds24"),
	}
}

// Configured reports whether both API credentials are set.
func (c *Client) Configured() bool {
	return c.configured
}

// GetRoomDates returns the raw day records keyed by YYYYMMDD. Keys that are
// not eight digits are ignored; a day record that cannot be decoded fails the
// whole response.
func (c *Client) GetRoomDates(ctx context.Context, req RoomDatesRequest) (map[string]RawDay, error) {
	payload := roomDatesPayload{
		Authentication:         c.auth,
		RoomID:                 req.RoomID,
		From:                   req.From,
		To:                     req.To,
		IncOverride:            1,
		IncMaxStay:             1,
		AllowInventoryNegative: 0,
	}

	body, err := c.doRequest(ctx, OperationGetRoomDates, payload, attribute.Int64("beds24.room_id", req.RoomID))
	if err != nil {
		return nil, err
	}

	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) || bytes.Equal(trimmed, []byte("[]")) {
		return map[string]RawDay{}, nil
	}

	var entries map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &entries); err != nil {
		return nil, ErrInvalidResponse.Wrap(err)
	}
	if err := rejection(entries); err != nil {
		return nil, err
	}

	days := make(map[string]RawDay, len(entries))
	for key, raw := range entries {
		if !isDayKey(key) {
			c.log.Debug("ignoring non-date key", zap.String("key", key))
			continue
		}
		var day RawDay
		if err := json.Unmarshal(raw, &day); err != nil {
			return nil, ErrInvalidResponse.Wrap(fmt.Errorf("day %s: %w", key, err))
		}
		days[key] = day
	}
	return days, nil
}

// SetBooking submits a booking and returns the decoded response object.
func (c *Client) SetBooking(ctx context.Context, payload BookingPayload) (map[string]any, error) {
	payload.Authentication = c.auth

	body, err := c.doRequest(ctx, OperationSetBooking, payload, attribute.String("beds24.room_id", payload.RoomID))
	if err != nil {
		return nil, err
	}

	decoder := json.NewDecoder(bytes.NewReader(body))
	decoder.UseNumber()
	var result map[string]any
	if err := decoder.Decode(&result); err != nil {
		return nil, ErrInvalidResponse.Wrap(err)
	}

	if msg, ok := result["error"].(string); ok && strings.TrimSpace(msg) != "" {
		return nil, ErrRejected.WithMessage("Beds24 rejected the request: " + strings.TrimSpace(msg))
	}
	return result, nil
}

func (c *Client) doRequest(ctx context.Context, operation string, payload any, attrs ...attribute.KeyValue) (body []byte, err error) {
	if !c.Configured() {
		return nil, ErrMissingCredentials
	}

	attrs = append(attrs, attribute.String("beds24.operation", operation))
	ctx, span := c.tracer.Start(ctx, "beds24."+operation,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(tracing.SafeAttributes(attrs...)...),
	)
	start := time.Now()
	defer func() {
		c.metrics.ObserveUpstream(operation, time.Since(start), err)
		if err != nil {
			safe := tracing.SafeError(err)
			span.RecordError(safe)
			span.SetStatus(codes.Error, safe.Error())
		}
		span.End()
	}()

	encoded, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/"+operation, bytes.NewReader(encoded))
	if err != nil {
		return nil, ErrRequestFailed.Wrap(err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn("beds24 request failed", zap.String("operation", operation), zap.Error(err))
		return nil, ErrRequestFailed.Wrap(err)
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))
		c.log.Warn("beds24 returned an error status",
			zap.String("operation", operation),
			zap.Int("status", resp.StatusCode),
		)
		return nil, ErrBadStatus.WithMessage(fmt.Sprintf("Beds24 error: %d", resp.StatusCode))
	}

	body, err = io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, ErrInvalidResponse.Wrap(err)
	}
	return body, nil
}

// rejection detects the {"error": "..."} object the API answers with on a 200.
func isDayKey(key string) bool {
	if len(key) != 8 {
		return false
	}
	for i := 0; i < len(key); i++ {
		if key[i] < '0' || key[i] > '9' {
			return false
		}
	}
	return true
}

func rejection(entries map[string]json.RawMessage) error {
	raw, ok := entries["error"]
	if !ok {
		return nil
	}
	var message string
	if err := json.Unmarshal(raw, &message); err != nil {
		message = strings.TrimSpace(string(raw))
	}
	message = strings.TrimSpace(message)
	if message == "" || message == "null" || message == "false" {
		return nil
	}
	return ErrRejected.WithMessage("Beds24 rejected the request: " + message)
}
