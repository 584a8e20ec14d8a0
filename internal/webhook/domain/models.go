package domain

import (
	"bytes"
	"context"
	"encoding/json"
	"net/url"
	"strings"

	"github.com/villagambera/channelbridge/internal/apperror"
)

var ErrInvalidSecret = apperror.Authorization("invalid_webhook_secret", "Invalid webhook secret")

// Notification is an inbound PMS callback as seen by the receiver.
type Notification struct {
	Method       string
	Query        url.Values
	HeaderSecret string
	UserAgent    string
	ForwardedFor string
	ClientIP     string
	Body         map[string]any
}

// Secret returns the first non-blank secret from query, header, then body,
// exactly as sent.
func (n Notification) Secret() string {
	body, _ := n.Body["secret"].(string)
	for _, s := range []string{n.Query.Get("secret"), n.HeaderSecret, body} {
		if strings.TrimSpace(s) != "" {
			return s
		}
	}
	return ""
}

type Ack struct {
	OK bool `json:"ok"`
}

type Service interface {
	Receive(ctx context.Context, n Notification) (Ack, error)
}

// ParseBody decodes a JSON object or form-encoded body. Anything else yields nil.
func ParseBody(contentType string, raw []byte) map[string]any {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil
	}
	if strings.HasPrefix(strings.ToLower(contentType), "application/x-www-form-urlencoded") {
		values, err := url.ParseQuery(string(raw))
		if err != nil {
			return nil
		}
		return flatten(values)
	}
	var body map[string]any
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil
	}
	return body
}

func flatten(values url.Values) map[string]any {
	if len(values) == 0 {
		return nil
	}
	out := make(map[string]any, len(values))
	for key, vals := range values {
		if len(vals) == 1 {
			out[key] = vals[0]
			continue
		}
		out[key] = vals
	}
	return out
}
