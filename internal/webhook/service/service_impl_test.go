package service

import (
	"context"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/villagambera/channelbridge/internal/apperror"
	"github.com/villagambera/channelbridge/internal/config"
	"github.com/villagambera/channelbridge/internal/webhook/domain"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newTestService(secret string) (domain.Service, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	svc := NewService(ServiceParam{
		Config: config.Config{WebhookSecret: secret},
		Log:    zap.New(core),
	})
	return svc, logs
}

func TestReceiveWithoutConfiguredSecret(t *testing.T) {
	svc, logs := newTestService("")

	ack, err := svc.Receive(context.Background(), domain.Notification{Method: "GET"})
	require.NoError(t, err)
	assert.True(t, ack.OK)
	assert.Equal(t, 1, logs.FilterMessage("beds24 webhook").Len())
}

func TestReceiveSecretSources(t *testing.T) {
	svc, _ := newTestService("s3cret")

	cases := map[string]domain.Notification{
		"query":  {Method: "GET", Query: url.Values{"secret": {"s3cret"}}},
		"header": {Method: "GET", HeaderSecret: "s3cret"},
		"body":   {Method: "POST", Body: map[string]any{"secret": "s3cret"}},
		"query wins over wrong body": {
			Method: "POST",
			Query:  url.Values{"secret": {"s3cret"}},
			Body:   map[string]any{"secret": "wrong"},
		},
	}
	for name, n := range cases {
		ack, err := svc.Receive(context.Background(), n)
		require.NoError(t, err, name)
		assert.True(t, ack.OK, name)
	}
}

func TestReceiveRejectsWrongOrMissingSecret(t *testing.T) {
	svc, logs := newTestService("s3cret")

	cases := map[string]domain.Notification{
		"missing":     {Method: "POST"},
		"wrong":       {Method: "GET", Query: url.Values{"secret": {"nope"}}},
		"prefix":      {Method: "GET", HeaderSecret: "s3cre"},
		"padded":      {Method: "GET", HeaderSecret: "  s3cret  "},
		"padded body": {Method: "POST", Body: map[string]any{"secret": "s3cret\n"}},
		"non-string":  {Method: "POST", Body: map[string]any{"secret": 42.0}},
		"wrong query": {Method: "POST", Query: url.Values{"secret": {"bad"}}, Body: map[string]any{"secret": "s3cret"}},
	}
	for name, n := range cases {
		_, err := svc.Receive(context.Background(), n)
		assert.ErrorIs(t, err, domain.ErrInvalidSecret, name)
		assert.ErrorIs(t, err, apperror.ErrAuthorization, name)
	}
	assert.Zero(t, logs.FilterMessage("beds24 webhook").Len())
}

func TestReceiveComparesConfiguredSecretVerbatim(t *testing.T) {
	svc, _ := newTestService(" s3cret")

	_, err := svc.Receive(context.Background(), domain.Notification{Method: "GET", HeaderSecret: "s3cret"})
	assert.ErrorIs(t, err, domain.ErrInvalidSecret)

	ack, err := svc.Receive(context.Background(), domain.Notification{Method: "GET", HeaderSecret: " s3cret"})
	require.NoError(t, err)
	assert.True(t, ack.OK)

	blank, _ := newTestService("   ")
	ack, err = blank.Receive(context.Background(), domain.Notification{Method: "GET"})
	require.NoError(t, err)
	assert.True(t, ack.OK)
}

func TestReceiveLogsRedactedSummary(t *testing.T) {
	svc, logs := newTestService("s3cret")

	_, err := svc.Receive(context.Background(), domain.Notification{
		Method:       "POST",
		Query:        url.Values{"secret": {"s3cret"}, "bookid": {"123"}},
		UserAgent:    "Beds24",
		ForwardedFor: "203.0.113.9",
		Body: map[string]any{
			"secret":  "s3cret",
			"booking": map[string]any{"id": "123", "apiKey": "k"},
		},
	})
	require.NoError(t, err)

	entries := logs.FilterMessage("beds24 webhook").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()

	assert.Equal(t, "Beds24", fields["user_agent"])
	assert.Equal(t, "203.0.113.9", fields["x_forwarded_for"])
	body, _ := fields["body"].(string)
	assert.NotContains(t, body, "s3cret")
	assert.NotContains(t, body, `"k"`)
	assert.Contains(t, body, `"id":"123"`)
	query := fields["query"].(map[string][]string)
	assert.Equal(t, []string{"[redacted]"}, query["secret"])
	assert.Equal(t, []string{"123"}, query["bookid"])
}

func TestReceiveTruncatesLargeBodies(t *testing.T) {
	svc, logs := newTestService("")

	_, err := svc.Receive(context.Background(), domain.Notification{
		Method: "POST",
		Body:   map[string]any{"notes": strings.Repeat("x", 10_000)},
	})
	require.NoError(t, err)

	body := logs.FilterMessage("beds24 webhook").All()[0].ContextMap()["body"].(string)
	assert.True(t, strings.HasSuffix(body, "...(truncated)"))
	assert.LessOrEqual(t, len(body), maxLoggedBody+len("...(truncated)"))
}

func TestReceiveEmptyBodyLogsNull(t *testing.T) {
	svc, logs := newTestService("")

	_, err := svc.Receive(context.Background(), domain.Notification{Method: "POST", Body: map[string]any{}})
	require.NoError(t, err)
	assert.Nil(t, logs.FilterMessage("beds24 webhook").All()[0].ContextMap()["body"])
}
