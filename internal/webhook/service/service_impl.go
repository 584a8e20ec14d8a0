package service

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"net/url"
	"strings"

	"github.com/villagambera/channelbridge/internal/config"
	"github.com/villagambera/channelbridge/internal/observability/logger"
	"github.com/villagambera/channelbridge/internal/observability/metrics"
	"github.com/villagambera/channelbridge/internal/webhook/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	maxLoggedBody = 4 << 10
	redacted      = "[redacted]"

	outcomeAccepted  = "accepted"
	outcomeForbidden = "forbidden"
)

var sensitiveKeys = []string{"secret", "apikey", "api_key", "propkey", "prop_key", "password", "token"}

type ServiceParam struct {
	fx.In

	Config  config.Config
	Log     *zap.Logger
	Metrics *metrics.Metrics `optional:"true"`
}

type Service struct {
	log     *zap.Logger
	metrics *metrics.Metrics
	secret  []byte
}

func NewService(p ServiceParam) domain.Service {
	svc := &Service{
		log:     p.Log.Named("webhook.service"),
		metrics: p.Metrics,
	}
	if strings.TrimSpace(p.Config.WebhookSecret) != "" {
		svc.secret = []byte(p.Config.WebhookSecret)
	}
	return svc
}

func (s *Service) Receive(ctx context.Context, n domain.Notification) (domain.Ack, error) {
	log := logger.WithContext(ctx, s.log)

	if len(s.secret) > 0 {
		provided := []byte(n.Secret())
		if len(provided) == 0 || subtle.ConstantTimeCompare(provided, s.secret) != 1 {
			s.metrics.RecordWebhook(n.Method, outcomeForbidden)
			log.Warn("webhook rejected",
				zap.String("method", n.Method),
				zap.String("client_ip", n.ClientIP),
				zap.Bool("secret_present", len(provided) > 0),
			)
			return domain.Ack{}, domain.ErrInvalidSecret
		}
	}

	s.metrics.RecordWebhook(n.Method, outcomeAccepted)
	log.Info("beds24 webhook",
		zap.String("method", n.Method),
		zap.String("user_agent", n.UserAgent),
		zap.String("x_forwarded_for", n.ForwardedFor),
		zap.Any("query", redactQuery(n.Query)),
		bodyField(n.Body),
	)
	return domain.Ack{OK: true}, nil
}

func isSensitive(key string) bool {
	key = strings.ToLower(key)
	for _, candidate := range sensitiveKeys {
		if key == candidate {
			return true
		}
	}
	return false
}

func redactQuery(query url.Values) map[string][]string {
	if len(query) == 0 {
		return nil
	}
	out := make(map[string][]string, len(query))
	for key, values := range query {
		if isSensitive(key) {
			out[key] = []string{redacted}
			continue
		}
		out[key] = values
	}
	return out
}

func redactBody(value any) any {
	switch v := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, inner := range v {
			if isSensitive(key) {
				out[key] = redacted
				continue
			}
			out[key] = redactBody(inner)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, inner := range v {
			out[i] = redactBody(inner)
		}
		return out
	default:
		return v
	}
}

// bodyField renders the body as bounded JSON, or null when there is none.
func bodyField(body map[string]any) zap.Field {
	if len(body) == 0 {
		return zap.Any("body", nil)
	}
	encoded, err := json.Marshal(redactBody(body))
	if err != nil {
		return zap.String("body", "<unencodable>")
	}
	if len(encoded) > maxLoggedBody {
		return zap.String("body", string(encoded[:maxLoggedBody])+"...(truncated)")
	}
	return zap.String("body", string(encoded))
}
