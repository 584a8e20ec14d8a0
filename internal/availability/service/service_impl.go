package service

import (
	"context"
	"sort"
	"time"

	"github.com/villagambera/channelbridge/internal/availability/domain"
	"github.com/villagambera/channelbridge/internal/beds24"
	"github.com/villagambera/channelbridge/internal/clock"
	"github.com/villagambera/channelbridge/internal/config"
	"github.com/villagambera/channelbridge/internal/observability/metrics"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// RoomDates is the slice of the PMS client the normalizer needs.
type RoomDates interface {
	Configured() bool
	GetRoomDates(ctx context.Context, req beds24.RoomDatesRequest) (map[string]beds24.RawDay, error)
}

type ServiceParam struct {
	fx.In

	Config   config.Config
	Log      *zap.Logger
	Clock    clock.Clock
	Upstream RoomDates
	Store    domain.Store
	Metrics  *metrics.Metrics `optional:"true"`
}

type Service struct {
	log      *zap.Logger
	clock    clock.Clock
	upstream RoomDates
	store    domain.Store
	metrics  *metrics.Metrics
	ttl      time.Duration

	flights singleflight.Group
}

func NewService(p ServiceParam) domain.Service {
	ttl := p.Config.AvailabilityCacheTTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Service{
		log:      p.Log.Named("availability.service"),
		clock:    p.Clock,
		upstream: p.Upstream,
		store:    p.Store,
		metrics:  p.Metrics,
		ttl:      ttl,
	}
}

func (s *Service) GetMonth(ctx context.Context, roomID, month string) (domain.MonthResult, error) {
	q, err := domain.ParseQuery(roomID, month)
	if err != nil {
		return domain.MonthResult{}, err
	}
	if !s.upstream.Configured() {
		return domain.MonthResult{}, beds24.ErrMissingCredentials
	}

	key := q.Key()
	if result, ok := s.cached(ctx, key); ok {
		s.metrics.RecordCache(metrics.CacheResultHit)
		return result, nil
	}
	s.metrics.RecordCache(metrics.CacheResultMiss)

	// Concurrent misses for one key share one upstream call, detached from the
	// first caller's cancellation and bounded by the client timeout.
	flight := s.flights.DoChan(key, func() (any, error) {
		shared := context.WithoutCancel(ctx)
		if result, ok := s.cached(shared, key); ok {
			return result, nil
		}
		return s.refresh(shared, q, key)
	})

	select {
	case <-ctx.Done():
		return domain.MonthResult{}, ctx.Err()
	case res := <-flight:
		if res.Err != nil {
			return domain.MonthResult{}, res.Err
		}
		return res.Val.(domain.MonthResult).Clone(), nil
	}
}

func (s *Service) cached(ctx context.Context, key string) (domain.MonthResult, bool) {
	entry, ok, err := s.store.Get(ctx, key)
	if err != nil {
		s.log.Warn("availability cache read failed", zap.String("key", key), zap.Error(err))
		return domain.MonthResult{}, false
	}
	if !ok || !entry.Fresh(s.clock.Now(), s.ttl) {
		return domain.MonthResult{}, false
	}
	return entry.Result, true
}

func (s *Service) refresh(ctx context.Context, q domain.Query, key string) (domain.MonthResult, error) {
	first, last := q.Month.FirstDay(), q.Month.LastDay()

	raw, err := s.upstream.GetRoomDates(ctx, beds24.RoomDatesRequest{
		RoomID: q.RoomID,
		From:   first.Format(domain.UpstreamDateLayout),
		To:     last.Format(domain.UpstreamDateLayout),
	})
	if err != nil {
		return domain.MonthResult{}, err
	}

	result := domain.MonthResult{
		RoomID: q.RoomID,
		Month:  q.Month.String(),
		Days:   Normalize(raw, first, last),
	}

	entry := domain.CacheEntry{StoredAt: s.clock.Now(), Result: result}
	if err := s.store.Set(ctx, key, entry); err != nil {
		s.log.Warn("availability cache write failed", zap.String("key", key), zap.Error(err))
	}
	return result, nil
}

// Normalize turns raw day records into a sorted day list. Keys that are not
// valid dates or fall outside [first, last] are dropped.
func Normalize(raw map[string]beds24.RawDay, first, last time.Time) []domain.Day {
	days := make([]domain.Day, 0, len(raw))
	for key, record := range raw {
		if len(key) != len(domain.UpstreamDateLayout) {
			continue
		}
		date, err := time.Parse(domain.UpstreamDateLayout, key)
		if err != nil || date.Before(first) || date.After(last) {
			continue
		}
		days = append(days, domain.NewDay(
			date,
			intOr(record.Inventory, 0),
			intOr(record.MinStay, 1),
			domain.ParseOverride(intOr(record.Override, 0)),
			record.Price,
		))
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Date < days[j].Date })
	return days
}

func intOr(value *int, fallback int) int {
	if value == nil {
		return fallback
	}
	return *value
}
