package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/skinsight/diagnosis/backend/internal/domain/entities"
	"github.com/skinsight/diagnosis/backend/internal/domain/providers"
	"github.com/skinsight/diagnosis/backend/internal/domain/repositories"
	"github.com/skinsight/diagnosis/backend/internal/infrastructure/observability"
)

const historyCachePrefix = "history"

// CachedDiagnosisHistoryAdapter wraps a DiagnosisHistoryRepository with a
// per-session cache of recent records. Create invalidates the session.
type CachedDiagnosisHistoryAdapter struct {
	adapter repositories.DiagnosisHistoryRepository
	cache   providers.CacheProvider
	ttl     int
	metrics *observability.Metrics
}

// NewCachedDiagnosisHistoryAdapter creates a new cached history adapter.
// ttlSeconds bounds how stale a listing may be.
func NewCachedDiagnosisHistoryAdapter(
	adapter repositories.DiagnosisHistoryRepository,
	cache providers.CacheProvider,
	ttlSeconds int,
	metrics *observability.Metrics,
) repositories.DiagnosisHistoryRepository {
	return &CachedDiagnosisHistoryAdapter{
		adapter: adapter,
		cache:   cache,
		ttl:     ttlSeconds,
		metrics: metrics,
	}
}

// Listings are keyed by the session's generation. Create bumps the
// generation, which orphans every listing of the session in one atomic step;
// orphans expire on their TTL.
func historyCacheKey(sessionID string, generation int64, limit int) string {
	return fmt.Sprintf("%s:%s:%d:%d", historyCachePrefix, sessionID, generation, limit)
}

func historyGenerationKey(sessionID string) string {
	return fmt.Sprintf("%s:%s:gen", historyCachePrefix, sessionID)
}

// Create stores the record and invalidates the session's cached listings.
func (a *CachedDiagnosisHistoryAdapter) Create(ctx context.Context, record *entities.DiagnosisRecord) error {
	if err := a.adapter.Create(ctx, record); err != nil {
		return err
	}
	if _, err := a.cache.Increment(ctx, historyGenerationKey(record.SessionID), a.generationTTL()); err != nil {
		observability.LoggerFromContext(ctx).Warn().Err(err).
			Str("session_id", record.SessionID).
			Msg("failed to invalidate cached history")
	}
	return nil
}

// ListBySession serves from cache when possible. The generation is read
// before the repository, so a listing that races a Create is stored under
// the superseded generation and never served.
func (a *CachedDiagnosisHistoryAdapter) ListBySession(ctx context.Context, sessionID string, limit int) ([]*entities.DiagnosisRecord, error) {
	logger := observability.LoggerFromContext(ctx)

	generation, err := a.generation(ctx, sessionID)
	if err != nil {
		logger.Warn().Err(err).Str("session_id", sessionID).Msg("history cache unavailable, reading through")
		return a.adapter.ListBySession(ctx, sessionID, limit)
	}
	key := historyCacheKey(sessionID, generation, limit)

	if cached, err := a.cache.Get(ctx, key); err == nil {
		var records []*entities.DiagnosisRecord
		if err := json.Unmarshal(cached, &records); err == nil {
			observability.RecordCacheHit(ctx, a.metrics, historyCachePrefix)
			return records, nil
		}
		logger.Warn().Err(err).Str("key", key).Msg("discarding unreadable cached history")
	} else if !errors.Is(err, providers.ErrCacheMiss) {
		logger.Warn().Err(err).Str("key", key).Msg("history cache read failed")
	}
	observability.RecordCacheMiss(ctx, a.metrics, historyCachePrefix)

	records, err := a.adapter.ListBySession(ctx, sessionID, limit)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(records); err == nil {
		if err := a.cache.Set(ctx, key, data, a.ttl); err != nil {
			logger.Warn().Err(err).Str("key", key).Msg("failed to cache history")
		}
	}

	return records, nil
}

// generation returns the session's current generation, 0 when none has been
// recorded yet.
func (a *CachedDiagnosisHistoryAdapter) generation(ctx context.Context, sessionID string) (int64, error) {
	data, err := a.cache.Get(ctx, historyGenerationKey(sessionID))
	if errors.Is(err, providers.ErrCacheMiss) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	generation, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("unreadable history generation %q: %w", data, err)
	}
	return generation, nil
}

// generationTTL outlives every listing stored under the generation.
func (a *CachedDiagnosisHistoryAdapter) generationTTL() int {
	if a.ttl <= 0 {
		return 0
	}
	return a.ttl * 2
}
