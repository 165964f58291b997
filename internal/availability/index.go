package availability

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	scheduling "github.com/fieldline/salesdesk/internal/domain/scheduling"
)

// Index is a read-through cache of booked intervals per (staff, date).
// TTL is a backstop only; the engine invalidates synchronously after every
// committed mutation, because a stale entry would offer a slot that was just
// taken.
type Index struct {
	rdb    *redis.Client
	store  scheduling.Store
	ttl    time.Duration
	logger *zap.Logger
}

func NewIndex(
	rdb *redis.Client,
	store scheduling.Store,
	ttl time.Duration,
	logger *zap.Logger,
) *Index {
	return &Index{
		rdb:    rdb,
		store:  store,
		ttl:    ttl,
		logger: logger,
	}
}

func cacheKey(staffID uint, date time.Time) string {
	return fmt.Sprintf("avail:%d:%s", staffID, date.Format("2006-01-02"))
}

// BookedIntervals returns the sorted, buffer-expanded intervals of all active
// appointments for the staff member on date. Cache errors degrade to a store
// read; they never fail the caller.
func (ix *Index) BookedIntervals(
	ctx context.Context,
	staffID uint,
	date time.Time,
) ([]scheduling.Interval, error) {

	key := cacheKey(staffID, date)

	if raw, err := ix.rdb.Get(ctx, key).Result(); err == nil {
		var cached []scheduling.Interval
		if jsonErr := json.Unmarshal([]byte(raw), &cached); jsonErr == nil {
			return cached, nil
		}
		ix.logger.Warn("availability cache entry corrupt, rebuilding",
			zap.String("key", key))
	} else if err != redis.Nil {
		ix.logger.Warn("availability cache read failed",
			zap.String("key", key), zap.Error(err))
	}

	intervals, err := ix.rebuild(ctx, staffID, date)
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(intervals); err == nil {
		if err := ix.rdb.Set(ctx, key, raw, ix.ttl).Err(); err != nil {
			ix.logger.Warn("availability cache write failed",
				zap.String("key", key), zap.Error(err))
		}
	}

	return intervals, nil
}

// Invalidate drops the cache entry for (staff, date). Called synchronously by
// the engine after any committed mutation touching that key.
func (ix *Index) Invalidate(ctx context.Context, staffID uint, date time.Time) {
	key := cacheKey(staffID, date)
	if err := ix.rdb.Del(ctx, key).Err(); err != nil {
		ix.logger.Warn("availability cache invalidation failed",
			zap.String("key", key), zap.Error(err))
	}
}

func (ix *Index) rebuild(
	ctx context.Context,
	staffID uint,
	date time.Time,
) ([]scheduling.Interval, error) {

	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	dayEnd := dayStart.Add(24 * time.Hour)

	active, err := ix.store.LoadActiveForStaffOnDate(ctx, staffID, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}

	intervals := make([]scheduling.Interval, 0, len(active))
	for _, ap := range active {
		// ScheduledEnd already carries the buffer.
		intervals = append(intervals, scheduling.Interval{
			Start: ap.ScheduledStart,
			End:   ap.ScheduledEnd,
		})
	}
	scheduling.SortIntervals(intervals)

	return intervals, nil
}
