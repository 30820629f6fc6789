package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Awantha2003/Nature-Pulse-sub001/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ErrSlotHeld is returned when the (doctor, date, time) slot already carries
// an active hold in Redis.
var ErrSlotHeld = errors.New("slot is already held")

const (
	// Redis key prefix for slot holds
	RedisSlotKeyPrefix = "appointment:slot:"

	// Batch size for startup sync - process 500 records at a time
	syncBatchSize = 500
)

// SlotHoldService keeps a Redis key per occupied (doctor, date, time) slot so
// concurrent booking requests are rejected before they reach the database.
//
// The database stays the authority: a partial unique index on active
// appointments enforces slot uniqueness even if Redis is flushed. The hold is
// a fast-path filter in front of it.
//
// Lifecycle of a hold:
//   - Acquire before the booking transaction; SET NX so the first caller wins
//   - Release if the transaction fails (compensation) or when the
//     appointment is cancelled, marked no-show, or hard deleted
//   - TTL expires the key 24 hours after the appointment date, so stale
//     holds clean themselves up
type SlotHoldService struct {
	db          *gorm.DB
	redisClient *redis.Client
	log         *logrus.Logger
}

func NewSlotHoldService(db *gorm.DB, redisClient *redis.Client, log *logrus.Logger) *SlotHoldService {
	return &SlotHoldService{
		db:          db,
		redisClient: redisClient,
		log:         log,
	}
}

// SlotKey builds the Redis key for a (doctor, date, time) slot.
func SlotKey(doctorID uuid.UUID, date time.Time, timeOfDay string) string {
	return fmt.Sprintf("%s%s:%s:%s", RedisSlotKeyPrefix, doctorID.String(), date.Format("2006-01-02"), timeOfDay)
}

// Acquire places a hold on the slot. Returns ErrSlotHeld when another booking
// already holds it.
func (s *SlotHoldService) Acquire(ctx context.Context, doctorID uuid.UUID, date time.Time, timeOfDay string) error {
	key := SlotKey(doctorID, date, timeOfDay)
	ttl := s.calculateTTL(date)

	ok, err := s.redisClient.SetNX(ctx, key, "held", ttl).Result()
	if err != nil {
		s.log.Warnf("Failed to acquire slot hold %s: %+v", key, err)
		return fmt.Errorf("acquire slot hold %s: %w", key, err)
	}
	if !ok {
		return ErrSlotHeld
	}

	s.log.Debugf("Acquired slot hold %s (ttl=%v)", key, ttl)
	return nil
}

// Release frees the hold on a slot. Called on booking compensation,
// cancellation, no-show, and hard delete.
func (s *SlotHoldService) Release(ctx context.Context, doctorID uuid.UUID, date time.Time, timeOfDay string) error {
	key := SlotKey(doctorID, date, timeOfDay)

	if err := s.redisClient.Del(ctx, key).Err(); err != nil {
		s.log.Warnf("Failed to release slot hold %s: %+v", key, err)
		return fmt.Errorf("release slot hold %s: %w", key, err)
	}

	s.log.Debugf("Released slot hold %s", key)
	return nil
}

// SyncOnStartup rebuilds slot holds for all upcoming active appointments from
// the database. Should be called before accepting traffic, so that a Redis
// flush or restart cannot momentarily expose already-booked slots.
//
// Processes appointments in batches of 500 and executes a new pipeline per
// batch to keep memory bounded.
func (s *SlotHoldService) SyncOnStartup(ctx context.Context) error {
	s.log.Info("Starting slot hold re-sync from database...")
	startTime := time.Now()

	if err := s.redisClient.Ping(ctx).Err(); err != nil {
		s.log.Warnf("Redis is not available, skipping sync: %+v", err)
		return fmt.Errorf("redis ping failed: %w", err)
	}

	type slotRow struct {
		DoctorID        uuid.UUID
		AppointmentDate time.Time
		AppointmentTime string
	}

	today := time.Now().UTC().Truncate(24 * time.Hour)
	offset := 0
	totalSynced := 0

	for {
		var rows []slotRow

		err := s.db.WithContext(ctx).Model(&entity.Appointment{}).
			Select("doctor_id, appointment_date, appointment_time").
			Where("appointment_date >= ? AND status NOT IN ?", today,
				[]entity.AppointmentStatus{entity.AppointmentStatusCancelled, entity.AppointmentStatusNoShow}).
			Order("id").
			Limit(syncBatchSize).
			Offset(offset).
			Scan(&rows).Error
		if err != nil {
			s.log.Errorf("Failed to query appointments at offset %d: %+v", offset, err)
			return fmt.Errorf("query appointments at offset %d: %w", offset, err)
		}

		if len(rows) == 0 {
			if offset == 0 {
				s.log.Info("No upcoming appointments found for sync")
			}
			break
		}

		pipe := s.redisClient.TxPipeline()
		for _, row := range rows {
			key := SlotKey(row.DoctorID, row.AppointmentDate, row.AppointmentTime)
			pipe.Set(ctx, key, "held", s.calculateTTL(row.AppointmentDate))
		}
		if _, err := pipe.Exec(ctx); err != nil {
			s.log.Errorf("Failed to execute pipeline for batch at offset %d: %+v", offset, err)
			return fmt.Errorf("pipeline exec at offset %d: %w", offset, err)
		}

		totalSynced += len(rows)
		if len(rows) < syncBatchSize {
			break
		}
		offset += syncBatchSize

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
	}

	s.log.Infof("Slot hold re-sync completed: %d slots synced in %v", totalSynced, time.Since(startTime))
	return nil
}

// calculateTTL returns TTL: 24 hours after the appointment date
func (s *SlotHoldService) calculateTTL(date time.Time) time.Duration {
	expireAt := date.AddDate(0, 0, 1)
	ttl := time.Until(expireAt)

	if ttl <= 0 {
		// Past date - short TTL for cleanup
		return 1 * time.Minute
	}

	return ttl
}
