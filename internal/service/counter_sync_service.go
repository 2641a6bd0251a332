package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"medical-appointment-booking/internal/domain/repository"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const (
	// RedisDoctorCounterKeyPrefix prefixes the mirrored active appointment count of a doctor.
	RedisDoctorCounterKeyPrefix = "doctor:active_appointments:"

	// Startup sync reads and writes doctors in batches of this size.
	syncBatchSize = 500
)

// adjustIfPresentScript only applies a delta to a key that a previous sync
// created. A missing key is left for the next sync instead of starting from 0.
var adjustIfPresentScript = redis.NewScript(`
	if redis.call('EXISTS', KEYS[1]) == 1 then
		return redis.call('INCRBY', KEYS[1], ARGV[1])
	end
	return false
`)

// CounterSyncService mirrors every doctor's active appointment counter into
// Redis. The database row stays authoritative: the mirror is rebuilt from it on
// startup and only nudged after a transaction has committed.
type CounterSyncService struct {
	db          *gorm.DB
	redisClient *redis.Client
	log         *logrus.Logger
	doctorRepo  repository.DoctorRepository
}

func NewCounterSyncService(db *gorm.DB, redisClient *redis.Client, log *logrus.Logger, doctorRepo repository.DoctorRepository) *CounterSyncService {
	return &CounterSyncService{
		db:          db,
		redisClient: redisClient,
		log:         log,
		doctorRepo:  doctorRepo,
	}
}

func doctorCounterKey(doctorNIF string) string {
	return RedisDoctorCounterKeyPrefix + doctorNIF
}

// SyncOnStartup overwrites the mirror of every doctor with the database value.
// Each batch gets its own pipeline so memory stays bounded.
func (s *CounterSyncService) SyncOnStartup(ctx context.Context) error {
	s.log.Info("Starting Redis counter sync from database...")
	startTime := time.Now()

	if err := s.redisClient.Ping(ctx).Err(); err != nil {
		s.log.Warnf("Redis is not available, skipping sync: %+v", err)
		return fmt.Errorf("redis ping failed: %w", err)
	}

	var afterID int64
	totalSynced := 0

	for {
		doctors, err := s.doctorRepo.FindBatch(s.db.WithContext(ctx), afterID, syncBatchSize)
		if err != nil {
			s.log.Errorf("Failed to query doctors after id %d: %+v", afterID, err)
			return fmt.Errorf("query doctors after id %d: %w", afterID, err)
		}
		if len(doctors) == 0 {
			break
		}

		pipe := s.redisClient.TxPipeline()
		for _, doctor := range doctors {
			pipe.Set(ctx, doctorCounterKey(doctor.NIF), doctor.ActiveAppointments, 0)
		}
		if _, err := pipe.Exec(ctx); err != nil {
			s.log.Errorf("Failed to execute pipeline for batch after id %d: %+v", afterID, err)
			return fmt.Errorf("pipeline exec after id %d: %w", afterID, err)
		}

		totalSynced += len(doctors)
		afterID = doctors[len(doctors)-1].ID

		if len(doctors) < syncBatchSize {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
	}

	s.log.Infof("Redis counter sync completed: %d doctors synced in %v", totalSynced, time.Since(startTime))
	return nil
}

// AdjustDoctorCounter applies delta to a mirrored counter. Keys that were never
// synced are skipped.
func (s *CounterSyncService) AdjustDoctorCounter(ctx context.Context, doctorNIF string, delta int64) error {
	key := doctorCounterKey(doctorNIF)

	value, err := adjustIfPresentScript.Run(ctx, s.redisClient, []string{key}, delta).Int64()
	if errors.Is(err, redis.Nil) {
		s.log.Debugf("Counter for doctor %s not mirrored, skipping delta %d", doctorNIF, delta)
		return nil
	}
	if err != nil {
		return fmt.Errorf("adjust counter for doctor %s: %w", doctorNIF, err)
	}

	s.log.Debugf("Adjusted counter for doctor %s by %d: now %d", doctorNIF, delta, value)
	return nil
}

// GetDoctorCounter returns the mirrored counter and whether the key exists.
func (s *CounterSyncService) GetDoctorCounter(ctx context.Context, doctorNIF string) (int64, bool, error) {
	value, err := s.redisClient.Get(ctx, doctorCounterKey(doctorNIF)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("get counter for doctor %s: %w", doctorNIF, err)
	}
	return value, true, nil
}

func (s *CounterSyncService) SetDoctorCounter(ctx context.Context, doctorNIF string, value int64) error {
	if err := s.redisClient.Set(ctx, doctorCounterKey(doctorNIF), value, 0).Err(); err != nil {
		return fmt.Errorf("set counter for doctor %s: %w", doctorNIF, err)
	}
	return nil
}
