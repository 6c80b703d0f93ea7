package scheduler

import (
	"context"
	"time"

	"github.com/jyhwang/matzip-backend/internal/app/repository"
	"github.com/jyhwang/matzip-backend/internal/storage"
	"github.com/jyhwang/matzip-backend/pkg/logger"
	"github.com/robfig/cron/v3"
)

// PhotoCleanupScheduler 어떤 매장에도 연결되지 않은 업로드 사진을 주기적으로 정리
type PhotoCleanupScheduler struct {
	cron      *cron.Cron
	storeRepo repository.StoreRepository
	storage   storage.PhotoStorage
}

func NewPhotoCleanupScheduler(storeRepo repository.StoreRepository, photoStorage storage.PhotoStorage) *PhotoCleanupScheduler {
	return &PhotoCleanupScheduler{
		cron:      cron.New(),
		storeRepo: storeRepo,
		storage:   photoStorage,
	}
}

// Start 스케줄러 시작
func (s *PhotoCleanupScheduler) Start() error {
	// 매일 새벽 4시에 고아 사진 정리
	_, err := s.cron.AddFunc("0 4 * * *", func() {
		s.RunOnce()
	})

	if err != nil {
		logger.Error("Failed to add cron job for photo cleanup", err, nil)
		return err
	}

	s.cron.Start()
	logger.Info("Photo cleanup scheduler started (daily at 4:00 AM)", nil)

	return nil
}

// RunOnce 스토리지의 파일 목록과 DB의 사진 컬럼을 대조해 고아 파일을 삭제
func (s *PhotoCleanupScheduler) RunOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	logger.Info("Starting orphan photo cleanup", nil)

	stored, err := s.storage.List(ctx)
	if err != nil {
		logger.Error("Failed to list stored photos", err, nil)
		return
	}

	referenced, err := s.storeRepo.ListPhotos()
	if err != nil {
		logger.Error("Failed to list referenced photos", err, nil)
		return
	}

	inUse := make(map[string]struct{}, len(referenced))
	for _, name := range referenced {
		inUse[name] = struct{}{}
	}

	removed := 0
	for _, name := range stored {
		if _, ok := inUse[name]; ok {
			continue
		}
		if err := s.storage.Delete(ctx, name); err != nil {
			logger.Error("Failed to delete orphan photo", err, map[string]interface{}{
				"filename": name,
			})
			continue
		}
		removed++
	}

	logger.Info("Orphan photo cleanup finished", map[string]interface{}{
		"stored":  len(stored),
		"removed": removed,
	})
}

// Stop 스케줄러 중지
func (s *PhotoCleanupScheduler) Stop() {
	s.cron.Stop()
	logger.Info("Photo cleanup scheduler stopped", nil)
}
