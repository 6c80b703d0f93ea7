package service

import (
	"github.com/jyhwang/matzip-backend/config"
	"github.com/jyhwang/matzip-backend/internal/app/repository"
	"github.com/jyhwang/matzip-backend/pkg/logger"
)

type RankingService interface {
	// TopStores computes the leaderboard. minReviews가 0 이하이면 설정값 사용
	TopStores(minReviews int) ([]repository.TopStoreRow, error)
}

type rankingService struct {
	storeRepo repository.StoreRepository
	cfg       config.RankingConfig
}

func NewRankingService(storeRepo repository.StoreRepository, cfg config.RankingConfig) RankingService {
	return &rankingService{
		storeRepo: storeRepo,
		cfg:       cfg,
	}
}

func (s *rankingService) TopStores(minReviews int) ([]repository.TopStoreRow, error) {
	if minReviews <= 0 {
		minReviews = s.cfg.MinReviews
	}
	// 리뷰 없는 매장은 순위에 오를 수 없음
	if minReviews < 1 {
		minReviews = 1
	}

	rows, err := s.storeRepo.TopStores(minReviews, s.cfg.Limit)
	if err != nil {
		logger.Error("Failed to compute top stores", err, map[string]interface{}{
			"min_reviews": minReviews,
		})
		return nil, err
	}

	logger.Info("Top stores computed", map[string]interface{}{
		"min_reviews": minReviews,
		"count":       len(rows),
	})
	return rows, nil
}
