package service

import (
	"errors"

	"github.com/jyhwang/matzip-backend/internal/app/model"
	"github.com/jyhwang/matzip-backend/internal/app/repository"
	"github.com/jyhwang/matzip-backend/pkg/logger"
	"gorm.io/gorm"
)

var ErrInvalidRating = errors.New("평점은 1~5 사이의 값이어야 합니다")

// ReviewService 랭킹 집계가 소비할 리뷰의 최소 유입 경로
type ReviewService interface {
	CreateReview(authorID, storeID uint, rating int, text string) (*model.Review, error)
	GetStoreReviews(storeID uint) ([]model.Review, error)
}

type reviewService struct {
	reviewRepo repository.ReviewRepository
	storeRepo  repository.StoreRepository
}

func NewReviewService(reviewRepo repository.ReviewRepository, storeRepo repository.StoreRepository) ReviewService {
	return &reviewService{
		reviewRepo: reviewRepo,
		storeRepo:  storeRepo,
	}
}

func (s *reviewService) CreateReview(authorID, storeID uint, rating int, text string) (*model.Review, error) {
	if rating < 1 || rating > 5 {
		return nil, ErrInvalidRating
	}

	if _, err := s.storeRepo.FindByID(storeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStoreNotFound
		}
		return nil, err
	}

	review := &model.Review{
		StoreID:  storeID,
		AuthorID: authorID,
		Rating:   rating,
		Text:     text,
	}

	if err := s.reviewRepo.Create(review); err != nil {
		logger.Error("Failed to create review", err, map[string]interface{}{
			"store_id": storeID,
		})
		return nil, err
	}

	logger.Info("Review created", map[string]interface{}{
		"review_id": review.ID,
		"store_id":  storeID,
		"rating":    rating,
	})
	return review, nil
}

func (s *reviewService) GetStoreReviews(storeID uint) ([]model.Review, error) {
	reviews, err := s.reviewRepo.FindByStoreID(storeID)
	if err != nil {
		return nil, err
	}
	return reviews, nil
}
