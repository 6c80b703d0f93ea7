package repository

import (
	"github.com/jyhwang/matzip-backend/internal/app/model"
	"github.com/jyhwang/matzip-backend/pkg/logger"
	"gorm.io/gorm"
)

type ReviewRepository interface {
	Create(review *model.Review) error
	FindByStoreID(storeID uint) ([]model.Review, error)
}

type reviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) Create(review *model.Review) error {
	logger.Debug("Creating review in database", map[string]interface{}{
		"store_id":  review.StoreID,
		"author_id": review.AuthorID,
		"rating":    review.Rating,
	})

	if err := r.db.Create(review).Error; err != nil {
		logger.Error("Failed to create review in database", err, map[string]interface{}{
			"store_id": review.StoreID,
		})
		return err
	}
	return nil
}

func (r *reviewRepository) FindByStoreID(storeID uint) ([]model.Review, error) {
	var reviews []model.Review
	err := r.db.
		Preload("Author").
		Where("store_id = ?", storeID).
		Order("created_at DESC").
		Find(&reviews).Error
	if err != nil {
		logger.Error("Failed to find reviews by store", err, map[string]interface{}{
			"store_id": storeID,
		})
		return nil, err
	}
	return reviews, nil
}
