package service

import (
	"errors"

	"github.com/jyhwang/matzip-backend/internal/app/model"
	"github.com/jyhwang/matzip-backend/internal/app/repository"
	"github.com/jyhwang/matzip-backend/pkg/logger"
	"gorm.io/gorm"
)

type HeartService interface {
	// ToggleHeart flips the store's membership in the caller's hearts set.
	// 호출할 때마다 상태가 뒤집힘 (같은 호출을 두 번 하면 원래 상태로 복귀).
	// 변경 대상 사용자는 항상 호출자 본인임
	ToggleHeart(userID, storeID uint) (*model.User, error)
	GetHeartedStores(userID uint) ([]model.Store, error)
}

type heartService struct {
	userRepo  repository.UserRepository
	storeRepo repository.StoreRepository
}

func NewHeartService(userRepo repository.UserRepository, storeRepo repository.StoreRepository) HeartService {
	return &heartService{
		userRepo:  userRepo,
		storeRepo: storeRepo,
	}
}

func (s *heartService) ToggleHeart(userID, storeID uint) (*model.User, error) {
	logger.Info("Toggling heart", map[string]interface{}{
		"user_id":  userID,
		"store_id": storeID,
	})

	if _, err := s.storeRepo.FindByID(storeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStoreNotFound
		}
		return nil, err
	}

	hearted, err := s.userRepo.HasHeart(userID, storeID)
	if err != nil {
		logger.Error("Failed to check heart state", err, map[string]interface{}{
			"user_id":  userID,
			"store_id": storeID,
		})
		return nil, err
	}

	if hearted {
		err = s.userRepo.RemoveHeart(userID, storeID)
	} else {
		err = s.userRepo.AddHeart(userID, storeID)
	}
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	logger.Info("Heart toggled", map[string]interface{}{
		"user_id":     userID,
		"store_id":    storeID,
		"hearted":     !hearted,
		"heart_count": len(user.Hearts),
	})
	return user, nil
}

// GetHeartedStores returns the stores the user has hearted
func (s *heartService) GetHeartedStores(userID uint) ([]model.Store, error) {
	ids, err := s.userRepo.HeartStoreIDs(userID)
	if err != nil {
		logger.Error("Failed to fetch hearted store IDs", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	stores, err := s.storeRepo.FindByIDs(ids)
	if err != nil {
		return nil, err
	}

	logger.Debug("Hearted stores fetched", map[string]interface{}{
		"user_id": userID,
		"count":   len(stores),
	})
	return stores, nil
}
