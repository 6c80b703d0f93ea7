package repository

import (
	"github.com/jyhwang/matzip-backend/internal/app/model"
	"github.com/jyhwang/matzip-backend/pkg/logger"
	"gorm.io/gorm"
)

type UserRepository interface {
	Create(user *model.User) error
	FindByID(id uint) (*model.User, error)
	FindByEmail(email string) (*model.User, error)
	HeartStoreIDs(userID uint) ([]uint, error)
	HasHeart(userID, storeID uint) (bool, error)
	AddHeart(userID, storeID uint) error
	RemoveHeart(userID, storeID uint) error
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(user *model.User) error {
	logger.Debug("Creating user in database", map[string]interface{}{
		"email": user.Email,
	})

	if err := r.db.Create(user).Error; err != nil {
		logger.Error("Failed to create user in database", err, map[string]interface{}{
			"email": user.Email,
		})
		return err
	}
	return nil
}

// FindByID fetches a user with its hearts set populated
func (r *userRepository) FindByID(id uint) (*model.User, error) {
	var user model.User
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, err
	}

	hearts, err := r.HeartStoreIDs(user.ID)
	if err != nil {
		return nil, err
	}
	user.Hearts = hearts

	return &user, nil
}

func (r *userRepository) FindByEmail(email string) (*model.User, error) {
	var user model.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// HeartStoreIDs returns the set of store ids the user has hearted
func (r *userRepository) HeartStoreIDs(userID uint) ([]uint, error) {
	var ids []uint
	err := r.db.Model(&model.Heart{}).
		Where("user_id = ?", userID).
		Pluck("store_id", &ids).Error
	if err != nil {
		logger.Error("Failed to fetch heart store IDs", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}
	return ids, nil
}

func (r *userRepository) HasHeart(userID, storeID uint) (bool, error) {
	var count int64
	err := r.db.Model(&model.Heart{}).
		Where("user_id = ? AND store_id = ?", userID, storeID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// AddHeart inserts a heart row. (user_id, store_id) 유니크 인덱스가
// 재시도/경합 상황에서도 중복 삽입을 막아 집합 add 의미를 보장함
func (r *userRepository) AddHeart(userID, storeID uint) error {
	heart := &model.Heart{
		UserID:  userID,
		StoreID: storeID,
	}

	if err := r.db.Create(heart).Error; err != nil {
		logger.Error("Failed to add heart", err, map[string]interface{}{
			"user_id":  userID,
			"store_id": storeID,
		})
		return err
	}

	logger.Debug("Heart added", map[string]interface{}{
		"user_id":  userID,
		"store_id": storeID,
	})
	return nil
}

// RemoveHeart deletes the heart row (set pull; no-op when absent)
func (r *userRepository) RemoveHeart(userID, storeID uint) error {
	err := r.db.Unscoped().
		Where("user_id = ? AND store_id = ?", userID, storeID).
		Delete(&model.Heart{}).Error
	if err != nil {
		logger.Error("Failed to remove heart", err, map[string]interface{}{
			"user_id":  userID,
			"store_id": storeID,
		})
		return err
	}

	logger.Debug("Heart removed", map[string]interface{}{
		"user_id":  userID,
		"store_id": storeID,
	})
	return nil
}
