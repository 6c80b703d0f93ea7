package service

import (
	"errors"

	"github.com/jyhwang/matzip-backend/internal/app/model"
	"github.com/jyhwang/matzip-backend/internal/app/repository"
	"github.com/jyhwang/matzip-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrStoreNotFound     = errors.New("매장을 찾을 수 없습니다")
	ErrStoreAccessDenied = errors.New("매장을 수정하려면 소유자여야 합니다")
	ErrUserNotFound      = errors.New("사용자를 찾을 수 없습니다")
)

// ValidationError 필드별 검증 실패 상세
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return "입력값이 올바르지 않습니다"
}

// CreateStoreInput 매장 생성 허용 필드
// author는 입력에서 받지 않고 인증된 호출자로 강제됨
type CreateStoreInput struct {
	Name        string
	Description string
	Tags        []string
	Location    *model.Location
	Photo       string
	PhotoBlur   string
}

// UpdateStoreInput 매장 부분 수정 허용 필드 (nil = 변경 없음)
type UpdateStoreInput struct {
	Name        *string
	Description *string
	Tags        []string
	Location    *model.Location
	Photo       *string
	PhotoBlur   *string
}

type StoreService interface {
	CreateStore(authorID uint, input CreateStoreInput) (*model.Store, error)
	GetStoreByID(id uint) (*model.Store, error)
	GetStoreBySlug(slug string) (*model.Store, error)
	UpdateStore(callerID, storeID uint, input UpdateStoreInput) (*model.Store, error)
	ListStores(limit, offset int) ([]model.Store, error)
}

type storeService struct {
	storeRepo repository.StoreRepository
}

func NewStoreService(storeRepo repository.StoreRepository) StoreService {
	return &storeService{storeRepo: storeRepo}
}

// confirmOwner는 매장 수정 권한 검사 (작성자만 수정 가능)
func confirmOwner(store *model.Store, userID uint) error {
	if store.AuthorID != userID {
		return ErrStoreAccessDenied
	}
	return nil
}

// validateStore는 스키마 제약을 검사합니다 (생성/수정 공통)
func validateStore(store *model.Store) error {
	fields := make(map[string]string)

	if store.Name == "" {
		fields["name"] = "매장명은 필수 항목입니다"
	}
	if store.Location != nil && !store.Location.Valid() {
		fields["location"] = "위도/경도 값이 유효하지 않습니다"
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

func (s *storeService) CreateStore(authorID uint, input CreateStoreInput) (*model.Store, error) {
	logger.Info("Creating store", map[string]interface{}{
		"name":      input.Name,
		"author_id": authorID,
	})

	store := &model.Store{
		AuthorID:    authorID, // 입력 페이로드와 무관하게 호출자로 고정
		Name:        input.Name,
		Description: input.Description,
		Tags:        input.Tags,
		Location:    input.Location,
		Photo:       input.Photo,
		PhotoBlur:   input.PhotoBlur,
	}

	if err := validateStore(store); err != nil {
		return nil, err
	}

	if err := s.storeRepo.Create(store); err != nil {
		logger.Error("Failed to create store", err, map[string]interface{}{
			"name": input.Name,
		})
		return nil, err
	}

	logger.Info("Store created", map[string]interface{}{
		"store_id": store.ID,
		"slug":     store.Slug,
	})
	return store, nil
}

func (s *storeService) GetStoreByID(id uint) (*model.Store, error) {
	store, err := s.storeRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStoreNotFound
		}
		logger.Error("Failed to fetch store", err, map[string]interface{}{
			"store_id": id,
		})
		return nil, err
	}
	return store, nil
}

// GetStoreBySlug resolves a store with author and reviews attached.
// 없는 slug는 ErrStoreNotFound 신호로 반환되어 호출자가 404 경로로 분기함
func (s *storeService) GetStoreBySlug(slug string) (*model.Store, error) {
	store, err := s.storeRepo.FindBySlug(slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Debug("Store not found by slug", map[string]interface{}{
				"slug": slug,
			})
			return nil, ErrStoreNotFound
		}
		logger.Error("Failed to fetch store by slug", err, map[string]interface{}{
			"slug": slug,
		})
		return nil, err
	}
	return store, nil
}

func (s *storeService) UpdateStore(callerID, storeID uint, input UpdateStoreInput) (*model.Store, error) {
	logger.Info("Updating store", map[string]interface{}{
		"store_id":  storeID,
		"caller_id": callerID,
	})

	store, err := s.storeRepo.FindByID(storeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStoreNotFound
		}
		return nil, err
	}

	// 소유자 검사: 모든 수정 경로는 이 검사를 통과해야 함
	if err := confirmOwner(store, callerID); err != nil {
		logger.Warn("Store update denied", map[string]interface{}{
			"store_id":  storeID,
			"caller_id": callerID,
			"author_id": store.AuthorID,
		})
		return nil, err
	}

	if input.Name != nil {
		store.Name = *input.Name
	}
	if input.Description != nil {
		store.Description = *input.Description
	}
	if input.Tags != nil {
		store.Tags = input.Tags
	}
	if input.Location != nil {
		// 지오메트리 타입은 무조건 Point로 정규화
		store.Location = model.NewLocation(input.Location.Lng(), input.Location.Lat())
	}
	if input.Photo != nil {
		store.Photo = *input.Photo
	}
	if input.PhotoBlur != nil {
		store.PhotoBlur = *input.PhotoBlur
	}

	// 수정 시에도 스키마 제약 재검사
	if err := validateStore(store); err != nil {
		return nil, err
	}

	if err := s.storeRepo.Update(store); err != nil {
		logger.Error("Failed to update store", err, map[string]interface{}{
			"store_id": storeID,
		})
		return nil, err
	}

	logger.Info("Store updated", map[string]interface{}{
		"store_id": store.ID,
		"slug":     store.Slug,
	})
	return store, nil
}

func (s *storeService) ListStores(limit, offset int) ([]model.Store, error) {
	stores, err := s.storeRepo.FindAll(limit, offset)
	if err != nil {
		logger.Error("Failed to list stores", err, nil)
		return nil, err
	}

	logger.Debug("Stores listed", map[string]interface{}{
		"count":  len(stores),
		"limit":  limit,
		"offset": offset,
	})
	return stores, nil
}
