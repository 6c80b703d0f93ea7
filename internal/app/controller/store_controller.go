package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jyhwang/matzip-backend/internal/app/model"
	"github.com/jyhwang/matzip-backend/internal/app/service"
	apperrors "github.com/jyhwang/matzip-backend/internal/errors"
	"github.com/jyhwang/matzip-backend/internal/middleware"
	"github.com/jyhwang/matzip-backend/internal/storage"
)

type StoreController struct {
	storeService   service.StoreService
	photoProcessor *storage.PhotoProcessor
}

func NewStoreController(storeService service.StoreService, photoProcessor *storage.PhotoProcessor) *StoreController {
	return &StoreController{
		storeService:   storeService,
		photoProcessor: photoProcessor,
	}
}

func (ctrl *StoreController) ListStores(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	stores, err := ctrl.storeService.ListStores(limit, offset)
	if err != nil {
		log.Error("Failed to list stores", err, nil)
		apperrors.InternalError(c, "매장 목록을 불러오지 못했습니다")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"stores": stores,
		"count":  len(stores),
	})
}

func (ctrl *StoreController) GetStoreByID(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	store, err := ctrl.storeService.GetStoreByID(id)
	if err != nil {
		if errors.Is(err, service.ErrStoreNotFound) {
			apperrors.NotFound(c, apperrors.StoreNotFound, "매장을 찾을 수 없습니다")
			return
		}
		log.Error("Failed to fetch store", err, map[string]interface{}{
			"store_id": id,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{"store": store})
}

// GetStoreBySlug resolves a store detail page payload with author and reviews
func (ctrl *StoreController) GetStoreBySlug(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	slug := c.Param("slug")

	store, err := ctrl.storeService.GetStoreBySlug(slug)
	if err != nil {
		if errors.Is(err, service.ErrStoreNotFound) {
			// 없는 slug는 에러가 아니라 404 경로로 빠짐
			apperrors.NotFound(c, apperrors.StoreNotFound, "매장을 찾을 수 없습니다")
			return
		}
		log.Error("Failed to fetch store by slug", err, map[string]interface{}{
			"slug": slug,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{"store": store})
}

func (ctrl *StoreController) CreateStore(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	input := service.CreateStoreInput{
		Name:        c.PostForm("name"),
		Description: c.PostForm("description"),
		Tags:        c.PostFormArray("tags"),
	}

	location, ok := locationFromForm(c)
	if !ok {
		return
	}
	input.Location = location

	// 사진 파이프라인은 저장소 변경 전에 실행되는 선행 단계.
	// 파이프라인이 실패하면 매장 생성은 진행되지 않음
	photo, ok := ctrl.processPhoto(c)
	if !ok {
		return
	}
	if photo != nil {
		input.Photo = photo.Filename
		input.PhotoBlur = photo.BlurHash
	}

	store, err := ctrl.storeService.CreateStore(userID, input)
	if err != nil {
		var validationErr *service.ValidationError
		if errors.As(err, &validationErr) {
			apperrors.RespondWithValidationError(c, validationErr.Fields)
			return
		}
		log.Error("Failed to create store", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.RespondWithParsedError(c, err, "store create")
		return
	}

	log.Info("Store created", map[string]interface{}{
		"store_id": store.ID,
		"slug":     store.Slug,
	})

	response := gin.H{"store": store}
	if photo != nil {
		response["photo_url"] = photo.URL
	}
	c.JSON(http.StatusCreated, response)
}

func (ctrl *StoreController) UpdateStore(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var input service.UpdateStoreInput
	if name, present := c.GetPostForm("name"); present {
		input.Name = &name
	}
	if description, present := c.GetPostForm("description"); present {
		input.Description = &description
	}
	if tags, present := c.GetPostFormArray("tags"); present {
		input.Tags = tags
	}

	location, ok := locationFromForm(c)
	if !ok {
		return
	}
	input.Location = location

	photo, ok := ctrl.processPhoto(c)
	if !ok {
		return
	}
	if photo != nil {
		input.Photo = &photo.Filename
		input.PhotoBlur = &photo.BlurHash
	}

	store, err := ctrl.storeService.UpdateStore(userID, id, input)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrStoreNotFound):
			apperrors.NotFound(c, apperrors.StoreNotFound, "매장을 찾을 수 없습니다")
		case errors.Is(err, service.ErrStoreAccessDenied):
			apperrors.RespondWithError(c, http.StatusForbidden, apperrors.AuthzOwnerOnly, "매장을 수정하려면 소유자여야 합니다")
		default:
			var validationErr *service.ValidationError
			if errors.As(err, &validationErr) {
				apperrors.RespondWithValidationError(c, validationErr.Fields)
				return
			}
			log.Error("Failed to update store", err, map[string]interface{}{
				"store_id": id,
			})
			apperrors.RespondWithParsedError(c, err, "store update")
		}
		return
	}

	response := gin.H{"store": store}
	if photo != nil {
		response["photo_url"] = photo.URL
	}
	c.JSON(http.StatusOK, response)
}

// processPhoto runs the upload pipeline for an optional "photo" form file.
// 반환값 ok=false이면 이미 에러 응답이 전송된 상태
func (ctrl *StoreController) processPhoto(c *gin.Context) (*storage.ProcessedPhoto, bool) {
	log := middleware.GetLoggerFromContext(c)

	file, err := c.FormFile("photo")
	if err != nil {
		// 업로드가 없으면 파이프라인은 no-op
		return nil, true
	}

	photo, err := ctrl.photoProcessor.Process(c.Request.Context(), file)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrUnsupportedPhotoType):
			apperrors.UnsupportedMediaType(c, "JPEG 이미지만 업로드할 수 있습니다")
		case errors.Is(err, storage.ErrPhotoTooLarge):
			apperrors.BadRequest(c, apperrors.UploadFileTooLarge, "사진 용량이 허용치를 초과했습니다")
		default:
			log.Error("Photo pipeline failed", err, map[string]interface{}{
				"filename": file.Filename,
			})
			apperrors.RespondWithError(c, http.StatusInternalServerError, apperrors.UploadFailed, "사진 업로드에 실패했습니다")
		}
		return nil, false
	}

	return photo, true
}

// locationFromForm builds a location from lng/lat form fields.
// location_type은 받기는 하지만 저장 시 Point로 정규화됨
func locationFromForm(c *gin.Context) (*model.Location, bool) {
	lngStr, hasLng := c.GetPostForm("lng")
	latStr, hasLat := c.GetPostForm("lat")
	if !hasLng && !hasLat {
		return nil, true
	}
	if !hasLng || !hasLat {
		apperrors.RespondWithValidationError(c, map[string]string{
			"location": "경도와 위도를 함께 입력해야 합니다",
		})
		return nil, false
	}

	lng, lngErr := strconv.ParseFloat(lngStr, 64)
	lat, latErr := strconv.ParseFloat(latStr, 64)
	if lngErr != nil || latErr != nil {
		apperrors.RespondWithValidationError(c, map[string]string{
			"location": "위도/경도 값이 유효하지 않습니다",
		})
		return nil, false
	}

	location := model.NewLocation(lng, lat)
	if locationType, present := c.GetPostForm("location_type"); present {
		location.Type = locationType
	}
	return location, true
}

func parseIDParam(c *gin.Context) (uint, bool) {
	idStr := c.Param("id")
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "잘못된 매장 ID입니다")
		return 0, false
	}
	return uint(id), true
}
