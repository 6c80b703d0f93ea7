package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jyhwang/matzip-backend/internal/app/service"
	apperrors "github.com/jyhwang/matzip-backend/internal/errors"
	"github.com/jyhwang/matzip-backend/internal/middleware"
)

type HeartController struct {
	heartService service.HeartService
}

func NewHeartController(heartService service.HeartService) *HeartController {
	return &HeartController{heartService: heartService}
}

// ToggleHeart 찜 토글. 응답은 토글 반영 후의 찜 목록을 포함한 사용자
func (ctrl *HeartController) ToggleHeart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	storeID, ok := parseIDParam(c)
	if !ok {
		return
	}

	user, err := ctrl.heartService.ToggleHeart(userID, storeID)
	if err != nil {
		if errors.Is(err, service.ErrStoreNotFound) {
			apperrors.NotFound(c, apperrors.StoreNotFound, "매장을 찾을 수 없습니다")
			return
		}
		log.Error("Failed to toggle heart", err, map[string]interface{}{
			"user_id":  userID,
			"store_id": storeID,
		})
		apperrors.RespondWithParsedError(c, err, "heart toggle")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"hearts": user.Hearts,
		"count":  len(user.Hearts),
	})
}

func (ctrl *HeartController) ListHeartedStores(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	stores, err := ctrl.heartService.GetHeartedStores(userID)
	if err != nil {
		log.Error("Failed to list hearted stores", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.InternalError(c, "찜한 매장을 불러오지 못했습니다")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"stores": stores,
		"count":  len(stores),
	})
}
