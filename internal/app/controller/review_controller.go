package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jyhwang/matzip-backend/internal/app/service"
	apperrors "github.com/jyhwang/matzip-backend/internal/errors"
	"github.com/jyhwang/matzip-backend/internal/middleware"
)

type ReviewController struct {
	reviewService service.ReviewService
}

func NewReviewController(reviewService service.ReviewService) *ReviewController {
	return &ReviewController{reviewService: reviewService}
}

type createReviewRequest struct {
	Rating int    `json:"rating" binding:"required"`
	Text   string `json:"text"`
}

func (ctrl *ReviewController) CreateReview(c *gin.Context) {
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

	var req createReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "요청 본문이 올바르지 않습니다")
		return
	}

	review, err := ctrl.reviewService.CreateReview(userID, storeID, req.Rating, req.Text)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrStoreNotFound):
			apperrors.NotFound(c, apperrors.StoreNotFound, "매장을 찾을 수 없습니다")
		case errors.Is(err, service.ErrInvalidRating):
			apperrors.BadRequest(c, apperrors.ValidationInvalidRange, "평점은 1에서 5 사이여야 합니다")
		default:
			log.Error("Failed to create review", err, map[string]interface{}{
				"user_id":  userID,
				"store_id": storeID,
			})
			apperrors.RespondWithParsedError(c, err, "review create")
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"review": review})
}

func (ctrl *ReviewController) ListStoreReviews(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	storeID, ok := parseIDParam(c)
	if !ok {
		return
	}

	reviews, err := ctrl.reviewService.GetStoreReviews(storeID)
	if err != nil {
		if errors.Is(err, service.ErrStoreNotFound) {
			apperrors.NotFound(c, apperrors.StoreNotFound, "매장을 찾을 수 없습니다")
			return
		}
		log.Error("Failed to list reviews", err, map[string]interface{}{
			"store_id": storeID,
		})
		apperrors.InternalError(c, "리뷰를 불러오지 못했습니다")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"reviews": reviews,
		"count":   len(reviews),
	})
}
