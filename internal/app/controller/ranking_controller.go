package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jyhwang/matzip-backend/internal/app/service"
	apperrors "github.com/jyhwang/matzip-backend/internal/errors"
	"github.com/jyhwang/matzip-backend/internal/middleware"
)

type RankingController struct {
	rankingService service.RankingService
}

func NewRankingController(rankingService service.RankingService) *RankingController {
	return &RankingController{rankingService: rankingService}
}

// TopStores 평균 평점 순위. min_reviews 쿼리로 집계 최소 리뷰 수 조정 가능
func (ctrl *RankingController) TopStores(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	minReviews := 0
	if raw := c.Query("min_reviews"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "min_reviews 값이 올바르지 않습니다")
			return
		}
		minReviews = parsed
	}

	rows, err := ctrl.rankingService.TopStores(minReviews)
	if err != nil {
		log.Error("Failed to rank top stores", err, map[string]interface{}{
			"min_reviews": minReviews,
		})
		apperrors.InternalError(c, "랭킹을 불러오지 못했습니다")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"stores": rows,
		"count":  len(rows),
	})
}
