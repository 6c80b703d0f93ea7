package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jyhwang/matzip-backend/internal/app/service"
	apperrors "github.com/jyhwang/matzip-backend/internal/errors"
	"github.com/jyhwang/matzip-backend/internal/middleware"
)

type SearchController struct {
	discoveryService service.DiscoveryService
}

func NewSearchController(discoveryService service.DiscoveryService) *SearchController {
	return &SearchController{discoveryService: discoveryService}
}

// SearchStores 텍스트 검색. 빈 질의는 빈 결과
func (ctrl *SearchController) SearchStores(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	query := c.Query("q")

	stores, err := ctrl.discoveryService.SearchByText(query)
	if err != nil {
		log.Error("Text search failed", err, map[string]interface{}{
			"query": query,
		})
		apperrors.InternalError(c, "검색 중 오류가 발생했습니다")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"stores": stores,
		"count":  len(stores),
	})
}

// SearchNearby 좌표 기준 근접 검색. lng/lat 쿼리 파라미터 필수
func (ctrl *SearchController) SearchNearby(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	stores, err := ctrl.discoveryService.SearchNearby(c.Query("lng"), c.Query("lat"))
	if err != nil {
		if errors.Is(err, service.ErrInvalidCoordinates) {
			apperrors.BadRequest(c, apperrors.SearchInvalidCoordinates, "위도/경도 값이 유효하지 않습니다")
			return
		}
		log.Error("Nearby search failed", err, map[string]interface{}{
			"lng": c.Query("lng"),
			"lat": c.Query("lat"),
		})
		apperrors.InternalError(c, "검색 중 오류가 발생했습니다")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"stores": stores,
		"count":  len(stores),
	})
}
