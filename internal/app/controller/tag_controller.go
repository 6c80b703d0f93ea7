package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jyhwang/matzip-backend/internal/app/service"
	apperrors "github.com/jyhwang/matzip-backend/internal/errors"
	"github.com/jyhwang/matzip-backend/internal/middleware"
)

type TagController struct {
	tagService service.TagService
}

func NewTagController(tagService service.TagService) *TagController {
	return &TagController{tagService: tagService}
}

// ListTags 전체 태그 집계와 함께 태그별 매장 목록을 반환.
// 태그 파라미터가 없으면 매장 목록은 전체 매장
func (ctrl *TagController) ListTags(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	tag := c.Param("tag")

	result, err := ctrl.tagService.ListTagsAndStores(tag)
	if err != nil {
		log.Error("Tag facet query failed", err, map[string]interface{}{
			"tag": tag,
		})
		apperrors.InternalError(c, "태그 목록을 불러오지 못했습니다")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tag":    tag,
		"tags":   result.Tags,
		"stores": result.Stores,
	})
}
