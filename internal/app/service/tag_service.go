package service

import (
	"github.com/jyhwang/matzip-backend/internal/app/model"
	"github.com/jyhwang/matzip-backend/internal/app/repository"
	"github.com/jyhwang/matzip-backend/pkg/logger"
)

// TagFacetResult 태그 facet 응답: 전체 태그 목록 + 필터된 매장 목록
type TagFacetResult struct {
	Tags   []repository.TagCount `json:"tags"`
	Stores []model.Store         `json:"stores"`
}

type TagService interface {
	ListTagsAndStores(tag string) (*TagFacetResult, error)
}

type tagService struct {
	storeRepo repository.StoreRepository
}

func NewTagService(storeRepo repository.StoreRepository) TagService {
	return &tagService{storeRepo: storeRepo}
}

// ListTagsAndStores returns the distinct tag list and the stores matching
// the filter. tag가 비어 있으면 "태그가 하나라도 있는 매장"이 필터가 됨.
// 두 조회는 서로 의존성이 없으므로 동시에 실행하고 응답 경계에서만 합침
func (s *tagService) ListTagsAndStores(tag string) (*TagFacetResult, error) {
	logger.Debug("Listing tags and stores", map[string]interface{}{
		"tag": tag,
	})

	type tagsReply struct {
		tags []repository.TagCount
		err  error
	}
	type storesReply struct {
		stores []model.Store
		err    error
	}

	tagsCh := make(chan tagsReply, 1)
	storesCh := make(chan storesReply, 1)

	go func() {
		tags, err := s.storeRepo.ListTags()
		tagsCh <- tagsReply{tags: tags, err: err}
	}()

	go func() {
		var stores []model.Store
		var err error
		if tag == "" {
			stores, err = s.storeRepo.FindTagged()
		} else {
			stores, err = s.storeRepo.FindByTag(tag)
		}
		storesCh <- storesReply{stores: stores, err: err}
	}()

	tagsResult := <-tagsCh
	storesResult := <-storesCh

	if tagsResult.err != nil {
		logger.Error("Failed to list tags", tagsResult.err, nil)
		return nil, tagsResult.err
	}
	if storesResult.err != nil {
		logger.Error("Failed to list stores by tag", storesResult.err, map[string]interface{}{
			"tag": tag,
		})
		return nil, storesResult.err
	}

	logger.Info("Tags and stores listed", map[string]interface{}{
		"tag":         tag,
		"tag_count":   len(tagsResult.tags),
		"store_count": len(storesResult.stores),
	})

	return &TagFacetResult{
		Tags:   tagsResult.tags,
		Stores: storesResult.stores,
	}, nil
}
