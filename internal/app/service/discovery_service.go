package service

import (
	"errors"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/jyhwang/matzip-backend/config"
	"github.com/jyhwang/matzip-backend/internal/app/model"
	"github.com/jyhwang/matzip-backend/internal/app/repository"
	"github.com/jyhwang/matzip-backend/pkg/logger"
	"github.com/jyhwang/matzip-backend/pkg/util"
)

var ErrInvalidCoordinates = errors.New("위도/경도 값이 유효하지 않습니다")

// StoreSummary 주변 검색 응답 프로젝션
// slug, name, description, location, photo 외의 필드는 노출하지 않음
type StoreSummary struct {
	Slug        string          `json:"slug"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Location    *model.Location `json:"location"`
	Photo       string          `json:"photo"`
}

type DiscoveryService interface {
	SearchByText(query string) ([]model.Store, error)
	SearchNearby(lngParam, latParam string) ([]StoreSummary, error)
}

type discoveryService struct {
	storeRepo repository.StoreRepository
	cfg       config.SearchConfig
}

func NewDiscoveryService(storeRepo repository.StoreRepository, cfg config.SearchConfig) DiscoveryService {
	return &discoveryService{
		storeRepo: storeRepo,
		cfg:       cfg,
	}
}

// SearchByText returns stores matching the query, ranked by relevance and
// truncated to the configured limit. 점수가 같은 매장은 저장소 순서를 유지함
func (s *discoveryService) SearchByText(query string) ([]model.Store, error) {
	terms := strings.Fields(strings.ToLower(query))

	logger.Debug("Searching stores by text", map[string]interface{}{
		"query": query,
		"terms": len(terms),
	})

	candidates, err := s.storeRepo.SearchCandidates(terms)
	if err != nil {
		logger.Error("Failed to search stores by text", err, map[string]interface{}{
			"query": query,
		})
		return nil, err
	}

	scores := make(map[uint]int, len(candidates))
	for _, store := range candidates {
		scores[store.ID] = relevanceScore(&store, terms)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return scores[candidates[i].ID] > scores[candidates[j].ID]
	})

	if len(candidates) > s.cfg.TextLimit {
		candidates = candidates[:s.cfg.TextLimit]
	}

	logger.Info("Text search completed", map[string]interface{}{
		"query": query,
		"count": len(candidates),
	})
	return candidates, nil
}

// relevanceScore weighs name hits over description/tag hits, per term
func relevanceScore(store *model.Store, terms []string) int {
	name := strings.ToLower(store.Name)
	description := strings.ToLower(store.Description)

	score := 0
	for _, term := range terms {
		if strings.Contains(name, term) {
			score += 2
		}
		if strings.Contains(description, term) {
			score++
		}
		for _, tag := range store.Tags {
			if strings.Contains(strings.ToLower(tag), term) {
				score++
				break
			}
		}
	}
	return score
}

// SearchNearby returns the stores nearest to the given point within the
// configured radius, nearest first, projected to the summary field set.
func (s *discoveryService) SearchNearby(lngParam, latParam string) ([]StoreSummary, error) {
	lng, lat, err := parseCoordinates(lngParam, latParam)
	if err != nil {
		logger.Warn("Invalid nearby search coordinates", map[string]interface{}{
			"lng": lngParam,
			"lat": latParam,
		})
		return nil, err
	}

	candidates, err := s.storeRepo.FindLocated()
	if err != nil {
		logger.Error("Failed to fetch nearby candidates", err, nil)
		return nil, err
	}

	type scored struct {
		store    model.Store
		distance float64
	}

	within := make([]scored, 0, len(candidates))
	for _, store := range candidates {
		d := util.DistanceMeters(lat, lng, store.Location.Lat(), store.Location.Lng())
		if d <= s.cfg.NearbyRadiusM {
			within = append(within, scored{store: store, distance: d})
		}
	}

	sort.Slice(within, func(i, j int) bool {
		return within[i].distance < within[j].distance
	})

	if len(within) > s.cfg.NearbyLimit {
		within = within[:s.cfg.NearbyLimit]
	}

	summaries := make([]StoreSummary, len(within))
	for i, entry := range within {
		summaries[i] = StoreSummary{
			Slug:        entry.store.Slug,
			Name:        entry.store.Name,
			Description: entry.store.Description,
			Location:    entry.store.Location,
			Photo:       entry.store.Photo,
		}
	}

	logger.Info("Nearby search completed", map[string]interface{}{
		"lng":   lng,
		"lat":   lat,
		"count": len(summaries),
	})
	return summaries, nil
}

// parseCoordinates parses text parameters into a validated lng/lat pair.
// 파싱 실패나 NaN, 범위 밖 좌표는 조용히 검색하지 않고 거부함
func parseCoordinates(lngParam, latParam string) (float64, float64, error) {
	lng, err := strconv.ParseFloat(strings.TrimSpace(lngParam), 64)
	if err != nil {
		return 0, 0, ErrInvalidCoordinates
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(latParam), 64)
	if err != nil {
		return 0, 0, ErrInvalidCoordinates
	}

	if math.IsNaN(lng) || math.IsInf(lng, 0) || math.IsNaN(lat) || math.IsInf(lat, 0) {
		return 0, 0, ErrInvalidCoordinates
	}
	if lng < -180 || lng > 180 || lat < -90 || lat > 90 {
		return 0, 0, ErrInvalidCoordinates
	}

	return lng, lat, nil
}
