package repository

import (
	"sort"
	"strings"

	"github.com/jyhwang/matzip-backend/internal/app/model"
	"github.com/jyhwang/matzip-backend/pkg/logger"
	"gorm.io/gorm"
)

// TagCount 태그 facet 항목 (태그명 + 사용 매장 수)
type TagCount struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

// TopStoreRow 랭킹 집계 결과 행 (매장 프로젝션 + 평균 평점)
type TopStoreRow struct {
	StoreID       uint    `json:"store_id"`
	Slug          string  `json:"slug"`
	Name          string  `json:"name"`
	Photo         string  `json:"photo"`
	AverageRating float64 `json:"average_rating"`
	ReviewCount   int64   `json:"review_count"`
}

type StoreRepository interface {
	Create(store *model.Store) error
	BulkCreate(stores []model.Store, batchSize int) error
	Update(store *model.Store) error
	FindByID(id uint) (*model.Store, error)
	FindBySlug(slug string) (*model.Store, error)
	FindAll(limit, offset int) ([]model.Store, error)
	FindByIDs(ids []uint) ([]model.Store, error)
	SearchCandidates(terms []string) ([]model.Store, error)
	FindLocated() ([]model.Store, error)
	ListTags() ([]TagCount, error)
	FindByTag(tag string) ([]model.Store, error)
	FindTagged() ([]model.Store, error)
	TopStores(minReviews, limit int) ([]TopStoreRow, error)
	ListPhotos() ([]string, error)
}

type storeRepository struct {
	db *gorm.DB
}

func NewStoreRepository(db *gorm.DB) StoreRepository {
	return &storeRepository{db: db}
}

func (r *storeRepository) Create(store *model.Store) error {
	logger.Debug("Creating store in database", map[string]interface{}{
		"name":      store.Name,
		"author_id": store.AuthorID,
	})

	if err := r.db.Create(store).Error; err != nil {
		logger.Error("Failed to create store in database", err, map[string]interface{}{
			"name":      store.Name,
			"author_id": store.AuthorID,
		})
		return err
	}

	logger.Debug("Store created in database", map[string]interface{}{
		"store_id": store.ID,
		"slug":     store.Slug,
	})
	return nil
}

// BulkCreate 시드 임포트용 배치 삽입. slug는 BeforeCreate 훅이 행마다 생성
func (r *storeRepository) BulkCreate(stores []model.Store, batchSize int) error {
	if len(stores) == 0 {
		return nil
	}

	if err := r.db.CreateInBatches(stores, batchSize).Error; err != nil {
		logger.Error("Failed to bulk create stores", err, map[string]interface{}{
			"count": len(stores),
		})
		return err
	}

	logger.Info("Bulk created stores", map[string]interface{}{
		"count": len(stores),
	})
	return nil
}

func (r *storeRepository) Update(store *model.Store) error {
	logger.Debug("Updating store in database", map[string]interface{}{
		"store_id": store.ID,
		"name":     store.Name,
	})

	if err := r.db.Save(store).Error; err != nil {
		logger.Error("Failed to update store in database", err, map[string]interface{}{
			"store_id": store.ID,
		})
		return err
	}

	logger.Debug("Store updated in database", map[string]interface{}{
		"store_id": store.ID,
		"slug":     store.Slug,
	})
	return nil
}

func (r *storeRepository) FindByID(id uint) (*model.Store, error) {
	var store model.Store
	if err := r.db.First(&store, id).Error; err != nil {
		return nil, err
	}
	return &store, nil
}

// FindBySlug resolves a store by slug with its author and reviews eagerly loaded
func (r *storeRepository) FindBySlug(slug string) (*model.Store, error) {
	var store model.Store
	err := r.db.
		Preload("Author").
		Preload("Reviews").
		Preload("Reviews.Author").
		Where("slug = ?", slug).
		First(&store).Error
	if err != nil {
		return nil, err
	}
	return &store, nil
}

// FindAll returns stores in repository default (primary key) order.
// 호출 간 순서가 안정적이라는 보장은 없음. limit/offset이 0이면 무시됨
func (r *storeRepository) FindAll(limit, offset int) ([]model.Store, error) {
	query := r.db
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var stores []model.Store
	if err := query.Find(&stores).Error; err != nil {
		logger.Error("Failed to find stores", err, nil)
		return nil, err
	}
	return stores, nil
}

func (r *storeRepository) FindByIDs(ids []uint) ([]model.Store, error) {
	if len(ids) == 0 {
		return []model.Store{}, nil
	}

	var stores []model.Store
	if err := r.db.Where("id IN ?", ids).Find(&stores).Error; err != nil {
		logger.Error("Failed to find stores by IDs", err, map[string]interface{}{
			"count": len(ids),
		})
		return nil, err
	}
	return stores, nil
}

// SearchCandidates returns stores matching any of the given terms on
// name, description or tags. Relevance scoring happens in the service layer.
func (r *storeRepository) SearchCandidates(terms []string) ([]model.Store, error) {
	if len(terms) == 0 {
		return []model.Store{}, nil
	}

	conds := make([]string, 0, len(terms))
	args := make([]interface{}, 0, len(terms)*3)
	for _, term := range terms {
		like := "%" + strings.ToLower(term) + "%"
		conds = append(conds, "(LOWER(name) LIKE ? OR LOWER(description) LIKE ? OR LOWER(tags) LIKE ?)")
		args = append(args, like, like, like)
	}

	var stores []model.Store
	if err := r.db.Where(strings.Join(conds, " OR "), args...).Find(&stores).Error; err != nil {
		logger.Error("Failed to search store candidates", err, map[string]interface{}{
			"terms": terms,
		})
		return nil, err
	}
	return stores, nil
}

// FindLocated returns all stores that carry a location point
func (r *storeRepository) FindLocated() ([]model.Store, error) {
	var stores []model.Store
	if err := r.db.Where("location IS NOT NULL").Find(&stores).Error; err != nil {
		logger.Error("Failed to find located stores", err, nil)
		return nil, err
	}
	return stores, nil
}

// ListTags returns the distinct tags in use with their usage counts.
// 태그는 JSON 텍스트 컬럼이라 행을 읽어 Go에서 집계함
// (Postgres jsonb 연산자는 sqlite 테스트 DB에서 동작하지 않음)
func (r *storeRepository) ListTags() ([]TagCount, error) {
	var rows []model.Store
	if err := r.db.Select("tags").Where("tags IS NOT NULL").Find(&rows).Error; err != nil {
		logger.Error("Failed to list store tags", err, nil)
		return nil, err
	}

	counts := make(map[string]int)
	for _, row := range rows {
		for _, tag := range row.Tags {
			counts[tag]++
		}
	}

	tags := make([]TagCount, 0, len(counts))
	for tag, count := range counts {
		tags = append(tags, TagCount{Tag: tag, Count: count})
	}
	sort.Slice(tags, func(i, j int) bool {
		if tags[i].Count != tags[j].Count {
			return tags[i].Count > tags[j].Count
		}
		return tags[i].Tag < tags[j].Tag
	})

	return tags, nil
}

// FindByTag returns stores whose tag set contains the exact tag
func (r *storeRepository) FindByTag(tag string) ([]model.Store, error) {
	// JSON 인코딩된 배열에서 따옴표 포함 LIKE로 후보를 좁히고
	// 정확한 멤버십은 Go에서 재확인
	like := "%" + `"` + tag + `"` + "%"

	var candidates []model.Store
	if err := r.db.Where("tags LIKE ?", like).Find(&candidates).Error; err != nil {
		logger.Error("Failed to find stores by tag", err, map[string]interface{}{
			"tag": tag,
		})
		return nil, err
	}

	stores := make([]model.Store, 0, len(candidates))
	for _, store := range candidates {
		for _, t := range store.Tags {
			if t == tag {
				stores = append(stores, store)
				break
			}
		}
	}
	return stores, nil
}

// FindTagged returns stores that carry at least one tag
func (r *storeRepository) FindTagged() ([]model.Store, error) {
	var candidates []model.Store
	err := r.db.
		Where("tags IS NOT NULL AND tags != ? AND tags != ?", "[]", "null").
		Find(&candidates).Error
	if err != nil {
		logger.Error("Failed to find tagged stores", err, nil)
		return nil, err
	}

	stores := make([]model.Store, 0, len(candidates))
	for _, store := range candidates {
		if len(store.Tags) > 0 {
			stores = append(stores, store)
		}
	}
	return stores, nil
}

// TopStores joins stores to their reviews and ranks them by average rating.
// 리뷰가 minReviews개 미만인 매장은 결과에서 제외됨 (리뷰 0개 매장 포함)
func (r *storeRepository) TopStores(minReviews, limit int) ([]TopStoreRow, error) {
	logger.Debug("Aggregating top stores", map[string]interface{}{
		"min_reviews": minReviews,
		"limit":       limit,
	})

	query := r.db.Table("stores").
		Select("stores.id AS store_id, stores.slug, stores.name, stores.photo, AVG(reviews.rating) AS average_rating, COUNT(reviews.id) AS review_count").
		Joins("JOIN reviews ON reviews.store_id = stores.id AND reviews.deleted_at IS NULL").
		Where("stores.deleted_at IS NULL").
		Group("stores.id, stores.slug, stores.name, stores.photo").
		Having("COUNT(reviews.id) >= ?", minReviews).
		Order("average_rating DESC, review_count DESC, stores.id ASC")

	if limit > 0 {
		query = query.Limit(limit)
	}

	var rows []TopStoreRow
	if err := query.Scan(&rows).Error; err != nil {
		logger.Error("Failed to aggregate top stores", err, map[string]interface{}{
			"min_reviews": minReviews,
		})
		return nil, err
	}

	logger.Debug("Top stores aggregated", map[string]interface{}{
		"count": len(rows),
	})
	return rows, nil
}

// ListPhotos returns every photo filename currently referenced by a store
func (r *storeRepository) ListPhotos() ([]string, error) {
	var photos []string
	err := r.db.Model(&model.Store{}).
		Where("photo != ''").
		Pluck("photo", &photos).Error
	if err != nil {
		logger.Error("Failed to list store photos", err, nil)
		return nil, err
	}
	return photos, nil
}
