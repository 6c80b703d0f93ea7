package service

import (
	"testing"

	"github.com/jyhwang/matzip-backend/internal/app/model"
	"github.com/jyhwang/matzip-backend/internal/app/repository"
	"github.com/jyhwang/matzip-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupTagTest(t *testing.T) (*gorm.DB, TagService) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)

	repo := repository.NewStoreRepository(testDB)
	return testDB, NewTagService(repo)
}

func seedTaggedStores(t *testing.T, testDB *gorm.DB) {
	user := createServiceTestUser(t, testDB, "owner@example.com")

	stores := []model.Store{
		{AuthorID: user.ID, Name: "A", Tags: model.StringArray{"coffee", "wifi"}},
		{AuthorID: user.ID, Name: "B", Tags: model.StringArray{"coffee"}},
		{AuthorID: user.ID, Name: "C", Tags: model.StringArray{"beer"}},
		{AuthorID: user.ID, Name: "D"},
	}
	for i := range stores {
		require.NoError(t, testDB.Create(&stores[i]).Error)
	}
}

func TestTagService_ListTagsAndStores_WithTag(t *testing.T) {
	testDB, svc := setupTagTest(t)
	defer db.CleanupTestDB(testDB)

	seedTaggedStores(t, testDB)

	result, err := svc.ListTagsAndStores("coffee")
	require.NoError(t, err)

	// 집계는 전체 태그 기준
	require.Len(t, result.Tags, 3)
	assert.Equal(t, "coffee", result.Tags[0].Tag)
	assert.Equal(t, 2, result.Tags[0].Count)

	// 매장 목록은 해당 태그만
	require.Len(t, result.Stores, 2)
	for _, store := range result.Stores {
		assert.Contains(t, store.Tags, "coffee")
	}
}

func TestTagService_ListTagsAndStores_WithoutTag(t *testing.T) {
	testDB, svc := setupTagTest(t)
	defer db.CleanupTestDB(testDB)

	seedTaggedStores(t, testDB)

	result, err := svc.ListTagsAndStores("")
	require.NoError(t, err)

	require.Len(t, result.Tags, 3)
	// 태그 미지정이면 태그가 하나라도 있는 매장 전체
	assert.Len(t, result.Stores, 3)
}

func TestTagService_ListTagsAndStores_UnknownTag(t *testing.T) {
	testDB, svc := setupTagTest(t)
	defer db.CleanupTestDB(testDB)

	seedTaggedStores(t, testDB)

	result, err := svc.ListTagsAndStores("nope")
	require.NoError(t, err)

	require.Len(t, result.Tags, 3)
	assert.Empty(t, result.Stores)
}
