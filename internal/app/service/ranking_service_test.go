package service

import (
	"testing"

	"github.com/jyhwang/matzip-backend/config"
	"github.com/jyhwang/matzip-backend/internal/app/model"
	"github.com/jyhwang/matzip-backend/internal/app/repository"
	"github.com/jyhwang/matzip-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupRankingTest(t *testing.T, cfg config.RankingConfig) (*gorm.DB, RankingService) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)

	repo := repository.NewStoreRepository(testDB)
	return testDB, NewRankingService(repo, cfg)
}

func seedRatedStores(t *testing.T, testDB *gorm.DB) (*model.Store, *model.Store, *model.Store) {
	user := createServiceTestUser(t, testDB, "owner@example.com")

	good := &model.Store{AuthorID: user.ID, Name: "Good"}
	better := &model.Store{AuthorID: user.ID, Name: "Better"}
	single := &model.Store{AuthorID: user.ID, Name: "Single"}
	require.NoError(t, testDB.Create(good).Error)
	require.NoError(t, testDB.Create(better).Error)
	require.NoError(t, testDB.Create(single).Error)

	reviews := []model.Review{
		{StoreID: good.ID, AuthorID: user.ID, Rating: 3},
		{StoreID: good.ID, AuthorID: user.ID, Rating: 4},
		{StoreID: better.ID, AuthorID: user.ID, Rating: 5},
		{StoreID: better.ID, AuthorID: user.ID, Rating: 4},
		{StoreID: single.ID, AuthorID: user.ID, Rating: 5},
	}
	for i := range reviews {
		require.NoError(t, testDB.Create(&reviews[i]).Error)
	}

	return good, better, single
}

func TestRankingService_TopStores(t *testing.T) {
	testDB, svc := setupRankingTest(t, config.RankingConfig{MinReviews: 1, Limit: 10})
	defer db.CleanupTestDB(testDB)

	good, better, single := seedRatedStores(t, testDB)

	rows, err := svc.TopStores(0)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	// 평균 평점 내림차순
	assert.Equal(t, single.ID, rows[0].StoreID)
	assert.Equal(t, better.ID, rows[1].StoreID)
	assert.Equal(t, good.ID, rows[2].StoreID)
}

func TestRankingService_TopStores_MinReviewsOverride(t *testing.T) {
	testDB, svc := setupRankingTest(t, config.RankingConfig{MinReviews: 1, Limit: 10})
	defer db.CleanupTestDB(testDB)

	good, better, _ := seedRatedStores(t, testDB)

	rows, err := svc.TopStores(2)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, better.ID, rows[0].StoreID)
	assert.Equal(t, good.ID, rows[1].StoreID)
}

func TestRankingService_TopStores_Limit(t *testing.T) {
	testDB, svc := setupRankingTest(t, config.RankingConfig{MinReviews: 1, Limit: 2})
	defer db.CleanupTestDB(testDB)

	seedRatedStores(t, testDB)

	rows, err := svc.TopStores(0)
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}
