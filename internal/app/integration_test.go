package app

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jyhwang/matzip-backend/config"
	"github.com/jyhwang/matzip-backend/internal/app/controller"
	"github.com/jyhwang/matzip-backend/internal/app/repository"
	"github.com/jyhwang/matzip-backend/internal/app/service"
	"github.com/jyhwang/matzip-backend/internal/db"
	"github.com/jyhwang/matzip-backend/internal/middleware"
	"github.com/jyhwang/matzip-backend/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type TestServer struct {
	Router *gin.Engine
	DB     *gorm.DB
}

func setupIntegrationTest(t *testing.T) *TestServer {
	gin.SetMode(gin.TestMode)

	testDB, err := db.SetupTestDB()
	require.NoError(t, err)

	jwtCfg := config.JWTConfig{
		Secret:             "test-secret",
		AccessTokenExpiry:  15 * time.Minute,
		RefreshTokenExpiry: 7 * 24 * time.Hour,
	}
	searchCfg := config.SearchConfig{TextLimit: 5, NearbyLimit: 10, NearbyRadiusM: 20000}
	rankingCfg := config.RankingConfig{MinReviews: 1, Limit: 10}

	// Setup repositories
	userRepo := repository.NewUserRepository(testDB)
	storeRepo := repository.NewStoreRepository(testDB)
	reviewRepo := repository.NewReviewRepository(testDB)

	// Photo storage on a temp dir
	photoStorage, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	photoProcessor := storage.NewPhotoProcessor(photoStorage, 800, 10*1024*1024)

	// Setup services
	authService := service.NewAuthService(userRepo, jwtCfg)
	storeService := service.NewStoreService(storeRepo)
	discoveryService := service.NewDiscoveryService(storeRepo, searchCfg)
	tagService := service.NewTagService(storeRepo)
	heartService := service.NewHeartService(userRepo, storeRepo)
	reviewService := service.NewReviewService(reviewRepo, storeRepo)
	rankingService := service.NewRankingService(storeRepo, rankingCfg)

	// Setup controllers
	authController := controller.NewAuthController(authService, jwtCfg)
	storeController := controller.NewStoreController(storeService, photoProcessor)
	searchController := controller.NewSearchController(discoveryService)
	tagController := controller.NewTagController(tagService)
	heartController := controller.NewHeartController(heartService)
	reviewController := controller.NewReviewController(reviewService)
	rankingController := controller.NewRankingController(rankingService)

	// Setup middleware
	authMiddleware := middleware.NewAuthMiddleware("test-secret")

	// Setup router
	router := gin.New()

	auth := router.Group("/api/v1/auth")
	{
		auth.POST("/register", authController.Register)
		auth.POST("/login", authController.Login)
		auth.GET("/me", authMiddleware.Authenticate(), authController.GetMe)
	}

	stores := router.Group("/api/v1/stores")
	{
		stores.GET("", storeController.ListStores)
		stores.POST("", authMiddleware.Authenticate(), storeController.CreateStore)
		stores.GET("/:id", storeController.GetStoreByID)
		stores.PUT("/:id", authMiddleware.Authenticate(), storeController.UpdateStore)
		stores.GET("/:id/reviews", reviewController.ListStoreReviews)
		stores.POST("/:id/reviews", authMiddleware.Authenticate(), reviewController.CreateReview)
		stores.POST("/:id/heart", authMiddleware.Authenticate(), heartController.ToggleHeart)
	}
	router.GET("/api/v1/store/:slug", storeController.GetStoreBySlug)

	search := router.Group("/api/v1/search")
	{
		search.GET("", searchController.SearchStores)
		search.GET("/near", searchController.SearchNearby)
	}

	router.GET("/api/v1/tags", tagController.ListTags)
	router.GET("/api/v1/tags/:tag", tagController.ListTags)
	router.GET("/api/v1/top", rankingController.TopStores)
	router.GET("/api/v1/hearts", authMiddleware.Authenticate(), heartController.ListHeartedStores)

	return &TestServer{Router: router, DB: testDB}
}

func (ts *TestServer) registerAndLogin(t *testing.T, email string) string {
	body, _ := json.Marshal(map[string]string{
		"email":    email,
		"password": "password123",
		"name":     "통합 테스트 사용자",
	})
	req := httptest.NewRequest("POST", "/api/v1/auth/register", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	ts.Router.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	body, _ = json.Marshal(map[string]string{
		"email":    email,
		"password": "password123",
	})
	req = httptest.NewRequest("POST", "/api/v1/auth/login", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	ts.Router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var loginResp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &loginResp))
	return loginResp["access_token"].(string)
}

func storeForm(t *testing.T, fields map[string]string, tags []string) (*bytes.Buffer, string) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for key, value := range fields {
		require.NoError(t, writer.WriteField(key, value))
	}
	for _, tag := range tags {
		require.NoError(t, writer.WriteField("tags", tag))
	}
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func TestCompleteStoreJourney(t *testing.T) {
	ts := setupIntegrationTest(t)
	defer db.CleanupTestDB(ts.DB)

	// 1. Register and login
	t.Log("Step 1: Register and login")
	accessToken := ts.registerAndLogin(t, "owner@example.com")

	// 2. Create a store
	t.Log("Step 2: Create store")
	body, contentType := storeForm(t, map[string]string{
		"name":        "Cafe A",
		"description": "서울 시청 앞 카페",
		"lng":         "126.9780",
		"lat":         "37.5665",
	}, []string{"coffee", "wifi"})

	req := httptest.NewRequest("POST", "/api/v1/stores", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+accessToken)
	w := httptest.NewRecorder()
	ts.Router.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	var createResp struct {
		Store struct {
			ID   uint   `json:"id"`
			Slug string `json:"slug"`
		} `json:"store"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &createResp))
	assert.Equal(t, "cafe-a", createResp.Store.Slug)
	storeID := createResp.Store.ID

	// 3. Fetch detail page by slug
	t.Log("Step 3: Store detail by slug")
	req = httptest.NewRequest("GET", "/api/v1/store/cafe-a", nil)
	w = httptest.NewRecorder()
	ts.Router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	// 4. Toggle heart twice (on then off)
	t.Log("Step 4: Toggle heart")
	heartPath := fmt.Sprintf("/api/v1/stores/%d/heart", storeID)

	req = httptest.NewRequest("POST", heartPath, nil)
	req.Header.Set("Authorization", "Bearer "+accessToken)
	w = httptest.NewRecorder()
	ts.Router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var heartResp struct {
		Hearts []uint `json:"hearts"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &heartResp))
	assert.Equal(t, []uint{storeID}, heartResp.Hearts)

	req = httptest.NewRequest("POST", heartPath, nil)
	req.Header.Set("Authorization", "Bearer "+accessToken)
	w = httptest.NewRecorder()
	ts.Router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &heartResp))
	assert.Empty(t, heartResp.Hearts)

	// 5. Write a review
	t.Log("Step 5: Create review")
	reviewBody, _ := json.Marshal(map[string]interface{}{
		"rating": 5,
		"text":   "분위기 좋아요",
	})
	req = httptest.NewRequest("POST", fmt.Sprintf("/api/v1/stores/%d/reviews", storeID), bytes.NewBuffer(reviewBody))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+accessToken)
	w = httptest.NewRecorder()
	ts.Router.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	// 6. Text search
	t.Log("Step 6: Text search")
	req = httptest.NewRequest("GET", "/api/v1/search?q=cafe", nil)
	w = httptest.NewRecorder()
	ts.Router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var searchResp struct {
		Count int `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &searchResp))
	assert.Equal(t, 1, searchResp.Count)

	// 7. Nearby search
	t.Log("Step 7: Nearby search")
	req = httptest.NewRequest("GET", "/api/v1/search/near?lng=126.9780&lat=37.5665", nil)
	w = httptest.NewRecorder()
	ts.Router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &searchResp))
	assert.Equal(t, 1, searchResp.Count)

	// 8. Top stores
	t.Log("Step 8: Top stores")
	req = httptest.NewRequest("GET", "/api/v1/top", nil)
	w = httptest.NewRecorder()
	ts.Router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var topResp struct {
		Stores []struct {
			StoreID       uint    `json:"store_id"`
			AverageRating float64 `json:"average_rating"`
		} `json:"stores"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &topResp))
	require.Len(t, topResp.Stores, 1)
	assert.Equal(t, storeID, topResp.Stores[0].StoreID)
	assert.InDelta(t, 5.0, topResp.Stores[0].AverageRating, 0.001)

	// 9. Tag facet
	t.Log("Step 9: Tag facet")
	req = httptest.NewRequest("GET", "/api/v1/tags/coffee", nil)
	w = httptest.NewRecorder()
	ts.Router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var tagResp struct {
		Tags   []map[string]interface{} `json:"tags"`
		Stores []map[string]interface{} `json:"stores"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tagResp))
	assert.Len(t, tagResp.Tags, 2)
	assert.Len(t, tagResp.Stores, 1)
}

func TestOwnershipGuard(t *testing.T) {
	ts := setupIntegrationTest(t)
	defer db.CleanupTestDB(ts.DB)

	ownerToken := ts.registerAndLogin(t, "owner@example.com")
	otherToken := ts.registerAndLogin(t, "other@example.com")

	body, contentType := storeForm(t, map[string]string{"name": "Cafe A"}, nil)
	req := httptest.NewRequest("POST", "/api/v1/stores", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+ownerToken)
	w := httptest.NewRecorder()
	ts.Router.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	var createResp struct {
		Store struct {
			ID uint `json:"id"`
		} `json:"store"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &createResp))

	// 다른 사용자의 수정 시도는 403
	body, contentType = storeForm(t, map[string]string{"name": "Hijacked"}, nil)
	req = httptest.NewRequest("PUT", fmt.Sprintf("/api/v1/stores/%d", createResp.Store.ID), body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+otherToken)
	w = httptest.NewRecorder()
	ts.Router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// 소유자는 수정 가능
	body, contentType = storeForm(t, map[string]string{"name": "Cafe B"}, nil)
	req = httptest.NewRequest("PUT", fmt.Sprintf("/api/v1/stores/%d", createResp.Store.ID), body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+ownerToken)
	w = httptest.NewRecorder()
	ts.Router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestUnauthorizedAccess(t *testing.T) {
	ts := setupIntegrationTest(t)
	defer db.CleanupTestDB(ts.DB)

	tests := []struct {
		name   string
		method string
		path   string
	}{
		{name: "Create store", method: "POST", path: "/api/v1/stores"},
		{name: "Toggle heart", method: "POST", path: "/api/v1/stores/1/heart"},
		{name: "Hearted stores", method: "GET", path: "/api/v1/hearts"},
		{name: "Me", method: "GET", path: "/api/v1/auth/me"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			w := httptest.NewRecorder()
			ts.Router.ServeHTTP(w, req)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}
