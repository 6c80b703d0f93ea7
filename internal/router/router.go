package router

import (
	"github.com/gin-gonic/gin"
	"github.com/jyhwang/matzip-backend/config"
	"github.com/jyhwang/matzip-backend/internal/app/controller"
	"github.com/jyhwang/matzip-backend/internal/middleware"
)

type Router struct {
	authController    *controller.AuthController
	storeController   *controller.StoreController
	searchController  *controller.SearchController
	tagController     *controller.TagController
	heartController   *controller.HeartController
	reviewController  *controller.ReviewController
	rankingController *controller.RankingController
	authMiddleware    *middleware.AuthMiddleware
	config            *config.Config
}

func NewRouter(
	authController *controller.AuthController,
	storeController *controller.StoreController,
	searchController *controller.SearchController,
	tagController *controller.TagController,
	heartController *controller.HeartController,
	reviewController *controller.ReviewController,
	rankingController *controller.RankingController,
	authMiddleware *middleware.AuthMiddleware,
	cfg *config.Config,
) *Router {
	return &Router{
		authController:    authController,
		storeController:   storeController,
		searchController:  searchController,
		tagController:     tagController,
		heartController:   heartController,
		reviewController:  reviewController,
		rankingController: rankingController,
		authMiddleware:    authMiddleware,
		config:            cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"message": "MATZIP API is running",
		})
	})

	// Serve uploaded photos when the local storage backend is in use
	router.Static("/uploads", r.config.Upload.LocalDir)

	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/register", r.authController.Register)
			auth.POST("/login", r.authController.Login)
			auth.POST("/logout", r.authMiddleware.Authenticate(), r.authController.Logout)
			auth.GET("/me", r.authMiddleware.Authenticate(), r.authController.GetMe)
		}

		stores := v1.Group("/stores")
		{
			stores.GET("", r.storeController.ListStores)
			stores.POST("", r.authMiddleware.Authenticate(), r.storeController.CreateStore)
			stores.GET("/:id", r.storeController.GetStoreByID)
			stores.PUT("/:id", r.authMiddleware.Authenticate(), r.storeController.UpdateStore)
			stores.GET("/:id/reviews", r.reviewController.ListStoreReviews)
			stores.POST("/:id/reviews", r.authMiddleware.Authenticate(), r.reviewController.CreateReview)
			stores.POST("/:id/heart", r.authMiddleware.Authenticate(), r.heartController.ToggleHeart)
		}

		// 상세 페이지는 slug로 조회
		v1.GET("/store/:slug", r.storeController.GetStoreBySlug)

		search := v1.Group("/search")
		{
			search.GET("", r.searchController.SearchStores)
			search.GET("/near", r.searchController.SearchNearby)
		}

		tags := v1.Group("/tags")
		{
			tags.GET("", r.tagController.ListTags)
			tags.GET("/:tag", r.tagController.ListTags)
		}

		v1.GET("/top", r.rankingController.TopStores)
		v1.GET("/hearts", r.authMiddleware.Authenticate(), r.heartController.ListHeartedStores)
	}

	return router
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin || allowedOrigin == "*" {
				allowed = true
				break
			}
		}

		if allowed {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
