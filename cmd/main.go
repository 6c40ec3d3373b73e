package main

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/dorincreciun/go-pizza-api/config"
	"github.com/dorincreciun/go-pizza-api/database"
	"github.com/dorincreciun/go-pizza-api/internal/auth"
	authhandlers "github.com/dorincreciun/go-pizza-api/internal/handlers/auth"
	"github.com/dorincreciun/go-pizza-api/internal/handlers/catalog"
	"github.com/dorincreciun/go-pizza-api/internal/middleware"
	"github.com/dorincreciun/go-pizza-api/internal/obs"
	"github.com/dorincreciun/go-pizza-api/internal/storage"
	"github.com/dorincreciun/go-pizza-api/internal/stores"
	"github.com/dorincreciun/go-pizza-api/internal/token"
	userpkg "github.com/dorincreciun/go-pizza-api/internal/user"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Config error: %v", err)
	}

	logger, err := obs.NewLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Logger error: %v", err)
	}
	defer logger.Sync()

	db, err := database.Connect(cfg.DatabaseDSN)
	if err != nil {
		logger.Fatal("database connection failed", zap.Error(err))
	}
	if err := database.Migrate(db); err != nil {
		logger.Fatal("database migration failed", zap.Error(err))
	}

	images, err := storage.NewS3ImageStorage(context.Background(), storage.S3Config{
		Endpoint:  cfg.S3Endpoint,
		Region:    cfg.S3Region,
		Bucket:    cfg.S3Bucket,
		AccessKey: cfg.S3AccessKey,
		SecretKey: cfg.S3SecretKey,
		KeyPrefix: cfg.S3KeyPrefix,
	}, logger)
	if err != nil {
		logger.Fatal("image storage init failed", zap.Error(err))
	}

	userStore := &stores.GormUserStore{DB: db}
	refreshTokenStore := &stores.GormRefreshTokenStore{DB: db}
	categoryStore := &stores.GormCategoryStore{DB: db}
	productStore := &stores.GormProductStore{DB: db}
	ingredientStore := &stores.GormIngredientStore{DB: db}

	tokenService := &token.JWTService{
		AccessSecret:  cfg.JWTSecret,
		RefreshSecret: cfg.JWTRefreshSecret,
		AccessTTL:     cfg.AccessTokenTTL,
		RefreshTTL:    cfg.RefreshTokenTTL,
	}
	hasher := userpkg.BcryptHasher{}

	sessions := auth.NewService(
		userStore,
		refreshTokenStore,
		tokenService,
		hasher,
		images,
		cfg.RefreshTokenTTL,
		logger,
	)

	authHandler := authhandlers.NewAuthHandler(sessions, cfg.RefreshTokenTTL, cfg.CookieSecure, logger)
	categoryHandler := &catalog.CategoryHandler{Store: categoryStore, Log: logger}
	productHandler := &catalog.ProductHandler{
		Products:    productStore,
		Categories:  categoryStore,
		Ingredients: ingredientStore,
		Log:         logger,
	}
	ingredientHandler := &catalog.IngredientHandler{Store: ingredientStore, Log: logger}

	requireAuth := middleware.Auth(tokenService, sessions, logger)
	requireAdmin := middleware.AdminOnly(logger)

	// Initialize router
	r := gin.Default()
	r.Use(obs.Metrics())

	authGroup := r.Group("/auth")
	{
		authGroup.POST("/register", authHandler.Register)
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/refresh", authHandler.Refresh)
		authGroup.POST("/logout", authHandler.Logout)
		authGroup.GET("/me", requireAuth, authHandler.GetCurrentUser)
		authGroup.PATCH("/profile", requireAuth, authHandler.UpdateProfile)
	}

	categories := r.Group("/categories")
	{
		categories.GET("", categoryHandler.List)
		categories.GET("/:id", categoryHandler.Get)
		categories.POST("", requireAuth, requireAdmin, categoryHandler.Create)
		categories.PATCH("/:id", requireAuth, requireAdmin, categoryHandler.Update)
		categories.DELETE("/:id", requireAuth, requireAdmin, categoryHandler.Delete)
	}

	products := r.Group("/products")
	{
		products.GET("", productHandler.List)
		products.GET("/:id", productHandler.Get)
		products.POST("", requireAuth, requireAdmin, productHandler.Create)
		products.PATCH("/:id", requireAuth, requireAdmin, productHandler.Update)
		products.DELETE("/:id", requireAuth, requireAdmin, productHandler.Delete)
	}

	ingredients := r.Group("/ingredients")
	{
		ingredients.GET("", ingredientHandler.List)
		ingredients.GET("/:id", ingredientHandler.Get)
		ingredients.POST("", requireAuth, requireAdmin, ingredientHandler.Create)
		ingredients.PATCH("/:id", requireAuth, requireAdmin, ingredientHandler.Update)
		ingredients.DELETE("/:id", requireAuth, requireAdmin, ingredientHandler.Delete)
	}

	r.GET("/metrics", obs.MetricsHandler())
	r.GET("/healthz", func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err != nil || sqlDB.PingContext(c.Request.Context()) != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	logger.Info("listening", zap.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
