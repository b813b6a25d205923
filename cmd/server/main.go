package main

import (
	"context"

	"imobiliaria-backend/config"
	"imobiliaria-backend/handlers"
	"imobiliaria-backend/middleware"
	"imobiliaria-backend/repository"
	"imobiliaria-backend/service"
	"imobiliaria-backend/storage"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func main() {
	// Load .env file from project root (relative to cmd/server/)
	if err := godotenv.Load(); err != nil {
		if err := godotenv.Load("../../.env"); err != nil {
			logrus.Warn("No .env file found, using environment variables")
		}
	}

	cfg := config.Load()
	gin.SetMode(cfg.Server.Mode)

	db, err := initPostgres(cfg.DatabaseURL)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to initialize Postgres")
	}
	defer db.Close()

	imageStorage, err := storage.NewStorage(cfg.Storage)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to initialize storage")
	}
	logrus.WithField("type", cfg.Storage.Type).Info("Storage initialized")

	// Repositories
	userRepo := repository.NewUserRepository(db)
	imovelRepo := repository.NewImovelRepository(db)
	imagemRepo := repository.NewImovelImagemRepository(db)
	leadRepo := repository.NewLeadRepository(db)
	visitaRepo := repository.NewVisitaRepository(db)
	configRepo := repository.NewConfiguracaoRepository(db)

	// Services
	authService := service.NewAuthService(userRepo, cfg.JWT.Secret, cfg.JWT.AccessExpiryMinutes, cfg.JWT.RefreshExpiryDays)
	emailService := service.NewEmailService(cfg.SMTP)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService, userRepo)
	imovelHandler := handlers.NewImovelHandler(imovelRepo, imagemRepo, imageStorage, cfg.Storage.MaxUploadSize)
	leadHandler := handlers.NewLeadHandler(leadRepo, imovelRepo, configRepo, emailService)
	adminHandler := handlers.NewAdminHandler(visitaRepo, imovelRepo, leadRepo, configRepo, emailService)

	authMiddleware := middleware.NewAuthMiddleware(authService)

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORS.Origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
		})
	})

	// Uploaded images are served back from the local upload dir
	if cfg.Storage.Type == "local" {
		r.Static("/uploads", cfg.Storage.UploadDir)
	}

	api := r.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/token", authHandler.Token)
			auth.POST("/token/refresh", authHandler.RefreshToken)
			auth.GET("/user", authMiddleware.AuthRequired(), authHandler.GetUser)
			auth.PUT("/user", authMiddleware.AuthRequired(), authHandler.UpdateUser)
			auth.POST("/change-password", authMiddleware.AuthRequired(), authHandler.ChangePassword)
		}

		listings := api.Group("/listings")
		{
			listings.GET("", imovelHandler.List)
			listings.GET("/featured", imovelHandler.ListDestaques)
			listings.GET("/:id", imovelHandler.Get)
			listings.POST("", authMiddleware.AuthRequired(), imovelHandler.Create)
			listings.PUT("/:id", authMiddleware.AuthRequired(), imovelHandler.Update)
			listings.DELETE("/:id", authMiddleware.AuthRequired(), imovelHandler.Delete)
			listings.PATCH("/:id/toggle-featured", authMiddleware.AuthRequired(), imovelHandler.ToggleDestaque)
			listings.POST("/:id/upload-image", authMiddleware.AuthRequired(), imovelHandler.UploadImagem)
			listings.DELETE("/:id/images/:imageId", authMiddleware.AuthRequired(), imovelHandler.DeleteImagem)
		}

		leads := api.Group("/leads")
		{
			// Public contact form endpoint; everything else is admin-only
			leads.POST("", leadHandler.Create)
			leads.GET("", authMiddleware.AuthRequired(), leadHandler.List)
			leads.GET("/:id", authMiddleware.AuthRequired(), leadHandler.Get)
			leads.PUT("/:id", authMiddleware.AuthRequired(), leadHandler.Update)
			leads.DELETE("/:id", authMiddleware.AuthRequired(), leadHandler.Delete)
		}

		admin := api.Group("/admin", authMiddleware.AuthRequired())
		{
			admin.GET("/stats", adminHandler.Stats)

			admin.GET("/visits", adminHandler.ListVisitas)
			admin.POST("/visits", adminHandler.CreateVisita)
			admin.GET("/visits/:id", adminHandler.GetVisita)
			admin.PUT("/visits/:id", adminHandler.UpdateVisita)
			admin.DELETE("/visits/:id", adminHandler.DeleteVisita)

			admin.GET("/configuration", adminHandler.GetConfiguracao)
			admin.PUT("/configuration", adminHandler.UpsertConfiguracao)
		}
	}

	logrus.WithField("port", cfg.Server.Port).Info("Server starting")
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		logrus.WithError(err).Fatal("Failed to start server")
	}
}

func initPostgres(connString string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(context.Background(), connString)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(context.Background()); err != nil {
		return nil, err
	}

	logrus.Info("Postgres connection established")
	return pool, nil
}
