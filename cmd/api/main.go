package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"storagebox/internal/config"
	"storagebox/internal/database"
	"storagebox/internal/middleware"
	"storagebox/internal/modules/files"
	"storagebox/internal/modules/health"
	"storagebox/internal/repository"
	"storagebox/internal/storage"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file loaded:", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	if err := cfg.EnsureDirectories(); err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	if err := repository.AutoMigrate(db); err != nil {
		log.Fatal(err)
	}

	store, err := storage.NewClient(context.Background(), cfg)
	if err != nil {
		log.Fatal(err)
	}

	fileRepo := repository.NewFileRepository(db)
	fileService := files.NewService(cfg, fileRepo, store)
	fileHandler := files.NewHandler(fileService)
	healthHandler := health.NewHandler(cfg, store)

	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()
	r.Use(middleware.CORS(cfg.Debug))

	root := r.Group("/")
	{
		healthHandler.RegisterRoutes(root)
		fileHandler.RegisterRoutes(root)
	}

	log.Printf("%s listening on %s", cfg.AppName, cfg.Addr())
	if err := r.Run(cfg.Addr()); err != nil {
		log.Fatal(err)
	}
}
