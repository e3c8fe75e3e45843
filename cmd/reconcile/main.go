package main

import (
	"context"
	"flag"
	"log"

	"github.com/joho/godotenv"

	"storagebox/internal/config"
	"storagebox/internal/database"
	"storagebox/internal/modules/files"
	"storagebox/internal/repository"
	"storagebox/internal/storage"
)

// One-shot sweep for blobs that lost their metadata row. Run without flags
// to report orphans; add -delete to remove them.
func main() {
	remove := flag.Bool("delete", false, "delete orphaned blobs instead of only reporting them")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file loaded:", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	if err := repository.AutoMigrate(db); err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()

	store, err := storage.NewClient(ctx, cfg)
	if err != nil {
		log.Fatal(err)
	}

	service := files.NewService(cfg, repository.NewFileRepository(db), store)

	report, err := service.Reconcile(ctx, *remove)
	if err != nil {
		log.Fatal(err)
	}

	for _, key := range report.Orphans {
		log.Println("orphan:", key)
	}
	log.Printf("checked %d keys, found %d orphans, removed %d", report.Checked, len(report.Orphans), report.Removed)
}
