package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/khoahotran/cardify/adapters/persistence"
	"github.com/khoahotran/cardify/internal/config"
	"github.com/khoahotran/cardify/internal/domain/profile"
	"github.com/khoahotran/cardify/pkg/logger"
)

// Seeds the demo card so a fresh database has something to view. An optional
// argument replaces the demo user id.
func main() {
	fmt.Println("adding demo card into database...")

	if err := godotenv.Load(); err != nil {
		log.Println("warning: .env file not found, use system environment variables.")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("cannot load config: %v", err)
	}
	appLogger := logger.NewZapLogger(cfg.App.Env)

	ctx := context.Background()
	pool, err := persistence.NewPostgresPool(ctx, cfg, appLogger)
	if err != nil {
		log.Fatalf("cannot connect DB: %v", err)
	}
	defer pool.Close()

	demo := profile.Demo()
	if len(os.Args) > 1 && os.Args[1] != "" {
		demo.UserID = os.Args[1]
	}
	demo.ShortID = profile.ShortID(demo.UserID)

	if err := persistence.NewPostgresProfileRepo(pool, appLogger).Replace(ctx, demo); err != nil {
		log.Fatalf("cannot add demo card: %v", err)
	}

	fmt.Printf("added or updated card for user '%s' (share token %s)\n", demo.UserID, demo.ShortID)
}
