package main

import (
	"context"
	"fmt"
	"os"

	"qrmenu-telegram/backend"
	"qrmenu-telegram/bot"
	"qrmenu-telegram/config"
	"qrmenu-telegram/db"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "backend":
			runBackend(cfg)
			return
		case "migrate":
			runMigrate(cfg)
			return
		}
	}

	if cfg.Telegram.Token == "" {
		fmt.Fprintln(os.Stderr, "TOKEN not set")
		os.Exit(1)
	}

	b, err := bot.New(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, "bot:", err)
		os.Exit(1)
	}

	fmt.Println("Bot started.")
	b.Start()
}

// runBackend serves the demo backend: in-memory orders by default,
// Postgres when DB_ENABLE is set.
func runBackend(cfg *config.Config) {
	var store backend.OrderStore = backend.NewMemoryStore()
	if cfg.DB.Enabled {
		pool, err := db.Connect(context.Background(), cfg.DB)
		if err != nil {
			fmt.Fprintln(os.Stderr, "db:", err)
			os.Exit(1)
		}
		defer pool.Close()
		store = backend.NewPgStore(pool)
	}

	srv := backend.NewServer(backend.DemoCatalog(), store)
	fmt.Println("Demo backend listening on", cfg.Server.Addr)
	if err := srv.Router().Run(cfg.Server.Addr); err != nil {
		fmt.Fprintln(os.Stderr, "backend:", err)
		os.Exit(1)
	}
}

func runMigrate(cfg *config.Config) {
	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DB)
	if err != nil {
		fmt.Fprintln(os.Stderr, "db:", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := applyMigrations(ctx, pool, true); err != nil {
		fmt.Fprintln(os.Stderr, "migrate:", err)
		os.Exit(1)
	}
}
