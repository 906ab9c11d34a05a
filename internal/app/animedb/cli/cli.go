package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/seasmoffi-gif/AnimeDB-api/internal/app/animedb/api"
	"github.com/seasmoffi-gif/AnimeDB-api/internal/app/animedb/jobs"
	"github.com/seasmoffi-gif/AnimeDB-api/internal/pkg/config"
	"github.com/seasmoffi-gif/AnimeDB-api/internal/pkg/keepalive"
	"github.com/seasmoffi-gif/AnimeDB-api/internal/pkg/models"
	"github.com/seasmoffi-gif/AnimeDB-api/internal/pkg/notify"
	"github.com/seasmoffi-gif/AnimeDB-api/internal/pkg/store"
	"github.com/seasmoffi-gif/AnimeDB-api/internal/pkg/watch"
)

// Start wires everything together and serves the API until the process is
// interrupted.
func Start() error {
	if err := godotenv.Load(); err != nil {
		fmt.Println(err)
	}
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := store.Connect(ctx, cfg.MongoURI, cfg.DBName)
	if err != nil {
		return err
	}
	defer func() {
		dctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := st.Disconnect(dctx); err != nil {
			log.Println(err)
		}
	}()
	if err := st.EnsureIndexes(ctx); err != nil {
		return err
	}

	hub := watch.NewHub()
	go hub.Run(ctx)
	notifier := notify.New(cfg.WebhookURL)
	checker := jobs.Start(ctx, cfg, st, hub, notifier)
	keepalive.Start(ctx, cfg.KeepaliveURL)

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.HTTPErrorHandler = api.HTTPErrorHandler
	api.New(st, hub, notifier, checker).Register(e)

	go func() {
		<-ctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := e.Shutdown(sctx); err != nil {
			log.Println(err)
		}
	}()

	fmt.Printf("listening on %s\n", cfg.Addr)
	if err := e.Start(cfg.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Seed reads a JSON array of anime from path and inserts the valid entries.
func Seed(path string) error {
	if err := godotenv.Load(); err != nil {
		fmt.Println(err)
	}
	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	st, err := store.Connect(ctx, cfg.MongoURI, cfg.DBName)
	if err != nil {
		return err
	}
	defer func() {
		dctx, dcancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer dcancel()
		if err := st.Disconnect(dctx); err != nil {
			log.Println(err)
		}
	}()
	if err := st.EnsureIndexes(ctx); err != nil {
		return err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var payloads []models.AnimeCreate
	if err := json.Unmarshal(data, &payloads); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	added := 0
	for _, p := range payloads {
		if err := p.Validate(); err != nil {
			fmt.Printf("skipping %q: %v\n", p.Title, err)
			continue
		}
		if _, err := st.Insert(ctx, p); err != nil {
			return err
		}
		added++
	}
	fmt.Printf("seeded %d of %d entries from %s\n", added, len(payloads), path)
	return nil
}
