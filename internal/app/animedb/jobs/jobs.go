package jobs

import (
	"context"

	"github.com/seasmoffi-gif/AnimeDB-api/internal/pkg/config"
	"github.com/seasmoffi-gif/AnimeDB-api/internal/pkg/notify"
	"github.com/seasmoffi-gif/AnimeDB-api/internal/pkg/store"
	"github.com/seasmoffi-gif/AnimeDB-api/internal/pkg/watch"
)

// Start wires up the background jobs and returns the link checker so the
// API can expose its findings.
func Start(ctx context.Context, cfg config.Config, st store.Store, hub *watch.Hub, notifier *notify.Notifier) *LinkChecker {
	lc := New(cfg, st, hub, notifier)
	go lc.Run(ctx)
	return lc
}
