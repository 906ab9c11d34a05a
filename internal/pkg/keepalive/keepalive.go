package keepalive

import (
	"context"
	"fmt"
	"time"

	"github.com/seasmoffi-gif/AnimeDB-api/internal/pkg/requests"
)

const (
	// Let the server come up before the first ping.
	initialDelay = 5 * time.Second
	interval     = 15 * time.Minute
)

// Start pings url on a fixed interval so free-tier hosts don't idle the
// service out. A blank url disables the loop.
func Start(ctx context.Context, url string) {
	if url == "" {
		return
	}
	go run(ctx, url, initialDelay, interval)
}

func run(ctx context.Context, url string, delay, every time.Duration) {
	select {
	case <-time.After(delay):
	case <-ctx.Done():
		return
	}
	for {
		ping(url)
		select {
		case <-time.After(every):
		case <-ctx.Done():
			return
		}
	}
}

func ping(url string) {
	statusCode, _, err := requests.Get(nil, url)
	if err != nil {
		fmt.Printf("keepalive received error %v\n", err)
		return
	}
	if statusCode != 200 {
		fmt.Printf("keepalive received status %d\n", statusCode)
	}
}
