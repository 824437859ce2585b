// Package cli implements the interactive terminal client: a small REPL over
// the authentication service, mirroring the navigation of the web app.
package cli

import (
	"bufio"
	"context"
	"io"
	"os"

	"fmt"
	"sync/atomic"
	"time"

	"github.com/hopitalsej/sejour/internal/client/api"
	"github.com/hopitalsej/sejour/internal/client/config"
	"github.com/hopitalsej/sejour/internal/client/services"
	"github.com/hopitalsej/sejour/internal/client/store"
)

type App struct {
	config      *config.Config
	authService *services.AuthService
	store       *store.Store
	userEmail   string
	offline     atomic.Bool
	reader      *bufio.Reader
	out         io.Writer
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	st, err := store.Open(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, err
	}

	backend := api.New(c.ServerEndpointAddr, c.RequestTimeout)
	as := services.NewAuthService(backend, st, c.RememberMe)

	if err := as.Bootstrap(ctx); err != nil {
		st.Close()
		return nil, err
	}

	return &App{
		config:      c,
		authService: as,
		store:       st,
		reader:      bufio.NewReader(os.Stdin),
		out:         os.Stdout,
	}, nil
}

func (a *App) Run(ctx context.Context) {
	defer a.store.Close()
	a.Root(ctx)
}

func (a *App) isLoggedIn() bool {
	return a.authService.IsAuthenticated()
}

// StartOnlineStatusWatcher probes server reachability on a ticker and
// reports transitions. The offline flag only affects the prompt; commands
// still go out and fail with their own message.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
			err := a.authService.Ping(pingCtx)
			cancel()

			if err != nil {
				if a.offline.CompareAndSwap(false, true) {
					fmt.Fprintln(a.out, "Serveur indisponible, mode hors ligne")
				}
			} else {
				if a.offline.CompareAndSwap(true, false) {
					fmt.Fprintln(a.out, "Serveur en ligne")
				}
			}

		case <-ctx.Done():
			return
		}
	}
}
