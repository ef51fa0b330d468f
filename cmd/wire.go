package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	"github.com/blogware/blogctl/internal/adapters/api"
	wschannel "github.com/blogware/blogctl/internal/adapters/channel/ws"
	favoritesrepo "github.com/blogware/blogctl/internal/adapters/favorites/toml"
	statusadapter "github.com/blogware/blogctl/internal/adapters/render/status"
	"github.com/blogware/blogctl/internal/adapters/session"
	statefile "github.com/blogware/blogctl/internal/adapters/state/file"
	"github.com/blogware/blogctl/internal/application"
	"github.com/blogware/blogctl/internal/logging"
	"github.com/blogware/blogctl/internal/ports"
)

var errNotLoggedIn = fmt.Errorf("not logged in (run `blogctl login` first)")

type app struct {
	sessions       *application.SessionService
	favorites      *application.FavoritesService
	api            *api.Client
	statusRenderer func(statusadapter.State, statusadapter.RenderOptions) (string, error)
	googleLogin    googleLoginConfig
	now            func() time.Time
}

type googleLoginConfig struct {
	ListenAddr string
	Timeout    time.Duration
}

func wireApp() (*app, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}

	stateStore := statefile.NewStore(filepath.Join(homeDir, ".blogctl", "state"))
	sessionStore := session.NewStore(stateStore)

	socketURL := envOrDefault("BLOG_SOCKET_URL", "ws://127.0.0.1:5000/ws")
	channel := wschannel.NewManager(socketURL, logging.Logger())

	sessions := application.NewSessionService(sessionStore, channel, ports.SystemClock{})

	apiBaseURL := envOrDefault("BLOG_API_URL", "http://127.0.0.1:5000/api")
	apiClient := api.NewClient(apiBaseURL, http.DefaultClient, sessions.Token, logging.Logger())

	favoritesRepo, err := favoritesrepo.NewRepository(viper.New())
	if err != nil {
		return nil, fmt.Errorf("wire favorites repository: %w", err)
	}

	return &app{
		sessions:       sessions,
		favorites:      application.NewFavoritesService(favoritesRepo),
		api:            apiClient,
		statusRenderer: statusadapter.Render,
		googleLogin: googleLoginConfig{
			ListenAddr: envOrDefault("BLOG_AUTH_LISTEN", "127.0.0.1:8976"),
			Timeout:    5 * time.Minute,
		},
		now: time.Now,
	}, nil
}

// start restores the persisted session for a command invocation. The
// returned func releases the channel and subscribers; commands defer it.
func (a *app) start(ctx context.Context) (func(), error) {
	if err := a.sessions.Start(ctx); err != nil {
		return nil, err
	}
	return a.sessions.Close, nil
}

func (a *app) requireAuth() error {
	if !a.sessions.Authenticated() {
		return errNotLoggedIn
	}
	return nil
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
