// Package server is the web layer: server-rendered pages for the invoice
// manager plus the anonymous generator, all delegating to the backend API
// client.
package server

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo/v4"
	goredis "github.com/redis/go-redis/v9"

	"github.com/hutamy/go-invoice-frontend/internal/api"
	"github.com/hutamy/go-invoice-frontend/internal/config"
	"github.com/hutamy/go-invoice-frontend/internal/domain"
)

const (
	sessionName         = "invoice-session"
	sessionKeySessionID = "session_id"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageNames = []string{
	"login.html",
	"signup.html",
	"dashboard.html",
	"clients.html",
	"client_form.html",
	"invoices.html",
	"invoice_form.html",
	"invoice_view.html",
	"profile.html",
	"generator.html",
}

type Server struct {
	echo         *echo.Echo
	config       *config.Config
	manager      *api.Manager
	publicClient *api.Client
	redisClient  *goredis.Client
	sessionStore *sessions.CookieStore
	templates    map[string]*template.Template
	startTime    time.Time
}

// NewServer wires the web layer. The manager supplies one backend client per
// browser session; publicClient is the unauthenticated client behind the
// anonymous generator.
func NewServer(cfg *config.Config, manager *api.Manager, publicClient *api.Client, redisClient *goredis.Client) (*Server, error) {
	templates, err := parseTemplates()
	if err != nil {
		return nil, err
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	sessionStore := sessions.NewCookieStore([]byte(cfg.SessionSecret))
	sessionStore.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int(cfg.SessionMaxAge.Seconds()),
		HttpOnly: true,
		Secure:   cfg.AppEnv == "production",
		SameSite: http.SameSiteLaxMode,
	}

	srv := &Server{
		echo:         e,
		config:       cfg,
		manager:      manager,
		publicClient: publicClient,
		redisClient:  redisClient,
		sessionStore: sessionStore,
		templates:    templates,
		startTime:    time.Now(),
	}

	srv.registerRoutes()

	return srv, nil
}

func parseTemplates() (map[string]*template.Template, error) {
	funcs := template.FuncMap{
		"money": domain.FormatMinorUnits,
	}

	templates := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		tmpl, err := template.New(name).Funcs(funcs).ParseFS(templateFS, "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
		}
		templates[name] = tmpl
	}
	return templates, nil
}

func (s *Server) Start() error {
	return s.echo.Start(fmt.Sprintf(":%s", s.config.Port))
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
