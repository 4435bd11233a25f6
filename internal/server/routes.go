package server

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	apperrors "github.com/hutamy/go-invoice-frontend/internal/errors"
)

func (s *Server) registerRoutes() {
	s.echo.Use(s.setupRequestLoggerMiddleware())
	s.echo.Use(middleware.Recover())
	s.echo.Use(apperrors.Middleware())
	s.echo.Use(middleware.SecureWithConfig(middleware.SecureConfig{
		ContentTypeNosniff: "nosniff",
		XFrameOptions:      "DENY",
		ReferrerPolicy:     "strict-origin-when-cross-origin",
	}))

	csrf := s.setupCSRFMiddleware()
	publicLimiter := newRateLimiter(s.config.PublicPDFRate, s.config.PublicPDFBurst)

	// Observability (no auth)
	s.echo.GET("/health/live", s.handleLiveness)
	s.echo.GET("/health/ready", s.handleReadiness)
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Anonymous generator is the landing page
	s.echo.GET("/", s.handleGeneratorPage)
	s.echo.POST("/public/invoices/generate-pdf", s.handleGeneratePublicPDF, publicLimiter)
	s.echo.POST("/api/preview", s.handlePreview)
	s.echo.GET("/ws/preview", s.handlePreviewSocket)

	// Auth pages
	s.echo.GET("/auth/login", s.handleLoginPage, csrf)
	s.echo.POST("/auth/login", s.handleSignIn, csrf)
	s.echo.GET("/auth/signup", s.handleSignUpPage, csrf)
	s.echo.POST("/auth/signup", s.handleSignUp, csrf)
	s.echo.POST("/auth/logout", s.handleLogout, s.requireSession, csrf)

	// Authenticated pages
	s.echo.GET("/dashboard", s.handleDashboard, s.requireSession, csrf)

	s.echo.GET("/clients", s.handleClientList, s.requireSession, csrf)
	s.echo.GET("/clients/new", s.handleClientForm, s.requireSession, csrf)
	s.echo.GET("/clients/:id/edit", s.handleClientForm, s.requireSession, csrf)
	s.echo.POST("/clients", s.handleClientCreate, s.requireSession, csrf)
	s.echo.POST("/clients/:id", s.handleClientUpdate, s.requireSession, csrf)
	s.echo.POST("/clients/:id/delete", s.handleClientDelete, s.requireSession, csrf)

	s.echo.GET("/invoices", s.handleInvoiceList, s.requireSession, csrf)
	s.echo.GET("/invoices/export", s.handleInvoiceExport, s.requireSession)
	s.echo.GET("/invoices/new", s.handleInvoiceForm, s.requireSession, csrf)
	s.echo.GET("/invoices/:id", s.handleInvoiceView, s.requireSession, csrf)
	s.echo.GET("/invoices/:id/edit", s.handleInvoiceForm, s.requireSession, csrf)
	s.echo.POST("/invoices", s.handleInvoiceCreate, s.requireSession, csrf)
	s.echo.POST("/invoices/:id", s.handleInvoiceUpdate, s.requireSession, csrf)
	s.echo.POST("/invoices/:id/delete", s.handleInvoiceDelete, s.requireSession, csrf)
	s.echo.POST("/invoices/:id/status", s.handleInvoiceStatus, s.requireSession, csrf)
	s.echo.GET("/invoices/:id/pdf", s.handleInvoicePDF, s.requireSession)

	s.echo.GET("/profile", s.handleProfilePage, s.requireSession, csrf)
	s.echo.POST("/profile", s.handleProfileUpdate, s.requireSession, csrf)
	s.echo.POST("/profile/banking", s.handleBankingUpdate, s.requireSession, csrf)
	s.echo.POST("/profile/password", s.handlePasswordChange, s.requireSession, csrf)
	s.echo.POST("/profile/deactivate", s.handleDeactivate, s.requireSession, csrf)
}

func (s *Server) setupRequestLoggerMiddleware() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:  true,
		LogURI:     true,
		LogMethod:  true,
		LogLatency: true,
		LogError:   true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []any{
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency,
			}
			if v.Error != nil {
				attrs = append(attrs, "error", v.Error)
			}
			slog.Info("Request", attrs...)
			return nil
		},
	})
}

func (s *Server) setupCSRFMiddleware() echo.MiddlewareFunc {
	secure := s.config.AppEnv == "production"
	maxAge := int(s.config.SessionMaxAge.Seconds())

	return middleware.CSRFWithConfig(middleware.CSRFConfig{
		TokenLookup:    "form:csrf_token,header:X-CSRF-Token",
		CookieName:     "csrf_token",
		CookiePath:     "/",
		CookieMaxAge:   maxAge,
		CookieHTTPOnly: true,
		CookieSecure:   secure,
		CookieSameSite: http.SameSiteStrictMode,
	})
}
