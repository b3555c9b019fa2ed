// Package api is the HTTP presentation layer. Each request maps to one
// session intent and answers with the session snapshot taken afterwards.
package api

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"trade-journal/internal/journal"
	"trade-journal/internal/storage"
)

// UserHeader selects the session a request acts on.
const UserHeader = "X-User-ID"

// Config wraps the knobs that impact runtime behavior.
type Config struct {
	Addr string
}

// Options contains the collaborators of a Server.
type Options struct {
	Sessions       *Sessions
	Preferences    storage.PreferenceStore
	MetricsHandler http.Handler // served on /metrics when set
	Logger         *log.Logger
}

// Server exposes the Fiber application.
type Server struct {
	app      *fiber.App
	cfg      Config
	sessions *Sessions
	prefs    storage.PreferenceStore
	logger   *log.Logger
}

// NewServer wires handlers and middleware.
func NewServer(cfg Config, opts Options) *Server {
	l := opts.Logger
	if l == nil {
		l = log.Default()
	}

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		Immutable:             true,
		ReadTimeout:           15 * time.Second,
		WriteTimeout:          15 * time.Second,
		ErrorHandler:          errorHandler,
	})
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "${time} | ${status} | ${latency} | ${method} ${path}\n",
		Output: l.Writer(),
	}))
	app.Use(cors.New())

	srv := &Server{
		app:      app,
		cfg:      cfg,
		sessions: opts.Sessions,
		prefs:    opts.Preferences,
		logger:   l,
	}
	srv.registerRoutes(opts.MetricsHandler)
	return srv
}

// Run starts listening for HTTP traffic until the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		_ = s.app.Shutdown()
	}()

	s.logger.Printf("journal api listening on %s", s.cfg.Addr)
	return s.app.Listen(s.cfg.Addr)
}

func (s *Server) registerRoutes(metrics http.Handler) {
	s.app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "sessions": s.sessions.Len()})
	})
	if metrics != nil {
		s.app.Get("/metrics", adaptor.HTTPHandler(metrics))
	}

	api := s.app.Group("/api/v1")
	api.Get("/symbols", s.handleSymbols)
	api.Get("/fields", s.handleFields)

	api.Post("/session", s.handleSignIn)
	api.Delete("/session", s.handleSignOut)
	api.Get("/state", s.handleState)

	api.Put("/date", s.handleSetDate)
	api.Post("/refresh", s.handleRefresh)
	api.Put("/focus", s.handleFocus)
	api.Delete("/focus", s.handleClearFocus)

	api.Get("/preferences", s.handleGetPreferences)
	api.Put("/preferences/theme", s.handleSetTheme)

	composer := api.Group("/composer")
	composer.Put("/symbol", s.handleComposerSymbol)
	composer.Put("/staging/:field", s.handleComposerStaging)
	composer.Post("/items/:field", s.handleComposerAdd)
	composer.Delete("/items/:field/:index", s.handleComposerRemove)
	composer.Post("/submit", s.handleComposerSubmit)
	composer.Delete("/", s.handleComposerReset)

	editor := api.Group("/editor")
	editor.Post("/edit/:field", s.handleEditorBegin)
	editor.Delete("/edit", s.handleEditorCancel)
	editor.Put("/staging", s.handleEditorStaging)
	editor.Post("/commit", s.handleEditorCommit)
	editor.Post("/delete", s.handleEditorDelete)
	editor.Post("/mark-saved", s.handleEditorMarkSaved)
	editor.Post("/confirm", s.handleEditorConfirm)
	editor.Delete("/confirm", s.handleEditorDismiss)
}

// session resolves the session a request acts on.
func (s *Server) session(c *fiber.Ctx) (*journal.Session, error) {
	if userID := c.Get(UserHeader); userID != "" {
		sess, ok := s.sessions.Get(userID)
		if !ok {
			return nil, journal.ErrNotSignedIn
		}
		return sess, nil
	}
	if sess := s.sessions.Default(); sess != nil {
		return sess, nil
	}
	return nil, journal.ErrNotSignedIn
}

// respond answers with the snapshot of sess, and with the mapped error
// status when err is set.
func respond(c *fiber.Ctx, sess *journal.Session, err error) error {
	snap := sess.Snapshot()
	if err != nil {
		status, kind := classify(err)
		return c.Status(status).JSON(fiber.Map{
			"error": fiber.Map{"kind": kind, "message": err.Error()},
			"data":  snap,
		})
	}
	return c.JSON(fiber.Map{"data": snap})
}
