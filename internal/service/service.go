// Package service wires together configuration, the storage backend, the
// context store, and the hook registry.
package service

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-ports/ctxtrack/internal/config"
	"github.com/go-ports/ctxtrack/internal/hooks"
	"github.com/go-ports/ctxtrack/internal/storage"
	"github.com/go-ports/ctxtrack/internal/store"
)

// Service owns a fully wired context store for one ctx home.
type Service struct {
	CtxHome string
	Config  *config.Config

	backend storage.Backend
	store   *store.Store
	hooks   *hooks.Registry
}

// New initialises a Service rooted at ctxHome.
// If ctxHome is empty it is resolved via config.GetCtxHome.
// backendKind overrides the configured backend when non-empty.
func New(ctxHome, backendKind string) (*Service, error) {
	if ctxHome == "" {
		ctxHome = config.GetCtxHome()
	}
	if err := os.MkdirAll(ctxHome, 0o755); err != nil {
		return nil, fmt.Errorf("service.New: create ctx home: %w", err)
	}

	cfg, err := config.Load(filepath.Join(ctxHome, "config.yaml"))
	if err != nil {
		return nil, fmt.Errorf("service.New: load config: %w", err)
	}
	if backendKind == "" {
		backendKind = cfg.Backend
	}

	backend, err := storage.Open(backendKind, ctxHome)
	if err != nil {
		return nil, fmt.Errorf("service.New: open backend: %w", err)
	}

	reg := hooks.NewRegistry()
	st, err := store.Open(backend, reg)
	if err != nil {
		_ = backend.Close()
		return nil, fmt.Errorf("service.New: %w", err)
	}

	return &Service{
		CtxHome: ctxHome,
		Config:  cfg,
		backend: backend,
		store:   st,
		hooks:   reg,
	}, nil
}

// Store returns the context store.
func (s *Service) Store() *store.Store { return s.store }

// Hooks returns the hook registry for callers that register lifecycle
// callbacks. Hooks registered here fire on all later mutations.
func (s *Service) Hooks() *hooks.Registry { return s.hooks }

// Close releases the storage backend.
func (s *Service) Close() error {
	return s.backend.Close()
}
