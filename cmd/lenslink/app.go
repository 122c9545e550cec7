package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/KirkDiggler/lenslink/internal/common/clock"
	"github.com/KirkDiggler/lenslink/internal/common/uuid"
	"github.com/KirkDiggler/lenslink/internal/config"
	"github.com/KirkDiggler/lenslink/internal/localstore"
	"github.com/KirkDiggler/lenslink/internal/models"
	"github.com/KirkDiggler/lenslink/internal/repositories/session"
	"github.com/KirkDiggler/lenslink/internal/services/cloudsync"
	"github.com/KirkDiggler/lenslink/internal/services/concept"
	"github.com/KirkDiggler/lenslink/internal/services/messaging"
	"github.com/KirkDiggler/lenslink/internal/services/schedule"
	"github.com/golang/glog"
)

// app holds the wired services of one command run
type app struct {
	cfg       *config.Config
	store     localstore.Store
	sync      cloudsync.Service
	schedule  schedule.Service
	concept   concept.Service
	messaging messaging.Service
	clock     clock.Clock

	in  io.Reader
	out io.Writer
}

// newApp opens the local store and wires the services on top of it.
// concurrent wraps the schedule service for the long-running surfaces.
func newApp(ctx context.Context, cfg *config.Config, concurrent bool) (*app, error) {
	store, err := localstore.NewBadger(&localstore.Config{Dir: cfg.DataDir})
	if err != nil {
		return nil, fmt.Errorf("while opening local store: %w", err)
	}

	creds := cfg.Credentials()
	if creds != nil {
		glog.Infof("using remote store from config or environment")
	}

	syncSvc, err := cloudsync.NewService(&cloudsync.Config{
		LocalStore:  store,
		Dialer:      session.NewDialer(),
		Credentials: creds,
	})
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("while creating sync service: %w", err)
	}

	clk := clock.New()
	var sched schedule.Service
	sched, err = schedule.NewService(&schedule.Config{
		Sync:          syncSvc,
		Clock:         clk,
		UUIDGenerator: uuid.New(),
		Location:      cfg.Location(),
	})
	if err != nil {
		syncSvc.Close()
		store.Close()
		return nil, fmt.Errorf("while creating schedule service: %w", err)
	}
	if concurrent {
		sched = schedule.NewLocked(sched)
	}

	var generator concept.TextGenerator
	if cfg.Gemini.APIKey != "" {
		generator, err = concept.NewGemini(ctx, &concept.GeminiConfig{
			APIKey: cfg.Gemini.APIKey,
			Model:  cfg.Gemini.Model,
		})
		if err != nil {
			glog.Warningf("concept generation disabled: %v", err)
			generator = nil
		}
	}
	conceptSvc, err := concept.NewService(&concept.Config{Generator: generator})
	if err != nil {
		syncSvc.Close()
		store.Close()
		return nil, fmt.Errorf("while creating concept service: %w", err)
	}

	msgSvc, err := messaging.NewService(&messaging.ServiceConfig{Signature: cfg.Signature})
	if err != nil {
		syncSvc.Close()
		store.Close()
		return nil, fmt.Errorf("while creating messaging service: %w", err)
	}

	return &app{
		cfg:       cfg,
		store:     store,
		sync:      syncSvc,
		schedule:  sched,
		concept:   conceptSvc,
		messaging: msgSvc,
		clock:     clk,
		in:        os.Stdin,
		out:       os.Stdout,
	}, nil
}

func (a *app) close() {
	if err := a.sync.Close(); err != nil {
		glog.Warningf("failed to close remote store: %v", err)
	}
	if err := a.store.Close(); err != nil {
		glog.Warningf("failed to close local store: %v", err)
	}
}

// today is the current date in the configured timezone
func (a *app) today() string {
	return a.clock.Now().In(a.cfg.Location()).Format(models.DateLayout)
}
