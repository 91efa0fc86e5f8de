// Package scheduler provides automated dataset rebuild scheduling and health
// monitoring for the conversion API. It handles cron-based rebuilds, stale
// data checks, and coordinates rebuilds with the data container using
// dependency injection.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/tayyibgondal/atc-ndc-bidirectional-conversion/interfaces"
	"github.com/tayyibgondal/atc-ndc-bidirectional-conversion/logging"
	"github.com/tayyibgondal/atc-ndc-bidirectional-conversion/metrics"
	"github.com/tayyibgondal/atc-ndc-bidirectional-conversion/validation"
)

// Compile-time check to ensure Scheduler implements Scheduler interface
var _ interfaces.Scheduler = (*Scheduler)(nil)

// Scheduler handles dataset rebuilds and health monitoring using dependency
// injection
type Scheduler struct {
	dataStore interfaces.DataStore
	builder   interfaces.DatasetBuilder
	scheduler *gocron.Scheduler
	done      chan struct{}
}

// NewScheduler creates a new scheduler instance with injected dependencies
func NewScheduler(dataStore interfaces.DataStore, builder interfaces.DatasetBuilder) *Scheduler {
	return &Scheduler{
		dataStore: dataStore,
		builder:   builder,
		scheduler: gocron.NewScheduler(time.Local),
		done:      make(chan struct{}),
	}
}

// Start loads the initial dataset and schedules the daily rebuild
func (s *Scheduler) Start() error {
	// Initial load: a saved dataset avoids hammering the upstreams on
	// every restart, a rebuild covers the first run
	if err := s.loadOrBuild(); err != nil {
		logging.Error("Failed to perform initial dataset load", "error", err)
		return fmt.Errorf("initial dataset load failed: %w", err)
	}

	// Schedule a rebuild at 06:00 daily
	_, err := s.scheduler.Every(1).Days().At("06:00").Do(func() {
		if err := s.rebuild(); err != nil {
			logging.Error("Failed to rebuild dataset", "error", err)
		}
	})

	if err != nil {
		logging.Error("Failed to schedule rebuilds", "error", err)
		return fmt.Errorf("failed to schedule rebuilds: %w", err)
	}

	s.scheduler.StartAsync()

	// Start health monitoring
	s.startHealthMonitoring()

	return nil
}

// Stop stops the scheduler
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
	close(s.done)
}

// loadOrBuild tries the saved dataset first and falls back to a full
// rebuild from the upstream services
func (s *Scheduler) loadOrBuild() error {
	ds, err := s.builder.Load()
	if err == nil && len(ds.ATC) > 0 {
		s.dataStore.UpdateData(ds)
		s.publishStats()
		logging.Info("Loaded saved dataset",
			"atc_codes", len(ds.ATC),
			"ndc_codes", len(ds.NDCSimple))
		return nil
	}
	if err != nil {
		logging.Info("No usable saved dataset, building from upstream services", "reason", err)
	}

	return s.rebuild()
}

// rebuild performs a complete dataset rebuild using the injected builder
func (s *Scheduler) rebuild() error {
	// Prevent concurrent rebuilds
	if !s.dataStore.BeginUpdate() {
		logging.Info("Rebuild already in progress, skipping...")
		return nil
	}
	defer s.dataStore.EndUpdate()

	logging.Info(fmt.Sprintf("Starting dataset rebuild at: %s", time.Now().Format(time.RFC3339)))
	start := time.Now()

	ds, err := s.builder.Build(context.Background())
	if err != nil {
		logging.Error("Failed to build dataset", "error", err)
		return fmt.Errorf("failed to build dataset: %w", err)
	}

	// Atomic swap, readers never see a partial dataset
	s.dataStore.UpdateData(ds)
	s.publishStats()

	report := validation.ReportDataQuality(ds)
	if len(report.UnknownParents) > 0 {
		logging.Warn("Dataset contains codes with unknown parent groups",
			"count", len(report.UnknownParents))
	}
	if report.NDCMissingDetails > 0 {
		logging.Warn("Dataset contains product codes without details",
			"count", report.NDCMissingDetails)
	}

	if err := s.builder.Save(ds); err != nil {
		// The in-memory swap already succeeded, so a failed save only
		// costs the next restart a rebuild
		logging.Warn("Failed to save dataset", "error", err)
	}

	elapsed := time.Since(start)
	metrics.DatasetBuildDuration.Set(elapsed.Seconds())
	logging.Info("Dataset rebuild completed",
		"duration", elapsed.String(),
		"atc_codes", len(ds.ATC),
		"ndc_codes", len(ds.NDCSimple))

	return nil
}

func (s *Scheduler) publishStats() {
	metrics.DatasetCodesTotal.WithLabelValues("atc").Set(float64(len(s.dataStore.GetATCTable())))
	metrics.DatasetCodesTotal.WithLabelValues("ndc").Set(float64(len(s.dataStore.GetNDCSimple())))
}

// startHealthMonitoring watches for stale data
func (s *Scheduler) startHealthMonitoring() {
	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()

		for {
			select {
			case <-s.done:
				return
			case <-ticker.C:
				lastUpdate := s.dataStore.GetLastUpdated()
				if time.Since(lastUpdate) > 25*time.Hour {
					logging.Warn("Dataset hasn't been rebuilt in over 25 hours")
				}
			}
		}
	}()
}
