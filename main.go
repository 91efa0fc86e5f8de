package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/tayyibgondal/atc-ndc-bidirectional-conversion/config"
	"github.com/tayyibgondal/atc-ndc-bidirectional-conversion/converter"
	"github.com/tayyibgondal/atc-ndc-bidirectional-conversion/data"
	"github.com/tayyibgondal/atc-ndc-bidirectional-conversion/logging"
	"github.com/tayyibgondal/atc-ndc-bidirectional-conversion/mappings"
	"github.com/tayyibgondal/atc-ndc-bidirectional-conversion/openfda"
	"github.com/tayyibgondal/atc-ndc-bidirectional-conversion/rxnav"
	"github.com/tayyibgondal/atc-ndc-bidirectional-conversion/scheduler"
	"github.com/tayyibgondal/atc-ndc-bidirectional-conversion/server"
)

func main() {
	// .env is optional, environment variables win either way
	if err := godotenv.Load(); err != nil {
		logging.Info("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		logging.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	logging.InitLogger("logs")

	dataContainer := data.NewDataContainer()
	dataContainer.SetServerStartTime(time.Now())

	terminology := rxnav.NewClient(cfg.RxNavBaseURL)
	registry := openfda.NewClient(cfg.OpenFDABaseURL)

	builder := mappings.NewBuilder(terminology, registry, cfg.DataDir)
	builder.SetNDCLimit(cfg.NDCLimit)

	sched := scheduler.NewScheduler(dataContainer, builder)
	go func() {
		if err := sched.Start(); err != nil {
			logging.Error("Scheduler failed to start", "error", err)
		}
	}()
	defer sched.Stop()

	conv := converter.New(terminology)
	srv := server.NewServer(cfg, dataContainer, conv)

	// Channel to listen for interrupt signals
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Block until a signal is received
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logging.Error("Shutdown error", "error", err)
	}
}
