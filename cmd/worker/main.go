package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"

	"github.com/ipcsmmd/webshop/internal/app/api"
	orderactivities "github.com/ipcsmmd/webshop/internal/durable/temporal/activities/orders"
	orderworkflows "github.com/ipcsmmd/webshop/internal/durable/temporal/workflows/orders"
	platformobservability "github.com/ipcsmmd/webshop/internal/platform/observability"
)

func main() {
	ctx := context.Background()
	const serviceName = "webshop-worker"
	cfg, err := api.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	instruments, err := platformobservability.Init(ctx, cfg.Telemetry(serviceName))
	if err != nil {
		log.Fatalf("failed to initialize observability: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := instruments.Shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	repos, cleanupRepos := api.BuildRepositories(ctx, cfg, logger)
	defer cleanupRepos()
	services := api.NewServices(repos, instruments)
	activities := orderactivities.NewActivities(services.Orders)

	// The worker cannot run inline, so a disabled or unreachable Temporal is fatal here.
	cfg.TemporalDisabled = false
	temporalClient, err := api.ConnectTemporalClient(cfg, instruments, "temporal-worker")
	if err != nil {
		logger.Error("failed to create Temporal client", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer temporalClient.Close()

	w := worker.New(temporalClient, orderworkflows.OrderPlacementTaskQueue, worker.Options{})
	w.RegisterWorkflowWithOptions(orderworkflows.OrderPlacementWorkflow, workflow.RegisterOptions{Name: orderworkflows.OrderPlacementWorkflowName})
	w.RegisterActivityWithOptions(activities.PlaceOrder, activity.RegisterOptions{Name: orderactivities.PlaceOrderActivityName})

	logger.Info("worker listening", slog.String("taskQueue", orderworkflows.OrderPlacementTaskQueue), slog.String("namespace", cfg.TemporalNamespace))
	if err := w.Run(worker.InterruptCh()); err != nil {
		logger.Error("Temporal worker exited with error", slog.String("error", err.Error()))
		return
	}
	logger.Info("Temporal worker stopped")
}
