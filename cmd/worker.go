package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/frahmantamala/payment-integration/internal/core/events"
	"github.com/frahmantamala/payment-integration/pkg/logger"
	"github.com/spf13/cobra"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Start standalone workers",
	Long:  `Start standalone workers such as the payment event listener`,
}

// Event Bus worker command
var eventWorkerCmd = &cobra.Command{
	Use:   "events",
	Short: "Start payment event listener",
	Long:  `Start a standalone event bus that logs payment lifecycle events`,
	Run: func(cmd *cobra.Command, args []string) {
		startEventWorker()
	},
}

func startEventWorker() {
	config, err := loadConfig(".")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Init(config.Observability.Logging.Level, config.Observability.Logging.Format)
	log := logger.L()

	eventBus := events.NewEventBus(log)
	subscribePaymentObservers(eventBus, log)

	log.Info("event listener is running. Press Ctrl+C to stop.")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigChan
	log.Info("received signal, shutting down event listener", "signal", sig)
	log.Info("event listener shutdown complete")
}

// subscribePaymentObservers attaches a logging observer to every payment
// lifecycle event. Capture failures and hook failures log at error level so
// they surface in alerting even when nothing else consumes the bus.
func subscribePaymentObservers(eventBus *events.EventBus, log *slog.Logger) {
	observe := func(level slog.Level) events.Handler {
		return func(ctx context.Context, event events.Event) error {
			log.Log(ctx, level, "payment event",
				"event_id", event.EventID(),
				"event_type", event.EventType(),
				"payload", event.Payload())
			return nil
		}
	}

	eventBus.Subscribe(events.EventTypeGatewayEnabled, observe(slog.LevelInfo))
	eventBus.Subscribe(events.EventTypePaymentCaptured, observe(slog.LevelInfo))
	eventBus.Subscribe(events.EventTypePaymentCaptureFailed, observe(slog.LevelError))
	eventBus.Subscribe(events.EventTypePaymentHookFailed, observe(slog.LevelError))
	eventBus.Subscribe(events.EventTypeChargeErrored, observe(slog.LevelError))
}

func init() {
	workerCmd.AddCommand(eventWorkerCmd)

	rootCmd.AddCommand(workerCmd)
}
