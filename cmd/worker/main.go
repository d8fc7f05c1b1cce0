// Command worker runs the Balance Updater: it consumes domain events from
// the bus and applies balance deltas to the account ledger. A processing
// failure stops the worker with the offset uncommitted, so the event is
// redelivered on restart and the failure is visible to the operator.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	log "github.com/charmbracelet/log"
	infrabus "github.com/martianbank/banking/infra/eventbus"
	"github.com/martianbank/banking/infra/repository/mongodb"
	"github.com/martianbank/banking/pkg/config"
	"github.com/martianbank/banking/pkg/service/balance"
)

func main() {
	if err := run(); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal(err)
	}
}

func run() error {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	cfg, err := config.Load(logger)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	connectCtx, cancel := context.WithTimeout(ctx, cfg.Mongo.Timeout)
	defer cancel()
	client, err := mongodb.Connect(connectCtx, cfg.Mongo)
	if err != nil {
		return err
	}
	defer client.Disconnect(context.Background()) //nolint:errcheck
	db := client.Database(cfg.Mongo.Database)

	updater := balance.NewUpdater(
		mongodb.NewAccountRepository(db),
		mongodb.NewProcessedEventRepository(db),
		logger,
	)
	consumer := infrabus.NewKafkaConsumer(cfg.Kafka, updater.Handle, logger)
	defer consumer.Close() //nolint:errcheck

	logger.Info("balance updater started",
		"topic", cfg.Kafka.Topic, "group", cfg.Kafka.GroupID)
	return consumer.Run(ctx)
}
