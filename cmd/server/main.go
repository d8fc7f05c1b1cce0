// Command server hosts the producer-side HTTP API: account opening, money
// transfers and loan processing, plus the read-only lookups.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	log "github.com/charmbracelet/log"
	infrabus "github.com/martianbank/banking/infra/eventbus"
	"github.com/martianbank/banking/infra/repository/mongodb"
	"github.com/martianbank/banking/pkg/config"
	"github.com/martianbank/banking/pkg/money"
	accountsvc "github.com/martianbank/banking/pkg/service/account"
	loansvc "github.com/martianbank/banking/pkg/service/loan"
	transfersvc "github.com/martianbank/banking/pkg/service/transfer"
	"github.com/martianbank/banking/webapi"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	cfg, err := config.Load(logger)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Mongo.Timeout)
	defer cancel()
	client, err := mongodb.Connect(ctx, cfg.Mongo)
	if err != nil {
		return err
	}
	defer client.Disconnect(context.Background()) //nolint:errcheck
	db := client.Database(cfg.Mongo.Database)

	maxLoan, err := money.Parse(cfg.Loan.MaxAmount, money.DefaultCode)
	if err != nil {
		return fmt.Errorf("loan max amount %q: %w", cfg.Loan.MaxAmount, err)
	}

	publisher := infrabus.NewKafkaPublisher(cfg.Kafka, logger)
	defer publisher.Close() //nolint:errcheck

	accounts := mongodb.NewAccountRepository(db)
	transactions := mongodb.NewTransactionRepository(db)
	loans := mongodb.NewLoanRepository(db)

	api := webapi.New(
		accountsvc.NewService(accounts, logger),
		transfersvc.NewService(accounts, transactions, publisher, logger),
		loansvc.NewService(accounts, loans, publisher, maxLoan, logger),
		logger,
	)
	app := webapi.SetupApp(api)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info("starting server", "env", cfg.Env, "address", addr)
	return app.Listen(addr)
}
