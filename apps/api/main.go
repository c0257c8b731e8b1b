package main

import (
	"context"
	"fmt"
	"log"

	echoapi "github.com/trezcool/campus/apps/api/echo"
	"github.com/trezcool/campus/core"
	"github.com/trezcool/campus/core/roster"
	"github.com/trezcool/campus/core/user"
	logsvc "github.com/trezcool/campus/services/logger"
	inmemdb "github.com/trezcool/campus/storage/database/inmem"
	"github.com/trezcool/campus/storage/fixtures"
)

func main() {
	// =========================================================================
	// Set up Dependencies

	conf := core.NewConfig()
	user.HashCost = conf.PasswordHashCost

	// set up loggers
	zapLogger, err := logsvc.NewZapLogger(conf.Log)
	if err != nil {
		log.Fatalf("setting up logger: %v", err)
	}
	defer func() { _ = zapLogger.Close() }()
	logger := logsvc.NewRollbarLogger(zapLogger, conf)

	// set up the roster
	repo, err := setUpRoster(conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up roster: %v", err), err)
	}

	translator := core.NewTranslator()
	validate := core.NewValidator(translator)
	roster.InitValidators(validate, translator)

	rosterSvc := roster.NewService(repo, validate, logger)

	// =========================================================================
	// Start API Service

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	server := echoapi.NewServer(
		echoapi.ServerDeps{
			Conf:       conf,
			Logger:     logger,
			RosterSvc:  rosterSvc,
			Validate:   validate,
			Translator: translator,
		},
	)

	go func() {
		server.Start()
	}()

	// =========================================================================
	// Shutdown

	select {
	case err = <-server.Errors():
		logger.Fatal(fmt.Sprintf("server error: %v", err), err)

	case sig := <-server.ShutdownSignal():
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()

		// asking listener to shutdown and shed load
		if err = server.Shutdown(ctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

			if err = server.Close(); err != nil {
				logger.Fatal(fmt.Sprintf("could not force stop server: %v", err), err)
			}
		}
	}
}

// setUpRoster opens a fresh in-memory roster and seeds it from the fixtures.
func setUpRoster(conf *core.Config) (roster.Repository, error) {
	fx, err := fixtures.Load(conf.FixturesPath)
	if err != nil {
		return nil, err
	}
	repo := inmemdb.NewRosterRepository(inmemdb.Open())
	if err = fx.Seed(context.Background(), repo); err != nil {
		return nil, err
	}
	return repo, nil
}
