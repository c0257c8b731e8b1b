package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/trezcool/campus/core"
	"github.com/trezcool/campus/core/roster"
	"github.com/trezcool/campus/core/user"
	logsvc "github.com/trezcool/campus/services/logger"
	inmemdb "github.com/trezcool/campus/storage/database/inmem"
	"github.com/trezcool/campus/storage/fixtures"
)

func main() {
	conf := core.NewConfig()
	user.HashCost = conf.PasswordHashCost

	logger, err := logsvc.NewZapLogger(conf.Log)
	if err != nil {
		log.Fatalf("setting up logger: %v", err)
	}

	// every run starts from the seed roster
	fx, err := fixtures.Load(conf.FixturesPath)
	if err != nil {
		logger.Fatal(fmt.Sprintf("loading fixtures: %v", err), err)
	}
	repo := inmemdb.NewRosterRepository(inmemdb.Open())
	if err = fx.Seed(context.Background(), repo); err != nil {
		logger.Fatal(fmt.Sprintf("seeding roster: %v", err), err)
	}

	translator := core.NewTranslator()
	validate := core.NewValidator(translator)
	roster.InitValidators(validate, translator)

	// start CLI
	cli := commandLine{
		svc: roster.NewService(repo, validate, logger),
		out: os.Stdout,
	}
	err = cli.run(os.Args)
	_ = logger.Close()
	if err != nil {
		if err != errHelp {
			fmt.Fprintf(os.Stderr, "\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}
