package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path"
	"time"

	"github.com/bitzlabs/wallet-ledger/src/analytics"
	"github.com/bitzlabs/wallet-ledger/src/postgres"
	"github.com/bitzlabs/wallet-ledger/src/reconciler"
	"gopkg.in/yaml.v2"
)

// report loads the stored transaction history, aggregates the requested
// period, and writes the flattened category and monthly tables as CSV.
func main() {
	pwd, _ := os.Getwd()
	fullPath := path.Join(pwd, "config.yaml")
	rawCfg, err := os.ReadFile(fullPath)
	if err != nil {
		log.Printf("config file not found: %s", err)
		os.Exit(1)
	}
	cfg := reconciler.Config{}
	if err := yaml.Unmarshal(rawCfg, &cfg); err != nil {
		log.Printf("failed parsing config file: %s", err)
		os.Exit(1)
	}

	period := flag.String("period", "month", "window to aggregate: week, month, quarter, year, all")
	flag.StringVar(&cfg.PostgresConfig, "pg", cfg.PostgresConfig, "config string for the postgres connection")
	flag.Parse()

	postgres.ConfigurePostgres(cfg.PostgresConfig)

	ctx := context.Background()
	txs, err := postgres.GetAllTransactions(ctx, false)
	if err != nil {
		log.Printf("failed loading transactions: %s", err)
		os.Exit(1)
	}

	aggregator := analytics.NewAggregator(analytics.NewCategorizer(nil))
	win := analytics.WindowForPeriod(analytics.Period(*period), time.Now().UTC())
	snap := aggregator.Snapshot(win, txs, nil)

	categories, err := analytics.CategoryTableCSV(snap)
	if err != nil {
		log.Printf("failed flattening category table: %s", err)
		os.Exit(1)
	}
	monthly, err := analytics.MonthlyTableCSV(snap)
	if err != nil {
		log.Printf("failed flattening monthly table: %s", err)
		os.Exit(1)
	}

	fmt.Printf("# %d transactions, %s to %s\n", snap.Count,
		snap.Start.Format("2006-01-02"), snap.End.Format("2006-01-02"))
	fmt.Println(categories)
	fmt.Println(monthly)
}
