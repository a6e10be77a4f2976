package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"path"
	"time"

	"github.com/bitzlabs/wallet-ledger/src/balance"
	"github.com/bitzlabs/wallet-ledger/src/chainapi"
	"github.com/bitzlabs/wallet-ledger/src/common"
	"github.com/bitzlabs/wallet-ledger/src/postgres"
	"github.com/bitzlabs/wallet-ledger/src/reconciler"
	"github.com/go-redis/redis/v8"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gopkg.in/yaml.v2"
)

func main() {
	pwd, _ := os.Getwd()
	fullPath := path.Join(pwd, "config.yaml")
	log.Printf("loading config @ `%s`", fullPath)
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

	flag.StringVar(&cfg.LightwalletAddress, "lightwallet", cfg.LightwalletAddress, "address of the light-wallet daemon, default `localhost:9067`")
	flag.StringVar(&cfg.PromPort, "prom", cfg.PromPort, "address to serve prom stats, default `:2112`")
	flag.StringVar(&cfg.HealthCheckPort, "hcp", cfg.HealthCheckPort, `(rarely used) if defined will expose a health check on /readyz, default ""`)
	flag.StringVar(&cfg.PostgresConfig, "pg", cfg.PostgresConfig, "config string for the postgres connection")
	flag.StringVar(&cfg.RedisAddress, "redis", cfg.RedisAddress, "address of redis for the seen-txid buffer, empty disables dedupe")
	flag.Int64Var(&cfg.SelfTransferThreshold, "selfthreshold", cfg.SelfTransferThreshold, "zatoshi ceiling below which memo-less sends to own addresses are filtered")

	flag.Parse()

	log.Println("----------------------------------")
	log.Printf("initializing ledgerd")
	log.Printf("\tlightwallet:   %s", cfg.LightwalletAddress)
	log.Printf("\tprom:          %s", cfg.PromPort)
	log.Printf("\thealth check:  %s", cfg.HealthCheckPort)
	log.Printf("\tredis:         %s", cfg.RedisAddress)
	log.Printf("\tmock:          %t", cfg.Mock)
	log.Println("----------------------------------")

	postgres.ConfigurePostgres(cfg.PostgresConfig)

	logger := common.ConfigureZap(zap.InfoLevel)
	if cfg.PromPort != "" {
		common.StartPromServer(logger, cfg.PromPort)
	}

	var source chainapi.Source
	if cfg.Mock {
		source = chainapi.NewMockSource()
	} else {
		source = chainapi.NewLightwalletApi(cfg.LightwalletAddress, logger)
	}

	var rd *redis.Client
	if cfg.RedisAddress != "" {
		rd = redis.NewClient(&redis.Options{Addr: cfg.RedisAddress})
		if err := rd.Ping(context.Background()).Err(); err != nil {
			logger.Warn("redis unreachable, continuing without dedupe", zap.Error(err))
			rd = nil
		}
	}

	oracle := chainapi.NewConfirmationOracle(source, cfg.TipRefreshInterval(), logger)
	if err := oracle.Refresh(context.Background()); err != nil {
		logger.Warn("initial chain tip fetch failed", zap.Error(err))
	}

	rec := reconciler.New(cfg, source, oracle, balance.NewState(), rd, logger)

	if cfg.HealthCheckPort != "" {
		go beginReadyzHandler(cfg)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go rec.StartPruner(ctx, 5*time.Minute)
	rec.StartPipeline(ctx)
}

func beginReadyzHandler(cfg reconciler.Config) {
	http.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		pg, err := postgres.GetConnection(r.Context())
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(errors.Wrap(err, "failed pinging postgres").Error()))
			return
		}
		defer pg.Close(r.Context())
		if err := pg.Ping(r.Context()); err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(errors.Wrap(err, "failed pinging postgres").Error()))
			return
		}
		w.WriteHeader(http.StatusOK)
	})
	http.ListenAndServe(cfg.HealthCheckPort, nil)
}
