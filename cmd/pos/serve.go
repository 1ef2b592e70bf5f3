package main

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/aspectxlol/uprak-pos/internal/config"
	"github.com/aspectxlol/uprak-pos/internal/server"
	"github.com/aspectxlol/uprak-pos/pkg/kit"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the back-office HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

func runServe() error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}

	service := "pos-api"
	log := kit.NewLogger(service)
	defer func() { _ = log.Sync() }()

	cs, journal, closeFn, err := openStores(cfg)
	if err != nil {
		return err
	}
	defer closeFn()

	s := &server.Server{
		Log:          log,
		Catalog:      cs,
		Journal:      journal,
		JWT:          server.NewTokenMaker(cfg.JWTSecret),
		OperatorHash: cfg.OperatorPasswordHash,
	}

	h := server.NewHandler(s, server.HTTPDeps{
		Log:            log,
		Service:        service,
		Registry:       prometheus.NewRegistry(),
		MetricsEnabled: cfg.MetricsEnabled,
		MetricsToken:   cfg.MetricsToken,
	})

	if err := kit.RunHTTPServer(cfg.ListenAddr, h, log); err != nil {
		log.Error("http server stopped", zap.Error(err))
		return err
	}
	return nil
}
