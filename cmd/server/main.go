// Package main is the entry point for the rc0patch API server
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/james-see/rc0patch/pkg/api"
	"github.com/james-see/rc0patch/pkg/config"
	"github.com/james-see/rc0patch/pkg/converter"
	"github.com/james-see/rc0patch/pkg/library"
)

func main() {
	configPath := flag.String("config", "", "Config file (default ~/.config/rc0patch/config.yaml)")
	port := flag.Int("port", 0, "Server port (overrides config)")
	dataDir := flag.String("data", "", "DATA directory (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}
	if *port != 0 {
		cfg.Port = *port
	}
	if *dataDir != "" {
		cfg.DataDir = *dataDir
	}

	logger := cfg.NewLogger()
	lib := library.New(cfg.DataDir, logger)
	conv := converter.New(lib.Codec())
	conv.SetMIDIChannel(cfg.Channel())
	conv.SetIndent(cfg.Indent)

	logger.Info("starting rc0patch API server", "port", cfg.Port, "data", cfg.DataDir)
	logger.Infof("swagger docs available at http://localhost:%d/swagger/index.html", cfg.Port)

	if err := api.StartServer(cfg.Port, conv, lib); err != nil {
		logger.Error("server error", "err", err)
		os.Exit(1)
	}
}
