package main

import (
	"flag"
	"net/http"
	"os"

	"soraifarm/internal/config"
	"soraifarm/internal/httpapi"
	"soraifarm/internal/logging"
	"soraifarm/internal/storage"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the yaml config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logging.Errorf("config: %v", err)
		os.Exit(1)
	}
	if err := logging.Init(cfg.LogDir); err != nil {
		logging.Errorf("logging: %v", err)
		os.Exit(1)
	}
	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		logging.Errorf("upload dir: %v", err)
		os.Exit(1)
	}

	db, err := storage.NewSQLite(cfg.DatabasePath)
	if err != nil {
		logging.Errorf("storage: %v", err)
		os.Exit(1)
	}

	router := httpapi.SetupRouter(db, cfg)
	logging.Infof("soraifarm service listening on %s", cfg.ListenAddr)
	if err := http.ListenAndServe(cfg.ListenAddr, router); err != nil {
		logging.Errorf("server: %v", err)
		os.Exit(1)
	}
}
