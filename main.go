package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/chaunnm/update-ranking-daily/pkg/api"
	"github.com/chaunnm/update-ranking-daily/pkg/config"
	"github.com/chaunnm/update-ranking-daily/pkg/sheets"
	"github.com/chaunnm/update-ranking-daily/pkg/updater"

	log "github.com/sirupsen/logrus"
)

func main() {
	verbose := flag.Bool("v", false, "Verbose logging")
	configFile := flag.String("config", config.DefaultFilename, "Path to the toml config file")

	flag.Parse()
	if *verbose {
		// Set the log level to debug
		log.SetLevel(log.DebugLevel)
	}
	// Set the log format to include a leading timestamp in ISO8601 format
	log.SetFormatter(&log.TextFormatter{
		FullTimestamp: true,
	})

	cfg, err := config.New(*configFile)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	client, err := sheets.NewClient(context.Background(), cfg.Credentials(), cfg.SheetsOptions())
	if err != nil {
		log.Fatalf("Failed to create Sheets client: %v", err)
	}
	opts, err := cfg.UpdaterOptions()
	if err != nil {
		log.Fatalf("Invalid updater options: %v", err)
	}

	handler := api.NewHandler(updater.New(client, opts), cfg.BatchOptions(), cfg.RequestTimeout())
	server := &http.Server{
		Addr:              cfg.Store.ListenAddress,
		Handler:           api.GetRouter(handler),
		ReadHeaderTimeout: 2 * time.Second,
	}
	go startServer(server)

	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, syscall.SIGINT, syscall.SIGTERM)

mainloop:
	for {
		select {
		case <-signalChan:
			log.Info("Signalled, breaking main loop")
			break mainloop
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Errorf("Graceful shutdown failed: %v", err)
	}
}

func startServer(server *http.Server) {
	log.Infof("listening for HTTP on: %s", server.Addr)
	if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("ListenAndServe: %v", err)
	}
}
