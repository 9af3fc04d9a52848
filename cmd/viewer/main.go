package main

import (
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/LanternOps/breeze-viewer/internal/infrastructure/config"
	"github.com/LanternOps/breeze-viewer/internal/server"
)

func main() {
	configPath := flag.String("config", "", "Path to viewer.toml settings file")
	dev := flag.Bool("dev", false, "Development logging")
	flag.Parse()

	cfg := config.LoadOrDefault()
	if *configPath != "" {
		if err := config.ApplyFile(*configPath, cfg); err != nil {
			log.Fatalf("Failed to load settings file: %v", err)
		}
	}
	if *dev {
		cfg.Logging.Development = true
		cfg.Logging.Level = "debug"
	}

	srv, err := server.New(cfg)
	if err != nil {
		log.Fatalf("Failed to create viewer host: %v", err)
	}

	// The raw argument list doubles as the launch activation carrier:
	// protocol handlers pass the deep link URL as a plain argument.
	if err := srv.Start(os.Args[1:]); err != nil {
		if errors.Is(err, server.ErrAlreadyRunning) {
			// Hand-off complete; the running instance owns the link.
			return
		}
		log.Fatalf("Failed to start viewer host: %v", err)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		if err := srv.Run(); err != nil {
			errChan <- err
		}
	}()

	select {
	case <-sigChan:
		if err := srv.Close(); err != nil {
			log.Printf("Error during shutdown: %v", err)
		}
	case err := <-errChan:
		log.Fatalf("Server error: %v", err)
	}
}
