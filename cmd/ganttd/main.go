package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/pmtech-io/jira-gantt/internal/config"
	"github.com/pmtech-io/jira-gantt/internal/gantt"
	jiraclient "github.com/pmtech-io/jira-gantt/internal/jira"
	log "github.com/pmtech-io/jira-gantt/internal/logging"
	"github.com/pmtech-io/jira-gantt/internal/server"
)

func main() {
	defer log.Sync()

	cfg := config.NewConfig()
	log.Infof("ganttd configured with port: %d", cfg.ServerPort)

	var source jiraclient.IssueSource
	if cfg.JiraConfigured() {
		client, err := jiraclient.NewClient(cfg)
		if err != nil {
			log.Fatalf("Failed to create Jira client: %v", err)
		}
		source = client
		log.Infof("Jira enrichment enabled for %s", cfg.JiraBaseURL)
	} else {
		log.Warnf("Jira credentials not configured, scheduling from request payloads only")
	}

	calculator := gantt.NewCalculator()
	srv := server.New(cfg, calculator, source)

	fmt.Println("Starting ganttd server...")
	fmt.Printf("Server will listen on %s:%d\n", cfg.ServerHost, cfg.ServerPort)
	fmt.Printf("Schedule endpoint: http://%s:%d/schedule\n", cfg.ServerHost, cfg.ServerPort)

	// Create a context that will be canceled on SIGINT or SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.Start(ctx); err != nil {
		log.Fatalf("Server error: %v", err)
	}

	log.Infof("Server shutdown complete")
}
