// Package main runs the plan server: an HTTP interface over a plans
// database for submitting, browsing, and charting planning cycle results.
//
// Usage:
//
//	plan-server -addr :8090 -db plans.db
package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"syscall"

	"github.com/banshee-data/lanecruise/internal/plandb"
	"github.com/banshee-data/lanecruise/internal/planview"
	"github.com/banshee-data/lanecruise/internal/version"
)

func main() {
	addr := flag.String("addr", ":8090", "HTTP listen address")
	dbFile := flag.String("db", "plans.db", "Plans database file")
	flag.Parse()

	log.Printf("plan-server %s (%s)", version.Version, version.GitSHA)

	db, err := plandb.New(*dbFile)
	if err != nil {
		log.Fatalf("Failed to open plans database: %v", err)
	}
	defer db.Close()

	server := planview.NewServer(planview.Config{
		Address: *addr,
		DB:      db,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := server.Start(ctx); err != nil {
		log.Fatalf("Plan server failed: %v", err)
	}
}
