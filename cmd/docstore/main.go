// docstore - admin CLI for the ConstructIQ document store.
//
// Bootstrap the documents table and check connectivity without bringing
// up the whole backend.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/constructiq/docstore"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
)

func main() {
	if len(os.Args) < 2 {
		printHelp()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "init":
		run(os.Args[2:], func(ctx context.Context, store *docstore.Store) error {
			return store.EnsureSchema(ctx)
		})
	case "ping":
		run(os.Args[2:], func(ctx context.Context, store *docstore.Store) error {
			return store.Ping(ctx)
		})
	case "help", "--help", "-h":
		printHelp()
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n", os.Args[1])
		printHelp()
		os.Exit(2)
	}
}

func printHelp() {
	fmt.Println(`docstore - ConstructIQ document store admin

Usage:
  docstore init [flags]    Create the documents table and indexes
  docstore ping [flags]    Check database connectivity

Flags:
  --driver string   Database driver: pgx or sqlite3 (default "pgx")
  --dsn string      Connection string (or DOCSTORE_DSN)
  --timeout duration  Operation timeout (default 10s)`)
}

func run(args []string, op func(context.Context, *docstore.Store) error) {
	fs := flag.NewFlagSet("docstore", flag.ExitOnError)
	driver := fs.String("driver", "pgx", "Database driver: pgx or sqlite3")
	dsn := fs.String("dsn", os.Getenv("DOCSTORE_DSN"), "Connection string")
	timeout := fs.Duration("timeout", 10*time.Second, "Operation timeout")
	_ = fs.Parse(args)

	logger, err := docstore.NewProductionZapLogger()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	store, err := docstore.Open(docstore.DefaultConfig(*driver, *dsn))
	if err != nil {
		logger.Error("open failed", "driver", *driver, "error", err)
		os.Exit(1)
	}
	defer store.Close()
	store.SetLogger(logger)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	if err := op(ctx, store); err != nil {
		logger.Error("command failed", "error", err)
		os.Exit(1)
	}
	logger.Info("ok", "driver", *driver)
}
