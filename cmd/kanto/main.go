// Command kanto is the local CLI: ingest export files and print item count
// reports without running the HTTP server.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"kantocollect/internal/dto"
	"kantocollect/internal/infra"
	"kantocollect/internal/repository"
	"kantocollect/internal/service"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "ingest":
		err = runIngest(os.Args[2:])
	case "report":
		err = runReport(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		log.Fatal().Err(err).Msg(os.Args[1] + " failed")
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: kanto <ingest|report> [flags]")
	fmt.Fprintln(os.Stderr, "  ingest [-db path] [-include-non-sales] <file-or-dir>...")
	fmt.Fprintln(os.Stderr, "  report [-db path] [-group-by-buyer] [-include-non-sales] [-title-match mode]")
}

func openDB(path string) (*gorm.DB, error) {
	if path == "" {
		path = "data/inventory.db"
	}
	return infra.NewDatabase(path)
}

// expandInputs turns file and directory arguments into a flat list of CSV
// paths. Directories expand to their *.csv entries in sorted order.
func expandInputs(args []string) ([]string, error) {
	var paths []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err == nil && info.IsDir() {
			matches, err := filepath.Glob(filepath.Join(arg, "*.csv"))
			if err != nil {
				return nil, err
			}
			sort.Strings(matches)
			paths = append(paths, matches...)
			continue
		}
		paths = append(paths, arg)
	}
	return paths, nil
}

func runIngest(args []string) error {
	fs := flag.NewFlagSet("ingest", flag.ExitOnError)
	dbPath := fs.String("db", "", "SQLite database path (default data/inventory.db)")
	includeNonSales := fs.Bool("include-non-sales", false, "include giveaways and other non-sales")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		return fmt.Errorf("ingest: at least one CSV file or directory required")
	}

	paths, err := expandInputs(fs.Args())
	if err != nil {
		return err
	}
	db, err := openDB(*dbPath)
	if err != nil {
		return err
	}

	svc := service.NewIngestService(repository.NewTransactionRepository(db))
	resp, err := svc.IngestFiles(context.Background(), paths, *includeNonSales)
	if err != nil {
		return err
	}
	return printJSON(resp)
}

func runReport(args []string) error {
	fs := flag.NewFlagSet("report", flag.ExitOnError)
	dbPath := fs.String("db", "", "SQLite database path (default data/inventory.db)")
	groupByBuyer := fs.Bool("group-by-buyer", false, "group counts by buyer name")
	includeNonSales := fs.Bool("include-non-sales", false, "include giveaways and other non-sales")
	titleMatch := fs.String("title-match", "exact", "exact | case_insensitive | aggressive | custom")
	if err := fs.Parse(args); err != nil {
		return err
	}

	db, err := openDB(*dbPath)
	if err != nil {
		return err
	}

	txRepo := repository.NewTransactionRepository(db)
	imgRepo := repository.NewProductImageRepository(db)
	svc := service.NewReportService(txRepo, imgRepo)
	results, err := svc.GetItemCounts(context.Background(), dto.ItemReportFilter{
		GroupByBuyer:    *groupByBuyer,
		IncludeNonSales: *includeNonSales,
		TitleMatch:      *titleMatch,
	})
	if err != nil {
		return err
	}
	return printJSON(service.BuildReport(results))
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
