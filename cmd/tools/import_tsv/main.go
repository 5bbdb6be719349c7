package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"pnl_projection/pkg/core/store"
)

// Builds the SQLite deal registry from the CRM's TSV exports
// (all deal.txt, won deal.txt, retention corp.txt).
func main() {
	dataDir := flag.String("data", "data", "Directory holding the TSV exports")
	dbPath := flag.String("db", "", "SQLite file (defaults to <data>/registry.db)")
	flag.Parse()

	path := *dbPath
	if path == "" {
		path = filepath.Join(*dataDir, "registry.db")
	}

	db, err := store.OpenSQLiteDB(path)
	if err != nil {
		log.Fatalf("Error: %v", err)
	}
	defer db.Close()

	counts, err := store.ImportAll(context.Background(), db, store.DefaultImports(*dataDir))
	if err != nil {
		log.Fatalf("Import failed: %v", err)
	}
	if len(counts) == 0 {
		fmt.Printf("No TSV exports found in %s\n", *dataDir)
		os.Exit(1)
	}
	for table, n := range counts {
		fmt.Printf("  %-12s %d rows\n", table, n)
	}
	fmt.Printf("Registry written to %s\n", path)
}
