package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strings"

	"pnl_projection/pkg/core/store"
)

// Prints every table of a SQLite registry with row counts, columns and a
// few sample rows.
func main() {
	dbPath := flag.String("db", "data/registry.db", "SQLite registry file")
	sample := flag.Int("sample", 3, "Sample rows per table")
	flag.Parse()

	db, err := store.OpenSQLiteDB(*dbPath)
	if err != nil {
		log.Fatalf("Error: %v", err)
	}
	defer db.Close()

	infos, err := store.Inspect(context.Background(), db, *sample)
	if err != nil {
		log.Fatalf("Inspect failed: %v", err)
	}
	if len(infos) == 0 {
		fmt.Printf("%s has no tables\n", *dbPath)
		return
	}

	for _, info := range infos {
		fmt.Printf("=== %s (%d rows) ===\n", info.Name, info.Rows)
		for _, c := range info.Columns {
			fmt.Printf("  - %s %s\n", c.Name, c.Type)
		}
		if info.Sample == nil || info.Sample.Len() == 0 {
			fmt.Println()
			continue
		}
		fmt.Println("  sample:")
		for _, rec := range info.Sample.Records {
			fmt.Printf("    %s\n", strings.Join(rec, " | "))
		}
		fmt.Println()
	}
}
