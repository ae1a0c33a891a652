// Command indexer ingests company corpus files (JSON or CSV) into the
// configured search backend.
//
//	indexer [-reset] data/companies.json data/extra.csv
package main

import (
	"context"
	"flag"
	"log"

	"companymatch/internal/ingest"
	"companymatch/internal/platform/config"
	"companymatch/internal/platform/logger"
	"companymatch/internal/search"
)

func main() {
	reset := flag.Bool("reset", false, "delete and recreate the index before ingesting")
	flag.Parse()

	paths := flag.Args()
	if len(paths) == 0 {
		log.Fatal("usage: indexer [-reset] <file.json|file.csv> ...")
	}

	cfg := config.FromEnv()
	slogger := logger.New()

	backend, err := search.NewESBackend(cfg.Elasticsearch)
	if err != nil {
		log.Fatalf("search backend: %v", err)
	}

	ctx := context.Background()
	if *reset {
		if err := backend.DeleteIndex(ctx); err != nil {
			log.Fatalf("delete index: %v", err)
		}
		slogger.Info("deleted index", "index", cfg.Elasticsearch.Index)
	}

	summary, err := ingest.NewLoader(backend, slogger).Run(ctx, paths)
	if err != nil {
		log.Fatalf("ingest: %v", err)
	}

	slogger.Info("ingestion complete", "indexed", summary.Indexed, "errors", summary.Errors)
}
