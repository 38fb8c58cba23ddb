// cmd/blogforge/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"blogforge/internal/common/cache"
	"blogforge/internal/common/config"
	"blogforge/internal/common/logger"
	"blogforge/internal/content"
	"blogforge/internal/llm"
	"blogforge/internal/research"
	"blogforge/internal/runner"
	"blogforge/internal/scrape"
	"blogforge/internal/search"
	"blogforge/internal/storage"
)

func main() {
	productFlag := flag.String("product", "", "Specific product name to process")
	dryRunFlag := flag.Bool("dry-run", false, "Research only, no content generation")
	configFlag := flag.String("config", "", "Config file path (defaults to configs/config.yaml)")
	flag.Parse()

	cfg, err := loadConfig(*configFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewStructured(cfg.Logging.Level, cfg.Logging.Format)

	if !cfg.System.Enabled {
		log.Info("system is disabled in config, set system.enabled: true to enable", nil)
		os.Exit(0)
	}

	llmClient, err := llm.NewClient(cfg.LLM, log)
	if err != nil {
		log.Error("credential missing", map[string]interface{}{"error": err.Error()})
		os.Exit(1)
	}

	pageCache := cache.New(cfg.Cache)
	if pageCache != nil {
		defer pageCache.Close()
		if err := pageCache.Ping(context.Background()); err != nil {
			log.Warn("page cache unreachable, continuing without it", map[string]interface{}{"error": err.Error()})
			pageCache = nil
		}
	}

	fetcher := scrape.NewFetcher(cfg.Scrape, pageCache, log)
	searcher := search.FromConfig(cfg.Search, log)
	analyst := research.NewLLMAnalyst(llmClient)
	collector := research.NewCollector(searcher, fetcher, analyst, cfg.Research, cfg.Scrape, log)
	researcher := research.NewResearcher(collector, cfg.Research, log)
	generator := content.NewGenerator(llmClient, cfg, log)

	store := storage.New(cfg.Output.BaseDir, log)
	if err := store.Setup(); err != nil {
		log.Error("storage setup failed", map[string]interface{}{"error": err.Error()})
		os.Exit(1)
	}

	run := runner.New(cfg, researcher, generator, store, log)
	if err := run.Run(context.Background(), *productFlag, *dryRunFlag); err != nil {
		log.Error("run failed", map[string]interface{}{"error": err.Error()})
		os.Exit(1)
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFromFile(path)
	}
	return config.Load()
}
