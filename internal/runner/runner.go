// internal/runner/runner.go
package runner

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"blogforge/internal/common/config"
	apperrors "blogforge/internal/common/errors"
	"blogforge/internal/common/logger"
	"blogforge/internal/common/observability"
	"blogforge/internal/content"
	"blogforge/internal/research"
	"blogforge/internal/storage"
)

// Researcher produces the research record for one product.
type Researcher interface {
	Research(ctx context.Context, product *research.Product) *research.Record
}

// Generator turns an approved record into a post, skipping citation URLs
// already consumed by earlier runs.
type Generator interface {
	Generate(ctx context.Context, product *research.Product, record *research.Record, usedSources map[string]bool) (*content.Post, error)
}

// Store is the persistence surface the runner writes through.
type Store interface {
	SaveResearch(record *research.Record) error
	AppendBlacklist(record *research.Record) error
	SaveContent(post *content.Post) (string, error)
	SaveRunSummary(results []storage.ProductResult) error
	AppendErrorLog(productName string, procErr error) error
	UsedSources() (map[string]bool, error)
	AppendUsedSources(urls []string) error
	WriteSitemap(baseURL string) error
}

// Runner drives the whole invocation: product selection, per-product
// research and generation, and the run summary. Products are processed
// strictly one at a time; an error in one product never stops the next.
type Runner struct {
	cfg        *config.Config
	researcher Researcher
	generator  Generator
	store      Store
	logger     logger.Logger
}

func New(cfg *config.Config, r Researcher, g Generator, s Store, log logger.Logger) *Runner {
	return &Runner{
		cfg:        cfg,
		researcher: r,
		generator:  g,
		store:      s,
		logger:     log,
	}
}

// Run processes the selected products. productFilter narrows the run to one
// product by case-insensitive name match; dryRun stops after research.
func (r *Runner) Run(ctx context.Context, productFilter string, dryRun bool) error {
	runID := uuid.New().String()
	log := r.logger.WithFields(map[string]interface{}{"runId": runID})

	products := r.selectProducts(productFilter)
	if len(products) == 0 {
		log.Warn("no products found to process", map[string]interface{}{
			"filter": productFilter,
		})
		return nil
	}

	log.Info("run started", map[string]interface{}{
		"products": len(products),
		"dryRun":   dryRun,
	})

	var results []storage.ProductResult
	for _, p := range products {
		results = append(results, r.processProduct(ctx, log, p, dryRun))
	}

	completed := 0
	rejected := 0
	for _, result := range results {
		switch result.Status {
		case "completed":
			completed++
		case "rejected":
			rejected++
		}
	}

	log.Info("run finished", map[string]interface{}{
		"total":     len(results),
		"completed": completed,
		"rejected":  rejected,
	})

	if snapshot := observability.Snapshot(); len(snapshot) > 0 {
		fields := make(map[string]interface{}, len(snapshot))
		for name, value := range snapshot {
			fields[name] = value
		}
		log.Info("run metrics", fields)
	}

	if err := r.store.SaveRunSummary(results); err != nil {
		return fmt.Errorf("save run summary: %w", err)
	}

	if completed > 0 && !dryRun && r.cfg.Content.SitemapBaseURL != "" {
		if err := r.store.WriteSitemap(r.cfg.Content.SitemapBaseURL); err != nil {
			log.Error("sitemap write failed", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}

	return nil
}

func (r *Runner) selectProducts(productFilter string) []config.ProductConfig {
	var selected []config.ProductConfig
	for _, p := range r.cfg.Products {
		if productFilter != "" {
			if strings.EqualFold(p.Name, productFilter) {
				selected = append(selected, p)
			}
			continue
		}
		if p.IsEnabled() {
			selected = append(selected, p)
		}
	}
	return selected
}

// processProduct is the per-product error boundary: any error or panic is
// converted into an errored summary entry and an error-log line, and the run
// moves on.
func (r *Runner) processProduct(ctx context.Context, log logger.Logger, pc config.ProductConfig, dryRun bool) (result storage.ProductResult) {
	result = storage.ProductResult{Product: pc.Name, Status: "errored"}

	defer func() {
		if rec := recover(); rec != nil {
			err := fmt.Errorf("panic: %v", rec)
			log.Error("product processing panicked", map[string]interface{}{
				"product": pc.Name,
				"error":   err.Error(),
			})
			r.recordFailure(pc.Name, err, &result)
		}
	}()

	product, err := research.NewProduct(pc)
	if err != nil {
		log.Error("invalid product", map[string]interface{}{
			"product": pc.Name,
			"error":   err.Error(),
		})
		r.recordFailure(pc.Name, apperrors.NewProductInvalidError(err.Error()), &result)
		return result
	}

	record := r.researcher.Research(ctx, product)

	if err := r.store.SaveResearch(record); err != nil {
		log.Error("research persistence failed", map[string]interface{}{
			"product": pc.Name,
			"error":   err.Error(),
		})
		r.recordFailure(pc.Name, err, &result)
		return result
	}

	if !record.Approved {
		log.Info("product rejected", map[string]interface{}{
			"product":    pc.Name,
			"trustScore": record.TrustScore,
			"reason":     record.Recommendation,
		})
		if err := r.store.AppendBlacklist(record); err != nil {
			r.recordFailure(pc.Name, err, &result)
			return result
		}
		observability.RecordProduct("rejected")
		return storage.ProductResult{
			Product:    pc.Name,
			Status:     "rejected",
			TrustScore: record.TrustScore,
			Reason:     record.Recommendation,
		}
	}

	if dryRun {
		log.Info("dry run, skipping content generation", map[string]interface{}{
			"product":    pc.Name,
			"trustScore": record.TrustScore,
		})
		observability.RecordProduct("approved")
		generated := false
		return storage.ProductResult{
			Product:          pc.Name,
			Status:           "approved",
			TrustScore:       record.TrustScore,
			ContentGenerated: &generated,
		}
	}

	usedSources, err := r.store.UsedSources()
	if err != nil {
		log.Warn("used sources unavailable, citations may repeat", map[string]interface{}{
			"error": err.Error(),
		})
		usedSources = nil
	}

	post, err := r.generator.Generate(ctx, product, record, usedSources)
	if err != nil {
		log.Error("content generation failed", map[string]interface{}{
			"product": pc.Name,
			"error":   err.Error(),
		})
		r.recordFailure(pc.Name, apperrors.NewContentFailedError(pc.Name, err), &result)
		return result
	}

	outputPath, err := r.store.SaveContent(post)
	if err != nil {
		r.recordFailure(pc.Name, err, &result)
		return result
	}

	if err := r.store.AppendUsedSources(post.Backlinks); err != nil {
		log.Warn("used sources update failed", map[string]interface{}{
			"product": pc.Name,
			"error":   err.Error(),
		})
	}

	observability.RecordProduct("completed")
	generated := true
	return storage.ProductResult{
		Product:          pc.Name,
		Status:           "completed",
		TrustScore:       record.TrustScore,
		ContentGenerated: &generated,
		OutputPath:       outputPath,
		WordCount:        post.WordCount,
	}
}

func (r *Runner) recordFailure(productName string, err error, result *storage.ProductResult) {
	observability.RecordProduct("errored")
	if logErr := r.store.AppendErrorLog(productName, err); logErr != nil {
		r.logger.Error("error log write failed", map[string]interface{}{
			"product": productName,
			"error":   logErr.Error(),
		})
	}
	result.Product = productName
	result.Status = "errored"
	result.Reason = err.Error()
}
