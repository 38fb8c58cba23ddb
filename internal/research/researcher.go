// internal/research/researcher.go
package research

import (
	"context"
	"time"

	"blogforge/internal/common/config"
	"blogforge/internal/common/logger"
	"blogforge/internal/common/observability"
)

// Researcher runs the linear research pipeline for one product:
// claims, reviews, scam reports, evidence, score, decision.
type Researcher struct {
	collector *Collector
	threshold int
	logger    logger.Logger
	now       func() time.Time
}

func NewResearcher(collector *Collector, cfg config.ResearchConfig, log logger.Logger) *Researcher {
	return &Researcher{
		collector: collector,
		threshold: cfg.TrustScoreThreshold,
		logger:    log.WithFields(map[string]interface{}{"component": "researcher"}),
		now:       time.Now,
	}
}

// Research produces the immutable record for a single product run. Collector
// channels never fail; the only way out is a complete record.
func (r *Researcher) Research(ctx context.Context, product *Product) *Record {
	start := r.now()

	r.logger.Info("researching product", map[string]interface{}{
		"product": product.Name,
	})

	scraped := r.collector.CollectClaims(ctx, product.LandingPage)
	reviews := r.collector.CollectReviews(ctx, product.Name)
	scam := r.collector.CollectScamReports(ctx, product.Name)
	evidence := r.collector.CollectEvidence(ctx, scraped.Claims, product.Keywords)

	trustScore := Score(scraped, reviews, scam, evidence)
	approved := trustScore >= r.threshold

	record := &Record{
		ProductName:    product.Name,
		TrustScore:     trustScore,
		Approved:       approved,
		Claims:         scraped.Claims,
		Benefits:       scraped.Benefits,
		Ingredients:    scraped.Ingredients,
		RedFlags:       scraped.RedFlags,
		Evidence:       evidence,
		Reviews:        *reviews,
		ScamCheck:      *scam,
		Recommendation: Recommend(trustScore),
		ResearchedAt:   r.now().UTC(),
	}

	observability.RecordResearch(r.now().Sub(start), approved)

	r.logger.Info("research decided", map[string]interface{}{
		"product":    product.Name,
		"trustScore": trustScore,
		"approved":   approved,
		"evidence":   len(evidence),
		"redFlags":   len(scraped.RedFlags),
	})

	return record
}
