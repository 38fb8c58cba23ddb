// internal/research/score.go
package research

// Score computes the trust score for a product from its four research
// signals. Pure function: baseline 50, weighted adjustments, result clamped
// to [0,100]. Sentiment comparisons are strict; exactly 0.6 or 0.3 earns no
// bonus.
func Score(scraped *ScrapedClaims, reviews *ReviewAnalysis, scam *ScamCheck, evidence []Evidence) int {
	score := 50

	if len(evidence) >= 3 {
		score += 15
	} else if len(evidence) >= 1 {
		score += 10
	}

	if reviews.SentimentScore > 0.6 {
		score += 20
	} else if reviews.SentimentScore > 0.3 {
		score += 10
	}

	if !scam.ScamReportsFound {
		score += 15
	}

	score -= len(scraped.RedFlags) * 5

	if scam.ScamReportsFound {
		score -= 30
	}

	if reviews.FakeDetected {
		score -= 20
	}

	if reviews.SentimentScore < 0 {
		score -= 20
	}

	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
