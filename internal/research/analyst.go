// internal/research/analyst.go
package research

import (
	"context"
	"fmt"
	"strings"
)

const analystSystemPrompt = "You are a product research analyst. Provide accurate, objective analysis."

// Completer is the structured-output LLM surface the analyst depends on.
type Completer interface {
	CompleteJSON(ctx context.Context, system, user, schema string, out interface{}) error
}

// Analyst turns raw page and review text into structured research signals.
type Analyst interface {
	ExtractClaims(ctx context.Context, pageText string) (*ScrapedClaims, error)
	AnalyzeReviews(ctx context.Context, productName string, reviews []string) (*ReviewAnalysis, error)
}

// LLMAnalyst implements Analyst on top of a JSON-validating LLM client.
type LLMAnalyst struct {
	llm Completer
}

func NewLLMAnalyst(llm Completer) *LLMAnalyst {
	return &LLMAnalyst{llm: llm}
}

const claimsSchema = `{
	"type": "object",
	"required": ["claims", "benefits", "red_flags"],
	"properties": {
		"claims": {"type": "array", "items": {"type": "string"}},
		"benefits": {"type": "array", "items": {"type": "string"}},
		"ingredients": {"type": "array", "items": {"type": "string"}},
		"red_flags": {"type": "array", "items": {"type": "string"}}
	}
}`

func (a *LLMAnalyst) ExtractClaims(ctx context.Context, pageText string) (*ScrapedClaims, error) {
	prompt := fmt.Sprintf(`Analyze this product landing page and extract:
1. Main product claims (what it promises to do)
2. Key benefits listed
3. Any ingredients or components mentioned
4. Any red flags (unrealistic claims, pressure tactics, fake urgency)

Product page text:
%s

Return as JSON:
{
    "claims": ["claim1", "claim2"],
    "benefits": ["benefit1", "benefit2"],
    "ingredients": ["ingredient1", "ingredient2"],
    "red_flags": ["flag1", "flag2"]
}`, pageText)

	var out ScrapedClaims
	if err := a.llm.CompleteJSON(ctx, analystSystemPrompt, prompt, claimsSchema, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

const reviewsSchema = `{
	"type": "object",
	"required": ["sentiment_score", "fake_detected"],
	"properties": {
		"sentiment_score": {"type": "number", "minimum": -1, "maximum": 1},
		"fake_detected": {"type": "boolean"},
		"positive_themes": {"type": "array", "items": {"type": "string"}},
		"negative_themes": {"type": "array", "items": {"type": "string"}}
	}
}`

func (a *LLMAnalyst) AnalyzeReviews(ctx context.Context, productName string, reviews []string) (*ReviewAnalysis, error) {
	prompt := fmt.Sprintf(`Analyze these reviews for "%s" and provide:
1. Sentiment score (-1 to 1, where -1 is very negative, 0 is neutral, 1 is very positive)
2. Are there signs of fake reviews?
3. Key themes in positive reviews
4. Key themes in negative reviews

Reviews:
%s

Return as JSON:
{
    "sentiment_score": 0.5,
    "fake_detected": false,
    "positive_themes": ["theme1", "theme2"],
    "negative_themes": ["theme1", "theme2"]
}`, productName, strings.Join(reviews, "\n\n"))

	var out ReviewAnalysis
	if err := a.llm.CompleteJSON(ctx, analystSystemPrompt, prompt, reviewsSchema, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
