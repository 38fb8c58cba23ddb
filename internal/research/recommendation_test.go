// internal/research/recommendation_test.go
package research

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecommend_Bands(t *testing.T) {
	tests := []struct {
		score int
		want  string
	}{
		{100, "Highly recommended — strong evidence and positive reviews"},
		{80, "Highly recommended — strong evidence and positive reviews"},
		{79, "Recommended — sufficient evidence and generally positive feedback"},
		{60, "Recommended — sufficient evidence and generally positive feedback"},
		{59, "Proceed with caution — mixed reviews or limited evidence"},
		{40, "Proceed with caution — mixed reviews or limited evidence"},
		{39, "Not recommended — insufficient evidence or negative indicators"},
		{0, "Not recommended — insufficient evidence or negative indicators"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Recommend(tt.score), "score %d", tt.score)
	}
}
