package passtrength

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name     string
		password string
		maxScore Score
		minScore Score
	}{
		{name: "empty password", password: "", maxScore: TerriblyBad, minScore: TerriblyBad},
		{name: "dictionary word", password: "password", maxScore: Bad, minScore: TerriblyBad},
		{name: "short digits", password: "1234", maxScore: Bad, minScore: TerriblyBad},
		{name: "long random-looking password", password: "Str0ng!Pass99xQ", maxScore: Strong, minScore: Good},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Evaluate(tt.password)
			assert.GreaterOrEqual(t, got, tt.minScore)
			assert.LessOrEqual(t, got, tt.maxScore)
		})
	}
}

func TestEvaluate_Deterministic(t *testing.T) {
	first := Evaluate("correct horse battery staple")
	for range 5 {
		assert.Equal(t, first, Evaluate("correct horse battery staple"))
	}
}

func TestScore_String(t *testing.T) {
	assert.Equal(t, "Terribly bad", TerriblyBad.String())
	assert.Equal(t, "Bad", Bad.String())
	assert.Equal(t, "Weak", Weak.String())
	assert.Equal(t, "Good", Good.String())
	assert.Equal(t, "Strong", Strong.String())
	assert.Equal(t, "Unknown", Score(42).String())
}
