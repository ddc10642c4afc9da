package evaluation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func allFives() Scores {
	five := ScoreItem{Score1to5: 5}
	return Scores{
		QNote: QNoteScores{
			Clear: five, Complete: five, Concise: five, Current: five,
			Organized: five, Prioritized: five, Sufficient: five,
		},
		Pdqi8: Pdqi8Scores{
			Accurate: five, Thorough: five, Useful: five, Organized: five,
			Comprehensible: five, Succinct: five, Synthesized: five, InternallyConsistent: five,
		},
	}
}

func TestRecomputeTotals(t *testing.T) {
	t.Run("perfect scores hit the rubric ceilings", func(t *testing.T) {
		r := &SoapEvaluationResult{Scores: allFives()}
		RecomputeTotals(r)
		assert.Equal(t, QNoteMax, r.Totals.QNoteTotal)
		assert.Equal(t, PdqiMax, r.Totals.PdqiTotal)
	})

	t.Run("model-reported totals are overwritten", func(t *testing.T) {
		r := &SoapEvaluationResult{Scores: allFives()}
		r.Totals.QNoteTotal = 99
		r.Totals.PdqiTotal = -1
		RecomputeTotals(r)
		assert.Equal(t, 35, r.Totals.QNoteTotal)
		assert.Equal(t, 40, r.Totals.PdqiTotal)
	})

	t.Run("mixed scores sum dimension by dimension", func(t *testing.T) {
		r := &SoapEvaluationResult{Scores: allFives()}
		r.Scores.QNote.Clear.Score1to5 = 2
		r.Scores.Pdqi8.Accurate.Score1to5 = 1
		RecomputeTotals(r)
		assert.Equal(t, 32, r.Totals.QNoteTotal)
		assert.Equal(t, 36, r.Totals.PdqiTotal)
	})

	t.Run("out-of-range scores are clamped before summing", func(t *testing.T) {
		r := &SoapEvaluationResult{Scores: allFives()}
		r.Scores.QNote.Clear.Score1to5 = 9
		r.Scores.QNote.Complete.Score1to5 = -3
		r.Scores.Pdqi8.Accurate.Score1to5 = 0
		RecomputeTotals(r)
		assert.Equal(t, 5, r.Scores.QNote.Clear.Score1to5)
		assert.Equal(t, 1, r.Scores.QNote.Complete.Score1to5)
		assert.Equal(t, 1, r.Scores.Pdqi8.Accurate.Score1to5)
		// 5+1+5+5+5+5+5 and 1+5*7
		assert.Equal(t, 31, r.Totals.QNoteTotal)
		assert.Equal(t, 36, r.Totals.PdqiTotal)
	})
}

func TestClampScores(t *testing.T) {
	r := &SoapEvaluationResult{Scores: allFives()}
	r.Scores.Pdqi8.Succinct.Score1to5 = 100
	r.Scores.QNote.Concise.Score1to5 = -1

	ClampScores(r)

	assert.Equal(t, 5, r.Scores.Pdqi8.Succinct.Score1to5)
	assert.Equal(t, 1, r.Scores.QNote.Concise.Score1to5)
	// In-range scores are untouched.
	assert.Equal(t, 5, r.Scores.QNote.Clear.Score1to5)
}

func TestFallbackMiniCex(t *testing.T) {
	r := FallbackMiniCex()

	assert.Len(t, r.Dimensions, 6)
	sum := 0
	for _, d := range r.Dimensions {
		assert.Equal(t, 6, d.Max)
		sum += d.Score
	}
	assert.Equal(t, sum, r.TotalScore)
	assert.NotNil(t, r.RationaleLinks)
}

func TestComputeNoteStats(t *testing.T) {
	note := &SoapNote{
		Subjective: "Right ankle pain since yesterday.",
		Objective:  "Swelling anterior to the lateral malleolus. Anterior drawer positive.",
		Assessment: "Suspected ATFL injury.",
		Plan:       "Rest and compression.",
	}

	stats := ComputeNoteStats(note)
	assert.Greater(t, stats.CharCount, 0)
	assert.Greater(t, stats.TokenCount, 10)
	assert.GreaterOrEqual(t, stats.SentenceCount, 4)
	assert.Equal(t, len([]rune(note.Subjective)), stats.SectionLengths["S"])
}
