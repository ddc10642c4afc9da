package evaluation

import (
	"strings"

	"github.com/jdkato/prose/v2"
	"go.uber.org/zap"

	"github.com/clinsim/backend/pkg/logger"
)

// NoteStats are surface-level text measurements of the submitted note,
// computed locally and attached to the evaluation result. They give the
// UI something to display about conciseness independent of model judgment.
type NoteStats struct {
	CharCount      int            `json:"char_count"`
	TokenCount     int            `json:"token_count"`
	SentenceCount  int            `json:"sentence_count"`
	SectionLengths map[string]int `json:"section_lengths"`
}

// ComputeNoteStats tokenizes the four sections. Tokenization failure is not
// worth failing an evaluation over, so errors degrade to character counts
// only.
func ComputeNoteStats(note *SoapNote) *NoteStats {
	stats := &NoteStats{
		SectionLengths: map[string]int{
			"S": len([]rune(note.Subjective)),
			"O": len([]rune(note.Objective)),
			"A": len([]rune(note.Assessment)),
			"P": len([]rune(note.Plan)),
		},
	}
	full := strings.Join([]string{note.Subjective, note.Objective, note.Assessment, note.Plan}, "\n")
	stats.CharCount = len([]rune(full))

	doc, err := prose.NewDocument(full,
		prose.WithExtraction(false),
		prose.WithTagging(false),
	)
	if err != nil {
		logger.Warn("note tokenization failed", zap.Error(err))
		return stats
	}

	stats.TokenCount = len(doc.Tokens())
	stats.SentenceCount = len(doc.Sentences())
	return stats
}
