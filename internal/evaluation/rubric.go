package evaluation

import "encoding/json"

// ScoreItem is one rubric dimension from the scoring pass.
type ScoreItem struct {
	Score1to5  int    `json:"score_1to5"`
	Rationale  string `json:"rationale"`
	OneLineFix string `json:"one_line_fix"`
}

// QNoteScores are the seven Q-NOTE attributes, each 1 to 5.
type QNoteScores struct {
	Clear       ScoreItem `json:"Clear"`
	Complete    ScoreItem `json:"Complete"`
	Concise     ScoreItem `json:"Concise"`
	Current     ScoreItem `json:"Current"`
	Organized   ScoreItem `json:"Organized"`
	Prioritized ScoreItem `json:"Prioritized"`
	Sufficient  ScoreItem `json:"Sufficient"`
}

// Pdqi8Scores are the eight PDQI-9 domains minus Up-to-date, each 1 to 5.
type Pdqi8Scores struct {
	Accurate             ScoreItem `json:"Accurate"`
	Thorough             ScoreItem `json:"Thorough"`
	Useful               ScoreItem `json:"Useful"`
	Organized            ScoreItem `json:"Organized"`
	Comprehensible       ScoreItem `json:"Comprehensible"`
	Succinct             ScoreItem `json:"Succinct"`
	Synthesized          ScoreItem `json:"Synthesized"`
	InternallyConsistent ScoreItem `json:"InternallyConsistent"`
}

type Scores struct {
	QNote Qnote `json:"q_note"`
	Pdqi8 Pdqi  `json:"pdqi_8"`
}

// Qnote and Pdqi alias the concrete score structs so Scores reads naturally
// in JSON tags.
type (
	Qnote = QNoteScores
	Pdqi  = Pdqi8Scores
)

type Totals struct {
	QNoteTotal     int    `json:"q_note_total"`
	PdqiTotal      int    `json:"pdqi_total"`
	OverallComment string `json:"overall_comment"`
}

type PriorityFix struct {
	Rank         int    `json:"rank"`
	Issue        string `json:"issue"`
	Why          string `json:"why"`
	Where        string `json:"where"`
	ExamplePatch string `json:"example_patch"`
}

type Flags struct {
	RedFlagsMissing   bool `json:"red_flags_missing"`
	HallucinationHigh bool `json:"hallucination_high"`
}

// SupportedClaim is one note statement audited by the fact-check pass.
type SupportedClaim struct {
	Section        string   `json:"section"`
	ClaimText      string   `json:"claim_text"`
	Support        string   `json:"support"`
	EvidenceQuotes []string `json:"evidence_quotes"`
	Notes          string   `json:"notes"`
}

// MissingItem is transcript information absent from the note.
type MissingItem struct {
	Category       string   `json:"category"`
	Importance     string   `json:"importance"`
	Item           string   `json:"item"`
	EvidenceQuotes []string `json:"evidence_quotes"`
}

// HallucinationItem is a note statement with no transcript support.
type HallucinationItem struct {
	Section  string `json:"section"`
	Item     string `json:"item"`
	Severity string `json:"severity"`
	Why      string `json:"why"`
}

// FactCheckResult is the full output of the fact-check pass.
type FactCheckResult struct {
	Version           string              `json:"version"`
	SupportedClaims   []SupportedClaim    `json:"supported_claims"`
	MissingFromSoap   []MissingItem       `json:"missing_from_soap"`
	HallucinationRisk []HallucinationItem `json:"hallucination_risk"`
}

// SoapEvaluationResult is the combined two-pass output: the scoring pass with
// the fact-check result attached verbatim for display.
type SoapEvaluationResult struct {
	Version          string           `json:"version"`
	Scores           Scores           `json:"scores"`
	Totals           Totals           `json:"totals"`
	PriorityFixesTop []PriorityFix    `json:"priority_fixes_top3"`
	Flags            Flags            `json:"flags"`
	FactCheck        *FactCheckResult `json:"fact_check"`
	NoteStats        *NoteStats       `json:"note_stats,omitempty"`
}

// QNoteMax and PdqiMax are the rubric ceilings (7 and 8 dimensions at 5
// points each).
const (
	QNoteMax = 35
	PdqiMax  = 40
)

// ClampScores forces every dimension score into the 1 to 5 rubric range.
// Model output occasionally strays outside it, and out-of-range values must
// not reach the totals or the persisted audit row.
func ClampScores(r *SoapEvaluationResult) {
	q := &r.Scores.QNote
	p := &r.Scores.Pdqi8
	for _, item := range []*ScoreItem{
		&q.Clear, &q.Complete, &q.Concise, &q.Current, &q.Organized, &q.Prioritized, &q.Sufficient,
		&p.Accurate, &p.Thorough, &p.Useful, &p.Organized, &p.Comprehensible, &p.Succinct,
		&p.Synthesized, &p.InternallyConsistent,
	} {
		if item.Score1to5 < 1 {
			item.Score1to5 = 1
		} else if item.Score1to5 > 5 {
			item.Score1to5 = 5
		}
	}
}

// RecomputeTotals replaces the model-reported totals with sums over the
// individual dimension scores, clamping each into range first. The model
// occasionally mis-adds its own numbers.
func RecomputeTotals(r *SoapEvaluationResult) {
	ClampScores(r)

	q := r.Scores.QNote
	r.Totals.QNoteTotal = q.Clear.Score1to5 + q.Complete.Score1to5 + q.Concise.Score1to5 +
		q.Current.Score1to5 + q.Organized.Score1to5 + q.Prioritized.Score1to5 + q.Sufficient.Score1to5

	p := r.Scores.Pdqi8
	r.Totals.PdqiTotal = p.Accurate.Score1to5 + p.Thorough.Score1to5 + p.Useful.Score1to5 +
		p.Organized.Score1to5 + p.Comprehensible.Score1to5 + p.Succinct.Score1to5 +
		p.Synthesized.Score1to5 + p.InternallyConsistent.Score1to5
}

// MiniCexDimension is one of the six mini-CEX axes, scored 0 to 6.
type MiniCexDimension struct {
	Key     string `json:"key"`
	Label   string `json:"label"`
	Score   int    `json:"score"`
	Max     int    `json:"max"`
	Comment string `json:"comment"`
}

type DetailedFeedback struct {
	GoodPoints   string `json:"good_points"`
	Improvements string `json:"improvements"`
	NextSteps    string `json:"next_steps"`
	PatientVoice string `json:"patient_voice"`
}

type RationaleLink struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// MiniCexResult is the end-of-session rubric.
type MiniCexResult struct {
	TotalScore       int                `json:"total_score"`
	Dimensions       []MiniCexDimension `json:"dimensions"`
	DetailedFeedback DetailedFeedback   `json:"detailed_feedback"`
	RationaleLinks   []RationaleLink    `json:"rationale_links"`
}

// FallbackMiniCex is returned when the coach model call fails. Neutral
// mid-range scores with an explicit notice, so the student still gets a
// result screen.
func FallbackMiniCex() *MiniCexResult {
	dims := []MiniCexDimension{
		{Key: "interview", Label: "病歴（病状の把握）", Score: 3, Max: 6, Comment: "評価サービスに接続できなかったため仮スコアです。"},
		{Key: "exam", Label: "身体診察", Score: 3, Max: 6, Comment: "評価サービスに接続できなかったため仮スコアです。"},
		{Key: "communication", Label: "コミュニケーション能力", Score: 3, Max: 6, Comment: "評価サービスに接続できなかったため仮スコアです。"},
		{Key: "judgment", Label: "臨床判断", Score: 3, Max: 6, Comment: "評価サービスに接続できなかったため仮スコアです。"},
		{Key: "professionalism", Label: "プロフェッショナリズム", Score: 3, Max: 6, Comment: "評価サービスに接続できなかったため仮スコアです。"},
		{Key: "management", Label: "マネジメント", Score: 3, Max: 6, Comment: "評価サービスに接続できなかったため仮スコアです。"},
	}
	total := 0
	for _, d := range dims {
		total += d.Score
	}
	return &MiniCexResult{
		TotalScore: total,
		Dimensions: dims,
		DetailedFeedback: DetailedFeedback{
			GoodPoints:   "自動評価が利用できませんでした。",
			Improvements: "時間をおいて再度セッションを終了してください。",
			NextSteps:    "指導者による振り返りを推奨します。",
			PatientVoice: "（評価サービス停止中）",
		},
		RationaleLinks: []RationaleLink{},
	}
}

// decodeStrict unmarshals model JSON into the target and reports the error.
func decodeStrict(raw string, v interface{}) error {
	return json.Unmarshal([]byte(raw), v)
}
