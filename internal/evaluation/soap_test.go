package evaluation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinsim/backend/internal/storage/models"
)

type fakeJSONProvider struct {
	replies []string
	errs    []error
	calls   int
	temps   []float32
}

func (f *fakeJSONProvider) ChatJSON(ctx context.Context, model, systemPrompt, userPrompt string, temperature float32) (string, error) {
	i := f.calls
	f.calls++
	f.temps = append(f.temps, temperature)
	if i < len(f.errs) && f.errs[i] != nil {
		return "", f.errs[i]
	}
	if i < len(f.replies) {
		return f.replies[i], nil
	}
	return "{}", nil
}

func (f *fakeJSONProvider) EvalModel() string { return "eval-model" }
func (f *fakeJSONProvider) CaseModel() string { return "case-model" }

type fakeAuditStore struct {
	soapRecords    []*models.SoapEvaluationRecord
	sessionRecords []*models.SessionResultRecord
}

func (f *fakeAuditStore) InsertSoapEvaluation(rec *models.SoapEvaluationRecord) error {
	f.soapRecords = append(f.soapRecords, rec)
	return nil
}

func (f *fakeAuditStore) InsertSessionResult(rec *models.SessionResultRecord) error {
	f.sessionRecords = append(f.sessionRecords, rec)
	return nil
}

type fakeCache struct {
	stored map[string]interface{}
}

func (f *fakeCache) GetEvaluation(ctx context.Context, inputHash string, result interface{}) (bool, error) {
	return false, nil
}

func (f *fakeCache) SetEvaluation(ctx context.Context, inputHash string, result interface{}, ttl time.Duration) error {
	if f.stored == nil {
		f.stored = map[string]interface{}{}
	}
	f.stored[inputHash] = result
	return nil
}

const factCheckReply = `{
  "version": "factcheck_v1",
  "supported_claims": [
    {"section": "S", "claim_text": "右足首痛", "support": "supported", "evidence_quotes": ["右足首が痛いです"]}
  ],
  "missing_from_soap": [],
  "hallucination_risk": []
}`

const scoringReply = `{
  "version": "soap_eval_v1",
  "scores": {
    "q_note": {
      "Clear": {"score_1to5": 4, "rationale": "明確", "one_line_fix": ""},
      "Complete": {"score_1to5": 3}, "Concise": {"score_1to5": 4},
      "Current": {"score_1to5": 4}, "Organized": {"score_1to5": 5},
      "Prioritized": {"score_1to5": 3}, "Sufficient": {"score_1to5": 3}
    },
    "pdqi_8": {
      "Accurate": {"score_1to5": 4}, "Thorough": {"score_1to5": 3},
      "Useful": {"score_1to5": 4}, "Organized": {"score_1to5": 5},
      "Comprehensible": {"score_1to5": 4}, "Succinct": {"score_1to5": 4},
      "Synthesized": {"score_1to5": 3}, "InternallyConsistent": {"score_1to5": 4}
    }
  },
  "totals": {"q_note_total": 0, "pdqi_total": 0, "overall_comment": "概ね良好"},
  "priority_fixes_top3": [
    {"rank": 1, "issue": "Oに検査結果が不足", "why": "根拠", "where": "O", "example_patch": "前方引き出しテスト陽性を追記"}
  ],
  "flags": {"red_flags_missing": false, "hallucination_high": false}
}`

func testNote() *SoapNote {
	return &SoapNote{
		Subjective: "右足首痛、昨日受傷",
		Objective:  "外果前方に腫脹",
		Assessment: "前距腓靭帯損傷疑い",
		Plan:       "RICE、固定",
	}
}

func testHistory() []models.Message {
	return []models.Message{
		{Role: models.RoleUser, Content: "どこが痛みますか"},
		{Role: models.RolePatient, Content: "右足首が痛いです"},
	}
}

func TestEvaluateSoapMergesPasses(t *testing.T) {
	provider := &fakeJSONProvider{replies: []string{factCheckReply, scoringReply}}
	store := &fakeAuditStore{}
	cache := &fakeCache{}
	e := NewEvaluator(provider, cache, store, 60)

	result, err := e.EvaluateSoap(context.Background(), "sess_1", "case_1", testNote(), testHistory())
	require.NoError(t, err)

	assert.Equal(t, 2, provider.calls)
	// Fact check is pinned to temperature 0; scoring runs at 0.3.
	assert.Equal(t, float32(0), provider.temps[0])
	assert.Equal(t, float32(0.3), provider.temps[1])

	require.NotNil(t, result.FactCheck)
	assert.Equal(t, "factcheck_v1", result.FactCheck.Version)
	require.Len(t, result.FactCheck.SupportedClaims, 1)

	// Totals come from the dimensions, not the model's zeros.
	assert.Equal(t, 26, result.Totals.QNoteTotal)
	assert.Equal(t, 31, result.Totals.PdqiTotal)

	require.NotNil(t, result.NoteStats)
	assert.Greater(t, result.NoteStats.CharCount, 0)

	require.Len(t, store.soapRecords, 1)
	assert.Equal(t, "case_1", store.soapRecords[0].CaseID)
	assert.Equal(t, 26, store.soapRecords[0].QNoteTotal)
	assert.Len(t, cache.stored, 1)
}

func TestEvaluateSoapFactCheckFailureFailsWholeRequest(t *testing.T) {
	provider := &fakeJSONProvider{errs: []error{errors.New("timeout")}}
	e := NewEvaluator(provider, nil, nil, 0)

	_, err := e.EvaluateSoap(context.Background(), "sess_1", "case_1", testNote(), testHistory())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fact check")
	// The scoring pass must never run after a failed fact check.
	assert.Equal(t, 1, provider.calls)
}

func TestEvaluateSoapUnparseableScoringFails(t *testing.T) {
	provider := &fakeJSONProvider{replies: []string{factCheckReply, "not json at all"}}
	e := NewEvaluator(provider, nil, nil, 0)

	_, err := e.EvaluateSoap(context.Background(), "sess_1", "case_1", testNote(), testHistory())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "scoring")
}

func TestFormatSoapTranscriptSpeakers(t *testing.T) {
	out := FormatSoapTranscript([]models.Message{
		{Role: models.RoleUser, Content: "いつからですか"},
		{Role: models.RolePatient, Content: "昨日からです"},
		{Role: models.RoleInstructor, Content: "視診所見を提示します"},
	})
	assert.Contains(t, out, "[Student]: いつからですか")
	assert.Contains(t, out, "[Patient/Instructor]: 昨日からです")
	assert.Contains(t, out, "[Patient/Instructor]: 視診所見を提示します")
}

const miniCexReply = `{
  "total_score": 24,
  "dimensions": [
    {"key": "interview", "label": "病歴（病状の把握）", "score": 4, "max": 6, "comment": "OPQRSTを概ね網羅"},
    {"key": "exam", "label": "身体診察", "score": 4, "max": 6, "comment": "適切"},
    {"key": "communication", "label": "コミュニケーション能力", "score": 5, "max": 6, "comment": "丁寧"},
    {"key": "judgment", "label": "臨床判断", "score": 4, "max": 6, "comment": "妥当"},
    {"key": "professionalism", "label": "プロフェッショナリズム", "score": 4, "max": 6, "comment": "良好"},
    {"key": "management", "label": "マネジメント", "score": 3, "max": 6, "comment": "要改善"}
  ],
  "detailed_feedback": {
    "good_points": "傾聴姿勢",
    "improvements": "受傷機転の深掘り",
    "next_steps": "レッドフラッグの確認",
    "patient_voice": "安心できました"
  },
  "rationale_links": []
}`

func TestEvaluateSessionSuccess(t *testing.T) {
	provider := &fakeJSONProvider{replies: []string{miniCexReply}}
	store := &fakeAuditStore{}
	e := NewEvaluator(provider, nil, store, 0)

	cs := &models.Case{ID: "case_1", TrueDiagnosis: "前距腓靭帯損傷"}
	result := e.EvaluateSession(context.Background(), "sess_1", cs, testHistory(), "捻挫を疑った")

	require.NotNil(t, result)
	assert.Equal(t, 24, result.TotalScore)
	assert.Len(t, result.Dimensions, 6)
	require.Len(t, store.sessionRecords, 1)
	assert.Equal(t, 24, store.sessionRecords[0].TotalScore)
}

func TestEvaluateSessionFallsBackOnFailure(t *testing.T) {
	provider := &fakeJSONProvider{errs: []error{errors.New("no api key")}}
	e := NewEvaluator(provider, nil, nil, 0)

	cs := &models.Case{ID: "case_1", TrueDiagnosis: "前距腓靭帯損傷"}
	result := e.EvaluateSession(context.Background(), "sess_1", cs, testHistory(), "")

	require.NotNil(t, result)
	assert.Len(t, result.Dimensions, 6)
	assert.Equal(t, FallbackMiniCex().TotalScore, result.TotalScore)
}
