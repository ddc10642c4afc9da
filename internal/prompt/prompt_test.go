package prompt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinsim/backend/internal/catalog"
	"github.com/clinsim/backend/internal/storage/models"
)

func testCase() *models.Case {
	return &models.Case{
		ID:               "case_ankle_test",
		Title:            "バスケ練習後の足首痛",
		ArchetypeID:      "athlete",
		RegionID:         "ankle",
		CategoryID:       "atfl",
		InitialComplaint: "昨日の練習で足首をひねってしまって…",
		ScenarioContext:  "21歳男性、バスケットボール部。内反強制での受傷。",
		TrueDiagnosis:    "前距腓靭帯損傷",
		RequiredFindings: []string{"内反受傷機転", "前方引き出しテスト陽性", "外果前方の圧痛"},
		PatientProfile: &models.PatientProfile{
			Name:           "佐藤健",
			Age:            "21歳",
			Gender:         "男性",
			Occupation:     "大学生（バスケットボール部）",
			ChiefComplaint: "右足首が痛い",
			OnsetDate:      "昨日、練習中",
			History:        "ジャンプの着地で内側にひねった",
			PainScale:      6,
			ADLScale:       4,
			SportsScale:    9,
		},
	}
}

func TestBuildPatientSystemPromptDeterministic(t *testing.T) {
	c := testCase()
	archetype := catalog.FindArchetype("athlete")
	require.NotNil(t, archetype)

	first := BuildPatientSystemPrompt(c, archetype, "")
	second := BuildPatientSystemPrompt(c, archetype, "")
	assert.Equal(t, first, second)
}

func TestBuildPatientSystemPromptContent(t *testing.T) {
	c := testCase()
	archetype := catalog.FindArchetype("athlete")
	require.NotNil(t, archetype)

	out := BuildPatientSystemPrompt(c, archetype, "")

	assert.Contains(t, out, c.TrueDiagnosis)
	assert.Contains(t, out, c.PatientProfile.Name)
	assert.Contains(t, out, DifferentialMarker)
	// Role-switch trigger keywords are part of the fixed decision table.
	assert.Contains(t, out, "エコー")
	assert.Contains(t, out, "視診")
	assert.Contains(t, out, "よくある疾患")
	assert.Contains(t, out, "重症度の高い疾患")
	// No knowledge context means no guideline block at all.
	assert.NotContains(t, out, "参照ガイドライン")
}

func TestBuildPatientSystemPromptRAGBlock(t *testing.T) {
	c := testCase()
	archetype := catalog.FindArchetype("athlete")
	require.NotNil(t, archetype)

	out := BuildPatientSystemPrompt(c, archetype, "--- 資料1: 足関節ガイドライン ---\nRICE処置。")
	assert.Contains(t, out, "【参照ガイドライン (RAG)】")
	assert.Contains(t, out, "足関節ガイドライン")
}

func TestBuildPatientSystemPromptProfileFallbacks(t *testing.T) {
	c := testCase()
	c.PatientProfile = nil

	archetype := catalog.FindArchetype("athlete")
	require.NotNil(t, archetype)

	out := BuildPatientSystemPrompt(c, archetype, "")
	assert.Contains(t, out, "Unknown")
	assert.Contains(t, out, c.ScenarioContext)
}

func TestBuildCoachSystemPrompt(t *testing.T) {
	c := testCase()
	transcript := "USER: いつから痛いですか\nPATIENT: 昨日からです"

	out := BuildCoachSystemPrompt(c, transcript, "内反捻挫を疑い、RICEを指導した")
	assert.Contains(t, out, c.TrueDiagnosis)
	assert.Contains(t, out, strings.Join(c.RequiredFindings, ", "))
	assert.Contains(t, out, transcript)
	assert.Contains(t, out, "内反捻挫を疑い、RICEを指導した")
	assert.Contains(t, out, "mini-CEX")
}

func TestFormatQuestionnaire(t *testing.T) {
	t.Run("athlete profile includes sports line", func(t *testing.T) {
		out := FormatQuestionnaire(testCase().PatientProfile)
		assert.Contains(t, out, "【予診票】")
		assert.Contains(t, out, "■ 患者名：佐藤健")
		assert.Contains(t, out, "スポーツ活動の支障度（NRS 0-10）：9")
	})

	t.Run("zero sports scale omits sports line", func(t *testing.T) {
		p := testCase().PatientProfile
		p.SportsScale = 0
		out := FormatQuestionnaire(p)
		assert.NotContains(t, out, "スポーツ活動の支障度")
	})

	t.Run("nil profile yields empty string", func(t *testing.T) {
		assert.Equal(t, "", FormatQuestionnaire(nil))
	})

	t.Run("missing name falls back to Unknown", func(t *testing.T) {
		p := testCase().PatientProfile
		p.Name = ""
		out := FormatQuestionnaire(p)
		assert.Contains(t, out, "■ 患者名：Unknown")
	})
}

func TestEvaluationPromptsEmbedInputs(t *testing.T) {
	factCheck := FactCheckSystemPrompt("[Student]: いつからですか")
	assert.Contains(t, factCheck, "記録監査者")
	assert.Contains(t, factCheck, "factcheck_v1")
	assert.Contains(t, factCheck, "[Student]: いつからですか")

	scoring := ScoringSystemPrompt(`{"version":"factcheck_v1"}`)
	assert.Contains(t, scoring, "soap_eval_v1")
	assert.Contains(t, scoring, "4点以上は厳格に")
	assert.Contains(t, scoring, `{"version":"factcheck_v1"}`)

	user := FactCheckUserPrompt("S:\n右足首痛")
	assert.Contains(t, user, "【soap_note】")
	assert.Contains(t, user, "右足首痛")
}
