package prompt

import (
	"fmt"
	"strings"

	"github.com/clinsim/backend/internal/catalog"
	"github.com/clinsim/backend/internal/storage/models"
)

// BuildCaseGenSystemPrompt asks the model to invent a case for a fixed
// archetype/region/category triple. The triple values are embedded in the
// schema so the generated JSON cannot drift from the requested selection.
func BuildCaseGenSystemPrompt(archetype *catalog.Archetype, regionID, categoryID string) string {
	return strings.TrimSpace(fmt.Sprintf(caseGenTemplate, archetype.ID, regionID, categoryID, archetype.Tone))
}

const caseGenTemplate = `
You are a medical education AI.
Create a realistic clinical case scenario for a "Clinical Reasoning Trainer" app.
The case must match the provided Archetype (Patient Persona), Body Region, and Category.
Output strictly in JSON format.

Schema:
{
  "id": "String (Generate a unique slug, e.g. gen_child_elbow_pulled)",
  "title": "String (Short title in Japanese, e.g. '突然泣き出した2歳児')",
  "archetypeId": "%s",
  "regionId": "%s",
  "categoryId": "%s",
  "initialComplaint": "String (What the patient/parent says first in Japanese. Match the tone: '%s')",
  "scenarioContext": "String (Compact context: Age, Gender, HPI, Physical Findings, Vital Signs. Hidden from user.)",
  "patientProfile": {
     "name": "String (Japanese name)",
     "age": "String (e.g. '21歳')",
     "gender": "String (e.g. '男性')",
     "occupation": "String (e.g. '大学生（バスケットボール部）' or '会社員')",
     "chiefComplaint": "String (e.g. '右膝が痛い')",
     "onsetDate": "String (e.g. '5日前、練習中')",
     "history": "String (Brief history: mechanism of injury, current status)",
     "painScale": "Number (0-10 NRS)",
     "adlScale": "Number (0-10 Daily Life Interference)",
     "sportsScale": "Number (0-10 Sports Interference. Must be 0 if not an athlete/student)"
  },
  "trueDiagnosis": "String (The final diagnosis in Japanese)",
  "requiredFindings": ["String (List of 3-5 key findings/history points the user must uncover)"]
}
`

// BuildCaseGenUserPrompt names the concrete selection the generated case
// must satisfy.
func BuildCaseGenUserPrompt(archetype *catalog.Archetype, regionLabel, categoryLabel string) string {
	return fmt.Sprintf(`Generate a case for:
- Archetype: %s (%s)
- Region: %s
- Specific Pathology/Category: %s

Ensure the scenario is medically accurate and typical for this presentation.`,
		archetype.Label, archetype.Description, regionLabel, categoryLabel)
}

// BuildCaseExtractSystemPrompt asks the model to lift a structured case out
// of free document text. Archetype and region ids are constrained to the
// known catalog so extracted cases land on navigable triples.
func BuildCaseExtractSystemPrompt(archetypeIDs, regionIDs []string) string {
	return strings.TrimSpace(fmt.Sprintf(caseExtractTemplate,
		strings.Join(archetypeIDs, ", "), strings.Join(regionIDs, ", ")))
}

const caseExtractTemplate = `
You are a medical data assistant.
Your task is to extract a Clinical Case scenario from the provided text and format it into JSON matching our schema.

Schema:
{
  "id": "String (Generate a unique slug id, e.g. case_knee_acl_athlete)",
  "title": "String (Short title in Japanese)",
  "archetypeId": "One of: [%s]",
  "regionId": "One of: [%s]",
  "categoryId": "String (Small alphanumeric slug for the specific pathology, e.g. acl, fracture)",
  "initialComplaint": "String (What the patient says first, in Japanese. Should be casual/realistic)",
  "scenarioContext": "String (Hidden context for AI simulator: Age, Gender, History, Physical Findings, Truth. Compact format.)",
  "trueDiagnosis": "String (The final diagnosis)",
  "requiredFindings": ["String (List of key findings/history points the user must uncover)"]
}

Ensure the JSON is valid.
`

// maxExtractChars caps document text handed to the extraction model.
const maxExtractChars = 15000

// BuildCaseExtractUserPrompt truncates the document text to a size the
// extraction model accepts.
func BuildCaseExtractUserPrompt(docText string) string {
	runes := []rune(docText)
	if len(runes) > maxExtractChars {
		runes = runes[:maxExtractChars]
	}
	return fmt.Sprintf("Here is the document text (truncated if too long):\n\n%s", string(runes))
}

// FormatQuestionnaire renders the pre-interview questionnaire shown to the
// student at session start. The sports interference line is shown only when
// the profile reports a non-zero sports scale.
func FormatQuestionnaire(p *models.PatientProfile) string {
	if p == nil {
		return ""
	}
	sportsLine := ""
	if p.SportsScale > 0 {
		sportsLine = fmt.Sprintf("\n■ スポーツ活動の支障度（NRS 0-10）：%d", p.SportsScale)
	}
	name := p.Name
	if name == "" {
		name = "Unknown"
	}
	return fmt.Sprintf(`【予診票】
■ 患者名：%s
■ 年齢・性別：%s・%s
■ 職業/所属：%s
■ 主訴：%s
■ 受傷（発症）日時：%s
■ 簡単な経緯：%s
■ 痛みの程度（NRS 0-10）：%d
■ 日常生活の支障度（NRS 0-10）：%d%s
----------------------------
`, name, p.Age, p.Gender, p.Occupation, p.ChiefComplaint, p.OnsetDate, p.History, p.PainScale, p.ADLScale, sportsLine)
}
