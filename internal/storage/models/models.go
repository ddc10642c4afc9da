package models

import "time"

// Role tags a transcript utterance. The model replies as patient or
// instructor; the student is user.
type Role string

const (
	RoleUser       Role = "user"
	RolePatient    Role = "patient"
	RoleInstructor Role = "instructor"
	RoleSystem     Role = "system"
)

// Message is one utterance of a session transcript. The ordered slice of
// messages is the only conversation state; there is no separate phase machine.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// PatientProfile is the structured intake sheet shown to the student at
// session start. The three scales are 0-10 NRS values.
type PatientProfile struct {
	Name           string `json:"name"`
	Age            string `json:"age"`
	Gender         string `json:"gender"`
	Occupation     string `json:"occupation"`
	ChiefComplaint string `json:"chiefComplaint"`
	OnsetDate      string `json:"onsetDate"`
	History        string `json:"history"`
	PainScale      int    `json:"painScale"`
	ADLScale       int    `json:"adlScale"`
	SportsScale    int    `json:"sportsScale"`
}

// Case is a training scenario. Immutable once persisted; the
// (ArchetypeID, RegionID, CategoryID) triple drives both case selection and
// knowledge retrieval. ScenarioContext and TrueDiagnosis are hidden from the
// student.
type Case struct {
	ID               string          `json:"id"`
	Title            string          `json:"title"`
	ArchetypeID      string          `json:"archetypeId"`
	RegionID         string          `json:"regionId"`
	CategoryID       string          `json:"categoryId"`
	InitialComplaint string          `json:"initialComplaint"`
	ScenarioContext  string          `json:"scenarioContext"`
	TrueDiagnosis    string          `json:"trueDiagnosis"`
	RequiredFindings []string        `json:"requiredFindings"`
	PatientProfile   *PatientProfile `json:"patientProfile,omitempty"`
}

// KnowledgeItem is a reference-document excerpt tagged with the same
// classification triple as a Case. Insert-only; the relation to cases is
// triple equality, not a foreign key.
type KnowledgeItem struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	FileName    string    `json:"fileName"`
	Content     string    `json:"content"`
	ArchetypeID string    `json:"archetypeId"`
	RegionID    string    `json:"regionId"`
	CategoryID  string    `json:"categoryId"`
	UploadedAt  time.Time `json:"uploadedAt"`
}

// SessionRecord maps a session id to its case so finish/evaluate requests can
// resolve the scenario. Transcripts still travel with each request.
type SessionRecord struct {
	ID        string
	CaseID    string
	CreatedAt time.Time
}

// SoapEvaluationRecord is the audit copy of a two-pass evaluation.
type SoapEvaluationRecord struct {
	ID         string
	SessionID  string
	CaseID     string
	InputHash  string
	QNoteTotal int
	PdqiTotal  int
	ResultJSON string
	CreatedAt  time.Time
}

// SessionResultRecord is the audit copy of a mini-CEX end-of-session rubric.
type SessionResultRecord struct {
	ID         string
	SessionID  string
	CaseID     string
	TotalScore int
	ResultJSON string
	CreatedAt  time.Time
}
