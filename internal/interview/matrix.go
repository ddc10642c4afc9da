package interview

import (
	"strings"

	"github.com/clinsim/backend/internal/prompt"
)

const differentialMarkerText = prompt.DifferentialMarker

// Row labels the differential matrix must carry, in order.
const (
	matrixRowCommon = "よくある疾患"
	matrixRowSevere = "重症度の高い疾患"
)

// bareDiagnoses are names that are invalid without an anatomical qualifier.
var bareDiagnoses = []string{"骨折", "捻挫"}

// ValidateDifferentialMatrix checks an instructor reply produced for the
// final-judgment marker: the Markdown table must contain exactly the two
// classification rows, and no cell may name a bare fracture or sprain
// without an anatomical site.
//
// Used for observation and tests; a failed validation is logged, not
// surfaced to the student.
func ValidateDifferentialMatrix(content string) []string {
	var problems []string

	if !strings.Contains(content, matrixRowCommon) {
		problems = append(problems, "missing row: "+matrixRowCommon)
	}
	if !strings.Contains(content, matrixRowSevere) {
		problems = append(problems, "missing row: "+matrixRowSevere)
	}

	rows := 0
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, "|") {
			continue
		}
		if strings.Contains(trimmed, matrixRowCommon) || strings.Contains(trimmed, matrixRowSevere) {
			rows++
			for _, p := range bareDiagnosisProblems(trimmed) {
				problems = append(problems, p)
			}
		}
	}
	if rows != 2 {
		problems = append(problems, "classification row count is not 2")
	}

	return problems
}

// bareDiagnosisProblems flags cells whose diagnosis name is exactly a bare
// term. Qualified names like 足関節外側靭帯捻挫 contain the term as a suffix
// and pass.
func bareDiagnosisProblems(row string) []string {
	var problems []string
	for _, cell := range strings.Split(row, "|") {
		for _, part := range strings.FieldsFunc(cell, func(r rune) bool {
			return r == '、' || r == ',' || r == '/' || r == '・'
		}) {
			name := strings.TrimSpace(part)
			for _, bare := range bareDiagnoses {
				if name == bare {
					problems = append(problems, "bare diagnosis name: "+bare)
				}
			}
		}
	}
	return problems
}
