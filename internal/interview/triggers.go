package interview

import "strings"

// TriggerKind classifies a student utterance against the closed keyword set
// that forces the model into the instructor role. The model remains the
// authority on role switching at inference time; this classifier exists so
// the server can observe (and tests can pin down) which utterances are
// expected to switch roles.
type TriggerKind string

const (
	TriggerNone         TriggerKind = "none"
	TriggerUltrasound   TriggerKind = "ultrasound"
	TriggerSpecialTest  TriggerKind = "special_test"
	TriggerVisual       TriggerKind = "visual"
	TriggerDifferential TriggerKind = "differential"
	TriggerAdvice       TriggerKind = "advice"
)

var (
	ultrasoundKeywords = []string{"エコー", "超音波", "US", "画像所見"}

	specialTestKeywords = []string{"テストをします", "テストを行います", "テストします", "ROM測定"}

	visualKeywords = []string{
		"拝見", "見せて", "視診", "観察", "外観", "状態を確認", "患部を見",
		"腫れ", "変色", "顔色",
	}

	adviceKeywords = []string{"アドバイス", "評価", "どうすれば"}
)

// ClassifyTrigger returns the first trigger category the utterance matches.
// The differential marker wins over everything else since it ends the
// interview phase; it only counts when the message begins with it, per the
// prompt contract.
func ClassifyTrigger(utterance string) TriggerKind {
	if strings.HasPrefix(strings.TrimSpace(utterance), differentialMarkerText) {
		return TriggerDifferential
	}
	for _, kw := range ultrasoundKeywords {
		if strings.Contains(utterance, kw) {
			return TriggerUltrasound
		}
	}
	for _, kw := range specialTestKeywords {
		if strings.Contains(utterance, kw) {
			return TriggerSpecialTest
		}
	}
	for _, kw := range visualKeywords {
		if strings.Contains(utterance, kw) {
			return TriggerVisual
		}
	}
	for _, kw := range adviceKeywords {
		if strings.Contains(utterance, kw) {
			return TriggerAdvice
		}
	}
	return TriggerNone
}

// ExpectsInstructor reports whether the classified utterance should be
// answered in the instructor voice.
func ExpectsInstructor(kind TriggerKind) bool {
	return kind != TriggerNone
}
