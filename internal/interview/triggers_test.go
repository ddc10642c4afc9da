package interview

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyTrigger(t *testing.T) {
	tests := []struct {
		name      string
		utterance string
		want      TriggerKind
	}{
		{"plain history question", "いつから痛みますか？", TriggerNone},
		{"echo request", "エコーで見てみましょう", TriggerUltrasound},
		{"ultrasound word", "超音波検査をお願いします", TriggerUltrasound},
		{"imaging findings", "画像所見を教えてください", TriggerUltrasound},
		{"special test declaration", "前方引き出しテストをします", TriggerSpecialTest},
		{"visual inspection", "患部を見せてください", TriggerVisual},
		{"swelling question", "腫れていますか？", TriggerVisual},
		{"advice request", "どうすればいいですか", TriggerAdvice},
		{"final judgment marker", "【最終判断】前距腓靭帯損傷を疑います", TriggerDifferential},
		{"marker wins over other keywords", "【最終判断】エコーの結果も踏まえて判断します", TriggerDifferential},
		{"marker after leading whitespace", "　【最終判断】前距腓靭帯損傷を疑います", TriggerDifferential},
		{"marker mid-message does not trigger", "次の発言で【最終判断】を出します", TriggerNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyTrigger(tt.utterance))
		})
	}
}

func TestExpectsInstructor(t *testing.T) {
	assert.False(t, ExpectsInstructor(TriggerNone))
	assert.True(t, ExpectsInstructor(TriggerUltrasound))
	assert.True(t, ExpectsInstructor(TriggerDifferential))
}
