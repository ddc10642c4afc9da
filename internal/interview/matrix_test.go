package interview

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const validMatrix = `鑑別疾患の整理です。

| 分類 | 候補 |
|---|---|
| よくある疾患 | 前距腓靭帯損傷、踵腓靭帯損傷 |
| 重症度の高い疾患 | 外果剥離骨折、脛腓靭帯結合損傷 |
`

func TestValidateDifferentialMatrix(t *testing.T) {
	t.Run("well formed matrix has no problems", func(t *testing.T) {
		assert.Empty(t, ValidateDifferentialMatrix(validMatrix))
	})

	t.Run("missing severe row is flagged", func(t *testing.T) {
		content := `| よくある疾患 | 前距腓靭帯損傷 |`
		problems := ValidateDifferentialMatrix(content)
		assert.Contains(t, problems, "missing row: 重症度の高い疾患")
		assert.Contains(t, problems, "classification row count is not 2")
	})

	t.Run("bare fracture without site is flagged", func(t *testing.T) {
		content := `| よくある疾患 | 捻挫 |
| 重症度の高い疾患 | 骨折 |`
		problems := ValidateDifferentialMatrix(content)
		assert.Contains(t, problems, "bare diagnosis name: 骨折")
		assert.Contains(t, problems, "bare diagnosis name: 捻挫")
	})

	t.Run("anatomically qualified names pass", func(t *testing.T) {
		content := `| よくある疾患 | 足関節外側靭帯捻挫 |
| 重症度の高い疾患 | 外果剥離骨折 |`
		assert.Empty(t, ValidateDifferentialMatrix(content))
	})
}
