package prompt

import (
	"fmt"
	"strings"
)

// FactCheckSystemPrompt frames the first evaluation pass: audit each SOAP
// statement against the interview transcript. The model may not infer beyond
// the transcript and must quote evidence for every supported claim.
func FactCheckSystemPrompt(transcript string) string {
	return strings.TrimSpace(fmt.Sprintf(factCheckTemplate, transcript))
}

const factCheckTemplate = `
あなたは医療面接ログとSOAPカルテを突き合わせる「記録監査者」です。
次のルールを必ず守ってください。

【ルール】
1) 医療面接ログに明示されていない情報は「根拠なし」と判定する（推測で補わない）。
2) 判定は必ずログの引用（該当箇所の短い抜粋）を添える。引用ができない場合は根拠なし。
3) 出力は指定されたJSONのみ。余計な文章は禁止。
4) 個人情報は出力に含めない（氏名等は伏せる）。

【medical_interview_transcript】
%s

【出力JSONスキーマ】
{
  "version": "factcheck_v1",
  "supported_claims": [
    {
      "section": "S|O|A|P",
      "claim_text": "...",
      "support": "supported|partial|unsupported",
      "evidence_quotes": ["ログの短い抜粋1"],
      "notes": "不足や曖昧さがあれば短く"
    }
  ],
  "missing_from_soap": [
    {
      "category": "history|symptom|red_flag|medication|allergy|social|preference|other",
      "importance": "critical|important|nice_to_have",
      "item": "SOAPに書かれていないがログにある情報",
      "evidence_quotes": ["ログ抜粋"]
    }
  ],
  "hallucination_risk": [
    {
      "section": "S|O|A|P",
      "item": "ログにないのにSOAPに書かれている内容",
      "severity": "high|medium|low",
      "why": "なぜ根拠がないか"
    }
  ]
}
`

// FactCheckUserPrompt carries the note to be audited.
func FactCheckUserPrompt(soapText string) string {
	return fmt.Sprintf("以下を突き合わせ、SOAPの各文が面接ログで裏付けられるか判定し、JSONで出力してください。\n\n【soap_note】\n%s", soapText)
}

// ScoringSystemPrompt frames the second pass: rubric scoring conditioned on
// the serialized fact-check output. Scores of 4 or more require strong
// transcript support per the embedded rules.
func ScoringSystemPrompt(factCheckJSON string) string {
	return strings.TrimSpace(fmt.Sprintf(scoringTemplate, factCheckJSON))
}

const scoringTemplate = `
あなたは医学教育の評価者です。SOAPノートをQ-NOTE(7属性)とPDQI-8(8ドメイン)で評価します。
ただし、必ず事実照合結果（factcheck）に基づいて採点してください。

【採点ルール（重要）】
- 1～5点のリッカートで評価。
- **4点以上は厳格に**：根拠(ログ整合)が明確で、欠落や混入が軽微な場合のみ許可します。
- factcheckでunsupported/partialが多い場合、Accurate / Internally Consistent / Sufficient を大きく減点してください。
- 出力はJSONのみ。余計な文章は禁止。

【factcheck_json】
%s

【Q-NOTE属性（7）】
- Clear: あいまいさがなく誰が読んでも同一解釈（略語乱用なし）
- Complete: 診断/方針に必要情報が揃う（S/O/A/Pが揃う）
- Concise: 冗長・不要な繰り返しがない
- Current: 現在の状態を反映し古い問題の残存がない
- Organized: SOAP等の標準形式で構造化、配置が適切
- Prioritized: 重要/緊急の問題が上位、強調される
- Sufficient: A/Pを正当化する十分な根拠（S/O）がある

【PDQI-8ドメイン（Up-to-date除外）】
- Accurate
- Thorough
- Useful
- Organized
- Comprehensible
- Succinct
- Synthesized
- Internally Consistent

【出力JSONスキーマ】
{
  "version": "soap_eval_v1",
  "scores": {
    "q_note": {
        "Clear": { "score_1to5": 1, "rationale": "...", "one_line_fix": "..." },
        "Complete": {...},
        "Concise": {...},
        "Current": {...},
        "Organized": {...},
        "Prioritized": {...},
        "Sufficient": {...}
    },
    "pdqi_8": {
        "Accurate": { "score_1to5": 1, "rationale": "...", "one_line_fix": "..." },
        "Thorough": {...},
        "Useful": {...},
        "Organized": {...},
        "Comprehensible": {...},
        "Succinct": {...},
        "Synthesized": {...},
        "InternallyConsistent": {...}
    }
  },
  "totals": {
    "q_note_total": 0,
    "pdqi_total": 0,
    "overall_comment": "総評は2～3文まで"
  },
  "priority_fixes_top3": [
    {
      "rank": 1,
      "issue": "最重要の修正点",
      "why": "理由（安全性・推論・可読性など）",
      "where": "S|O|A|P",
      "example_patch": "差分で1～2行（全面書き換えは禁止）"
    }
  ],
  "flags": {
    "red_flags_missing": true,
    "hallucination_high": true
  }
}
`

// ScoringUserPrompt carries the note to be scored.
func ScoringUserPrompt(soapText string) string {
	return fmt.Sprintf("以下のSOAPノートを、事実照合結果に基づいて評価し、JSONで出力してください。\n\n【soap_note】\n%s", soapText)
}
