package cases

import "github.com/clinsim/backend/internal/storage/models"

// SeedCases is the in-memory fallback used when a case id or triple has no
// persisted record yet. Content mirrors authored scenarios; generated cases
// are persisted instead of being appended here.
var SeedCases = []models.Case{
	{
		ID:               "case_ankle_atfl_athlete",
		Title:            "バスケ練習中に足首を捻った大学生",
		ArchetypeID:      "athlete",
		RegionID:         "athlete_ankle",
		CategoryID:       "lateral_ligament",
		InitialComplaint: "昨日の練習でジャンプの着地に失敗して、右足首を内側に捻ってしまいました。",
		ScenarioContext:  "21歳男性。バスケットボール部。ジャンプ着地時に内返し強制。受傷直後から外果前方の腫脹と疼痛。荷重歩行は可能だが疼痛あり。前方引き出しテスト陽性相当の病態。",
		TrueDiagnosis:    "前距腓靭帯損傷",
		RequiredFindings: []string{
			"内返し受傷機転",
			"外果前方の腫脹・圧痛",
			"受傷直後の荷重可否",
			"過去の捻挫歴",
			"前方引き出しテスト陽性",
		},
		PatientProfile: &models.PatientProfile{
			Name:           "佐藤 健太",
			Age:            "21歳",
			Gender:         "男性",
			Occupation:     "大学生（バスケットボール部）",
			ChiefComplaint: "右足首の痛みと腫れ",
			OnsetDate:      "昨日、練習中",
			History:        "ジャンプの着地で相手の足の上に乗り、内側に捻った。直後から腫れてきた。",
			PainScale:      6,
			ADLScale:       4,
			SportsScale:    9,
		},
	},
	{
		ID:               "case_knee_acl_athlete",
		Title:            "サッカーの切り返しで膝を痛めた社会人選手",
		ArchetypeID:      "athlete",
		RegionID:         "athlete_knee",
		CategoryID:       "acl",
		InitialComplaint: "試合中に切り返した瞬間、膝がガクッとなって「ブチッ」という音がしました。",
		ScenarioContext:  "24歳女性。社会人サッカー。非接触の方向転換で受傷。断裂音（pop）の自覚あり。受傷後数時間で関節血腫による腫脹。プレー続行不能。",
		TrueDiagnosis:    "前十字靭帯損傷",
		RequiredFindings: []string{
			"非接触の受傷機転",
			"断裂音（pop）の自覚",
			"急速な腫脹（関節血腫）",
			"プレー続行不能",
			"膝くずれ（giving way）の不安感",
		},
		PatientProfile: &models.PatientProfile{
			Name:           "田中 美咲",
			Age:            "24歳",
			Gender:         "女性",
			Occupation:     "会社員（社会人サッカー）",
			ChiefComplaint: "左膝の痛みと腫れ、不安定感",
			OnsetDate:      "3日前、試合中",
			History:        "切り返し動作で非接触受傷。ポップ音あり。数時間で大きく腫れた。",
			PainScale:      7,
			ADLScale:       5,
			SportsScale:    10,
		},
	},
	{
		ID:               "case_elbow_pulled_child",
		Title:            "腕を引っ張られてから動かさなくなった幼児",
		ArchetypeID:      "child",
		RegionID:         "child_trauma",
		CategoryID:       "pulled_elbow",
		InitialComplaint: "さっき手をつないで歩いていて、転びそうになったので腕を引っ張ったら、それから急に腕を動かさなくなってしまって…。",
		ScenarioContext:  "2歳女児。保護者が手を引いた際に発症。患肢を回内位で下垂し使おうとしない。腫脹・変形なし。橈骨頭の亜脱臼（肘内障）。",
		TrueDiagnosis:    "肘内障",
		RequiredFindings: []string{
			"牽引による発症機転",
			"患肢を使わない（偽性麻痺）",
			"腫脹・変形がないこと",
			"回内位で下垂した肢位",
		},
		PatientProfile: &models.PatientProfile{
			Name:           "山本 ひなた",
			Age:            "2歳",
			Gender:         "女児",
			Occupation:     "（保護者同伴）",
			ChiefComplaint: "左腕を動かさない",
			OnsetDate:      "本日、散歩中",
			History:        "転倒しかけた際に保護者が左手を強く引いた。その直後から腕を使わなくなった。",
			PainScale:      5,
			ADLScale:       7,
			SportsScale:    0,
		},
	},
}
