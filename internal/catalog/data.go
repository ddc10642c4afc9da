package catalog

// Archetypes is the fixed persona catalog. Each entry owns its own
// region/category navigation tree reflecting the pathologies typical for that
// patient population.
var Archetypes = []Archetype{
	{
		ID:          "child",
		Label:       "幼小児 (Toddler/Child)",
		Description: "保護者同伴。痛みの表現が曖昧。虐待の可能性も考慮。",
		Tone:        "Anxious parent answering for a child. Or a shy child.",
		NavigationGroups: []BodyRegion{
			{
				ID:    "child_trauma",
				Label: "外傷 (Trauma)",
				Categories: []Category{
					{ID: "clavicle_fx", Label: "鎖骨骨折"},
					{ID: "supracondylar_fx", Label: "上腕骨顆上骨折"},
					{ID: "pulled_elbow", Label: "肘内障"},
				},
			},
			{
				ID:    "child_congenital",
				Label: "先天・発育異常 (Congenital)",
				Categories: []Category{
					{ID: "ddh", Label: "発育性股関節形成不全 (DDH)"},
					{ID: "torticollis", Label: "筋性斜頸"},
					{ID: "clubfoot", Label: "内反足"},
				},
			},
			{
				ID:    "child_growth",
				Label: "成長関連疾患 (Growth)",
				Categories: []Category{
					{ID: "perthes", Label: "ペルテス病"},
					{ID: "scfe", Label: "大腿骨頭すべり症 (SCFE)"},
				},
			},
		},
		InterviewFrames: []InterviewFrame{
			{Title: "A. 主訴と経過", Items: []string{"保護者からの聴取", "数日以内"}},
			{Title: "B. 受傷機転・誘因", Items: []string{"不明確が多い", "目を離した隙"}},
			{Title: "C. 痛み・症状の性質", Items: []string{"表現が曖昧", "泣き止まない", "不機嫌"}},
			{Title: "D. 機能障害・生活影響", Items: []string{"歩行拒否", "遊びの中断", "腕を使わない"}},
			{Title: "E. 背景因子", Items: []string{"発達段階", "月齢・年齢", "家庭環境"}},
			{Title: "F. レッドフラッグ", Items: []string{"虐待の可能性", "発育異常の兆候", "意識障害"}},
			{Title: "G. 患者ニーズ・ゴール", Items: []string{"家族の不安解消", "整復完了", "元の生活"}},
		},
	},
	{
		ID:          "growth_student",
		Label:       "成長期・学生 (School Age)",
		Description: "骨端線損傷や骨端症（オスグッド等）が好発。部活動での障害も多い。",
		Tone:        "Active teenager, sometimes vague about pain location.",
		NavigationGroups: []BodyRegion{
			{
				ID:    "growth_knee",
				Label: "膝 (Knee)",
				Categories: []Category{
					{ID: "osgood", Label: "オスグッド病"},
					{ID: "jumper", Label: "ジャンパー膝"},
					{ID: "meniscus", Label: "半月板損傷"},
				},
			},
			{
				ID:    "growth_ankle",
				Label: "足部・足関節 (Foot/Ankle)",
				Categories: []Category{
					{ID: "sever", Label: "シーバー病"},
					{ID: "navicular", Label: "有痛性外脛骨"},
					{ID: "ankle_sprain", Label: "足関節捻挫"},
				},
			},
			{
				ID:    "growth_elbow",
				Label: "肘 (Elbow)",
				Categories: []Category{
					{ID: "baseball_elbow", Label: "野球肘（内側障害）"},
					{ID: "ocd", Label: "離断性骨軟骨炎"},
				},
			},
			{
				ID:    "growth_lumbar",
				Label: "腰 (Lumbar)",
				Categories: []Category{
					{ID: "spondylolysis", Label: "腰椎分離症"},
					{ID: "spondylolisthesis", Label: "腰椎すべり症"},
				},
			},
		},
		InterviewFrames: []InterviewFrame{
			{Title: "A. 主訴と経過", Items: []string{"いつから痛いか", "きっかけは明確か"}},
			{Title: "B. 受傷機転・誘因", Items: []string{"部活の内容", "練習量の変化", "ポジション変更"}},
			{Title: "C. 痛み・症状の性質", Items: []string{"運動時痛", "練習後の痛み", "圧痛の場所"}},
			{Title: "D. 機能障害・生活影響", Items: []string{"学業への支障", "全力で走れない", "正座困難"}},
			{Title: "E. 背景因子", Items: []string{"成長期（身長の伸び）", "身体の硬さ", "競技レベル"}},
			{Title: "F. レッドフラッグ", Items: []string{"夜間痛（骨腫瘍）", "発熱", "体重減少"}},
			{Title: "G. 患者ニーズ・ゴール", Items: []string{"競技継続", "レギュラー争い", "試合出場"}},
		},
	},
	{
		ID:          "athlete",
		Label:       "アスリート (Athlete)",
		Description: "早期の競技復帰を強く希望。外傷（明確な受傷起点）に加え、オーバーユースによる障害も考慮が必要。",
		Tone:        "Stoic, focused on return to play. Knows exact moment of injury.",
		NavigationGroups: []BodyRegion{
			{
				ID:    "athlete_knee",
				Label: "膝 (Knee)",
				Categories: []Category{
					{ID: "acl", Label: "ACL損傷"},
					{ID: "meniscus", Label: "半月板損傷"},
					{ID: "patellar_tendinitis", Label: "膝蓋腱炎"},
				},
			},
			{
				ID:    "athlete_ankle",
				Label: "足関節・足部 (Ankle/Foot)",
				Categories: []Category{
					{ID: "lateral_ligament", Label: "外側靱帯損傷"},
					{ID: "high_ankle", Label: "高位足関節捻挫"},
					{ID: "footballers_ankle", Label: "フットボーラズアンクル"},
				},
			},
			{
				ID:    "athlete_hip",
				Label: "股関節 (Hip)",
				Categories: []Category{
					{ID: "groin_pain", Label: "鼠径部痛症候群"},
					{ID: "fais", Label: "FAIS"},
				},
			},
			{
				ID:    "athlete_shoulder",
				Label: "肩 (Shoulder)",
				Categories: []Category{
					{ID: "rotator_cuff", Label: "腱板損傷"},
					{ID: "impingement", Label: "インピンジメント症候群"},
					{ID: "biceps_tendonitis", Label: "上腕二頭筋長頭腱炎"},
				},
			},
		},
		InterviewFrames: []InterviewFrame{
			{Title: "A. 主訴と経過", Items: []string{"受傷直後の対応", "再発かどうか"}},
			{Title: "B. 受傷機転・誘因", Items: []string{"競技動作の詳細", "接触の有無", "フィールドの状態"}},
			{Title: "C. 痛み・症状の性質", Items: []string{"プレー続行可否", "ロッキング・不安定感", "腫脹のスピード"}},
			{Title: "D. 機能障害・生活影響", Items: []string{"パフォーマンス低下", "フォームの崩れ", "恐怖心"}},
			{Title: "E. 背景因子", Items: []string{"競技レベル", "練習量・頻度", "大事な試合の予定"}},
			{Title: "F. レッドフラッグ", Items: []string{"完全断裂の疑い", "神経損傷合併", "コンパートメント"}},
			{Title: "G. 患者ニーズ・ゴール", Items: []string{"早期復帰 (RTP)", "パフォーマンス向上", "再発予防"}},
		},
	},
	{
		ID:          "worker_adult",
		Label:       "労働者・青壮年 (Worker/Adult)",
		Description: "労働災害や職業病（デスクワークの腰痛、肉体労働の外傷）。日常生活や仕事への早期復帰が鍵。",
		Tone:        "Busy worker, worried about sick leave and income.",
		NavigationGroups: []BodyRegion{
			{
				ID:    "worker_lumbar",
				Label: "腰 (Lumbar)",
				Categories: []Category{
					{ID: "lbp", Label: "腰痛症"},
					{ID: "hernia", Label: "椎間板ヘルニア"},
					{ID: "acute_lbp", Label: "ぎっくり腰"},
				},
			},
			{
				ID:    "worker_upper",
				Label: "頸・肩・上肢 (Neck/Upper Limb)",
				Categories: []Category{
					{ID: "cervicobrachial", Label: "頸肩腕症候群"},
					{ID: "tos", Label: "胸郭出口症候群"},
					{ID: "tennis_elbow", Label: "テニス肘"},
					{ID: "de_quervain", Label: "ドケルバン病"},
					{ID: "cts", Label: "手根管症候群"},
					{ID: "cubital_tunnel", Label: "肘部管症候群"},
				},
			},
		},
		InterviewFrames: []InterviewFrame{
			{Title: "A. 主訴と経過", Items: []string{"仕事中の発生", "徐々に悪化か"}},
			{Title: "B. 受傷機転・誘因", Items: []string{"作業姿勢", "反復動作", "重量物挙上"}},
			{Title: "C. 痛み・症状の性質", Items: []string{"しびれの有無", "安静時痛", "夜間痛"}},
			{Title: "D. 機能障害・生活影響", Items: []string{"仕事への支障", "ADL（着替え・洗顔）", "睡眠障害"}},
			{Title: "E. 背景因子", Items: []string{"職業・職種", "勤続年数", "利き手", "喫煙歴"}},
			{Title: "F. レッドフラッグ", Items: []string{"悪性腫瘍", "感染", "脊髄症状（膀胱直腸障害）"}},
			{Title: "G. 患者ニーズ・ゴール", Items: []string{"就労復帰", "休業補償の不安解消", "配置転換の要否"}},
		},
	},
	{
		ID:          "elderly",
		Label:       "高齢者 (Elderly)",
		Description: "変性疾患、転倒骨折、レッドフラッグ（悪性腫瘍等）。",
		Tone:        "Slow talker, multiple complaints, forgets details.",
		NavigationGroups: []BodyRegion{
			{
				ID:    "elderly_trauma",
				Label: "転倒・外傷 (Trauma)",
				Categories: []Category{
					{ID: "femoral_neck_fx", Label: "大腿骨近位部骨折"},
					{ID: "distal_radius_fx", Label: "橈骨遠位端骨折"},
					{ID: "compression_fx", Label: "脊椎圧迫骨折"},
				},
			},
			{
				ID:    "elderly_degenerative",
				Label: "変性疾患 (Degenerative)",
				Categories: []Category{
					{ID: "knee_oa", Label: "変形性膝関節症"},
					{ID: "hip_oa", Label: "変形性股関節症"},
					{ID: "spinal_stenosis", Label: "脊柱管狭窄症"},
				},
			},
			{
				ID:    "elderly_nerve",
				Label: "神経・二次障害 (Nerve)",
				Categories: []Category{
					{ID: "cts", Label: "手根管症候群"},
					{ID: "cubital_tunnel", Label: "肘部管症候群"},
				},
			},
		},
		InterviewFrames: []InterviewFrame{
			{Title: "A. 主訴と経過", Items: []string{"いつからか（慢性/急性）", "認知機能の影響"}},
			{Title: "B. 受傷機転・誘因", Items: []string{"転倒歴の詳細", "目撃者の有無", "ふらつき"}},
			{Title: "C. 痛み・症状の性質", Items: []string{"関連痛", "日内変動", "天候による変化"}},
			{Title: "D. 機能障害・生活影響", Items: []string{"ADL（排泄・入浴）", "自立度", "歩行能力"}},
			{Title: "E. 背景因子", Items: []string{"既往歴（骨粗鬆症他）", "服薬状況", "社会的孤立"}},
			{Title: "F. レッドフラッグ", Items: []string{"悪性腫瘍の転移", "化膿性関節炎", "病的骨折"}},
			{Title: "G. 患者ニーズ・ゴール", Items: []string{"生活の質の維持", "寝たきり防止", "介護負担軽減"}},
		},
	},
}

// BodyRegions is the default navigation tree used by archetypes without their
// own groups.
var BodyRegions = []BodyRegion{
	{
		ID:    "knee",
		Label: "膝関節 (Knee)",
		Categories: []Category{
			{
				ID:    "knee_trauma",
				Label: "外傷 (Acute Trauma)",
				Subcategories: []Category{
					{ID: "acl", Label: "ACL (前十字靭帯)"},
					{ID: "mcl", Label: "MCL (内側側副靭帯)"},
					{ID: "meniscus", Label: "半月板 (Meniscus)"},
					{ID: "fracture", Label: "骨折 (Fracture)"},
				},
			},
			{
				ID:    "knee_sports",
				Label: "スポーツ障害 (Overuse)",
				Subcategories: []Category{
					{ID: "osgood", Label: "オスグッド"},
					{ID: "jumper", Label: "ジャンパー膝"},
					{ID: "itb", Label: "腸脛靭帯炎"},
				},
			},
			{ID: "knee_oa", Label: "変性 (OA/Chronic)"},
			{ID: "knee_red", Label: "Red Flags"},
		},
	},
	{
		ID:    "shoulder",
		Label: "肩関節 (Shoulder)",
		Categories: []Category{
			{ID: "shoulder_trauma", Label: "外傷"},
			{ID: "shoulder_stiff", Label: "拘縮 (五十肩)"},
		},
	},
	{ID: "lumbar", Label: "腰部 (Lumbar)"},
	{ID: "ankle", Label: "足関節 (Ankle)"},
}
