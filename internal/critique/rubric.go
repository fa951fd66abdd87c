package critique

import "slices"

// CriterionKey identifies one rubric item.
type CriterionKey string

const (
	CriterionOpening      CriterionKey = "opening"
	CriterionBackground   CriterionKey = "background"
	CriterionSkills       CriterionKey = "skills"
	CriterionAchievements CriterionKey = "achievements"
	CriterionRoleFit      CriterionKey = "role_fit"
	CriterionClosing      CriterionKey = "closing"
)

type rubricItem struct {
	Key      CriterionKey
	Name     string
	Example  string
	Keywords []string
}

// rubric is the six-part self-introduction structure, in speaking order.
var rubric = []rubricItem{
	{
		Key:     CriterionOpening,
		Name:    "開場簡介",
		Example: "您好，我是XXX，一位有X年經驗的XXX",
		Keywords: []string{
			"我是", "我叫", "身份", "專業定位", "經驗", "年數", "領域",
			"工程師", "開發者", "程式設計師", "資深", "初級", "中級",
		},
	},
	{
		Key:     CriterionBackground,
		Name:    "學經歷概述",
		Example: "我畢業於XXX，在XXX公司擔任XXX",
		Keywords: []string{
			"學歷", "畢業", "大學", "碩士", "博士", "工作經歷", "任職", "擔任",
			"相關經驗", "職位", "公司", "服務", "工作", "經歷", "背景",
		},
	},
	{
		Key:     CriterionSkills,
		Name:    "核心技能與強項",
		Example: "我熟悉XXX技術，擅長XXX",
		Keywords: slices.Concat(
			[]string{"技術", "技能", "軟技能", "專長", "優勢", "擅長", "熟悉", "會"},
			techTerms,
			[]string{"程式語言", "框架", "資料庫", "雲端", "機器學習", "ai", "devops"},
		),
	},
	{
		Key:     CriterionAchievements,
		Name:    "代表成果",
		Example: "我曾經XXX，提升了X%效率",
		Keywords: []string{
			"專案", "項目", "開發", "建立", "完成", "達成", "提升", "改善", "具體成果", "數據",
			"影響力", "價值", "成就", "貢獻", "效率", "降低", "增加", "優化", "實作", "建置",
		},
	},
	{
		Key:     CriterionRoleFit,
		Name:    "與職缺的連結",
		Example: "我認為這個職位與我的XXX經驗匹配",
		Keywords: []string{
			"職位", "工作", "公司", "團隊", "匹配", "適合", "目標", "動機",
			"希望", "想要", "貢獻", "加入", "發展", "成長", "學習",
		},
	},
	{
		Key:     CriterionClosing,
		Name:    "結語與期待",
		Example: "期待能為貴公司貢獻我的專長",
		Keywords: []string{
			"期待", "希望", "感謝", "謝謝", "合作", "學習", "成長",
			"貢獻", "機會", "未來", "發展", "態度", "意願", "請多指教",
		},
	},
}

// techTerms are concrete technologies. Mentioning any of them lets the
// skill verbs count even when phrased differently.
var techTerms = []string{
	"python", "java", "javascript", "react", "vue", "angular", "node", "django",
	"flask", "spring", "mysql", "postgresql", "mongodb", "docker", "kubernetes",
	"aws", "azure", "linux", "git", "html", "css", "typescript", "php", "c++",
	"golang", "rust",
}

var skillVerbs = map[string]bool{"會": true, "熟悉": true, "擅長": true}

func rubricByKey(key CriterionKey) (rubricItem, bool) {
	for _, item := range rubric {
		if item.Key == key {
			return item, true
		}
	}
	return rubricItem{}, false
}
