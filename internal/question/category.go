package question

import (
	"strings"
	"unicode/utf8"
)

var categories = []struct {
	name     string
	keywords []string
}{
	{"自我介紹", []string{"介紹", "自己", "背景", "經歷"}},
	{"技術能力", []string{"技術", "技能", "程式", "開發", "程式設計"}},
	{"專案經驗", []string{"專案", "經驗", "實作", "作品"}},
	{"問題解決", []string{"問題", "解決", "困難", "挑戰"}},
	{"團隊合作", []string{"團隊", "合作", "溝通", "協作"}},
	{"學習能力", []string{"學習", "成長", "進步", "新技術"}},
}

// Category labels the question by its first matching topic.
func (q Question) Category() string {
	text := strings.ToLower(q.Text)
	for _, c := range categories {
		for _, kw := range c.keywords {
			if strings.Contains(text, kw) {
				return c.name
			}
		}
	}
	return "一般問題"
}

// Difficulty estimates difficulty from question length.
func (q Question) Difficulty() string {
	switch n := utf8.RuneCountInString(q.Text); {
	case n < 50:
		return "簡單"
	case n < 100:
		return "中等"
	default:
		return "困難"
	}
}
