package interview

import (
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/abhisek/interviewer/internal/session"
)

const minSuggestions = 3

var defaultSuggestions = []string{
	"📖 建議準備更多技術問題的標準答案",
	"🤝 多進行模擬面試，增加實戰經驗",
	"🎯 繼續練習面試表達，保持自信和清晰的溝通",
}

// Summarize renders the end-of-interview report from the session.
func Summarize(s *session.Session) string {
	var b strings.Builder
	b.WriteString("🎯 面試總結報告\n\n")

	if s.IntroText != "" {
		b.WriteString("📝 自我介紹評價：\n")
		b.WriteString(introHighlights(s.IntroCritique))
		b.WriteString("\n\n")
	}

	scores := s.Scores()
	avg := average(scores)
	if s.QuestionsAsked > 0 || len(scores) > 0 {
		b.WriteString("💬 面試問答表現：\n")
		fmt.Fprintf(&b, "📊 共出題 %d 題，作答 %d 次\n", s.QuestionsAsked, len(scores))
		if len(scores) > 0 {
			fmt.Fprintf(&b, "📈 平均評分：%.1f/100\n", avg)
			fmt.Fprintf(&b, "🎯 整體表現：%s\n", performanceBand(avg))
		}
		b.WriteString("\n")
	}

	b.WriteString("💡 改進建議：\n")
	for i, sg := range summarySuggestions(s, scores, avg) {
		fmt.Fprintf(&b, "%d. %s\n", i+1, sg)
	}
	b.WriteString("\n輸入「重新開始」可以再練習一次。")
	return b.String()
}

func average(scores []int) float64 {
	if len(scores) == 0 {
		return 0
	}
	sum := 0
	for _, s := range scores {
		sum += s
	}
	return float64(sum) / float64(len(scores))
}

func performanceBand(avg float64) string {
	switch {
	case avg >= 90:
		return "🌟 優秀 - 回答準確深入，展現了扎實的專業能力"
	case avg >= 80:
		return "👍 良好 - 回答基本正確，具備相關知識基礎"
	case avg >= 70:
		return "✅ 尚可 - 有一定理解，但需要加強深度"
	default:
		return "📚 需要改進 - 建議加強相關知識學習"
	}
}

// introHighlights picks up to three short score or verdict lines from the
// critique report.
func introHighlights(report string) string {
	var points []string
	for _, line := range strings.Split(report, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || utf8.RuneCountInString(line) >= 100 {
			continue
		}
		switch {
		case strings.Contains(line, "評分"):
			points = append(points, "📊 "+line)
		case strings.HasPrefix(line, "✅"), strings.HasPrefix(line, "❌"):
			points = append(points, line)
		}
		if len(points) == 3 {
			break
		}
	}
	if len(points) == 0 {
		return "✅ 自我介紹內容已收到並分析，展現了您的背景和能力。"
	}
	return strings.Join(points, "\n")
}

func summarySuggestions(s *session.Session, scores []int, avg float64) []string {
	var out []string

	if s.IntroText != "" {
		if utf8.RuneCountInString(s.IntroText) < 100 {
			out = append(out, "🗣️ 自我介紹可以更加詳細，包含更多具體的經驗和成果")
		} else {
			out = append(out, "✅ 自我介紹內容豐富，繼續保持這種表達風格")
		}
	}

	if len(scores) > 0 {
		if avg < 80 {
			out = append(out,
				"📚 建議加強技術知識的深度，多練習具體案例的解釋",
				"💭 回答時可以提供更多具體的例子和實際經驗")
		} else {
			out = append(out, "🎯 保持良好的回答品質，可以嘗試更深入的技術討論")
		}
	}

	if s.QuestionsAsked < 3 {
		out = append(out, "⏰ 建議完成更多面試問題，以獲得更全面的練習")
	}

	for _, d := range defaultSuggestions {
		if len(out) >= minSuggestions {
			break
		}
		if !slices.Contains(out, d) {
			out = append(out, d)
		}
	}
	return out
}
