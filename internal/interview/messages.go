package interview

import (
	"fmt"
	"strings"

	"github.com/abhisek/interviewer/internal/question"
)

const welcomeText = `👋 歡迎來到模擬面試！

面試流程：自我介紹 → 自我介紹分析 → 技術問答 → 面試總結。
輸入「開始面試」即可開始，過程中隨時輸入「重新開始」可以重來。`

const introInstructions = `好的，我們開始面試！🎤

請先做一段自我介紹，可以分成多則訊息傳送。建議涵蓋：
1. 開場簡介：姓名、身份與專業定位
2. 學經歷概述：學歷與相關工作經歷
3. 核心技能與強項
4. 代表成果：具體專案與量化成效
5. 與職缺的連結：為什麼適合這個職位
6. 結語與期待

介紹完畢後，請輸入「介紹完了」。`

const (
	restartPrefix     = "🔄 面試已重新開始。\n\n"
	completedText     = "面試已經結束。如需重新開始，請輸入「重新開始」。"
	noQuestionText    = "目前沒有進行中的題目。輸入「下一題」取得新問題。"
	noQuestionScored  = "⚠️ 目前沒有進行中的題目，以下評分未參照標準答案。"
	answerFollowUp    = "輸入「下一題」取得新問題，「標準答案」查看參考答案，「結束面試」查看總結。"
	toQuestioningText = "接下來進入技術問答環節。"
	storeFailedText   = "系統暫時無法讀取面試狀態，請稍後再試。"
	generalChatText   = "我是模擬面試官。輸入「開始面試」開始完整流程，或輸入「請給我問題」直接練習答題。"
)

func introAck(n int) string {
	return fmt.Sprintf("📝 已記錄（第 %d 段）。請繼續，或輸入「介紹完了」進行分析。", n)
}

func formatQuestion(q question.Question) string {
	var b strings.Builder
	b.WriteString("🎯 面試問題\n\n")
	fmt.Fprintf(&b, "問題：%s\n", q.Text)
	fmt.Fprintf(&b, "類別：%s｜難度：%s\n", q.Category(), q.Difficulty())
	fmt.Fprintf(&b, "來源：%s\n\n", q.Source)
	b.WriteString("請直接回答這個問題。")
	return b.String()
}

func formatReference(q question.Question) string {
	return fmt.Sprintf("✅ 標準答案\n\n問題：%s\n標準答案：%s\n來源：%s", q.Text, q.StandardAnswer, q.Source)
}
