package interview

import "github.com/abhisek/interviewer/internal/intent"

// Trigger phrases. Chinese phrases match anywhere in the message; English
// phrases match whole words. Bare English commands ("exit", "restart")
// only fire when sent on their own, since answers use them as verbs.
var (
	restartPhrases = intent.NewPhraseSet(
		"重新開始", "重新开始", "重來", "重新面試", "restart interview", "restart the interview",
	)
	restartCommands = intent.NewCommandSet("restart", "start over")

	startPhrases = intent.NewPhraseSet(
		"開始面試", "开始面试", "start interview", "start the interview", "begin interview", "let's start",
	)
	introDonePhrases = intent.NewPhraseSet(
		"介紹完了", "介绍完了", "介紹完畢", "自我介紹結束", "done introducing", "finished introducing",
	)
	exitPhrases = intent.NewPhraseSet(
		"結束面試", "结束面试", "面試結束", "退出面試",
		"stop interview", "stop the interview", "end interview", "end the interview", "exit interview", "quit interview",
	)
	exitCommands = intent.NewCommandSet("exit", "quit", "stop", "i'm done", "done")

	nextQuestionPhrases = intent.NewPhraseSet(
		"請給我問題", "请给我问题", "下一題", "下一题", "下一個問題", "新問題",
		"next question", "give me a question", "another question",
	)
	referencePhrases = intent.NewPhraseSet(
		"標準答案", "参考答案", "參考答案", "standard answer", "reference answer",
	)
)

func isRestart(t intent.Text) bool {
	return restartPhrases.MatchText(t) || restartCommands.MatchText(t)
}

func isExit(t intent.Text) bool {
	return exitPhrases.MatchText(t) || exitCommands.MatchText(t)
}
