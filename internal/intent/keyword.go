package intent

import (
	"context"
	"slices"
	"strings"
	"unicode"
)

// Normalize lowercases s and drops all whitespace, so phrase matching is
// insensitive to case and spacing.
func Normalize(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return unicode.ToLower(r)
	}, s)
}

// Text is a message prepared for phrase matching.
type Text struct {
	compact string   // Normalize output
	words   []string // lowercased Latin words in order
}

// Prepare normalizes message once for any number of PhraseSet checks.
func Prepare(message string) Text {
	return Text{compact: Normalize(message), words: latinWords(message)}
}

// latinWords splits s into lowercased words of letters, digits and
// apostrophes. Han characters and punctuation separate words.
func latinWords(s string) []string {
	s = strings.ReplaceAll(strings.ToLower(s), "\u2019", "'")
	return strings.FieldsFunc(s, func(r rune) bool {
		if r == '\'' {
			return false
		}
		return unicode.Is(unicode.Han, r) || !(unicode.IsLetter(r) || unicode.IsDigit(r))
	})
}

func hasHan(s string) bool {
	for _, r := range s {
		if unicode.Is(unicode.Han, r) {
			return true
		}
	}
	return false
}

// PhraseSet matches messages against fixed phrases. Chinese phrases match
// anywhere in the whitespace-free message. Latin phrases match only as
// whole words, so "quit" does not fire inside "quite".
type PhraseSet struct {
	cjk   []string
	latin [][]string
	whole bool
}

// NewPhraseSet normalizes phrases once up front.
func NewPhraseSet(phrases ...string) PhraseSet {
	var ps PhraseSet
	for _, p := range phrases {
		if hasHan(p) {
			if n := Normalize(p); n != "" {
				ps.cjk = append(ps.cjk, n)
			}
			continue
		}
		if w := latinWords(p); len(w) > 0 {
			ps.latin = append(ps.latin, w)
		}
	}
	return ps
}

// NewCommandSet is a PhraseSet whose phrases must make up the entire
// message, ignoring case, spacing and punctuation. It suits bare words
// like "exit" that also occur in ordinary sentences.
func NewCommandSet(phrases ...string) PhraseSet {
	ps := NewPhraseSet(phrases...)
	ps.whole = true
	return ps
}

// Match reports whether message contains one of the phrases.
func (ps PhraseSet) Match(message string) bool {
	return ps.MatchText(Prepare(message))
}

// MatchText is Match for an already prepared message.
func (ps PhraseSet) MatchText(t Text) bool {
	for _, p := range ps.cjk {
		if ps.whole {
			if strings.TrimFunc(t.compact, unicode.IsPunct) == p {
				return true
			}
		} else if strings.Contains(t.compact, p) {
			return true
		}
	}
	for _, p := range ps.latin {
		if ps.whole {
			if slices.Equal(t.words, p) && !hasHan(t.compact) {
				return true
			}
		} else if containsRun(t.words, p) {
			return true
		}
	}
	return false
}

// containsRun reports whether phrase occurs as consecutive words.
func containsRun(words, phrase []string) bool {
	for i := 0; i+len(phrase) <= len(words); i++ {
		if slices.Equal(words[i:i+len(phrase)], phrase) {
			return true
		}
	}
	return false
}

type keywordRule struct {
	intent  Intent
	phrases PhraseSet
}

// keywordRules are checked in order. Reference-answer requests come before
// question requests since both mention questions and answers.
var keywordRules = []keywordRule{
	{GetStandardAnswer, NewPhraseSet("標準答案", "参考答案", "參考答案", "正確答案", "standard answer", "reference answer", "model answer")},
	{GetQuestion, NewPhraseSet("請給我問題", "请给我问题", "給我問題", "下一題", "下一题", "下一個問題", "新問題", "出題", "next question", "give me a question", "another question", "ask me a question")},
	{StartInterview, NewPhraseSet("開始面試", "开始面试", "start interview", "start the interview", "begin interview", "let's start")},
	{Introduction, NewPhraseSet("自我介紹", "自我介绍", "介紹一下我自己", "introduce myself", "self-introduction", "about myself")},
	{AnalyzeAnswer, NewPhraseSet("我的回答", "我的答案", "分析我的回答", "幫我評分", "my answer is", "score my answer", "grade my answer")},
}

// KeywordClassifier matches fixed phrase sets.
type KeywordClassifier struct{}

func (KeywordClassifier) Name() string { return "keyword" }

func (KeywordClassifier) Classify(_ context.Context, message string) (Intent, bool) {
	t := Prepare(message)
	for _, rule := range keywordRules {
		if rule.phrases.MatchText(t) {
			return rule.intent, true
		}
	}
	return "", false
}
