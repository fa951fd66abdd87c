package scoring

import (
	"math"
	"sort"
	"strings"
	"unicode/utf8"
)

// Deterministic scores answer against reference by character-level
// similarity. It never fails and needs no model.
func Deterministic(answer, reference string) Result {
	sim := Similarity(answer, reference)
	score := int(math.Round(sim * 100))
	grade := GradeFor(score)

	r := Result{
		Score:       score,
		Grade:       grade,
		Similarity:  math.Round(sim*1000) / 1000,
		Feedback:    deterministicFeedback[grade],
		Differences: Differences(answer, reference),
		Method:      MethodDeterministic,
	}
	r.Suggestions = deterministicSuggestions(r)
	r.clamp()
	return r
}

var deterministicFeedback = map[Grade]string{
	GradeExcellent:        "您的回答非常接近標準答案！",
	GradeGood:             "您的回答基本正確，但還有改進空間。",
	GradeFair:             "您的回答部分正確，建議參考標準答案。",
	GradeNeedsImprovement: "您的回答與標準答案差異較大，建議重新學習相關概念。",
}

func deterministicSuggestions(r Result) []string {
	var out []string
	if r.Score < 60 {
		out = append(out, "建議多練習相關概念", "可以參考標準答案學習")
	}
	if r.Score < 40 {
		out = append(out, "建議重新學習基礎知識")
	}
	if len(r.Differences) > 2 {
		out = append(out, "注意回答的準確性和完整性")
	}
	return out
}

// Similarity returns 2*LCS/(|a|+|b|) over the runes of the lowercased
// inputs. Two empty strings are identical.
func Similarity(a, b string) float64 {
	ra := []rune(strings.ToLower(a))
	rb := []rune(strings.ToLower(b))
	total := len(ra) + len(rb)
	if total == 0 {
		return 1.0
	}
	return 2 * float64(lcsLength(ra, rb)) / float64(total)
}

func lcsLength(a, b []rune) int {
	if len(a) < len(b) {
		a, b = b, a
	}
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				curr[j] = prev[j-1] + 1
			} else {
				curr[j] = max(prev[j], curr[j-1])
			}
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

// Differences lists missing and extra whitespace-delimited terms and flags
// answers under half or over double the reference length.
func Differences(answer, reference string) []string {
	ansTerms := termSet(answer)
	refTerms := termSet(reference)

	var diffs []string
	if missing := subtract(refTerms, ansTerms); len(missing) > 0 {
		diffs = append(diffs, "缺少關鍵字: "+strings.Join(missing, ", "))
	}
	if extra := subtract(ansTerms, refTerms); len(extra) > 0 {
		diffs = append(diffs, "多餘的關鍵字: "+strings.Join(extra, ", "))
	}

	refLen := utf8.RuneCountInString(reference)
	ansLen := utf8.RuneCountInString(answer)
	switch {
	case refLen == 0:
		// No reference length to compare against.
	case float64(ansLen) < float64(refLen)*0.5:
		diffs = append(diffs, "回答過於簡短，建議提供更多細節")
	case float64(ansLen) > float64(refLen)*2:
		diffs = append(diffs, "回答過於冗長，建議簡潔明瞭")
	}
	return diffs
}

func termSet(s string) map[string]bool {
	set := make(map[string]bool)
	for _, f := range strings.Fields(strings.ToLower(s)) {
		set[f] = true
	}
	return set
}

// subtract returns the sorted members of a not in b.
func subtract(a, b map[string]bool) []string {
	var out []string
	for k := range a {
		if !b[k] {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}
