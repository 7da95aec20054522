package service

import "strings"

// ContentSnapshot 描述一次版本创建所携带的内容载荷。
type ContentSnapshot struct {
	Title           string
	Content         string
	MetaDescription string
	Excerpt         string
	Status          string
	FocusKeyword    string
	Keywords        []string
}

// ContentMetrics aggregates the derived scores stored on every version.
type ContentMetrics struct {
	WordCount        int
	KeywordDensity   *float64
	SEOScore         *float64
	ReadabilityScore float64
}

// CalculateMetrics 为内容快照一次性计算全部派生指标。
func CalculateMetrics(snapshot ContentSnapshot) ContentMetrics {
	return ContentMetrics{
		WordCount:        CountWords(snapshot.Content),
		KeywordDensity:   KeywordDensity(snapshot.Content, snapshot.FocusKeyword),
		SEOScore:         SEOScore(snapshot),
		ReadabilityScore: ReadabilityScore(snapshot.Content),
	}
}

// CountWords returns the number of whitespace-delimited tokens in content.
func CountWords(content string) int {
	return len(strings.Fields(content))
}

// KeywordDensity returns the share of words covered by case-insensitive
// phrase matches of keyword. Returns nil when no keyword is supplied and
// 0 for empty content.
func KeywordDensity(content, keyword string) *float64 {
	trimmed := strings.TrimSpace(keyword)
	if trimmed == "" {
		return nil
	}

	density := 0.0
	words := strings.Fields(strings.ToLower(content))
	phrase := strings.Fields(strings.ToLower(trimmed))
	if len(words) > 0 && len(phrase) > 0 && len(phrase) <= len(words) {
		matches := 0
		for i := 0; i+len(phrase) <= len(words); i++ {
			if matchesPhrase(words[i:i+len(phrase)], phrase) {
				matches++
			}
		}
		density = float64(matches) / float64(len(words))
	}

	return &density
}

func matchesPhrase(window, phrase []string) bool {
	for i := range phrase {
		if strings.Trim(window[i], ".,!?;:\"'()") != phrase[i] {
			return false
		}
	}
	return true
}

// ReadabilityScore 计算简化版 Flesch Reading Ease 评分。
// 这是一个启发式估计：音节数按元音连续段近似，不追求语言学精度。
func ReadabilityScore(content string) float64 {
	words := strings.Fields(content)
	if len(words) == 0 {
		return 0
	}

	sentences := 0
	for _, part := range strings.FieldsFunc(content, func(r rune) bool {
		return r == '.' || r == '!' || r == '?'
	}) {
		if strings.TrimSpace(part) != "" {
			sentences++
		}
	}
	if sentences == 0 {
		sentences = 1
	}

	syllables := 0
	for _, word := range words {
		syllables += countSyllables(word)
	}

	avgSentenceLen := float64(len(words)) / float64(sentences)
	avgSyllables := float64(syllables) / float64(len(words))

	score := 206.835 - 1.015*avgSentenceLen - 84.6*avgSyllables
	if score < 0 {
		return 0
	}
	return score
}

func countSyllables(word string) int {
	lower := strings.ToLower(word)
	groups := 0
	inGroup := false
	for _, r := range lower {
		if isVowel(r) {
			if !inGroup {
				groups++
			}
			inGroup = true
		} else {
			inGroup = false
		}
	}

	if strings.HasSuffix(lower, "e") {
		groups--
	}
	if groups < 1 {
		return 1
	}
	return groups
}

func isVowel(r rune) bool {
	switch r {
	case 'a', 'e', 'i', 'o', 'u', 'y':
		return true
	}
	return false
}

// SEOScore 基于标题、描述、正文长度与关键词密度计算 0-100 的综合得分。
// 所有检查均不适用时返回 nil。
func SEOScore(snapshot ContentSnapshot) *float64 {
	score := 0.0
	maxApplicable := 0.0

	title := strings.TrimSpace(snapshot.Title)
	if title != "" {
		maxApplicable += 20
		if n := len([]rune(title)); n >= 30 && n <= 60 {
			score += 20
		} else {
			score += 10
		}
	}

	meta := strings.TrimSpace(snapshot.MetaDescription)
	if meta != "" {
		maxApplicable += 20
		if n := len([]rune(meta)); n >= 120 && n <= 160 {
			score += 20
		} else {
			score += 10
		}
	}

	wordCount := CountWords(snapshot.Content)
	if wordCount > 0 {
		maxApplicable += 20
		switch {
		case wordCount >= 300:
			score += 20
		case wordCount >= 100:
			score += 10
		}
	}

	if strings.TrimSpace(snapshot.FocusKeyword) != "" && wordCount > 0 {
		maxApplicable += 20
		if density := KeywordDensity(snapshot.Content, snapshot.FocusKeyword); density != nil {
			switch {
			case *density > 0.005 && *density < 0.03:
				score += 20
			case *density > 0:
				score += 10
			}
		}
	}

	if len(snapshot.Keywords) > 0 {
		maxApplicable += 20
		score += 20
	}

	if maxApplicable == 0 {
		return nil
	}

	result := score / maxApplicable * 100
	return &result
}
