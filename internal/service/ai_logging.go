package service

import (
	"log"
	"strings"
	"unicode/utf8"
)

// 长文草稿可能非常长，日志里只保留开头片段。
const modelLogSnippetRunes = 800

// logModelExchange 记录一次模型交互的方向与内容片段，方便排查提示词与模型输出。
func logModelExchange(feature, direction, text string) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		log.Printf("draftsmith-ai %s %s: <empty>", feature, direction)
		return
	}

	total := utf8.RuneCountInString(trimmed)
	snippet := trimmed
	if total > modelLogSnippetRunes {
		snippet = string([]rune(trimmed)[:modelLogSnippetRunes]) + "…"
	}
	log.Printf("draftsmith-ai %s %s (%d runes): %s", feature, direction, total, snippet)
}
