package bot

import (
	"unicode/utf16"
	"unicode/utf8"
)

// Лимит Telegram на длину сообщения в UTF-16 code units
const maxMessageLength = 4096

// splitMessage режет текст на части не длиннее limit UTF-16 code units.
// Разрез делается по последнему переводу строки, если он есть в пределах
// части, иначе по границе символа. Склейка частей дает исходный текст.
func splitMessage(text string, limit int) []string {
	if limit <= 0 || utf16Len(text) <= limit {
		return []string{text}
	}

	var chunks []string
	for text != "" {
		cut, lastNewline, units := 0, -1, 0
		for cut < len(text) {
			r, size := utf8.DecodeRuneInString(text[cut:])
			n := runeUnits(r)
			if units+n > limit {
				break
			}
			units += n
			cut += size
			if r == '\n' {
				lastNewline = cut
			}
		}

		switch {
		case cut == len(text):
			chunks = append(chunks, text)
			return chunks
		case lastNewline > 0:
			cut = lastNewline
		case cut == 0:
			// символ длиннее лимита
			_, cut = utf8.DecodeRuneInString(text)
		}
		chunks = append(chunks, text[:cut])
		text = text[cut:]
	}
	return chunks
}

func utf16Len(s string) int {
	n := 0
	for _, r := range s {
		n += runeUnits(r)
	}
	return n
}

func runeUnits(r rune) int {
	if n := len(utf16.Encode([]rune{r})); n > 0 {
		return n
	}
	// некорректный UTF-8 отправляется как U+FFFD
	return 1
}
