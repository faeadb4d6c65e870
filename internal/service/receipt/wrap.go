package receipt

import (
	"strings"
	"unicode/utf8"
)

// wordWrap переносит текст по словам так, чтобы каждая строка укладывалась в width
// символов. Последовательности пробельных символов схлопываются в один пробел.
// Слово длиннее width не разрезается - строка переполняется. Пустой (или целиком
// пробельный) текст дает одну пустую строку: на нее все равно попадет сумма позиции.
func wordWrap(text string, width int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return []string{""}
	}

	var lines []string
	current := words[0]
	for _, word := range words[1:] {
		if utf8.RuneCountInString(current)+1+utf8.RuneCountInString(word) <= width {
			current += " " + word
		} else {
			lines = append(lines, current)
			current = word
		}
	}
	return append(lines, current)
}

// center выравнивает строку по центру поля width, дополняя пробелами с обеих
// сторон. При нечетном остатке лишний пробел уходит вправо (как str.center).
func center(s string, width int) string {
	pad := width - utf8.RuneCountInString(s)
	if pad <= 0 {
		return s
	}
	left := pad / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", pad-left)
}

func padRight(s string, width int) string {
	if pad := width - utf8.RuneCountInString(s); pad > 0 {
		return s + strings.Repeat(" ", pad)
	}
	return s
}

func padLeft(s string, width int) string {
	if pad := width - utf8.RuneCountInString(s); pad > 0 {
		return strings.Repeat(" ", pad) + s
	}
	return s
}
