package scoring

import (
	"encoding/json"
	"strings"
)

// RepairJSON пытается превратить сырой текст LLM в валидный JSON-объект.
// Вход может содержать markdown-ограждения, прозу вокруг объекта, обрыв
// посередине строки и несбалансированные скобки. Возвращает (nil, false),
// если текст невосстановим; никогда не паникует.
//
// Порядок стадий важен: ремонт строк обязан предшествовать балансировке
// скобок, потому что внутри оборванной строки могут быть скобочные символы,
// которые иначе испортили бы подсчёт глубины.
func RepairJSON(raw string) (map[string]interface{}, bool) {
	s := stripMarkdownFences(raw)
	s = extractObjectWindow(s)
	if s == "" {
		return nil, false
	}
	s = truncateUnterminatedString(s)
	s = trimDanglingTail(s)
	s = balanceDelimiters(s)
	s = removeTrailingCommas(s)

	var obj map[string]interface{}
	if err := json.Unmarshal([]byte(s), &obj); err != nil {
		// Дальше не угадываем
		return nil, false
	}
	return obj, true
}

// stripMarkdownFences убирает ограждения ```json ... ``` по краям текста
func stripMarkdownFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		if idx := strings.IndexByte(s, '\n'); idx >= 0 {
			s = s[idx+1:]
		} else {
			s = strings.TrimPrefix(s, "```")
		}
	}
	s = strings.TrimSpace(s)
	if strings.HasSuffix(s, "```") {
		s = s[:len(s)-3]
	}
	return strings.TrimSpace(s)
}

// extractObjectWindow выделяет подстроку от первой '{' до последней '}',
// отбрасывая прозу вокруг. Если '}' нет (обрыв), берётся хвост от первой '{'.
func extractObjectWindow(s string) string {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return ""
	}
	end := strings.LastIndexByte(s, '}')
	if end > start {
		return s[start : end+1]
	}
	return s[start:]
}

// truncateUnterminatedString сканирует текст с учётом кавычек и escape-
// последовательностей; если скан закончился «внутри строки», текст
// усекается до открывающей кавычки оборванной строки.
func truncateUnterminatedString(s string) string {
	inString := false
	escaped := false
	stringStart := -1

	for i := 0; i < len(s); i++ {
		ch := s[i]
		if inString {
			if escaped {
				escaped = false
				continue
			}
			switch ch {
			case '\\':
				escaped = true
			case '"':
				inString = false
			}
			continue
		}
		if ch == '"' {
			inString = true
			stringStart = i
		}
	}

	if inString && stringStart >= 0 {
		return s[:stringStart]
	}
	return s
}

// trimDanglingTail убирает незавершённый хвост вида `"key":` или висящую
// запятую, оставшиеся после усечения оборванной строки
func trimDanglingTail(s string) string {
	for {
		s = strings.TrimRight(s, " \t\r\n")
		if s == "" {
			return s
		}
		last := s[len(s)-1]
		if last == ',' {
			s = s[:len(s)-1]
			continue
		}
		if last == ':' {
			// Откатываемся через ключ-строку перед двоеточием
			rest := strings.TrimRight(s[:len(s)-1], " \t\r\n")
			if !strings.HasSuffix(rest, "\"") {
				return s
			}
			keyStart := findStringOpen(rest)
			if keyStart < 0 {
				return s
			}
			s = rest[:keyStart]
			continue
		}
		return s
	}
}

// findStringOpen находит индекс открывающей кавычки строки, которая
// заканчивается на последнем символе rest (закрывающая кавычка)
func findStringOpen(rest string) int {
	end := len(rest) - 1
	for i := end - 1; i >= 0; i-- {
		if rest[i] != '"' {
			continue
		}
		// Кавычка не считается границей, если экранирована
		backslashes := 0
		for j := i - 1; j >= 0 && rest[j] == '\\'; j-- {
			backslashes++
		}
		if backslashes%2 == 0 {
			return i
		}
	}
	return -1
}

// balanceDelimiters закрывает недостающие '}' и ']' в правильном порядке
// вложенности. Лишний закрывающий символ усекает текст до последней
// сбалансированной позиции.
func balanceDelimiters(s string) string {
	inString := false
	escaped := false
	var stack []byte

	for i := 0; i < len(s); i++ {
		ch := s[i]
		if inString {
			if escaped {
				escaped = false
				continue
			}
			switch ch {
			case '\\':
				escaped = true
			case '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '{', '[':
			stack = append(stack, ch)
		case '}', ']':
			expected := byte('{')
			if ch == ']' {
				expected = '['
			}
			if len(stack) == 0 || stack[len(stack)-1] != expected {
				// Рассинхронизация: усекаем и закрываем то, что открыто
				s = s[:i]
				return appendClosers(s, stack)
			}
			stack = stack[:len(stack)-1]
		}
	}
	return appendClosers(s, stack)
}

// appendClosers дописывает закрывающие символы для незакрытых скобок
func appendClosers(s string, stack []byte) string {
	var b strings.Builder
	b.WriteString(s)
	for i := len(stack) - 1; i >= 0; i-- {
		if stack[i] == '{' {
			b.WriteByte('}')
		} else {
			b.WriteByte(']')
		}
	}
	return b.String()
}

// removeTrailingCommas удаляет запятые непосредственно перед '}' или ']'
func removeTrailingCommas(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	inString := false
	escaped := false

	for i := 0; i < len(s); i++ {
		ch := s[i]
		if inString {
			b.WriteByte(ch)
			if escaped {
				escaped = false
				continue
			}
			switch ch {
			case '\\':
				escaped = true
			case '"':
				inString = false
			}
			continue
		}
		if ch == '"' {
			inString = true
			b.WriteByte(ch)
			continue
		}
		if ch == ',' {
			j := i + 1
			for j < len(s) && (s[j] == ' ' || s[j] == '\t' || s[j] == '\n' || s[j] == '\r') {
				j++
			}
			if j < len(s) && (s[j] == '}' || s[j] == ']') {
				continue // запятая перед закрывающей скобкой опускается
			}
		}
		b.WriteByte(ch)
	}
	return b.String()
}
