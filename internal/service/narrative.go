package service

import (
	"strings"
	"time"
)

// NarrativeSection — один блок сгенерированного текста под заголовком `###`
type NarrativeSection struct {
	Heading    string   `json:"heading"`
	Paragraphs []string `json:"paragraphs,omitempty"`
	Bullets    []string `json:"bullets,omitempty"`
}

// NarrativeContent — структурированный нарративный контент для попытки квиза.
// Хранится в ai_contents как JSON; Source отличает ответ LLM от
// персонализированного отката.
type NarrativeContent struct {
	ContentType string             `json:"content_type"`
	Title       string             `json:"title,omitempty"`
	KeyInsights []string           `json:"key_insights,omitempty"`
	Sections    []NarrativeSection `json:"sections"`
	Source      string             `json:"source"` // ai | algorithmic
	GeneratedAt time.Time          `json:"generated_at"`
}

// minNarrativeLength — минимальная суммарная длина текста, ниже которой
// ответ LLM считается пустым и заменяется откатом
const minNarrativeLength = 80

// ParseNarrative разбирает markdown-ответ LLM на секции по заголовкам `###`.
// Маркированные строки собираются в Bullets, остальной текст — в абзацы.
// Текст до первого заголовка попадает в секцию с пустым Heading.
func ParseNarrative(raw string) *NarrativeContent {
	content := &NarrativeContent{}

	var (
		current   *NarrativeSection
		paragraph []string
	)

	flushParagraph := func() {
		if current != nil && len(paragraph) > 0 {
			current.Paragraphs = append(current.Paragraphs, strings.Join(paragraph, " "))
		}
		paragraph = nil
	}
	flushSection := func() {
		flushParagraph()
		if current != nil && (current.Heading != "" || len(current.Paragraphs) > 0 || len(current.Bullets) > 0) {
			content.Sections = append(content.Sections, *current)
		}
		current = nil
	}
	ensureSection := func() {
		if current == nil {
			current = &NarrativeSection{}
		}
	}

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case line == "":
			flushParagraph()
		case strings.HasPrefix(line, "```"):
			// ограждения кода не несут нарративного смысла
		case strings.HasPrefix(line, "### "):
			flushSection()
			current = &NarrativeSection{Heading: strings.TrimSpace(strings.TrimPrefix(line, "### "))}
		case strings.HasPrefix(line, "## "), strings.HasPrefix(line, "# "):
			// верхнеуровневый заголовок трактуем как заголовок документа
			if content.Title == "" {
				content.Title = strings.TrimSpace(strings.TrimLeft(line, "# "))
			} else {
				flushSection()
				current = &NarrativeSection{Heading: strings.TrimSpace(strings.TrimLeft(line, "# "))}
			}
		case isBulletLine(line):
			flushParagraph()
			ensureSection()
			current.Bullets = append(current.Bullets, stripBulletMarker(line))
		default:
			ensureSection()
			paragraph = append(paragraph, line)
		}
	}
	flushSection()

	content.KeyInsights = extractKeyInsights(content.Sections)
	return content
}

// IsUsable сообщает, достаточно ли в контенте текста, чтобы показывать
// его пользователю вместо отката
func (n *NarrativeContent) IsUsable() bool {
	if n == nil || len(n.Sections) == 0 {
		return false
	}
	total := 0
	for _, s := range n.Sections {
		total += len(s.Heading)
		for _, p := range s.Paragraphs {
			total += len(p)
		}
		for _, b := range s.Bullets {
			total += len(b)
		}
	}
	return total >= minNarrativeLength
}

func isBulletLine(line string) bool {
	if strings.HasPrefix(line, "- ") || strings.HasPrefix(line, "* ") || strings.HasPrefix(line, "• ") {
		return true
	}
	// нумерованный список: "1. текст"
	dot := strings.Index(line, ". ")
	if dot <= 0 || dot > 3 {
		return false
	}
	for _, r := range line[:dot] {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func stripBulletMarker(line string) string {
	for _, prefix := range []string{"- ", "* ", "• "} {
		if strings.HasPrefix(line, prefix) {
			return cleanBulletText(strings.TrimPrefix(line, prefix))
		}
	}
	if dot := strings.Index(line, ". "); dot > 0 {
		return cleanBulletText(line[dot+2:])
	}
	return cleanBulletText(line)
}

// cleanBulletText убирает markdown-выделение по краям пункта списка
func cleanBulletText(text string) string {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "**")
	text = strings.TrimSuffix(text, "**")
	return strings.TrimSpace(text)
}

// extractKeyInsights выбирает пункты секции с заголовком про инсайты,
// иначе первые маркированные пункты документа
func extractKeyInsights(sections []NarrativeSection) []string {
	for _, s := range sections {
		heading := strings.ToLower(s.Heading)
		if strings.Contains(heading, "insight") || strings.Contains(heading, "takeaway") {
			return s.Bullets
		}
	}
	for _, s := range sections {
		if len(s.Bullets) > 0 {
			return s.Bullets
		}
	}
	return nil
}
