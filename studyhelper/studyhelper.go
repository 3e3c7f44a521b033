package studyhelper

import (
	"strings"
)

// Режимы работы помощника
const (
	ModeTips    = "tips"
	ModeSummary = "summary"
)

// Базовые советы, попадают в ответ всегда
var baselineTips = []string{
	"Break the topic into smaller study blocks",
	"Use active recall instead of rereading",
	"Study in short focused sessions (Pomodoro)",
}

// tipTrigger - набор ключевых слов и советы, которые добавляются,
// если хотя бы одно из слов встречается в тексте
type tipTrigger struct {
	keywords []string
	tips     []string
}

// Триггеры проверяются независимо друг от друга, без взаимного исключения.
// Слово "language" входит во все три языковых блока, поэтому одно оно
// добавляет советы сразу по трем языкам. Так задумано.
var tipTriggers = []tipTrigger{
	{
		keywords: []string{"exam", "test"},
		tips: []string{
			"Practice under timed exam conditions",
			"Focus on understanding concepts, not memorisation",
		},
	},
	{
		keywords: []string{"vue"},
		tips: []string{
			"Practice component structure and props",
			"Understand reactivity, refs, and computed values",
		},
	},
	{
		keywords: []string{"express", "backend"},
		tips: []string{
			"Draw the request–response flow of your API",
			"Understand middleware and authentication",
		},
	},
	{
		keywords: []string{"database", "prisma"},
		tips: []string{
			"Review data models and relationships",
			"Practice CRUD operations conceptually",
		},
	},
	{
		keywords: []string{"project"},
		tips: []string{
			"Break the project into tasks and prioritise core features",
		},
	},
	{
		keywords: []string{"language", "spanish"},
		tips: []string{
			"Watch The Language Tutor - Spanish; Spanish After Hours; AIB on Youtube",
			"Speak out loud",
			"Learn phrases, not just words",
			"Learn and understand high-value words like: ser, estar, tener, hacer, ir, decir, por, para, porque, pero",
		},
	},
	{
		keywords: []string{"language", "dutch"},
		tips: []string{
			"Watch Dutchies to be - Learn Dutch with Kim; Learn Dutch with DutchPod101.com; Easy Dutch on Youtube",
			"Speak out loud",
			"Learn phrases, not just words",
			"Learn and understand high-value words like: zijn, hebben, doen, gaan, zeggen, voor, omdat, maar, en, of",
		},
	},
	{
		keywords: []string{"language", "german"},
		tips: []string{
			"Watch Learn German; Easy German; Learn German Fast on Youtube",
			"Speak out loud",
			"Learn phrases, not just words",
			"Learn and understand high-value words like: sein, haben, machen, gehen, sagen, für, weil, aber, und, oder",
		},
	},
}

// Tips подбирает учебные советы по ключевым словам из текста
func Tips(text string) string {
	input := strings.ToLower(text)

	tips := make([]string, 0, len(baselineTips))
	tips = append(tips, baselineTips...)

	for _, trigger := range tipTriggers {
		for _, keyword := range trigger.keywords {
			if strings.Contains(input, keyword) {
				tips = append(tips, trigger.tips...)
				break
			}
		}
	}

	return "Study tips based on your input:\n\n• " + strings.Join(tips, "\n• ")
}

// Summarize берет первые три предложения текста.
// Предложения - это фрагменты между точками, пустые отбрасываются.
func Summarize(text string) string {
	flat := strings.ReplaceAll(text, "\n", " ")

	parts := strings.Split(flat, ".")
	sentences := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			sentences = append(sentences, trimmed)
		}
	}

	if len(sentences) == 0 {
		return "Summary:\nNo meaningful content detected."
	}

	if len(sentences) > 3 {
		sentences = sentences[:3]
	}

	return "Summary:\n" + strings.Join(sentences, ". ") + "."
}
