package draft

import (
	"fmt"
	"strings"
)

const systemPrompt = `You write multiple-choice quizzes for school classrooms. Questions are short, unambiguous and have exactly one correct option.`

func buildUserMessage(req Request) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("Topic: %s\n", req.Topic))
	if req.Grade != "" {
		b.WriteString(fmt.Sprintf("Grade: %s\n", req.Grade))
	}
	b.WriteString(fmt.Sprintf("Number of questions: %d\n", req.Count))

	if len(req.Avoid) > 0 {
		b.WriteString("\nDo not repeat these existing questions:\n")
		for _, q := range req.Avoid {
			b.WriteString(fmt.Sprintf("- %s\n", q))
		}
	}

	b.WriteString(`
Instructions:
1. Write exactly the requested number of questions about the topic.
2. Give each question three or four distinct options.
3. The answer must be copied character for character from the options.
4. Use plain text; no markdown, no numbering inside questions or options.`)

	return b.String()
}
