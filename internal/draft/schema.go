package draft

import "github.com/abhisek/quizbook/internal/llm"

// BankSchema is the structured output requested from the model. Every
// property is required so providers with strict schema modes accept it.
var BankSchema = &llm.Schema{
	Name:        "question-bank",
	Description: "A multiple-choice question bank for one classroom topic",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"title": map[string]any{
				"type":        "string",
				"description": "Short title for the quiz (2-6 words)",
			},
			"questions": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"question": map[string]any{
							"type":        "string",
							"description": "The question text",
						},
						"choices": map[string]any{
							"type":        "array",
							"description": "Three or four distinct answer options",
							"items":       map[string]any{"type": "string"},
						},
						"answer": map[string]any{
							"type":        "string",
							"description": "The correct option, copied exactly from choices",
						},
					},
					"required":             []any{"question", "choices", "answer"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []any{"title", "questions"},
		"additionalProperties": false,
	},
}

// output mirrors BankSchema.
type output struct {
	Title     string `json:"title"`
	Questions []struct {
		Question string   `json:"question"`
		Choices  []string `json:"choices"`
		Answer   string   `json:"answer"`
	} `json:"questions"`
}
