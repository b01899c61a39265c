package ai

import (
	"fmt"

	"google.golang.org/genai"
)

func QuestionPrompt(topic string, count int) string {
	return fmt.Sprintf("Generate %d difficult technical interview multiple-choice questions about %q.\n"+
		"Each question must have 4 options and one correct answer index (0-3).", count, topic)
}

// QuestionSchema describes an array of multiple-choice questions. All four
// fields are required on every item.
func QuestionSchema() *genai.Schema {
	four := int64(4)
	minIndex, maxIndex := float64(0), float64(3)

	return &genai.Schema{
		Type: genai.TypeArray,
		Items: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"text": {
					Type:        genai.TypeString,
					Description: "The question text",
				},
				"options": {
					Type:        genai.TypeArray,
					Items:       &genai.Schema{Type: genai.TypeString},
					Description: "Array of 4 possible answers",
					MinItems:    &four,
					MaxItems:    &four,
				},
				"correctOptionIndex": {
					Type:        genai.TypeInteger,
					Description: "Index of the correct option (0-3)",
					Minimum:     &minIndex,
					Maximum:     &maxIndex,
				},
				"category": {
					Type:        genai.TypeString,
					Description: "The specific sub-topic or category",
				},
			},
			Required: []string{"text", "options", "correctOptionIndex", "category"},
		},
	}
}
