package ai

import (
	"strings"
	"testing"

	"google.golang.org/genai"
)

func TestQuestionSchema(t *testing.T) {
	schema := QuestionSchema()
	if schema.Type != genai.TypeArray {
		t.Fatalf("Expected array schema, got %s", schema.Type)
	}
	if schema.Items == nil || schema.Items.Type != genai.TypeObject {
		t.Fatalf("Expected object items, got %+v", schema.Items)
	}

	for _, field := range []string{"text", "options", "correctOptionIndex", "category"} {
		if _, ok := schema.Items.Properties[field]; !ok {
			t.Errorf("Expected property %q in item schema", field)
		}
	}
	if len(schema.Items.Required) != 4 {
		t.Errorf("Expected 4 required fields, got %v", schema.Items.Required)
	}

	opts := schema.Items.Properties["options"]
	if opts.MinItems == nil || *opts.MinItems != 4 || opts.MaxItems == nil || *opts.MaxItems != 4 {
		t.Errorf("Expected options to be pinned to exactly 4 items")
	}
}

func TestQuestionPrompt(t *testing.T) {
	prompt := QuestionPrompt("Go channels", 7)
	if !strings.Contains(prompt, "Generate 7 ") {
		t.Errorf("Expected count in prompt, got %q", prompt)
	}
	if !strings.Contains(prompt, `"Go channels"`) {
		t.Errorf("Expected quoted topic in prompt, got %q", prompt)
	}
}
