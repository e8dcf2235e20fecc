package services

import (
	"testing"

	"github.com/sahilchouksey/qbank-api/model"
)

func options(correct ...bool) []OptionInput {
	opts := make([]OptionInput, 0, len(correct))
	for _, c := range correct {
		opts = append(opts, OptionInput{Text: "option", IsCorrect: c})
	}
	return opts
}

func TestValidateQuestionStructure(t *testing.T) {
	tests := []struct {
		name       string
		qType      model.QuestionType
		options    []OptionInput
		assertion  string
		reasoning  string
		wantReason string // empty means valid
	}{
		{
			name:       "no options rejected",
			qType:      model.QuestionTypeSingleChoice,
			options:    nil,
			wantReason: "Options are required",
		},
		{
			name:    "single choice minimal valid",
			qType:   model.QuestionTypeSingleChoice,
			options: options(true, false),
		},
		{
			name:       "single choice one option",
			qType:      model.QuestionTypeSingleChoice,
			options:    options(true),
			wantReason: "Single choice questions must have at least two options",
		},
		{
			name:       "single choice two correct",
			qType:      model.QuestionTypeSingleChoice,
			options:    options(true, true),
			wantReason: "Single choice questions must have exactly one correct answer",
		},
		{
			name:       "single choice none correct",
			qType:      model.QuestionTypeSingleChoice,
			options:    options(false, false, false),
			wantReason: "Single choice questions must have exactly one correct answer",
		},
		{
			name:    "multiple choice minimal valid",
			qType:   model.QuestionTypeMultipleChoice,
			options: options(true, true),
		},
		{
			name:       "multiple choice one correct",
			qType:      model.QuestionTypeMultipleChoice,
			options:    options(true, false, false, false),
			wantReason: "Multiple choice questions must have at least two correct answers",
		},
		{
			name:    "true false minimal valid",
			qType:   model.QuestionTypeTrueFalse,
			options: options(true, false),
		},
		{
			name:       "true false three options",
			qType:      model.QuestionTypeTrueFalse,
			options:    options(true, false, false),
			wantReason: "True/False questions must have exactly two options",
		},
		{
			name:       "true false both correct",
			qType:      model.QuestionTypeTrueFalse,
			options:    options(true, true),
			wantReason: "True/False questions must have exactly one correct answer",
		},
		{
			name:      "assertion reasoning minimal valid",
			qType:     model.QuestionTypeAssertionReasoning,
			options:   options(true, false, false, false),
			assertion: "A is true",
			reasoning: "R explains A",
		},
		{
			name:       "assertion reasoning three options",
			qType:      model.QuestionTypeAssertionReasoning,
			options:    options(true, false, false),
			assertion:  "A",
			reasoning:  "R",
			wantReason: "Assertion-Reasoning questions must have exactly four options",
		},
		{
			name:       "assertion reasoning blank assertion",
			qType:      model.QuestionTypeAssertionReasoning,
			options:    options(true, false, false, false),
			assertion:  "   ",
			reasoning:  "R",
			wantReason: "Assertion and reasoning are required for Assertion-Reasoning questions",
		},
		{
			name:       "assertion reasoning missing reasoning",
			qType:      model.QuestionTypeAssertionReasoning,
			options:    options(true, false, false, false),
			assertion:  "A",
			wantReason: "Assertion and reasoning are required for Assertion-Reasoning questions",
		},
		{
			name:       "assertion reasoning zero options allowed past first gate",
			qType:      model.QuestionTypeAssertionReasoning,
			options:    nil,
			assertion:  "A",
			reasoning:  "R",
			wantReason: "Assertion-Reasoning questions must have exactly four options",
		},
		{
			name:       "unknown type rejected",
			qType:      model.QuestionType("essay"),
			options:    options(true, false),
			wantReason: "Unknown question type",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateQuestionStructure(tt.qType, tt.options, tt.assertion, tt.reasoning)
			if tt.wantReason == "" {
				if err != nil {
					t.Fatalf("ValidateQuestionStructure() error = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("ValidateQuestionStructure() = nil, want %q", tt.wantReason)
			}
			reason, ok := IsBadRequest(err)
			if !ok {
				t.Fatalf("error %v is not a BadRequestError", err)
			}
			if reason != tt.wantReason {
				t.Errorf("reason = %q, want %q", reason, tt.wantReason)
			}
		})
	}
}
