package services

import (
	"strings"

	"github.com/sahilchouksey/qbank-api/model"
)

// OptionInput is the proposed shape of one answer option, before persistence.
type OptionInput struct {
	Text        string `json:"text" validate:"required"`
	IsCorrect   bool   `json:"is_correct"`
	Explanation string `json:"explanation,omitempty"`
	References  string `json:"references,omitempty"`
}

// ValidateQuestionStructure enforces the per-type structural rules on a
// question's answer options before it is allowed to exist. Pure check, no
// side effects; evaluated on create and again on update whenever the type or
// option set changes. Returns nil or a BadRequestError whose reason is
// surfaced verbatim.
func ValidateQuestionStructure(qType model.QuestionType, options []OptionInput, assertion, reasoning string) error {
	if qType != model.QuestionTypeAssertionReasoning && len(options) == 0 {
		return BadRequest("Options are required")
	}

	correct := 0
	for _, opt := range options {
		if opt.IsCorrect {
			correct++
		}
	}

	switch qType {
	case model.QuestionTypeSingleChoice:
		if len(options) < 2 {
			return BadRequest("Single choice questions must have at least two options")
		}
		if correct != 1 {
			return BadRequest("Single choice questions must have exactly one correct answer")
		}

	case model.QuestionTypeMultipleChoice:
		if len(options) < 2 {
			return BadRequest("Multiple choice questions must have at least two options")
		}
		if correct < 2 {
			return BadRequest("Multiple choice questions must have at least two correct answers")
		}

	case model.QuestionTypeTrueFalse:
		if len(options) != 2 {
			return BadRequest("True/False questions must have exactly two options")
		}
		if correct != 1 {
			return BadRequest("True/False questions must have exactly one correct answer")
		}

	case model.QuestionTypeAssertionReasoning:
		if len(options) != 4 {
			return BadRequest("Assertion-Reasoning questions must have exactly four options")
		}
		if strings.TrimSpace(assertion) == "" || strings.TrimSpace(reasoning) == "" {
			return BadRequest("Assertion and reasoning are required for Assertion-Reasoning questions")
		}

	default:
		return BadRequest("Unknown question type")
	}

	return nil
}
