// Package grading decides whether a submitted answer is correct.
// Evaluation never mutates content; code tasks delegate execution to the
// judge client and fold its failures into an incorrect verdict with
// diagnostics instead of an error.
package grading

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/educode-dev/educode-backend/internal/content"
	"github.com/educode-dev/educode-backend/internal/judge"
)

// ErrUnknownTaskType marks a task whose type has no evaluation strategy.
// Handlers turn it into a client error before anything is evaluated.
var ErrUnknownTaskType = errors.New("unknown task type")

// ErrInvalidPayload marks a submission body that fails validation.
var ErrInvalidPayload = errors.New("invalid payload")

// Verdict is the outcome of evaluating one submission. The diagnostic
// fields are only populated for code tasks and are surfaced to the user
// regardless of correctness.
type Verdict struct {
	Correct       bool
	Output        string
	ConsoleOutput string
	Error         string
}

// Strategy evaluates a submission against one task type.
type Strategy interface {
	Evaluate(task content.Task, payload json.RawMessage) (Verdict, error)
}

// Evaluator routes by task type to the matching Strategy.
type Evaluator struct {
	strategies map[content.TaskType]Strategy
}

func NewEvaluator(runner judge.Client) *Evaluator {
	return &Evaluator{
		strategies: map[content.TaskType]Strategy{
			content.TaskQuiz: quizStrategy{},
			content.TaskText: textStrategy{},
			content.TaskCode: codeStrategy{runner: runner},
		},
	}
}

func (e *Evaluator) Evaluate(task content.Task, payload json.RawMessage) (Verdict, error) {
	s, ok := e.strategies[task.Type]
	if !ok {
		return Verdict{}, fmt.Errorf("%w: %q", ErrUnknownTaskType, task.Type)
	}
	return s.Evaluate(task, payload)
}

var validate = validator.New()

func decodePayload(payload json.RawMessage, dst any) error {
	if err := json.Unmarshal(payload, dst); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	if err := validate.Struct(dst); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return nil
}

type quizStrategy struct{}

// Evaluate is correct iff the selected option exists and is flagged
// correct. A stale or foreign option id is just a wrong answer.
func (quizStrategy) Evaluate(task content.Task, payload json.RawMessage) (Verdict, error) {
	var req struct {
		SelectedOptionID int64 `json:"selected_option_id" validate:"required"`
	}
	if err := decodePayload(payload, &req); err != nil {
		return Verdict{}, err
	}
	for _, opt := range task.Options {
		if opt.ID == req.SelectedOptionID {
			return Verdict{Correct: opt.IsCorrect}, nil
		}
	}
	return Verdict{Correct: false}, nil
}

type textStrategy struct{}

func (textStrategy) Evaluate(task content.Task, payload json.RawMessage) (Verdict, error) {
	var req struct {
		Answer string `json:"answer" validate:"required"`
	}
	if err := decodePayload(payload, &req); err != nil {
		return Verdict{}, err
	}
	return Verdict{Correct: normalize(task.CorrectOutput) == normalize(req.Answer)}, nil
}

type codeStrategy struct {
	runner judge.Client
}

// Evaluate runs the code remotely and compares trimmed stdout against the
// task's trimmed expected output, case- and whitespace-sensitive.
func (s codeStrategy) Evaluate(task content.Task, payload json.RawMessage) (Verdict, error) {
	var req struct {
		Code string `json:"code" validate:"required"`
	}
	if err := decodePayload(payload, &req); err != nil {
		return Verdict{}, err
	}

	res := s.runner.Execute(req.Code, judge.LanguageID(task.Language))

	expected := strings.TrimSpace(task.CorrectOutput)
	received := strings.TrimSpace(res.Output)
	return Verdict{
		Correct:       res.Success && received == expected,
		Output:        res.Output,
		ConsoleOutput: res.ConsoleOutput,
		Error:         res.Error,
	}, nil
}
