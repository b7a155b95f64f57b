package grading_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/educode-dev/educode-backend/internal/content"
	"github.com/educode-dev/educode-backend/internal/grading"
	"github.com/educode-dev/educode-backend/internal/judge"
)

/* ---------------- fake judge client ---------------- */

type fakeRunner struct {
	result    judge.Result
	gotSource string
	gotLangID int
	callCount int
}

func (f *fakeRunner) Execute(source string, languageID int) judge.Result {
	f.callCount++
	f.gotSource = source
	f.gotLangID = languageID
	return f.result
}

func quizTask() content.Task {
	return content.Task{
		ID:   1,
		Type: content.TaskQuiz,
		Options: []content.TaskOption{
			{ID: 10, Text: "wrong", IsCorrect: false},
			{ID: 11, Text: "right", IsCorrect: true},
		},
	}
}

func TestQuizCorrectOption(t *testing.T) {
	e := grading.NewEvaluator(&fakeRunner{})
	v, err := e.Evaluate(quizTask(), json.RawMessage(`{"selected_option_id":11}`))
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if !v.Correct {
		t.Fatalf("expected correct verdict")
	}
}

func TestQuizWrongOption(t *testing.T) {
	e := grading.NewEvaluator(&fakeRunner{})
	v, err := e.Evaluate(quizTask(), json.RawMessage(`{"selected_option_id":10}`))
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if v.Correct {
		t.Fatalf("expected incorrect verdict")
	}
}

func TestQuizUnknownOptionIsJustWrong(t *testing.T) {
	e := grading.NewEvaluator(&fakeRunner{})
	v, err := e.Evaluate(quizTask(), json.RawMessage(`{"selected_option_id":999}`))
	if err != nil {
		t.Fatalf("stale option id must not be an error, got %v", err)
	}
	if v.Correct {
		t.Fatalf("expected incorrect verdict")
	}
}

func TestQuizMissingFieldIsInvalidPayload(t *testing.T) {
	e := grading.NewEvaluator(&fakeRunner{})
	_, err := e.Evaluate(quizTask(), json.RawMessage(`{}`))
	if !errors.Is(err, grading.ErrInvalidPayload) {
		t.Fatalf("expected ErrInvalidPayload, got %v", err)
	}
}

func TestTextNormalizesWhitespaceAndCase(t *testing.T) {
	e := grading.NewEvaluator(&fakeRunner{})
	task := content.Task{Type: content.TaskText, CorrectOutput: "Hello World"}

	cases := []struct {
		answer string
		want   bool
	}{
		{"hello world", true},
		{"  HELLO   world \n", true},
		{"hello", false},
		{"helloworld", false},
	}
	for _, tc := range cases {
		payload, _ := json.Marshal(map[string]string{"answer": tc.answer})
		v, err := e.Evaluate(task, payload)
		if err != nil {
			t.Fatalf("evaluate %q: %v", tc.answer, err)
		}
		if v.Correct != tc.want {
			t.Errorf("answer %q: correct=%v, want %v", tc.answer, v.Correct, tc.want)
		}
	}
}

func TestCodeMatchingOutput(t *testing.T) {
	runner := &fakeRunner{result: judge.Result{Success: true, Output: "42\n", ConsoleOutput: "42\n"}}
	e := grading.NewEvaluator(runner)
	task := content.Task{Type: content.TaskCode, Language: "python", CorrectOutput: "42"}

	v, err := e.Evaluate(task, json.RawMessage(`{"code":"print(42)"}`))
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if !v.Correct {
		t.Fatalf("expected correct verdict, output %q", v.Output)
	}
	if runner.gotLangID != 71 {
		t.Errorf("language id = %d, want 71", runner.gotLangID)
	}
	if runner.gotSource != "print(42)" {
		t.Errorf("source = %q", runner.gotSource)
	}
}

func TestCodeWrongOutputKeepsDiagnostics(t *testing.T) {
	runner := &fakeRunner{result: judge.Result{Success: true, Output: "41", ConsoleOutput: "41"}}
	e := grading.NewEvaluator(runner)
	task := content.Task{Type: content.TaskCode, Language: "go", CorrectOutput: "42"}

	v, err := e.Evaluate(task, json.RawMessage(`{"code":"package main"}`))
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if v.Correct {
		t.Fatalf("expected incorrect verdict")
	}
	if v.Output != "41" || v.ConsoleOutput != "41" {
		t.Errorf("diagnostics not carried: output=%q console=%q", v.Output, v.ConsoleOutput)
	}
}

func TestCodeExecutionFailureIsIncorrectNotError(t *testing.T) {
	runner := &fakeRunner{result: judge.Result{Success: false, Error: "SyntaxError: invalid syntax"}}
	e := grading.NewEvaluator(runner)
	task := content.Task{Type: content.TaskCode, Language: "python", CorrectOutput: "42"}

	v, err := e.Evaluate(task, json.RawMessage(`{"code":"print("}`))
	if err != nil {
		t.Fatalf("execution failure must fold into the verdict, got %v", err)
	}
	if v.Correct {
		t.Fatalf("expected incorrect verdict")
	}
	if v.Error == "" {
		t.Fatalf("expected diagnostics in Error field")
	}
}

func TestUnknownTaskType(t *testing.T) {
	e := grading.NewEvaluator(&fakeRunner{})
	_, err := e.Evaluate(content.Task{Type: "essay"}, json.RawMessage(`{}`))
	if !errors.Is(err, grading.ErrUnknownTaskType) {
		t.Fatalf("expected ErrUnknownTaskType, got %v", err)
	}
}
