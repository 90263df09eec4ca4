package manual

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write fixture %s: %v", name, err)
	}
	return path
}

func TestLoadDirectory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "login.json", `{
		"operation_name": "Login System",
		"description": "Authenticate a user",
		"category": "user",
		"steps": [
			{"action": "open login page"},
			{"action": "enter credentials"},
			{"action": "click login"}
		]
	}`)
	writeFile(t, dir, "create_task.json", `{
		"operation_id": "task-create",
		"operation_name": "Create Task",
		"category": "task",
		"steps": [{"action": "click new task", "step_number": 1}],
		"prerequisites": ["Login System"],
		"expected_result": "task appears in the list"
	}`)
	writeFile(t, dir, "notes.txt", "not a knowledge base file")

	result, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if len(result.Operations) != 2 {
		t.Fatalf("Load() got %d operations, want 2", len(result.Operations))
	}
	if len(result.Errors) != 0 {
		t.Errorf("Load() got %d load errors, want 0: %v", len(result.Errors), result.Errors)
	}

	index := NewIndex(result.Operations)

	op := index.GetByID("login")
	if op == nil {
		t.Fatal("expected id derived from file base name")
	}
	if op.Name != "Login System" {
		t.Errorf("got name %q, want %q", op.Name, "Login System")
	}
	for i, step := range op.Steps {
		if step.StepNumber != i+1 {
			t.Errorf("step %d numbered %d, want positional %d", i, step.StepNumber, i+1)
		}
	}

	op = index.GetByID("task-create")
	if op == nil {
		t.Fatal("expected explicit operation_id to win over file base name")
	}
	if len(op.Prerequisites) != 1 || op.Prerequisites[0] != "Login System" {
		t.Errorf("got prerequisites %v, want [Login System]", op.Prerequisites)
	}
	if op.ExpectedResult != "task appears in the list" {
		t.Errorf("got expected_result %q", op.ExpectedResult)
	}
}

func TestLoadDirectoryPartialFailure(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "good.json", `{"operation_name": "Good", "steps": [{"action": "do it"}]}`)
	writeFile(t, dir, "broken.json", `{not json`)
	writeFile(t, dir, "no_name.json", `{"steps": [{"action": "orphan"}]}`)
	writeFile(t, dir, "no_steps.json", `{"operation_name": "Empty", "steps": []}`)
	writeFile(t, dir, "bad_step.json", `{"operation_name": "BadStep", "steps": [{"description": "no action field"}]}`)

	result, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if len(result.Operations) != 1 {
		t.Errorf("got %d operations, want 1", len(result.Operations))
	}
	if len(result.Errors) != 4 {
		t.Errorf("got %d load errors, want 4: %v", len(result.Errors), result.Errors)
	}
}

func TestLoadDirectoryFailures(t *testing.T) {
	t.Run("path does not exist", func(t *testing.T) {
		if _, err := Load(filepath.Join(t.TempDir(), "missing")); err == nil {
			t.Error("Load() expected error for missing path")
		}
	})

	t.Run("empty directory", func(t *testing.T) {
		if _, err := Load(t.TempDir()); err == nil {
			t.Error("Load() expected error for directory with no JSON files")
		}
	})

	t.Run("all files malformed", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "a.json", `{broken`)
		writeFile(t, dir, "b.json", `{"steps": []}`)
		_, err := Load(dir)
		if err == nil {
			t.Fatal("Load() expected error when no file is usable")
		}
		if !strings.Contains(err.Error(), "no usable") {
			t.Errorf("Load() error = %v, want mention of unusable files", err)
		}
	})
}

func TestLoadLegacyFlat(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "manual.json", `{"A": {"steps": ["x", "y"]}}`)

	result, err := Load(path)
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if len(result.Operations) != 1 {
		t.Fatalf("got %d operations, want 1", len(result.Operations))
	}

	op := result.Operations[0]
	if op.Name != "A" || op.ID != "A" {
		t.Errorf("got name %q id %q, want both %q", op.Name, op.ID, "A")
	}
	want := []Step{
		{StepNumber: 1, Action: "x"},
		{StepNumber: 2, Action: "y"},
	}
	if len(op.Steps) != len(want) {
		t.Fatalf("got %d steps, want %d", len(op.Steps), len(want))
	}
	for i, step := range op.Steps {
		if step.StepNumber != want[i].StepNumber || step.Action != want[i].Action {
			t.Errorf("step %d = %+v, want %+v", i, step, want[i])
		}
	}
}

func TestLoadLegacyList(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "manual.json", `[{"name": "B", "steps": ["z"]}]`)

	result, err := Load(path)
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if len(result.Operations) != 1 {
		t.Fatalf("got %d operations, want 1", len(result.Operations))
	}

	op := result.Operations[0]
	if op.Name != "B" {
		t.Errorf("got name %q, want %q", op.Name, "B")
	}
	if len(op.Steps) != 1 || op.Steps[0].Action != "z" {
		t.Errorf("got steps %+v, want single step z", op.Steps)
	}
}

func TestLoadLegacyNested(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "manual.json", `{
		"operations": {
			"Login System": {"description": "sign in", "steps": ["open page", "enter password"]},
			"View Profile": {"steps": ["open menu", "click profile"]}
		}
	}`)

	result, err := Load(path)
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if len(result.Operations) != 2 {
		t.Fatalf("got %d operations, want 2", len(result.Operations))
	}

	index := NewIndex(result.Operations)
	op := index.GetByName("login system")
	if op == nil {
		t.Fatal("expected nested operation to be loaded")
	}
	if op.Description != "sign in" {
		t.Errorf("got description %q, want %q", op.Description, "sign in")
	}
}

func TestLoadLegacyBareStepList(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "manual.json", `{"C": ["first", "second"]}`)

	result, err := Load(path)
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if len(result.Operations) != 1 || len(result.Operations[0].Steps) != 2 {
		t.Errorf("bare step list not promoted: %+v", result.Operations)
	}
}

func TestLoadLegacyZeroSteps(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "manual.json", `{"Good": {"steps": ["a"]}, "Empty": {"steps": []}}`)

	result, err := Load(path)
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if len(result.Operations) != 1 {
		t.Errorf("got %d operations, want only the non-empty one", len(result.Operations))
	}
	if len(result.Errors) != 1 {
		t.Errorf("got %d load errors, want 1 for the zero-step record", len(result.Errors))
	}
}

func TestLoadSingleFileNotJSON(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "manual.json", `this is not json`)

	if _, err := Load(path); err == nil {
		t.Error("Load() expected error for non-JSON file")
	}
}

func TestExplicitStepNumbersKept(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "reorder.json", `{
		"operation_name": "Reorder",
		"steps": [
			{"action": "second", "step_number": 2},
			{"action": "first", "step_number": 1}
		]
	}`)

	result, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	steps := result.Operations[0].Steps
	if steps[0].StepNumber != 2 || steps[1].StepNumber != 1 {
		t.Errorf("explicit step numbers rewritten: %+v", steps)
	}
}

func TestMixedStepNumbersFallBackToPositional(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "mixed.json", `{
		"operation_name": "Mixed",
		"steps": [
			{"action": "a", "step_number": 7},
			{"action": "b"}
		]
	}`)

	result, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	steps := result.Operations[0].Steps
	if steps[0].StepNumber != 1 || steps[1].StepNumber != 2 {
		t.Errorf("mixed numbering should renumber the whole record: %+v", steps)
	}
}
