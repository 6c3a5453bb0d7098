package runner_test

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"ippinterp/internal/logger"
	"ippinterp/internal/runner"
	"ippinterp/pkg/color"
	"ippinterp/pkg/interpreter"

	"gopkg.in/yaml.v3"
)

type scenario struct {
	Name     string `yaml:"name"`
	Source   string `yaml:"source"`
	Stdin    string `yaml:"stdin"`
	Stdout   string `yaml:"stdout"`
	Code     int    `yaml:"code"`
	MaxSteps int    `yaml:"max_steps"`
}

func TestMain(m *testing.M) {
	logger.InitWriter(io.Discard, false, true)
	color.EnableColor(false)
	os.Exit(m.Run())
}

func loadScenarios(t *testing.T) []scenario {
	t.Helper()

	files, err := filepath.Glob(filepath.Join("testdata", "*.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if len(files) == 0 {
		t.Fatal("no scenario files in testdata")
	}

	var all []scenario
	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			t.Fatal(err)
		}

		var scenarios []scenario
		if err := yaml.Unmarshal(data, &scenarios); err != nil {
			t.Fatalf("%s: %v", file, err)
		}
		all = append(all, scenarios...)
	}
	return all
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestScenarios(t *testing.T) {
	for _, sc := range loadScenarios(t) {
		t.Run(sc.Name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer

			r := runner.Runner{
				SourceFile: writeFile(t, "program", sc.Source),
				MaxSteps:   sc.MaxSteps,
				Stdin:      strings.NewReader(sc.Stdin),
				Stdout:     &stdout,
				Stderr:     &stderr,
			}

			if code := r.Run(); code != sc.Code {
				t.Errorf("expected exit code %d, got %d (stderr: %s)", sc.Code, code, stderr.String())
			}
			if stdout.String() != sc.Stdout {
				t.Errorf("expected stdout %q, got %q", sc.Stdout, stdout.String())
			}
		})
	}
}

func TestMissingParameters(t *testing.T) {
	r := runner.Runner{Stdout: io.Discard, Stderr: io.Discard}
	if code := r.Run(); code != interpreter.CodeMissingParam {
		t.Errorf("expected %d, got %d", interpreter.CodeMissingParam, code)
	}
}

func TestMissingFiles(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing")

	tests := []runner.Runner{
		{SourceFile: missing},
		{InputFile: missing},
		{SourceFile: writeFile(t, "program", ".IPPcode23\n"), InputFile: missing},
	}

	for _, r := range tests {
		r.Stdout, r.Stderr = io.Discard, io.Discard
		if code := r.Run(); code != interpreter.CodeInputFile {
			t.Errorf("expected %d for %+v, got %d", interpreter.CodeInputFile, r, code)
		}
	}
}

func TestProgramFromStdin(t *testing.T) {
	var stdout bytes.Buffer

	r := runner.Runner{
		InputFile: writeFile(t, "input", "first\nsecond\n"),
		Stdin:     strings.NewReader(".IPPcode23\nDEFVAR GF@l\nREAD GF@l string\nREAD GF@l string\nWRITE GF@l\n"),
		Stdout:    &stdout,
		Stderr:    io.Discard,
	}

	if code := r.Run(); code != 0 {
		t.Fatalf("expected success, got %d", code)
	}
	if stdout.String() != "second" {
		t.Errorf("expected %q, got %q", "second", stdout.String())
	}
}

func TestDumpProgram(t *testing.T) {
	var stdout, stderr bytes.Buffer

	r := runner.Runner{
		SourceFile:  writeFile(t, "program", ".IPPcode23\nWRITE string@a\nDPRINT int@1\n"),
		DumpProgram: true,
		Stdin:       strings.NewReader(""),
		Stdout:      &stdout,
		Stderr:      &stderr,
	}

	if code := r.Run(); code != 0 {
		t.Fatalf("expected success, got %d", code)
	}
	if stdout.String() != "a" {
		t.Errorf("listing or diagnostics leaked to stdout: %q", stdout.String())
	}

	diag := stderr.String()
	for _, want := range []string{"=== Program ===", "1: WRITE string@a", "2: DPRINT int@1"} {
		if !strings.Contains(diag, want) {
			t.Errorf("expected %q in stderr, got %q", want, diag)
		}
	}
}

func TestSyntaxErrorReport(t *testing.T) {
	var stderr bytes.Buffer

	r := runner.Runner{
		SourceFile: writeFile(t, "program", ".IPPcode23\nMOVE GF@x\n"),
		Stdin:      strings.NewReader(""),
		Stdout:     io.Discard,
		Stderr:     &stderr,
	}

	if code := r.Run(); code != interpreter.CodeLexSyntax {
		t.Errorf("expected %d, got %d", interpreter.CodeLexSyntax, code)
	}
	if !strings.Contains(stderr.String(), "Error at 2:10") {
		t.Errorf("expected position in report, got %q", stderr.String())
	}
}
