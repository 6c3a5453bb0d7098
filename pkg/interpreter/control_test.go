package interpreter

import (
	"bytes"
	"testing"
)

func TestFrameScenario(t *testing.T) {
	r := runProgram(t, "",
		I(OpCreateFrame),
		I(OpDefVar, Var("TF@a")),
		I(OpPushFrame),
		I(OpDefVar, Var("LF@b")),
		I(OpMove, Var("LF@b"), Int(3)),
		I(OpWrite, Var("LF@b")),
	)
	expectCode(t, r, 0)
	if r.stdout != "3" {
		t.Errorf("expected 3, got %q", r.stdout)
	}
}

func TestFrameDiscipline(t *testing.T) {
	tests := []struct {
		name   string
		instrs []Instruction
		code   int
	}{
		{"pop without push", []Instruction{I(OpPopFrame)}, CodeFrameMissing},
		{"push without create", []Instruction{I(OpPushFrame)}, CodeFrameMissing},
		{"push twice after one create", []Instruction{
			I(OpCreateFrame), I(OpPushFrame), I(OpPushFrame),
		}, CodeFrameMissing},
		{"pop once per push", []Instruction{
			I(OpCreateFrame), I(OpPushFrame), I(OpPopFrame), I(OpPopFrame),
		}, CodeFrameMissing},
		{"popped frame becomes temporary", []Instruction{
			I(OpCreateFrame), I(OpPushFrame),
			I(OpDefVar, Var("LF@v")), I(OpMove, Var("LF@v"), Int(1)),
			I(OpPopFrame),
			I(OpWrite, Var("TF@v")),
			I(OpWrite, Var("LF@v")),
		}, CodeFrameMissing},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expectCode(t, runProgram(t, "", tt.instrs...), tt.code)
		})
	}
}

func TestCreateFrameDiscardsTemporary(t *testing.T) {
	r := runProgram(t, "",
		I(OpCreateFrame),
		I(OpDefVar, Var("TF@x")),
		I(OpCreateFrame),
		I(OpDefVar, Var("TF@x")),
		I(OpMove, Var("TF@x"), Str("ok")),
		I(OpWrite, Var("TF@x")),
	)
	expectCode(t, r, 0)
	if r.stdout != "ok" {
		t.Errorf("expected ok, got %q", r.stdout)
	}
}

func TestNestedFrames(t *testing.T) {
	r := runProgram(t, "",
		I(OpCreateFrame),
		I(OpDefVar, Var("TF@depth")),
		I(OpMove, Var("TF@depth"), Int(1)),
		I(OpPushFrame),
		I(OpCreateFrame),
		I(OpDefVar, Var("TF@depth")),
		I(OpMove, Var("TF@depth"), Int(2)),
		I(OpPushFrame),
		I(OpWrite, Var("LF@depth")),
		I(OpPopFrame),
		I(OpWrite, Var("LF@depth")),
		I(OpWrite, Var("TF@depth")),
		I(OpPopFrame),
		I(OpWrite, Var("TF@depth")),
	)
	expectCode(t, r, 0)
	if r.stdout != "2121" {
		t.Errorf("expected 2121, got %q", r.stdout)
	}
	if r.it.Frames().Local != nil || r.it.Frames().Depth() != 0 {
		t.Errorf("expected no local frame and an empty saved stack after popping everything")
	}
}

func TestJumps(t *testing.T) {
	r := runProgram(t, "",
		I(OpDefVar, Var("GF@i")),
		I(OpMove, Var("GF@i"), Int(0)),
		I(OpJump, Label("check")),
		I(OpLabel, Label("body")),
		I(OpWrite, Var("GF@i")),
		I(OpAdd, Var("GF@i"), Var("GF@i"), Int(1)),
		I(OpLabel, Label("check")),
		I(OpJumpIfNeq, Label("body"), Var("GF@i"), Int(3)),
		I(OpJumpIfEq, Label("end"), Var("GF@i"), Int(3)),
		I(OpWrite, Str("skipped")),
		I(OpLabel, Label("end")),
	)
	expectCode(t, r, 0)
	if r.stdout != "012" {
		t.Errorf("expected 012, got %q", r.stdout)
	}
}

func TestJumpErrors(t *testing.T) {
	tests := []struct {
		name   string
		instrs []Instruction
		code   int
	}{
		{"jump to undefined label", []Instruction{I(OpJump, Label("nowhere"))}, CodeSemantic},
		{"call undefined label", []Instruction{I(OpCall, Label("nowhere"))}, CodeSemantic},
		{"jumpifeq mixed types", []Instruction{
			I(OpDefVar, Var("GF@a")), I(OpMove, Var("GF@a"), Int(1)),
			I(OpDefVar, Var("GF@b")), I(OpMove, Var("GF@b"), Bool(true)),
			I(OpLabel, Label("target")),
			I(OpJumpIfEq, Label("target"), Var("GF@a"), Var("GF@b")),
		}, CodeOperandType},
		{"jumpifneq nil is comparable", []Instruction{
			I(OpJumpIfNeq, Label("end"), NilArg(), Int(1)),
			I(OpExit, Int(3)),
			I(OpLabel, Label("end")),
		}, 0},
		{"jumpifeq taken to undefined label", []Instruction{
			I(OpJumpIfEq, Label("nowhere"), Int(1), Int(1)),
		}, CodeSemantic},
		{"jumpifeq not taken ignores label", []Instruction{
			I(OpJumpIfEq, Label("nowhere"), Int(1), Int(2)),
			I(OpExit, Int(4)),
		}, 4},
		{"jumpifneq not taken ignores label", []Instruction{
			I(OpJumpIfNeq, Label("nowhere"), Str("a"), Str("a")),
			I(OpExit, Int(5)),
		}, 5},
		{"return with empty call stack", []Instruction{I(OpReturn)}, CodeMissingValue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expectCode(t, runProgram(t, "", tt.instrs...), tt.code)
		})
	}
}

func TestCallReturnNesting(t *testing.T) {
	r := runProgram(t, "",
		I(OpCall, Label("f1")), // 1
		I(OpWrite, Str("E")),   // 2
		I(OpExit, Int(0)),      // 3
		I(OpLabel, Label("f1")),
		I(OpWrite, Str("a")),
		I(OpCall, Label("f2")),
		I(OpWrite, Str("b")),
		I(OpReturn),
		I(OpLabel, Label("f2")),
		I(OpWrite, Str("c")),
		I(OpCall, Label("f3")),
		I(OpWrite, Str("d")),
		I(OpReturn),
		I(OpLabel, Label("f3")),
		I(OpWrite, Str("e")),
		I(OpBreak),
		I(OpReturn),
	)
	expectCode(t, r, 0)
	if r.stdout != "acedbE" {
		t.Errorf("expected acedbE, got %q", r.stdout)
	}
	if r.it.CallDepth() != 0 {
		t.Errorf("expected empty call stack, got %d", r.it.CallDepth())
	}
}

func TestSparseOrders(t *testing.T) {
	prog := MustProgram(
		Ins(10, OpWrite, Str("b")),
		Ins(3, OpWrite, Str("a")),
		Ins(7, OpJump, Label("skip")),
		Ins(8, OpWrite, Str("x")),
		Ins(9, OpLabel, Label("skip")),
	)

	var out bytes.Buffer
	it := NewInterpreter(prog, WithWriter(&out))
	if err := it.Run(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.String() != "ab" {
		t.Errorf("expected ab, got %q", out.String())
	}
	// orders 3..10 walked one unit at a time, minus the skipped 8, plus the halting step
	if it.Steps() != 8 {
		t.Errorf("expected 8 steps, got %d", it.Steps())
	}
	if it.PC() != 11 {
		t.Errorf("expected counter past the last order, got %d", it.PC())
	}
}

func TestStepByStep(t *testing.T) {
	prog := MustProgram(
		Ins(1, OpDefVar, Var("GF@x")),
		Ins(2, OpMove, Var("GF@x"), Int(1)),
	)
	it := NewInterpreter(prog)

	for n, want := range []int{2, 3} {
		halted, err := it.Step()
		if err != nil || halted {
			t.Fatalf("step %d: halted=%v err=%v", n, halted, err)
		}
		if it.PC() != want {
			t.Errorf("step %d: expected counter %d, got %d", n, want, it.PC())
		}
	}

	halted, err := it.Step()
	if err != nil || !halted {
		t.Errorf("expected halt after the last order, got halted=%v err=%v", halted, err)
	}
}

func TestEmptyProgram(t *testing.T) {
	if err := Exec(MustProgram()); err != nil {
		t.Errorf("empty program should finish cleanly, got %v", err)
	}
}
