package cpu

import (
	"context"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"

	"github.com/hexaflex/intcode/arch"
	"github.com/hexaflex/intcode/asm"
	"github.com/hexaflex/intcode/devices"
)

func TestADD(t *testing.T) {
	ct := newCodeTest("1,0,0,0,99")
	ct.want[0] = 2
	c := runTest(t, ct)

	if c.State() != Halted {
		t.Fatalf("expected halted cpu; have %s", c.State())
	}
	if c.IP() != 4 {
		t.Fatalf("expected ip 4; have %d", c.IP())
	}
}

func TestArithmetic(t *testing.T) {
	for _, v := range []struct {
		program string
		want    string
	}{
		{"1,9,10,3,2,3,11,0,99,30,40,50", "3500,9,10,70,2,3,11,0,99,30,40,50"},
		{"2,3,0,3,99", "2,3,0,6,99"},
		{"2,4,4,5,99,0", "2,4,4,5,99,9801"},
		{"1,1,1,4,99,5,6,0,99", "30,1,1,4,2,5,6,0,99"},
		{"1002,4,3,4,33", "1002,4,3,4,99"},
		{"1101,100,-1,4,0", "1101,100,-1,4,99"},
	} {
		c := runTest(t, newCodeTest(v.program))
		if diff := cmp.Diff(mustParse(t, v.want), c.Memory().Cells()); diff != "" {
			t.Fatalf("%s: memory mismatch (-want +have):\n%s", v.program, diff)
		}
	}
}

func TestINOUT(t *testing.T) {
	ct := newCodeTest("3,0,4,0,99")
	ct.input = []int64{7}
	ct.output = []int64{7}
	c := runTest(t, ct)

	if c.InputCount() != 1 {
		t.Fatalf("expected 1 input; have %d", c.InputCount())
	}
	if v, ok := c.LastOutput(); !ok || v != 7 {
		t.Fatalf("expected last output 7; have %d (%v)", v, ok)
	}
}

func TestCompare(t *testing.T) {
	for _, v := range []struct {
		program string
		want    func(int64) int64
	}{
		{"3,9,8,9,10,9,4,9,99,-1,8", func(x int64) int64 { return flag(x == 8) }},
		{"3,9,7,9,10,9,4,9,99,-1,8", func(x int64) int64 { return flag(x < 8) }},
		{"3,3,1108,-1,8,3,4,3,99", func(x int64) int64 { return flag(x == 8) }},
		{"3,3,1107,-1,8,3,4,3,99", func(x int64) int64 { return flag(x < 8) }},
	} {
		for _, x := range []int64{-8, 0, 7, 8, 9} {
			ct := newCodeTest(v.program)
			ct.input = []int64{x}
			ct.output = []int64{v.want(x)}
			runTest(t, ct)
		}
	}
}

func TestJumps(t *testing.T) {
	for _, program := range []string{
		"3,12,6,12,15,1,13,14,13,4,13,99,-1,0,1,9",
		"3,3,1105,-1,9,1101,0,0,12,4,12,99,1",
	} {
		for _, x := range []int64{0, 1, -5} {
			ct := newCodeTest(program)
			ct.input = []int64{x}
			ct.output = []int64{flag(x != 0)}
			runTest(t, ct)
		}
	}
}

func TestCompareAndJump(t *testing.T) {
	const program = "3,21,1008,21,8,20,1005,20,22,107,8,21,20,1006,20,31,1106,0,36,98,0,0,1002,21,125,20,4,20,1105,1,46,104,999,1105,1,46,1101,1000,1,20,4,20,1105,1,46,98,99"

	for x, want := range map[int64]int64{-3: 999, 7: 999, 8: 1000, 9: 1001, 100: 1001} {
		ct := newCodeTest(program)
		ct.input = []int64{x}
		ct.output = []int64{want}
		runTest(t, ct)
	}
}

func TestCLTCEQWriteFlag(t *testing.T) {
	values := []int64{-1 << 62, -9, -1, 0, 1, 9, 1 << 62}

	for _, a := range values {
		for _, b := range values {
			//   CLT 100, a, b
			//   CEQ 101, a, b
			//   OUT [100]
			//   OUT [101]
			//   HALT
			ct := newCodeTest("")
			ct.emit(arch.CLT, op(arch.Immediate, a), op(arch.Immediate, b), op(arch.Position, 100))
			ct.emit(arch.CEQ, op(arch.Immediate, a), op(arch.Immediate, b), op(arch.Position, 101))
			ct.emit(arch.OUT, op(arch.Position, 100))
			ct.emit(arch.OUT, op(arch.Position, 101))
			ct.emit(arch.HALT)
			ct.output = []int64{flag(a < b), flag(a == b)}
			runTest(t, ct)
		}
	}
}

func TestQuine(t *testing.T) {
	const program = "109,1,204,-1,1001,100,1,100,1008,100,16,101,1006,101,0,99"

	ct := newCodeTest(program)
	ct.output = mustParse(t, program)
	runTest(t, ct)
}

func TestLargeNumbers(t *testing.T) {
	ct := newCodeTest("1102,34915192,34915192,7,4,7,99,0")
	ct.output = []int64{1219070632396864}
	runTest(t, ct)

	ct = newCodeTest("104,1125899906842624,99")
	ct.output = []int64{1125899906842624}
	runTest(t, ct)
}

func TestRelativeWrite(t *testing.T) {
	//   ARB 10
	//   IN  [rb+0]
	//   OUT [rb+0]
	//   HALT
	ct := newCodeTest("109,10,203,0,204,0,99")
	ct.input = []int64{42}
	ct.output = []int64{42}
	ct.want[10] = 42
	c := runTest(t, ct)

	if c.RelativeBase() != 10 {
		t.Fatalf("expected relative base 10; have %d", c.RelativeBase())
	}
	if c.Memory().Len() != 11 {
		t.Fatalf("expected memory length 11; have %d", c.Memory().Len())
	}
}

func TestReadBeyondProgram(t *testing.T) {
	ct := newCodeTest("4,1000,104,-1,99")
	ct.output = []int64{0, -1}
	runTest(t, ct)
}

func TestPatch(t *testing.T) {
	program := mustParse(t, "1,9,10,3,2,3,11,0,99,30,40,50")

	c, err := New(program, nil, nil, WithPatch(1, 9), WithPatch(2, 9))
	if err != nil {
		t.Fatalf("New failure: %v", err)
	}
	if _, _, err := c.Execute(context.Background()); err != nil {
		t.Fatalf("Execute failure: %v", err)
	}

	if have, _ := c.Memory().Read(0); have != 3000 {
		t.Fatalf("state mismatch at 0000:\nwant: %d\nhave: %d", 3000, have)
	}
	if program[1] != 9 || program[2] != 10 {
		t.Fatalf("source program was modified: %v", program[:3])
	}

	if _, err := New(program, nil, nil, WithPatch(-1, 0)); !errors.Is(err, ErrOutOfBounds) {
		t.Fatalf("expected %v; have %v", ErrOutOfBounds, err)
	}
}

func TestWriteModeImmediate(t *testing.T) {
	for _, opcode := range []arch.Opcode{arch.ADD, arch.MUL, arch.CLT, arch.CEQ, arch.IN} {
		ct := newCodeTest("")
		args := make([][2]int64, arch.Argc(opcode))
		for i := range args {
			args[i] = op(arch.Immediate, 0)
		}
		ct.emit(opcode, args...)
		ct.emit(arch.HALT)
		ct.input = []int64{1}

		err := runFailure(t, ct)
		if !errors.Is(err, ErrInvalidWriteMode) {
			t.Fatalf("%s: expected %v; have %v", opcode, ErrInvalidWriteMode, err)
		}
	}
}

func TestFaults(t *testing.T) {
	for _, v := range []struct {
		program string
		set     arch.InstructionSet
		want    error
		ip      int64
	}{
		{"42", arch.Extended, ErrInvalidOpcode, 0},
		{"1105,1,3,-7", arch.Extended, ErrInvalidOpcode, 3},
		{"109,1,99", arch.Base, ErrInvalidOpcode, 0},
		{"204,0,99", arch.Base, ErrInvalidParamMode, 0},
		{"304,0,99", arch.Extended, ErrInvalidParamMode, 0},
		{"104,5,1104,5,99", arch.Extended, ErrInvalidParamMode, 2},
		{"1,-1,0,0,99", arch.Extended, ErrOutOfBounds, 0},
		{"1101,1,1,-1,99", arch.Extended, ErrOutOfBounds, 0},
		{"109,-5,21101,1,1,0,99", arch.Extended, ErrOutOfBounds, 2},
		{"1105,1,-3", arch.Extended, ErrOutOfBounds, 0},
		{"3,0,99", arch.Extended, devices.ErrInputExhausted, 0},
	} {
		ct := newCodeTest(v.program)
		ct.set = v.set
		err := runFailure(t, ct)
		if !errors.Is(err, v.want) {
			t.Fatalf("%s: expected %v; have %v", v.program, v.want, err)
		}

		var cerr *Error
		if !errors.As(err, &cerr) {
			t.Fatalf("%s: expected *Error; have %T", v.program, err)
		}
		if cerr.IP != v.ip {
			t.Fatalf("%s: fault address:\nwant: %d\nhave: %d", v.program, v.ip, cerr.IP)
		}
	}
}

func TestStepAfterHalt(t *testing.T) {
	c, err := New([]int64{99}, nil, nil)
	if err != nil {
		t.Fatalf("New failure: %v", err)
	}

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		if err := c.Step(ctx); err != io.EOF {
			t.Fatalf("step %d: expected io.EOF; have %v", i, err)
		}
	}

	if _, ok, err := c.Execute(ctx); err != nil || ok {
		t.Fatalf("expected no output and no error; have %v, %v", ok, err)
	}
}

func TestStepAfterFault(t *testing.T) {
	c, err := New([]int64{42}, nil, nil)
	if err != nil {
		t.Fatalf("New failure: %v", err)
	}

	ctx := context.Background()
	first := c.Step(ctx)
	if first == nil {
		t.Fatal("expected a fault")
	}
	if second := c.Step(ctx); second != first {
		t.Fatalf("expected the same fault twice:\nwant: %v\nhave: %v", first, second)
	}
}

func TestCancel(t *testing.T) {
	c, err := New([]int64{1105, 1, 0}, nil, nil)
	if err != nil {
		t.Fatalf("New failure: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, _, err := c.Execute(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected %v; have %v", context.Canceled, err)
	}
}

func TestCancelBeforeStart(t *testing.T) {
	c, err := Load("104,5,99", nil, nil)
	if err != nil {
		t.Fatalf("Load failure: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err = c.Execute(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected %v; have %v", context.Canceled, err)
	}

	var cerr *Error
	if errors.As(err, &cerr) {
		t.Fatalf("cancellation reported as an instruction fault: %v", err)
	}
	if c.Steps() != 0 {
		t.Fatalf("steps:\nwant: 0\nhave: %d", c.Steps())
	}

	last, ok, err := c.Execute(context.Background())
	if err != nil || !ok || last != 5 {
		t.Fatalf("resume:\nwant: 5 true <nil>\nhave: %d %v %v", last, ok, err)
	}
}

func TestTrace(t *testing.T) {
	var sb strings.Builder
	c, err := Load("1101,2,3,5,104,0,99", nil, nil, WithTrace(func(i *Instruction) {
		fmt.Fprintf(&sb, "%d %s\n", i.IP, i.Opcode)
	}))
	if err != nil {
		t.Fatalf("Load failure: %v", err)
	}
	if _, _, err := c.Execute(context.Background()); err != nil {
		t.Fatalf("Execute failure: %v", err)
	}

	want := "0 ADD\n4 OUT\n6 HALT\n"
	if sb.String() != want {
		t.Fatalf("trace mismatch:\nwant: %q\nhave: %q", want, sb.String())
	}
	if c.Steps() != 3 {
		t.Fatalf("expected 3 steps; have %d", c.Steps())
	}
}

func TestLoadParseError(t *testing.T) {
	if _, err := Load("1,2,x", nil, nil); !errors.Is(err, asm.ErrParse) {
		t.Fatalf("expected %v; have %v", asm.ErrParse, err)
	}
}

// runTest executes ct and checks its expectations.
func runTest(t *testing.T, ct *codeTest) *CPU {
	t.Helper()

	var out devices.Recorder
	c, err := New(ct.program, devices.NewValues(ct.input...), &out,
		WithInstructionSet(ct.set), WithTrace(trace(t)))
	if err != nil {
		t.Fatalf("New failure: %v", err)
	}

	if _, _, err := c.Execute(context.Background()); err != nil {
		t.Fatalf("Execute failure: %v", err)
	}

	for addr, want := range ct.want {
		have, err := c.Memory().Read(addr)
		if err != nil {
			t.Fatalf("Read failure: %v", err)
		}
		if have != want {
			t.Fatalf("state mismatch at %04d:\nwant: %d\nhave: %d\n", addr, want, have)
		}
	}

	if ct.output != nil {
		if diff := cmp.Diff(ct.output, out.Values()); diff != "" {
			t.Fatalf("output mismatch (-want +have):\n%s", diff)
		}
	}

	return c
}

// runFailure executes ct and returns the error it must fail with.
func runFailure(t *testing.T, ct *codeTest) error {
	t.Helper()

	c, err := New(ct.program, devices.NewValues(ct.input...), nil, WithInstructionSet(ct.set))
	if err != nil {
		t.Fatalf("New failure: %v", err)
	}

	_, _, err = c.Execute(context.Background())
	if err == nil {
		t.Fatalf("expected %v to fail", ct.program)
	}
	return err
}

type codeTest struct {
	program []int64
	set     arch.InstructionSet
	input   []int64
	output  []int64 // Expected output; nil skips the check.
	want    map[int64]int64
}

func newCodeTest(program string) *codeTest {
	ct := &codeTest{
		set:  arch.Extended,
		want: make(map[int64]int64),
	}
	if program != "" {
		p, err := asm.Parse(program)
		if err != nil {
			panic(err)
		}
		ct.program = p
	}
	return ct
}

func (ct *codeTest) emit(opcode arch.Opcode, args ...[2]int64) {
	modes := make([]arch.AddressMode, len(args))
	for i, v := range args {
		modes[i] = arch.AddressMode(v[0])
	}

	ct.program = append(ct.program, arch.Encode(opcode, modes...))
	for _, v := range args {
		ct.program = append(ct.program, v[1])
	}
}

func op(mode arch.AddressMode, value int64) [2]int64 {
	return [2]int64{int64(mode), value}
}

func mustParse(t *testing.T, text string) []int64 {
	t.Helper()
	p, err := asm.Parse(text)
	if err != nil {
		t.Fatalf("Parse failure: %v", err)
	}
	return p
}

func trace(t *testing.T) TraceFunc {
	return func(i *Instruction) {
		var sb strings.Builder
		for j := 0; j < arch.Argc(i.Opcode); j++ {
			if j > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(asm.Operand(i.Args[j].Mode, i.Args[j].Raw))
		}
		t.Logf("%04d %5s %s", i.IP, i.Opcode, sb.String())
	}
}
