package interpreter_test

import (
	"strings"
	"testing"

	"github.com/caiuslox/lox/interpreter"
	"github.com/caiuslox/lox/parser"
)

// capturingPrinter implements interpreter.Printer, recording each `print`
// statement's stringified output on its own line, the way stdout would.
type capturingPrinter struct {
	lines []string
}

func (c *capturingPrinter) Println(args ...any) {
	var b strings.Builder
	for i, a := range args {
		if i > 0 {
			b.WriteByte(' ')
		}
		if s, ok := a.(string); ok {
			b.WriteString(s)
		}
	}
	c.lines = append(c.lines, b.String())
}

func (c *capturingPrinter) output() string {
	if len(c.lines) == 0 {
		return ""
	}
	return strings.Join(c.lines, "\n") + "\n"
}

func run(t *testing.T, src string) (string, error) {
	t.Helper()
	program, err := parser.Parse("test.lox", src)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	out := &capturingPrinter{}
	in := interpreter.New(out)
	err = in.Run(program)
	return out.output(), err
}

func mustRun(t *testing.T, src string) string {
	t.Helper()
	out, err := run(t, src)
	if err != nil {
		t.Fatalf("Run(%q): %v", src, err)
	}
	return out
}

// TestClosureCapture implements spec.md §8, property 3.
func TestClosureCapture(t *testing.T) {
	src := `
fun make() {
	var x = 0;
	fun inc() {
		x = x + 1;
		return x;
	}
	return inc;
}
var f = make();
print f();
print f();
print f();
`
	if got, want := mustRun(t, src), "1\n2\n3\n"; got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

// TestLexicalShadowingIsStatic implements spec.md §8, property 4: a
// reference resolves to the scope in force at the reference site, not the
// one in force when the enclosing block happens to run.
func TestLexicalShadowingIsStatic(t *testing.T) {
	src := `
var a = "global";
{
	fun showA() {
		print a;
	}
	showA();
	var a = "block";
	showA();
}
`
	if got, want := mustRun(t, src), "global\nglobal\n"; got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

// TestShortCircuitReturnsOperand implements spec.md §8, property 5.
func TestShortCircuitReturnsOperand(t *testing.T) {
	if got, want := mustRun(t, `print "hi" or 2;`), "hi\n"; got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
	if got, want := mustRun(t, `print nil or "yes";`), "yes\n"; got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

// TestEqualitySemantics implements spec.md §8, property 6.
func TestEqualitySemantics(t *testing.T) {
	tests := []struct {
		expr string
		want string
	}{
		{"nil == nil", "true"},
		{"nil == false", "false"},
		{`"a" == "a"`, "true"},
		{"0 == false", "false"},
	}
	for _, tt := range tests {
		if got := mustRun(t, "print "+tt.expr+";"); got != tt.want+"\n" {
			t.Errorf("print %s: output = %q, want %q", tt.expr, got, tt.want+"\n")
		}
	}
}

// TestPlusOverloading implements spec.md §8, property 7.
func TestPlusOverloading(t *testing.T) {
	if got, want := mustRun(t, "print 1+2;"), "3\n"; got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
	if got, want := mustRun(t, `print "a"+"b";`), "ab\n"; got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
	if _, err := run(t, `print 1+"a";`); err == nil {
		t.Error("Run succeeded for 1+\"a\", want runtime error")
	}
}

// TestInheritanceAndSuper implements spec.md §8, property 8.
func TestInheritanceAndSuper(t *testing.T) {
	src := `
class A {
	greet() { return "A"; }
}
class B < A {
	greet() { return super.greet() + "B"; }
}
print B().greet();
`
	if got, want := mustRun(t, src), "AB\n"; got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

// TestInitBinding implements spec.md §8, property 9.
func TestInitBinding(t *testing.T) {
	src := `
class P {
	init(x) {
		this.x = x;
	}
}
print P(5).x;
`
	if got, want := mustRun(t, src), "5\n"; got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestRuntimeErrorsAreReported(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"undefined variable", "print undefined;"},
		{"call non-callable", `var x = 1; x();`},
		{"wrong arity", "fun f(a) { return a; } f(1, 2);"},
		{"non-instance property access", "var x = 1; print x.y;"},
		{"non-class superclass", `var x = 1; class C < x {}`},
		{"undefined property", "class C {} print C().y;"},
		{"non-number operand", `print -"a";`},
		{"non-number operands", `print "a" - 1;`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := run(t, tt.src); err == nil {
				t.Errorf("Run(%q) succeeded, want runtime error", tt.src)
			}
		})
	}
}

func TestWhileAndForLoops(t *testing.T) {
	src := `
var i = 0;
while (i < 3) {
	print i;
	i = i + 1;
}
for (var j = 0; j < 3; j = j + 1) print j;
`
	if got, want := mustRun(t, src), "0\n1\n2\n0\n1\n2\n"; got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestClockIsCallableWithNoArgs(t *testing.T) {
	if _, err := run(t, "clock();"); err != nil {
		t.Errorf("Run: %v", err)
	}
}

func TestFieldsShadowMethods(t *testing.T) {
	src := `
class C {
	m() { return "method"; }
}
var c = C();
c.m = "field";
print c.m;
`
	if got, want := mustRun(t, src), "field\n"; got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestGlobalsPersistAcrossMultipleRunCalls(t *testing.T) {
	out := &capturingPrinter{}
	in := interpreter.New(out)

	program1, err := parser.Parse("test.lox", "var a = 1;")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if err := in.Run(program1); err != nil {
		t.Fatalf("Run: %v", err)
	}

	program2, err := parser.Parse("test.lox", "print a;")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if err := in.Run(program2); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if got, want := out.output(), "1\n"; got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}
