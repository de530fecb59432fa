package interp

import (
	"strings"
	"testing"
)

// run executes source and returns captured stdout, failing the test on any
// error.
func run(t *testing.T, src string) string {
	t.Helper()
	var buf strings.Builder
	in := New(Options{Out: &buf})
	if err := in.RunSource(src, "test.naab"); err != nil {
		t.Fatalf("run: %v", err)
	}
	return buf.String()
}

// runErr executes source expecting a failure.
func runErr(t *testing.T, src string) error {
	t.Helper()
	var buf strings.Builder
	in := New(Options{Out: &buf})
	err := in.RunSource(src, "test.naab")
	if err == nil {
		t.Fatalf("expected error, got output %q", buf.String())
	}
	return err
}

func TestArithmetic(t *testing.T) {
	tests := []struct {
		expr string
		want string
	}{
		{"1 + 2", "3"},
		{"7 - 10", "-3"},
		{"6 * 7", "42"},
		{"7 % 3", "1"},
		{"10 / 4", "2.5"},
		{"10 / 5", "2"},     // division is always float; 2.0 prints as 2
		{"1 + 2 * 3", "7"},  // precedence
		{"(1 + 2) * 3", "9"},
		{"1.5 + 1", "2.5"},  // mixed promotes to float
		{"2 * 1.5", "3"},
		{"-5 + 3", "-2"},
	}
	for _, tt := range tests {
		got := strings.TrimSpace(run(t, "main { print("+tt.expr+") }"))
		if got != tt.want {
			t.Fatalf("%s = %s, want %s", tt.expr, got, tt.want)
		}
	}
}

func TestStringConcat(t *testing.T) {
	out := run(t, `main {
  print("a" + "b")
  print("n = " + 42)
  print(1.5 + " units")
  print("yes? " + true)
}`)
	want := "ab\nn = 42\n1.5 units\nyes? true\n"
	if out != want {
		t.Fatalf("got %q, want %q", out, want)
	}
}

func TestComparisonAndEquality(t *testing.T) {
	out := run(t, `main {
  print(1 < 2, 2 <= 2, 3 > 4, 4 >= 4)
  print("abc" < "abd")
  print(1 < 1.5)
  print([1, 2] == [1, 2], {"a": 1} == {"a": 1}, [1] == [2])
  print(1 == 1.0)
}`)
	want := "true true false true\ntrue\ntrue\ntrue true false\nfalse\n"
	if out != want {
		t.Fatalf("got %q, want %q", out, want)
	}
}

func TestShortCircuit(t *testing.T) {
	// The spec's invariant 5: the right side must not evaluate when the
	// left decides. A throwing call proves non-evaluation.
	out := run(t, `
fn boom() -> bool { throw "evaluated" }
main {
  print(false and boom())
  print(true or boom())
}`)
	if out != "false\ntrue\n" {
		t.Fatalf("got %q", out)
	}
}

func TestTruthiness(t *testing.T) {
	out := run(t, `main {
  if 0 { print("bad") } else { print("0 falsy") }
  if 0.0 { print("bad") } else { print("0.0 falsy") }
  if "" { print("bad") } else { print("empty falsy") }
  if [] { print("bad") } else { print("emptylist falsy") }
  if {} { print("bad") } else { print("emptydict falsy") }
  if null { print("bad") } else { print("null falsy") }
  if "x" { print("str truthy") }
  if [0] { print("list truthy") }
}`)
	want := "0 falsy\n0.0 falsy\nempty falsy\nemptylist falsy\nemptydict falsy\nnull falsy\nstr truthy\nlist truthy\n"
	if out != want {
		t.Fatalf("got %q, want %q", out, want)
	}
}

func TestWhileForBreakContinue(t *testing.T) {
	out := run(t, `main {
  let i = 0
  while i < 10 {
    i = i + 1
    if i == 3 { continue }
    if i == 5 { break }
    print(i)
  }
  for v in [10, 20, 30] { print(v) }
  for k in range(2) { print(k) }
}`)
	want := "1\n2\n4\n10\n20\n30\n0\n1\n"
	if out != want {
		t.Fatalf("got %q, want %q", out, want)
	}
}

func TestListAndDictMutation(t *testing.T) {
	out := run(t, `main {
  let l = [1, 2, 3]
  l[1] = 20
  print(l[1])
  let d = {"a": 1}
  d["b"] = 2
  print(d["a"], d["b"])
}`)
	if out != "20\n1 2\n" {
		t.Fatalf("got %q", out)
	}
}

func TestIndexErrors(t *testing.T) {
	err := runErr(t, `main { let l = [1] print(l[1]) }`)
	if !strings.Contains(err.Error(), "IndexError") {
		t.Fatalf("err = %v", err)
	}
	err = runErr(t, `main { let l = [1] l[-1] = 0 }`)
	if !strings.Contains(err.Error(), "IndexError") {
		t.Fatalf("err = %v", err)
	}
	// Assignment at len(l) is out of range too (spec boundary behavior).
	err = runErr(t, `main { let l = [1] l[1] = 0 }`)
	if !strings.Contains(err.Error(), "IndexError") {
		t.Fatalf("err = %v", err)
	}
}

func TestDictMissingKeyReadRaises(t *testing.T) {
	err := runErr(t, `main { let d = {"a": 1} print(d["b"]) }`)
	if !strings.Contains(err.Error(), "KeyError") {
		t.Fatalf("err = %v", err)
	}
	// The failed read must not have created the key.
	out := run(t, `main {
  let d = {"a": 1}
  try { print(d["b"]) } catch (e) { }
  print(len(d))
}`)
	if out != "1\n" {
		t.Fatalf("got %q", out)
	}
}

func TestDivisionByZero(t *testing.T) {
	for _, src := range []string{
		`main { print(1 / 0) }`,
		`main { print(1.0 / 0.0) }`,
		`main { print(1 % 0) }`,
	} {
		err := runErr(t, src)
		if !strings.Contains(err.Error(), "DivisionByZero") {
			t.Fatalf("%s: err = %v", src, err)
		}
	}
}

func TestNameErrorSuggestion(t *testing.T) {
	err := runErr(t, `main { let count = 1 print(cout) }`)
	msg := err.Error()
	if !strings.Contains(msg, "NameError") || !strings.Contains(msg, "count") {
		t.Fatalf("err = %v", err)
	}
}

func TestFunctionsDefaultsAndArity(t *testing.T) {
	out := run(t, `
fn greet(name: string, punct: string = "!") -> string { return name + punct }
main {
  print(greet("hi"))
  print(greet("hi", "?"))
}`)
	if out != "hi!\nhi?\n" {
		t.Fatalf("got %q", out)
	}

	err := runErr(t, `
fn f(a: int, b: int) { }
main { f(1) }`)
	msg := err.Error()
	if !strings.Contains(msg, "ArgError") || !strings.Contains(msg, "b") {
		t.Fatalf("err = %v", err)
	}
}

func TestLambdasAndClosures(t *testing.T) {
	out := run(t, `
fn make_adder(n: int) -> fn {
  return fn (x: int) -> int { return x + n }
}
main {
  let add5 = make_adder(5)
  print(add5(37))
  let double = fn (x: int) -> int { return x * 2 }
  print(double(21))
  print(21 |> double)
}`)
	if out != "42\n42\n42\n" {
		t.Fatalf("got %q", out)
	}
}

func TestValueVsReferenceParams(t *testing.T) {
	// Callee mutation of value parameters must stay invisible to the
	// caller; ref parameters share the handle.
	out := run(t, `
fn clobber(l: List<int>, d: Dict<string, int>) {
  l[0] = 99
  d["k"] = 99
}
fn clobber_ref(l: ref List<int>) { l[0] = 99 }
main {
  let l = [1]
  let d = {"k": 1}
  clobber(l, d)
  print(l[0], d["k"])
  clobber_ref(l)
  print(l[0])
}`)
	if out != "1 1\n99\n" {
		t.Fatalf("got %q", out)
	}
}

func TestThrowCatchFinally(t *testing.T) {
	out := run(t, `main {
  try {
    throw "boom"
  } catch (e) {
    print("caught: " + e)
  } finally {
    print("finally")
  }
  print("after")
}`)
	if out != "caught: boom\nfinally\nafter\n" {
		t.Fatalf("got %q", out)
	}
}

func TestFinallyRunsOnRethrow(t *testing.T) {
	out := run(t, `main {
  try {
    try {
      throw "inner"
    } catch (e) {
      throw "re: " + e
    } finally {
      print("inner finally")
    }
  } catch (e2) {
    print("outer caught: " + e2)
  }
}`)
	if out != "inner finally\nouter caught: re: inner\n" {
		t.Fatalf("got %q", out)
	}
}

func TestRuntimeErrorsAreCatchable(t *testing.T) {
	out := run(t, `main {
  try { print(1 / 0) } catch (e) { print("caught division") }
  try { print(nope) } catch (e) { print("caught name") }
}`)
	if out != "caught division\ncaught name\n" {
		t.Fatalf("got %q", out)
	}
}

func TestUncaughtThrowSurfaces(t *testing.T) {
	err := runErr(t, `main { throw "boom" }`)
	if !strings.Contains(err.Error(), "uncaught exception: boom") {
		t.Fatalf("err = %v", err)
	}
}

func TestStructsAndEnums(t *testing.T) {
	out := run(t, `
struct Point { x: int, y: int }
enum Color { Red, Green, Blue }
main {
  let p = Point { x: 3, y: 4 }
  p.x = 30
  print(p.x, p.y)
  let c = Color.Green
  print(c == Color.Green, c == Color.Red)
}`)
	if out != "30 4\ntrue false\n" {
		t.Fatalf("got %q", out)
	}
}

func TestStructUnknownFieldAndMissingField(t *testing.T) {
	err := runErr(t, `
struct Point { x: int, y: int }
main { let p = Point { x: 1, z: 2 } }`)
	if !strings.Contains(err.Error(), "TypeError") {
		t.Fatalf("err = %v", err)
	}
	err = runErr(t, `
struct Point { x: int, y: int }
main { let p = Point { x: 1 } }`)
	if !strings.Contains(err.Error(), "missing field") {
		t.Fatalf("err = %v", err)
	}
}

func TestNullabilityEnforced(t *testing.T) {
	err := runErr(t, `
struct Box { value: int }
main { let b = Box { value: null } }`)
	if !strings.Contains(err.Error(), "not nullable") {
		t.Fatalf("err = %v", err)
	}
	out := run(t, `
struct Node { value: int, next: Node? }
main {
  let n = Node { value: 1, next: null }
  print(n.value)
}`)
	if out != "1\n" {
		t.Fatalf("got %q", out)
	}
}

func TestDeepCopyPreservesCycles(t *testing.T) {
	out := run(t, `
struct Node { value: int, next: Node? }
fn touch(n: Node) { n.value = 99 }
main {
  let a = Node { value: 1, next: null }
  let b = Node { value: 2, next: a }
  a.next = b
  touch(a)
  print(a.value)
}`)
	// Deep copy of the cyclic argument must terminate and leave the
	// caller's value intact.
	if out != "1\n" {
		t.Fatalf("got %q", out)
	}
}

func TestAssignmentIsExpression(t *testing.T) {
	out := run(t, `main {
  let a = 0
  let b = (a = 5)
  print(a, b)
}`)
	if out != "5 5\n" {
		t.Fatalf("got %q", out)
	}
}

func TestBuiltins(t *testing.T) {
	out := run(t, `main {
  print(len("héllo"), len([1, 2]), len({"a": 1}))
  print(str(42) + "!", int("17"), int(3.9), float(2))
  print(type(1), type("s"), type([]))
  let l = [1]
  push(l, 2)
  print(l)
  print(contains([1, 2], 2), contains("abc", "b"), contains({"k": 1}, "k"))
  print(keys({"b": 1, "a": 2}))
}`)
	want := `5 2 1
42! 17 3 2
int string list
[1, 2]
true true true
[a, b]
`
	if out != want {
		t.Fatalf("got %q, want %q", out, want)
	}
}

func TestNestedScopesAndShadowing(t *testing.T) {
	out := run(t, `main {
  let x = 1
  if true {
    let x = 2
    print(x)
  }
  print(x)
  if true {
    x = 3
  }
  print(x)
}`)
	if out != "2\n1\n3\n" {
		t.Fatalf("got %q", out)
	}
}
