// Package test runs the built lox binary against the .lox fixtures under
// testdata, comparing their stdout and reported errors against the
// "// prints:"/"// error:" comments embedded in each fixture (grounded on
// marcuscaisey/lox's test/lox_test.go).
package test

import (
	"bytes"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

var (
	printsRe   = regexp.MustCompile(`// prints: (.+)`)
	errorRe    = regexp.MustCompile(`// error: (.+)`)
	exitCodeRe = regexp.MustCompile(`// exitcode: (\d+)`)

	// diagnosticRe strips the "file:line:col: error" (or "runtime error")
	// prefix, and an optional "at 'x'"/"at end" location suffix, from a
	// line of stderr output, leaving just the message (see loxerror.Error).
	diagnosticRe = regexp.MustCompile(`(?m)^.+:\d+:\d+: (?:runtime error|error)(?: at (?:'[^']*'|end))?: (.+)$`)
)

func buildLoxBinary(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	bin := filepath.Join(dir, "lox")
	cmd := exec.Command("go", "build", "-o", bin, ".")
	cmd.Dir = moduleRoot(t)
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("building lox binary: %v\n%s", err, out)
	}
	return bin
}

func moduleRoot(t *testing.T) string {
	t.Helper()
	dir, err := filepath.Abs(".")
	if err != nil {
		t.Fatal(err)
	}
	return filepath.Dir(dir)
}

type result struct {
	Stdout   []byte
	Stderr   []byte
	Errors   [][]byte
	ExitCode int
}

func TestLox(t *testing.T) {
	bin := buildLoxBinary(t)

	matches, err := filepath.Glob("testdata/*.lox")
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) == 0 {
		t.Fatal("no .lox fixtures found under testdata")
	}

	for _, path := range matches {
		path := path
		name := strings.TrimSuffix(filepath.Base(path), ".lox")
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			want := parseExpectedResult(t, path)
			got := runLox(t, bin, path)

			if want.ExitCode != got.ExitCode {
				t.Errorf("exit code = %d, want %d", got.ExitCode, want.ExitCode)
				t.Logf("stdout:\n%s", got.Stdout)
				t.Logf("stderr:\n%s", got.Stderr)
				return
			}
			if !bytes.Equal(want.Stdout, got.Stdout) {
				t.Errorf("stdout mismatch:\nwant: %q\ngot:  %q", want.Stdout, got.Stdout)
			}
			if !cmp.Equal(want.Errors, got.Errors) {
				t.Errorf("errors mismatch (-want +got):\n%s", cmp.Diff(want.Errors, got.Errors))
				t.Logf("stderr:\n%s", got.Stderr)
			}
		})
	}
}

func runLox(t *testing.T, bin, path string) result {
	t.Helper()
	absPath, err := filepath.Abs(path)
	if err != nil {
		t.Fatal(err)
	}
	cmd := exec.Command(bin, absPath)
	stdout, err := cmd.Output()

	var exitErr *exec.ExitError
	if err != nil && !errors.As(err, &exitErr) {
		t.Fatal(err)
	}

	var stderr []byte
	if exitErr != nil {
		stderr = exitErr.Stderr
	}
	var errs [][]byte
	for _, match := range diagnosticRe.FindAllSubmatch(stderr, -1) {
		errs = append(errs, match[1])
	}

	return result{
		Stdout:   stdout,
		Stderr:   stderr,
		Errors:   errs,
		ExitCode: cmd.ProcessState.ExitCode(),
	}
}

func parseExpectedResult(t *testing.T, path string) result {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	r := result{
		Stdout: parseExpectedStdout(data),
		Errors: parseExpectedErrors(data),
	}
	if len(r.Errors) > 0 {
		// Fixtures with errors carry an explicit "// exitcode: N" marker
		// (65 for syntax/resolve errors, 70 for runtime errors), since the
		// error message text alone doesn't say which phase raised it.
		m := exitCodeRe.FindSubmatch(data)
		if m == nil {
			t.Fatalf("%s has an \"// error:\" comment but no \"// exitcode: N\" marker", path)
		}
		code, err := strconv.Atoi(string(m[1]))
		if err != nil {
			t.Fatalf("%s: invalid exit code marker: %v", path, err)
		}
		r.ExitCode = code
	}
	return r
}

func parseExpectedStdout(data []byte) []byte {
	var b bytes.Buffer
	for _, match := range printsRe.FindAllSubmatch(data, -1) {
		b.Write(match[1])
		b.WriteByte('\n')
	}
	return b.Bytes()
}

func parseExpectedErrors(data []byte) [][]byte {
	var errs [][]byte
	for _, match := range errorRe.FindAllSubmatch(data, -1) {
		errs = append(errs, match[1])
	}
	return errs
}
