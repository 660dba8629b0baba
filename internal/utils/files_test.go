package utils

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestExpandInputs(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "a", "car.csv"))
	touch(t, filepath.Join(dir, "a", "notes.txt"))
	touch(t, filepath.Join(dir, "a", "deep", "x.csv"))
	touch(t, filepath.Join(dir, "b", "zoo.arff"))
	touch(t, filepath.Join(dir, "b", "iris.csv"))

	keep := func(p string) bool { return !strings.HasSuffix(p, ".txt") }
	got, err := ExpandInputs([]string{
		filepath.Join(dir, "a"),
		filepath.Join(dir, "b", "*.arff"),
		filepath.Join(dir, "b", "zoo.arff"),
	}, keep)
	if err != nil {
		t.Fatalf("expand: %v", err)
	}
	want := []string{
		filepath.Join(dir, "a", "car.csv"),
		filepath.Join(dir, "b", "zoo.arff"),
	}
	if strings.Join(got, "\n") != strings.Join(want, "\n") {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestExpandInputsNoMatch(t *testing.T) {
	_, err := ExpandInputs([]string{filepath.Join(t.TempDir(), "*.csv")}, func(string) bool { return true })
	if err == nil || !strings.Contains(err.Error(), "no input files") {
		t.Fatalf("expected no-match error, got %v", err)
	}
}

func TestSafeWriteFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), "run.json")
	if err := SafeWriteFile(p, []byte("one")); err != nil {
		t.Fatal(err)
	}
	if err := SafeWriteFile(p, []byte("two")); err != nil {
		t.Fatal(err)
	}
	b, err := os.ReadFile(p)
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != "two" {
		t.Fatalf("got %q", b)
	}
	if _, err := os.Stat(p + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("temp file left behind: %v", err)
	}
}
