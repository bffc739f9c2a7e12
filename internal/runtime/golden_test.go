package runtime

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// TestGolden runs every testdata/*.carp program and compares its output
// to the .expected file next to it.
func TestGolden(t *testing.T) {
	sources, err := filepath.Glob(filepath.Join("..", "..", "testdata", "*.carp"))
	if err != nil {
		t.Fatal(err)
	}
	if len(sources) == 0 {
		t.Fatal("no golden programs found")
	}
	for _, src := range sources {
		name := strings.TrimSuffix(filepath.Base(src), ".carp")
		t.Run(name, func(t *testing.T) {
			goldenTest(t, src, strings.TrimSuffix(src, ".carp")+".expected")
		})
	}
}

func goldenTest(t *testing.T, srcPath, expectedPath string) {
	t.Helper()

	source, err := os.ReadFile(srcPath)
	if err != nil {
		t.Fatalf("failed to read %s: %v", srcPath, err)
	}
	expected, err := os.ReadFile(expectedPath)
	if err != nil {
		t.Fatalf("failed to read %s: %v", expectedPath, err)
	}

	got, err := runSource(string(source))
	if err != nil {
		t.Fatalf("runtime error: %v", err)
	}

	want := strings.Split(strings.TrimRight(string(expected), "\n"), "\n")
	have := strings.Split(strings.TrimRight(got, "\n"), "\n")
	if strings.Join(want, "\n") == strings.Join(have, "\n") {
		return
	}

	t.Errorf("output mismatch for %s", filepath.Base(srcPath))
	for i := 0; i < len(want) || i < len(have); i++ {
		exp, g := lineAt(want, i), lineAt(have, i)
		marker := "  "
		if exp != g {
			marker = "! "
		}
		t.Logf("%sline %d: expected=%q got=%q", marker, i+1, exp, g)
	}
}

func lineAt(lines []string, i int) string {
	if i < len(lines) {
		return lines[i]
	}
	return "<missing>"
}
