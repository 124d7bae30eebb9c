package main

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// assertStringEqual compares multiline texts and reports the diff of lines.
func assertStringEqual(t *testing.T, actual, expected string) {
	t.Helper()
	if actual == expected {
		return
	}
	diff := cmp.Diff(strings.Split(expected, "\n"), strings.Split(actual, "\n"))
	t.Errorf("Texts differ (-expected +actual):\n%s", diff)
}

func checkErrorContainsSubstring(t *testing.T, err error, substring string) {
	t.Helper()
	if err == nil {
		t.Errorf("Expected error containing '%s', got no error", substring)
		return
	}
	if !strings.Contains(err.Error(), substring) {
		t.Errorf("Expected error message to contain '%s', got '%s'", substring, err.Error())
	}
}
