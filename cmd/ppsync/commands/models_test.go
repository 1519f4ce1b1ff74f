package commands

import (
	"bytes"
	"strings"
	"testing"
)

func TestModelsAll(t *testing.T) {
	var buf bytes.Buffer
	if err := RunModels(nil, &buf); err != nil {
		t.Fatalf("RunModels failed: %v", err)
	}
	output := buf.String()

	for _, want := range []string{"servicePlans:", "devices:", "planId", "(id)", "prices", "amount"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output", want)
		}
	}
}

func TestModelsUnknown(t *testing.T) {
	if err := RunModels([]string{"servicePlans", "nope"}, &bytes.Buffer{}); err == nil {
		t.Error("expected error for unknown collection")
	}
}
