package notify_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fleetup/fleetup/pkg/ui/notify"
	"github.com/fleetup/fleetup/pkg/ui/timer"
)

func TestWriteMessage_ErrorType(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer

	notify.WriteMessage(notify.Message{
		Type:    notify.ErrorType,
		Content: "test error",
		Writer:  &out,
	})

	got := out.String()
	want := "✗ test error\n"

	if got != want {
		t.Fatalf("output mismatch. want %q, got %q", want, got)
	}
}

func TestWriteMessage_WithFormatting(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer

	notify.WriteMessage(notify.Message{
		Type:    notify.ErrorType,
		Content: "error: %s (%d)",
		Args:    []any{"failed", 42},
		Writer:  &out,
	})

	got := out.String()
	want := "✗ error: failed (42)\n"

	if got != want {
		t.Fatalf("output mismatch. want %q, got %q", want, got)
	}
}

func TestWriteMessage_SuccessType(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer

	notify.Successf(&out, "all nodes ready")

	got := out.String()
	want := "✔ all nodes ready\n"

	if got != want {
		t.Fatalf("output mismatch. want %q, got %q", want, got)
	}
}

func TestWriteMessage_ActivityType(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer

	notify.Activityf(&out, "launching nodes")

	got := out.String()
	want := "► launching nodes\n"

	if got != want {
		t.Fatalf("output mismatch. want %q, got %q", want, got)
	}
}

func TestWriteMessage_MultilineIndent(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer

	notify.WriteMessage(notify.Message{
		Type:    notify.WarningType,
		Content: "first\nsecond",
		Writer:  &out,
	})

	got := out.String()
	if !strings.Contains(got, "\n  second\n") {
		t.Fatalf("expected second line indented under symbol, got %q", got)
	}
}

func TestWriteMessage_SuccessWithTimer(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer

	notify.SuccessWithTimerf(&out, timer.New(), "provisioned")

	got := out.String()
	if !strings.Contains(got, "✔ provisioned\n") {
		t.Fatalf("missing success line in %q", got)
	}

	if !strings.Contains(got, "⏲ current:") || !strings.Contains(got, "total:") {
		t.Fatalf("missing timing block in %q", got)
	}
}

func TestWriteMessage_NonSuccessIgnoresTimer(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer

	notify.WriteMessage(notify.Message{
		Type:    notify.InfoType,
		Content: "checking",
		Timer:   timer.New(),
		Writer:  &out,
	})

	got := out.String()
	if strings.Contains(got, "⏲") {
		t.Fatalf("info message must not print timing, got %q", got)
	}
}
