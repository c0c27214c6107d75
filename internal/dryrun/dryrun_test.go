package dryrun

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/etherpad/eplite-go/eplite"
)

type countingInvoker struct {
	calls int
}

func (c *countingInvoker) Invoke(context.Context, string, eplite.Verb, eplite.Args) (eplite.Payload, error) {
	c.calls++
	return eplite.Payload{"padIDs": []any{}}, nil
}

func TestWithDryRun(t *testing.T) {
	if !IsEnabled(WithDryRun(context.Background(), true)) {
		t.Error("IsEnabled should return true when dry-run is enabled")
	}
	if IsEnabled(context.Background()) {
		t.Error("IsEnabled should return false by default")
	}
	if IsEnabled(WithDryRun(context.Background(), false)) {
		t.Error("IsEnabled should return false when dry-run is explicitly disabled")
	}
}

func TestPreview_Write(t *testing.T) {
	p := &Preview{
		Method: "createGroupPad",
		Verb:   eplite.POST,
		Args: map[string]any{
			"padName": "notes",
			"groupID": "g.abc",
		},
	}

	var buf bytes.Buffer
	p.Write(&buf)

	output := buf.String()
	if !strings.Contains(output, "[DRY-RUN] Would call POST createGroupPad") {
		t.Errorf("missing header in %q", output)
	}
	if strings.Index(output, "groupID") > strings.Index(output, "padName") {
		t.Error("arguments should be listed by name")
	}
	if !strings.Contains(output, "No changes made") {
		t.Error("Preview output should contain 'No changes made' footer")
	}
}

func TestInvoker_PreviewsPostInDryRun(t *testing.T) {
	next := &countingInvoker{}
	var buf bytes.Buffer
	inv := Wrap(next, &buf)

	ctx := WithDryRun(context.Background(), true)
	payload, err := inv.Invoke(ctx, "deletePad", eplite.POST, eplite.Args{{Name: "padID", Value: "p"}, {Name: "text", Value: nil}})
	if err != nil {
		t.Fatalf("Invoke() error = %v", err)
	}
	if len(payload) != 0 {
		t.Errorf("expected empty payload, got %v", payload)
	}
	if next.calls != 0 {
		t.Errorf("expected no forwarded call, got %d", next.calls)
	}
	out := buf.String()
	if !strings.Contains(out, "padID: p") || strings.Contains(out, "text:") {
		t.Errorf("unexpected preview %q", out)
	}
	if !strings.Contains(out, "Warnings:") {
		t.Error("deletePad preview should carry a warning")
	}
}

func TestInvoker_ForwardsReadsAndNormalMode(t *testing.T) {
	next := &countingInvoker{}
	var buf bytes.Buffer
	inv := Wrap(next, &buf)

	dry := WithDryRun(context.Background(), true)
	if _, err := inv.Invoke(dry, "listPads", eplite.GET, nil); err != nil {
		t.Fatal(err)
	}
	if _, err := inv.Invoke(context.Background(), "createPad", eplite.POST, nil); err != nil {
		t.Fatal(err)
	}
	if next.calls != 2 {
		t.Errorf("expected 2 forwarded calls, got %d", next.calls)
	}
	if buf.Len() != 0 {
		t.Errorf("expected no preview, got %q", buf.String())
	}
}
