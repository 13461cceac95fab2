package thinking

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
)

// ─── Test helpers ────────────────────────────────────────────────────────────

type stubFormatter struct{}

func (stubFormatter) Format(t Thought) string {
	return fmt.Sprintf("[%d/%d] %s", t.ThoughtNumber, t.TotalThoughts, t.Thought)
}

type recordingJournal struct {
	mu      sync.Mutex
	entries []Entry
	err     error
}

func (j *recordingJournal) Append(_ context.Context, e Entry) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.entries = append(j.entries, e)
	return j.err
}

func thoughtArgs(text string, number, total int, next bool) map[string]any {
	return map[string]any{
		"thought":           text,
		"thoughtNumber":     float64(number),
		"totalThoughts":     float64(total),
		"nextThoughtNeeded": next,
	}
}

func mustRecord(t *testing.T, tr *Tracker, args map[string]any) Summary {
	t.Helper()
	out := tr.Record(context.Background(), args)
	if out.Failed() {
		t.Fatalf("Record() failed: %v", out.Err)
	}
	return out.Summary
}

// ─── Scenarios ───────────────────────────────────────────────────────────────

func TestTracker_FirstThought(t *testing.T) {
	tr := New(nil, nil, nil)

	s := mustRecord(t, tr, thoughtArgs("Add jump mechanic", 1, 3, true))

	if s.ThoughtNumber != 1 || s.TotalThoughts != 3 || !s.NextThoughtNeeded {
		t.Errorf("summary = %+v, want 1/3 next=true", s)
	}
	if s.Branches == nil || len(s.Branches) != 0 {
		t.Errorf("Branches = %#v, want empty non-nil slice", s.Branches)
	}
	if s.ThoughtHistoryLength != 1 {
		t.Errorf("ThoughtHistoryLength = %d, want 1", s.ThoughtHistoryLength)
	}
}

func TestTracker_BumpsTotalThoughts(t *testing.T) {
	tr := New(nil, nil, nil)
	mustRecord(t, tr, thoughtArgs("Add jump mechanic", 1, 3, true))

	s := mustRecord(t, tr, thoughtArgs("Tune gravity", 5, 3, true))

	if s.TotalThoughts != 5 {
		t.Errorf("TotalThoughts = %d, want 5", s.TotalThoughts)
	}
	if s.ThoughtHistoryLength != 2 {
		t.Errorf("ThoughtHistoryLength = %d, want 2", s.ThoughtHistoryLength)
	}
	if got := tr.History()[1].TotalThoughts; got != 5 {
		t.Errorf("stored TotalThoughts = %d, want 5", got)
	}
}

func TestTracker_KeepsTotalWhenNotExceeded(t *testing.T) {
	tr := New(nil, nil, nil)
	s := mustRecord(t, tr, thoughtArgs("Level pacing", 2, 8, false))
	if s.TotalThoughts != 8 {
		t.Errorf("TotalThoughts = %d, want 8", s.TotalThoughts)
	}
	if s.NextThoughtNeeded {
		t.Error("NextThoughtNeeded = true, want false")
	}
}

func TestTracker_Branches(t *testing.T) {
	tr := New(nil, nil, nil)
	mustRecord(t, tr, thoughtArgs("Add jump mechanic", 1, 3, true))

	args := thoughtArgs("Alt control scheme", 2, 5, true)
	args["branchFromThought"] = float64(1)
	args["branchId"] = "controls-alt"
	s := mustRecord(t, tr, args)

	if len(s.Branches) != 1 || s.Branches[0] != "controls-alt" {
		t.Errorf("Branches = %v, want [controls-alt]", s.Branches)
	}

	// Same id, different origin: still accumulates.
	args = thoughtArgs("Alt scheme: twin stick", 3, 5, true)
	args["branchFromThought"] = float64(2)
	args["branchId"] = "controls-alt"
	mustRecord(t, tr, args)

	branches := tr.Branches()
	if len(branches["controls-alt"]) != 2 {
		t.Fatalf("branch length = %d, want 2", len(branches["controls-alt"]))
	}
	if branches["controls-alt"][1].Thought != "Alt scheme: twin stick" {
		t.Errorf("branch order wrong: %+v", branches["controls-alt"])
	}
	if tr.Len() != 3 {
		t.Errorf("Len() = %d, want 3", tr.Len())
	}
}

func TestTracker_BranchRequiresBothFields(t *testing.T) {
	tr := New(nil, nil, nil)

	onlyID := thoughtArgs("id only", 1, 2, true)
	onlyID["branchId"] = "orphan"
	mustRecord(t, tr, onlyID)

	onlyFrom := thoughtArgs("from only", 2, 2, false)
	onlyFrom["branchFromThought"] = float64(1)
	s := mustRecord(t, tr, onlyFrom)

	if len(s.Branches) != 0 {
		t.Errorf("Branches = %v, want none", s.Branches)
	}
	if s.ThoughtHistoryLength != 2 {
		t.Errorf("ThoughtHistoryLength = %d, want 2", s.ThoughtHistoryLength)
	}
}

func TestTracker_BranchToUnknownThoughtAccepted(t *testing.T) {
	tr := New(nil, nil, nil)
	args := thoughtArgs("Branch from nowhere", 1, 1, false)
	args["branchFromThought"] = float64(99)
	args["branchId"] = "ghost"

	s := mustRecord(t, tr, args)
	if len(s.Branches) != 1 || s.Branches[0] != "ghost" {
		t.Errorf("Branches = %v, want [ghost]", s.Branches)
	}
}

func TestTracker_BranchFromStringOrigin(t *testing.T) {
	tr := New(nil, nil, nil)
	args := thoughtArgs("Alt control scheme", 2, 3, true)
	args["branchFromThought"] = "1"
	args["branchId"] = "alt"

	s := mustRecord(t, tr, args)
	if len(s.Branches) != 1 || s.Branches[0] != "alt" {
		t.Errorf("Branches = %v, want [alt]", s.Branches)
	}
	stored := tr.History()[0]
	if stored.Extra[FieldBranchFromThought] != "1" {
		t.Errorf("Extra[branchFromThought] = %v, want \"1\"", stored.Extra[FieldBranchFromThought])
	}
}

func TestTracker_RejectsUnrepresentableNumbers(t *testing.T) {
	tests := []struct {
		name          string
		number, total any
		message       string
	}{
		{"huge thoughtNumber", 1e19, float64(3), "Invalid thoughtNumber: must be a number"},
		{"fractional zero thoughtNumber", 0.5, 0.9, "Invalid thoughtNumber: must be a number"},
		{"fractional zero totalThoughts", float64(1), 0.9, "Invalid totalThoughts: must be a number"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := New(nil, nil, nil)
			out := tr.Record(context.Background(), map[string]any{
				"thought":           "x",
				"thoughtNumber":     tt.number,
				"totalThoughts":     tt.total,
				"nextThoughtNeeded": true,
			})
			if !out.Failed() {
				t.Fatalf("Record() = %+v, want failure", out.Summary)
			}
			if out.Err.Error() != tt.message {
				t.Errorf("error = %q, want %q", out.Err.Error(), tt.message)
			}
			if tr.Len() != 0 {
				t.Errorf("Len() = %d, want 0", tr.Len())
			}
		})
	}
}

func TestTracker_RejectionLeavesStateUntouched(t *testing.T) {
	tr := New(nil, nil, nil)
	mustRecord(t, tr, thoughtArgs("Add jump mechanic", 1, 3, true))

	for i := 0; i < 3; i++ {
		out := tr.Record(context.Background(), map[string]any{
			"thoughtNumber":     float64(1),
			"totalThoughts":     float64(1),
			"nextThoughtNeeded": true,
		})
		if !out.Failed() {
			t.Fatal("Record() succeeded, want failure")
		}
		f, ok := out.Payload().(Failure)
		if !ok {
			t.Fatalf("Payload() = %T, want Failure", out.Payload())
		}
		if f.Error != "Invalid thought: must be a string" || f.Status != "failed" {
			t.Errorf("failure = %+v", f)
		}
	}

	if tr.Len() != 1 {
		t.Errorf("Len() = %d, want 1", tr.Len())
	}
}

func TestTracker_HistoryIsAppendOnly(t *testing.T) {
	tr := New(nil, nil, nil)
	texts := []string{"Core loop", "Economy", "Boss fight", "Economy v2"}
	for i, text := range texts {
		mustRecord(t, tr, thoughtArgs(text, i+1, len(texts), i < len(texts)-1))
		before := tr.History()
		if len(before) != i+1 {
			t.Fatalf("history length = %d, want %d", len(before), i+1)
		}
		for j := 0; j <= i; j++ {
			if before[j].Thought != texts[j] {
				t.Errorf("history[%d] = %q, want %q", j, before[j].Thought, texts[j])
			}
		}
	}

	// Mutating the copy must not leak into the tracker.
	h := tr.History()
	h[0].Thought = "changed"
	if tr.History()[0].Thought != "Core loop" {
		t.Error("History() should return a copy")
	}
}

func TestTracker_Concurrent(t *testing.T) {
	tr := New(nil, nil, nil)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			args := thoughtArgs(fmt.Sprintf("idea %d", n), n+1, 50, true)
			args["branchFromThought"] = float64(1)
			args["branchId"] = "parallel"
			tr.Record(context.Background(), args)
		}(i)
	}
	wg.Wait()

	if tr.Len() != 50 {
		t.Errorf("Len() = %d, want 50", tr.Len())
	}
	if got := len(tr.Branches()["parallel"]); got != 50 {
		t.Errorf("branch length = %d, want 50", got)
	}
}

// ─── Side channels ───────────────────────────────────────────────────────────

func TestTracker_WritesDiagnostics(t *testing.T) {
	var buf bytes.Buffer
	tr := New(stubFormatter{}, &buf, nil)

	mustRecord(t, tr, thoughtArgs("Tune gravity", 5, 3, true))

	if got := buf.String(); !strings.Contains(got, "[5/5] Tune gravity") {
		t.Errorf("diagnostics = %q, want rendered normalized thought", got)
	}

	buf.Reset()
	tr.Record(context.Background(), map[string]any{})
	if buf.Len() != 0 {
		t.Errorf("rejected thought should not be rendered, got %q", buf.String())
	}
}

func TestTracker_Journal(t *testing.T) {
	tr := New(nil, nil, nil)
	j := &recordingJournal{}
	tr.SetJournal(j)

	mustRecord(t, tr, thoughtArgs("Core loop", 1, 2, true))
	mustRecord(t, tr, thoughtArgs("Meta loop", 2, 2, false))
	tr.Record(context.Background(), map[string]any{"thought": "bad"})

	if len(j.entries) != 2 {
		t.Fatalf("journal entries = %d, want 2", len(j.entries))
	}
	if j.entries[1].Sequence != 2 || j.entries[1].Thought.Thought != "Meta loop" {
		t.Errorf("entry = %+v", j.entries[1])
	}
	if j.entries[0].SessionID != tr.SessionID() {
		t.Errorf("SessionID = %q, want %q", j.entries[0].SessionID, tr.SessionID())
	}
}

func TestTracker_JournalErrorDoesNotFailRecord(t *testing.T) {
	tr := New(nil, nil, nil)
	tr.SetJournal(&recordingJournal{err: errors.New("disk full")})

	out := tr.Record(context.Background(), thoughtArgs("Core loop", 1, 1, false))
	if out.Failed() {
		t.Fatalf("Record() failed: %v", out.Err)
	}
	if tr.Len() != 1 {
		t.Errorf("Len() = %d, want 1", tr.Len())
	}
}

func TestTracker_FreshInstancesAreIsolated(t *testing.T) {
	a := New(nil, nil, nil)
	b := New(nil, nil, nil)
	mustRecord(t, a, thoughtArgs("only in a", 1, 1, false))

	if b.Len() != 0 {
		t.Errorf("b.Len() = %d, want 0", b.Len())
	}
	if a.SessionID() == b.SessionID() {
		t.Error("session ids should differ")
	}
}
