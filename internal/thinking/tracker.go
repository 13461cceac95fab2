package thinking

import (
	"context"
	"io"
	"sort"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Formatter renders a recorded thought for human display.
type Formatter interface {
	Format(t Thought) string
}

// Journal receives every accepted thought after it has been stored.
// Implementations must not block for long; errors are logged, never
// returned to the caller.
type Journal interface {
	Append(ctx context.Context, entry Entry) error
}

// Entry is what the tracker hands to a Journal.
type Entry struct {
	SessionID string
	Sequence  int
	Thought   Thought
}

// Outcome is the result of Record: a Summary on success, or the
// ValidationError that rejected the input.
type Outcome struct {
	Summary Summary
	Err     *ValidationError
}

// Failed reports whether the thought was rejected.
func (o Outcome) Failed() bool {
	return o.Err != nil
}

// Payload returns the value to serialize back to the caller.
func (o Outcome) Payload() any {
	if o.Err != nil {
		return Failure{Error: o.Err.Message, Status: StatusFailed}
	}
	return o.Summary
}

// Tracker owns the thought history and the branch index for the lifetime
// of the process. It is safe for concurrent use; appends are serialized so
// arrival order is preserved in both the history and each branch.
type Tracker struct {
	sessionID string
	formatter Formatter
	diag      io.Writer
	logger    *zap.Logger

	mu       sync.Mutex
	history  []Thought
	branches map[string][]Thought
	journal  Journal
}

// New creates an empty Tracker. When formatter and diag are both non-nil,
// every accepted thought is rendered to diag. A nil logger disables logging.
func New(formatter Formatter, diag io.Writer, logger *zap.Logger) *Tracker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Tracker{
		sessionID: uuid.NewString(),
		formatter: formatter,
		diag:      diag,
		logger:    logger,
		branches:  make(map[string][]Thought),
	}
}

// SetJournal attaches an audit journal. Nil detaches it.
func (t *Tracker) SetJournal(j Journal) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.journal = j
}

// SessionID identifies this tracker instance in journal rows and logs.
func (t *Tracker) SessionID() string {
	return t.sessionID
}

// Record validates raw tool arguments, normalizes the thought, appends it
// to the history (and to its branch, when it names one) and returns the
// summary. A rejected thought leaves all state untouched.
func (t *Tracker) Record(ctx context.Context, args map[string]any) Outcome {
	v := Validate(args)
	if !v.OK() {
		t.logger.Info("thought rejected",
			zap.String("field", v.Err.Field),
			zap.String("reason", v.Err.Message),
		)
		return Outcome{Err: v.Err}
	}
	thought := Normalize(v.Thought)

	t.mu.Lock()
	t.history = append(t.history, thought)
	if id, ok := thought.Branch(); ok {
		t.branches[id] = append(t.branches[id], thought)
	}
	summary := Summary{
		ThoughtNumber:        thought.ThoughtNumber,
		TotalThoughts:        thought.TotalThoughts,
		NextThoughtNeeded:    thought.NextThoughtNeeded,
		Branches:             t.branchIDsLocked(),
		ThoughtHistoryLength: len(t.history),
	}
	journal := t.journal
	t.mu.Unlock()

	t.logger.Debug("thought recorded",
		zap.Int("thought_number", thought.ThoughtNumber),
		zap.Int("total_thoughts", thought.TotalThoughts),
		zap.String("branch_id", thought.BranchID),
		zap.Int("history_length", summary.ThoughtHistoryLength),
	)

	t.display(thought)
	if journal != nil {
		entry := Entry{SessionID: t.sessionID, Sequence: summary.ThoughtHistoryLength, Thought: thought}
		if err := journal.Append(ctx, entry); err != nil {
			t.logger.Warn("journal append failed", zap.Error(err))
		}
	}

	return Outcome{Summary: summary}
}

// display writes the rendered thought to the diagnostic writer. Write
// errors are ignored: the display is for humans only.
func (t *Tracker) display(thought Thought) {
	if t.formatter == nil || t.diag == nil {
		return
	}
	_, _ = io.WriteString(t.diag, t.formatter.Format(thought)+"\n")
}

// Len returns the number of recorded thoughts.
func (t *Tracker) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.history)
}

// History returns a copy of every recorded thought in arrival order.
func (t *Tracker) History() []Thought {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]Thought(nil), t.history...)
}

// Branches returns a copy of the branch index.
func (t *Tracker) Branches() map[string][]Thought {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make(map[string][]Thought, len(t.branches))
	for id, thoughts := range t.branches {
		out[id] = append([]Thought(nil), thoughts...)
	}
	return out
}

func (t *Tracker) branchIDsLocked() []string {
	ids := make([]string, 0, len(t.branches))
	for id := range t.branches {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
