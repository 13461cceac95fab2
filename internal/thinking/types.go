// Package thinking holds the game design thought tracker: the ordered
// history of submitted design steps and the index of named branches.
//
// The package follows the same layout as the rest of the server:
// - types.go: the Thought record and the response summary
// - validate.go: ordered runtime checks over untyped tool arguments
// - tracker.go: the stateful Tracker (append, branch, summarize)
package thinking

import (
	"fmt"
	"math"
	"strconv"
)

// Field names as they appear in tool arguments.
const (
	FieldThought           = "thought"
	FieldThoughtNumber     = "thoughtNumber"
	FieldTotalThoughts     = "totalThoughts"
	FieldNextThoughtNeeded = "nextThoughtNeeded"
	FieldIsRevision        = "isRevision"
	FieldRevisesThought    = "revisesThought"
	FieldBranchFromThought = "branchFromThought"
	FieldBranchID          = "branchId"
	FieldNeedsMoreThoughts = "needsMoreThoughts"
	FieldDesignArea        = "designArea"
	FieldTags              = "tags"
)

// Thought is one numbered step of an iterative game design process.
//
// Optional numeric fields are pointers so that "absent" and "zero" stay
// distinguishable when the record is echoed back through resources.
// Optional fields that arrive with an unexpected JSON type are kept
// verbatim in Extra under their argument name.
type Thought struct {
	Thought           string `json:"thought"`
	ThoughtNumber     int    `json:"thoughtNumber"`
	TotalThoughts     int    `json:"totalThoughts"`
	NextThoughtNeeded bool   `json:"nextThoughtNeeded"`

	IsRevision        *bool  `json:"isRevision,omitempty"`
	RevisesThought    *int   `json:"revisesThought,omitempty"`
	BranchFromThought *int   `json:"branchFromThought,omitempty"`
	BranchID          string `json:"branchId,omitempty"`
	NeedsMoreThoughts *bool  `json:"needsMoreThoughts,omitempty"`

	// Domain tags. Stored and echoed, never interpreted.
	DesignArea string   `json:"designArea,omitempty"`
	Tags       []string `json:"tags,omitempty"`

	Extra map[string]any `json:"extra,omitempty"`
}

// Revision reports whether the thought amends an earlier one.
func (t Thought) Revision() bool {
	if t.IsRevision != nil {
		return *t.IsRevision
	}
	return truthy(t.Extra[FieldIsRevision])
}

// MoreStepsWanted reports whether the caller flagged needsMoreThoughts.
func (t Thought) MoreStepsWanted() bool {
	if t.NeedsMoreThoughts != nil {
		return *t.NeedsMoreThoughts
	}
	return truthy(t.Extra[FieldNeedsMoreThoughts])
}

// RevisedThought returns the revisesThought reference for display.
func (t Thought) RevisedThought() (string, bool) {
	if t.RevisesThought != nil {
		return strconv.Itoa(*t.RevisesThought), true
	}
	if v, ok := t.Extra[FieldRevisesThought]; ok {
		return fmt.Sprint(v), true
	}
	return "", false
}

// BranchOrigin returns the branchFromThought reference for display. ok
// is false when the field is absent, zero or otherwise falsy.
func (t Thought) BranchOrigin() (string, bool) {
	if t.BranchFromThought != nil {
		if *t.BranchFromThought == 0 {
			return "", false
		}
		return strconv.Itoa(*t.BranchFromThought), true
	}
	if v := t.Extra[FieldBranchFromThought]; truthy(v) {
		return fmt.Sprint(v), true
	}
	return "", false
}

// Branch returns the branch the thought belongs to. ok is false unless
// a truthy branchFromThought and a non-empty branchId were both given.
func (t Thought) Branch() (id string, ok bool) {
	if t.BranchID == "" {
		return "", false
	}
	if _, ok := t.BranchOrigin(); !ok {
		return "", false
	}
	return t.BranchID, true
}

// truthy follows JSON-value truthiness: false, 0, NaN, "" and null are
// falsy; everything else, including empty arrays and objects, is truthy.
func truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case string:
		return x != ""
	default:
		if f, ok := toFloat(v); ok {
			return f != 0
		}
		if f, ok := v.(float64); ok && math.IsNaN(f) {
			return false
		}
		return true
	}
}

// Summary is the success payload returned to the caller after a thought
// has been recorded.
type Summary struct {
	ThoughtNumber        int      `json:"thoughtNumber"`
	TotalThoughts        int      `json:"totalThoughts"`
	NextThoughtNeeded    bool     `json:"nextThoughtNeeded"`
	Branches             []string `json:"branches"`
	ThoughtHistoryLength int      `json:"thoughtHistoryLength"`
}

// Failure is the payload returned when a thought is rejected.
type Failure struct {
	Error  string `json:"error"`
	Status string `json:"status"`
}

// StatusFailed is the fixed status marker carried by every Failure.
const StatusFailed = "failed"

// ValidationError reports the first required field that failed its
// runtime check. The message text is the whole contract.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(field, kind string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: fmt.Sprintf("Invalid %s: must be a %s", field, kind),
	}
}
