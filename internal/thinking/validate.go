package thinking

import (
	"encoding/json"
	"math"
)

// Validation is the outcome of checking raw tool arguments: either a
// usable Thought or the first ValidationError encountered.
type Validation struct {
	Thought Thought
	Err     *ValidationError
}

// OK reports whether the arguments passed every required check.
func (v Validation) OK() bool {
	return v.Err == nil
}

// Validate checks untyped tool arguments in a fixed order and stops at the
// first failure:
//
//  1. thought: non-empty string
//  2. thoughtNumber: number that truncates to a non-zero int
//  3. totalThoughts: number that truncates to a non-zero int
//  4. nextThoughtNeeded: boolean
//
// Numbers outside the int range fail like any other non-number.
// Optional fields are copied into their typed slot when they have the
// expected JSON type and into Thought.Extra, unchanged, otherwise. No
// range or cross-reference checks are made on them.
// Validate does not normalize totalThoughts; see Normalize.
func Validate(args map[string]any) Validation {
	text, ok := args[FieldThought].(string)
	if !ok || text == "" {
		return Validation{Err: invalid(FieldThought, "string")}
	}

	number, ok := requiredNumber(args, FieldThoughtNumber)
	if !ok {
		return Validation{Err: invalid(FieldThoughtNumber, "number")}
	}

	total, ok := requiredNumber(args, FieldTotalThoughts)
	if !ok {
		return Validation{Err: invalid(FieldTotalThoughts, "number")}
	}

	next, ok := args[FieldNextThoughtNeeded].(bool)
	if !ok {
		return Validation{Err: invalid(FieldNextThoughtNeeded, "boolean")}
	}

	t := Thought{
		Thought:           text,
		ThoughtNumber:     number,
		TotalThoughts:     total,
		NextThoughtNeeded: next,
	}
	o := optionals{args: args}
	t.IsRevision = o.boolean(FieldIsRevision)
	t.RevisesThought = o.integer(FieldRevisesThought)
	t.BranchFromThought = o.integer(FieldBranchFromThought)
	t.BranchID = o.str(FieldBranchID)
	t.NeedsMoreThoughts = o.boolean(FieldNeedsMoreThoughts)
	t.DesignArea = o.str(FieldDesignArea)
	t.Tags = o.strings(FieldTags)
	t.Extra = o.extra

	return Validation{Thought: t}
}

// Normalize raises TotalThoughts to ThoughtNumber when the caller
// under-estimated the length of the process.
func Normalize(t Thought) Thought {
	if t.ThoughtNumber > t.TotalThoughts {
		t.TotalThoughts = t.ThoughtNumber
	}
	return t
}

// requiredNumber accepts any JSON number that truncates to a non-zero
// int, matching the falsy-zero rejection of the sequential-thinking MCP
// servers.
func requiredNumber(args map[string]any, key string) (int, bool) {
	f, ok := toFloat(args[key])
	if !ok {
		return 0, false
	}
	n, ok := toInt(f)
	if !ok || n == 0 {
		return 0, false
	}
	return n, true
}

// toInt truncates f toward zero. ok is false when the result does not
// fit in an int.
func toInt(f float64) (int, bool) {
	f = math.Trunc(f)
	if f < float64(math.MinInt) || f >= float64(math.MaxInt) {
		return 0, false
	}
	return int(f), true
}

// optionals reads optional fields. Values of the wrong type are
// collected verbatim in extra.
type optionals struct {
	args  map[string]any
	extra map[string]any
}

func (o *optionals) keep(key string) {
	v, ok := o.args[key]
	if !ok || v == nil {
		return
	}
	if o.extra == nil {
		o.extra = make(map[string]any)
	}
	o.extra[key] = v
}

func (o *optionals) integer(key string) *int {
	if f, ok := toFloat(o.args[key]); ok {
		if n, ok := toInt(f); ok {
			return &n
		}
	}
	o.keep(key)
	return nil
}

func (o *optionals) boolean(key string) *bool {
	if b, ok := o.args[key].(bool); ok {
		return &b
	}
	o.keep(key)
	return nil
}

func (o *optionals) str(key string) string {
	if s, ok := o.args[key].(string); ok {
		return s
	}
	o.keep(key)
	return ""
}

// strings accepts a list made only of strings. Anything else, including
// a list with a non-string item, is kept whole in extra.
func (o *optionals) strings(key string) []string {
	switch items := o.args[key].(type) {
	case []string:
		if len(items) == 0 {
			return nil
		}
		return append([]string(nil), items...)
	case []any:
		out := make([]string, 0, len(items))
		for _, item := range items {
			s, ok := item.(string)
			if !ok {
				o.keep(key)
				return nil
			}
			out = append(out, s)
		}
		if len(out) == 0 {
			return nil
		}
		return out
	}
	o.keep(key)
	return nil
}

// toFloat accepts the numeric shapes tool arguments arrive in: float64
// from encoding/json, json.Number from decoders using UseNumber, and
// native ints from in-process callers.
func toFloat(v any) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int32:
		f = float64(n)
	case int64:
		f = float64(n)
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
