package diagnostics

import (
	"fmt"
	"sort"

	"github.com/dustin/go-humanize"
)

// DefaultBudget is the number of Hard/Warning diagnostics after which
// semantic analysis aborts with E9002, per spec.md §5/§7.
const DefaultBudget = 100

// Queue accumulates diagnostics for one compilation run and applies the
// Soft-suppression and budget policies spec.md §7 describes. Grounded on
// the sibling teacher fork's flat `[]*DiagnosticError` accumulation
// (diagnostics.go) and funvibe-funxy's `errorSet map[string]...` dedup
// idiom (analyzer/analyzer.go), merged into one type that additionally
// tracks a run id for correlation.
type Queue struct {
	Run RunID

	budget int
	hard   []Diagnostic
	soft   []Diagnostic
	seen   map[string]bool // dedup key: code + primary span, mirrors the teacher's addError
	halted bool
}

// NewQueue creates an empty queue with the default diagnostic budget.
func NewQueue() *Queue {
	return &Queue{Run: NewRunID(), budget: DefaultBudget, seen: make(map[string]bool)}
}

// WithBudget overrides the default budget (e.g. from sigilc.yaml) and
// returns q for chaining.
func (q *Queue) WithBudget(n int) *Queue {
	q.budget = n
	return q
}

// Halted reports whether the budget has already been exceeded; callers
// should stop invoking further analysis passes once true.
func (q *Queue) Halted() bool { return q.halted }

// Add records d. Soft diagnostics are buffered separately and only
// promoted once Finish resolves Hard/Soft overlap; Hard and Warning
// diagnostics are deduplicated by (code, primary span) the way the
// teacher's `addError` dedups by "line:col:code".
func (q *Queue) Add(d Diagnostic) {
	if d.Severity == Soft {
		q.soft = append(q.soft, d)
		return
	}
	key := fmt.Sprintf("%s:%s", d.Code, d.PrimarySpan())
	if q.seen[key] {
		return
	}
	q.seen[key] = true
	q.hard = append(q.hard, d)

	if d.Severity == Hard && !q.halted && len(q.hard) >= q.budget {
		q.halted = true
		q.hard = append(q.hard, New(E9002, d.PrimarySpan(),
			fmt.Sprintf("diagnostic budget of %s exceeded; halting semantic analysis", humanize.Comma(int64(q.budget)))))
	}
}

// Finish drops any Soft diagnostic whose primary span is also covered by a
// Hard diagnostic, then returns all surviving diagnostics sorted by
// (span, code) for stable, source-ordered output (spec.md §5's final
// rendering order).
func (q *Queue) Finish() []Diagnostic {
	hardSpans := make(map[string]bool, len(q.hard))
	for _, d := range q.hard {
		hardSpans[d.PrimarySpan().String()] = true
	}

	out := make([]Diagnostic, 0, len(q.hard)+len(q.soft))
	out = append(out, q.hard...)
	for _, d := range q.soft {
		if !hardSpans[d.PrimarySpan().String()] {
			out = append(out, d)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		si, sj := out[i].PrimarySpan(), out[j].PrimarySpan()
		if si.Start != sj.Start {
			return si.Start < sj.Start
		}
		if si.End != sj.End {
			return si.End < sj.End
		}
		return out[i].Code < out[j].Code
	})
	return out
}
