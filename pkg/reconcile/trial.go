package reconcile

import "github.com/vango-dev/rmx/pkg/dom"

// hydrationTrial holds back the destructive half of hydrating an error
// boundary's children. While it is open, server nodes that fail to match
// stay in the document and mismatches are buffered. A trapped error rolls
// the attempt back so the fallback adopts the markup the server rendered
// for it.
type hydrationTrial struct {
	outer      *hydrationTrial
	discarded  []*dom.Node
	created    []*dom.Node
	mismatches []mismatchRecord
}

type mismatchRecord struct {
	code  string
	what  string
	attrs []any
}

func (r *Root) beginTrial() *hydrationTrial {
	t := &hydrationTrial{outer: r.trial}
	r.trial = t
	return t
}

// commitTrial hands t to the enclosing trial, or applies it when t is the
// outermost one.
func (r *Root) commitTrial(t *hydrationTrial) {
	r.trial = t.outer
	if o := t.outer; o != nil {
		o.discarded = append(o.discarded, t.discarded...)
		o.created = append(o.created, t.created...)
		o.mismatches = append(o.mismatches, t.mismatches...)
		return
	}
	for _, d := range t.discarded {
		d.Remove()
	}
	for _, m := range t.mismatches {
		r.recordMismatch(m)
	}
}

// rollbackTrial removes what the attempt created. Discarded server nodes
// were never detached and buffered mismatches are dropped.
func (r *Root) rollbackTrial(t *hydrationTrial) {
	r.trial = t.outer
	for i := len(t.created) - 1; i >= 0; i-- {
		t.created[i].Remove()
	}
}

// discard drops a server node the client tree did not claim.
func (r *Root) discard(d *dom.Node) {
	if r.trial != nil {
		r.trial.discarded = append(r.trial.discarded, d)
		return
	}
	d.Remove()
}

// created notes a node inserted while a trial is open.
func (r *Root) created(d *dom.Node) {
	if r.trial != nil {
		r.trial.created = append(r.trial.created, d)
	}
}

func (r *Root) mismatch(code, what string, attrs ...any) {
	m := mismatchRecord{code: code, what: what, attrs: attrs}
	if r.trial != nil {
		r.trial.mismatches = append(r.trial.mismatches, m)
		return
	}
	r.recordMismatch(m)
}

func (r *Root) recordMismatch(m mismatchRecord) {
	r.mu.Lock()
	r.mismatches++
	r.mu.Unlock()
	r.metrics.RecordMismatch()
	args := append([]any{"code", m.code, "kind", m.what}, m.attrs...)
	r.logger.Warn("hydration mismatch", args...)
}
