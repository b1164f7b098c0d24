package fieldmap

import "sync"

// Trace describes how a mapped error reached its target field: the walk
// steps taken and the redirection rules applied along the way.
type Trace struct {
	ViolationPath string // raw property path of the violation
	Target        string // name of the field the error attached to
	Steps         []TraceStep
}

// TraceStep records one step of the mapping walk.
type TraceStep struct {
	Field    string // name of the field entered or owning the rule
	Consumed string // path chunk consumed by a structural step ("" for rule steps and virtual entries)
	Rule     string // rule source that fired ("" for structural steps)
	Target   string // rule target ("" for structural steps)
}

var traceStore sync.Map

// GetTrace returns the mapping trace for an error attached by
// MapViolation. Thread-safe.
func GetTrace(err *FormError) (*Trace, bool) {
	if err == nil {
		return nil, false
	}

	value, ok := traceStore.Load(err)
	if !ok {
		return nil, false
	}

	tr, ok := value.(*Trace)
	return tr, ok
}

func storeTrace(err *FormError, tr *Trace) {
	if err != nil && tr != nil {
		traceStore.Store(err, tr)
	}
}

// traceRecorder accumulates steps during one MapViolation call.
type traceRecorder struct {
	trace *Trace
}

func newTraceRecorder(violationPath string) *traceRecorder {
	return &traceRecorder{trace: &Trace{ViolationPath: violationPath}}
}

func (r *traceRecorder) step(f Field, consumed []PathElement) {
	r.trace.Steps = append(r.trace.Steps, TraceStep{
		Field:    f.Name(),
		Consumed: renderElements(consumed),
	})
}

func (r *traceRecorder) rule(owner Field, src, target string) {
	r.trace.Steps = append(r.trace.Steps, TraceStep{
		Field:  owner.Name(),
		Rule:   src,
		Target: target,
	})
}

func (r *traceRecorder) finish(target Field) *Trace {
	r.trace.Target = target.Name()
	return r.trace
}
