package harness

import "github.com/roach88/relmap/internal/ir"

// Trace event types.
const (
	EventCall      = "call"
	EventTransform = "transform"
)

// TraceEvent is one entry of a scenario trace.
//
// Call events carry Op, Registry, Args, Found and Error. Transform events
// carry Key, Classification, Input, Output and Error.
type TraceEvent struct {
	Seq  int64  `json:"seq"`
	Type string `json:"type"`

	Op       string            `json:"op,omitempty"`
	Registry ir.RegistryHandle `json:"registry,omitempty"` // active when the call was made
	Args     []string          `json:"args,omitempty"`
	Found    string            `json:"found,omitempty"`

	Key            string `json:"key,omitempty"`
	Classification string `json:"classification,omitempty"`
	Input          string `json:"input,omitempty"`
	Output         string `json:"output,omitempty"`

	Error string `json:"error,omitempty"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true when every expectation and assertion held.
	Pass bool `json:"pass"`

	// Trace holds calls and transforms in execution order.
	Trace []TraceEvent `json:"trace"`

	// Errors holds expectation and assertion failures.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// Calls returns the call events of the trace.
func (r *Result) Calls() []TraceEvent {
	var calls []TraceEvent
	for _, e := range r.Trace {
		if e.Type == EventCall {
			calls = append(calls, e)
		}
	}
	return calls
}
