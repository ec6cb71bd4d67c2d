package xbrl

import "fmt"

// Kind identifies the class of a recovered anomaly.
type Kind string

const (
	KindDanglingReference        Kind = "dangling_reference"
	KindCyclicRelationship       Kind = "cyclic_relationship"
	KindMaxDepthExceeded         Kind = "max_depth_exceeded"
	KindUnrecognizedRole         Kind = "unrecognized_role"
	KindCalculationInconsistency Kind = "calculation_inconsistency"
)

// Severity grades a diagnostic. Errors mark dropped data, warnings mark
// degraded-but-kept data. Neither aborts the pass.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Diagnostic records one recovered anomaly: what kind, how bad, which
// entity it concerns, and a human-readable account.
type Diagnostic struct {
	Kind     Kind     `json:"kind"`
	Severity Severity `json:"severity"`
	Subject  string   `json:"subject,omitempty"`
	Message  string   `json:"message"`
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("[%s] %s: %s", d.Severity, d.Kind, d.Message)
}

// Diagnostics accumulates recovered anomalies across the extraction pass.
// The pipeline returns it alongside (never instead of) best-effort output.
type Diagnostics []Diagnostic

// Add appends a diagnostic.
func (ds *Diagnostics) Add(kind Kind, sev Severity, subject, format string, args ...interface{}) {
	*ds = append(*ds, Diagnostic{
		Kind:     kind,
		Severity: sev,
		Subject:  subject,
		Message:  fmt.Sprintf(format, args...),
	})
}

// Count returns how many diagnostics of the given kind were recorded.
func (ds Diagnostics) Count(kind Kind) int {
	n := 0
	for _, d := range ds {
		if d.Kind == kind {
			n++
		}
	}
	return n
}

// LoadError is the only fatal condition: the filing failed to load or is
// structurally invalid. The pipeline aborts before any extraction.
type LoadError struct {
	Source string
	Reason string
	Err    error
}

func (e *LoadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("load %s: %s: %v", e.Source, e.Reason, e.Err)
	}
	return fmt.Sprintf("load %s: %s", e.Source, e.Reason)
}

func (e *LoadError) Unwrap() error { return e.Err }
