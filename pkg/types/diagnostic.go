package types

import "fmt"

// DiagnosticCode identifies the kind of problem a diagnostic reports
type DiagnosticCode string

const (
	CodeMalformedIdentifier      DiagnosticCode = "MalformedIdentifier"
	CodeUnsupportedPrefix        DiagnosticCode = "UnsupportedPrefix"
	CodeAmbiguousOverload        DiagnosticCode = "AmbiguousOverload"
	CodeUnresolvedMember         DiagnosticCode = "UnresolvedMember"
	CodeMarkupError              DiagnosticCode = "MarkupError"
	CodeUnresolvedCrossReference DiagnosticCode = "UnresolvedCrossReference"
)

// Severity ranks diagnostics. None of them abort a document parse.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Diagnostic is a non-fatal, per-member problem found while reading a document
type Diagnostic struct {
	Code     DiagnosticCode
	Severity Severity
	MemberID string // Raw member name attribute, may itself be malformed
	Message  string

	// Location in the source document. Zero values mean unknown.
	Line   int
	Column int
	Offset int
}

// Error implements the error interface
func (d *Diagnostic) Error() string {
	if d.Line > 0 {
		return fmt.Sprintf("%s: %s: %s (line %d)", d.Code, d.MemberID, d.Message, d.Line)
	}
	return fmt.Sprintf("%s: %s: %s", d.Code, d.MemberID, d.Message)
}

// Unwrap maps the code onto its sentinel error so callers can use errors.Is
func (d *Diagnostic) Unwrap() error {
	return d.Code.Err()
}

// Err returns the sentinel error for the code
func (c DiagnosticCode) Err() error {
	switch c {
	case CodeMalformedIdentifier:
		return ErrMalformedIdentifier
	case CodeUnsupportedPrefix:
		return ErrUnsupportedPrefix
	case CodeAmbiguousOverload:
		return ErrAmbiguousOverload
	case CodeUnresolvedMember:
		return ErrUnresolvedMember
	case CodeMarkupError:
		return ErrMarkup
	case CodeUnresolvedCrossReference:
		return ErrUnresolvedCrossReference
	default:
		return nil
	}
}

// DefaultSeverity returns the severity a code is reported with
func (c DiagnosticCode) DefaultSeverity() Severity {
	switch c {
	case CodeMalformedIdentifier, CodeUnsupportedPrefix, CodeMarkupError:
		return SeverityError
	case CodeAmbiguousOverload:
		return SeverityWarning
	default:
		return SeverityInfo
	}
}

// NewDiagnostic creates a diagnostic with the code's default severity
func NewDiagnostic(code DiagnosticCode, memberID, msg string) Diagnostic {
	return Diagnostic{
		Code:     code,
		Severity: code.DefaultSeverity(),
		MemberID: memberID,
		Message:  msg,
	}
}

// Diagnostics is an ordered list of diagnostics
type Diagnostics []Diagnostic

// HasErrors returns true if any diagnostic has error severity
func (ds Diagnostics) HasErrors() bool {
	for i := range ds {
		if ds[i].Severity == SeverityError {
			return true
		}
	}
	return false
}

// ByCode returns the diagnostics with the given code, in order
func (ds Diagnostics) ByCode(code DiagnosticCode) Diagnostics {
	var out Diagnostics
	for i := range ds {
		if ds[i].Code == code {
			out = append(out, ds[i])
		}
	}
	return out
}
