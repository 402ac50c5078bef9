package diag

// Severity orders findings: Error > Warning > Info.
type Severity uint8

const (
	SevInfo Severity = iota
	SevWarning
	SevError
)

// String is the upper-case form used by pretty output and JSON.
func (s Severity) String() string {
	switch s {
	case SevInfo:
		return "INFO"
	case SevWarning:
		return "WARNING"
	case SevError:
		return "ERROR"
	}
	return "UNKNOWN"
}

// Label is the lower-case form used by the short format.
func (s Severity) Label() string {
	switch s {
	case SevError:
		return "error"
	case SevWarning:
		return "warning"
	}
	return "info"
}
