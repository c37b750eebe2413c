package logparse

import "strings"

// Severity classes recognised by SeverityClass.
const (
	SeverityTrace = "TRACE"
	SeverityDebug = "DEBUG"
	SeverityInfo  = "INFO"
	SeverityWarn  = "WARN"
	SeverityError = "ERROR"
	SeverityFatal = "FATAL"
)

// SeverityClass maps a free-form level label onto one of the six severity
// classes, or "" when the label is not recognised. It is a presentation
// helper: entry levels are stored and filtered verbatim.
func SeverityClass(level string) string {
	normalized := strings.ToUpper(strings.TrimSpace(level))

	switch normalized {
	case "TRACE", "TRAC", "TRC":
		return SeverityTrace
	case "DEBUG", "DEBU", "DBG", "DEB":
		return SeverityDebug
	case "INFO", "INFORMATION", "INF", "NOTICE":
		return SeverityInfo
	case "WARN", "WARNING", "WRNG", "WRN":
		return SeverityWarn
	case "ERROR", "ERR", "ERRO":
		return SeverityError
	case "FATAL", "FATL", "FTL", "CRITICAL", "CRIT", "CRT", "PANIC", "PNC":
		return SeverityFatal
	}

	if len(normalized) < 4 {
		return ""
	}
	switch normalized[:4] {
	case "TRAC":
		return SeverityTrace
	case "DEBU":
		return SeverityDebug
	case "INFO":
		return SeverityInfo
	case "WARN":
		return SeverityWarn
	case "ERRO":
		return SeverityError
	case "FATA", "CRIT":
		return SeverityFatal
	}
	return ""
}
