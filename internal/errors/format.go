package errors

import (
	"fmt"
	"sort"
	"strings"
)

// FormatForCLI formats an error for CLI output.
// Uses a concise format suitable for terminal display.
func FormatForCLI(err error) string {
	if err == nil {
		return ""
	}

	ae, ok := err.(*AgoraError)
	if !ok {
		// Wrap standard error
		ae = Wrap(ErrCodeInternal, err)
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Error: %s\n", ae.Message))

	if len(ae.Details) > 0 {
		keys := make([]string, 0, len(ae.Details))
		for k := range ae.Details {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			sb.WriteString(fmt.Sprintf("  %s: %s\n", k, ae.Details[k]))
		}
	}

	if ae.Suggestion != "" {
		sb.WriteString(fmt.Sprintf("Suggestion: %s\n", ae.Suggestion))
	}

	sb.WriteString(fmt.Sprintf("[%s]", ae.Code))

	return sb.String()
}

// FormatForLog returns structured key-value pairs for slog.
func FormatForLog(err error) map[string]any {
	if err == nil {
		return nil
	}

	ae, ok := err.(*AgoraError)
	if !ok {
		return map[string]any{
			"error": err.Error(),
			"code":  ErrCodeInternal,
		}
	}

	fields := map[string]any{
		"error":    ae.Message,
		"code":     ae.Code,
		"category": string(ae.Category),
		"severity": string(ae.Severity),
	}
	for k, v := range ae.Details {
		fields["detail_"+k] = v
	}
	if ae.Cause != nil {
		fields["cause"] = ae.Cause.Error()
	}
	return fields
}
