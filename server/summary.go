package server

import (
	"fmt"
	"io"

	"github.com/alonana/perfshark/capture"
	"github.com/alonana/perfshark/core"
	"github.com/fatih/color"
)

var (
	successColor = color.New(color.FgGreen)
	warningColor = color.New(color.FgYellow)
	failureColor = color.New(color.FgRed)
	infoColor    = color.New(color.FgCyan)
)

func PrintSummary(w io.Writer, result *capture.Result) {
	if result.Status != capture.StatusSuccess {
		failureColor.Fprintf(w, "capture of %v failed: %v\n", result.URL, result.Error)
		return
	}

	successColor.Fprintf(w, "captured %v requests from %v\n", len(result.Requests), result.URL)
	for i := 0; i < len(result.Requests); i++ {
		record := &result.Requests[i]
		line := statusColor(record)
		line.Fprintf(w, "  %-4v %-6v %v\n", statusText(record), core.StringValue(record.Method), core.StringValue(record.Url))
	}

	if result.DroppedEntries > 0 {
		warningColor.Fprintf(w, "%v log entries dropped\n", result.DroppedEntries)
	}
	if result.SavedToFile {
		infoColor.Fprintf(w, "saved to %v\n", result.FilePath)
	}
	if result.SaveError != "" {
		failureColor.Fprintf(w, "save failed: %v\n", result.SaveError)
	}
}

func statusText(record *core.RequestRecord) string {
	if record.Status == nil {
		return "---"
	}
	return fmt.Sprint(*record.Status)
}

func statusColor(record *core.RequestRecord) *color.Color {
	if record.Status == nil {
		return warningColor
	}
	switch {
	case *record.Status >= 500:
		return failureColor
	case *record.Status >= 400:
		return warningColor
	default:
		return successColor
	}
}
