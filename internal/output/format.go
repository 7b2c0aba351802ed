// Package output provides formatters for CLI output.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"todos/internal/service"
)

// Supported list formats.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Formats lists the accepted --format values.
var Formats = []string{FormatText, FormatJSON, FormatYAML}

// Checkbox returns the completion marker for a task row.
func Checkbox(completed bool) string {
	if completed {
		return "[x]"
	}
	return "[ ]"
}

// FormatTask formats one task row.
// Format: "{N:>4}  [x] {TITLE}\n" (4-wide right-aligned number, two spaces, checkbox, title)
func FormatTask(w io.Writer, num int, task service.Task) {
	fmt.Fprintf(w, "%4d  %s %s\n", num, Checkbox(task.Completed), NormalizeTitle(task.Title))
}

// WriteTasks writes the whole list in the given format.
func WriteTasks(w io.Writer, format string, tasks []service.Task) error {
	switch format {
	case FormatText, "":
		for i, task := range tasks {
			FormatTask(w, i+1, task)
		}
		return nil
	case FormatJSON:
		if tasks == nil {
			tasks = []service.Task{}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(tasks)
	case FormatYAML:
		if tasks == nil {
			tasks = []service.Task{}
		}
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(tasks); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// NormalizeTitle normalizes a task title for display.
// - Empty or whitespace-only titles become "(untitled)"
// - Newlines are replaced with spaces
func NormalizeTitle(title string) string {
	title = strings.ReplaceAll(title, "\r", " ")
	title = strings.ReplaceAll(title, "\n", " ")

	if strings.TrimSpace(title) == "" {
		return "(untitled)"
	}
	return title
}
