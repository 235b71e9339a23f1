// Package output provides shared result serialization for texlog's structured output.
package output

import (
	"github.com/farcloser/texlog"
	"github.com/farcloser/texlog/internal/markup"
)

// ResultToMap converts an analysis result into the canonical map structure used for JSON and
// markdown output. Messages are rendered with renderer.
func ResultToMap(result *texlog.Result, renderer markup.Renderer) map[string]any {
	meta := map[string]any{
		"summary": map[string]any{
			"errors":   result.Errors,
			"warnings": result.Warnings,
			"clean":    result.Clean(),
		},
	}

	if result.NotTeX {
		meta["not_tex"] = true
	}

	if result.ErrorFile != "" {
		meta["error"] = map[string]any{
			"file":   result.ErrorFile,
			"line":   result.ErrorLine,
			"source": result.ErrorSource,
		}
	}

	if result.Engine != "" {
		meta["engine"] = map[string]any{
			"name":       result.Engine,
			"line_width": result.LineWidth,
		}
	}

	if result.RepairedLines > 0 {
		meta["repaired_lines"] = result.RepairedLines
	}

	if result.Bibliography != "" {
		meta["bibliography"] = result.Bibliography
	}

	files := make([]any, 0, len(result.Messages))
	for _, file := range result.Files() {
		files = append(files, FileToMap(file, result.Messages[file], renderer))
	}

	meta["files"] = files

	return meta
}

// FileToMap converts the messages of one file to a map.
func FileToMap(file string, msgs []markup.Text, renderer markup.Renderer) map[string]any {
	rendered := make([]any, 0, len(msgs))
	for _, msg := range msgs {
		rendered = append(rendered, renderer.Render(msg))
	}

	return map[string]any{
		"file":     file,
		"messages": rendered,
	}
}
