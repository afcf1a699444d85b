package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/mmcdole/docsift/internal/domain"
	"gopkg.in/yaml.v3"
)

// outputFormat selects how command results are printed
type outputFormat string

const (
	formatTable outputFormat = "table"
	formatJSON  outputFormat = "json"
	formatYAML  outputFormat = "yaml"
)

func parseFormat(s string) (outputFormat, error) {
	switch f := outputFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case formatTable, formatJSON, formatYAML:
		return f, nil
	case "":
		return formatTable, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want table, json or yaml)", s)
	}
}

// writeStructured encodes v as JSON or YAML
func writeStructured(w io.Writer, format outputFormat, v any) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("format %q is not structured", format)
	}
}

type passageView struct {
	File  string  `json:"file" yaml:"file"`
	Page  int     `json:"page" yaml:"page"`
	Score float64 `json:"score" yaml:"score"`
	Text  string  `json:"text" yaml:"text"`
}

func toPassageViews(results domain.SearchResult) []passageView {
	out := make([]passageView, len(results))
	for i, p := range results {
		out[i] = passageView{
			File:  p.Metadata.DisplayFileName(),
			Page:  p.Metadata.Page,
			Score: p.Score,
			Text:  p.Metadata.Text,
		}
	}
	return out
}

type fileView struct {
	Name   string `json:"name" yaml:"name"`
	Chunks int    `json:"chunks" yaml:"chunks"`
	Pages  []int  `json:"pages,omitempty" yaml:"pages,omitempty"`
}

type libraryView struct {
	Passages  int        `json:"passages" yaml:"passages"`
	Documents int        `json:"documents" yaml:"documents"`
	Message   string     `json:"message,omitempty" yaml:"message,omitempty"`
	Files     []fileView `json:"files" yaml:"files"`
}

func toLibraryView(stats domain.LibraryStats) libraryView {
	files := stats.SortedFiles()
	v := libraryView{
		Passages:  stats.PassageCount(),
		Documents: stats.DocumentCount(),
		Message:   stats.Message,
		Files:     make([]fileView, len(files)),
	}
	for i, f := range files {
		v.Files[i] = fileView{Name: f.Name, Chunks: f.Info.Chunks, Pages: f.Info.Pages}
	}
	return v
}
