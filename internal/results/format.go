// Package results renders command output as text, JSON or YAML.
package results

import (
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/taichizzz/anime-recommender/internal/models"
	"github.com/taichizzz/anime-recommender/internal/session"
)

const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Formats lists the accepted --format values.
var Formats = []string{FormatText, FormatJSON, FormatYAML}

// Document is the envelope written for json and yaml output, matching the
// HTTP response shape.
type Document struct {
	Results any `json:"results" yaml:"results"`
}

// Write renders v in the given format. Text output understands catalog items
// and recommendations; json and yaml accept any value.
func Write(w io.Writer, format string, v any) error {
	switch strings.ToLower(format) {
	case FormatText, "":
		return writeText(w, v)
	case FormatJSON:
		data, err := json.MarshalIndent(Document{Results: v}, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(Document{Results: v}); err != nil {
			return fmt.Errorf("failed to marshal YAML: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown format %q (want one of %s)", format, strings.Join(Formats, ", "))
	}
}

func writeText(w io.Writer, v any) error {
	var b strings.Builder

	switch items := v.(type) {
	case []models.CatalogItem:
		if len(items) == 0 {
			b.WriteString("No results.\n")
		}
		for i, item := range items {
			fmt.Fprintf(&b, "%2d. %s [#%d]\n", i+1, item.Title, item.ID)
			fmt.Fprintf(&b, "    Year: %s  Score: %s\n", session.FormatYear(item.Year), session.FormatScore(item.Score))
			fmt.Fprintf(&b, "    %s\n", session.TruncateSynopsis(item.Synopsis))
		}
	case []models.RecommendationItem:
		if len(items) == 0 {
			b.WriteString("No recommendations.\n")
		}
		for i, rec := range items {
			fmt.Fprintf(&b, "%2d. %s [#%d]\n", i+1, rec.Title, rec.ID)
			fmt.Fprintf(&b, "    Year: %s  Score: %s\n", session.FormatYear(rec.Year), session.FormatScore(rec.Score))
			fmt.Fprintf(&b, "    Why: %s\n", rec.Reason)
		}
	default:
		return fmt.Errorf("text output is not supported for %T", v)
	}

	_, err := io.WriteString(w, b.String())
	return err
}
