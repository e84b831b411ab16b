package filevars

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"filevars/pkg/render"
)

// Output formats accepted by WriteOutput.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatText = "text"
)

// WriteOutput encodes v to w as JSON, YAML, or through the named text template.
func WriteOutput(w io.Writer, format string, engine *render.Engine, template string, v any) error {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	case FormatText:
		if engine == nil {
			return fmt.Errorf("text output requires a renderer")
		}
		out, err := engine.Render(template, v)
		if err != nil {
			return fmt.Errorf("render %s: %w", template, err)
		}
		_, err = io.WriteString(w, out)
		return err
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
}
