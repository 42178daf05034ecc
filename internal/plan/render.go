package plan

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
)

// Output formats accepted by Render.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Render writes p to w in the given format.
func Render(w io.Writer, p *Plan, format string) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(p)
	case FormatText, "":
		return renderText(w, p)
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
}

func renderText(w io.Writer, p *Plan) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "WORKFLOW\t%s\n", p.Workflow)
	fmt.Fprintf(tw, "JOBS\t%d\n", len(p.Jobs))
	fmt.Fprintf(tw, "INSTANCES\t%d\n\n", p.InstanceCount())

	fmt.Fprintln(tw, "NAME\tPLATFORM\tFAIL-FAST\tCACHE KEY")
	for _, jp := range p.Jobs {
		for _, inst := range jp.Instances {
			fmt.Fprintf(tw, "%s\t%s\t%t\t%s\n", inst.Name, inst.Platform, jp.FailFast, inst.CacheKey)
		}
	}
	return tw.Flush()
}

// Payload converts p into the generic map form used on the wire.
func (p *Plan) Payload() (map[string]any, error) {
	raw, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("failed to encode plan: %w", err)
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("failed to decode plan payload: %w", err)
	}
	return out, nil
}
