package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/devlooped/nudoq/pkg/doc"
	"github.com/devlooped/nudoq/pkg/reader"
	"github.com/devlooped/nudoq/pkg/types"
)

// Output formats of the parse command
const (
	FormatSummary = "summary"
	FormatJSON    = "json"
	FormatXML     = "xml"
)

func newParseCommand(opts *options) *cobra.Command {
	var (
		format string
		strict bool
	)

	cmd := &cobra.Command{
		Use:   "parse FILE",
		Short: "Read one documentation file and print its members and diagnostics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch format {
			case FormatSummary, FormatJSON, FormatXML:
			default:
				return fmt.Errorf("unknown format %q: want %s, %s or %s", format, FormatSummary, FormatJSON, FormatXML)
			}

			cfg, err := opts.load()
			if err != nil {
				return err
			}
			logger, err := newLogger(cfg.LogLevel)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			index, err := loadIndex(cfg.Metadata)
			if err != nil {
				return err
			}

			rd := reader.New(index, reader.WithLogger(logger), reader.WithCacheSize(0))
			res, err := rd.ReadFile(args[0])
			if err != nil {
				return err
			}
			logger.Debug("parsed document",
				zap.String("path", args[0]),
				zap.Int("members", res.Document.Len()),
				zap.Int("diagnostics", len(res.Diagnostics)))

			out := cmd.OutOrStdout()
			switch format {
			case FormatJSON:
				err = writeJSON(out, res)
			case FormatXML:
				err = doc.Write(out, res.Document)
			default:
				err = writeSummary(out, res)
			}
			if err != nil {
				return err
			}

			if strict && res.Diagnostics.HasErrors() {
				return fmt.Errorf("%s: document has error diagnostics", args[0])
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", FormatSummary, "output format: summary, json or xml")
	cmd.Flags().BoolVar(&strict, "strict", false, "fail when any diagnostic has error severity")
	return cmd
}

type memberOutput struct {
	ID              string `json:"id"`
	Kind            string `json:"kind"`
	Namespace       string `json:"namespace,omitempty"`
	Summary         string `json:"summary,omitempty"`
	DeclaringTypeID string `json:"declaring_type_id,omitempty"`
	ExtendedTypeID  string `json:"extended_type_id,omitempty"`
	Resolved        bool   `json:"resolved"`
}

type diagnosticOutput struct {
	Code     string `json:"code"`
	Severity string `json:"severity"`
	MemberID string `json:"member_id,omitempty"`
	Message  string `json:"message"`
	Line     int    `json:"line,omitempty"`
	Column   int    `json:"column,omitempty"`
}

type documentOutput struct {
	Assembly    string             `json:"assembly,omitempty"`
	Members     []memberOutput     `json:"members"`
	Diagnostics []diagnosticOutput `json:"diagnostics"`
}

func toMemberOutput(m doc.Member) memberOutput {
	out := memberOutput{
		ID:        m.ID(),
		Kind:      m.Kind().String(),
		Namespace: m.Namespace(),
		Resolved:  m.Metadata() != nil,
	}
	if s := doc.SummaryOf(m); s != nil {
		out.Summary = doc.PlainText(s)
	}
	switch n := m.(type) {
	case *doc.NestedType:
		out.DeclaringTypeID = n.DeclaringTypeID()
	case *doc.ExtensionMethod:
		out.ExtendedTypeID = n.ExtendedTypeID()
	}
	return out
}

func writeJSON(w io.Writer, res *reader.Result) error {
	out := documentOutput{
		Assembly:    res.Document.Assembly(),
		Members:     make([]memberOutput, 0, res.Document.Len()),
		Diagnostics: make([]diagnosticOutput, 0, len(res.Diagnostics)),
	}
	for _, m := range res.Document.Members() {
		out.Members = append(out.Members, toMemberOutput(m))
	}
	for _, d := range res.Diagnostics {
		out.Diagnostics = append(out.Diagnostics, diagnosticOutput{
			Code:     string(d.Code),
			Severity: string(d.Severity),
			MemberID: d.MemberID,
			Message:  d.Message,
			Line:     d.Line,
			Column:   d.Column,
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func writeSummary(w io.Writer, res *reader.Result) error {
	r := lipgloss.NewRenderer(w)
	header := r.NewStyle().Bold(true)
	dim := r.NewStyle().Foreground(lipgloss.Color("241"))
	severity := map[types.Severity]lipgloss.Style{
		types.SeverityError:   r.NewStyle().Foreground(lipgloss.Color("196")),
		types.SeverityWarning: r.NewStyle().Foreground(lipgloss.Color("214")),
		types.SeverityInfo:    r.NewStyle().Foreground(lipgloss.Color("39")),
	}

	name := res.Document.Assembly()
	if name == "" {
		name = "(no assembly)"
	}
	if _, err := fmt.Fprintf(w, "%s %s\n", header.Render(name), dim.Render(fmt.Sprintf("%d members", res.Document.Len()))); err != nil {
		return err
	}

	for _, m := range res.Document.Members() {
		out := toMemberOutput(m)
		line := fmt.Sprintf("  %s %s", out.ID, dim.Render(out.Kind))
		if out.Summary != "" {
			line += " " + out.Summary
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}

	if len(res.Diagnostics) == 0 {
		return nil
	}
	if _, err := fmt.Fprintln(w, header.Render("diagnostics")); err != nil {
		return err
	}
	for _, d := range res.Diagnostics {
		label := severity[d.Severity].Render(string(d.Severity))
		if _, err := fmt.Fprintf(w, "  %d:%d %s %s %s: %s\n", d.Line, d.Column, label, d.Code, d.MemberID, d.Message); err != nil {
			return err
		}
	}
	return nil
}
