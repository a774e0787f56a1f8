package splitter

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/dshills/quantasplit/internal/sql/planner"
)

// ExplainStyle selects the layout of Explain output.
type ExplainStyle string

const (
	ExplainTable    ExplainStyle = "table"
	ExplainMarkdown ExplainStyle = "markdown"
	ExplainTree     ExplainStyle = "tree"
)

// ExplainOptions controls Explain.
type ExplainOptions struct {
	Style ExplainStyle
	Color bool
}

// Explain writes a description of the subplan forest to w.
func Explain(w io.Writer, root *Subplan, opts ExplainOptions) error {
	if root == nil {
		return fmt.Errorf("explain: no subplan")
	}
	switch opts.Style {
	case ExplainTree:
		_, err := io.WriteString(w, newTreeFormatter(opts.Color).format(root))
		return err
	case ExplainTable, ExplainMarkdown, "":
		return explainTable(w, root, opts.Style == ExplainMarkdown)
	default:
		return fmt.Errorf("explain: unknown style %q", opts.Style)
	}
}

// explainTable writes one row per subplan in pre-order.
func explainTable(w io.Writer, root *Subplan, markdown bool) error {
	var sb strings.Builder

	options := []tablewriter.Option{
		tablewriter.WithHeaderAutoFormat(tw.Off),
	}
	if markdown {
		options = append(options, tablewriter.WithRenderer(renderer.NewMarkdown()))
	}
	table := tablewriter.NewTable(&sb, options...)
	table.Header([]string{"Group", "Kind", "Vgroups", "Children", "Flags", "Plan"})

	for _, s := range Flatten(root) {
		plan := strings.TrimRight(planner.ExplainPlan(s.Root), "\n")
		if markdown {
			plan = strings.ReplaceAll(plan, "\n", "<br>")
		}
		err := table.Append([]string{
			fmt.Sprintf("%d", s.ID.GroupID),
			s.Kind.String(),
			formatIDs(planner.VgroupIDs(s.Vgroups)),
			formatIDs(s.ChildGroupIDs()),
			s.SplitFlags.String(),
			plan,
		})
		if err != nil {
			return fmt.Errorf("explain: %w", err)
		}
	}
	if err := table.Render(); err != nil {
		return fmt.Errorf("explain: %w", err)
	}

	fmt.Fprintf(&sb, "\n%d subplans, query %d\n", len(Flatten(root)), root.ID.QueryID)
	_, err := io.WriteString(w, sb.String())
	return err
}

func formatIDs(ids []int32) string {
	if len(ids) == 0 {
		return "-"
	}
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprintf("%d", id)
	}
	return strings.Join(parts, ",")
}

// treeFormatter renders the forest as an indented tree, optionally coloured.
type treeFormatter struct {
	subplan  *color.Color
	exchange *color.Color
	scan     *color.Color
	dim      *color.Color
}

func newTreeFormatter(useColor bool) *treeFormatter {
	f := &treeFormatter{
		subplan:  color.New(color.FgBlue, color.Bold),
		exchange: color.New(color.FgYellow),
		scan:     color.New(color.FgCyan),
		dim:      color.New(color.Faint),
	}
	if useColor {
		for _, c := range []*color.Color{f.subplan, f.exchange, f.scan, f.dim} {
			c.EnableColor()
		}
	} else {
		for _, c := range []*color.Color{f.subplan, f.exchange, f.scan, f.dim} {
			c.DisableColor()
		}
	}
	return f
}

func (f *treeFormatter) format(root *Subplan) string {
	var sb strings.Builder
	f.writeSubplan(&sb, root, "")
	return sb.String()
}

func (f *treeFormatter) writeSubplan(sb *strings.Builder, s *Subplan, indent string) {
	sb.WriteString(indent)
	sb.WriteString(f.subplan.Sprint(s.String()))
	sb.WriteByte('\n')
	f.writeNode(sb, s.Root, indent+f.dim.Sprint("│ "))
	for _, c := range s.Children {
		f.writeSubplan(sb, c, indent+"    ")
	}
}

func (f *treeFormatter) writeNode(sb *strings.Builder, node planner.LogicalPlan, indent string) {
	sb.WriteString(indent)
	switch node.Kind() {
	case planner.KindExchange:
		sb.WriteString(f.exchange.Sprint(node.String()))
	case planner.KindScan:
		sb.WriteString(f.scan.Sprint(node.String()))
	default:
		sb.WriteString(node.String())
	}
	sb.WriteByte('\n')
	for _, child := range node.Children() {
		f.writeNode(sb, child, indent+"  ")
	}
}
