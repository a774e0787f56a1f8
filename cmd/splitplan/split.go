package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/dshills/quantasplit/internal/config"
	"github.com/dshills/quantasplit/internal/feature"
	"github.com/dshills/quantasplit/internal/log"
	"github.com/dshills/quantasplit/internal/sql/planfile"
	"github.com/dshills/quantasplit/internal/sql/splitter"
)

// splitCommand holds the flags of "splitplan split".
type splitCommand struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	path    string
	queryID uint64
	groupID int32
	output  string
	noColor bool
	verify  bool
}

func newSplitCommand(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	sc := &splitCommand{stdin: stdin, stdout: stdout, stderr: stderr}
	cmd := &cobra.Command{
		Use:   "split -f <plan file>",
		Short: "Split a logical plan into subplans",
		Long: `
Splits the plan in the given file and prints the subplan forest. Use
"-f -" to read the plan from standard input. The query and root group id
default to the values in the plan file.
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return sc.run(cmd, cfg)
		},
	}
	flags := cmd.Flags()
	flags.StringVarP(&sc.path, "file", "f", "", "Plan file to split (YAML or JSON).")
	flags.Uint64Var(&sc.queryID, "query-id", 0, "Query id, overriding the plan file.")
	flags.Int32Var(&sc.groupID, "group-id", 0, "Group id of the top subplan, overriding the plan file.")
	flags.StringVarP(&sc.output, "output", "o", "", "Output format: table, markdown, tree, json or yaml.")
	flags.BoolVar(&sc.noColor, "no-color", false, "Disable coloured tree output.")
	flags.BoolVar(&sc.verify, "verify", false, "Check the subplan invariants before printing.")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

// loadConfig reads --config when given, otherwise the defaults with
// splitter settings from the environment, then applies --log-level.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	logLevel, _ := cmd.Flags().GetString("log-level")

	var cfg *config.Config
	if path != "" {
		var err error
		cfg, err = config.LoadFromFile(path)
		if err != nil {
			return nil, err
		}
	} else {
		cfg = config.DefaultConfig()
		cfg.Splitter = config.LoadSplitterConfigFromEnv()
	}
	cfg.LoadFromFlags(logLevel, "")
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func (sc *splitCommand) run(cmd *cobra.Command, cfg *config.Config) error {
	cfg.LoadFromFlags("", sc.output)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if sc.verify {
		cfg.Splitter.VerifyInvariants = true
	}
	logger := log.Build(cfg.ToLogConfig(), sc.stderr)

	doc, err := sc.readPlan()
	if err != nil {
		return err
	}
	plan, err := doc.Plan()
	if err != nil {
		return err
	}

	queryID := doc.QueryID
	if cmd.Flags().Changed("query-id") {
		queryID = sc.queryID
	}
	groupID := cfg.Splitter.RootGroupID
	if cmd.Flags().Changed("group-id") {
		groupID = sc.groupID
	} else if doc.GroupID != 0 {
		groupID = doc.GroupID
	}

	s := splitter.New(cfg.Splitter, splitter.WithLogger(logger))
	top, err := s.SplitWithGroup(plan, queryID, groupID)
	if err != nil {
		return err
	}
	logger.Info("plan split", log.Uint64("query_id", queryID), log.Int("subplans", len(splitter.Flatten(top))))

	switch format := cfg.Explain.Format; format {
	case "json", "yaml":
		return planfile.Encode(sc.stdout, top, planfile.Format(format))
	default:
		return splitter.Explain(sc.stdout, top, splitter.ExplainOptions{
			Style: splitter.ExplainStyle(format),
			Color: cfg.Explain.Color && feature.IsEnabled(feature.ColorOutput) && !sc.noColor,
		})
	}
}

func (sc *splitCommand) readPlan() (*planfile.File, error) {
	if sc.path == "-" {
		return planfile.Decode(sc.stdin)
	}
	return planfile.DecodeFile(sc.path)
}
