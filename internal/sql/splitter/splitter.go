package splitter

import (
	"log/slog"
	"time"

	"github.com/dshills/quantasplit/internal/config"
	"github.com/dshills/quantasplit/internal/errors"
	"github.com/dshills/quantasplit/internal/feature"
	"github.com/dshills/quantasplit/internal/log"
	"github.com/dshills/quantasplit/internal/sql/planner"
)

// Splitter rewrites a single-partition logical plan into a forest of
// subplans that can run across vgroups. A Splitter holds no per-query
// state and may be shared by concurrent callers.
type Splitter struct {
	cfg      config.SplitterConfig
	logger   log.Logger
	features *feature.Manager
}

// Option configures a Splitter.
type Option func(*Splitter)

// WithLogger sets the logger used for rule tracing.
func WithLogger(l log.Logger) Option {
	return func(s *Splitter) {
		s.logger = l
	}
}

// WithFeatures sets the feature flag manager consulted on every split.
func WithFeatures(m *feature.Manager) Option {
	return func(s *Splitter) {
		s.features = m
	}
}

// New creates a splitter.
func New(cfg config.SplitterConfig, opts ...Option) *Splitter {
	s := &Splitter{
		cfg:      cfg,
		logger:   log.Default(),
		features: feature.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With(log.String("component", "splitter"))
	return s
}

// Split splits root using the configured root group id.
func (s *Splitter) Split(root planner.LogicalPlan, queryID uint64) (*Subplan, error) {
	return s.SplitWithGroup(root, queryID, s.cfg.RootGroupID)
}

// SplitWithGroup splits root into a subplan forest whose top subplan has
// id (queryID, rootGroupID). The caller's tree is not modified. On error
// no forest is returned.
func (s *Splitter) SplitWithGroup(root planner.LogicalPlan, queryID uint64, rootGroupID int32) (*Subplan, error) {
	start := time.Now()
	if rootGroupID < 0 {
		return nil, errors.InvalidPlanErrorf("root group id %d is negative", rootGroupID)
	}
	if err := validatePlan(root); err != nil {
		return nil, err
	}

	node, err := planner.Clone(root)
	if err != nil {
		return nil, err
	}
	top := &Subplan{
		ID:   SubplanID{QueryID: queryID, GroupID: rootGroupID},
		Kind: SubplanScan,
		Root: node,
	}
	if node.Kind() == planner.KindModify {
		top.Kind = SubplanModify
	}
	top.rebuildParents()

	logger := s.logger.With(log.Uint64("query_id", queryID))
	passes := 0
	if top.Kind != SubplanModify && s.features.IsEnabled(feature.DistributedQueries) {
		cxt := newSplitContext(queryID, rootGroupID, s.cfg.MaxSubplans)
		passes, err = s.applySplitRules(cxt, top, s.maxPasses(node), logger)
		if err != nil {
			logger.Warn("plan split failed", log.Err(err))
			return nil, err
		}
	}

	Walk(top, (*Subplan).rebuildParents)

	if s.cfg.VerifyInvariants || s.features.IsEnabled(feature.PlanVerification) {
		if err := Verify(top); err != nil {
			logger.Error("split plan failed verification", log.Err(err))
			return nil, err
		}
	}

	logger.Debug("plan split",
		log.Int("subplans", len(Flatten(top))),
		log.Int("passes", passes),
		log.Duration("elapsed", time.Since(start)),
	)
	return top, nil
}

// applySplitRules runs the rule set over the forest until a whole pass
// changes nothing. It returns the number of passes made.
func (s *Splitter) applySplitRules(cxt *splitContext, root *Subplan, maxPasses int, logger log.Logger) (int, error) {
	dump := s.features.IsEnabled(feature.SplitRuleDump) && logger.Enabled(slog.LevelDebug)
	for pass := 1; ; pass++ {
		if pass > maxPasses {
			return pass - 1, errors.SplitNotConvergedError(maxPasses)
		}
		split := false
		for _, rule := range splitRuleSet {
			cxt.split = false
			if err := rule.split(cxt, root); err != nil {
				return pass, err
			}
			if !cxt.split {
				continue
			}
			split = true
			Walk(root, (*Subplan).rebuildParents)
			logger.Debug("apply split rule",
				log.String("rule", rule.name),
				log.Int("pass", pass),
				log.Int("next_group_id", int(cxt.groupID)),
			)
			if dump {
				logger.Debug("subplan forest", log.String("rule", rule.name), log.String("forest", FormatForest(root)))
			}
		}
		if !split {
			return pass, nil
		}
	}
}

// maxPasses bounds the loop. Every firing removes one split point and a
// pass that fires nothing ends the loop, so the node count plus one is
// always enough.
func (s *Splitter) maxPasses(root planner.LogicalPlan) int {
	if s.cfg.MaxPasses > 0 {
		return s.cfg.MaxPasses
	}
	return planner.CountNodes(root) + 1
}

// validatePlan rejects trees the rules cannot rewrite safely.
func validatePlan(root planner.LogicalPlan) error {
	if root == nil {
		return errors.InvalidPlanError("plan has no root")
	}
	seen := make(map[planner.LogicalPlan]bool)
	var check func(node planner.LogicalPlan) error
	check = func(node planner.LogicalPlan) error {
		if node == nil {
			return errors.InvalidPlanError("nil child node")
		}
		if seen[node] {
			return errors.InvalidPlanErrorf("node %s appears more than once", node)
		}
		seen[node] = true

		children := node.Children()
		switch node.Kind() {
		case planner.KindJoin:
			if len(children) != 2 {
				return errors.InvalidPlanErrorf("join needs 2 inputs, has %d", len(children))
			}
		case planner.KindExchange:
			return errors.InvalidPlanErrorf("%s in input; exchanges are only created by splitting", node)
		case planner.KindScan:
			if len(children) != 0 {
				return errors.InvalidPlanErrorf("%s is a leaf but has %d inputs", node, len(children))
			}
		case planner.KindModify:
			if node != root {
				return errors.InvalidPlanError("modify must be the plan root")
			}
		}
		for _, child := range children {
			if err := check(child); err != nil {
				return err
			}
		}
		return nil
	}
	return check(root)
}
