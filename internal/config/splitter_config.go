package config

import (
	"os"
	"strconv"

	"github.com/dshills/quantasplit/internal/errors"
)

// SplitterConfig controls the distributed plan splitter.
type SplitterConfig struct {
	// RootGroupID is the group id given to the top subplan when the caller
	// does not choose one.
	RootGroupID int32 `json:"root_group_id"`

	// MaxPasses bounds the fixed-point loop. Zero derives the bound from
	// the size of the input plan.
	MaxPasses int `json:"max_passes"`

	// MaxSubplans caps the size of the produced forest. Zero means unlimited.
	MaxSubplans int `json:"max_subplans"`

	// VerifyInvariants checks the finished forest before returning it.
	VerifyInvariants bool `json:"verify_invariants"`
}

// DefaultSplitterConfig returns production defaults
func DefaultSplitterConfig() SplitterConfig {
	return SplitterConfig{
		RootGroupID:      1,
		MaxPasses:        0,
		MaxSubplans:      4096,
		VerifyInvariants: false,
	}
}

// LoadSplitterConfigFromEnv loads configuration from environment variables
func LoadSplitterConfigFromEnv() SplitterConfig {
	config := DefaultSplitterConfig()

	if val := os.Getenv("QUANTASPLIT_ROOT_GROUP_ID"); val != "" {
		if id, err := strconv.ParseInt(val, 10, 32); err == nil && id >= 0 {
			config.RootGroupID = int32(id)
		}
	}

	if val := os.Getenv("QUANTASPLIT_MAX_PASSES"); val != "" {
		if passes, err := strconv.Atoi(val); err == nil && passes >= 0 {
			config.MaxPasses = passes
		}
	}

	if val := os.Getenv("QUANTASPLIT_MAX_SUBPLANS"); val != "" {
		if limit, err := strconv.Atoi(val); err == nil && limit >= 0 {
			config.MaxSubplans = limit
		}
	}

	if val := os.Getenv("QUANTASPLIT_VERIFY_INVARIANTS"); val != "" {
		if enabled, err := strconv.ParseBool(val); err == nil {
			config.VerifyInvariants = enabled
		}
	}

	return config
}

// Validate ensures the configuration is valid
func (sc SplitterConfig) Validate() error {
	if sc.RootGroupID < 0 {
		return errors.InvalidParameterValueError("root_group_id", strconv.Itoa(int(sc.RootGroupID)), "Cannot be negative.")
	}
	if sc.MaxPasses < 0 {
		return errors.InvalidParameterValueError("max_passes", strconv.Itoa(sc.MaxPasses), "Cannot be negative.")
	}
	if sc.MaxSubplans < 0 {
		return errors.InvalidParameterValueError("max_subplans", strconv.Itoa(sc.MaxSubplans), "Cannot be negative.")
	}
	return nil
}
