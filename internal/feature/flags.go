package feature

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
)

// Flag represents a feature flag
type Flag string

// Feature flags for the planner
const (
	// Distributed planning
	DistributedQueries Flag = "distributed_queries"
	PlanVerification   Flag = "plan_verification"

	// Debug
	SplitRuleDump Flag = "split_rule_dump"
	ColorOutput   Flag = "color_output"
)

// FlagMetadata contains metadata about a feature flag
type FlagMetadata struct {
	Name         Flag
	Description  string
	DefaultValue bool
	Category     string
	Stability    string // "stable", "beta", "experimental"
}

// Manager manages feature flags
type Manager struct {
	flags    map[Flag]*flagState
	mu       sync.RWMutex
	onChange []func(Flag, bool)
	metadata map[Flag]*FlagMetadata
}

// flagState represents the state of a single flag
type flagState struct {
	enabled    atomic.Bool
	overridden atomic.Bool
	envVar     string
}

// Global feature flag manager
var globalManager = NewManager()

// NewManager creates a feature flag manager with every flag registered at
// its default and environment overrides applied.
func NewManager() *Manager {
	m := &Manager{
		flags:    make(map[Flag]*flagState),
		metadata: make(map[Flag]*FlagMetadata),
	}
	m.registerFlags()
	m.loadFromEnvironment()
	return m
}

// Default returns the process-wide manager.
func Default() *Manager {
	return globalManager
}

func (m *Manager) registerFlags() {
	m.register(&FlagMetadata{
		Name:         DistributedQueries,
		Description:  "Split query plans into subplans across vgroups",
		DefaultValue: true,
		Category:     "distributed",
		Stability:    "stable",
	})
	m.register(&FlagMetadata{
		Name:         PlanVerification,
		Description:  "Verify subplan invariants after every split",
		DefaultValue: false,
		Category:     "distributed",
		Stability:    "stable",
	})
	m.register(&FlagMetadata{
		Name:         SplitRuleDump,
		Description:  "Dump the subplan forest after each split rule fires",
		DefaultValue: false,
		Category:     "debug",
		Stability:    "stable",
	})
	m.register(&FlagMetadata{
		Name:         ColorOutput,
		Description:  "Colorize EXPLAIN tree output",
		DefaultValue: true,
		Category:     "debug",
		Stability:    "beta",
	})
}

func (m *Manager) register(metadata *FlagMetadata) {
	state := &flagState{
		envVar: flagToEnvVar(metadata.Name),
	}
	state.enabled.Store(metadata.DefaultValue)

	m.flags[metadata.Name] = state
	m.metadata[metadata.Name] = metadata
}

// loadFromEnvironment loads flag values from environment variables
func (m *Manager) loadFromEnvironment() {
	for _, state := range m.flags {
		if val := os.Getenv(state.envVar); val != "" {
			if enabled, err := strconv.ParseBool(val); err == nil {
				state.enabled.Store(enabled)
				state.overridden.Store(true)
			}
		}
	}
}

// IsEnabled checks if a feature flag is enabled
func IsEnabled(flag Flag) bool {
	return globalManager.IsEnabled(flag)
}

// IsEnabled checks if a feature flag is enabled
func (m *Manager) IsEnabled(flag Flag) bool {
	m.mu.RLock()
	state, exists := m.flags[flag]
	m.mu.RUnlock()

	if !exists {
		return false
	}
	return state.enabled.Load()
}

// Enable enables a feature flag
func Enable(flag Flag) {
	globalManager.Enable(flag)
}

// Enable enables a feature flag
func (m *Manager) Enable(flag Flag) {
	m.Set(flag, true)
}

// Disable disables a feature flag
func Disable(flag Flag) {
	globalManager.Disable(flag)
}

// Disable disables a feature flag
func (m *Manager) Disable(flag Flag) {
	m.Set(flag, false)
}

// Set sets a flag value and notifies listeners when it changes.
func (m *Manager) Set(flag Flag, enabled bool) {
	m.mu.RLock()
	state, exists := m.flags[flag]
	callbacks := m.onChange
	m.mu.RUnlock()

	if !exists {
		return
	}

	if state.enabled.Swap(enabled) != enabled {
		for _, cb := range callbacks {
			cb(flag, enabled)
		}
	}
}

// OnChange registers a callback for flag changes
func (m *Manager) OnChange(callback func(Flag, bool)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onChange = append(m.onChange, callback)
}

// GetAll returns all flag states
func (m *Manager) GetAll() map[Flag]bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make(map[Flag]bool, len(m.flags))
	for flag, state := range m.flags {
		result[flag] = state.enabled.Load()
	}
	return result
}

// GetMetadata returns metadata for a flag
func (m *Manager) GetMetadata(flag Flag) (*FlagMetadata, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	metadata, exists := m.metadata[flag]
	return metadata, exists
}

// Reset resets all flags to their default values
func (m *Manager) Reset() {
	for flag, metadata := range m.metadata {
		m.Set(flag, metadata.DefaultValue)
		m.flags[flag].overridden.Store(false)
	}
}

// flagToEnvVar converts a flag name to an environment variable name
func flagToEnvVar(flag Flag) string {
	return "QUANTASPLIT_FEATURE_" + strings.ToUpper(string(flag))
}

// DebugString returns a debug string with all flag states
func (m *Manager) DebugString() string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	flags := make([]Flag, 0, len(m.metadata))
	for flag := range m.metadata {
		flags = append(flags, flag)
	}
	sort.Slice(flags, func(i, j int) bool { return flags[i] < flags[j] })

	var b strings.Builder
	b.WriteString("Feature Flags:\n")
	for _, flag := range flags {
		state := m.flags[flag]
		metadata := m.metadata[flag]

		status := "disabled"
		if state.enabled.Load() {
			status = "enabled"
		}
		override := ""
		if state.overridden.Load() {
			override = " (overridden)"
		}
		fmt.Fprintf(&b, "  %-22s: %-8s [%s]%s - %s\n",
			flag, status, metadata.Stability, override, metadata.Description)
	}
	return b.String()
}
