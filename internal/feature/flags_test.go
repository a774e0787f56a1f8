package feature

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeatureFlags(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		m := NewManager()
		assert.True(t, m.IsEnabled(DistributedQueries))
		assert.False(t, m.IsEnabled(SplitRuleDump))
		assert.False(t, m.IsEnabled(PlanVerification))
		assert.False(t, m.IsEnabled("no_such_flag"))
	})

	t.Run("BasicEnableDisable", func(t *testing.T) {
		m := NewManager()
		m.Disable(DistributedQueries)
		assert.False(t, m.IsEnabled(DistributedQueries))

		m.Enable(DistributedQueries)
		assert.True(t, m.IsEnabled(DistributedQueries))
	})

	t.Run("EnvironmentVariables", func(t *testing.T) {
		t.Setenv("QUANTASPLIT_FEATURE_SPLIT_RULE_DUMP", "true")
		t.Setenv("QUANTASPLIT_FEATURE_DISTRIBUTED_QUERIES", "false")

		m := NewManager()
		assert.True(t, m.IsEnabled(SplitRuleDump))
		assert.False(t, m.IsEnabled(DistributedQueries))
		assert.Contains(t, m.DebugString(), "(overridden)")

		m.Reset()
		assert.False(t, m.IsEnabled(SplitRuleDump))
		assert.True(t, m.IsEnabled(DistributedQueries))
		assert.NotContains(t, m.DebugString(), "(overridden)")
	})

	t.Run("OnChangeCallbacks", func(t *testing.T) {
		m := NewManager()
		var changes []bool
		m.OnChange(func(flag Flag, enabled bool) {
			if flag == SplitRuleDump {
				changes = append(changes, enabled)
			}
		})

		m.Enable(SplitRuleDump)
		m.Enable(SplitRuleDump) // no change, no callback
		m.Disable(SplitRuleDump)

		assert.Equal(t, []bool{true, false}, changes)
	})

	t.Run("GetMetadata", func(t *testing.T) {
		m := NewManager()
		metadata, exists := m.GetMetadata(DistributedQueries)
		require.True(t, exists)
		assert.Equal(t, "distributed", metadata.Category)
		assert.True(t, metadata.DefaultValue)

		_, exists = m.GetMetadata("non_existent_flag")
		assert.False(t, exists)
	})

	t.Run("ConcurrentAccess", func(t *testing.T) {
		m := NewManager()
		var wg sync.WaitGroup
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func(id int) {
				defer wg.Done()
				for j := 0; j < 500; j++ {
					if id%2 == 0 {
						_ = m.IsEnabled(DistributedQueries)
						_ = m.GetAll()
					} else {
						m.Set(SplitRuleDump, j%2 == 0)
					}
				}
			}(i)
		}
		wg.Wait()
		assert.Len(t, m.GetAll(), 4)
	})

	t.Run("DebugString", func(t *testing.T) {
		debug := NewManager().DebugString()
		assert.Contains(t, debug, "Feature Flags:")
		assert.Contains(t, debug, "distributed_queries")
		assert.Contains(t, debug, "[stable]")
	})
}
