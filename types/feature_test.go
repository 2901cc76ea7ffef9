package types

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeatureResultCollectsScenarios(t *testing.T) {
	r := NewFeatureResult(FeatureInfo{Name: "Login", Label: "AUTH-1", Description: "Authentication flows"})

	r.AddScenario(&ScenarioResult{Name: "first", Status: StatusPassed})
	r.AddScenario(&ScenarioResult{Name: "second", Status: StatusFailed})

	assert.Equal(t, "Login", r.Name)
	assert.Equal(t, "AUTH-1", r.Label)
	assert.Equal(t, 2, r.ScenarioCount())
	assert.Equal(t, StatusFailed, r.Status())

	scenarios := r.Scenarios()
	require.Len(t, scenarios, 2)
	assert.Equal(t, "first", scenarios[0].Name)
	assert.Equal(t, "second", scenarios[1].Name)
}

func TestFeatureResultStatusWithNoScenarios(t *testing.T) {
	r := NewFeatureResult(FeatureInfo{Name: "Empty"})
	assert.Equal(t, StatusPassed, r.Status())
}

func TestFeatureResultScenariosReturnsSnapshot(t *testing.T) {
	r := NewFeatureResult(FeatureInfo{Name: "Snapshot"})
	r.AddScenario(&ScenarioResult{Name: "one"})

	snapshot := r.Scenarios()
	r.AddScenario(&ScenarioResult{Name: "two"})

	assert.Len(t, snapshot, 1)
	assert.Equal(t, 2, r.ScenarioCount())
}

// Concurrent scenario completion must never lose or duplicate a result.
func TestFeatureResultConcurrentAppend(t *testing.T) {
	const scenarios = 3000

	r := NewFeatureResult(FeatureInfo{Name: "Concurrent"})

	var wg sync.WaitGroup
	wg.Add(scenarios)
	for i := 0; i < scenarios; i++ {
		go func(i int) {
			defer wg.Done()
			r.AddScenario(&ScenarioResult{
				Name:   fmt.Sprintf("scenario-%d", i),
				Status: StatusPassed,
			})
		}(i)
	}
	wg.Wait()

	collected := r.Scenarios()
	require.Len(t, collected, scenarios)

	seen := make(map[string]int, scenarios)
	for _, s := range collected {
		seen[s.Name]++
	}
	require.Len(t, seen, scenarios)
	for name, count := range seen {
		assert.Equal(t, 1, count, "scenario %s recorded %d times", name, count)
	}
}
