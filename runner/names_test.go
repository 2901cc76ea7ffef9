package runner

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNameFromIdentifier(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "underscored identifier",
			input:    "Should_collect_scenario_result",
			expected: "Should collect scenario result",
		},
		{
			name:     "camel case identifier",
			input:    "ShouldCollectScenarioResult",
			expected: "Should collect scenario result",
		},
		{
			name:     "mixed underscores and camel case",
			input:    "Given_userIsLoggedIn",
			expected: "Given user is logged in",
		},
		{
			name:     "acronyms stay upper case",
			input:    "Calling_HTTPServer_should_work",
			expected: "Calling HTTP server should work",
		},
		{
			name:     "single word",
			input:    "Setup",
			expected: "Setup",
		},
		{
			name:     "empty identifier",
			input:    "",
			expected: "",
		},
		{
			name:     "consecutive underscores collapse",
			input:    "Given__user",
			expected: "Given user",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, NameFromIdentifier(tc.input))
		})
	}
}

func TestNameFromTestName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "test prefix stripped",
			input:    "TestShould_collect_scenario_result",
			expected: "Should collect scenario result",
		},
		{
			name:     "underscored name without prefix",
			input:    "Should_collect_scenario_result",
			expected: "Should collect scenario result",
		},
		{
			name:     "subtest path keeps last segment",
			input:    "TestLogin/Successful_login",
			expected: "Successful login",
		},
		{
			name:     "prefix only stripped before upper case",
			input:    "Testify_integration",
			expected: "Testify integration",
		},
		{
			name:     "bare Test stays",
			input:    "Test",
			expected: "Test",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, NameFromTestName(tc.input))
		})
	}
}

func Given_user_is_logged_in(sc *StepContext) error { return nil }

func TestStepNameDerivedFromFunction(t *testing.T) {
	step := NewStep(Given_user_is_logged_in)
	assert.Equal(t, "Given user is logged in", step.Name())
}

func TestAnonymousStepGetsPositionalName(t *testing.T) {
	step := NewStep(func(sc *StepContext) error { return nil })
	assert.Equal(t, "", step.Name())
	assert.Equal(t, "step 3", step.displayName(3))
}
