// Package exitcodes defines the standard exit codes used by op-bdd.
package exitcodes

// Exit code constants used by op-bdd
// These constants define the exit codes that the application uses to indicate
// various states when it exits:
//
// * Success (0): Used when the rendered run contains no failures
// * TestFailure (1): Used when the rendered run contains failed scenarios
// * RuntimeErr (2): Used for runtime errors such as panics, missing run archives or other failures
const (
	Success     = 0 // No failed scenarios
	TestFailure = 1 // Scenario failures
	RuntimeErr  = 2 // Runtime errors or timeouts
)
