// Package testutil provides utilities for testing the setup wizard.
//
// Key components:
//   - TestEnvironment: a builder directory on an in-memory or temp-dir filesystem
//   - FakeBuildTool: map-backed build-tool collaborator that records queries
//   - MockPrompter, MockKeyTool: testify mocks of the interactive and key collaborators
//   - SampleTemplate, SampleData: fixtures shared by package tests
//
// Symlink behaviour is only exercised with EnvIsolated; everything else
// should use EnvMemoryOnly.
package testutil
