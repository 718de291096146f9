// Package testutil provides helpers shared by the package tests: a
// temporary workspace with file assertions, and test doubles for the
// distgen renderer and multispec expansion.
//
// Usage guidelines:
//   - Each test builds its own Workspace; nothing is shared between tests
//   - Test data is defined inline, not in external files
//   - Renderer expectations are set with testify's mock API
package testutil
