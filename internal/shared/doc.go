// Package shared holds helpers used across packages that belong to no single
// layer.
//
// The testutil subpackage provides a buffered slog handler with assertions
// and builders for meeting and classification fixtures.
package shared
