// Package testutil provides fixture helpers shared by the ningen tests.
//
// Usage guidelines:
//   - Real filesystem fixtures live under t.TempDir and are created with WriteFiles
//   - In-memory fixtures use MemFS (afero) or testing/fstest
//   - All test data should be defined inline, not in external files
package testutil
