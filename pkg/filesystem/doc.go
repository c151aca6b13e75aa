// Package filesystem provides the filesystem enumeration used by the capture
// matcher.
//
// A Globber answers one query: given a glob pattern, which paths exist. The
// OS implementation works on the real filesystem, the FS and afero
// implementations work on any io/fs or afero filesystem, which keeps tests
// in memory.
package filesystem
