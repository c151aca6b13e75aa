// Package capture matches capture patterns against the filesystem.
//
// A capture pattern is a path template mixing literal text with named
// placeholders:
//
//   - `{*name}` captures a non-empty run of characters without "/"
//   - `{**name}` captures one or more whole path segments
//   - `{*}` and `{**}` match the same way without capturing
//   - `{{` and `}}` stand for literal braces
//
// For example `src/{*name}.cc` matches `src/foo.cc` and binds name to
// "foo", and `lib/{**dir}/BUILD` matches `lib/a/b/BUILD` and binds dir to
// "a/b".
//
// Each pattern compiles into two forms. The glob form (placeholders become
// `*` and `**`, literals are escaped) drives filesystem enumeration through a
// filesystem.Globber. The regexp form has one named group per placeholder
// and re-derives, from every enumerated path, the exact substring each
// placeholder consumed. Paths the glob admits but the regexp rejects (for
// example an empty capture) are dropped.
package capture
