// Package patternmatch runs regular expressions against sample text on
// dedicated worker goroutines.
//
// Patterns use ECMAScript syntax (backreferences, lookarounds, named groups)
// through github.com/dlclark/regexp2. Because backtracking engines can take
// exponential time on pathological input, every match is bounded by a timeout
// and runs away from the caller: callers exchange messages with the workers and
// never execute a pattern themselves.
//
// # Wire Protocol
//
// Inbound:  {"pattern": "a(b)c", "text": "xabcx"}
// Outbound: {"result": {"groups": ["abc", "b"], "index": 1, "input": "xabcx"}}
// or:       {"result": null} when nothing matches
// or:       {"error": "..."} when the pattern fails to compile or execute.
//
// # Usage
//
//	m := patternmatch.New(cfg.Matcher, logger)
//	m.Start(ctx)
//	defer m.Close()
//
//	resp, err := m.Match(ctx, patternmatch.Request{Pattern: `(\d+)ms`, Text: line})
package patternmatch
