package rax

import "github.com/antirez/rax/internal/debug"

// debugAssert checks an internal invariant. It is a no-op build that
// never panics unless compiled with the debug build tag.
func debugAssert(cond bool, format string, args ...any) {
	debug.Assert(cond, format, args...)
}

// debugLog traces a mutation-engine decision. It is a no-op unless
// compiled with the debug build tag.
func debugLog(operation, format string, args ...any) {
	debug.Log(nil, operation, format, args...)
}
