package child

import "fmt"

// testAssertions, when true, turns assertInTests failures into panics
// instead of silent no-ops. Set by the init function in child_test.go so teardown
// bugs surface as test failures rather than swallowed log lines; left
// false in production builds so a flaky OS-level kill/reap never crashes
// the host process.
var testAssertions = false

func assertInTests(ok bool, format string, args ...any) {
	if ok || !testAssertions {
		return
	}
	panic(fmt.Sprintf(format, args...))
}
