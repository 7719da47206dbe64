package app

import (
	"os"
	"sync"
)

const testModeEnv = "BATAUDIT_TEST_MODE"

// InTestMode reports whether binaries should skip runtime side effects such as
// dialing Redis or binding ports. The flag is read once per process.
var InTestMode = sync.OnceValue(func() bool {
	return os.Getenv(testModeEnv) == "1"
})
