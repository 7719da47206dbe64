// Package guard switches binaries into test mode when blank-imported from a
// test, so calling main never dials Redis or binds a port.
package guard

import (
	"os"
	"sync"
)

var once sync.Once

func init() {
	once.Do(func() {
		if os.Getenv("BATAUDIT_TEST_MODE") == "" {
			_ = os.Setenv("BATAUDIT_TEST_MODE", "1")
		}
	})
}
