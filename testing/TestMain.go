// Package testing switches the application into test mode when blank
// imported from a _test.go file.
package testing

import (
	"os"
	"sync"
	stdtesting "testing"
)

var once sync.Once

func ensureTestMode() {
	once.Do(func() {
		_ = os.Setenv("WASHLINE_TEST_MODE", "1")
		if os.Getenv("SEQUENCE_BACKEND") == "" {
			_ = os.Setenv("SEQUENCE_BACKEND", "postgres")
		}
	})
}

func init() {
	ensureTestMode()
}

func TestMain(m *stdtesting.M) {
	ensureTestMode()
	os.Exit(m.Run())
}
