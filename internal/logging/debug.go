package logging

import "os"

// DebugEnabled reports whether TA_DEBUG is set. It lowers the log level to
// debug the same way --verbose does, for runs where flags are awkward to pass.
func DebugEnabled() bool {
	return os.Getenv("TA_DEBUG") != ""
}
