package errors

import (
	"fmt"
	"runtime/debug"
)

// Guard runs fn and converts a panic into a PDFError of type
// ErrorTypePanic tagged with filePath. The PDF readers panic on some
// malformed input, so every per-document entry point runs under Guard.
func Guard(filePath string, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			pe := NewPDFError(ErrorTypePanic, fmt.Sprint(r)).WithFile(filePath)
			pe.StackTrace = string(debug.Stack())
			err = pe
		}
	}()
	return fn()
}
