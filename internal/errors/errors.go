package errors

import (
	"fmt"
	"os"
	"sync"
)

var (
	defaultHandler *ErrorHandler
	once           sync.Once
)

// GetDefaultHandler lazily builds the process-wide handler. Building fails
// when no log directory is writable at all.
func GetDefaultHandler() (*ErrorHandler, error) {
	var err error
	once.Do(func() {
		defaultHandler, err = NewErrorHandler()
	})
	return defaultHandler, err
}

// HandleError reports err through the default handler. When the handler
// cannot be built the error still reaches stderr.
func HandleError(err error) {
	handler, handlerErr := GetDefaultHandler()
	if handlerErr != nil || handler == nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		return
	}
	handler.Handle(err)
}

// resetDefaultHandler resets the singleton for testing purposes
func resetDefaultHandler() {
	defaultHandler = nil
	once = sync.Once{}
}
