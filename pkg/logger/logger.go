// Package logger provides the application's shared loggers.
package logger

import (
	"log"
	"os"
)

var (
	// InfoLogger writes informational messages.
	InfoLogger *log.Logger

	// ErrorLogger writes error messages.
	ErrorLogger *log.Logger
)

// Init configures the shared loggers. Safe to call more than once.
func Init() {
	InfoLogger = log.New(os.Stdout, "INFO: ", log.Ldate|log.Ltime)
	ErrorLogger = log.New(os.Stderr, "ERROR: ", log.Ldate|log.Ltime|log.Lshortfile)
}
