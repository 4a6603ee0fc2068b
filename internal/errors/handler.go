package errors

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"

	"shipkit/internal/ui"
)

type ErrorHandler struct {
	logger  *slog.Logger
	console *ui.Console
}

func NewErrorHandler() (*ErrorHandler, error) {
	logFile, err := createLogFile()
	if err != nil {
		return nil, err
	}

	logger := slog.New(slog.NewJSONHandler(logFile, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	console := ui.NewConsole()

	return &ErrorHandler{
		logger:  logger,
		console: console,
	}, nil
}

// getOSStandardLogDir returns the OS-standard log directory path
func getOSStandardLogDir() (string, error) {
	// Check for environment variable override first
	if customLogDir := os.Getenv("SHIPKIT_LOG_DIR"); customLogDir != "" {
		return customLogDir, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	switch runtime.GOOS {
	case "darwin":
		// macOS: ~/Library/Logs/ShipKit/
		return filepath.Join(homeDir, "Library", "Logs", "ShipKit"), nil
	case "linux", "freebsd", "openbsd", "netbsd":
		// Linux/Unix: ~/.local/share/shipkit/logs/ (XDG Base Directory)
		return filepath.Join(homeDir, ".local", "share", "shipkit", "logs"), nil
	case "windows":
		// Windows: %APPDATA%\ShipKit\logs\
		appDataDir := os.Getenv("APPDATA")
		if appDataDir == "" {
			return filepath.Join(homeDir, "AppData", "Roaming", "ShipKit", "logs"), nil
		}
		return filepath.Join(appDataDir, "ShipKit", "logs"), nil
	default:
		// Fallback for unknown OS
		return filepath.Join(homeDir, ".shipkit", "logs"), nil
	}
}

// createLogDirectoryWithFallback creates the log directory, falling back to
// the current directory when the OS-standard location is not writable.
func createLogDirectoryWithFallback() (string, bool, error) {
	logDir, warning := tryStandardLogDir()
	if warning == "" {
		return logDir, false, nil
	}

	currentDir, err := os.Getwd()
	if err != nil {
		return "", true, fmt.Errorf("cannot determine current directory for fallback logging: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Warning: %s. Falling back to current directory for logging.\n", warning)
	return currentDir, true, nil
}

// tryStandardLogDir creates and write-checks the OS-standard log directory.
// On failure the returned warning names what went wrong.
func tryStandardLogDir() (string, string) {
	logDir, err := getOSStandardLogDir()
	if err != nil {
		return "", fmt.Sprintf("Cannot determine standard log directory: %v", err)
	}

	if err := os.MkdirAll(logDir, 0750); err != nil {
		return "", fmt.Sprintf("Cannot create standard log directory %s: %v", logDir, err)
	}

	testFile := filepath.Join(logDir, ".test_write")
	f, err := os.Create(testFile)
	if err != nil {
		return "", fmt.Sprintf("Cannot write to standard log directory %s: %v", logDir, err)
	}
	if err := f.Close(); err != nil {
		slog.Warn("Failed to close test file", "path", testFile, "error", err)
	}
	if err := os.Remove(testFile); err != nil {
		slog.Warn("Failed to remove test file", "path", testFile, "error", err)
	}

	return logDir, ""
}

// rotateLogFile rotates log files when size limit is exceeded
func rotateLogFile(logPath string) error {
	const maxFiles = 5

	// Rotate existing files (.4 -> .5, .3 -> .4, etc.)
	for i := maxFiles - 1; i > 0; i-- {
		oldPath := fmt.Sprintf("%s.%d", logPath, i)
		newPath := fmt.Sprintf("%s.%d", logPath, i+1)

		if i == maxFiles-1 {
			// Remove the oldest file
			if _, err := os.Stat(oldPath); err == nil {
				if err := os.Remove(oldPath); err != nil {
					slog.Warn("Failed to remove old log file", "path", oldPath, "error", err)
				}
			}
		} else {
			// Rotate file
			if _, err := os.Stat(oldPath); err == nil {
				if err := os.Rename(oldPath, newPath); err != nil {
					slog.Warn("Failed to rotate log file", "old", oldPath, "new", newPath, "error", err)
				}
			}
		}
	}

	// Move current log to .1
	if _, err := os.Stat(logPath); err == nil {
		return os.Rename(logPath, logPath+".1")
	}

	return nil
}

// checkLogRotation checks if log rotation is needed and performs it
func checkLogRotation(logPath string) error {
	const maxSizeBytes = 10 * 1024 * 1024 // 10MB

	info, err := os.Stat(logPath)
	if err != nil {
		// File doesn't exist or other error, no rotation needed
		return nil
	}

	if info.Size() >= maxSizeBytes {
		return rotateLogFile(logPath)
	}

	return nil
}

func createLogFile() (*os.File, error) {
	logDir, _, err := createLogDirectoryWithFallback()
	if err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	logFileName := "shipkit.log"

	logPath := filepath.Join(logDir, logFileName)

	// Check if log rotation is needed before opening the file
	if err := checkLogRotation(logPath); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to rotate log file: %v\n", err)
	}

	return os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
}

func (h *ErrorHandler) Handle(err error) {
	if err == nil {
		return
	}

	var shipKitErr *ShipKitError
	if errors.As(err, &shipKitErr) {
		h.handleShipKitError(shipKitErr)
	} else {
		h.handleGenericError(err)
	}
}

func (h *ErrorHandler) handleShipKitError(err *ShipKitError) {
	h.logStructuredError(err)

	message := h.console.FormatErrorMessage(err.Context, err.Cause, err.Suggestion)
	h.console.PrintError(message)
}

func (h *ErrorHandler) handleGenericError(err error) {
	h.logger.Error("Unhandled error occurred",
		"error", err.Error(),
		"type", "generic",
	)

	h.console.PrintError(err.Error())
}

func (h *ErrorHandler) logStructuredError(err *ShipKitError) {
	logAttrs := []slog.Attr{
		slog.String("error", err.OriginalErr.Error()),
		slog.String("type", getErrorTypeName(err.Type)),
		slog.String("context", err.Context),
	}

	if err.Cause != "" {
		logAttrs = append(logAttrs, slog.String("cause", err.Cause))
	}

	if err.Suggestion != "" {
		logAttrs = append(logAttrs, slog.String("suggestion", err.Suggestion))
	}

	h.logger.LogAttrs(context.TODO(), slog.LevelError, "ShipKit error occurred", logAttrs...)
}

func getErrorTypeName(errType error) string {
	switch errType {
	case ErrManifestNotFound:
		return "manifest_not_found"
	case ErrManifestParseFailed:
		return "manifest_parse_failed"
	case ErrSourceFailed:
		return "source_failed"
	case ErrDepsFailed:
		return "deps_failed"
	case ErrMigrateFailed:
		return "migrate_failed"
	case ErrServiceFailed:
		return "service_failed"
	case ErrRecordFailed:
		return "record_failed"
	case ErrPreflightFailed:
		return "preflight_failed"
	case ErrStateFailed:
		return "state_failed"
	default:
		return "unknown"
	}
}
