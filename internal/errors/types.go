package errors

import "errors"

var (
	ErrManifestNotFound    = errors.New("manifest file not found")
	ErrManifestParseFailed = errors.New("manifest parsing failed")
	ErrSourceFailed        = errors.New("source update failed")
	ErrDepsFailed          = errors.New("dependency sync failed")
	ErrMigrateFailed       = errors.New("migration failed")
	ErrServiceFailed       = errors.New("service restart failed")
	ErrRecordFailed        = errors.New("deployment record failed")
	ErrPreflightFailed     = errors.New("preflight check failed")
	ErrStateFailed         = errors.New("state persistence failed")
)

type ShipKitError struct {
	Type        error
	Context     string
	Cause       string
	Suggestion  string
	OriginalErr error
}

func (e *ShipKitError) Error() string {
	return e.OriginalErr.Error()
}

func (e *ShipKitError) Unwrap() error {
	return e.OriginalErr
}

func NewShipKitError(errorType error, context, cause, suggestion string, originalErr error) *ShipKitError {
	return &ShipKitError{
		Type:        errorType,
		Context:     context,
		Cause:       cause,
		Suggestion:  suggestion,
		OriginalErr: originalErr,
	}
}

func NewManifestError(context, cause, suggestion string, originalErr error) *ShipKitError {
	return NewShipKitError(ErrManifestNotFound, context, cause, suggestion, originalErr)
}

func NewParseError(context, cause, suggestion string, originalErr error) *ShipKitError {
	return NewShipKitError(ErrManifestParseFailed, context, cause, suggestion, originalErr)
}

func NewSourceError(context, cause, suggestion string, originalErr error) *ShipKitError {
	return NewShipKitError(ErrSourceFailed, context, cause, suggestion, originalErr)
}

func NewDepsError(context, cause, suggestion string, originalErr error) *ShipKitError {
	return NewShipKitError(ErrDepsFailed, context, cause, suggestion, originalErr)
}

func NewMigrateError(context, cause, suggestion string, originalErr error) *ShipKitError {
	return NewShipKitError(ErrMigrateFailed, context, cause, suggestion, originalErr)
}

func NewServiceError(context, cause, suggestion string, originalErr error) *ShipKitError {
	return NewShipKitError(ErrServiceFailed, context, cause, suggestion, originalErr)
}

func NewRecordError(context, cause, suggestion string, originalErr error) *ShipKitError {
	return NewShipKitError(ErrRecordFailed, context, cause, suggestion, originalErr)
}

func NewPreflightError(context, cause, suggestion string, originalErr error) *ShipKitError {
	return NewShipKitError(ErrPreflightFailed, context, cause, suggestion, originalErr)
}

func NewStateError(context, cause, suggestion string, originalErr error) *ShipKitError {
	return NewShipKitError(ErrStateFailed, context, cause, suggestion, originalErr)
}
