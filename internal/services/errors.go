package services

import "errors"

var (
	// ErrDataNotLoaded is returned by queries before any data has been prepared.
	ErrDataNotLoaded = errors.New("funding data not loaded")
	// ErrCompanyNotFound is returned when a startup name matches no record.
	ErrCompanyNotFound = errors.New("company not found")
	// ErrInvalidYear is returned for a year outside [1900,2100].
	ErrInvalidYear = errors.New("invalid year")
	// ErrInvalidLimit is returned for a ranking length outside [1,50].
	ErrInvalidLimit = errors.New("invalid limit")
	// ErrInvalidInput is returned for any other malformed query argument.
	ErrInvalidInput = errors.New("invalid input")
)
