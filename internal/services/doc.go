// Package services implements the business logic between the HTTP handlers
// and the funding data.
//
// DashboardService owns the prepared funding table. It prepares the
// configured CSV file once at construction, answers every query from an
// immutable Snapshot, and swaps in a new snapshot on Reload, so a request
// never observes a half prepared table.
//
// HealthService reports liveness, readiness and version information. It is
// ready once a DataStatusProvider (normally the DashboardService) reports
// loaded data.
//
// # Errors
//
// Query methods return sentinel errors that handlers map onto HTTP problems:
//
//	ErrDataNotLoaded   no snapshot has been published
//	ErrCompanyNotFound the startup name matches no record
//	ErrInvalidYear     year outside [1900,2100]
//	ErrInvalidLimit    ranking length outside [1,50]
//	ErrInvalidInput    any other malformed argument
package services
