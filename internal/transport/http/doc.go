// Package http implements the HTTP handlers of the funding dashboard.
//
// Handlers are thin: they parse path and query parameters, call the
// dashboard service and render the result. Successful JSON responses use
// the envelope
//
//	{"status": "success", "data": ..., "count": n}
//
// and every failure is an RFC 7807 problem rendered by errors.ErrorHandler.
// Service errors are mapped as follows:
//
//	services.ErrDataNotLoaded    503 DATA_NOT_LOADED
//	services.ErrCompanyNotFound  404 NOT_FOUND
//	services.ErrInvalidYear      400 VALIDATION_FAILED
//	services.ErrInvalidLimit     400 VALIDATION_FAILED
//	charts.ErrNoData             404 NOT_FOUND
//
// Charts are rendered with gonum/plot and exports are produced by the
// exporter package. The dashboard page is an html/template embedded in
// the binary.
package http
