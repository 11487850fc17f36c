// Package middleware provides the HTTP middleware chain of the dashboard API:
// request IDs, structured request logging, rate limiting,
// request deadlines, CORS, security headers and OpenTelemetry instrumentation.
//
// Every error response written here is an RFC 7807 problem with the
// application/problem+json content type.
package middleware
