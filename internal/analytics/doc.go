// Package analytics computes the funding dashboard's metrics.
//
// Every function is pure: it reads a slice of cleaned records and returns a
// value, never mutating its input or consulting any global state. Records
// come from a prepared table through Records.
//
//	recs, err := analytics.Records(result.Table)
//	total := analytics.TotalFunding(recs)
//	top := analytics.TopCities(recs, 5)
package analytics
