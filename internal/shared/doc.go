// Package shared holds code used across fundingdash packages that belongs to
// no single layer.
//
// The testutil subpackage provides the funding CSV fixture and a buffered
// slog handler for asserting on log output:
//
//	func TestSomething(t *testing.T) {
//	    logger, logs := testutil.NewTestLogger(t)
//	    path := testutil.WriteFundingCSV(t)
//	    ...
//	    assert.True(t, logs.ContainsMessage("Preparation complete"))
//	}
package shared
