// Package table provides the in-memory tabular model used by the funding dashboard.
//
// A Table is column oriented and immutable: Rename, Drop, Map and FillMissing
// each return a new Table, so a cleaning pipeline can hand tables from step to
// step without any step observing another's mutations.
//
// Cells are Values tagged with a Kind. The zero Value is the missing marker,
// which is what unparseable or absent fields become.
//
//	t, err := table.ReadCSV(f, table.ReadOptions{})
//	t, err = t.Drop("Remarks")
//	t, err = t.FillMissing("City_Location", table.Str("Lucknow"))
package table
