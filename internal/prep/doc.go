// Package prep cleans the raw startup funding export into the table the
// dashboard queries.
//
// The pipeline runs these steps in order, each producing a new table:
//
//  1. load: read the CSV; NA tokens become missing cells
//  2. normalize_columns: trim labels and collapse space runs to "_"
//  3. drop_columns: remove Sr_No, Remarks and SubVertical, failing if one is absent
//  4. coerce_amount: strip "$" and "," from Amount_in_USD and parse it
//  5. impute: amount gets the column mean, city "Lucknow", industry "IT"
//  6. extract_year: replace the d/m/yyyy date with its year
//
// Unparseable amounts and dates become missing; no row is ever dropped.
package prep
