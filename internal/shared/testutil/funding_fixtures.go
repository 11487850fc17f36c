package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// FundingHeader is the raw header row of the funding export, including its
// irregular spacing.
const FundingHeader = "Sr No,Date dd/mm/yyyy,Startup Name,Industry Vertical,SubVertical,City  Location,Investors Name,InvestmentnType,Amount in USD,Remarks\n"

// FundingCSV is a small funding export exercising every cleaning rule.
//
// Parsed amounts sum to 6000 over six rows, so the two missing amounts are
// imputed with 1000 and the cleaned total is 8000. N/A loads as missing and
// unknown fails to parse, so one amount counts as unparsed.
// Ola has no city, Fashor has no industry, and the Zomato (31/02) and
// Paytm (two digit year) dates do not parse.
const FundingCSV = FundingHeader +
	`1,09/01/2020,Byju's,E-Tech,E-learning,Bengaluru,Tiger Global,Private Equity,"$1,000",` + "\n" +
	`2,13/01/2020,Shuttl,Transportation,Shuttle service,Gurgaon,Susquehanna,Series C,500,` + "\n" +
	`3,15/03/2019,Byju's,E-Tech,E-learning,Bengaluru,General Atlantic,Private Equity,"2,000",` + "\n" +
	`4,02/07/2019,Fashor,,Clothes,Mumbai,Sprout Venture,Seed Round,300,` + "\n" +
	`5,05/08/2018,Ola,Transportation,Cabs,,SoftBank,Series J,N/A,Undisclosed` + "\n" +
	`6,31/02/2018,Zomato,Food,Delivery,Gurgaon,Ant Financial,Series H,"1,500",` + "\n" +
	`7,12/05/15,Paytm,FinTech,Payments,Noida,Alibaba,Series G,unknown,` + "\n" +
	`8,22/11/2017,Swiggy,Food,Delivery,Bengaluru,Naspers,Series H,"$700",` + "\n"

// WriteFile writes content to name inside a per-test temp directory and returns its path.
func WriteFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture %s: %v", name, err)
	}
	return path
}

// WriteFundingCSV writes FundingCSV to a temp file and returns its path.
func WriteFundingCSV(t *testing.T) string {
	t.Helper()
	return WriteFile(t, "startup_funding.csv", FundingCSV)
}
