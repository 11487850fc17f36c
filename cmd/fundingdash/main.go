// Command fundingdash cleans the startup funding export and serves the
// funding dashboard.
//
//	fundingdash serve --port 8080
//	fundingdash prepare -i startup_funding.csv -o cleaned.csv
//	fundingdash report --year 2019 --company Ola --xlsx dashboard.xlsx
//	fundingdash chart --out charts/
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
