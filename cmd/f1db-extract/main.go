// Command f1db-extract unpacks f1db_csv.zip from the working directory into
// f1db_csv/. It takes no flags.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/aneroid/ergast-f1db-extra/internal/archive"
)

const (
	zipPath = "f1db_csv.zip"
	destDir = "f1db_csv"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	_, err := archive.Extract(ctx, zipPath, destDir, func(e archive.Entry) {
		fmt.Printf("Extracted: %s to %s\n", e.Name, e.Path)
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
