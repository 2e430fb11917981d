package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const defaultBaseURL = "http://127.0.0.1:8080"

var baseURL string

var rootCmd = &cobra.Command{
	Use:           "inventory-cli",
	Short:         "CLI for the inventory catalog API",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	def := os.Getenv("API_BASE_URL")
	if def == "" {
		def = defaultBaseURL
	}
	rootCmd.PersistentFlags().StringVar(&baseURL, "base-url", def,
		"API base url (or set API_BASE_URL)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err)

		var terr *transportError
		if errors.As(err, &terr) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}
