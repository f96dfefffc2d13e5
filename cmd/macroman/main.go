package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/macroman/macroman/internal/version"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "macroman",
		Short: "Tool server exposing typed operations over HTTP and stdio",
		Long: "macroman exposes a fixed set of schema-described tools over two\n" +
			"transports: JSON request/response over HTTP, and newline-delimited\n" +
			"JSON frames over stdio.",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "Path to YAML config file")

	root.Version = version.Version
	root.SetVersionTemplate(version.String() + "\n")

	root.AddCommand(newServeCmd())
	root.AddCommand(newToolsCmd())

	return root
}
