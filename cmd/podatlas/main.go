package main

import (
	"context"
	"os"

	"github.com/podatlas/podatlas/internal/app"
	"github.com/spf13/cobra"
)

var (
	// Version is injected at build time
	Version = "dev"
	// Build is injected at build time
	Build = "unknown"
	// ProgramName is injected at build time
	ProgramName = "podatlas"
)

func main() {
	runMain(os.Args, os.Exit)
}

func runMain(args []string, exit func(int)) {
	if err := Execute(Version, Build, ProgramName, args[1:]); err != nil {
		exit(1)
	}
}

// Execute is the entry point for the CLI, extracted for testing
func Execute(version, build, programName string, args []string) error {
	rootCmd := &cobra.Command{
		Use:     programName,
		Short:   "Podcast transcript knowledge browser",
		Long:    "podatlas builds a searchable knowledge index from podcast episode transcripts and serves it to a browser UI",
		Version: version,
	}

	rootCmd.SetVersionTemplate(`{{.Version}}
`)

	buildCmd := &cobra.Command{
		Use:   "build",
		Short: "Build the corpus index from transcript markdown files",
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.RunBuild(context.Background(), app.DefaultRunParams(), cmd.Flags(), version)
		},
	}
	app.RegisterBuildFlags(buildCmd.Flags())

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the built index over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.RunServe(context.Background(), app.DefaultRunParams(), cmd.Flags(), version)
		},
	}
	app.RegisterServeFlags(serveCmd.Flags())

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List episodes from the built index",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd.Flags(), cmd.OutOrStdout())
		},
	}
	app.RegisterListFlags(listCmd.Flags())

	rootCmd.AddCommand(buildCmd, serveCmd, listCmd)
	rootCmd.SetArgs(args)

	return rootCmd.Execute()
}
