package app

import "github.com/spf13/pflag"

// RegisterBuildFlags registers the build command's flags on the given FlagSet
func RegisterBuildFlags(flags *pflag.FlagSet) {
	flags.StringP("corpus-dir", "c", "", "Directory containing transcript markdown files")
	flags.StringP("output-dir", "o", "", "Directory to write the index artifacts")
}

// RegisterServeFlags registers the serve command's flags on the given FlagSet
func RegisterServeFlags(flags *pflag.FlagSet) {
	flags.StringP("output-dir", "o", "", "Directory containing the built index artifacts")
	flags.StringP("host", "H", "", "Host to listen on")
	flags.IntP("port", "p", 0, "Port to listen on")
	flags.StringP("static-dir", "s", "", "Directory with the browser UI bundle (optional)")
	flags.IntP("max-results", "n", 0, "Maximum search results per query")
}

// RegisterListFlags registers the list command's flags on the given FlagSet
func RegisterListFlags(flags *pflag.FlagSet) {
	flags.StringP("output-dir", "o", "", "Directory containing the built index artifacts")
}
