package cli

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"
)

var (
	version = "dev"
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "relief-mapper",
	Short: "Quantize images onto a constrained palette with vertical relief",
	Long: `relief-mapper — converts raster images into per-pixel palette and
height assignments under a constrained palette.

Each palette group yields several tone variants selected by vertical
structure; the converter picks, per pixel, the group and tone that
minimize perceptual error, with optional dithering and a column height
solver.`,
	Version: version,
}

// Execute runs the root command. Version is injected by main from its
// ldflags variables before execution.
func Execute(v string) error {
	if v != "" {
		version = v
		rootCmd.Version = v
	}
	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"relief-mapper %s (%s/%s, %s)\n",
		version, runtime.GOOS, runtime.GOARCH, runtime.Version(),
	))
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// logVerbose prints a message only when --verbose is set.
func logVerbose(format string, args ...any) {
	if verbose {
		fmt.Fprintf(os.Stderr, "[relief-mapper] "+format+"\n", args...)
	}
}
