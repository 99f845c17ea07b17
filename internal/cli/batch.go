package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/ironsheep/relief-mapper/internal/imaging"
	"github.com/ironsheep/relief-mapper/internal/sched"
)

var (
	batchFlags   settingsFlags
	batchOutDir  string
	batchWorkers int
)

var batchCmd = &cobra.Command{
	Use:   "batch <input_dir>",
	Short: "Convert every image in a directory",
	Long: `Scans the input directory for supported images and converts each under
the same palette and settings. Images run in parallel; every result is
kept regardless of completion order.

Outputs are written to the output directory as <name>.png.`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	registerSettingsFlags(batchCmd, &batchFlags)
	batchCmd.Flags().StringVarP(&batchOutDir, "out", "o", "./relief_out", "output directory")
	batchCmd.Flags().IntVarP(&batchWorkers, "workers", "w", 0, "parallel conversions (0 = pool size)")
	rootCmd.AddCommand(batchCmd)
}

func runBatch(cmd *cobra.Command, args []string) error {
	inputDir := args[0]
	start := time.Now()

	settings, pal, mode, err := batchFlags.build()
	if err != nil {
		return err
	}

	entries, err := os.ReadDir(inputDir)
	if err != nil {
		return fmt.Errorf("read input dir: %w", err)
	}
	var inputs []string
	for _, e := range entries {
		if e.IsDir() || !imaging.Supported(e.Name()) {
			continue
		}
		inputs = append(inputs, e.Name())
	}
	if len(inputs) == 0 {
		return fmt.Errorf("no supported images in %s", inputDir)
	}
	if err := os.MkdirAll(batchOutDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	o := sched.New(sched.Options{PoolSize: batchWorkers})
	defer o.Shutdown()

	workers := batchWorkers
	if workers <= 0 {
		workers = sched.DefaultPoolSize()
	}
	logVerbose("input:   %s (%d images)", inputDir, len(inputs))
	logVerbose("output:  %s", batchOutDir)
	logVerbose("workers: %d", workers)

	cache := imaging.NewCache()
	g, ctx := errgroup.WithContext(context.Background())
	g.SetLimit(workers)
	for _, name := range inputs {
		name := name
		g.Go(func() error {
			src := filepath.Join(inputDir, name)
			img, err := cache.Load(src)
			if err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			defer cache.Evict(src)

			res, err := o.Convert(ctx, &sched.Request{
				Img:      img,
				Palette:  pal,
				Settings: settings,
				// Batch wants every result; completion order is
				// irrelevant here.
				KeepStale: true,
			}, mode)
			if err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}

			base := strings.TrimSuffix(name, filepath.Ext(name))
			out := filepath.Join(batchOutDir, base+".png")
			if err := imaging.Save(res.Image, out); err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			logVerbose("done:    %s (mean ΔE %.3f, digest %016x)",
				name, res.Report.MeanError, res.Digest)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	fmt.Printf("  Converted:  %d images\n", len(inputs))
	fmt.Printf("  Output:     %s\n", batchOutDir)
	fmt.Printf("  Time:       %s\n", time.Since(start).Round(time.Millisecond))
	return nil
}
