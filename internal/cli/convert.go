package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/spf13/cobra"

	"github.com/ironsheep/relief-mapper/internal/engine"
	"github.com/ironsheep/relief-mapper/internal/imaging"
	"github.com/ironsheep/relief-mapper/internal/sched"
)

var (
	convertFlags   settingsFlags
	convertDump    string
	convertNoProgr bool
)

var convertCmd = &cobra.Command{
	Use:   "convert <input> <output>",
	Short: "Convert one image to palette and height assignments",
	Long: `Reads an image, matches every pixel against the palette built from the
palette file and structure mode, and writes the quantized result.

The output extension selects the encoding; transparent results should go
to PNG. With --dump the per-pixel assignments are also written as a
zstd-compressed JSON document.`,
	Args: cobra.ExactArgs(2),
	RunE: runConvert,
}

func init() {
	registerSettingsFlags(convertCmd, &convertFlags)
	convertCmd.Flags().StringVar(&convertDump, "dump", "", "write zstd-compressed assignment dump to this path")
	convertCmd.Flags().BoolVar(&convertNoProgr, "no-progress", false, "suppress progress output")
	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	inputPath, outputPath := args[0], args[1]
	start := time.Now()

	settings, pal, mode, err := convertFlags.build()
	if err != nil {
		return err
	}

	img, err := imaging.Load(inputPath)
	if err != nil {
		return err
	}
	b := img.Bounds()
	logVerbose("input:     %s (%dx%d)", inputPath, b.Dx(), b.Dy())
	logVerbose("palette:   %s (%d entries, %s)", convertFlags.palettePath, len(pal.Entries), pal.Mode)
	logVerbose("space:     %s  dither: %s  backend: %s", settings.Space, settings.Method, mode)

	o := sched.New(sched.Options{})
	defer o.Shutdown()

	var progress func(float64)
	if verbose && !convertNoProgr {
		last := -1
		progress = func(v float64) {
			pct := int(v * 100)
			if pct/10 > last/10 {
				last = pct
				logVerbose("progress:  %d%%", pct)
			}
		}
	}

	res, err := o.Convert(context.Background(), &sched.Request{
		Img:      img,
		Palette:  pal,
		Settings: settings,
		Progress: progress,
	}, mode)
	if err != nil {
		return fmt.Errorf("conversion: %w", err)
	}

	if err := imaging.Save(res.Image, outputPath); err != nil {
		return err
	}
	if convertDump != "" {
		if err := writeDump(convertDump, res); err != nil {
			return fmt.Errorf("write dump: %w", err)
		}
		logVerbose("dump:      %s", convertDump)
	}

	printReport(res, time.Since(start))
	return nil
}

func printReport(res *engine.Result, elapsed time.Duration) {
	r := res.Report
	fmt.Printf("  Pixels:     %d assigned\n", r.Pixels)
	fmt.Printf("  Mean ΔE:    %.3f (σ %.3f)\n", r.MeanError, r.StdDev)
	fmt.Printf("  Max ΔE:     %.3f\n", r.MaxError)
	fmt.Printf("  Digest:     %016x\n", res.Digest)
	fmt.Printf("  Sections:   %dx%d\n", res.Sections.Cols, res.Sections.Rows)
	fmt.Printf("  Time:       %s\n", elapsed.Round(time.Millisecond))
}

// dumpAssignment is the on-disk form of one pixel's result. Excluded pixels
// carry an empty group.
type dumpAssignment struct {
	Group string `json:"g"`
	Tone  string `json:"t,omitempty"`
}

// dumpFile is the assignment dump document, zstd-compressed on disk.
type dumpFile struct {
	Width       int              `json:"width"`
	Height      int              `json:"height"`
	Digest      string           `json:"digest"`
	Assignments []dumpAssignment `json:"assignments"`
}

func writeDump(path string, res *engine.Result) error {
	b := res.Image.Rect
	doc := dumpFile{
		Width:       b.Dx(),
		Height:      b.Dy(),
		Digest:      fmt.Sprintf("%016x", res.Digest),
		Assignments: make([]dumpAssignment, len(res.Assignments)),
	}
	for i, a := range res.Assignments {
		if a.GroupID == "" {
			continue
		}
		doc.Assignments[i] = dumpAssignment{Group: a.GroupID, Tone: a.Tone.String()}
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc, err := zstd.NewWriter(f, zstd.WithEncoderConcurrency(runtime.NumCPU()))
	if err != nil {
		return err
	}
	if err := json.NewEncoder(enc).Encode(&doc); err != nil {
		enc.Close()
		return err
	}
	return enc.Close()
}
