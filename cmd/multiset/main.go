package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/janelia-flyem/labelmultiset/datatype/common/downres"
	"github.com/janelia-flyem/labelmultiset/dvid"
)

const helpMessage = `

builds the label multisets of a dense label volume at all requested scales and prints their statistics

Usage: multiset [options] <label file> <shape>

  <label file> holds little-endian uint64 labels in C order (last axis fastest).
  Files ending in .gz, .zst, .sz or .lz4 are uncompressed with gzip, zstd, framed
  snappy or framed lz4.  <shape> is comma-separated, e.g., 64,128,128.

      -config      (string)  TOML configuration file
      -chunk       (string)  Construct chunks of this shape, e.g. 32,64,64, then merge them
      -scales      (int)     Number of 2x down-resolution levels
      -restrict    (int)     Maximum labels per downsampled histogram, -1 for unlimited
      -workers     (int)     Number of concurrent goroutines, 0 for # of CPUs
      -verbose     (flag)    Run in verbose mode.
  -h, -help        (flag)    Show help message

`

var (
	showHelp   = flag.Bool("help", false, "Show help message")
	runVerbose = flag.Bool("verbose", false, "Run in verbose mode")
	configFile = flag.String("config", "", "TOML configuration file")
	chunkStr   = flag.String("chunk", "", "Construct chunks of this shape then merge them")
	numScales  = flag.Int("scales", -1, "Number of 2x down-resolution levels")
	restrict   = flag.Int("restrict", 0, "Maximum labels per downsampled histogram, -1 for unlimited")
	numWorkers = flag.Int("workers", -1, "Number of concurrent goroutines, 0 for # of CPUs")
)

var usage = func() {
	fmt.Print(helpMessage)
}

func exitf(format string, args ...interface{}) {
	fmt.Printf(format, args...)
	dvid.Shutdown()
	os.Exit(1)
}

func main() {
	flag.BoolVar(showHelp, "h", false, "Show help message")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() != 2 || *showHelp {
		flag.Usage()
		os.Exit(0)
	}
	if *runVerbose {
		dvid.SetLogMode(dvid.DebugMode)
	}

	tc, err := loadConfig(*configFile)
	if err != nil {
		exitf("%v\n", err)
	}
	tc.Logging.SetLogger()

	// command-line overrides
	if *numScales >= 0 {
		tc.Downres.Scales = *numScales
	}
	if *restrict != 0 {
		tc.Downres.RestrictSet = *restrict
	}
	if *numWorkers >= 0 {
		tc.Downres.Workers = *numWorkers
	}

	args := flag.Args()
	shape, err := dvid.StringToPointNd(args[1], ",")
	if err != nil {
		exitf("bad shape: %v\n", err)
	}
	chunk, err := tc.Ingest.chunkShape(len(shape))
	if err != nil {
		exitf("%v\n", err)
	}
	if *chunkStr != "" {
		if chunk, err = dvid.StringToPointNd(*chunkStr, ","); err != nil {
			exitf("bad chunk shape: %v\n", err)
		}
	}

	lbls, err := dvid.ReadLabelFile(args[0], shape)
	if err != nil {
		exitf("can't read label volume: %v\n", err)
	}

	timedLog := dvid.NewTimeLog()
	level0, err := buildLevel0(lbls, shape, chunk, tc.Downres.Workers)
	if err != nil {
		exitf("can't build multiset of %q: %v\n", args[0], err)
	}
	timedLog.Infof("Built level 0 multiset %s", level0)

	scales := make([]dvid.PointNd, tc.Downres.Scales)
	for i := range scales {
		scales[i] = dvid.Uniform(len(shape), 2)
	}
	ds := downres.Downsampler{Workers: tc.Downres.Workers}
	levels, err := ds.Pyramid(level0, scales, tc.Downres.RestrictSet)
	if err != nil {
		exitf("can't compute down-resolution levels: %v\n", err)
	}
	for scale, m := range levels {
		fmt.Printf("Scale %d %s: %s\n", scale, m.Shape(), m.Stats())
	}
	dvid.Shutdown()
}
