package main

import (
	"log"
	"os"

	"github.com/ironsheep/relief-mapper/internal/cli"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Command output goes to stdout; logging stays on stderr.
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime)

	if os.Getenv("RELIEF_MAPPER_LOG_LEVEL") == "debug" {
		log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
		log.Printf("relief-mapper v%s (built %s, commit %s)", Version, BuildTime, GitCommit)
	}

	if err := cli.Execute(Version); err != nil {
		os.Exit(1)
	}
}
