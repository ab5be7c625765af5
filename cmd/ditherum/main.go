package main

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/jessevdk/go-flags"

	"github.com/ironsheep/ditherum/internal/cluster"
	"github.com/ironsheep/ditherum/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// GlobalOptions are accepted before any command.
type GlobalOptions struct {
	Verbose       bool `short:"v" long:"verbose" description:"Log progress and print the palette as colored swatches"`
	Version       bool `long:"version" description:"Print version information and exit"`
	Workers       int  `long:"workers" description:"Clustering workers (default: DITHERUM_WORKERS or the CPU count)"`
	MaxIterations int  `long:"max-iterations" description:"K-means iteration cap (default: DITHERUM_MAX_ITERATIONS or 50)"`
}

var global GlobalOptions

var debug bool

func debugf(format string, args ...interface{}) {
	if debug {
		log.Printf(format, args...)
	}
}

// clusterConfig merges the environment with the global flags. Flags win.
func clusterConfig() (cluster.Config, error) {
	cfg, err := cluster.ConfigFromEnv()
	if err != nil {
		return cluster.Config{}, err
	}
	if global.Workers < 0 || global.MaxIterations < 0 {
		return cluster.Config{}, fmt.Errorf("--workers and --max-iterations must not be negative")
	}
	if global.Workers > 0 {
		cfg.Workers = global.Workers
	}
	if global.MaxIterations > 0 {
		cfg.MaxIterations = global.MaxIterations
	}
	return cfg, nil
}

func newParser() *flags.Parser {
	parser := flags.NewParser(&global, flags.HelpFlag|flags.PassDoubleDash)
	parser.Name = "ditherum"
	parser.SubcommandsOptional = true
	parser.CommandHandler = func(cmd flags.Commander, args []string) error {
		if cmd == nil {
			return nil
		}
		setupLogging()
		return cmd.Execute(args)
	}

	parser.AddCommand("palette", "Extract or reduce a palette",
		"Extracts a palette from an image, or reduces an existing palette file, and saves it as JSON.",
		&paletteCommand{})
	parser.AddCommand("dither", "Dither an image to a palette",
		"Quantizes an image to a given or extracted palette using error diffusion.",
		&ditherCommand{})
	parser.AddCommand("gradient", "Write a horizontal gradient test image",
		"Writes a two-color horizontal gradient, useful as dithering input.",
		&gradientCommand{})
	parser.AddCommand("serve", "Run the MCP tool server on stdin/stdout",
		"Serves palette and dithering tools over newline-delimited JSON-RPC on stdin/stdout.",
		&serveCommand{})
	return parser
}

// setupLogging configures logging to stderr (stdout carries MCP traffic
// in serve mode).
func setupLogging() {
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	debug = global.Verbose || os.Getenv("DITHERUM_LOG_LEVEL") == "debug"
	debugf("ditherum %s (built %s, commit %s)", Version, BuildTime, GitCommit)
}

func main() {
	parser := newParser()
	_, err := parser.Parse()

	var flagsErr *flags.Error
	switch {
	case errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp:
		fmt.Println(flagsErr.Message)
		return
	case err != nil:
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	case global.Version:
		fmt.Printf("ditherum %s\n", Version)
		fmt.Printf("  Build time: %s\n", BuildTime)
		fmt.Printf("  Git commit: %s\n", GitCommit)
		return
	case parser.Active == nil:
		parser.WriteHelp(os.Stderr)
		os.Exit(1)
	}
}

type serveCommand struct{}

func (c *serveCommand) Execute(args []string) error {
	cfg, err := clusterConfig()
	if err != nil {
		return err
	}
	server.Version = Version
	debugf("serving MCP on stdin/stdout, clustering %+v", cfg)

	srv := server.New(cfg)
	if err := srv.Run(); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}
