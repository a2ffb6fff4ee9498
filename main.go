package main

import (
	"context"
	_ "crypto/sha256"
	_ "crypto/sha512"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"regexp"
	"runtime"
	"syscall"
	"time"

	"github.com/containertools/regprune/registry"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"mvdan.cc/sh/v3/pattern"
)

import flag "github.com/spf13/pflag"

const version = "1.0"

var opts struct {
	debug     bool
	dryRun    bool
	insecure  bool
	trace     bool
	version   bool
	retention uint
	match     string
	cacert    string
	cert      string
	key       string
	keypass   string
	timeout   time.Duration
}

func init() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [OPTIONS] REGISTRY\n", filepath.Base(os.Args[0]))
		flag.PrintDefaults()
	}
	flag.UintVarP(&opts.retention, "retention", "r", 0, "Delete images older than this many seconds (required)")
	flag.BoolVarP(&opts.dryRun, "dry-run", "", false, "Only show the images that would be deleted")
	flag.BoolVarP(&opts.debug, "debug", "", false, "Enable debug logging")
	flag.BoolVarP(&opts.trace, "trace", "", false, "Enable trace logging, including HTTP dumps")
	flag.BoolVarP(&opts.insecure, "insecure", "", false, "Allow insecure server connections")
	flag.StringVarP(&opts.match, "match", "m", "", "Only process repositories matching this shell pattern")
	flag.StringVarP(&opts.cacert, "tlscacert", "C", "", "Trust certs signed only by this CA")
	flag.StringVarP(&opts.cert, "tlscert", "c", "", "Path to TLS certificate file")
	flag.StringVarP(&opts.key, "tlskey", "k", "", "Path to TLS key file")
	flag.StringVarP(&opts.keypass, "tlskeypass", "P", "", "Passphrase for TLS key file")
	flag.DurationVarP(&opts.timeout, "timeout", "t", 0, "Timeout for each registry call (0 means none)")
	flag.BoolVarP(&opts.version, "version", "", false, "Show version and exit")
}

func parseFlags() {
	flag.Parse()

	if opts.version {
		fmt.Printf("v%s %v %s/%s %s\n", version, runtime.Version(), runtime.GOOS, runtime.GOARCH, getCommit())
		os.Exit(0)
	}

	if flag.NArg() != 1 || !flag.CommandLine.Changed("retention") {
		flag.Usage()
		os.Exit(1)
	}
}

func configureLogging(debug bool, trace bool) {
	level := zerolog.InfoLevel
	if trace {
		level = zerolog.TraceLevel
	} else if debug {
		level = zerolog.DebugLevel
	}

	writer := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}
	log.Logger = zerolog.New(writer).Level(level).With().Timestamp().Logger()
}

func main() {
	parseFlags()
	configureLogging(opts.debug, opts.trace)

	// Convert the shell pattern to a regular expression
	var repoRegex *regexp.Regexp
	if opts.match != "" {
		expr, err := pattern.Regexp(opts.match, 0)
		if err != nil {
			log.Fatal().Err(err).Str("pattern", opts.match).Msg("Invalid match pattern")
		}
		repoRegex = regexp.MustCompile("^" + expr + "$")
	}

	r, err := registry.New(registry.Opt{
		Domain:     flag.Args()[0],
		CAFile:     opts.cacert,
		CertFile:   opts.cert,
		KeyFile:    opts.key,
		Passphrase: opts.keypass,
		Insecure:   opts.insecure,
		NonSSL:     opts.insecure,
		Debug:      opts.trace,
		Timeout:    opts.timeout,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Creating registry client")
	}

	if opts.dryRun {
		log.Warn().Msg("Dry run is enabled. No images will be deleted!")
	}

	// On ^C or SIGTERM handle exit.
	ctx, cancel := context.WithCancel(context.Background())
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-signals
		cancel()
		log.Warn().Str("signal", sig.String()).Msg("Received signal, exiting")
		os.Exit(1)
	}()

	start := time.Now()

	p := &pruner{
		client:    r,
		retention: time.Duration(opts.retention) * time.Second,
		dryRun:    opts.dryRun,
		match:     repoRegex,
		now:       time.Now,
	}
	if err := p.run(ctx); err != nil {
		log.Fatal().Err(err).Msg("Pruning failed")
	}

	log.Info().Msgf("Done. Took %s", fmtDuration(time.Since(start)))
}
