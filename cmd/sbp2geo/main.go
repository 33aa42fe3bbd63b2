package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"sbp2geo/internal/config"
	"sbp2geo/internal/convert"
	"sbp2geo/internal/geojson"
	"sbp2geo/internal/sbp"
	"sbp2geo/internal/web"
)

const usage = "Usage: sbp2geo [flags] file.sbp > geo.json"

type options struct {
	configPath string
	outPath    string
	stream     bool
	chunk      int
	compact    bool
	summary    bool
	serve      bool
	listen     string
	input      string
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	log.SetOutput(os.Stderr)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var o options
	fs := flag.NewFlagSet("sbp2geo", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintln(stderr, usage)
		fs.PrintDefaults()
	}
	fs.StringVar(&o.configPath, "config", "", "Path to YAML config (optional)")
	fs.StringVar(&o.outPath, "o", "", "Write GeoJSON to this file instead of stdout")
	fs.BoolVar(&o.stream, "stream", false, "Read the input as a chunked stream instead of record by record")
	fs.IntVar(&o.chunk, "chunk", 0, "Chunk size in bytes for -stream (default from config)")
	fs.BoolVar(&o.compact, "compact", false, "Write compact JSON")
	fs.BoolVar(&o.summary, "summary", false, "Print a per-track summary instead of GeoJSON")
	fs.BoolVar(&o.serve, "serve", false, "Run the HTTP conversion service")
	fs.StringVar(&o.listen, "listen", "", "Listen address for -serve (default from config)")
	if err := fs.Parse(args); err != nil {
		return o, err
	}
	if fs.NArg() > 0 {
		o.input = fs.Arg(0)
	}
	return o, nil
}

// loadConfig reads the optional config file and applies flag overrides.
func loadConfig(o options) (config.Config, error) {
	cfg := config.Default()
	if o.configPath != "" {
		var err error
		cfg, err = config.Load(o.configPath)
		if err != nil {
			return config.Config{}, fmt.Errorf("config load failed: %w", err)
		}
	}
	if o.stream {
		cfg.Input.Mode = config.ModeStream
	}
	if o.chunk > 0 {
		cfg.Input.ChunkSize = o.chunk
	}
	if o.outPath != "" {
		cfg.Output.Path = o.outPath
	}
	if o.compact {
		empty := ""
		cfg.Output.Indent = &empty
	}
	if o.listen != "" {
		cfg.Server.Listen = o.listen
	}
	if err := config.Validate(cfg); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	o, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	cfg, err := loadConfig(o)
	if err != nil {
		fmt.Fprintf(stderr, "sbp2geo: %v\n", err)
		return 2
	}

	if o.serve {
		return serve(ctx, cfg)
	}

	if o.input == "" {
		fmt.Fprintln(stderr, usage)
		return 2
	}

	res, err := convertFile(ctx, o.input, cfg.Input)
	if err != nil {
		if kind := sbp.ErrorKind(err); kind != "" {
			fmt.Fprintf(stderr, "sbp2geo: %s: %v\n", kind, err)
		} else {
			fmt.Fprintf(stderr, "sbp2geo: %v\n", err)
		}
		return 1
	}
	log.Printf("converted input=%s mode=%s features=%d points=%d dropped=%d",
		o.input, cfg.Input.Mode, len(res.Collection.Features), res.Points, res.Dropped)

	if o.summary {
		printSummary(stdout, o.input, res)
		return 0
	}

	if err := writeOutput(cfg.Output, stdout, res.Collection); err != nil {
		fmt.Fprintf(stderr, "sbp2geo: write output: %v\n", err)
		return 1
	}
	return 0
}

func convertFile(ctx context.Context, path string, in config.InputConfig) (convert.Result, error) {
	f, err := openInput(path)
	if err != nil {
		return convert.Result{}, err
	}
	defer f.Close()

	if in.Mode == config.ModeStream {
		return convert.FromStream(ctx, f, in.ChunkSize)
	}
	return convert.Run(ctx, sbp.NewReaderSource(f))
}

// writeOutput writes the collection to out.Path, or stdout when unset. A file
// is written under a temporary name and renamed, so a failed run never leaves
// partial output behind.
func writeOutput(out config.OutputConfig, stdout io.Writer, fc *geojson.FeatureCollection) error {
	indent := out.IndentString()
	if out.Path == "" || out.Path == "-" {
		return geojson.Encode(stdout, fc, indent)
	}

	tmp, err := os.CreateTemp(filepath.Dir(out.Path), ".sbp2geo-*.json")
	if err != nil {
		return err
	}
	ok := false
	defer func() {
		if !ok {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if err := geojson.Encode(tmp, fc, indent); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmp.Name(), out.Path); err != nil {
		return err
	}
	ok = true
	return nil
}

func serve(ctx context.Context, cfg config.Config) int {
	logs := web.NewLogBuffer(cfg.Server.LogLines)
	log.SetOutput(io.MultiWriter(os.Stderr, logs))

	log.Printf("sbp2geo starting")
	log.Printf("http listen=%s max_body_bytes=%d chunk_size=%d", cfg.Server.Listen, cfg.Server.MaxBodyBytes, cfg.Input.ChunkSize)

	err := web.Serve(ctx, cfg, web.NewStatus(), logs)
	if err != nil && ctx.Err() == nil {
		log.Printf("http server stopped: %v", err)
		return 1
	}
	log.Printf("sbp2geo stopping")
	return 0
}
