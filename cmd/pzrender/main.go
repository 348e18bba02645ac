// Command pzrender designs a pole/zero filter from a root set and renders
// audio files through it offline.
//
// Usage:
//
//	pzrender [flags]
//
// The root set comes from a JSON document (-doc) or a classic preset
// (-preset). Without -in it prints the pairing plan, the cascade and its
// response. With -in and -out it filters the file block by block, applying
// the document's timed events with the same crossfade a live host gets.
//
// Examples:
//
//	pzrender -preset notch -freq 1000 -q 8
//	pzrender -preset butterworth-lp -freq 2000 -order 5 -clip
//	pzrender -doc ~/filters/sweep.json -in voice.mp3 -out voice-filtered.wav
//
// A document looks like this:
//
//	{
//	  "gain": 0.5,
//	  "zeros": [{"re": 0, "im": 1}],
//	  "poles": [{"re": 0, "im": 0.95}],
//	  "events": [{"at": 1.5, "preset": {"kind": "lowpass", "freq": 800}}]
//	}
package main

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/atotto/clipboard"
	"github.com/mitchellh/go-homedir"

	"github.com/cwbudde/algo-pzfilter/dsp/filter/design"
	"github.com/cwbudde/algo-pzfilter/dsp/filter/rootset"
	"github.com/cwbudde/algo-pzfilter/dsp/pzfilter"
)

type config struct {
	doc     string
	preset  string
	freq    float64
	q       float64
	gainDB  float64
	order   int
	in      string
	out     string
	rate    float64
	block   int
	fft     int
	bits    int
	clip    bool
	verbose bool
}

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	var cfg config
	fs := flag.NewFlagSet("pzrender", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&cfg.doc, "doc", "", "root set JSON document")
	fs.StringVar(&cfg.preset, "preset", "", "classic preset instead of a document (see -list)")
	fs.Float64Var(&cfg.freq, "freq", 1000, "preset frequency in Hz")
	fs.Float64Var(&cfg.q, "q", 0, "preset quality factor (0 selects 1/sqrt(2))")
	fs.Float64Var(&cfg.gainDB, "gain-db", 0, "preset gain in dB for peak and shelf kinds")
	fs.IntVar(&cfg.order, "order", 2, "preset order for butterworth kinds")
	fs.StringVar(&cfg.in, "in", "", "input audio file (.wav or .mp3)")
	fs.StringVar(&cfg.out, "out", "", "output WAV file")
	fs.Float64Var(&cfg.rate, "rate", 48000, "sample rate used for design when there is no input")
	fs.IntVar(&cfg.block, "block", 512, "processing block size in samples")
	fs.IntVar(&cfg.fft, "fft", 8192, "FFT size of the response measurement")
	fs.IntVar(&cfg.bits, "bits", 0, "output bit depth (0 keeps the input depth)")
	fs.BoolVar(&cfg.clip, "clip", false, "copy the printed tables to the clipboard")
	fs.BoolVar(&cfg.verbose, "v", false, "verbose logging")
	list := fs.Bool("list", false, "list preset kinds")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: pzrender [flags]\n\n")
		fmt.Fprintf(stderr, "Designs a pole/zero filter and optionally renders audio through it.\n\n")
		fmt.Fprintf(stderr, "Flags:\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	if *list {
		for _, k := range design.Kinds() {
			fmt.Fprintln(stdout, k)
		}
		return nil
	}

	level := slog.LevelWarn
	if cfg.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	return render(cfg, stdout, logger)
}

func render(cfg config, stdout io.Writer, logger *slog.Logger) error {
	doc, err := resolveDocument(cfg)
	if err != nil {
		return err
	}

	var input *clip
	sampleRate := cfg.rate
	if cfg.in != "" {
		path, err := homedir.Expand(cfg.in)
		if err != nil {
			return err
		}
		if input, err = readAudio(path); err != nil {
			return err
		}
		sampleRate = float64(input.sampleRate)
		logger.Info("loaded input",
			"path", path,
			"sampleRate", input.sampleRate,
			"channels", len(input.channels),
			"frames", input.frames())
	} else if cfg.out != "" {
		return errors.New("pzrender: -out requires -in")
	}

	// Offline rendering flushes once per block itself; a wall-clock loop
	// would make the output depend on timing.
	f := pzfilter.New(pzfilter.WithLogger(logger), pzfilter.WithFlushInterval(-1))
	defer f.Close()

	if err := f.Edit(func(s *rootset.Store) error { return doc.apply(s, sampleRate) }); err != nil {
		return err
	}

	var report bytes.Buffer
	if err := writeReport(&report, f, sampleRate, cfg.fft); err != nil {
		return err
	}
	if _, err := stdout.Write(report.Bytes()); err != nil {
		return err
	}
	if cfg.clip {
		if err := clipboard.WriteAll(report.String()); err != nil {
			logger.Warn("clipboard unavailable", "err", err)
		}
	}

	if input == nil || cfg.out == "" {
		return nil
	}

	output, err := process(f, doc, input, cfg.block, logger)
	if err != nil {
		return err
	}
	if cfg.bits > 0 {
		output.bitDepth = cfg.bits
	}
	path, err := homedir.Expand(cfg.out)
	if err != nil {
		return err
	}
	if err := writeWAV(path, output); err != nil {
		return err
	}
	logger.Info("wrote output", "path", path, "swaps", f.Stats().Scheduler.Swaps)
	return nil
}

func resolveDocument(cfg config) (*document, error) {
	switch {
	case cfg.doc != "" && cfg.preset != "":
		return nil, errors.New("pzrender: -doc and -preset are exclusive")
	case cfg.doc != "":
		path, err := homedir.Expand(cfg.doc)
		if err != nil {
			return nil, err
		}
		return loadDocument(path)
	case cfg.preset != "":
		return &document{rootSet: rootSet{Preset: &presetSpec{
			Kind:   cfg.preset,
			Freq:   cfg.freq,
			Q:      cfg.q,
			GainDB: cfg.gainDB,
			Order:  cfg.order,
		}}}, nil
	default:
		return nil, errors.New("pzrender: one of -doc or -preset is required")
	}
}

func writeReport(w io.Writer, f *pzfilter.Filter, sampleRate float64, fftSize int) error {
	snap := f.Snapshot()
	fmt.Fprintf(w, "roots: %d zeros, %d poles, order %d, gain %.6g\n\n",
		len(snap.Zeros), len(snap.Poles), snap.TotalOrder, snap.Gain)

	if err := printPlan(w, f.Plan()); err != nil {
		return err
	}
	fmt.Fprintln(w)
	c := f.Cascade()
	if err := printCascade(w, c); err != nil {
		return err
	}
	fmt.Fprintln(w)
	return printResponse(w, c, sampleRate, fftSize)
}

// process filters a copy of in block by block. Events are applied at the
// first block boundary at or after their time.
func process(f *pzfilter.Filter, doc *document, in *clip, block int, logger *slog.Logger) (*clip, error) {
	sampleRate := float64(in.sampleRate)
	chans := len(in.channels)
	if err := f.Prepare(sampleRate, block, chans); err != nil {
		return nil, err
	}

	out := &clip{
		channels:   make([][]float64, chans),
		sampleRate: in.sampleRate,
		bitDepth:   in.bitDepth,
	}
	for ch := range out.channels {
		out.channels[ch] = append([]float64(nil), in.channels[ch]...)
	}

	views := make([][]float64, chans)
	frames := in.frames()
	next := 0
	for off := 0; off < frames; off += block {
		t := float64(off) / sampleRate
		for next < len(doc.Events) && doc.Events[next].At <= t {
			ev := doc.Events[next]
			if err := f.Edit(func(s *rootset.Store) error { return ev.apply(s, sampleRate) }); err != nil {
				return nil, fmt.Errorf("pzrender: event %d at %gs: %w", next, ev.At, err)
			}
			logger.Debug("event applied", "index", next, "at", ev.At)
			next++
		}
		f.Flush()

		end := min(off+block, frames)
		for ch := range views {
			views[ch] = out.channels[ch][off:end]
		}
		f.ProcessBlock(views)
	}
	return out, nil
}
