// Command boxblur applies a tiled 3x3 mean blur to a 24-bit BMP file.
//
// Usage:
//
//	boxblur [flags] INPUT OUTPUT
//	boxblur -i in.bmp -o out.bmp -p 8
//	boxblur --preview out.png in.bmp out.bmp
package main

import (
	"context"
	"errors"
	"fmt"
	"image/png"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/pflag"

	"github.com/gogpu/boxblur"
	"github.com/gogpu/boxblur/bmp"
	"github.com/gogpu/boxblur/pixbuf"
)

// Config holds the command-line configuration.
type Config struct {
	InputPath  string
	OutputPath string
	Partitions int
	Grid       string
	DumpHeader bool
	DumpPixels bool
	Verbose    bool

	PreviewPath string
	PreviewSize int

	rows, cols int
}

func main() {
	cfg, err := parseFlags(os.Args[1:], os.Stderr)
	if errors.Is(err, pflag.ErrHelp) {
		return
	}
	if err == nil {
		err = validateConfig(cfg)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, cfg, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

// parseFlags defines and parses command-line flags, returning them
// in a Config struct. Two positional arguments fill input and output
// when the flags are absent.
func parseFlags(args []string, stderr io.Writer) (*Config, error) {
	cfg := &Config{}

	fs := pflag.NewFlagSet("boxblur", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVarP(&cfg.InputPath, "input", "i", "", "Path to the input 24-bit BMP file.")
	fs.StringVarP(&cfg.OutputPath, "output", "o", "", "Path of the blurred BMP file to write.")
	fs.IntVarP(&cfg.Partitions, "partitions", "p", boxblur.DefaultPartitions, "Number of tiles blurred concurrently.")
	fs.StringVar(&cfg.Grid, "grid", "", "Explicit tile grid as ROWSxCOLS (e.g. 2x3); overrides --partitions.")
	fs.BoolVar(&cfg.DumpHeader, "dump-header", false, "Print the input file headers before blurring.")
	fs.BoolVar(&cfg.DumpPixels, "dump-pixels", false, "Print the input pixels as BGR hex before blurring.")
	fs.StringVar(&cfg.PreviewPath, "preview", "", "Also write a scaled PNG of the blurred image to this path.")
	fs.IntVar(&cfg.PreviewSize, "preview-size", 256, "Longest side of the --preview image in pixels.")
	fs.BoolVarP(&cfg.Verbose, "verbose", "v", false, "Log grid selection and per-tile timings.")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	rest := fs.Args()
	if cfg.InputPath == "" && len(rest) > 0 {
		cfg.InputPath, rest = rest[0], rest[1:]
	}
	if cfg.OutputPath == "" && len(rest) > 0 {
		cfg.OutputPath, rest = rest[0], rest[1:]
	}
	if len(rest) > 0 {
		return nil, fmt.Errorf("unexpected arguments: %s", strings.Join(rest, " "))
	}
	return cfg, nil
}

// validateConfig checks if the provided configuration is valid.
func validateConfig(cfg *Config) error {
	if cfg.InputPath == "" {
		return fmt.Errorf("an input file is required (INPUT or --input/-i)")
	}
	if cfg.OutputPath == "" {
		return fmt.Errorf("an output file is required (OUTPUT or --output/-o)")
	}
	if _, err := os.Stat(cfg.InputPath); os.IsNotExist(err) {
		return fmt.Errorf("input file does not exist: %s", cfg.InputPath)
	}
	if cfg.PreviewPath != "" && cfg.PreviewSize <= 0 {
		return fmt.Errorf("--preview-size must be a positive integer")
	}
	if cfg.Grid != "" {
		rows, cols, err := parseGrid(cfg.Grid)
		if err != nil {
			return err
		}
		cfg.rows, cfg.cols = rows, cols
		return nil
	}
	if cfg.Partitions <= 0 {
		return fmt.Errorf("--partitions must be a positive integer")
	}
	return nil
}

// parseGrid parses "RxC".
func parseGrid(s string) (rows, cols int, err error) {
	r, c, ok := strings.Cut(strings.ToLower(s), "x")
	if !ok {
		return 0, 0, fmt.Errorf("invalid --grid %q: want ROWSxCOLS", s)
	}
	rows, err = strconv.Atoi(strings.TrimSpace(r))
	if err != nil || rows <= 0 {
		return 0, 0, fmt.Errorf("invalid --grid %q: rows must be a positive integer", s)
	}
	cols, err = strconv.Atoi(strings.TrimSpace(c))
	if err != nil || cols <= 0 {
		return 0, 0, fmt.Errorf("invalid --grid %q: columns must be a positive integer", s)
	}
	return rows, cols, nil
}

// run decodes, optionally dumps, blurs and encodes, then prints a summary.
func run(ctx context.Context, cfg *Config, stdout, stderr io.Writer) error {
	level := slog.LevelWarn
	if cfg.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level})).
		With(slog.String("input", cfg.InputPath), slog.String("output", cfg.OutputPath))

	img, err := bmp.DecodeFile(cfg.InputPath)
	if err != nil {
		return fmt.Errorf("%w: %w", boxblur.ErrDecode, err)
	}
	if cfg.DumpHeader {
		if err := img.Dump(stdout); err != nil {
			return err
		}
	}
	if cfg.DumpPixels {
		if err := bmp.DumpPixels(stdout, img.Pixels); err != nil {
			return err
		}
	}

	opts := []boxblur.Option{boxblur.WithLogger(logger), boxblur.WithPartitions(cfg.Partitions)}
	if cfg.rows > 0 {
		opts = append(opts, boxblur.WithGrid(cfg.rows, cfg.cols))
	}
	out, stats, err := boxblur.BlurImage(ctx, img, opts...)
	if err != nil {
		return err
	}
	if err := bmp.EncodeFile(cfg.OutputPath, out); err != nil {
		return fmt.Errorf("%w: %w", boxblur.ErrEncode, err)
	}
	if cfg.PreviewPath != "" {
		if err := writePreview(cfg.PreviewPath, out.Pixels, cfg.PreviewSize); err != nil {
			return fmt.Errorf("%w: preview: %w", boxblur.ErrEncode, err)
		}
	}

	_, err = fmt.Fprintln(stdout, renderSummary(cfg, stats))
	return err
}

// writePreview writes buf as a PNG whose longest side is at most size.
func writePreview(path string, buf *pixbuf.Buffer, size int) (err error) {
	f, err := os.Create(filepath.Clean(path))
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			_ = os.Remove(path)
		}
	}()
	return png.Encode(f, buf.Thumbnail(size))
}

var (
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Width(9)
	valueStyle = lipgloss.NewStyle().Bold(true)
	boxStyle   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("205")).
			Padding(0, 1)
)

func renderSummary(cfg *Config, s boxblur.Stats) string {
	rows := [][2]string{
		{"input", cfg.InputPath},
		{"output", cfg.OutputPath},
		{"size", fmt.Sprintf("%dx%d", s.Width, s.Height)},
		{"grid", fmt.Sprintf("%dx%d (%d tiles)", s.Rows, s.Cols, s.Tiles())},
		{"elapsed", s.Elapsed.Round(time.Microsecond).String()},
	}
	lines := make([]string, 0, len(rows))
	for _, r := range rows {
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, labelStyle.Render(r[0]), valueStyle.Render(r[1])))
	}
	return boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}
