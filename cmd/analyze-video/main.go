package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/Patasheva/congrats-analyzer/internal/app"
	"github.com/Patasheva/congrats-analyzer/internal/config"
	"github.com/Patasheva/congrats-analyzer/internal/locale"
	"github.com/Patasheva/congrats-analyzer/internal/logger"
	"github.com/Patasheva/congrats-analyzer/internal/models"
	"github.com/Patasheva/congrats-analyzer/internal/persona"
	"github.com/Patasheva/congrats-analyzer/internal/pipeline"
)

func main() {
	var (
		lang = flag.String("lang", "", "UI language for status lines (en or fr)")
		raw  = flag.Bool("raw", false, "Print the raw model answer instead of the report")
	)
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] <video>\n", filepath.Base(os.Args[0]))
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	videoPath := flag.Arg(0)

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}
	if *lang == "" {
		*lang = cfg.DefaultLocale
	}

	l, err := logger.New(cfg.LogLevel)
	if err != nil {
		log.Fatal("Failed to create logger:", err)
	}
	defer l.Sync()

	runner, err := app.NewRunner(cfg, nil, l)
	if err != nil {
		l.Fatal("failed to build pipeline", zap.Error(err))
	}

	file, err := os.Open(videoPath)
	if err != nil {
		l.Fatal("failed to open video", zap.Error(err))
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		l.Fatal("failed to stat video", zap.Error(err))
	}

	out := runner.Run(context.Background(), pipeline.Upload{
		File:     file,
		Filename: filepath.Base(videoPath),
		Size:     stat.Size(),
	})

	if err := printOutcome(os.Stdout, locale.New(*lang), out, *raw); err != nil {
		l.Fatal("failed to print report", zap.Error(err))
	}
	if out.State != models.StateDone {
		os.Exit(1)
	}
}

func printOutcome(w io.Writer, c *locale.Catalog, out *pipeline.Outcome, raw bool) error {
	for _, m := range out.Messages {
		fmt.Fprintf(w, "[%s] %s\n", m.Level, m.Text(c))
	}
	if !out.Analyzed() {
		return nil
	}

	fmt.Fprintf(w, "\nFrame: #%d\n", out.FrameIndex)
	if out.Transcript.Text != "" {
		fmt.Fprintf(w, "%s: %q (%s)\n", c.T(locale.Transcription), out.Transcript.Text, out.Transcript.Language)
	}
	if out.FaceMismatch() {
		fmt.Fprintln(w, c.T(locale.FaceHint, out.FaceCount))
	}
	fmt.Fprintf(w, "\n%s\n\n", c.T(locale.AnalysisResults))

	if raw {
		_, err := fmt.Fprintln(w, out.Raw)
		return err
	}
	return persona.FormatText(w, out.Persona)
}
