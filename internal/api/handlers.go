package api

import (
	"bytes"
	"context"
	"embed"
	"encoding/base64"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Patasheva/congrats-analyzer/internal/locale"
	"github.com/Patasheva/congrats-analyzer/internal/models"
	"github.com/Patasheva/congrats-analyzer/internal/pipeline"
	"github.com/Patasheva/congrats-analyzer/internal/storage"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.New("").Funcs(template.FuncMap{
	"formatFileSize": formatFileSize,
	"formatTime":     func(t time.Time) string { return t.Local().Format("Jan 2, 2006 15:04") },
	"formatDuration": func(d time.Duration) string { return d.Round(100 * time.Millisecond).String() },
	"inc":            func(i int) int { return i + 1 },
}).ParseFS(templateFS, "templates/*.html"))

// multipartMemory is how much of an upload is buffered in memory before
// spilling to a temp file.
const multipartMemory = 32 << 20

type Runner interface {
	Run(ctx context.Context, upload pipeline.Upload) *pipeline.Outcome
}

type RunLister interface {
	ListRecent(ctx context.Context, limit int) ([]models.Run, error)
}

type App struct {
	Runner        Runner
	Runs          RunLister
	MaxUploadSize int64
	DefaultLocale string
	Logger        *zap.Logger
}

type pageView struct {
	L             *locale.Catalog
	Accept        string
	MaxUploadSize string
	Report        *reportView
}

type reportView struct {
	L       *locale.Catalog
	Outcome *pipeline.Outcome
}

func (v *reportView) FrameURI() template.URL {
	return template.URL("data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(v.Outcome.Frame))
}

type runsView struct {
	L    *locale.Catalog
	Runs []models.Run
}

func PingHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("pong"))
}

func (app *App) UploadPageHandler(w http.ResponseWriter, r *http.Request) {
	app.render(w, http.StatusOK, "page", app.page(app.catalog(r), nil))
}

func (app *App) AnalyzeHandler(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, app.MaxUploadSize)

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			app.renderError(w, http.StatusRequestEntityTooLarge, app.catalog(r).T(locale.TooLarge))
			return
		}
		app.renderError(w, http.StatusBadRequest, "Failed to parse upload")
		return
	}
	defer r.MultipartForm.RemoveAll()

	c := app.catalog(r)

	file, header, err := r.FormFile("video")
	if err != nil {
		app.renderError(w, http.StatusBadRequest, c.T(locale.UploadHint))
		return
	}
	defer file.Close()

	outcome := app.Runner.Run(r.Context(), pipeline.Upload{
		File:        file,
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
	})

	app.Logger.Info("analysis served",
		zap.String("run_id", outcome.RunID),
		zap.String("state", string(outcome.State)),
		zap.String("lang", c.Lang),
	)

	report := &reportView{L: c, Outcome: outcome}

	w.Header().Set("HX-Trigger", "runCompleted")
	if r.Header.Get("HX-Request") != "" {
		app.render(w, http.StatusOK, "report", report)
		return
	}
	app.render(w, http.StatusOK, "page", app.page(c, report))
}

func (app *App) RunsPartialHandler(w http.ResponseWriter, r *http.Request) {
	c := app.catalog(r)
	if app.Runs == nil {
		app.render(w, http.StatusOK, "runs", runsView{L: c})
		return
	}

	runs, err := app.Runs.ListRecent(r.Context(), 10)
	if err != nil {
		app.Logger.Error("failed to list runs", zap.Error(err))
		w.Write([]byte("<p>Error loading runs</p>"))
		return
	}

	app.render(w, http.StatusOK, "runs", runsView{L: c, Runs: runs})
}

func (app *App) page(c *locale.Catalog, report *reportView) pageView {
	return pageView{
		L:             c,
		Accept:        strings.Join(storage.AcceptedExtensions, ","),
		MaxUploadSize: formatFileSize(app.MaxUploadSize),
		Report:        report,
	}
}

// catalog picks the UI language from the lang parameter, then the
// configured default.
func (app *App) catalog(r *http.Request) *locale.Catalog {
	if lang := r.FormValue("lang"); locale.Supported(lang) {
		return locale.New(lang)
	}
	return locale.New(app.DefaultLocale)
}

func (app *App) render(w http.ResponseWriter, status int, name string, data any) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		app.Logger.Error("failed to render template", zap.String("template", name), zap.Error(err))
		http.Error(w, "Error rendering template", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

func (app *App) renderError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	fmt.Fprintf(w, `<div class="alert alert-error">%s</div>`, template.HTMLEscapeString(message))
}

func formatFileSize(size int64) string {
	const (
		KB = 1024
		MB = KB * 1024
		GB = MB * 1024
	)

	switch {
	case size >= GB:
		return fmt.Sprintf("%.2f GB", float64(size)/float64(GB))
	case size >= MB:
		return fmt.Sprintf("%.2f MB", float64(size)/float64(MB))
	case size >= KB:
		return fmt.Sprintf("%.2f KB", float64(size)/float64(KB))
	default:
		return fmt.Sprintf("%d B", size)
	}
}
