package app

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/samvad-hq/pocket-cli/internal/logger"
	"github.com/samvad-hq/pocket-cli/pkg/pocket"
)

// Supported output formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// API is the part of pocket.Client the runner drives.
type API interface {
	Retrieve(ctx context.Context, opts pocket.RetrieveOptions) (string, error)
	Add(ctx context.Context, opts pocket.AddOptions) (string, error)
	Prepare(op pocket.Operation, payload pocket.Payload) (*pocket.Request, error)
}

// Options controls how results are rendered and whether mutating calls are sent.
type Options struct {
	DryRun bool
	Format string
	Out    io.Writer
}

// App executes one CLI operation against the API and writes the result.
type App struct {
	api    API
	log    logger.Logger
	out    io.Writer
	format string
	dryRun bool
}

// New builds an App. An empty format means json.
func New(api API, log logger.Logger, opts Options) (*App, error) {
	if api == nil {
		return nil, fmt.Errorf("api client must not be nil")
	}
	if opts.Out == nil {
		return nil, fmt.Errorf("output writer must not be nil")
	}
	if log == nil {
		log = logger.NopLogger{}
	}

	format := strings.ToLower(strings.TrimSpace(opts.Format))
	switch format {
	case "":
		format = FormatJSON
	case FormatJSON, FormatYAML:
	default:
		return nil, fmt.Errorf("unsupported output format %q (expected %s or %s)", opts.Format, FormatJSON, FormatYAML)
	}

	return &App{
		api:    api,
		log:    log,
		out:    opts.Out,
		format: format,
		dryRun: opts.DryRun,
	}, nil
}

// Retrieve runs the read-only retrieve operation. Dry-run does not apply.
func (a *App) Retrieve(ctx context.Context, opts pocket.RetrieveOptions) error {
	text, err := a.api.Retrieve(ctx, opts)
	if err != nil {
		return fmt.Errorf("retrieve: %w", err)
	}
	a.log.InfoObj("retrieve completed", "response_bytes", len(text))
	return a.render(text)
}

// Add saves an item. In dry-run mode the prepared request is printed instead.
func (a *App) Add(ctx context.Context, opts pocket.AddOptions) error {
	if a.dryRun {
		req, err := a.api.Prepare(pocket.OpAdd, pocket.BuildAddPayload(opts))
		if err != nil {
			return fmt.Errorf("prepare add: %w", err)
		}
		a.log.WarnObj("dry run: request not sent, pass --force to send", "operation", string(pocket.OpAdd))
		return a.renderValue(dryRunReport{DryRun: true, Request: req.Redacted()})
	}

	text, err := a.api.Add(ctx, opts)
	if err != nil {
		return fmt.Errorf("add: %w", err)
	}
	a.log.InfoObj("add completed", "response_bytes", len(text))
	return a.render(text)
}

type dryRunReport struct {
	DryRun  bool            `json:"dry_run" yaml:"dry_run"`
	Request *pocket.Request `json:"request" yaml:"request"`
}

// render writes raw JSON text in json mode and converts it in yaml mode.
func (a *App) render(text string) error {
	if a.format == FormatJSON {
		_, err := fmt.Fprintln(a.out, text)
		return err
	}

	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return fmt.Errorf("decode response for %s output: %w", a.format, err)
	}
	return a.writeYAML(normalizeNumbers(doc))
}

// normalizeNumbers turns json.Number leaves into int64 when they are integers
// and float64 otherwise, so YAML prints them as plain scalars.
func normalizeNumbers(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, e := range t {
			t[k] = normalizeNumbers(e)
		}
		return t
	case []any:
		for i, e := range t {
			t[i] = normalizeNumbers(e)
		}
		return t
	case json.Number:
		if n, err := t.Int64(); err == nil {
			return n
		}
		if f, err := t.Float64(); err == nil {
			return f
		}
		return t.String()
	default:
		return v
	}
}

func (a *App) renderValue(v any) error {
	if a.format == FormatYAML {
		return a.writeYAML(v)
	}
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	_, err = fmt.Fprintln(a.out, string(raw))
	return err
}

func (a *App) writeYAML(v any) error {
	enc := yaml.NewEncoder(a.out)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	return enc.Close()
}
