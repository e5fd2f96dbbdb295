package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/samvad-hq/pocket-cli/internal/app"
	"github.com/samvad-hq/pocket-cli/internal/logger"
	"github.com/samvad-hq/pocket-cli/pkg/pocket"
)

// globalFlags are shared by every subcommand.
type globalFlags struct {
	dryRun  bool
	force   bool
	verbose int
	output  string

	// log is set once a subcommand builds its app.
	log *logger.ZapLogger
}

const rootLong = `Retrieve and add Pocket items.

Credentials come from POCKET_CONSUMER_KEY and POCKET_ACCESS_TOKEN.

add runs in dry-run mode by default: it prints the request and sends nothing.
Pass --force to send it.`

func newRootCmd(d deps, g *globalFlags) *cobra.Command {
	root := &cobra.Command{
		Use:           "pocket",
		Short:         "Command-line client for the Pocket v3 API",
		Long:          rootLong,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(d.stdout)
	root.SetErr(d.stderr)

	pf := root.PersistentFlags()
	pf.BoolVar(&g.dryRun, "dry-run", true, "Print add requests instead of sending them (default; use --force to send)")
	pf.BoolVar(&g.force, "force", false, "Actually send add requests (disables --dry-run)")
	pf.CountVarP(&g.verbose, "verbose", "v", "Increase log verbosity (-v info, -vv debug)")
	pf.StringVarP(&g.output, "output", "o", app.FormatJSON, "Output format: json or yaml")
	root.MarkFlagsMutuallyExclusive("dry-run", "force")

	root.AddCommand(newRetrieveCmd(d, g))
	root.AddCommand(newAddCmd(d, g))
	return root
}

// newApp loads configuration and wires the API client for one invocation.
// It fails before any network activity when credentials are missing.
func newApp(d deps, g *globalFlags) (*app.App, error) {
	cfg, err := d.loadConfig()
	if err != nil {
		return nil, err
	}

	log, err := logger.Init(cfg.LogLevel, g.verbose)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	g.log = log
	log.DebugObj("configuration loaded", "config", map[string]any{
		"api_base_url": cfg.APIBaseURL,
		"log_level":    cfg.LogLevel,
		"dry_run":      g.dryRun && !g.force,
		"output":       g.output,
	})

	client := pocket.NewClient(cfg.Credentials(),
		pocket.WithBaseURL(cfg.APIBaseURL),
		pocket.WithHTTPClient(d.httpClient),
		pocket.WithLogger(log),
	)

	return app.New(client, log, app.Options{
		DryRun: g.dryRun && !g.force,
		Format: g.output,
		Out:    d.stdout,
	})
}

// retrieveFlags mirrors the retrieve parameters.
type retrieveFlags struct {
	state       string
	favorite    int
	tag         string
	contentType string
	detailType  string
	search      string
	domain      string
	since       int
	count       int
	offset      int
}

func newRetrieveCmd(d deps, g *globalFlags) *cobra.Command {
	f := &retrieveFlags{}
	cmd := &cobra.Command{
		Use:   "retrieve",
		Short: "Retrieve saved items",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(d, g)
			if err != nil {
				return err
			}
			return a.Retrieve(cmd.Context(), f.options(cmd.Flags()))
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&f.state, "state", "", "unread, archive or all")
	fl.IntVar(&f.favorite, "favorite", 0, "0 for unfavorited, 1 for favorited")
	fl.StringVar(&f.tag, "tag", "", "Only items with this tag (_untagged_ for none)")
	fl.StringVar(&f.contentType, "content-type", "", "article, video or image")
	fl.StringVar(&f.detailType, "detail-type", "", "simple or complete")
	fl.StringVar(&f.search, "search", "", "Only items whose title or url contain this string")
	fl.StringVar(&f.domain, "domain", "", "Only items from this domain")
	fl.IntVar(&f.since, "since", 0, "Only items modified since this unix timestamp")
	fl.IntVar(&f.count, "count", 0, "Number of items to return")
	fl.IntVar(&f.offset, "offset", 0, "Offset into the item list")
	return cmd
}

// options keeps only the flags the user set.
func (f *retrieveFlags) options(fl *pflag.FlagSet) pocket.RetrieveOptions {
	return pocket.RetrieveOptions{
		State:       changedString(fl, "state", f.state),
		Favorite:    changedInt(fl, "favorite", f.favorite),
		Tag:         changedString(fl, "tag", f.tag),
		ContentType: changedString(fl, "content-type", f.contentType),
		DetailType:  changedString(fl, "detail-type", f.detailType),
		Search:      changedString(fl, "search", f.search),
		Domain:      changedString(fl, "domain", f.domain),
		Since:       changedInt(fl, "since", f.since),
		Count:       changedInt(fl, "count", f.count),
		Offset:      changedInt(fl, "offset", f.offset),
	}
}

type addFlags struct {
	url     string
	title   string
	tags    string
	tweetID string
}

func newAddCmd(d deps, g *globalFlags) *cobra.Command {
	f := &addFlags{}
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add an item (dry run unless --force is given)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(d, g)
			if err != nil {
				return err
			}
			return a.Add(cmd.Context(), f.options(cmd.Flags()))
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&f.url, "url", "", "URL of the item to save")
	fl.StringVar(&f.title, "title", "", "Title used when the page cannot be parsed")
	fl.StringVar(&f.tags, "tags", "", "Comma-separated tags")
	fl.StringVar(&f.tweetID, "tweet-id", "", "Tweet the item was shared from")
	_ = cmd.MarkFlagRequired("url")
	return cmd
}

func (f *addFlags) options(fl *pflag.FlagSet) pocket.AddOptions {
	return pocket.AddOptions{
		URL:     changedString(fl, "url", f.url),
		Title:   changedString(fl, "title", f.title),
		Tags:    changedString(fl, "tags", f.tags),
		TweetID: changedString(fl, "tweet-id", f.tweetID),
	}
}

func changedString(fl *pflag.FlagSet, name, v string) *string {
	if !fl.Changed(name) {
		return nil
	}
	return pocket.String(v)
}

func changedInt(fl *pflag.FlagSet, name string, v int) *int {
	if !fl.Changed(name) {
		return nil
	}
	return pocket.Int(v)
}
