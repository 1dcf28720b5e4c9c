package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/linksum"
	"github.com/fwojciec/linksum/analyze"
	"github.com/fwojciec/linksum/anthropic"
	"github.com/fwojciec/linksum/gemini"
	"github.com/fwojciec/linksum/goquery"
	linksumhttp "github.com/fwojciec/linksum/http"
	"github.com/fwojciec/linksum/notify"
	"github.com/fwojciec/linksum/readability"
	"github.com/fwojciec/linksum/resend"
	"github.com/fwojciec/linksum/rod"
	"github.com/fwojciec/linksum/smtp"
	"github.com/fwojciec/linksum/sqlite"
	"github.com/fwojciec/linksum/summarize"
	"github.com/fwojciec/linksum/trafilatura"
	linksumzap "github.com/fwojciec/linksum/zap"
	"go.uber.org/zap"
	"google.golang.org/genai"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		stop()
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	stop()
}

// Main represents the program.
type Main struct {
	// DBPath overrides the --db flag when set.
	DBPath string

	// SQLite database used by SQLite service implementations.
	DB *sqlite.DB

	// Logger overrides the logger built from --log-level and --log-format.
	Logger *zap.Logger

	// Browser is the headless fetcher, set when --fetcher=rod.
	Browser *rod.Fetcher
}

// NewMain returns a new instance of Main.
func NewMain() *Main {
	return &Main{}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.Logger != nil {
		_ = m.Logger.Sync()
	}
	if m.Browser != nil {
		_ = m.Browser.Close()
	}
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:     ctx,
		Stdout:  stdout,
		Stderr:  stderr,
		Version: version,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("linksum"),
		kong.Description("Summarize web pages with a language model and keep the results."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Configuration(kong.JSON),
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'linksum --help' to see available commands")
	}

	if cmd := args[0]; cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	if m.Logger == nil {
		if m.Logger, err = linksumzap.NewLogger(cli.LogLevel, cli.LogFormat); err != nil {
			return err
		}
	}
	deps.Logger = m.Logger

	dbPath := cli.DB
	if m.DBPath != "" {
		dbPath = m.DBPath
	}
	if dbPath == "" {
		dbPath = defaultDBPath()
	}

	m.DB = sqlite.NewDB(dbPath)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintf(stderr, "Hint: Set LINKSUM_DB to use a different database path\n")
		return fmt.Errorf("failed to open database at %q: %w", dbPath, err)
	}
	defer m.Close()

	deps.Analyses = sqlite.NewAnalysisService(m.DB)
	deps.Tags = sqlite.NewTagService(m.DB)

	completer, err := newCompleter(ctx, &cli.Globals, m.Logger)
	if err != nil {
		return err
	}
	if completer == nil {
		m.Logger.Warn("no model API key configured; summaries will be degraded", zap.String("provider", cli.Provider))
	}

	fetcher, err := m.newFetcher(&cli.Globals)
	if err != nil {
		fmt.Fprintln(stderr, "Hint: --fetcher=rod needs Chrome or Chromium installed")
		return err
	}

	deps.Analyzer = &analyze.Analyzer{
		Analyses:   deps.Analyses,
		Tags:       deps.Tags,
		Fetcher:    linksumzap.NewLoggingFetcher(fetcher, m.Logger),
		Extractor:  newExtractor(cli.Extractor),
		Summarizer: summarize.NewSummarizer(completer),
		Logger:     m.Logger,
	}

	if mailer := newMailer(&cli.Globals); mailer != nil {
		deps.Notifier = notify.NewNotifier(linksumzap.NewLoggingMailer(mailer, m.Logger), cli.EmailFrom, m.Logger)
	}

	return kongCtx.Run(deps)
}

// newCompleter returns the model client for the configured provider, or nil
// when its API key is missing.
func newCompleter(ctx context.Context, g *Globals, logger *zap.Logger) (linksum.Completer, error) {
	switch g.Provider {
	case "anthropic":
		if g.AnthropicAPIKey == "" {
			return nil, nil
		}
		model := g.Model
		if model == "" {
			model = anthropic.DefaultModel
		}
		return linksumzap.NewLoggingCompleter(anthropic.NewCompleter(g.AnthropicAPIKey, model), "anthropic", logger), nil
	default:
		if g.GeminiAPIKey == "" {
			return nil, nil
		}
		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  g.GeminiAPIKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to connect to Gemini API: %w", err)
		}
		model := g.Model
		if model == "" {
			model = gemini.DefaultModel
		}
		return linksumzap.NewLoggingCompleter(gemini.NewCompleter(client, model), "gemini", logger), nil
	}
}

func (m *Main) newFetcher(g *Globals) (linksum.Fetcher, error) {
	if g.Fetcher == "rod" {
		f, err := rod.NewFetcher(rod.WithFetchTimeout(g.FetchTimeout))
		if err != nil {
			return nil, err
		}
		m.Browser = f
		return f, nil
	}

	opts := []linksumhttp.FetcherOption{linksumhttp.WithTimeout(g.FetchTimeout)}
	if g.UserAgent != "" {
		opts = append(opts, linksumhttp.WithUserAgent(g.UserAgent))
	}
	return linksumhttp.NewFetcher(opts...), nil
}

func newExtractor(name string) linksum.Extractor {
	switch name {
	case "readability":
		return readability.NewExtractor()
	case "trafilatura":
		return trafilatura.NewExtractor()
	default:
		return goquery.NewExtractor()
	}
}

// newMailer prefers Resend, then SMTP. It returns nil when neither is
// configured, which disables email.
func newMailer(g *Globals) linksum.Mailer {
	switch {
	case g.ResendAPIKey != "":
		return resend.NewMailer(g.ResendAPIKey)
	case g.SMTPHost != "":
		return smtp.NewMailer(smtp.Config{
			Host:     g.SMTPHost,
			Port:     g.SMTPPort,
			Username: g.SMTPUsername,
			Password: g.SMTPPassword,
		})
	default:
		return nil
	}
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "linksum.db"
	}
	dir := filepath.Join(home, ".linksum")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "linksum.db")
}
