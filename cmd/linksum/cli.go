package main

import (
	"context"
	"io"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/linksum"
	"go.uber.org/zap"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx      context.Context
	Stdout   io.Writer
	Stderr   io.Writer
	Logger   *zap.Logger
	Version  string
	Analyzer linksum.Analyzer
	Analyses linksum.AnalysisService
	Tags     linksum.TagService

	// Notifier is nil when no email provider is configured.
	Notifier linksum.Notifier
}

// Globals are flags shared by every command. Each can be set from the
// environment or from a JSON file passed with --config.
type Globals struct {
	Config    kong.ConfigFlag `help:"Load flag values from a JSON file"`
	DB        string          `name:"db" env:"LINKSUM_DB" help:"Database path (default ~/.linksum/linksum.db)"`
	LogLevel  string          `env:"LINKSUM_LOG_LEVEL" default:"info" help:"Log level (debug, info, warn, error)"`
	LogFormat string          `env:"LINKSUM_LOG_FORMAT" default:"console" enum:"json,console" help:"Log format"`

	Provider        string `env:"LINKSUM_PROVIDER" default:"gemini" enum:"gemini,anthropic" help:"Model provider"`
	Model           string `env:"LINKSUM_MODEL" help:"Model name (provider default when empty)"`
	GeminiAPIKey    string `name:"gemini-api-key" env:"GEMINI_API_KEY" help:"Gemini API key"`
	AnthropicAPIKey string `name:"anthropic-api-key" env:"ANTHROPIC_API_KEY" help:"Anthropic API key"`

	Fetcher      string        `env:"LINKSUM_FETCHER" default:"http" enum:"http,rod" help:"Page fetcher (rod renders JavaScript with headless Chrome)"`
	Extractor    string        `env:"LINKSUM_EXTRACTOR" default:"goquery" enum:"goquery,readability,trafilatura" help:"Content extractor"`
	UserAgent    string        `env:"LINKSUM_USER_AGENT" help:"User-Agent sent when fetching pages"`
	FetchTimeout time.Duration `env:"LINKSUM_FETCH_TIMEOUT" default:"30s" help:"Page fetch timeout"`

	ResendAPIKey string `name:"resend-api-key" env:"RESEND_API_KEY" help:"Resend API key"`
	EmailFrom    string `env:"LINKSUM_EMAIL_FROM" default:"linksum <noreply@linksum.local>" help:"Sender address"`
	SMTPHost     string `name:"smtp-host" env:"LINKSUM_SMTP_HOST" help:"SMTP relay host"`
	SMTPPort     int    `name:"smtp-port" env:"LINKSUM_SMTP_PORT" default:"587" help:"SMTP relay port"`
	SMTPUsername string `name:"smtp-username" env:"LINKSUM_SMTP_USERNAME" help:"SMTP username"`
	SMTPPassword string `name:"smtp-password" env:"LINKSUM_SMTP_PASSWORD" help:"SMTP password"`
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Globals

	Serve   ServeCmd   `cmd:"" help:"Serve the webhook, REST API and MCP endpoint"`
	Analyze AnalyzeCmd `cmd:"" help:"Analyze a URL and print the summary"`
	List    ListCmd    `cmd:"" help:"List stored analyses"`
	Show    ShowCmd    `cmd:"" help:"Show a stored analysis"`
	Delete  DeleteCmd  `cmd:"" help:"Delete an analysis and its tags"`
	Tags    TagsCmd    `cmd:"" help:"Show tag counts"`
}

// ServeCmd is the "serve" subcommand.
type ServeCmd struct {
	Addr string `env:"LINKSUM_ADDR" default:":8787" help:"Listen address"`
}

// AnalyzeCmd is the "analyze" subcommand.
type AnalyzeCmd struct {
	URL     string `arg:"" help:"URL to analyze"`
	Length  string `short:"l" default:"medium" enum:"short,medium,long" help:"Summary length"`
	NoTags  bool   `help:"Skip tag generation"`
	Email   string `short:"e" help:"Email the analysis to this address"`
	Subject string `help:"Email subject"`
	Full    bool   `help:"Include extracted content in the email"`
}

// ListCmd is the "list" subcommand.
type ListCmd struct {
	Status string `help:"Filter by status (pending, completed, failed)"`
	Type   string `help:"Filter by content type (article, blog, news)"`
	Search string `short:"s" help:"Only analyses whose content contains this text"`
	Limit  int    `short:"n" default:"20" help:"Maximum number of analyses"`
}

// ShowCmd is the "show" subcommand.
type ShowCmd struct {
	ID   string `arg:"" help:"Analysis ID"`
	Full bool   `help:"Print extracted content"`
}

// DeleteCmd is the "delete" subcommand.
type DeleteCmd struct {
	ID    string `arg:"" help:"Analysis ID"`
	Force bool   `help:"Confirm deletion"`
}

// TagsCmd is the "tags" subcommand.
type TagsCmd struct {
	MinConfidence float64 `default:"0" help:"Ignore tags below this confidence"`
	Limit         int     `short:"n" default:"50" help:"Maximum number of tags"`
}
