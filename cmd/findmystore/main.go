package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/findmystore"
	"github.com/fwojciec/findmystore/demo"
	"github.com/fwojciec/findmystore/etree"
	"github.com/fwojciec/findmystore/fs"
	"github.com/fwojciec/findmystore/gemini"
	"github.com/fwojciec/findmystore/googlemaps"
	"github.com/fwojciec/findmystore/goquery"
	"github.com/fwojciec/findmystore/htmltomarkdown"
	fmshttp "github.com/fwojciec/findmystore/http"
	"github.com/fwojciec/findmystore/ingest"
	"github.com/fwojciec/findmystore/pdf"
	"github.com/fwojciec/findmystore/readability"
	"github.com/fwojciec/findmystore/resend"
	"github.com/fwojciec/findmystore/rod"
	"github.com/fwojciec/findmystore/shop"
	fmsslog "github.com/fwojciec/findmystore/slog"
	"github.com/fwojciec/findmystore/sqlite"
	"github.com/fwojciec/findmystore/trafilatura"
	"github.com/joho/godotenv"
	"google.golang.org/genai"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// A missing .env is fine; variables already set win.
	_ = godotenv.Load()

	m := NewMain()
	if err := m.Run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", errorText(err))
		os.Exit(1)
	}
}

// errorText returns the user-facing message for err. Domain errors show
// their message; other errors are shown as is.
func errorText(err error) string {
	var e *findmystore.Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// Main represents the program.
type Main struct {
	// Configuration, read from the environment by NewMain.
	Config Config

	// SQLite database used by SQLite service implementations.
	DB *sqlite.DB

	closers []io.Closer
}

// NewMain returns a new instance of Main configured from the environment.
func NewMain() *Main {
	return &Main{Config: LoadConfig(os.Getenv)}
}

// Close releases the database and any fetchers.
func (m *Main) Close() error {
	var errs []error
	for _, c := range m.closers {
		errs = append(errs, c.Close())
	}
	m.closers = nil
	if m.DB != nil {
		errs = append(errs, m.DB.Close())
		m.DB = nil
	}
	return errors.Join(errs...)
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdin:  stdin,
		Stdout: stdout,
		Stderr: stderr,
		Config: m.Config,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("findmystore"),
		kong.Description("Find stores, compare prices, plan shopping lists, get restock alerts and ask about your documents."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return findmystore.Errorf(findmystore.EINVALID, "no command specified. Run 'findmystore --help' to see available commands")
	}
	switch args[0] {
	case "help", "--help", "-h":
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	level := slog.LevelInfo
	if cli.Verbose {
		level = slog.LevelDebug
	}
	deps.Logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	if err := m.open(ctx, deps.Logger); err != nil {
		fmt.Fprintln(stderr, "Hint: Set FINDMYSTORE_DB to use a different database path")
		return err
	}
	defer m.Close()

	cmd := strings.Fields(kongCtx.Command())[0]
	if err := m.wire(ctx, deps, cmd, cli.Import.Browser); err != nil {
		return err
	}
	return kongCtx.Run(deps)
}

// open opens the database and seeds the demo catalog into an empty store table.
func (m *Main) open(ctx context.Context, logger *slog.Logger) error {
	if m.Config.DBPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(m.Config.DBPath), 0o755); err != nil {
			return fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	m.DB = sqlite.NewDB(m.Config.DBPath)
	if err := m.DB.Open(); err != nil {
		return fmt.Errorf("failed to open database at %q: %w", m.Config.DBPath, err)
	}

	catalog, err := demo.LoadCatalog()
	if err != nil {
		return err
	}
	seeded, err := demo.Seed(ctx, catalog, sqlite.NewStoreService(m.DB), sqlite.NewInventoryService(m.DB))
	if err != nil {
		return fmt.Errorf("failed to seed demo catalog: %w", err)
	}
	if seeded {
		logger.Debug("seeded demo catalog", "stores", len(catalog.Stores))
	}
	return nil
}

// wire builds the services a command needs. External services are used
// when their API keys are set; otherwise the demo catalog stands in for
// maps, alerts are recorded without email, and Gemini features are off.
func (m *Main) wire(ctx context.Context, deps *Dependencies, cmd string, browser bool) error {
	logger := deps.Logger
	cfg := m.Config

	catalog, err := demo.LoadCatalog()
	if err != nil {
		return err
	}

	svc := &shop.Service{
		Stores:        sqlite.NewStoreService(m.DB),
		Inventory:     sqlite.NewInventoryService(m.DB),
		Subscriptions: sqlite.NewSubscriptionService(m.DB),
		Alerts:        sqlite.NewAlertService(m.DB),
		Estimator:     demo.NewEstimator(uint64(time.Now().UnixNano())),
		MailFrom:      cfg.MailFrom,
		Logger:        logger,
	}

	var finder interface {
		findmystore.StoreFinder
		findmystore.Geocoder
	} = demo.NewFinder(catalog)
	if cfg.MapsAPIKey != "" {
		live, err := googlemaps.NewFinder(cfg.MapsAPIKey)
		if err != nil {
			return err
		}
		finder = live
	}
	logged := fmsslog.NewLoggingStoreFinder(finder, logger)
	svc.Finder = logged
	svc.Geocoder = logged

	if cfg.ResendAPIKey != "" {
		mailer, err := resend.NewMailer(cfg.ResendAPIKey)
		if err != nil {
			return err
		}
		svc.Mailer = fmsslog.NewLoggingMailer(mailer, logger)
	}
	deps.Shop = svc

	documents := sqlite.NewDocumentService(m.DB)
	deps.Documents = documents

	// Without Gemini, search ranks chunks by keyword overlap.
	var embedder findmystore.Embedder
	var client *genai.Client
	if cfg.GeminiAPIKey != "" {
		var err error
		client, err = gemini.NewClient(ctx, cfg.GeminiAPIKey)
		if err != nil {
			fmt.Fprintln(deps.Stderr, "Hint: Check your GEMINI_API_KEY is valid")
			return fmt.Errorf("failed to connect to Gemini API: %w", err)
		}
		embedder = fmsslog.NewLoggingEmbedder(gemini.NewEmbedder(client.Models, cfg.EmbedModel), logger)
	}
	search := sqlite.NewSearchService(m.DB, embedder)
	deps.Search = search

	if client != nil {
		asker := gemini.NewAsker(client.Models, search, cfg.Model)
		deps.Asker = fmsslog.NewLoggingAsker(asker, logger)

		agent := gemini.NewAgent(client.Models, cfg.Model, sqlite.NewMessageService(m.DB), shop.NewToolbox(svc, search))
		deps.Chatter = fmsslog.NewLoggingChatter(agent, logger)
	}

	converter := htmltomarkdown.NewConverter()
	text := ingest.NewTextParser()
	chunker := ingest.NewChunker(nil)
	if needsTokenizer(cmd) {
		if counter, err := gemini.NewTokenCounter(gemini.DefaultModel); err == nil {
			chunker.Counter = counter
		} else {
			logger.Debug("token counter unavailable, estimating tokens", "err", err)
		}
	}
	deps.Ingester = &ingest.Ingester{
		Documents: documents,
		Chunks:    sqlite.NewChunkService(m.DB),
		Parsers: map[findmystore.Format]findmystore.Parser{
			findmystore.FormatPDF:      pdf.NewParser(),
			findmystore.FormatDOCX:     etree.NewParser(),
			findmystore.FormatHTML:     goquery.NewParser(converter),
			findmystore.FormatText:     text,
			findmystore.FormatMarkdown: text,
		},
		Chunker:  chunker,
		Embedder: embedder,
		Archive:  fs.NewArchive(cfg.DataDir),
	}

	if cmd == "serve" || cmd == "import" {
		var fetcher findmystore.Fetcher = fmshttp.NewFetcher()
		if browser {
			rf, err := rod.NewFetcher()
			if err != nil {
				fmt.Fprintln(deps.Stderr, "Hint: Chrome or Chromium must be installed for --browser")
				return fmt.Errorf("failed to start browser: %w", err)
			}
			fetcher = rf
		}
		m.closers = append(m.closers, fetcher)
		deps.Importer = &ingest.Importer{
			Fetcher:   fmsslog.NewLoggingFetcher(fetcher, logger),
			Extractor: trafilatura.NewExtractor(),
			Fallback:  readability.NewExtractor(),
			Converter: converter,
			Ingester:  deps.Ingester,
			Limiter:   ingest.NewDomainLimiter(ingest.DefaultDomainRPS),
			Logger:    logger,
		}
	}
	return nil
}

// needsTokenizer reports whether cmd chunks documents.
func needsTokenizer(cmd string) bool {
	switch cmd {
	case "serve", "ingest", "import":
		return true
	}
	return false
}
