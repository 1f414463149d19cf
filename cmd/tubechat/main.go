package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/tubechat"
	"github.com/fwojciec/tubechat/chat"
	"github.com/fwojciec/tubechat/fs"
	"github.com/fwojciec/tubechat/gemini"
	"github.com/fwojciec/tubechat/goquery"
	"github.com/fwojciec/tubechat/htmltomarkdown"
	tubehttp "github.com/fwojciec/tubechat/http"
	"github.com/fwojciec/tubechat/rod"
	tubeslog "github.com/fwojciec/tubechat/slog"
	"github.com/fwojciec/tubechat/sqlite"
	"golang.org/x/term"
	"google.golang.org/genai"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := LoadEnv(envFiles()...); err != nil {
		fmt.Fprintln(os.Stderr, "warning:", err)
	}

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Configuration read from the environment by NewMain.
	DBPath   string
	APIKey   string
	Model    string
	Language string

	// Stdin is read by the render command when no file is given.
	Stdin io.Reader

	// SQLite database used by SQLite service implementations.
	DB *sqlite.DB
}

// NewMain returns a new instance of Main configured from the environment.
func NewMain() *Main {
	return &Main{
		DBPath:   defaultDBPath(),
		APIKey:   os.Getenv("GEMINI_API_KEY"),
		Model:    envOr("TUBECHAT_MODEL", gemini.DefaultModel),
		Language: envOr("TUBECHAT_LANG", gemini.DefaultLanguage),
		Stdin:    os.Stdin,
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Version: version,
		Ctx:     ctx,
		Stdin:   m.Stdin,
		Stdout:  stdout,
		Stderr:  stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("tubechat"),
		kong.Description("Chat with Gemini about YouTube videos."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'tubechat --help' to see available commands")
	}

	if cmd := args[0]; cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	cmd := strings.Fields(kongCtx.Command())[0]

	level := slog.LevelWarn
	if cli.Verbose {
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	logf := func(format string, args ...any) {
		logger.Warn(fmt.Sprintf(format, args...))
	}

	deps.Pretty = !cli.Raw && isTerminal(stdout)

	if cmd == "render" {
		return kongCtx.Run(deps)
	}

	m.DB = sqlite.NewDB(m.DBPath)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintf(stderr, "Hint: Set TUBECHAT_DB to use a different database path\n")
		return fmt.Errorf("failed to open database at %q: %w", m.DBPath, err)
	}
	defer m.Close()

	deps.Chat = &chat.Service{
		Conversations: sqlite.NewConversationService(m.DB),
		Graphs:        sqlite.NewGraphService(m.DB),
		HistoryBudget: chat.DefaultHistoryBudget,
		Concurrency:   cli.Graph.Concurrency,
		Logf:          logf,
	}

	if cmd == "guide" || cmd == "ask" || cmd == "graph" || cmd == "mcp" {
		if m.APIKey == "" {
			fmt.Fprintln(stderr, "GEMINI_API_KEY environment variable not set. Get an API key at https://aistudio.google.com/apikey")
			return tubechat.Errorf(tubechat.EUNAUTHORIZED, "GEMINI_API_KEY not set")
		}

		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  m.APIKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			fmt.Fprintln(stderr, "Hint: Check your GEMINI_API_KEY is valid")
			return fmt.Errorf("failed to connect to Gemini API: %w", err)
		}

		var assistant tubechat.Assistant = gemini.NewAssistant(client,
			gemini.WithModel(m.Model),
			gemini.WithLanguage(m.Language),
		)
		assistant = tubeslog.NewLoggingAssistant(assistant, logger)
		assistant = chat.NewRateLimitedAssistant(assistant, cli.RPS)
		assistant = chat.NewRetryingAssistant(assistant, nil, logf)
		deps.Chat.Assistant = chat.NewBreakingAssistant(assistant, chat.DefaultBreakerFailures, chat.DefaultBreakerTimeout, logf)

		var fetcher tubechat.Fetcher
		if cli.Browser {
			f, err := rod.NewFetcher()
			if err != nil {
				fmt.Fprintln(stderr, "Hint: Chrome or Chromium must be installed")
				return fmt.Errorf("failed to start browser: %w", err)
			}
			fetcher = f
		} else {
			fetcher = tubehttp.NewFetcher()
		}
		fetcher = tubeslog.NewLoggingFetcher(fetcher, logger)
		defer fetcher.Close()

		scraper := goquery.NewScraper(fetcher, htmltomarkdown.NewConverter())
		deps.Chat.Scraper = tubeslog.NewLoggingScraper(scraper, logger)
	}

	if cmd == "ask" || cmd == "mcp" {
		counter, err := gemini.NewTokenCounter(m.Model)
		if err != nil {
			return fmt.Errorf("failed to create token counter: %w", err)
		}
		deps.Chat.TokenCounter = counter
	}

	if cmd == "graph" && !cli.Graph.JSON {
		format, err := fs.ParseFormat(cli.Graph.Format)
		if err != nil {
			return err
		}
		deps.Exporter = fs.NewExporter(cli.Graph.Out, fs.WithFormat(format))
	}

	return kongCtx.Run(deps)
}

func defaultDBPath() string {
	if path := os.Getenv("TUBECHAT_DB"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "tubechat.db"
	}
	dir := filepath.Join(home, ".tubechat")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "tubechat.db")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
