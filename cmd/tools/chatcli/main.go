package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/iachat/chat-widget/internal/loader"
	"github.com/iachat/chat-widget/internal/markup"
	"github.com/iachat/chat-widget/internal/model/chat"
	chatservice "github.com/iachat/chat-widget/internal/service/chat"
	"github.com/iachat/chat-widget/internal/widget"
)

type options struct {
	loaderURL   string
	apiURL      string
	company     string
	companyID   string
	origin      string
	theme       string
	typingDelay time.Duration
	timeout     time.Duration
	plain       bool
	debug       bool
}

func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Fprintln(os.Stderr, "[WARN] .env not loaded, using system environment")
	}

	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:   "chatcli",
		Short: "Talk to an IA chat widget backend from the terminal",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			return run(ctx, opts, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.loaderURL, "loader-url", "", "loader.js URL; when set, the bundle manifest is resolved before chatting")
	flags.StringVar(&opts.apiURL, "api-url", "", "full chat endpoint URL (defaults to {origin}/api/chat)")
	flags.StringVar(&opts.company, "company", "", "company display name")
	flags.StringVar(&opts.companyID, "company-id", "", "company identifier sent with every message")
	flags.StringVar(&opts.origin, "origin", "http://localhost:8080", "origin used when --api-url is empty")
	flags.StringVar(&opts.theme, "theme", "", "widget theme: light or dark")
	flags.DurationVar(&opts.typingDelay, "typing-delay", chatservice.DefaultTypingDelay, "pause before an answer is shown")
	flags.DurationVar(&opts.timeout, "timeout", 30*time.Second, "per-message request timeout")
	flags.BoolVar(&opts.plain, "plain", false, "print replies without markdown styling")
	flags.BoolVar(&opts.debug, "debug", false, "enable debug logging")

	return cmd
}

func run(ctx context.Context, opts *options, in io.Reader, out io.Writer) error {
	level := zerolog.WarnLevel
	if opts.debug {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()
	log.Logger = logger

	if opts.theme != "" && !widget.Theme(opts.theme).Valid() {
		return fmt.Errorf("unknown theme %q, use light or dark", opts.theme)
	}

	explicit := widget.Config{
		Company:   opts.company,
		CompanyID: opts.companyID,
		APIURL:    opts.apiURL,
		Theme:     widget.Theme(opts.theme),
	}

	var dataset map[string]string
	if opts.loaderURL != "" {
		tag, err := loader.New(&http.Client{Timeout: opts.timeout}).
			WithLogger(logger).
			Bootstrap(ctx, opts.loaderURL, explicit.Dataset())
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "bundle: %s\n", tag.Src)
		dataset = tag.Dataset()
	}

	manager := widget.NewManager(opts.origin,
		widget.WithLogger(logger),
		widget.WithSessionOptions(
			chatservice.WithTypingDelay(opts.typingDelay),
			chatservice.WithLogger(logger),
		),
	)
	defer manager.Destroy()

	mount := manager.Init(explicit, dataset)
	mount.Toggle()
	logger.Debug().Str("endpoint", mount.Endpoint).Str("company", mount.Config.Company).Msg("widget mounted")

	printer := newPrinter(out, mount.Config.Theme, opts.plain)
	unsubscribe := mount.Session.Subscribe(printer.onState)
	defer func() { unsubscribe() }()

	for _, turn := range mount.Session.Messages() {
		printer.printTurn(turn)
	}

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}

		mount = manager.Current()
		line := scanner.Text()
		switch strings.TrimSpace(line) {
		case "/quit", "/exit":
			return nil
		case "/clear":
			mount.Session.Clear()
			continue
		case "/close":
			mount.Close()
			continue
		case "/open":
			if !mount.IsOpen() {
				mount.Toggle()
			}
			continue
		case "/restart":
			unsubscribe()
			manager.Destroy()
			mount = manager.Init(explicit, dataset)
			mount.Toggle()
			unsubscribe = mount.Session.Subscribe(printer.onState)
			for _, turn := range mount.Session.Messages() {
				printer.printTurn(turn)
			}
			continue
		}

		if !mount.IsOpen() {
			fmt.Fprintln(out, "(ventana cerrada, escribe /open)")
			continue
		}

		sendCtx, cancel := context.WithTimeout(ctx, opts.timeout)
		err := mount.Send(sendCtx, line)
		cancel()

		switch {
		case errors.Is(err, widget.ErrEmptyMessage):
			continue
		case err != nil:
			logger.Debug().Err(err).Msg("send failed")
		}
		if ctx.Err() != nil {
			return nil
		}

		messages := mount.Session.Messages()
		if n := len(messages); n > 0 && !messages[n-1].IsUser() {
			printer.printTurn(messages[n-1])
		}
	}
}

type printer struct {
	out      io.Writer
	renderer *glamour.TermRenderer
	typing   bool
}

// newPrinter styles replies for the widget theme. Without glamour, or with
// plain set, replies are printed as plain text.
func newPrinter(out io.Writer, theme widget.Theme, plain bool) *printer {
	p := &printer{out: out}
	if plain {
		return p
	}
	if !theme.Valid() {
		theme = widget.Light
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(string(theme)),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		log.Debug().Err(err).Msg("glamour unavailable, printing plain text")
		return p
	}
	p.renderer = renderer
	return p
}

// onState shows the typing indicator once per pending reply.
func (p *printer) onState(state chatservice.State) {
	if state.IsTyping && !p.typing {
		fmt.Fprintln(p.out, "  … escribiendo")
	}
	p.typing = state.IsTyping
}

func (p *printer) printTurn(turn chat.Turn) {
	if turn.IsUser() {
		return
	}
	stamp := markup.TimeOfDay(turn.Timestamp, time.Local)
	content := markup.TerminalText(turn.Content)
	if p.renderer != nil {
		if rendered, err := p.renderer.Render(content); err == nil {
			fmt.Fprintf(p.out, "[%s]%s", stamp, rendered)
			return
		}
	}
	fmt.Fprintf(p.out, "[%s] %s\n", stamp, markup.PlainText(content))
}
