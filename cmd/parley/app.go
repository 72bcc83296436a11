package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/alex/parley/internal/config"
	"github.com/alex/parley/internal/dialogue"
	"github.com/alex/parley/internal/history"
	"github.com/alex/parley/internal/personality"
	"github.com/alex/parley/internal/session"
)

const (
	greeting = "Hello! I'm a simple chatbot. Type /help for commands or 'exit' to end the conversation."
	goodbye  = "Goodbye! Have a great day!"
)

var (
	botStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	userStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	infoStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
)

type app struct {
	cfg      *config.Config
	engine   *dialogue.Engine
	store    session.Store
	userName *string
	logger   *zap.Logger
	out      io.Writer
	plain    bool
}

// newApp opens the configured store and restores the profile, or starts a
// fresh conversation from the config when nothing was saved.
func newApp(ctx context.Context, cfg *config.Config, logger *zap.Logger, out io.Writer) (*app, error) {
	store, err := session.OpenStore(cfg.Store.Backend, cfg.StorePath(),
		session.WithLogger(logger),
		session.WithSessionID(sessionID),
	)
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}

	a := &app{
		cfg:    cfg,
		store:  store,
		logger: logger,
		out:    out,
		plain:  noColor,
	}

	opts := []dialogue.Option{dialogue.WithLogger(logger)}
	if cfg.Seed != 0 {
		opts = append(opts, dialogue.WithSeed(cfg.Seed))
	}

	snap, err := store.Load(ctx, cfg.Store.Profile)
	switch {
	case err == nil:
		a.engine = session.Restore(dialogue.DefaultTable(), snap, opts...)
		a.userName = snap.UserName
		logger.Info("restored profile",
			zap.String("profile", cfg.Store.Profile),
			zap.Int("turns", len(snap.History)),
		)
	case errors.Is(err, session.ErrNotFound):
		traits := personality.NewTraitStoreFrom(cfg.Traits, personality.Mood(cfg.Mood))
		a.engine = dialogue.NewEngine(dialogue.DefaultTable(), append(opts, dialogue.WithTraits(traits))...)
	default:
		// a broken store shouldn't end the conversation before it starts
		logger.Warn("could not load profile, starting fresh",
			zap.String("profile", cfg.Store.Profile),
			zap.Error(err),
		)
		traits := personality.NewTraitStoreFrom(cfg.Traits, personality.Mood(cfg.Mood))
		a.engine = dialogue.NewEngine(dialogue.DefaultTable(), append(opts, dialogue.WithTraits(traits))...)
	}

	return a, nil
}

func (a *app) close() error {
	return a.store.Close()
}

// save persists the conversation. Failures are logged, not returned, so
// exiting always works.
func (a *app) save(ctx context.Context) bool {
	snap := session.Capture(a.engine, a.userName)
	if err := a.store.Save(ctx, a.cfg.Store.Profile, snap); err != nil {
		a.logger.Warn("failed to save profile",
			zap.String("profile", a.cfg.Store.Profile),
			zap.Error(err),
		)
		return false
	}
	return true
}

// handleLine processes one line of input and reports whether the session
// should end.
func (a *app) handleLine(ctx context.Context, line string) bool {
	input := strings.TrimSpace(line)

	switch strings.ToLower(input) {
	case "exit", "quit":
		a.say(goodbye)
		return true
	}

	if strings.HasPrefix(input, "/") {
		a.handleCommand(ctx, input)
		return false
	}

	reply := a.turn(input)
	a.engine.RecordHistory(input, reply.Text)
	a.say(reply.Text)
	return false
}

// turn replies to input and remembers the user's name when they give it.
func (a *app) turn(input string) dialogue.Reply {
	reply := a.engine.Reply(input)
	if reply.Rule == dialogue.RuleName && len(reply.Captures) > 0 {
		if name := strings.TrimRight(strings.TrimSpace(reply.Captures[0]), ".!?,"); name != "" {
			a.userName = &name
		}
	}
	return reply
}

func (a *app) handleCommand(ctx context.Context, input string) {
	fields := strings.Fields(input)
	cmd, args := strings.ToLower(fields[0]), fields[1:]

	switch cmd {
	case "/help":
		a.printHelp()
	case "/mood":
		if len(args) == 0 {
			a.info(fmt.Sprintf("Current mood: %s (options: %s)", a.engine.Mood(), moodList()))
			return
		}
		a.say(a.engine.ChangeMood(args[0]))
	case "/traits":
		a.printTraits()
	case "/adjust":
		a.adjust(args)
	case "/history":
		n := a.cfg.History.Show
		if len(args) > 0 {
			v, err := strconv.Atoi(args[0])
			if err != nil || v < 0 {
				a.info("Usage: /history [n]")
				return
			}
			n = v
		}
		a.printHistory(a.engine.RecentHistory(n))
	case "/name":
		if a.userName == nil {
			a.info("I don't know your name yet. Tell me with \"my name is ...\".")
			return
		}
		a.info("Your name is " + *a.userName + ".")
	case "/reset":
		a.engine.Reset()
		a.userName = nil
		a.info("Conversation reset.")
	case "/save":
		if a.save(ctx) {
			a.info("Saved.")
		} else {
			a.info("Could not save, see the log for details.")
		}
	default:
		a.info(fmt.Sprintf("Unknown command %s. Type /help for a list.", cmd))
	}
}

func (a *app) adjust(args []string) {
	if len(args) != 2 {
		a.info("Usage: /adjust <trait> <delta>")
		return
	}
	name := strings.ToLower(args[0])
	delta, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		a.info("Delta must be a number, e.g. 0.1 or -0.2")
		return
	}
	if !a.engine.Traits().Has(name) {
		a.info(fmt.Sprintf("No trait named %q. Try /traits.", name))
		return
	}
	a.engine.AdjustTrait(name, delta)
	a.info(fmt.Sprintf("%s is now %.2f", name, a.engine.Trait(name)))
}

func (a *app) printTraits() {
	var sb strings.Builder
	for _, name := range a.engine.Traits().Names() {
		fmt.Fprintf(&sb, "  %-10s %.2f\n", name, a.engine.Trait(name))
	}
	fmt.Fprintf(&sb, "  %-10s %s", "mood", a.engine.Mood())
	a.info(sb.String())
}

func (a *app) printHistory(entries []history.Entry) {
	if len(entries) == 0 {
		a.info("No history yet.")
		return
	}
	for _, e := range entries {
		fmt.Fprintf(a.out, "%s %s %s\n", a.style(infoStyle, e.Timestamp.Format("15:04:05")), a.style(userStyle, "You:"), e.Input)
		fmt.Fprintf(a.out, "         %s %s\n", a.style(botStyle, "Chatbot:"), e.Response)
	}
}

func (a *app) printHelp() {
	a.info(strings.Join([]string{
		"Commands:",
		"  /help                  - show this help",
		"  /mood [label]          - show or change the mood (" + moodList() + ")",
		"  /traits                - show personality traits",
		"  /adjust <trait> <d>    - nudge a trait by d, kept within 0..1",
		"  /history [n]           - show the last n turns",
		"  /name                  - show the name I know you by",
		"  /reset                 - forget history and restore default traits",
		"  /save                  - save the conversation now",
		"  exit, quit             - end the conversation",
	}, "\n"))
}

func (a *app) say(text string) {
	fmt.Fprintf(a.out, "%s %s\n", a.style(botStyle, "Chatbot:"), text)
}

func (a *app) info(text string) {
	fmt.Fprintln(a.out, a.style(infoStyle, text))
}

func (a *app) style(s lipgloss.Style, text string) string {
	if a.plain {
		return text
	}
	return s.Render(text)
}

func moodList() string {
	names := make([]string, len(personality.Moods))
	for i, m := range personality.Moods {
		names[i] = string(m)
	}
	return strings.Join(names, ", ")
}
