package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alex/parley/internal/session"
)

var recordTurn bool

// sayCmd answers a single line without starting a conversation.
var sayCmd = &cobra.Command{
	Use:   "say <text...>",
	Short: "Get a single reply",
	Long: `Reply to one line of text and exit. The turn is only written to the
profile's history when --record is set.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), cfg, logger, cmd.OutOrStdout())
		if err != nil {
			return err
		}
		defer a.close()

		input := strings.Join(args, " ")
		reply := a.turn(input)
		fmt.Fprintln(cmd.OutOrStdout(), reply.Text)

		if recordTurn {
			a.engine.RecordHistory(input, reply.Text)
			if err := a.store.Save(cmd.Context(), cfg.Store.Profile, session.Capture(a.engine, a.userName)); err != nil {
				return fmt.Errorf("saving turn: %w", err)
			}
		}
		return nil
	},
}

// historyCmd prints the saved turns of a profile.
var historyCmd = &cobra.Command{
	Use:   "history [n]",
	Short: "Show saved conversation turns",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		n := 0
		if len(args) == 1 {
			v, err := strconv.Atoi(args[0])
			if err != nil || v < 0 {
				return fmt.Errorf("invalid count %q", args[0])
			}
			n = v
		}

		store, err := session.OpenStore(cfg.Store.Backend, cfg.StorePath(), session.WithLogger(logger))
		if err != nil {
			return fmt.Errorf("opening store: %w", err)
		}
		defer store.Close()

		snap, err := store.Load(cmd.Context(), cfg.Store.Profile)
		if errors.Is(err, session.ErrNotFound) {
			fmt.Fprintf(cmd.OutOrStdout(), "No saved conversation for profile %q.\n", cfg.Store.Profile)
			return nil
		}
		if err != nil {
			return err
		}

		a := &app{out: cmd.OutOrStdout(), plain: noColor}
		a.printHistory(snap.HistoryLog().Recent(n))
		return nil
	},
}

func init() {
	sayCmd.Flags().BoolVar(&recordTurn, "record", false, "save the turn to the profile's history")
}
