package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/SeamusWaldron/nxncube"
)

var (
	applySize  int
	applyState string
)

var applyCmd = &cobra.Command{
	Use:   "apply [moves...]",
	Short: "Apply a move sequence and print the result",
	Long: `Apply a move sequence to a puzzle and print the resulting net.

Examples:
  nxncube apply "R U R' U'"
  nxncube apply --size 4 "Rw U2 2R'"
  nxncube apply --state WWWW... F`,
	RunE: runApply,
}

func init() {
	rootCmd.AddCommand(applyCmd)
	applyCmd.Flags().IntVarP(&applySize, "size", "n", 0, "Puzzle size (default from config)")
	applyCmd.Flags().StringVar(&applyState, "state", "", "Starting sticker state (default: solved)")
}

func runApply(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := newLogger(cfg, "apply", false)
	defer log.Close()

	e, err := nxncube.NewEngine(sizeOrDefault(cfg, applySize),
		nxncube.WithAnimationDuration(0),
		nxncube.WithLogger(log.Slog()))
	if err != nil {
		return err
	}

	if applyState != "" {
		if err := e.Load(applyState); err != nil {
			return fmt.Errorf("failed to load state: %w", err)
		}
	}

	moves, err := nxncube.ParseMoves(strings.Join(args, " "))
	if err != nil {
		return err
	}
	for i, m := range moves {
		if err := e.SubmitMove(m); err != nil {
			return fmt.Errorf("move %d (%s): %w", i+1, m.Notation(), err)
		}
	}

	out := cmd.OutOrStdout()
	fmt.Fprint(out, renderNet(e.State(), e.Size()))
	fmt.Fprintln(out)
	fmt.Fprintf(out, "Moves:  %s\n", nxncube.FormatMoves(moves))
	fmt.Fprintf(out, "State:  %s\n", e.State())
	fmt.Fprintf(out, "Solved: %t\n", e.IsSolved())
	return nil
}
