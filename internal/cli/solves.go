package cli

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/SeamusWaldron/nxncube/internal/analysis"
	"github.com/SeamusWaldron/nxncube/internal/storage"
)

var (
	listLimit  int
	showLast   bool
	statsLimit int
	statsTop   int
)

var solvesCmd = &cobra.Command{
	Use:   "solves",
	Short: "List recorded solves",
	Long:  `Display recent solve recordings with time, move count and TPS.`,
	RunE:  runSolvesList,
}

var solvesShowCmd = &cobra.Command{
	Use:   "show [solve-id]",
	Short: "Show details of a solve",
	Long: `Display a recorded solve: metadata, scramble and the full move log.

Use --last to show the most recent solve.`,
	RunE: runSolvesShow,
}

var solvesDeleteCmd = &cobra.Command{
	Use:   "delete <solve-id>",
	Short: "Delete a solve and its move log",
	Args:  cobra.ExactArgs(1),
	RunE:  runSolvesDelete,
}

var solvesStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show trends and repeated sequences across solves",
	Long: `Summarize recent solves: averages, best and worst times, improvement,
consistency and the move sequences repeated most often across solves.`,
	RunE: runSolvesStats,
}

func init() {
	rootCmd.AddCommand(solvesCmd)
	solvesCmd.Flags().IntVar(&listLimit, "limit", 20, "Maximum number of solves to display")

	solvesCmd.AddCommand(solvesShowCmd)
	solvesShowCmd.Flags().BoolVar(&showLast, "last", false, "Show the most recent solve")

	solvesCmd.AddCommand(solvesDeleteCmd)

	solvesCmd.AddCommand(solvesStatsCmd)
	solvesStatsCmd.Flags().IntVar(&statsLimit, "limit", 100, "Number of recent solves to analyze")
	solvesStatsCmd.Flags().IntVar(&statsTop, "top", 3, "Repeated sequences to show per length")
}

func runSolvesList(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	db, err := openDB(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	return listSolves(cmd.OutOrStdout(), db, listLimit)
}

func listSolves(out io.Writer, db *storage.DB, limit int) error {
	solveRepo := storage.NewSolveRepository(db)
	moveRepo := storage.NewMoveRepository(db)

	solves, err := solveRepo.List(limit)
	if err != nil {
		return fmt.Errorf("failed to list solves: %w", err)
	}

	if len(solves) == 0 {
		fmt.Fprintln(out, "No solves recorded yet")
		fmt.Fprintln(out, "Record one with: nxncube play --record")
		return nil
	}

	fmt.Fprintf(out, "Recent solves (showing %d):\n", len(solves))
	fmt.Fprintln(out)
	fmt.Fprintf(out, "%-36s  %-4s  %-20s  %-10s  %-6s  %s\n", "ID", "Size", "Started", "Duration", "Moves", "TPS")
	fmt.Fprintln(out, "------------------------------------  ----  --------------------  ----------  ------  ------")

	for _, s := range solves {
		duration := "-"
		moves := "-"
		tps := "-"

		if s.DurationMs != nil {
			duration = formatDuration(time.Duration(*s.DurationMs) * time.Millisecond)
		}

		moveCount, _ := moveRepo.Count(s.SolveID)
		if moveCount > 0 {
			moves = fmt.Sprintf("%d", moveCount)
			if s.DurationMs != nil && *s.DurationMs > 0 {
				tps = fmt.Sprintf("%.2f", float64(moveCount)/(float64(*s.DurationMs)/1000.0))
			}
		}

		status := ""
		if !s.Completed() {
			status = " (unfinished)"
		}

		fmt.Fprintf(out, "%-36s  %-4d  %-20s  %-10s  %-6s  %s%s\n",
			s.SolveID,
			s.Size,
			s.StartedAt.Local().Format("2006-01-02 15:04:05"),
			duration,
			moves,
			tps,
			status,
		)
	}

	return nil
}

func runSolvesShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	db, err := openDB(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	solve, err := findSolve(db, args, showLast)
	if err != nil {
		return err
	}
	return showSolve(cmd.OutOrStdout(), db, solve)
}

// findSolve resolves a solve from an id argument or --last.
func findSolve(db *storage.DB, args []string, last bool) (*storage.Solve, error) {
	solveRepo := storage.NewSolveRepository(db)

	var (
		solve *storage.Solve
		err   error
	)
	switch {
	case last:
		solve, err = solveRepo.GetLast()
	case len(args) == 1:
		solve, err = solveRepo.Get(args[0])
	default:
		return nil, errors.New("specify a solve ID or use --last")
	}
	if err != nil {
		return nil, err
	}
	if solve == nil {
		return nil, errors.New("solve not found")
	}
	return solve, nil
}

func showSolve(out io.Writer, db *storage.DB, solve *storage.Solve) error {
	records, err := storage.NewMoveRepository(db).GetBySolve(solve.SolveID)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "ID:       %s\n", solve.SolveID)
	fmt.Fprintf(out, "Size:     %d\n", solve.Size)
	fmt.Fprintf(out, "Started:  %s\n", solve.StartedAt.Local().Format("2006-01-02 15:04:05"))
	if solve.ScrambleText != nil {
		fmt.Fprintf(out, "Scramble: %s\n", *solve.ScrambleText)
	}
	if solve.DurationMs != nil {
		fmt.Fprintf(out, "Time:     %s\n", formatDuration(time.Duration(*solve.DurationMs)*time.Millisecond))
	} else {
		fmt.Fprintln(out, "Time:     unfinished")
	}
	if solve.Notes != nil {
		fmt.Fprintf(out, "Notes:    %s\n", *solve.Notes)
	}
	fmt.Fprintf(out, "Moves:    %d\n", len(records))

	moves, err := analysis.FromRecords(records)
	if err != nil {
		return err
	}
	summary := analysis.Summarize(solve, moves, analysis.DefaultPauseThresholdMs)
	fmt.Fprintf(out, "Turns:    %d (+%d rotations)\n", summary.Turns, summary.Rotations)
	if summary.TPS > 0 {
		fmt.Fprintf(out, "TPS:      %.2f\n", summary.TPS)
	}
	if summary.WastedMoves > 0 {
		fmt.Fprintf(out, "Wasted:   %d moves (cancellations and mergeable turns)\n", summary.WastedMoves)
	}
	if summary.LongestPauseMs > 0 {
		fmt.Fprintf(out, "Longest pause: %s (%d over %s)\n",
			formatDuration(time.Duration(summary.LongestPauseMs)*time.Millisecond),
			summary.PauseCount,
			formatDuration(analysis.DefaultPauseThresholdMs*time.Millisecond))
	}

	if len(records) > 0 {
		fmt.Fprintln(out)
		for _, r := range records {
			fmt.Fprintf(out, "  %8s  %s\n", formatDuration(time.Duration(r.TsMs)*time.Millisecond), r.Token)
		}
	}
	return nil
}

func runSolvesDelete(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	db, err := openDB(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := storage.NewSolveRepository(db).Delete(args[0]); err != nil {
		return fmt.Errorf("failed to delete solve: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted solve %s\n", args[0])
	return nil
}

func runSolvesStats(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	db, err := openDB(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	return printStats(cmd.OutOrStdout(), db, statsLimit, statsTop)
}

// Sequence lengths mined by printStats.
const (
	minSequence = 4
	maxSequence = 8
)

func printStats(out io.Writer, db *storage.DB, limit, top int) error {
	solves, err := storage.NewSolveRepository(db).List(limit)
	if err != nil {
		return fmt.Errorf("failed to list solves: %w", err)
	}
	if len(solves) == 0 {
		fmt.Fprintln(out, "No solves recorded yet")
		return nil
	}

	moveRepo := storage.NewMoveRepository(db)
	data := make([]analysis.SolveData, 0, len(solves))
	reports := make(map[string]*analysis.NGramReport, len(solves))
	for i := range solves {
		s := &solves[i]
		records, err := moveRepo.GetBySolve(s.SolveID)
		if err != nil {
			return err
		}
		moves, err := analysis.FromRecords(records)
		if err != nil {
			return err
		}
		summary := analysis.Summarize(s, moves, analysis.DefaultPauseThresholdMs)
		data = append(data, analysis.SolveData{
			SolveID:    s.SolveID,
			Size:       s.Size,
			StartedAt:  s.StartedAt,
			DurationMs: summary.DurationMs,
			Turns:      summary.Turns,
			TPS:        summary.TPS,
		})
		reports[s.SolveID] = analysis.MineNGrams(moves, minSequence, maxSequence, top)
	}

	trends := analysis.AnalyzeTrends(data)
	ms := func(v float64) string {
		return formatDuration(time.Duration(v) * time.Millisecond)
	}

	fmt.Fprintf(out, "Solves:      %d (%d completed)\n", trends.TotalSolves, trends.CompletedSolves)
	if trends.CompletedSolves > 0 {
		fmt.Fprintf(out, "Average:     %s, %.1f turns, %.2f TPS\n", ms(trends.AvgDurationMs), trends.AvgTurns, trends.AvgTPS)
		fmt.Fprintf(out, "Best:        %s (%s)\n", ms(float64(trends.BestSolve.DurationMs)), trends.BestSolve.SolveID)
		fmt.Fprintf(out, "Worst:       %s (%s)\n", ms(float64(trends.WorstSolve.DurationMs)), trends.WorstSolve.SolveID)
		fmt.Fprintf(out, "Improvement: %+.1f%%\n", trends.ImprovementPct)
		fmt.Fprintf(out, "Consistency: %.0f/100\n", trends.ConsistencyScore)
		for _, w := range []int{5, 12, 50, 100} {
			if avg, ok := trends.RollingAvgs[w]; ok {
				fmt.Fprintf(out, "Mean of %-3d  %s\n", w, ms(avg))
			}
		}
	}

	ngrams := analysis.MineNGramsAcrossSolves(reports, top)
	header := false
	for n := maxSequence; n >= minSequence; n-- {
		for _, ng := range ngrams.TopNGrams[n] {
			if !header {
				fmt.Fprintln(out)
				fmt.Fprintln(out, "Repeated sequences:")
				header = true
			}
			fmt.Fprintf(out, "  %3dx  %s\n", ng.Count, ng.Key())
		}
	}
	return nil
}
