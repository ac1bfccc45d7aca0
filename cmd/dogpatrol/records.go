package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/dogpatrol/internal/core"
	"github.com/vovakirdan/dogpatrol/internal/storage"
)

var (
	flagOffset int
	flagLimit  int
)

var recordsCmd = &cobra.Command{
	Use:   "records",
	Short: "Show the retired players leaderboard",
	Long: `Display retired players, best score first. Ties go to the shorter
play time, then to the name.

Examples:
  dogpatrol records
  dogpatrol records --limit 50
  dogpatrol records --offset 100 --limit 100`,
	Run: runRecords,
}

func init() {
	recordsCmd.Flags().IntVar(&flagOffset, "offset", 0, "Number of records to skip")
	recordsCmd.Flags().IntVar(&flagLimit, "limit", storage.MaxRecords, "Number of records to show (at most 100)")
}

func runRecords(_ *cobra.Command, _ []string) {
	store := openStore(serverConfig())
	defer store.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	limit := core.Clamp(flagLimit, 0, storage.MaxRecords)
	offset := max(0, flagOffset)
	records, err := store.Records(ctx, offset, limit)
	if err != nil {
		store.Close()
		fmt.Fprintf(os.Stderr, "Error retrieving records: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Leaderboard")
	fmt.Println()

	if len(records) == 0 {
		fmt.Println("No records yet.")
		fmt.Println()
		fmt.Println("Run 'dogpatrol serve' or 'dogpatrol simulate' and let some dogs retire!")
		return
	}

	fmt.Println(renderRecords(records, offset))

	stats, err := store.Stats(ctx)
	if err == nil {
		fmt.Println()
		fmt.Printf("Players: %d  Best: %d  Average: %.1f  Total play time: %s\n",
			stats.Players, stats.HighScore, stats.AvgScore, formatPlayTime(stats.TotalPlayTime))
	}
}

// renderRecords formats a leaderboard page; offset shifts the ranks.
func renderRecords(records []storage.Record, offset int) string {
	rows := make([][]string, 0, len(records))
	for i, r := range records {
		rows = append(rows, []string{
			strconv.Itoa(offset + i + 1),
			r.Name,
			strconv.Itoa(r.Score),
			formatPlayTime(r.PlayTime),
			r.RetiredAt.Local().Format("2006-01-02 15:04"),
		})
	}
	return renderTable([]string{"Rank", "Name", "Score", "Play time", "Retired"}, rows)
}

// renderTable draws rows with the scoreboard look. On a terminal the table
// never grows wider than the screen.
func renderTable(headers []string, rows [][]string) string {
	headerStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229")).
		Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("240"))).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})

	if term.IsTerminal(int(os.Stdout.Fd())) {
		if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
			if lipgloss.Width(t.String()) > w {
				t = t.Width(w)
			}
		}
	}
	return t.String()
}

func formatPlayTime(d time.Duration) string {
	return d.Round(time.Second).String()
}
