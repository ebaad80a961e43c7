package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/trailforge/trailforge/internal/daemon"
)

func init() {
	rootCmd.AddCommand(statusCmd)
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show level, XP and progress to the next level",
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	d, err := daemon.New()
	if err != nil {
		return err
	}
	defer d.Close()

	progress := d.Engine.Recalculate()
	state := d.Engine.State()
	snap := d.Recorder.Combined()

	fmt.Printf("Level %d", progress.Level)
	if progress.Level >= d.Engine.Thresholds().MaxLevel() {
		fmt.Println("  (max level)")
	} else {
		fmt.Printf("  —  %d / %d XP to next level\n", progress.Current, progress.Next)
	}
	fmt.Printf("Total XP: %d\n", state.TotalXP)
	fmt.Printf("Progress: %s %.0f%%\n", progressBar(progress.Progress, 24), progress.Progress*100)
	fmt.Println()
	fmt.Printf("Activities: %d   Trips: %d (%d km)   Streak: %d days\n",
		snap.CompletedActivities, snap.Trips, snap.TripDistanceKm, snap.StreakDays)

	return nil
}

// progressBar renders a simple text bar like [██████──────].
func progressBar(p float64, width int) string {
	if p < 0 {
		p = 0
	}
	if p > 1 {
		p = 1
	}
	filled := int(p * float64(width))
	return "[" + strings.Repeat("█", filled) + strings.Repeat("─", width-filled) + "]"
}
