package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/trailforge/trailforge/internal/daemon"
)

var stepsHistory bool

func init() {
	stepsCmd.Flags().BoolVar(&stepsHistory, "history", false, "show the recent step sample history")
	rootCmd.AddCommand(stepsCmd)
}

var stepsCmd = &cobra.Command{
	Use:   "steps",
	Short: "Show pedometer progress",
	RunE:  runSteps,
}

func runSteps(cmd *cobra.Command, args []string) error {
	d, err := daemon.New()
	if err != nil {
		return err
	}
	defer d.Close()

	st := d.Pedometer.State()
	fmt.Printf("Today (%s): %d steps, %d XP earned\n", st.Date, st.TodaySteps, st.XPEarnedToday)
	fmt.Printf("All time:   %d steps, %d XP\n", st.TotalStepsAllTime, st.TotalXPFromSteps)

	if !stepsHistory {
		return nil
	}

	samples, err := d.Pedometer.History()
	if err != nil {
		return err
	}
	if len(samples) == 0 {
		fmt.Println("\nNo step samples recorded.")
		return nil
	}

	fmt.Println()
	w := tabwriter.NewWriter(os.Stdout, 0, 2, 2, ' ', 0)
	fmt.Fprintln(w, "TIME\tSTEPS\tREASON")
	for _, s := range samples {
		fmt.Fprintf(w, "%s\t%d\t%s\n", s.Timestamp.Local().Format("2006-01-02 15:04:05"), s.Steps, s.Reason)
	}
	return w.Flush()
}
