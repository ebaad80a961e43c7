package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/trailforge/trailforge/internal/daemon"
)

var achievementsAll bool

func init() {
	achievementsCmd.Flags().BoolVarP(&achievementsAll, "all", "a", false, "include locked achievements")
	rootCmd.AddCommand(achievementsCmd)
}

var achievementsCmd = &cobra.Command{
	Use:   "achievements",
	Short: "List achievements",
	RunE:  runAchievements,
}

func runAchievements(cmd *cobra.Command, args []string) error {
	d, err := daemon.New()
	if err != nil {
		return err
	}
	defer d.Close()

	unlocked, err := d.DB.UnlockedAchievementIDs()
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 2, 2, ' ', 0)
	fmt.Fprintln(w, "  \tACHIEVEMENT\tREWARD\tDESCRIPTION")
	shown := 0
	for _, def := range d.Engine.Catalog() {
		if !unlocked[def.ID] && !achievementsAll {
			continue
		}
		mark := " "
		if unlocked[def.ID] {
			mark = "✓"
		}
		reward := "-"
		if def.XPReward > 0 {
			reward = fmt.Sprintf("+%d XP", def.XPReward)
		}
		fmt.Fprintf(w, "%s %s\t%s\t%s\t%s\n", mark, def.Icon, def.Title, reward, def.Description)
		shown++
	}
	w.Flush()

	if shown == 0 {
		fmt.Println("No achievements unlocked yet. Try `trailforge achievements --all`.")
	} else {
		fmt.Printf("\n%d / %d unlocked\n", len(unlocked), len(d.Engine.Catalog()))
	}
	return nil
}
