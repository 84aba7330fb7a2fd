package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"fixfirst/internal/store"
	"fixfirst/internal/types"
	"fixfirst/internal/views"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show aggregate report statistics and crew workload",
	RunE:  runStats,
}

func runStats(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	blob, st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer blob.Close()

	snapshot := st.All()
	s := views.Summarize(snapshot)

	fmt.Printf("Reports:      %d total, %d open, %d resolved\n", s.Total, s.Open, s.Resolved)
	fmt.Printf("Last 7 days:  %d\n", s.Recent)
	fmt.Printf("Avg danger:   %.1f/10\n", s.AvgDanger)
	fmt.Printf("Upvotes:      %d\n", s.TotalVotes)
	fmt.Printf("With water:   %d\n", s.WithWater)
	fmt.Printf("Unassigned:   %d\n", s.Unassigned)

	fmt.Println("\nBy status:")
	for _, status := range types.StatusOrder {
		fmt.Printf("  %-13s %d\n", status, s.ByStatus[status])
	}

	fmt.Println("\nBy danger level:")
	for _, level := range types.DangerLevels {
		fmt.Printf("  %-9s %d\n", level, s.ByDanger[level])
	}

	fmt.Println("\nCrew workload:")
	for _, ws := range views.SummarizeWorkers(store.DemoWorkers(), snapshot) {
		fmt.Printf("  %-14s %-9s assigned=%d completed=%d\n",
			ws.Worker.Name, ws.Worker.Status, ws.Assigned, ws.Completed)
	}
	return nil
}
