package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"fixfirst/internal/store"
	"fixfirst/internal/types"
	"fixfirst/internal/views"
)

var (
	// report list flags
	listStatus string
	listDanger string
	listWorker string
	listSearch string
	listSortBy string
	listDesc   bool

	// report create flags
	createAddress  string
	createLat      float64
	createLng      float64
	createDesc     string
	createSeverity string
	createWater    bool
	createRoad     string
	createReporter string

	// report update flags
	updateStatus   string
	updateWorker   string
	updatePriority string
	updateUnassign bool

	// report note flags
	noteAuthor string

	// report bulk flags
	bulkField string
	bulkValue string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Manage pothole reports",
}

var reportListCmd = &cobra.Command{
	Use:   "list",
	Short: "List reports with optional filters and sorting",
	RunE:  runReportList,
}

var reportShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show one report with its notes and activity log",
	Args:  cobra.ExactArgs(1),
	RunE:  runReportShow,
}

var reportCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Submit a new pothole report",
	Example: `  fixfirst report create --address "12 Bridge St" --severity High --water \
      --description "Deep hole in the right lane"`,
	RunE: runReportCreate,
}

var reportUpdateCmd = &cobra.Command{
	Use:   "update [id]",
	Short: "Update status, assignment or priority of a report",
	Args:  cobra.ExactArgs(1),
	RunE:  runReportUpdate,
}

var reportNoteCmd = &cobra.Command{
	Use:   "note [id] [text]",
	Short: "Add an internal note to a report",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runReportNote,
}

var reportBulkCmd = &cobra.Command{
	Use:   "bulk [id]...",
	Short: "Apply one status or worker change to many reports",
	Example: `  fixfirst report bulk rpt-1 rpt-2 --field status --value Acknowledged
  fixfirst report bulk rpt-1 rpt-2 --field worker --value "John Doe"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runReportBulk,
}

var reportUpvoteCmd = &cobra.Command{
	Use:   "upvote [id]",
	Short: "Upvote a report",
	Args:  cobra.ExactArgs(1),
	RunE:  runReportUpvote,
}

func init() {
	reportListCmd.Flags().StringVar(&listStatus, "status", types.FilterAll, "Filter by status")
	reportListCmd.Flags().StringVar(&listDanger, "danger", types.FilterAll, "Filter by danger level")
	reportListCmd.Flags().StringVar(&listWorker, "worker", types.FilterAll, "Filter by assigned worker (or Unassigned)")
	reportListCmd.Flags().StringVar(&listSearch, "search", "", "Free-text search over address, description and id")
	reportListCmd.Flags().StringVar(&listSortBy, "sort", "", "Sort key (timestamp, upvotes, dangerScore, status, worker, location)")
	reportListCmd.Flags().BoolVar(&listDesc, "desc", false, "Sort descending")

	reportCreateCmd.Flags().StringVar(&createAddress, "address", "", "Street address (required)")
	reportCreateCmd.Flags().Float64Var(&createLat, "lat", 0, "Latitude")
	reportCreateCmd.Flags().Float64Var(&createLng, "lng", 0, "Longitude")
	reportCreateCmd.Flags().StringVar(&createDesc, "description", "", "Description of the damage")
	reportCreateCmd.Flags().StringVar(&createSeverity, "severity", string(types.DangerMedium), "Danger level (Low, Medium, High, Critical)")
	reportCreateCmd.Flags().BoolVar(&createWater, "water", false, "Standing water visible in the pothole")
	reportCreateCmd.Flags().StringVar(&createRoad, "road", string(types.RoadResidential), "Road type (Highway, Arterial, Residential, Alley)")
	reportCreateCmd.Flags().StringVar(&createReporter, "reporter", "CLI", "Reporter display name")
	reportCreateCmd.MarkFlagRequired("address")

	reportUpdateCmd.Flags().StringVar(&updateStatus, "status", "", "New status")
	reportUpdateCmd.Flags().StringVar(&updateWorker, "worker", "", "Assign to worker by name")
	reportUpdateCmd.Flags().StringVar(&updatePriority, "priority", "", "New priority (Low, Medium, High, Critical)")
	reportUpdateCmd.Flags().BoolVar(&updateUnassign, "unassign", false, "Clear the assignment")

	reportNoteCmd.Flags().StringVar(&noteAuthor, "author", "CLI", "Note author display name")

	reportBulkCmd.Flags().StringVar(&bulkField, "field", "", "Field to change: status or worker (required)")
	reportBulkCmd.Flags().StringVar(&bulkValue, "value", "", "New value (required)")
	reportBulkCmd.MarkFlagRequired("field")
	reportBulkCmd.MarkFlagRequired("value")

	reportCmd.AddCommand(reportListCmd)
	reportCmd.AddCommand(reportShowCmd)
	reportCmd.AddCommand(reportCreateCmd)
	reportCmd.AddCommand(reportUpdateCmd)
	reportCmd.AddCommand(reportNoteCmd)
	reportCmd.AddCommand(reportBulkCmd)
	reportCmd.AddCommand(reportUpvoteCmd)
}

func runReportList(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	blob, st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer blob.Close()

	filtered := views.Apply(st.All(), types.ViewFilters{
		Status: listStatus,
		Danger: listDanger,
		Worker: listWorker,
		Search: listSearch,
	})

	var spec *types.SortSpec
	if listSortBy != "" {
		dir := types.SortAsc
		if listDesc {
			dir = types.SortDesc
		}
		spec = &types.SortSpec{Key: types.SortKey(listSortBy), Dir: dir}
	}
	filtered = views.Sort(filtered, spec)

	if len(filtered) == 0 {
		fmt.Println("No reports match.")
		return nil
	}
	for _, r := range filtered {
		worker := r.WorkerName()
		if worker == "" {
			worker = types.FilterUnassigned
		}
		fmt.Printf("%-40s  %-13s  %-8s  %4.1f  %3d  %-14s  %s\n",
			r.ID, r.Status, r.DangerLevel, r.DangerScore, r.Upvotes, worker, r.Location.Address)
	}
	fmt.Printf("\n%d report(s)\n", len(filtered))
	return nil
}

func runReportShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	blob, st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer blob.Close()

	r, ok := st.Get(args[0])
	if !ok {
		return fmt.Errorf("report %q not found", args[0])
	}

	fmt.Printf("Report %s\n", r.ID)
	fmt.Printf("  Address:     %s (%.4f, %.4f)\n", r.Location.Address, r.Location.Lat, r.Location.Lng)
	fmt.Printf("  Reported:    %s by %s\n", r.Timestamp.Format("2006-01-02 15:04"), r.User.Name)
	fmt.Printf("  Status:      %s\n", r.Status)
	fmt.Printf("  Danger:      %s (%.1f/10)\n", r.DangerLevel, r.DangerScore)
	fmt.Printf("  Priority:    %s\n", r.Priority)
	fmt.Printf("  Road:        %s\n", r.RoadType)
	fmt.Printf("  Water:       %t\n", r.ContainsWater)
	fmt.Printf("  Upvotes:     %d\n", r.Upvotes)
	worker := r.WorkerName()
	if worker == "" {
		worker = types.FilterUnassigned
	}
	fmt.Printf("  Worker:      %s\n", worker)
	if r.Description != "" {
		fmt.Printf("  Description: %s\n", r.Description)
	}

	if len(r.InternalNotes) > 0 {
		fmt.Println("\nInternal notes:")
		for _, n := range r.InternalNotes {
			fmt.Printf("  [%s] %s: %s\n", n.Timestamp.Format("01-02 15:04"), n.AuthorName, n.Text)
		}
	}
	if len(r.ActivityLog) > 0 {
		fmt.Println("\nActivity:")
		for _, a := range r.ActivityLog {
			fmt.Printf("  [%s] %s\n", a.Timestamp.Format("01-02 15:04"), a.Message)
		}
	}
	return nil
}

func runReportCreate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	blob, st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer blob.Close()

	severity := types.DangerLevel(createSeverity)
	if severity.Rank() < 0 {
		return fmt.Errorf("unknown severity %q", createSeverity)
	}

	r := st.Create(store.CreateInput{
		Location:      types.Location{Address: createAddress, Lat: createLat, Lng: createLng},
		Description:   createDesc,
		User:          types.UserRef{ID: "cli", Name: createReporter},
		Severity:      severity,
		ContainsWater: createWater,
		RoadType:      types.RoadType(createRoad),
	})

	logger.Info("Report created", zap.String("id", r.ID), zap.String("address", createAddress))
	fmt.Printf("Created %s (danger %.1f/10)\n", r.ID, r.DangerScore)
	return nil
}

func runReportUpdate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	blob, st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer blob.Close()

	var patch store.Patch
	if updateStatus != "" {
		status, ok := types.CanonicalStatus(updateStatus)
		if !ok {
			return fmt.Errorf("unknown status %q", updateStatus)
		}
		patch.Status = &status
	}
	if updateUnassign {
		patch.ClearAssignee = true
	} else if updateWorker != "" {
		patch.Assignee = &types.UserRef{Name: updateWorker}
	}
	if updatePriority != "" {
		p := types.Priority(updatePriority)
		patch.Priority = &p
	}

	r, err := st.Update(args[0], patch)
	if err != nil {
		return err
	}
	fmt.Printf("Updated %s: status=%s worker=%s priority=%s\n",
		r.ID, r.Status, orDash(r.WorkerName()), r.Priority)
	return nil
}

func runReportNote(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	blob, st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer blob.Close()

	text := strings.Join(args[1:], " ")
	if !st.AddNote(args[0], text, "cli", noteAuthor) {
		return fmt.Errorf("report %q not found", args[0])
	}
	fmt.Println("Note added.")
	return nil
}

func runReportBulk(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	blob, st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer blob.Close()

	var field store.BulkField
	switch bulkField {
	case "status":
		field = store.BulkStatus
	case "worker":
		field = store.BulkWorker
	default:
		return fmt.Errorf("field must be status or worker, got %q", bulkField)
	}

	changed := st.BulkUpdate(args, field, bulkValue)
	fmt.Printf("Bulk updated %d of %d report(s).\n", changed, len(args))
	return nil
}

func runReportUpvote(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	blob, st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer blob.Close()

	if !st.Upvote(args[0]) {
		return fmt.Errorf("report %q not found", args[0])
	}
	r, _ := st.Get(args[0])
	fmt.Printf("Upvoted. %s now has %d upvote(s).\n", r.ID, r.Upvotes)
	return nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
