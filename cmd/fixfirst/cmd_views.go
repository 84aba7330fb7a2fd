package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"fixfirst/internal/types"
)

var (
	saveStatus string
	saveDanger string
	saveWorker string
	saveSearch string
	saveSortBy string
	saveDesc   bool
)

var viewsCmd = &cobra.Command{
	Use:   "views",
	Short: "Manage saved filter/sort views",
}

var viewsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved views",
	RunE:  runViewsList,
}

var viewsSaveCmd = &cobra.Command{
	Use:   "save [name]",
	Short: "Save the given filter/sort combination under a name",
	Args:  cobra.ExactArgs(1),
	RunE:  runViewsSave,
}

var viewsDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a saved view",
	Args:  cobra.ExactArgs(1),
	RunE:  runViewsDelete,
}

func init() {
	viewsSaveCmd.Flags().StringVar(&saveStatus, "status", types.FilterAll, "Status filter")
	viewsSaveCmd.Flags().StringVar(&saveDanger, "danger", types.FilterAll, "Danger filter")
	viewsSaveCmd.Flags().StringVar(&saveWorker, "worker", types.FilterAll, "Worker filter")
	viewsSaveCmd.Flags().StringVar(&saveSearch, "search", "", "Search text")
	viewsSaveCmd.Flags().StringVar(&saveSortBy, "sort", "", "Sort key")
	viewsSaveCmd.Flags().BoolVar(&saveDesc, "desc", false, "Sort descending")

	viewsCmd.AddCommand(viewsListCmd)
	viewsCmd.AddCommand(viewsSaveCmd)
	viewsCmd.AddCommand(viewsDeleteCmd)
}

func runViewsList(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	blob, st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer blob.Close()

	saved := st.SavedViews()
	if len(saved) == 0 {
		fmt.Println("No saved views.")
		return nil
	}
	for _, v := range saved {
		sortDesc := "-"
		if v.Sort != nil {
			sortDesc = fmt.Sprintf("%s %s", v.Sort.Key, v.Sort.Dir)
		}
		fmt.Printf("%-42s  %-20s  status=%s danger=%s worker=%s search=%q sort=%s\n",
			v.ID, v.Name, v.Filters.Status, v.Filters.Danger, v.Filters.Worker, v.Filters.Search, sortDesc)
	}
	return nil
}

func runViewsSave(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	blob, st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer blob.Close()

	var spec *types.SortSpec
	if saveSortBy != "" {
		dir := types.SortAsc
		if saveDesc {
			dir = types.SortDesc
		}
		spec = &types.SortSpec{Key: types.SortKey(saveSortBy), Dir: dir}
	}

	v := st.SaveView(args[0], types.ViewFilters{
		Status: saveStatus,
		Danger: saveDanger,
		Worker: saveWorker,
		Search: saveSearch,
	}, spec)
	fmt.Printf("Saved view %q (%s)\n", v.Name, v.ID)
	return nil
}

func runViewsDelete(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	blob, st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer blob.Close()

	if !st.DeleteView(args[0]) {
		return fmt.Errorf("saved view %q not found", args[0])
	}
	fmt.Println("Deleted.")
	return nil
}
