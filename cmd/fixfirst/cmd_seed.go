package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"fixfirst/internal/store"
)

var seedForce bool

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Populate the store with demo reports and accounts",
	Long: `Seeds demo data for a first run: three reports in different lifecycle
stages plus a demo citizen and employee account. A non-empty store is left
untouched unless --force is given.`,
	RunE: runSeed,
}

func init() {
	seedCmd.Flags().BoolVar(&seedForce, "force", false, "Replace existing reports")
}

func runSeed(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	blob, st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer blob.Close()

	if !st.Seed(seedForce) {
		fmt.Println("Store already has reports; use --force to replace them.")
		return nil
	}

	accounts, err := store.OpenAccounts(blob)
	if err != nil {
		return fmt.Errorf("failed to open accounts: %w", err)
	}
	accounts.SeedAccounts()

	fmt.Printf("Seeded %d demo report(s) and demo accounts.\n", len(st.All()))
	return nil
}
