package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"fixfirst/internal/store"
	"fixfirst/internal/types"
)

var (
	authPassword string
	authName     string
	authRole     string
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage the local demo session",
	Long: `Local mock authentication. Accounts and the signed-in session live in
the same database as the reports; there is no real credential system.`,
}

var authSignupCmd = &cobra.Command{
	Use:   "signup [email]",
	Short: "Create an account and sign in",
	Args:  cobra.ExactArgs(1),
	RunE:  runAuthSignup,
}

var authLoginCmd = &cobra.Command{
	Use:   "login [email]",
	Short: "Sign in with an existing account",
	Args:  cobra.ExactArgs(1),
	RunE:  runAuthLogin,
}

var authLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Clear the current session",
	RunE:  runAuthLogout,
}

var authWhoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in user",
	RunE:  runAuthWhoami,
}

func init() {
	authSignupCmd.Flags().StringVar(&authPassword, "password", "", "Account password (required)")
	authSignupCmd.Flags().StringVar(&authName, "name", "", "Display name (required)")
	authSignupCmd.Flags().StringVar(&authRole, "role", string(types.RoleCitizen), "Account role (citizen or employee)")
	authSignupCmd.MarkFlagRequired("password")
	authSignupCmd.MarkFlagRequired("name")

	authLoginCmd.Flags().StringVar(&authPassword, "password", "", "Account password (required)")
	authLoginCmd.MarkFlagRequired("password")

	authCmd.AddCommand(authSignupCmd)
	authCmd.AddCommand(authLoginCmd)
	authCmd.AddCommand(authLogoutCmd)
	authCmd.AddCommand(authWhoamiCmd)

	rootCmd.AddCommand(authCmd)
}

func openAccounts() (*store.BlobStore, *store.Accounts, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	blob, _, err := openStore(cfg)
	if err != nil {
		return nil, nil, err
	}
	accounts, err := store.OpenAccounts(blob)
	if err != nil {
		blob.Close()
		return nil, nil, fmt.Errorf("failed to open accounts: %w", err)
	}
	return blob, accounts, nil
}

func runAuthSignup(cmd *cobra.Command, args []string) error {
	blob, accounts, err := openAccounts()
	if err != nil {
		return err
	}
	defer blob.Close()

	role := types.Role(authRole)
	if role != types.RoleCitizen && role != types.RoleEmployee {
		return fmt.Errorf("role must be citizen or employee, got %q", authRole)
	}

	user, err := accounts.SignUp(args[0], authPassword, authName, role)
	if err != nil {
		return err
	}
	fmt.Printf("Signed up and signed in as %s (%s)\n", user.Name, user.Role)
	return nil
}

func runAuthLogin(cmd *cobra.Command, args []string) error {
	blob, accounts, err := openAccounts()
	if err != nil {
		return err
	}
	defer blob.Close()

	user, err := accounts.SignIn(args[0], authPassword)
	if err != nil {
		return err
	}
	fmt.Printf("Signed in as %s (%s)\n", user.Name, user.Role)
	return nil
}

func runAuthLogout(cmd *cobra.Command, args []string) error {
	blob, accounts, err := openAccounts()
	if err != nil {
		return err
	}
	defer blob.Close()

	accounts.SignOut()
	fmt.Println("Signed out.")
	return nil
}

func runAuthWhoami(cmd *cobra.Command, args []string) error {
	blob, accounts, err := openAccounts()
	if err != nil {
		return err
	}
	defer blob.Close()

	user, ok := accounts.Current()
	if !ok {
		fmt.Println("Not signed in.")
		return nil
	}
	fmt.Printf("%s <%s> (%s)\n", user.Name, user.Email, user.Role)
	return nil
}
