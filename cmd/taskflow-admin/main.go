package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/uptrace/bun"

	"github.com/redmonkez12/taskflow/cmd/taskflow-admin/ui"
	"github.com/redmonkez12/taskflow/internal/auth"
	"github.com/redmonkez12/taskflow/internal/config"
	"github.com/redmonkez12/taskflow/internal/database"
	"github.com/redmonkez12/taskflow/internal/team"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "taskflow-admin",
		Short:         "Administer a TaskFlow store",
		Long:          "Maintenance commands for the TaskFlow backend. Configuration is read from the same environment variables and .env file as the server.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create the tables and seed the team directory",
		Args:  cobra.NoArgs,
		RunE:  runMigrate,
	}

	// team command group
	teamCmd := &cobra.Command{
		Use:   "team",
		Short: "Manage the team directory",
	}

	teamAddCmd := &cobra.Command{
		Use:   "add",
		Short: "Add a team member (prompts for missing fields)",
		Args:  cobra.NoArgs,
		RunE:  runTeamAdd,
	}
	teamAddCmd.Flags().String("name", "", "Full name")
	teamAddCmd.Flags().String("email", "", "Email address")

	teamListCmd := &cobra.Command{
		Use:   "list",
		Short: "List team members",
		Args:  cobra.NoArgs,
		RunE:  runTeamList,
	}

	teamCmd.AddCommand(teamAddCmd, teamListCmd)

	// token command group
	tokenCmd := &cobra.Command{
		Use:   "token",
		Short: "Issue or check auth tokens with the configured format",
	}

	tokenIssueCmd := &cobra.Command{
		Use:   "issue",
		Short: "Issue a token for a user id",
		Args:  cobra.NoArgs,
		RunE:  runTokenIssue,
	}
	tokenIssueCmd.Flags().Int64("user-id", 0, "User id to embed in the token")
	_ = tokenIssueCmd.MarkFlagRequired("user-id")

	tokenVerifyCmd := &cobra.Command{
		Use:   "verify TOKEN",
		Short: "Verify a token and print its user id",
		Args:  cobra.ExactArgs(1),
		RunE:  runTokenVerify,
	}

	tokenCmd.AddCommand(tokenIssueCmd, tokenVerifyCmd)
	rootCmd.AddCommand(migrateCmd, teamCmd, tokenCmd)

	return rootCmd
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg, db, err := openStore()
	if err != nil {
		return fail(cmd, err)
	}
	defer db.Close()

	if err := database.Init(cmd.Context(), db); err != nil {
		return fail(cmd, err)
	}

	out := cmd.OutOrStdout()
	ui.PrintSuccess(out, "Schema is up to date")
	ui.PrintField(out, "Driver", cfg.Database.Driver)
	ui.PrintField(out, "Team", fmt.Sprintf("%d default members ensured", len(database.DefaultTeam)))
	return nil
}

func runTeamAdd(cmd *cobra.Command, args []string) error {
	fullName, _ := cmd.Flags().GetString("name")
	email, _ := cmd.Flags().GetString("email")

	// Interactive mode when a field is missing
	if fullName == "" || email == "" {
		if err := ui.RunMemberForm(&fullName, &email); err != nil {
			return fail(cmd, fmt.Errorf("form cancelled: %w", err))
		}
	}

	if err := errors.Join(ui.ValidateName(fullName), ui.ValidateEmail(email)); err != nil {
		return fail(cmd, err)
	}

	_, db, err := openStore()
	if err != nil {
		return fail(cmd, err)
	}
	defer db.Close()

	member, err := team.NewRepository(db).Create(cmd.Context(), fullName, email)
	if err != nil {
		return fail(cmd, err)
	}

	out := cmd.OutOrStdout()
	ui.PrintSuccess(out, "Team member added")
	ui.PrintField(out, "ID", member.ID)
	ui.PrintField(out, "Name", member.FullName)
	ui.PrintField(out, "Email", member.Email)
	return nil
}

func runTeamList(cmd *cobra.Command, args []string) error {
	_, db, err := openStore()
	if err != nil {
		return fail(cmd, err)
	}
	defer db.Close()

	members, err := team.NewRepository(db).List(cmd.Context())
	if err != nil {
		return fail(cmd, err)
	}

	out := cmd.OutOrStdout()
	ui.PrintTitle(out, "Team")
	for _, m := range members {
		ui.PrintField(out, strconv.FormatInt(m.ID, 10), fmt.Sprintf("%s <%s>", m.FullName, m.Email))
	}
	return nil
}

func runTokenIssue(cmd *cobra.Command, args []string) error {
	userID, _ := cmd.Flags().GetInt64("user-id")
	if userID <= 0 {
		return fail(cmd, fmt.Errorf("user id must be positive, got %d", userID))
	}

	tokens, err := loadTokenService()
	if err != nil {
		return fail(cmd, err)
	}

	token, err := tokens.CreateToken(userID)
	if err != nil {
		return fail(cmd, err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), token)
	return nil
}

func runTokenVerify(cmd *cobra.Command, args []string) error {
	tokens, err := loadTokenService()
	if err != nil {
		return fail(cmd, err)
	}

	userID, err := tokens.VerifyToken(args[0])
	if err != nil {
		return fail(cmd, err)
	}

	out := cmd.OutOrStdout()
	ui.PrintSuccess(out, "Token is valid")
	ui.PrintField(out, "User ID", userID)
	return nil
}

func openStore() (*config.Config, *bun.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	db, err := database.Open(cfg.Database)
	if err != nil {
		return nil, nil, err
	}

	return cfg, db, nil
}

func loadTokenService() (auth.TokenService, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return auth.NewTokenService(cfg.Auth)
}

// fail prints err in the error style and returns it so cobra exits non-zero.
func fail(cmd *cobra.Command, err error) error {
	ui.PrintError(cmd.ErrOrStderr(), err.Error())
	return err
}
