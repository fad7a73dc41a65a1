package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/2beens/fitcoach/internal/db"
	"github.com/2beens/fitcoach/internal/profile"
	"github.com/2beens/fitcoach/internal/progress"
	"github.com/2beens/fitcoach/pkg"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withPool(cmd.Context(), func(pool *pgxpool.Pool) error {
			if err := db.Migrate(cmd.Context(), pool); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "schema applied")
			return nil
		})
	},
}

var (
	progressUser      string
	progressTimeframe string
)

var progressCmd = &cobra.Command{
	Use:   "progress",
	Short: "Print the progress report of a user",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := validateUserID(progressUser); err != nil {
			return err
		}
		tf, err := progress.ParseTimeframe(progressTimeframe)
		if err != nil {
			return err
		}
		return withPool(cmd.Context(), func(pool *pgxpool.Pool) error {
			svc := progress.NewService(profile.NewMetricsStore(profile.NewRepo(pool)), nil, nil)
			report, err := svc.Progress(cmd.Context(), progressUser, tf)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), report)
		})
	},
}

var profileUser string

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Print the stored profile of a user",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := validateUserID(profileUser); err != nil {
			return err
		}
		return withPool(cmd.Context(), func(pool *pgxpool.Pool) error {
			p, err := profile.NewRepo(pool).Get(cmd.Context(), profileUser)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), p)
		})
	},
}

var hashPasswordCmd = &cobra.Command{
	Use:   "hash-password <password>",
	Short: "Print the bcrypt hash of a password",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		hash, err := pkg.HashPassword(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), hash)
		return nil
	},
}

func init() {
	progressCmd.Flags().StringVar(&progressUser, "user", "", "user ID")
	progressCmd.Flags().StringVar(&progressTimeframe, "timeframe", string(progress.Weekly), "weekly or monthly")
	profileCmd.Flags().StringVar(&profileUser, "user", "", "user ID")
}

func validateUserID(id string) error {
	if id == "" {
		return errors.New("--user is required")
	}
	if err := uuid.Validate(id); err != nil {
		return fmt.Errorf("invalid user ID %q: %w", id, err)
	}
	return nil
}

func printJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
