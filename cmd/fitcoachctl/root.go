package main

import (
	"context"
	"fmt"
	"os"

	"github.com/2beens/fitcoach/internal/config"
	"github.com/2beens/fitcoach/internal/db"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	env        string
	configPath string
	envFile    string
)

var rootCmd = &cobra.Command{
	Use:   "fitcoachctl",
	Short: "fitcoachctl administers the fitcoach backend",
	Long:  "fitcoachctl applies the database schema and inspects stored profiles and progress reports.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// secrets may come from the real environment only
		_ = godotenv.Load(envFile)
	},
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&env, "env", "development", "environment [prod | production | dev | development]")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "./config.toml", "path for the TOML config file")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "optional dotenv file with secrets")

	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(progressCmd)
	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(hashPasswordCmd)
}

func withPool(ctx context.Context, fn func(pool *pgxpool.Pool) error) error {
	cfg, err := config.Load(env, configPath)
	if err != nil {
		return err
	}
	secrets, err := config.LoadSecrets(ctx)
	if err != nil {
		return err
	}

	pool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
		DBHost:     cfg.PostgresHost,
		DBPort:     cfg.PostgresPort,
		DBName:     cfg.PostgresDBName,
		DBUser:     cfg.PostgresUser,
		DBPassword: secrets.PostgresPassword,
	})
	if err != nil {
		return fmt.Errorf("connect to postgres: %w", err)
	}
	defer pool.Close()

	return fn(pool)
}
