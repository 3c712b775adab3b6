package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/nextlevelbuilder/bilireply/internal/bilibili"
	"github.com/nextlevelbuilder/bilireply/internal/config"
	"github.com/nextlevelbuilder/bilireply/internal/store/sqlite"
)

// Version is set at build time via -ldflags "-X github.com/nextlevelbuilder/bilireply/cmd.Version=v1.0.0"
var Version = "dev"

var (
	cfgFile    string
	verbose    bool
	accountUID string
)

var rootCmd = &cobra.Command{
	Use:   "bilireply",
	Short: "bilireply — keyword auto-reply for Bilibili private messages",
	Long:  "bilireply watches the private messages of linked Bilibili accounts and answers them from a prioritized keyword rule set, with daily limits and randomized delays.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $BILIREPLY_CONFIG or ~/.bilireply/config.json5)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&accountUID, "account", "", "account uid (default: the only configured account)")

	rootCmd.AddCommand(versionCmd())
	rootCmd.AddCommand(listenCmd())
	rootCmd.AddCommand(rulesCmd())
	rootCmd.AddCommand(configCmd())
	rootCmd.AddCommand(statsCmd())
	rootCmd.AddCommand(logsCmd())
	rootCmd.AddCommand(messagesCmd())
	rootCmd.AddCommand(unreadCmd())
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("bilireply %s\n", Version)
		},
	}
}

func resolveConfigPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	return config.DefaultPath()
}

func loadConfig() (*config.Config, error) {
	return config.Load(resolveConfigPath())
}

// openStore opens the sqlite backend behind cfg. Callers own the Close.
func openStore(cfg *config.Config) (*sqlite.Store, error) {
	return sqlite.Open(cfg.DBPath)
}

// resolveAccount picks the working account: the --account flag, or the only
// configured one.
func resolveAccount(cfg *config.Config) (config.AccountCredentials, error) {
	if accountUID != "" {
		creds, ok := cfg.Account(accountUID)
		if !ok {
			return config.AccountCredentials{}, fmt.Errorf("account %s not in config", accountUID)
		}
		return creds, nil
	}
	if len(cfg.Accounts) == 1 {
		return cfg.Accounts[0], nil
	}
	if len(cfg.Accounts) == 0 {
		return config.AccountCredentials{}, fmt.Errorf("no accounts configured, edit %s", resolveConfigPath())
	}
	return config.AccountCredentials{}, fmt.Errorf("multiple accounts configured, pick one with --account")
}

func newClient(creds config.AccountCredentials) (*bilibili.Client, error) {
	return bilibili.NewClient(bilibili.Credentials{
		UID:      creds.UID,
		SESSDATA: creds.SESSDATA,
		BiliJct:  creds.BiliJct,
	})
}

// Execute runs the root cobra command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
