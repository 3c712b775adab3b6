package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change per-account reply settings",
	}
	cmd.AddCommand(configShowCmd())
	cmd.AddCommand(configSetCmd())
	return cmd
}

func configShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the account's reply settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			creds, err := resolveAccount(cfg)
			if err != nil {
				return err
			}
			db, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			ac, err := db.Stores().Configs.Get(cmd.Context(), creds.UID)
			if err != nil {
				return err
			}
			state := "off"
			if ac.Enabled {
				state = "on"
			}
			limit := fmt.Sprintf("%d", ac.DailyLimit)
			if ac.DailyLimit == 0 {
				limit = "unlimited"
			}
			fmt.Printf("account %s\n", ac.AccountUID)
			fmt.Printf("  reply delay:   %d-%d s\n", ac.ReplyDelayMin, ac.ReplyDelayMax)
			fmt.Printf("  daily limit:   %s\n", limit)
			fmt.Printf("  scan interval: %d s\n", ac.ScanInterval)
			fmt.Printf("  listening:     %s\n", state)
			return nil
		},
	}
}

func configSetCmd() *cobra.Command {
	var (
		delayMin int
		delayMax int
		limit    int
		interval int
	)
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Change the account's reply settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			creds, err := resolveAccount(cfg)
			if err != nil {
				return err
			}
			db, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer db.Close()
			configs := db.Stores().Configs

			ac, err := configs.Get(cmd.Context(), creds.UID)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("delay-min") {
				ac.ReplyDelayMin = delayMin
			}
			if cmd.Flags().Changed("delay-max") {
				ac.ReplyDelayMax = delayMax
			}
			if cmd.Flags().Changed("limit") {
				ac.DailyLimit = limit
			}
			if cmd.Flags().Changed("interval") {
				ac.ScanInterval = interval
			}
			if err := ac.Validate(); err != nil {
				return err
			}

			if err := configs.Save(cmd.Context(), ac); err != nil {
				return err
			}
			fmt.Printf("settings saved for account %s\n", ac.AccountUID)
			return nil
		},
	}
	cmd.Flags().IntVar(&delayMin, "delay-min", 0, "lower bound of the reply delay, seconds")
	cmd.Flags().IntVar(&delayMax, "delay-max", 0, "upper bound of the reply delay, seconds")
	cmd.Flags().IntVar(&limit, "limit", 0, "max replies per day, 0 for unlimited")
	cmd.Flags().IntVar(&interval, "interval", 0, "seconds between scan cycles")
	return cmd
}
