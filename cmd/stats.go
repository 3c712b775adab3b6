package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func statsCmd() *cobra.Command {
	var (
		days int
		top  int
	)
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show reply counters and aggregates",
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
			logs := db.Stores().Logs

			stats, err := logs.Stats(cmd.Context(), creds.UID)
			if err != nil {
				return err
			}
			fmt.Printf("account %s\n", creds.UID)
			fmt.Printf("  today (%s): %d\n", stats.Date, stats.Today)
			fmt.Printf("  total: %d\n", stats.Total)

			daily, err := logs.DailyStats(cmd.Context(), creds.UID, days)
			if err != nil {
				return err
			}
			if len(daily) > 0 {
				fmt.Printf("\nlast %d days:\n", days)
				for _, d := range daily {
					fmt.Printf("  %s  %d\n", d.Date, d.Count)
				}
			}

			keywords, err := logs.KeywordStats(cmd.Context(), creds.UID, top)
			if err != nil {
				return err
			}
			if len(keywords) > 0 {
				fmt.Println("\ntop keywords:")
				for _, k := range keywords {
					fmt.Printf("  %-20s %d\n", k.Keyword, k.Count)
				}
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&days, "days", 7, "days of daily aggregates")
	cmd.Flags().IntVar(&top, "top", 10, "number of top keywords")
	return cmd
}

func logsCmd() *cobra.Command {
	var (
		limit  int
		offset int
	)
	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Show recent reply log entries",
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

			entries, err := db.Stores().Logs.Logs(cmd.Context(), creds.UID, limit, offset)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Println("no log entries")
				return nil
			}
			for _, e := range entries {
				status := "ok"
				if !e.Success {
					status = "FAIL " + e.ErrorDetail
				}
				fmt.Printf("%s  %-20s %q -> %q  [%s]\n",
					e.Timestamp.Format("2006-01-02 15:04:05"),
					e.PeerLabel, e.OriginalText, e.ReplyText, status)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 50, "entries per page")
	cmd.Flags().IntVar(&offset, "offset", 0, "entries to skip")
	return cmd
}
