package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func unreadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unread",
		Short: "Show unread private-message counters",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			creds, err := resolveAccount(cfg)
			if err != nil {
				return err
			}
			client, err := newClient(creds)
			if err != nil {
				return err
			}

			unread, err := client.Unread(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Printf("followed: %d\nunfollowed: %d\n", unread.FollowUnread, unread.UnfollowUnread)
			return nil
		},
	}
}
