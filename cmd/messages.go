package cmd

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/nextlevelbuilder/bilireply/internal/bilibili"
)

func messagesCmd() *cobra.Command {
	var group bool
	cmd := &cobra.Command{
		Use:   "messages <talker_id>",
		Short: "Show a conversation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			talkerID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("bad talker id %q", args[0])
			}
			kind := bilibili.KindDirect
			if group {
				kind = bilibili.KindGroup
			}

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

			msgs, err := client.FetchMessages(cmd.Context(), talkerID, kind, bilibili.ViewFetchSize, 0)
			if err != nil {
				return err
			}
			if len(msgs) == 0 {
				fmt.Println("no messages")
				return nil
			}

			// The API returns newest first; print oldest first.
			for i := len(msgs) - 1; i >= 0; i-- {
				m := msgs[i]
				who := fmt.Sprintf("%d", m.SenderUID)
				if strconv.FormatInt(m.SenderUID, 10) == creds.UID {
					who = "me"
				}
				fmt.Printf("%s  %-12s %s\n",
					time.Unix(m.Timestamp, 0).Format("2006-01-02 15:04:05"),
					who, bilibili.RenderContent(m.Content, m.MsgType))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&group, "group", false, "talker is a fan group")
	return cmd
}
