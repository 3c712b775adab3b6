package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nextlevelbuilder/bilireply/internal/engine"
	"github.com/nextlevelbuilder/bilireply/internal/store"
)

func rulesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Manage auto-reply rules",
	}
	cmd.AddCommand(rulesAddCmd())
	cmd.AddCommand(rulesListCmd())
	cmd.AddCommand(rulesUpdateCmd())
	cmd.AddCommand(rulesDeleteCmd())
	cmd.AddCommand(rulesToggleCmd())
	return cmd
}

func rulesAddCmd() *cobra.Command {
	var (
		kind          string
		priority      int
		caseSensitive bool
		disabled      bool
		description   string
	)
	cmd := &cobra.Command{
		Use:   "add <keyword> <reply>",
		Short: "Add a rule",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !engine.ValidMatchKind(kind) {
				return fmt.Errorf("unknown match kind %q (valid: %s)", kind, matchKindList())
			}

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

			rule := &store.Rule{
				AccountUID:    creds.UID,
				Keyword:       args[0],
				MatchKind:     kind,
				CaseSensitive: caseSensitive,
				Enabled:       !disabled,
				Priority:      priority,
				ReplyText:     args[1],
				Description:   description,
			}
			if err := db.Stores().Rules.Save(cmd.Context(), rule); err != nil {
				return err
			}
			fmt.Printf("rule %d added\n", rule.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&kind, "kind", "contains", "match kind: "+matchKindList())
	cmd.Flags().IntVar(&priority, "priority", 0, "higher priority rules match first")
	cmd.Flags().BoolVar(&caseSensitive, "case-sensitive", false, "match with exact casing")
	cmd.Flags().BoolVar(&disabled, "disabled", false, "create the rule disabled")
	cmd.Flags().StringVar(&description, "desc", "", "free-form description")
	return cmd
}

func rulesListCmd() *cobra.Command {
	var enabledOnly bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List rules in matching order",
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

			rules, err := db.Stores().Rules.List(cmd.Context(), creds.UID, enabledOnly)
			if err != nil {
				return err
			}
			if len(rules) == 0 {
				fmt.Println("no rules")
				return nil
			}
			for _, r := range rules {
				state := "on"
				if !r.Enabled {
					state = "off"
				}
				fmt.Printf("%4d [%s] p%-3d %-14s %q -> %q", r.ID, state, r.Priority, r.MatchKind, r.Keyword, r.ReplyText)
				if r.CaseSensitive {
					fmt.Print("  (case-sensitive)")
				}
				if r.Description != "" {
					fmt.Printf("  # %s", r.Description)
				}
				fmt.Println()
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&enabledOnly, "enabled", false, "show only enabled rules")
	return cmd
}

func rulesUpdateCmd() *cobra.Command {
	var (
		keyword     string
		reply       string
		kind        string
		priority    int
		description string
	)
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update fields of an existing rule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("bad rule id %q", args[0])
			}
			if kind != "" && !engine.ValidMatchKind(kind) {
				return fmt.Errorf("unknown match kind %q (valid: %s)", kind, matchKindList())
			}

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

			rules, err := db.Stores().Rules.List(cmd.Context(), creds.UID, false)
			if err != nil {
				return err
			}
			var rule *store.Rule
			for i := range rules {
				if rules[i].ID == id {
					rule = &rules[i]
					break
				}
			}
			if rule == nil {
				return fmt.Errorf("rule %d not found", id)
			}

			if keyword != "" {
				rule.Keyword = keyword
			}
			if reply != "" {
				rule.ReplyText = reply
			}
			if kind != "" {
				rule.MatchKind = kind
			}
			if cmd.Flags().Changed("priority") {
				rule.Priority = priority
			}
			if cmd.Flags().Changed("desc") {
				rule.Description = description
			}

			if err := db.Stores().Rules.Save(cmd.Context(), rule); err != nil {
				return err
			}
			fmt.Printf("rule %d updated\n", rule.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&keyword, "keyword", "", "new keyword")
	cmd.Flags().StringVar(&reply, "reply", "", "new reply text")
	cmd.Flags().StringVar(&kind, "kind", "", "new match kind")
	cmd.Flags().IntVar(&priority, "priority", 0, "new priority")
	cmd.Flags().StringVar(&description, "desc", "", "new description")
	return cmd
}

func rulesDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a rule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("bad rule id %q", args[0])
			}
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

			if err := db.Stores().Rules.Delete(cmd.Context(), creds.UID, id); err != nil {
				return err
			}
			fmt.Printf("rule %d deleted\n", id)
			return nil
		},
	}
}

func rulesToggleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <id> <on|off>",
		Short: "Enable or disable a rule",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("bad rule id %q", args[0])
			}
			var enabled bool
			switch args[1] {
			case "on":
				enabled = true
			case "off":
				enabled = false
			default:
				return fmt.Errorf("want on or off, got %q", args[1])
			}

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

			if err := db.Stores().Rules.ToggleEnabled(cmd.Context(), creds.UID, id, enabled); err != nil {
				return err
			}
			fmt.Printf("rule %d %s\n", id, args[1])
			return nil
		},
	}
}

func matchKindList() string {
	kinds := make([]string, len(engine.MatchKinds))
	for i, k := range engine.MatchKinds {
		kinds[i] = string(k)
	}
	return strings.Join(kinds, ", ")
}
