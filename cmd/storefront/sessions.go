package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jwhande57/zimutilityxpress/pkg/currency"
)

func sessionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sessions",
		Short: "List tracked payment sessions, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap()
			if err != nil {
				return err
			}
			defer a.shutdown()

			cu := currency.NewCurrencyUtils()
			sessions := a.svc.History(cmd.Context())
			if len(sessions) == 0 {
				fmt.Println("no payment sessions")
				return nil
			}

			for _, s := range sessions {
				fmt.Printf("%-20s %-8s %10s  %-24s %s\n",
					s.Reference, s.Status, cu.FormatAmount(s.Amount), s.Service, s.Timestamp)
			}
			return nil
		},
	}
}

func cleanupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cleanup",
		Short: "Evict payment sessions past the retention window",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap()
			if err != nil {
				return err
			}
			defer a.shutdown()

			removed := a.svc.Cleanup(cmd.Context())
			fmt.Printf("removed %d expired session(s)\n", removed)
			return nil
		},
	}
}
