package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	clearSession   bool
	historyEntries int
)

// sessionCmd represents the session command
var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Show or clear the persisted conversation session",
	Long: `Show the current session ID and recent transcript. The session ID
binds every chat turn to the same assistant-side conversation; clearing
it starts a fresh conversation on the next message.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		if clearSession {
			if err := a.store.Clear(); err != nil {
				return err
			}
			fmt.Println("Session cleared. The next message starts a new conversation.")
			return nil
		}

		id, err := a.store.SessionID()
		if err != nil {
			return err
		}
		if id == "" {
			fmt.Println("No active session. One is assigned on the first chat reply.")
		} else {
			fmt.Printf("Session: %s\n", id)
		}

		history, err := a.store.History(historyEntries)
		if err != nil {
			return err
		}
		if len(history) == 0 {
			return nil
		}

		fmt.Println()
		for _, m := range history {
			fmt.Printf("[%s] %s: %s\n", m.Timestamp.Format("2006-01-02 15:04"), m.Role, m.Content)
		}
		return nil
	},
}

func init() {
	sessionCmd.Flags().BoolVar(&clearSession, "clear", false, "clear the session and transcript")
	sessionCmd.Flags().IntVar(&historyEntries, "history", 10, "number of transcript entries to show")
}
