package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"fraudlens/internal/actions"
	"fraudlens/internal/api"
	"fraudlens/internal/transport"
)

var useHTTP bool

// chatCmd represents the interactive chat command
var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive chat with the assistant",
	Long: `Start an interactive chat session. Replies stream to the terminal as
the assistant generates them. The conversation session persists across
restarts, so the assistant keeps its context between runs.

Type /quit (or press Ctrl-D) to leave.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		fmt.Println("Connected to the fraud-detection assistant. Type /quit to exit.")

		scanner := bufio.NewScanner(os.Stdin)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for {
			fmt.Print("> ")
			if !scanner.Scan() {
				fmt.Println()
				return scanner.Err()
			}
			line := strings.TrimSpace(scanner.Text())
			switch line {
			case "":
				continue
			case "/quit", "/exit":
				return nil
			}

			if err := runChatTurn(a, line); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			}
		}
	},
}

// sendCmd represents the one-shot send command
var sendCmd = &cobra.Command{
	Use:   "send <message>",
	Short: "Send a single message and print the reply",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		message := strings.Join(args, " ")
		if useHTTP {
			return runHTTPTurn(a, message)
		}
		return runChatTurn(a, message)
	},
}

// askCmd represents the ask command, which runs a named quick action
var askCmd = &cobra.Command{
	Use:   "ask <action> [key=value ...]",
	Short: "Run a named quick action",
	Long: `Run one of the quick-action prompt templates. Template placeholders
are filled from key=value arguments:

  fraudlens ask analyze-report report_uri=s3://bucket/report.json

Use "fraudlens actions" to list the available templates.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		list, err := actions.Load(a.cfg.ActionsFile)
		if err != nil {
			return err
		}
		action, ok := actions.Find(list, args[0])
		if !ok {
			return fmt.Errorf("unknown action %q (run \"fraudlens actions\" to list them)", args[0])
		}

		params := make(map[string]string)
		for _, kv := range args[1:] {
			key, value, found := strings.Cut(kv, "=")
			if !found || key == "" {
				return fmt.Errorf("argument %q is not in key=value form", kv)
			}
			params[key] = value
		}

		message, err := action.Render(params)
		if err != nil {
			return err
		}
		if useHTTP {
			return runHTTPTurn(a, message)
		}
		return runChatTurn(a, message)
	},
}

// runChatTurn sends one message over the streaming transport and blocks
// until the turn ends with a complete or error event.
func runChatTurn(a *app, message string) error {
	if _, err := a.store.AddMessage("user", message); err != nil {
		log.Printf("Failed to record user message: %v", err)
	}

	done := make(chan error, 1)
	handler := transport.ChatHandler{
		OnStatus: func(status string) {
			fmt.Fprintf(os.Stderr, "[%s]\n", status)
		},
		OnChunk: func(delta string) {
			fmt.Print(delta)
		},
		OnComplete: func(finalText, sessionID string) {
			fmt.Println()
			if _, err := a.store.AddMessage("assistant", finalText); err != nil {
				log.Printf("Failed to record assistant reply: %v", err)
			}
			done <- nil
		},
		OnError: func(errMsg string) {
			done <- fmt.Errorf("assistant error: %s", errMsg)
		},
	}

	if err := a.client.SendChat(message, handler); err != nil {
		return err
	}
	return <-done
}

// runHTTPTurn sends one message over the request/response HTTP endpoint
// instead of the streaming transport. No incremental output, but useful
// when WebSocket egress is blocked.
func runHTTPTurn(a *app, message string) error {
	if a.cfg.ChatEndpoint == "" {
		return api.ErrNoEndpoint
	}
	if _, err := a.store.AddMessage("user", message); err != nil {
		log.Printf("Failed to record user message: %v", err)
	}

	client := api.New(a.cfg.ChatEndpoint, a.cfg.Token())
	content, err := client.Send(context.Background(), message)
	if err != nil {
		return err
	}
	fmt.Println(content)
	if _, err := a.store.AddMessage("assistant", content); err != nil {
		log.Printf("Failed to record assistant reply: %v", err)
	}
	return nil
}

func init() {
	sendCmd.Flags().BoolVar(&useHTTP, "http", false, "use the HTTP endpoint instead of the streaming transport")
	askCmd.Flags().BoolVar(&useHTTP, "http", false, "use the HTTP endpoint instead of the streaming transport")
}
