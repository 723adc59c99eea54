package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var chatOffline bool

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Interactive verification assistant",
	Long:  "Starts a conversation with the verification assistant. The assistant learns budget and ingredient preferences from your feedback within the session.",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := initEnv(cmd.Context(), chatOffline)
		if err != nil {
			return err
		}
		defer env.Close()

		fmt.Println("brandcheck assistant — ask about any beauty brand (type 'quit' to exit)")

		scanner := bufio.NewScanner(os.Stdin)
		for {
			fmt.Print("> ")
			if !scanner.Scan() {
				break
			}
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}
			if line == "quit" || line == "exit" {
				break
			}

			reply, err := env.Agent.Chat(cmd.Context(), line)
			if err != nil {
				fmt.Printf("error: %v\n", err)
				continue
			}

			fmt.Println(reply.Text)
			fmt.Printf("[profile: %s]\n", env.Agent.Profile().Summary())
		}

		return scanner.Err()
	},
}

func init() {
	chatCmd.Flags().BoolVar(&chatOffline, "offline", false, "skip live web search, use canned results")
	rootCmd.AddCommand(chatCmd)
}
