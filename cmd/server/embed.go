package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ahmednasr/ai-in-action/embed-api/pkg/client"
)

var embedCmd = &cobra.Command{
	Use:   "embed [text...]",
	Short: "Embed texts with a running server",
	Long: `Send texts to a running embed-api server and print the vectors as JSON.

Texts come from the arguments, or one per line from stdin when none are given.`,
	Example: `  embed-api embed "hello world"
  cat sentences.txt | embed-api embed --url http://embed:8000`,
	RunE: runEmbed,
}

func init() {
	embedCmd.Flags().String("url", client.DefaultBaseURL, "server base URL")
	embedCmd.Flags().Duration("timeout", 60*time.Second, "request timeout")
	rootCmd.AddCommand(embedCmd)
}

func runEmbed(cmd *cobra.Command, args []string) error {
	url, _ := cmd.Flags().GetString("url")
	timeout, _ := cmd.Flags().GetDuration("timeout")

	texts := args
	if len(texts) == 0 {
		if cmd.InOrStdin() == os.Stdin && stdinIsTerminal() {
			return fmt.Errorf("no texts given: pass them as arguments or pipe them on stdin")
		}
		scanner := bufio.NewScanner(cmd.InOrStdin())
		scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
		for scanner.Scan() {
			texts = append(texts, scanner.Text())
		}
		if err := scanner.Err(); err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
	}

	c := client.New(url, client.WithTimeout(timeout))
	vecs, err := c.Embed(cmd.Context(), texts)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	return enc.Encode(map[string]any{"embeddings": vecs})
}

// stdinIsTerminal reports whether stdin is an interactive terminal.
func stdinIsTerminal() bool {
	fi, err := os.Stdin.Stat()
	return err == nil && fi.Mode()&os.ModeCharDevice != 0
}
