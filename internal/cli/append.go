package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/raphaelgruber/rehydra-go/internal/db"
	"github.com/raphaelgruber/rehydra-go/internal/models"
)

var appendUser string

var appendCmd = &cobra.Command{
	Use:   "append <session-id> <role> <content...>",
	Short: "Append a conversation message to a session",
	Long: `Append a message to a session's conversation log. The first message for
a session creates the session row. Role is one of: human, ai, system.

Examples:
  rehydra append sess-42 human "what did we decide yesterday?"
  rehydra append sess-42 ai "we settled on the TTL cache" --user u1`,
	Args: cobra.MinimumNArgs(3),
	RunE: runAppend,
}

func init() {
	appendCmd.Flags().StringVarP(&appendUser, "user", "u", "", "author user id")
}

func runAppend(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	sessionID := args[0]
	role := args[1]
	content := strings.Join(args[2:], " ")

	switch role {
	case models.RoleHuman, models.RoleAI, models.RoleSystem:
	default:
		return fmt.Errorf("unknown role %q (use human, ai or system)", role)
	}

	emb, err := getEmbedder()
	if err != nil {
		return err
	}
	vector, err := emb.Embed(ctx, content)
	if err != nil {
		logger.Warn("embedding failed, storing message without vector", "error", err)
		vector = nil
	}

	params := db.CreateMessageParams{
		SessionID:      sessionID,
		Role:           role,
		Content:        content,
		RelevanceScore: 0.5,
		Embedding:      vector,
	}
	if appendUser != "" {
		params.UserID = &appendUser
	}

	msg, err := dbClient.AppendMessage(ctx, params)
	if err != nil {
		return fmt.Errorf("append message: %w", err)
	}

	fmt.Printf("Appended message %d to %s\n", msg.MessageIndex, sessionID)
	return nil
}
