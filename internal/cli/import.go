package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/raphaelgruber/rehydra-go/internal/db"
	"github.com/raphaelgruber/rehydra-go/internal/transcript"
)

var (
	importSession string
	importUser    string
)

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import a conversation transcript into a session",
	Long: `Import a transcript file. The file may carry YAML frontmatter with
session_id and user_id; turns are lines prefixed with "Human:", "AI:" or
"System:". Flags override frontmatter; without either, a fresh session id
is generated.

Examples:
  rehydra import meeting.md
  rehydra import meeting.md --session sess-42 --user u1`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	importCmd.Flags().StringVarP(&importSession, "session", "s", "", "session id (overrides frontmatter)")
	importCmd.Flags().StringVarP(&importUser, "user", "u", "", "user id (overrides frontmatter)")
}

func runImport(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read transcript: %w", err)
	}

	tr, err := transcript.Parse(string(data))
	if err != nil {
		return fmt.Errorf("parse transcript: %w", err)
	}

	sessionID := tr.SessionID
	if importSession != "" {
		sessionID = importSession
	}
	if sessionID == "" {
		sessionID = "sess-" + uuid.NewString()
	}

	userID := tr.UserID
	if importUser != "" {
		userID = &importUser
	}

	emb, err := getEmbedder()
	if err != nil {
		return err
	}

	texts := make([]string, len(tr.Turns))
	for i, turn := range tr.Turns {
		texts[i] = turn.Content
	}
	vectors, err := emb.EmbedBatch(ctx, texts)
	if err != nil {
		logger.Warn("batch embedding failed, storing messages without vectors", "error", err)
		vectors = make([][]float32, len(tr.Turns))
	}

	for i, turn := range tr.Turns {
		params := db.CreateMessageParams{
			SessionID:      sessionID,
			UserID:         userID,
			Role:           turn.Role,
			Content:        turn.Content,
			RelevanceScore: 0.5,
			Embedding:      vectors[i],
		}
		if _, err := dbClient.AppendMessage(ctx, params); err != nil {
			return fmt.Errorf("import turn %d (line %d): %w", i+1, turn.Line, err)
		}
	}

	fmt.Printf("Imported %d messages into %s\n", len(tr.Turns), sessionID)
	return nil
}
