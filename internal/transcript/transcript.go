// Package transcript parses conversation transcripts for import.
package transcript

import (
	"bufio"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/raphaelgruber/rehydra-go/internal/models"
)

// Transcript is a parsed conversation file: optional YAML frontmatter
// followed by role-prefixed turns.
type Transcript struct {
	// Frontmatter metadata (from YAML)
	Frontmatter map[string]any

	// SessionID from frontmatter; empty when the caller must supply one.
	SessionID string

	// UserID from frontmatter, if present.
	UserID *string

	// Turns in file order.
	Turns []Turn
}

// Turn is one conversation turn.
type Turn struct {
	Role    string // models.RoleHuman, models.RoleAI or models.RoleSystem
	Content string
	Line    int // line number where the turn starts
}

// Role prefixes recognized at the start of a line.
var rolePrefixes = map[string]string{
	"Human:":  models.RoleHuman,
	"AI:":     models.RoleAI,
	"System:": models.RoleSystem,
}

// Parse parses a transcript document. Lines before the first role prefix are
// ignored; lines after a prefix belong to that turn until the next prefix.
// A document with no turns is an error.
func Parse(content string) (*Transcript, error) {
	t := &Transcript{
		Frontmatter: make(map[string]any),
	}

	remaining := content
	if strings.HasPrefix(content, "---\n") {
		endIdx := strings.Index(content[4:], "\n---")
		if endIdx > 0 {
			frontmatterYAML := content[4 : 4+endIdx]
			remaining = strings.TrimPrefix(content[4+endIdx+4:], "\n")

			if err := yaml.Unmarshal([]byte(frontmatterYAML), &t.Frontmatter); err != nil {
				return nil, fmt.Errorf("parse frontmatter: %w", err)
			}
		}
	}

	t.SessionID = t.FrontmatterString("session_id")
	if uid := t.FrontmatterString("user_id"); uid != "" {
		t.UserID = &uid
	}

	t.Turns = parseTurns(remaining)
	if len(t.Turns) == 0 {
		return nil, fmt.Errorf("transcript contains no turns")
	}

	return t, nil
}

// parseTurns scans the body for role-prefixed turns.
func parseTurns(content string) []Turn {
	var turns []Turn
	var current *Turn
	var sb strings.Builder

	flush := func() {
		if current != nil {
			current.Content = strings.TrimSpace(sb.String())
			turns = append(turns, *current)
			sb.Reset()
		}
	}

	scanner := bufio.NewScanner(strings.NewReader(content))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := scanner.Text()

		if prefix, role := matchRole(line); prefix != "" {
			flush()
			current = &Turn{Role: role, Line: lineNum}
			sb.WriteString(strings.TrimSpace(strings.TrimPrefix(line, prefix)))
			continue
		}

		if current != nil {
			sb.WriteString("\n")
			sb.WriteString(line)
		}
	}
	flush()

	// Drop turns that ended up empty.
	kept := turns[:0]
	for _, turn := range turns {
		if turn.Content != "" {
			kept = append(kept, turn)
		}
	}
	return kept
}

func matchRole(line string) (prefix, role string) {
	for p, r := range rolePrefixes {
		if strings.HasPrefix(line, p) {
			return p, r
		}
	}
	return "", ""
}

// FrontmatterString extracts a string value from the frontmatter.
func (t *Transcript) FrontmatterString(key string) string {
	if v, ok := t.Frontmatter[key].(string); ok {
		return v
	}
	return ""
}
