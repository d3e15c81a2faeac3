package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/samsaffron/msgblocks/internal/blocks"
	"github.com/samsaffron/msgblocks/internal/render"
	"github.com/samsaffron/msgblocks/internal/session"
	"github.com/samsaffron/msgblocks/internal/stream"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Store and replay conversations",
	Long: `Import conversations into the local session store and render them later.

A transcript is a YAML (or JSON) file:

  name: refactor
  messages:
    - role: user
      content: |
        /model fast
        please split this function
    - role: assistant
      content: |
        Sure, here it is:
        ` + "```go" + `
        func split() {}
        ` + "```" + `

Examples:
  msgblocks session import chat.yaml
  msgblocks session import --raw --role user --name notes notes/*.md
  msgblocks session list
  msgblocks session search "split"
  msgblocks session show <id>
  msgblocks session delete <id>`,
	RunE: runSessionList, // Default to list
}

var sessionImportCmd = &cobra.Command{
	Use:   "import <file...>",
	Short: "Import transcripts or plain text messages",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSessionImport,
}

var sessionListCmd = &cobra.Command{
	Use:   "list",
	Short: "List sessions",
	RunE:  runSessionList,
}

var sessionSearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search message text",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSessionSearch,
}

var sessionShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Render every message of a session",
	Args:  cobra.ExactArgs(1),
	RunE:  runSessionShow,
}

var sessionDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a session",
	Args:  cobra.ExactArgs(1),
	RunE:  runSessionDelete,
}

// Flags
var (
	sessionName   string
	sessionRole   string
	sessionRaw    bool
	sessionLimit  int
	sessionJSON   bool
	sessionExpand bool
)

func init() {
	sessionImportCmd.Flags().StringVarP(&sessionName, "name", "n", "", "Session name (default: transcript name or first file name)")
	sessionImportCmd.Flags().BoolVar(&sessionRaw, "raw", false, "Import each file as one plain text message")
	AddRoleFlag(sessionImportCmd, &sessionRole, "user")

	sessionListCmd.Flags().IntVar(&sessionLimit, "limit", 20, "Maximum number of sessions to list")
	sessionListCmd.Flags().StringVarP(&sessionName, "name", "n", "", "Filter by name")
	sessionListCmd.Flags().BoolVar(&sessionJSON, "json", false, "Output as JSON")

	sessionSearchCmd.Flags().IntVar(&sessionLimit, "limit", 20, "Maximum number of matches")

	sessionShowCmd.Flags().BoolVar(&sessionJSON, "json", false, "Output messages as JSON")
	AddExpandFlag(sessionShowCmd, &sessionExpand)

	sessionCmd.AddCommand(sessionImportCmd)
	sessionCmd.AddCommand(sessionListCmd)
	sessionCmd.AddCommand(sessionSearchCmd)
	sessionCmd.AddCommand(sessionShowCmd)
	sessionCmd.AddCommand(sessionDeleteCmd)

	rootCmd.AddCommand(sessionCmd)
}

// transcript is the import file format.
type transcript struct {
	Name     string              `yaml:"name"`
	Messages []transcriptMessage `yaml:"messages"`
}

type transcriptMessage struct {
	Role    string `yaml:"role"`
	Content string `yaml:"content"`
}

func getSessionStore() (session.Store, error) {
	var cfg session.Config
	if appConfig != nil {
		cfg = appConfig.Session
	}
	return session.NewSQLiteStore(cfg, logger)
}

// loadTranscript reads a YAML or JSON transcript.
func loadTranscript(path string) (*transcript, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var t transcript
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(t.Messages) == 0 {
		return nil, fmt.Errorf("%s: transcript has no messages", path)
	}
	return &t, nil
}

func runSessionImport(cmd *cobra.Command, args []string) error {
	store, err := getSessionStore()
	if err != nil {
		return err
	}
	defer store.Close()

	var paths []string
	for _, arg := range args {
		matches, err := expandPattern(arg)
		if err != nil {
			return err
		}
		paths = append(paths, matches...)
	}

	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	if sessionRaw {
		role, err := session.ParseRole(sessionRole)
		if err != nil {
			return err
		}
		name := sessionName
		if name == "" {
			name = strings.TrimSuffix(filepath.Base(paths[0]), filepath.Ext(paths[0]))
		}
		msgs := make([]transcriptMessage, 0, len(paths))
		for _, p := range paths {
			data, err := os.ReadFile(p)
			if err != nil {
				return err
			}
			msgs = append(msgs, transcriptMessage{Role: string(role), Content: string(data)})
		}
		id, err := importTranscript(ctx, store, &transcript{Name: name, Messages: msgs})
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Imported %d messages into %s\n", len(msgs), id)
		return nil
	}

	for _, p := range paths {
		t, err := loadTranscript(p)
		if err != nil {
			return err
		}
		if sessionName != "" {
			t.Name = sessionName
		}
		if t.Name == "" {
			t.Name = strings.TrimSuffix(filepath.Base(p), filepath.Ext(p))
		}
		id, err := importTranscript(ctx, store, t)
		if err != nil {
			return fmt.Errorf("import %s: %w", p, err)
		}
		fmt.Fprintf(out, "Imported %d messages into %s\n", len(t.Messages), id)
	}
	return nil
}

// importTranscript stores t as a new session and returns its id. Roles are
// validated before anything is written.
func importTranscript(ctx context.Context, store session.Store, t *transcript) (string, error) {
	roles := make([]blocks.Role, len(t.Messages))
	for i, m := range t.Messages {
		role, err := session.ParseRole(m.Role)
		if err != nil {
			return "", fmt.Errorf("message %d: %w", i+1, err)
		}
		roles[i] = role
	}

	sess := &session.Session{Name: t.Name}
	if err := store.Create(ctx, sess); err != nil {
		return "", fmt.Errorf("create session: %w", err)
	}
	for i, m := range t.Messages {
		msg := &session.Message{Role: roles[i], Content: m.Content, Sequence: -1}
		if err := store.AddMessage(ctx, sess.ID, msg); err != nil {
			return "", fmt.Errorf("add message %d: %w", i+1, err)
		}
	}
	logger.Info("session imported", "id", sess.ID, "messages", len(t.Messages))
	return sess.ID, nil
}

func runSessionList(cmd *cobra.Command, args []string) error {
	store, err := getSessionStore()
	if err != nil {
		return err
	}
	defer store.Close()

	sessions, err := store.List(cmd.Context(), session.ListOptions{Name: sessionName, Limit: sessionLimit})
	if err != nil {
		return fmt.Errorf("failed to list sessions: %w", err)
	}

	out := cmd.OutOrStdout()
	if sessionJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(sessions)
	}
	if len(sessions) == 0 {
		fmt.Fprintln(out, "No sessions found.")
		return nil
	}

	fmt.Fprintf(out, "%-36s %-30s %4s %s\n", "ID", "NAME", "MSGS", "AGE")
	fmt.Fprintln(out, strings.Repeat("-", 84))
	for _, s := range sessions {
		name := s.Name
		if name == "" {
			name = s.Summary
		}
		if len([]rune(name)) > 30 {
			name = string([]rune(name)[:27]) + "..."
		}
		fmt.Fprintf(out, "%-36s %-30s %4d %s\n", s.ID, name, s.MessageCount, formatRelativeTime(s.UpdatedAt))
	}
	return nil
}

func runSessionSearch(cmd *cobra.Command, args []string) error {
	store, err := getSessionStore()
	if err != nil {
		return err
	}
	defer store.Close()

	query := strings.Join(args, " ")
	results, err := store.Search(cmd.Context(), query, sessionLimit)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	out := cmd.OutOrStdout()
	if len(results) == 0 {
		fmt.Fprintf(out, "No results found for '%s'\n", query)
		return nil
	}
	fmt.Fprintf(out, "Found %d matches for '%s':\n\n", len(results), query)
	for _, r := range results {
		name := r.SessionName
		if name == "" {
			name = r.SessionID
		}
		fmt.Fprintf(out, "%s (%s)\n", name, r.SessionID)
		fmt.Fprintf(out, "  %s\n\n", r.Snippet)
	}
	return nil
}

func runSessionShow(cmd *cobra.Command, args []string) error {
	store, err := getSessionStore()
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := cmd.Context()
	sess, err := store.Get(ctx, args[0])
	if err != nil {
		return fmt.Errorf("failed to get session: %w", err)
	}
	if sess == nil {
		return fmt.Errorf("session '%s' not found", args[0])
	}
	messages, err := store.GetMessages(ctx, sess.ID, 0, 0)
	if err != nil {
		return fmt.Errorf("failed to get messages: %w", err)
	}

	out := cmd.OutOrStdout()
	if sessionJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(messages)
	}
	return renderMessages(out, sess, messages)
}

// renderMessages draws a session with one driver per role, switching the
// driver's content stream for every message.
func renderMessages(out io.Writer, sess *session.Session, messages []session.Message) error {
	styles := newStyles(out)
	width := renderWidth(out)
	interactive := isTTY(os.Stdin) && isTTY(out)
	baseDir, _ := os.Getwd()

	drivers := make(map[blocks.Role]*stream.Driver)
	driverFor := func(role blocks.Role) *stream.Driver {
		if dr, ok := drivers[role]; ok {
			return dr
		}
		backend := newTerminal(out, role, baseDir, interactive)
		d := render.NewDispatcher(render.CollaboratorsFor(backend), width, render.WithLogger(logger))
		dr := stream.NewDriver(d, stream.Config{
			Role:          role,
			CollapseLines: collapseLines(sessionExpand),
			Logger:        logger,
		})
		drivers[role] = dr
		return dr
	}

	title := sess.Name
	if title == "" {
		title = sess.ID
	}
	fmt.Fprintln(out, styles.Title.Render(title))
	fmt.Fprintln(out, styles.Muted.Render(fmt.Sprintf("%d messages, updated %s", len(messages), formatRelativeTime(sess.UpdatedAt))))

	for _, m := range messages {
		dr := driverFor(m.Role)
		dr.Switch(fmt.Sprintf("%s/%d", sess.ID, m.ID), m.Role)
		tick := dr.SetText(m.Content)

		fmt.Fprintln(out)
		fmt.Fprintln(out, styles.Bold.Render(string(m.Role)))
		fmt.Fprintln(out, tick.Frame)
		if tick.Collapsed {
			fmt.Fprintln(out, collapseHint(styles, tick.Stats.HiddenLines))
		}
	}
	return nil
}

func runSessionDelete(cmd *cobra.Command, args []string) error {
	store, err := getSessionStore()
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := cmd.Context()
	sess, err := store.Get(ctx, args[0])
	if err != nil {
		return fmt.Errorf("failed to get session: %w", err)
	}
	if sess == nil {
		return fmt.Errorf("session '%s' not found", args[0])
	}
	if err := store.Delete(ctx, sess.ID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted session %s\n", sess.ID)
	return nil
}

func formatRelativeTime(t time.Time) string {
	dur := time.Since(t)
	switch {
	case dur < time.Minute:
		return "just now"
	case dur < time.Hour:
		return fmt.Sprintf("%dm ago", int(dur.Minutes()))
	case dur < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(dur.Hours()))
	case dur < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(dur.Hours()/24))
	default:
		return t.Format("Jan 2")
	}
}
