package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/joestump/joe-copilot/internal/catalog"
	"github.com/joestump/joe-copilot/internal/catalogfile"
	"github.com/joestump/joe-copilot/internal/config"
	"github.com/joestump/joe-copilot/internal/copilot"
	"github.com/joestump/joe-copilot/internal/llm"
	"github.com/joestump/joe-copilot/internal/prompt"
	"github.com/joestump/joe-copilot/internal/store"
)

// fileCatalog serves a catalog document loaded from disk.
type fileCatalog struct {
	c *catalog.Catalog
}

func (f fileCatalog) LoadCatalog(context.Context, string) (catalog.OrgInfo, []catalog.Page, error) {
	return f.c.Org, f.c.Pages, nil
}

type promptOptions struct {
	file            string
	orgName         string
	orgID           string
	page            string
	language        string
	userDescription string
	message         string
	historyFile     string
	commandsOnly    bool
	chat            bool
	jsonOutput      bool
}

func newPromptCmd() *cobra.Command {
	var o promptOptions
	cmd := &cobra.Command{
		Use:   "prompt",
		Short: "Print the prompt assembled for a page",
		Long: "Prompt assembles the system prompt and conversation for the given page, from either a\n" +
			"catalog file or a stored organization. With --chat the messages are sent to the\n" +
			"configured model and the parsed reply is printed instead.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPrompt(cmd, o)
		},
	}
	f := cmd.Flags()
	f.StringVar(&o.file, "file", "", "catalog file (.json, .yaml or .yml)")
	f.StringVar(&o.orgName, "org", "", "stored organization name")
	f.StringVar(&o.orgID, "org-id", "", "stored organization ID")
	f.StringVar(&o.page, "page", "", "name of the page the user is on")
	f.StringVar(&o.language, "language", "", "language the model should use (default from config, else English)")
	f.StringVar(&o.userDescription, "user-description", "", "what is known about the user")
	f.StringVarP(&o.message, "message", "m", "", "latest user message")
	f.StringVar(&o.historyFile, "history", "", "JSON file holding earlier messages as [{role, content}]")
	f.BoolVar(&o.commandsOnly, "commands-only", false, "print only the numbered command list")
	f.BoolVar(&o.chat, "chat", false, "send the prompt to the configured model")
	f.BoolVar(&o.jsonOutput, "json", false, "print JSON instead of text")
	_ = cmd.MarkFlagRequired("page")
	cmd.MarkFlagsOneRequired("file", "org", "org-id")
	cmd.MarkFlagsMutuallyExclusive("file", "org", "org-id")
	cmd.MarkFlagsMutuallyExclusive("commands-only", "chat")
	return cmd
}

func runPrompt(cmd *cobra.Command, o promptOptions) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	history, err := loadHistory(o.historyFile)
	if err != nil {
		return err
	}

	svc := &copilot.Service{DefaultLanguage: "English"}
	orgID := o.orgID
	if o.file != "" {
		c, err := catalogfile.Load(o.file)
		if err != nil {
			return err
		}
		svc.Catalogs = fileCatalog{c: c}
	}

	var cfg *config.Config
	if o.file == "" || o.chat {
		if o.file == "" {
			c, database, err := openDB()
			if err != nil {
				return err
			}
			defer func() { _ = database.Close() }()
			cfg = c
			if orgID, err = resolveOrg(cmd, store.NewOrgStore(database), o.orgID, o.orgName); err != nil {
				return err
			}
			svc.Catalogs = store.NewCatalogStore(database)
		} else if cfg, err = config.Load(); err != nil {
			return err
		}
		svc.DefaultLanguage = cfg.Copilot.DefaultLanguage
	}

	if o.commandsOnly {
		_, pages, err := svc.Catalogs.LoadCatalog(ctx, orgID)
		if err != nil {
			return err
		}
		commands, err := prompt.RenderCommands(pages, o.page)
		if err != nil {
			return err
		}
		_, err = io.WriteString(out, commands)
		return err
	}

	req := copilot.Request{
		OrgID:           orgID,
		Page:            o.page,
		Language:        o.language,
		UserDescription: o.userDescription,
		History:         history,
		Message:         o.message,
	}

	if !o.chat {
		messages, err := svc.BuildPrompt(ctx, req)
		if err != nil {
			return err
		}
		if o.jsonOutput {
			return writeIndented(out, messages)
		}
		for _, m := range messages {
			fmt.Fprintf(out, "=== %s ===\n%s\n\n", m.Role, m.Content)
		}
		return nil
	}

	client, err := llm.New(cfg)
	if err != nil {
		return err
	}
	if client == nil {
		return copilot.ErrChatDisabled
	}
	svc.LLM = client
	result, err := svc.Chat(ctx, req)
	if err != nil {
		return err
	}
	if o.jsonOutput {
		return writeIndented(out, result)
	}
	fmt.Fprintln(out, result.Completion.Content)
	if result.ParseError != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", result.ParseError)
	}
	return nil
}

func loadHistory(path string) ([]prompt.Message, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var history []prompt.Message
	if err := json.Unmarshal(data, &history); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	for i, m := range history {
		switch m.Role {
		case prompt.RoleUser, prompt.RoleAssistant, prompt.RoleSystem:
		default:
			return nil, fmt.Errorf("%s: message %d has unknown role %q", path, i+1, m.Role)
		}
	}
	return history, nil
}

func writeIndented(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
