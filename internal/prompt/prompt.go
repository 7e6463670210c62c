// Package prompt assembles the system prompt that tells a chat model which
// commands it may call on the user's current page.
package prompt

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"text/template"
	"time"

	"github.com/joestump/joe-copilot/internal/catalog"
)

// ErrPageNotFound is returned when the current page is absent from the catalog.
var ErrPageNotFound = errors.New("page not found")

// The template uses [[ ]] delimiters because the prompt itself documents the
// command format with literal {{NAME}} placeholders.
//
//go:embed system.tmpl
var systemTemplateSrc string

var systemTemplate = template.Must(template.New("system").Delims("[[", "]]").Parse(systemTemplateSrc))

// Role is the author of a chat message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a single chat message.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// systemData holds the variables available in system.tmpl.
type systemData struct {
	Org             catalog.OrgInfo
	UserDescription string
	Date            string
	CurrentPage     string
	Commands        string
	Language        string
}

// Assembler builds prompts. The zero value uses the wall clock.
type Assembler struct {
	// Now returns the current time; the date stamp is its UTC calendar date.
	Now func() time.Time
}

// Assemble returns the synthesized system message followed by history.
//
// currentPageName must name a page in pages; otherwise the error wraps
// ErrPageNotFound and no messages are returned. An empty userDescription
// omits the user paragraph. history is copied, never modified.
func (a *Assembler) Assemble(
	history []Message,
	pages []catalog.Page,
	userDescription string,
	currentPageName string,
	org catalog.OrgInfo,
	language string,
) ([]Message, error) {
	current, ok := catalog.Find(pages, currentPageName)
	if !ok {
		return nil, pageNotFound(currentPageName, pages)
	}

	var buf bytes.Buffer
	err := systemTemplate.Execute(&buf, systemData{
		Org:             org,
		UserDescription: userDescription,
		Date:            a.now().UTC().Format(time.DateOnly),
		CurrentPage:     currentPageName,
		Commands:        renderCommands(current, catalog.Except(pages, currentPageName)),
		Language:        language,
	})
	if err != nil {
		return nil, fmt.Errorf("render system prompt: %w", err)
	}

	messages := make([]Message, 0, len(history)+1)
	messages = append(messages, Message{Role: RoleSystem, Content: buf.String()})
	messages = append(messages, history...)
	return messages, nil
}

func (a *Assembler) now() time.Time {
	if a == nil || a.Now == nil {
		return time.Now()
	}
	return a.Now()
}

// Assemble builds a prompt stamped with today's date.
func Assemble(
	history []Message,
	pages []catalog.Page,
	userDescription string,
	currentPageName string,
	org catalog.OrgInfo,
	language string,
) ([]Message, error) {
	var a Assembler
	return a.Assemble(history, pages, userDescription, currentPageName, org, language)
}

// RenderCommands returns the numbered command list for currentPageName alone,
// exactly as it appears inside the system prompt.
func RenderCommands(pages []catalog.Page, currentPageName string) (string, error) {
	current, ok := catalog.Find(pages, currentPageName)
	if !ok {
		return "", pageNotFound(currentPageName, pages)
	}
	return renderCommands(current, catalog.Except(pages, currentPageName)), nil
}

func pageNotFound(name string, pages []catalog.Page) error {
	return &PageNotFoundError{Page: name, Pages: pages}
}

// PageNotFoundError names a page missing from the catalog. Its message carries
// the whole catalog, so it belongs in logs rather than in client responses.
type PageNotFoundError struct {
	Page  string
	Pages []catalog.Page
}

func (e *PageNotFoundError) Error() string {
	dump, err := json.Marshal(e.Pages)
	if err != nil {
		dump = []byte(fmt.Sprintf("%d pages", len(e.Pages)))
	}
	return fmt.Sprintf("%v: page %q not found in catalog %s", ErrPageNotFound, e.Page, dump)
}

func (e *PageNotFoundError) Unwrap() error { return ErrPageNotFound }
