// Package reply parses a chat model's answer to an assembled prompt into its
// Reasoning, Plan, Tell user, Commands and Completed fields.
package reply

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	// ErrMissingCompleted is returned when a reply has no Completed field.
	ErrMissingCompleted = errors.New("reply has no Completed field")

	// ErrInvalidCompleted is returned when Completed is not true, false or question.
	ErrInvalidCompleted = errors.New("invalid Completed value")

	// ErrMalformedCommand is returned for a command line that is not NAME(ARG=VALUE, ...).
	ErrMalformedCommand = errors.New("malformed command")
)

// Completion is the model's verdict on whether the task is done.
type Completion string

const (
	CompletedTrue     Completion = "true"
	CompletedFalse    Completion = "false"
	CompletedQuestion Completion = "question"
)

// Reply is a parsed model response.
type Reply struct {
	Reasoning string     `json:"reasoning"`
	Plan      []string   `json:"plan"`
	TellUser  string     `json:"tell_user,omitempty"`
	Commands  []Command  `json:"commands"`
	Completed Completion `json:"completed"`
}

type section int

const (
	sectionNone section = iota
	sectionReasoning
	sectionPlan
	sectionTellUser
	sectionCommands
	sectionCompleted
)

var headerRe = regexp.MustCompile(`(?i)^\s*(reasoning|plan|tell user|commands|completed)\s*:\s?(.*)$`)

var bulletRe = regexp.MustCompile(`^\s*(?:[-*•]|\d+[.)])\s+`)

func sectionFor(header string) section {
	switch strings.ToLower(header) {
	case "reasoning":
		return sectionReasoning
	case "plan":
		return sectionPlan
	case "tell user":
		return sectionTellUser
	case "commands":
		return sectionCommands
	case "completed":
		return sectionCompleted
	}
	return sectionNone
}

// Parse splits text into its fields. Text before the first recognized header
// is treated as reasoning.
func Parse(text string) (*Reply, error) {
	lines := map[section][]string{}
	current := sectionReasoning
	seen := map[section]bool{}

	for _, line := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		if m := headerRe.FindStringSubmatch(line); m != nil {
			current = sectionFor(m[1])
			seen[current] = true
			if rest := strings.TrimSpace(m[2]); rest != "" {
				lines[current] = append(lines[current], rest)
			}
			continue
		}
		lines[current] = append(lines[current], line)
	}

	r := &Reply{
		Reasoning: joinTrimmed(lines[sectionReasoning]),
		TellUser:  joinTrimmed(lines[sectionTellUser]),
		Plan:      []string{},
		Commands:  []Command{},
	}
	for _, l := range lines[sectionPlan] {
		if item := strings.TrimSpace(bulletRe.ReplaceAllString(l, "")); item != "" {
			r.Plan = append(r.Plan, item)
		}
	}
	for _, l := range lines[sectionCommands] {
		l = strings.TrimSpace(bulletRe.ReplaceAllString(l, ""))
		if l == "" || strings.EqualFold(l, "none") || l == "(optional)" {
			continue
		}
		cmd, err := ParseCommand(l)
		if err != nil {
			return nil, err
		}
		r.Commands = append(r.Commands, cmd)
	}

	if !seen[sectionCompleted] {
		return nil, ErrMissingCompleted
	}
	completed, err := parseCompleted(joinTrimmed(lines[sectionCompleted]))
	if err != nil {
		return nil, err
	}
	r.Completed = completed
	return r, nil
}

func parseCompleted(raw string) (Completion, error) {
	v := strings.ToLower(strings.Trim(strings.TrimSpace(raw), ".`*\"'"))
	switch Completion(v) {
	case CompletedTrue, CompletedFalse, CompletedQuestion:
		return Completion(v), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidCompleted, raw)
}

func joinTrimmed(lines []string) string {
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
