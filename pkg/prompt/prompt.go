package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

//go:generate go run go.uber.org/mock/mockgen@v0.5.2 -source=prompt.go -destination=mocks/prompt.gen.go -package=mocks

// RevisionChoice is a revision offered for selection.
type RevisionChoice struct {
	ID    int
	Title string
	State string
}

// Prompter interface provides user interaction functionality.
type Prompter interface {
	// PromptForRepo prompts the user for the content repository as org/name.
	PromptForRepo(defaultRepo string) (string, error)

	// PromptForLogins prompts the user for a comma separated list of logins.
	PromptForLogins(role string) ([]string, error)

	// PromptForConfirmation prompts the user for confirmation with a default value.
	PromptForConfirmation(message string, defaultYes bool) (bool, error)

	// PromptSelectRevision prompts the user to select a revision from a list.
	PromptSelectRevision(choices []RevisionChoice) (RevisionChoice, error)
}

// NewPromptParams contains parameters for NewPrompt.
type NewPromptParams struct {
	In  io.Reader
	Out io.Writer
}

type realPrompt struct {
	reader *bufio.Reader
	in     io.Reader
	out    io.Writer
}

// NewPrompt creates a new Prompt instance. Standard input and output are
// used when In or Out is nil.
func NewPrompt(params NewPromptParams) Prompter {
	if params.In == nil {
		params.In = os.Stdin
	}
	if params.Out == nil {
		params.Out = os.Stdout
	}
	return &realPrompt{
		reader: bufio.NewReader(params.In),
		in:     params.In,
		out:    params.Out,
	}
}

func (p *realPrompt) readLine() (string, error) {
	input, err := p.reader.ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || input == "") {
		return "", fmt.Errorf("failed to read user input: %w", err)
	}
	return strings.TrimSpace(input), nil
}

// PromptForRepo prompts the user for the content repository as org/name.
func (p *realPrompt) PromptForRepo(defaultRepo string) (string, error) {
	if defaultRepo != "" {
		fmt.Fprintf(p.out, "Repository holding the content (ex: acme/website) [default: %s]: ", defaultRepo)
	} else {
		fmt.Fprint(p.out, "Repository holding the content (ex: acme/website): ")
	}

	input, err := p.readLine()
	if err != nil {
		return "", err
	}

	// Use default if input is empty
	if input == "" {
		if defaultRepo == "" {
			return "", ErrEmptyInput
		}
		return defaultRepo, nil
	}

	return input, nil
}

// PromptForLogins prompts the user for a comma separated list of logins.
func (p *realPrompt) PromptForLogins(role string) ([]string, error) {
	fmt.Fprintf(p.out, "Logins of the %s, separated by commas (ex: alice,bob): ", role)

	input, err := p.readLine()
	if err != nil {
		return nil, err
	}

	var logins []string
	for _, login := range strings.Split(input, ",") {
		if login = strings.TrimSpace(login); login != "" {
			logins = append(logins, login)
		}
	}
	return logins, nil
}

// PromptForConfirmation prompts the user for confirmation with a default value.
func (p *realPrompt) PromptForConfirmation(message string, defaultYes bool) (bool, error) {
	var defaultText string
	if defaultYes {
		defaultText = "[Y/n]"
	} else {
		defaultText = "[y/N]"
	}

	fmt.Fprintf(p.out, "%s %s: ", message, defaultText)

	input, err := p.readLine()
	if err != nil {
		return false, err
	}

	// Use default if input is empty
	if input == "" {
		return defaultYes, nil
	}

	// Check for yes/no responses
	switch strings.ToLower(input) {
	case "y", "yes":
		return true, nil
	case "n", "no":
		return false, nil
	default:
		return false, ErrInvalidConfirmationInput
	}
}

// PromptSelectRevision prompts the user to select a revision from a list.
func (p *realPrompt) PromptSelectRevision(choices []RevisionChoice) (RevisionChoice, error) {
	if len(choices) == 0 {
		return RevisionChoice{}, ErrNoChoices
	}

	// Use Bubble Tea selector for interactive selection
	return promptSelectRevisionBubbleTea(choices, p.in, p.out)
}
