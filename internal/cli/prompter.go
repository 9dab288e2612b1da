package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"quid/internal/model"
)

// ErrInputClosed is returned when input ends during a prompt.
var ErrInputClosed = errors.New("input terminated")

// Prompter implements interactive terminal prompting for the menu and
// the commands that ask for values. All parsing happens here; callers
// receive typed values that passed validation.
type Prompter struct {
	writer io.Writer
	reader *NonBlockingReader
}

// NewPrompter creates a prompter over the given reader and writer.
// Nil arguments default to stdin and stdout.
func NewPrompter(reader io.Reader, writer io.Writer) *Prompter {
	if reader == nil {
		reader = os.Stdin
	}
	if writer == nil {
		writer = os.Stdout
	}

	return &Prompter{
		reader: NewNonBlockingReader(reader),
		writer: writer,
	}
}

// ReadLine prompts once and returns the trimmed input line.
func (p *Prompter) ReadLine(ctx context.Context, prompt string) (string, error) {
	if _, err := fmt.Fprint(p.writer, FormatPrompt(prompt)); err != nil {
		return "", fmt.Errorf("failed to write prompt: %w", err)
	}

	line, err := p.reader.ReadLine(ctx)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return "", ErrInputClosed
		}
		return "", err
	}
	return line, nil
}

// ReadNonEmpty prompts until the user enters a non-blank value.
func (p *Prompter) ReadNonEmpty(ctx context.Context, prompt string) (string, error) {
	for {
		line, err := p.ReadLine(ctx, prompt)
		if err != nil {
			return "", err
		}
		if line != "" {
			return line, nil
		}
		p.retry("Value cannot be empty. Please try again.")
	}
}

// ReadDate prompts until the user enters a valid calendar date.
// Empty input means today.
func (p *Prompter) ReadDate(ctx context.Context, prompt string) (model.Date, error) {
	for {
		line, err := p.ReadLine(ctx, prompt)
		if err != nil {
			return model.Date{}, err
		}
		if line == "" {
			return model.DateOf(time.Now()), nil
		}

		date, err := model.NewDate(line)
		if err != nil {
			p.retry("Dates look like 2024-05-03. Please try again.")
			continue
		}
		return date, nil
	}
}

// ReadMonth prompts until the user enters a valid month.
// Empty input means the current month.
func (p *Prompter) ReadMonth(ctx context.Context, prompt string) (model.Month, error) {
	for {
		line, err := p.ReadLine(ctx, prompt)
		if err != nil {
			return model.Month{}, err
		}
		if line == "" {
			return model.MonthOf(time.Now()), nil
		}

		month, err := model.NewMonth(line)
		if err != nil {
			p.retry("Months look like 2024-05. Please try again.")
			continue
		}
		return month, nil
	}
}

// ReadAmount prompts until the user enters a positive amount.
func (p *Prompter) ReadAmount(ctx context.Context, prompt string) (float64, error) {
	for {
		line, err := p.ReadLine(ctx, prompt)
		if err != nil {
			return 0, err
		}

		amount, err := strconv.ParseFloat(line, 64)
		if err != nil || amount <= 0 {
			p.retry("Amounts are positive numbers like 12.50. Please try again.")
			continue
		}
		return amount, nil
	}
}

// Confirm prompts for a yes/no answer.
func (p *Prompter) Confirm(ctx context.Context, prompt string) (bool, error) {
	for {
		line, err := p.ReadLine(ctx, prompt+" [y/n]")
		if err != nil {
			return false, err
		}

		switch strings.ToLower(line) {
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
		p.retry("Please answer y or n.")
	}
}

// Choose renders a numbered menu and prompts until the user picks one
// of the options. Returns the zero-based index of the choice.
func (p *Prompter) Choose(ctx context.Context, title string, options []string) (int, error) {
	if len(options) == 0 {
		return 0, fmt.Errorf("no options to choose from")
	}

	if _, err := fmt.Fprintln(p.writer, FormatTitle(title)); err != nil {
		return 0, fmt.Errorf("failed to write menu title: %w", err)
	}
	for i, option := range options {
		if _, err := fmt.Fprintf(p.writer, "  %d) %s\n", i+1, option); err != nil {
			return 0, fmt.Errorf("failed to write menu option: %w", err)
		}
	}
	if _, err := fmt.Fprintln(p.writer); err != nil {
		return 0, fmt.Errorf("failed to write newline: %w", err)
	}

	for {
		line, err := p.ReadLine(ctx, "Choice")
		if err != nil {
			return 0, err
		}

		n, err := strconv.Atoi(line)
		if err == nil && n >= 1 && n <= len(options) {
			return n - 1, nil
		}
		p.retry(fmt.Sprintf("Pick a number between 1 and %d.", len(options)))
	}
}

func (p *Prompter) retry(message string) {
	if _, err := fmt.Fprintln(p.writer, FormatError(message)); err != nil {
		slog.Warn("Failed to write retry message", "error", err)
	}
}
