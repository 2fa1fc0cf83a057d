package commands

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/diogo/ragchat/internal/client"
	apierrors "github.com/diogo/ragchat/internal/errors"
	"github.com/diogo/ragchat/internal/render"
)

var assistantLabelStyle = lipgloss.NewStyle().
	Foreground(colorPrimary).
	Bold(true)

// runQuery sends a single prompt and prints the reply. With rawOutput the
// chunks stream straight to stdout; otherwise the full reply is collected and
// rendered as markdown at terminal width.
func runQuery(prompt string, rawOutput bool) error {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return fmt.Errorf("prompt cannot be empty")
	}

	cfg := loadClientConfig()
	c := client.New(cfg.BackendURL)

	if rawOutput {
		ch, err := c.Stream(context.Background(), prompt)
		if err != nil {
			return formatQueryError(err)
		}
		for chunk := range ch {
			if chunk.Err != nil {
				fmt.Println()
				return fmt.Errorf("reply cut short: %w", chunk.Err)
			}
			fmt.Print(chunk.Text)
		}
		fmt.Println()
		return nil
	}

	spin := newSpinner("Waiting for answer")
	spin.start()

	ch, err := c.Stream(context.Background(), prompt)
	if err != nil {
		spin.stopWithError()
		return formatQueryError(err)
	}

	var reply strings.Builder
	var streamErr error
	for chunk := range ch {
		if chunk.Err != nil {
			streamErr = chunk.Err
			break
		}
		reply.WriteString(chunk.Text)
	}

	if streamErr != nil {
		spin.stopWithError()
	} else {
		spin.stopWithSuccess("Answer received")
	}

	width := 80
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		width = w - 2
		if width > 120 {
			width = 120
		}
	}

	rendered, err := render.Markdown(reply.String(), render.DefaultOptions().
		WithWidth(width).
		WithStyle(cfg.Markdown.Style))
	if err != nil {
		rendered = reply.String()
	}

	fmt.Println(assistantLabelStyle.Render("✦ Assistant"))
	fmt.Println(strings.TrimRight(rendered, "\n"))

	if cfg.CopyToClipboard && reply.Len() > 0 {
		if err := clipboard.WriteAll(reply.String()); err == nil {
			fmt.Fprintln(os.Stderr, lipgloss.NewStyle().Foreground(colorTextMute).Render("(copied to clipboard)"))
		}
	}

	if streamErr != nil {
		return fmt.Errorf("reply cut short: %w", streamErr)
	}
	return nil
}

// formatQueryError maps request failures onto a friendlier message while
// keeping the cause in the chain.
func formatQueryError(err error) error {
	if status := apierrors.GetHTTPStatus(err); status > 0 {
		return fmt.Errorf("backend returned HTTP %d: %w", status, err)
	}
	if apierrors.IsNetworkError(err) {
		return fmt.Errorf("cannot reach the backend: %w", err)
	}
	return err
}
