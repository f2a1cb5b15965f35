package commands

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/speedybites/bitechat/internal/api"
	"github.com/speedybites/bitechat/internal/config"
	apierrors "github.com/speedybites/bitechat/internal/errors"
	"github.com/speedybites/bitechat/internal/format"
)

var (
	colorBrand   = lipgloss.Color("#ff6b35")
	colorSuccess = lipgloss.Color("#9ece6a")
	colorFailure = lipgloss.Color("#ff5555")
	colorBody    = lipgloss.Color("#c0caf5")
	colorDim     = lipgloss.Color("#565f89")
	colorMuted   = lipgloss.Color("#3b4261")
)

// Styles matching the chat widget
var (
	botLabelStyle = lipgloss.NewStyle().
			Foreground(colorBrand).
			Bold(true)

	replyBubbleStyle = lipgloss.NewStyle().
				BorderStyle(lipgloss.RoundedBorder()).
				BorderForeground(colorBrand).
				Foreground(colorBody).
				Padding(0, 1).
				MarginTop(1).
				MarginBottom(1)

	headerLineStyle = lipgloss.NewStyle().
			Foreground(colorBrand).
			Bold(true)

	boldLineStyle = lipgloss.NewStyle().
			Foreground(colorBody).
			Bold(true)

	ruleLineStyle = lipgloss.NewStyle().
			Foreground(colorMuted)
)

// spinner handles the animated loading indicator
type spinner struct {
	message string
	stop    chan struct{}
	done    chan struct{}
	mu      sync.Mutex
	frame   int
	stopped bool // Flag to prevent double-close
}

// newSpinner creates a new animated spinner
func newSpinner(message string) *spinner {
	return &spinner{
		message: message,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
}

// start begins the animation
func (s *spinner) start() {
	go func() {
		defer close(s.done)

		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()

		// Hide cursor
		fmt.Fprint(os.Stderr, "\033[?25l")

		for {
			select {
			case <-s.stop:
				// Clear line and show cursor
				fmt.Fprint(os.Stderr, "\r\033[K\033[?25h")
				return
			case <-ticker.C:
				s.mu.Lock()
				s.render()
				s.frame++
				s.mu.Unlock()
			}
		}
	}()
}

// render draws the current animation frame
func (s *spinner) render() {
	chars := []string{"⣾", "⣽", "⣻", "⢿", "⡿", "⣟", "⣯", "⣷"}

	spinnerChar := lipgloss.NewStyle().Foreground(colorBrand).Bold(true).
		Render(chars[s.frame%len(chars)])
	msg := lipgloss.NewStyle().Foreground(colorBody).Render(s.message)

	fmt.Fprintf(os.Stderr, "\r\033[K%s %s", spinnerChar, msg)
}

// stopOnce safely closes the stop channel only once
func (s *spinner) stopOnce() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.stopped {
		close(s.stop)
		s.stopped = true
	}
}

// stopWithSuccess stops the spinner and shows success message
func (s *spinner) stopWithSuccess(message string) {
	s.stopOnce()
	<-s.done

	checkmark := lipgloss.NewStyle().Foreground(colorSuccess).Bold(true).Render("✓")
	msg := lipgloss.NewStyle().Foreground(colorSuccess).Render(message)
	fmt.Fprintf(os.Stderr, "%s %s\n", checkmark, msg)
}

// stopWithError stops the spinner and shows error
func (s *spinner) stopWithError() {
	s.stopOnce()
	<-s.done
}

// runQuery sends a single message and prints the reply.
// If rawOutput is true, only the raw reply text is printed without decoration.
func runQuery(message string, rawOutput bool) error {
	message = strings.TrimSpace(message)
	if message == "" {
		return fmt.Errorf("message cannot be empty")
	}

	cfg, _ := config.LoadConfig()

	client, err := api.NewClient(getEndpoint(),
		api.WithTimeout(time.Duration(cfg.TimeoutSeconds)*time.Second))
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}

	var spin *spinner
	if !rawOutput {
		spin = newSpinner("Asking Speedy Bites")
		spin.start()
	}

	reply, err := client.Exchange(context.Background(), message)
	if err != nil {
		if !rawOutput {
			spin.stopWithError()
			fmt.Fprintln(os.Stderr, formatErrorMessage(err, "Exchange failed"))
		}
		return fmt.Errorf("exchange failed: %w", err)
	}
	if !rawOutput {
		spin.stopWithSuccess("Done")
	}

	text := reply.Text

	// Raw output mode: output only the raw text
	if rawOutput {
		if outputFlag != "" {
			if err := os.WriteFile(outputFlag, []byte(text), 0o644); err != nil {
				return fmt.Errorf("failed to write output file: %w", err)
			}
			return nil
		}
		fmt.Print(text)
		return nil
	}

	// Output to file if specified
	if outputFlag != "" {
		if err := os.WriteFile(outputFlag, []byte(text), 0o644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		successMsg := lipgloss.NewStyle().Foreground(colorSuccess).Render(
			fmt.Sprintf("✓ Reply saved to %s", outputFlag),
		)
		fmt.Fprintln(os.Stderr, successMsg)
		return nil
	}

	// Decorated output mode
	fmt.Fprintln(os.Stderr)
	fmt.Println(botLabelStyle.Render("🍔 Speedy Bites"))
	fmt.Println(replyBubbleStyle.Render(renderReply(text)))

	return nil
}

// renderReply styles the reply's display blocks for plain terminal output.
func renderReply(text string) string {
	blocks := format.Format(text)
	lines := make([]string, 0, len(blocks))
	for _, b := range blocks {
		switch b.Kind {
		case format.Separator:
			lines = append(lines, ruleLineStyle.Render(strings.Repeat("─", 40)))
		case format.Spacer:
			lines = append(lines, "")
		case format.Header:
			lines = append(lines, headerLineStyle.Render(b.Text()))
		default:
			lines = append(lines, renderQuerySpans(b.Spans))
		}
	}
	return strings.Join(lines, "\n")
}

func renderQuerySpans(spans []format.Span) string {
	var sb strings.Builder
	for _, sp := range spans {
		if sp.Bold {
			sb.WriteString(boldLineStyle.Render(sp.Text))
		} else {
			sb.WriteString(sp.Text)
		}
	}
	return sb.String()
}

// formatErrorMessage formats an error with additional context from structured errors
func formatErrorMessage(err error, context string) string {
	if err == nil {
		return ""
	}

	errStyle := lipgloss.NewStyle().Foreground(colorFailure)
	dimStyle := lipgloss.NewStyle().Foreground(colorDim)

	var sb strings.Builder
	sb.WriteString(errStyle.Render(fmt.Sprintf("✗ %s: %v", context, err)))

	if status := apierrors.GetHTTPStatus(err); status > 0 {
		sb.WriteString(dimStyle.Render(fmt.Sprintf("\n  HTTP Status: %d", status)))
	}

	switch {
	case apierrors.IsNetworkError(err):
		sb.WriteString(dimStyle.Render("\n  Hint: Check that the chat server is running ('bitechat serve')"))
	case apierrors.IsTimeoutError(err):
		sb.WriteString(dimStyle.Render("\n  Hint: Request timed out. Try again or raise the configured timeout"))
	}

	return sb.String()
}
