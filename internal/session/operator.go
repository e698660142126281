package session

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/williampepple1/year-checker/internal/browser"
)

// ErrFormUnsupported is returned when credentials cannot be typed into the page.
var ErrFormUnsupported = errors.New("page does not support form input")

// Operator restores an authenticated session on the page.
// Confirm blocks until the session is believed to be restored.
type Operator interface {
	Confirm(ctx context.Context, page browser.Page, prompt string) error
}

// ConsoleOperator asks a human to log in and waits for ENTER.
// There is no timeout: the run stalls until someone answers.
type ConsoleOperator struct {
	In  *bufio.Reader
	Out io.Writer
}

// NewConsoleOperator creates an operator prompting on out and reading from in
func NewConsoleOperator(in io.Reader, out io.Writer) *ConsoleOperator {
	return &ConsoleOperator{
		In:  bufio.NewReader(in),
		Out: out,
	}
}

// Confirm prints prompt and blocks until a line is read
func (o *ConsoleOperator) Confirm(ctx context.Context, _ browser.Page, prompt string) error {
	fmt.Fprintf(o.Out, "👉 %s\n", prompt)

	done := make(chan error, 1)
	go func() {
		_, err := o.In.ReadString('\n')
		done <- err
	}()

	select {
	case err := <-done:
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("no operator input: %w", err)
		}
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// CredentialOperator logs in by filling the login form itself, for runs
// without a human at the keyboard.
type CredentialOperator struct {
	Login     string
	Password  string
	Selectors Selectors
	Timeout   time.Duration
}

// NewCredentialOperator creates an operator that submits the given credentials
func NewCredentialOperator(login, password string, selectors Selectors, timeout time.Duration) *CredentialOperator {
	return &CredentialOperator{
		Login:     login,
		Password:  password,
		Selectors: selectors,
		Timeout:   timeout,
	}
}

// Confirm fills and submits the login form, then waits for the logout control
func (o *CredentialOperator) Confirm(ctx context.Context, page browser.Page, _ string) error {
	form, ok := page.(browser.Form)
	if !ok {
		return ErrFormUnsupported
	}

	if err := form.Fill(ctx, o.Selectors.Login, o.Login); err != nil {
		return fmt.Errorf("fill login: %w", err)
	}
	if err := form.Fill(ctx, o.Selectors.Password, o.Password); err != nil {
		return fmt.Errorf("fill password: %w", err)
	}
	if err := form.Submit(ctx, o.Selectors.Password); err != nil {
		return fmt.Errorf("submit login form: %w", err)
	}
	if err := page.WaitFor(ctx, o.Selectors.Logout, o.Timeout); err != nil {
		return fmt.Errorf("admin page after login: %w", err)
	}
	return nil
}
