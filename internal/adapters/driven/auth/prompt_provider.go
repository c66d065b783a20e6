package auth

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"golang.org/x/term"

	"github.com/custodia-labs/fitedit/internal/core/domain"
	"github.com/custodia-labs/fitedit/internal/core/ports/driven"
)

// Ensure PromptProvider implements the CredentialProvider interface.
var _ driven.CredentialProvider = (*PromptProvider)(nil)

// PromptProvider asks for missing credentials interactively.
// Passwords are read without echo when the input is a terminal.
type PromptProvider struct {
	in     io.Reader
	out    io.Writer
	mu     sync.Mutex
	reader *bufio.Reader
}

// NewPromptProvider creates a provider reading from in and prompting on out.
func NewPromptProvider(in io.Reader, out io.Writer) *PromptProvider {
	return &PromptProvider{
		in:     in,
		out:    out,
		reader: bufio.NewReader(in),
	}
}

// Credentials prompts for both username and password.
func (p *PromptProvider) Credentials(ctx context.Context) (domain.Credentials, error) {
	return p.Complete(ctx, domain.Credentials{})
}

// Complete prompts only for the fields partial is missing.
func (p *PromptProvider) Complete(_ context.Context, partial domain.Credentials) (domain.Credentials, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	creds := partial
	if creds.Username == "" {
		fmt.Fprint(p.out, "Garmin Connect username: ")
		line, err := p.readLine()
		if err != nil {
			return creds, fmt.Errorf("%w: read username: %w", domain.ErrAuthRequired, err)
		}
		creds.Username = line
	}
	if creds.Password == "" {
		fmt.Fprintf(p.out, "Password for %s: ", creds.Username)
		password, err := p.readPassword()
		fmt.Fprintln(p.out)
		if err != nil {
			return creds, fmt.Errorf("%w: read password: %w", domain.ErrAuthRequired, err)
		}
		creds.Password = password
	}

	if !creds.IsComplete() {
		return creds, fmt.Errorf("%w: username and password are required", domain.ErrAuthRequired)
	}
	return creds, nil
}

func (p *PromptProvider) readLine() (string, error) {
	input, err := p.reader.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && input != "") {
		return "", err
	}
	return strings.TrimSpace(input), nil
}

func (p *PromptProvider) readPassword() (string, error) {
	// Try to read password without echo
	if f, ok := p.in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		password, err := term.ReadPassword(int(f.Fd()))
		if err == nil {
			return string(password), nil
		}
	}
	// Fallback to regular input
	return p.readLine()
}
