package identity

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dmitrijs2005/greed/internal/common"
	"golang.org/x/term"
)

// readSecret and isTerminal are test seams for golang.org/x/term.
var (
	readSecret = term.ReadPassword
	isTerminal = term.IsTerminal
)

// PromptProvider asks the user to paste the identity token issued by the
// platform sign-in sheet. On a terminal the input is not echoed. An empty
// answer means the user backed out.
type PromptProvider struct {
	name string
	in   *bufio.Reader
	fd   int
	out  io.Writer
}

// NewPromptProvider reads from os.Stdin; in is used when stdin is not a
// terminal (pipes, tests) and must wrap the same stream.
func NewPromptProvider(name string, in *bufio.Reader, out io.Writer) *PromptProvider {
	return &PromptProvider{
		name: strings.ToLower(strings.TrimSpace(name)),
		in:   in,
		fd:   int(os.Stdin.Fd()),
		out:  out,
	}
}

func (p *PromptProvider) Name() string { return p.name }

func (p *PromptProvider) Credential(ctx context.Context) (string, error) {
	if err := contextErr(ctx); err != nil {
		return "", err
	}

	if _, err := fmt.Fprintf(p.out, "Paste the %s identity token (empty to cancel): ", p.name); err != nil {
		return "", err
	}

	var raw []byte
	if isTerminal(p.fd) {
		secret, err := readSecret(p.fd)
		fmt.Fprintln(p.out)
		if err != nil {
			return "", fmt.Errorf("read identity token: %w", err)
		}
		raw = secret
	} else {
		line, err := p.in.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return "", fmt.Errorf("read identity token: %w", err)
		}
		raw = []byte(line)
	}
	defer common.WipeByteArray(raw)

	credential := strings.TrimSpace(string(raw))
	if credential == "" {
		return "", ErrCancelled
	}
	return credential, nil
}
