package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

var ErrNoCode = errors.New("no authorization code entered")

// CodePrompt shows the authorization URL and blocks until a code is typed.
type CodePrompt struct {
	in  *bufio.Reader
	out io.Writer
}

func NewCodePrompt(in io.Reader, out io.Writer) *CodePrompt {
	return &CodePrompt{in: bufio.NewReader(in), out: out}
}

// ReadCode prints authURL and reads one line. The redirect URL may be pasted
// whole; its code parameter is extracted.
func (p *CodePrompt) ReadCode(ctx context.Context, authURL string) (string, error) {
	fmt.Fprint(p.out, "\n\nFOLLOW THE LINK BELOW AND ENTER THE CODE IN THE URL AFTER AUTHORIZATION!\n\n")
	fmt.Fprintln(p.out, authURL)
	fmt.Fprint(p.out, "code: ")

	type line struct {
		text string
		err  error
	}
	done := make(chan line, 1)
	go func() {
		text, err := p.in.ReadString('\n')
		done <- line{text, err}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case l := <-done:
		if l.err != nil && !errors.Is(l.err, io.EOF) {
			return "", fmt.Errorf("failed to read authorization code: %w", l.err)
		}
		code := extractCode(strings.TrimSpace(l.text))
		if code == "" {
			return "", ErrNoCode
		}
		return code, nil
	}
}

// StaticCode supplies a code known ahead of time.
type StaticCode string

func (c StaticCode) ReadCode(ctx context.Context, authURL string) (string, error) {
	if c == "" {
		return "", ErrNoCode
	}
	return string(c), nil
}
