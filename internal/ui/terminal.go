package ui

import (
	"context"
	"fmt"
	"io"
	"os"
)

type terminalUI struct {
	out io.Writer
	err io.Writer
}

// NewTerminal écrit les messages sur stderr, stdout restant libre pour les
// documents (-o -).
func NewTerminal() Interface {
	return NewWriter(os.Stderr, os.Stderr)
}

// NewWriter permet de rediriger les messages (tests).
func NewWriter(out, err io.Writer) Interface {
	return &terminalUI{out: out, err: err}
}

func (t *terminalUI) PrintInfo(ctx context.Context, s string) {
	fmt.Fprintln(t.out, s)
}

func (t *terminalUI) PrintError(ctx context.Context, s string) {
	fmt.Fprintln(t.err, s)
}

func (t *terminalUI) PrintList(ctx context.Context, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintln(t.out, title)
	for _, it := range items {
		fmt.Fprintf(t.out, "  - %s\n", it)
	}
}
