/*
Copyright 2026 Dima Krasner

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/term"
)

type promptKind int

const (
	inputPrompt promptKind = iota
	confirmPrompt
)

// promptMsg asks the UI for input on behalf of a navigation running in the background.
type promptMsg struct {
	kind      promptKind
	text      string
	sensitive bool
	reply     chan promptReply

	// seq identifies the navigation that asks.
	seq int
}

type seqKey struct{}

// withSeq tags a navigation context with its sequence number.
func withSeq(ctx context.Context, seq int) context.Context {
	return context.WithValue(ctx, seqKey{}, seq)
}

type promptReply struct {
	value string
	ok    bool
}

// tuiPrompter forwards prompts to the TUI and waits for the answer.
type tuiPrompter struct {
	send func(tea.Msg)
}

func (p tuiPrompter) ask(ctx context.Context, kind promptKind, text string, sensitive bool) (string, bool) {
	seq, _ := ctx.Value(seqKey{}).(int)
	reply := make(chan promptReply, 1)
	p.send(promptMsg{kind: kind, text: text, sensitive: sensitive, reply: reply, seq: seq})

	select {
	case r := <-reply:
		return r.value, r.ok
	case <-ctx.Done():
		return "", false
	}
}

func (p tuiPrompter) Input(ctx context.Context, prompt string, sensitive bool) (string, bool) {
	return p.ask(ctx, inputPrompt, prompt, sensitive)
}

func (p tuiPrompter) ConfirmRedirect(ctx context.Context, target string) bool {
	_, ok := p.ask(ctx, confirmPrompt, "Follow redirect to "+target+"?", false)
	return ok
}

func (p tuiPrompter) ConfirmFingerprint(ctx context.Context, host, fingerprint string) bool {
	_, ok := p.ask(ctx, confirmPrompt, fmt.Sprintf("Certificate of %s has changed to %s. Trust it?", host, fingerprint), false)
	return ok
}

// linePrompter reads answers from lines of input.
type linePrompter struct {
	in  *bufio.Reader
	out io.Writer

	// tty is set if the input is the terminal fd, so sensitive input is not echoed.
	tty bool
	fd  uintptr
}

func (p *linePrompter) readLine() (string, bool) {
	line, err := p.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", false
	}

	return strings.TrimRight(line, "\r\n"), true
}

func (p *linePrompter) Input(ctx context.Context, prompt string, sensitive bool) (string, bool) {
	fmt.Fprintf(p.out, "%s: ", prompt)

	if sensitive && p.tty {
		b, err := term.ReadPassword(p.fd)
		fmt.Fprintln(p.out)
		return string(b), err == nil
	}

	return p.readLine()
}

func (p *linePrompter) confirm(question string) bool {
	fmt.Fprintf(p.out, "%s [y/N] ", question)

	answer, ok := p.readLine()
	if !ok {
		return false
	}

	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}

func (p *linePrompter) ConfirmRedirect(ctx context.Context, target string) bool {
	return p.confirm("Follow redirect to " + target + "?")
}

func (p *linePrompter) ConfirmFingerprint(ctx context.Context, host, fingerprint string) bool {
	return p.confirm(fmt.Sprintf("Certificate of %s has changed to %s. Trust it?", host, fingerprint))
}
