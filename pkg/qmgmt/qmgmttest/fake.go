// Package qmgmttest provides an in-memory qmgmt.Executor for tests.
package qmgmttest

import (
	"context"
	"strings"
	"sync"
)

// Response is the canned result for a command.
type Response struct {
	Stdout string
	Stderr string
	Err    error
}

// Executor records every command and answers with the first Response whose
// key is a substring of the shell script ("qmgmt -u api:7860 ...").
type Executor struct {
	mu        sync.Mutex
	responses []rule
	commands  [][]string
}

type rule struct {
	match string
	resp  Response
}

// NewExecutor creates an Executor without canned responses. Unmatched
// commands succeed with empty output.
func NewExecutor() *Executor {
	return &Executor{}
}

// On registers a response for scripts containing match. Earlier rules win.
func (e *Executor) On(match string, resp Response) *Executor {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.responses = append(e.responses, rule{match: match, resp: resp})
	return e
}

// Exec implements qmgmt.Executor.
func (e *Executor) Exec(ctx context.Context, command []string) (string, string, error) {
	if err := ctx.Err(); err != nil {
		return "", "", err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.commands = append(e.commands, append([]string(nil), command...))

	script := strings.Join(command, " ")
	for _, r := range e.responses {
		if strings.Contains(script, r.match) {
			return r.resp.Stdout, r.resp.Stderr, r.resp.Err
		}
	}
	return "", "", nil
}

// Commands returns the recorded commands.
func (e *Executor) Commands() [][]string {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([][]string, len(e.commands))
	copy(out, e.commands)
	return out
}

// Scripts returns the "-c" argument of every recorded command.
func (e *Executor) Scripts() []string {
	cmds := e.Commands()
	out := make([]string, 0, len(cmds))
	for _, c := range cmds {
		out = append(out, c[len(c)-1])
	}
	return out
}
