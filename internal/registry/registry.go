// Package registry dispatches entered argument lines to named commands.
// A command pairs a signature with a handler; executing a line splits it,
// matches the first entry against the registered names, binds the rest
// against the signature and invokes the handler.
package registry

import (
	"strings"
	"sync"

	"github.com/funvibe/sigbind/internal/argline"
	"github.com/funvibe/sigbind/internal/binder"
	"github.com/funvibe/sigbind/internal/convert"
	"github.com/funvibe/sigbind/internal/diagnostics"
	"github.com/funvibe/sigbind/internal/parser"
	"github.com/funvibe/sigbind/internal/signature"
)

// Handler consumes the bound arguments of one invocation.
type Handler func(bound *binder.BoundArguments) (interface{}, error)

// Command is a registered callable.
type Command struct {
	// Matches are the names this command answers to. When empty, the
	// signature name is used.
	Matches []string

	Signature *signature.Signature
	Handler   Handler
}

func (c *Command) matchNames() []string {
	if len(c.Matches) > 0 {
		return c.Matches
	}
	return []string{c.Signature.Name}
}

// Option configures a Registry.
type Option func(*Registry)

// IgnoreCase makes command-name matching case-insensitive.
func IgnoreCase() Option {
	return func(r *Registry) { r.ignoreCase = true }
}

// WithConverters replaces the converter registry used for binding.
func WithConverters(conv *convert.Registry) Option {
	return func(r *Registry) { r.converters = conv }
}

type Registry struct {
	mu         sync.RWMutex
	commands   []*Command
	converters *convert.Registry
	ignoreCase bool
}

func New(opts ...Option) *Registry {
	r := &Registry{converters: convert.NewRegistry()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Converters exposes the registry's converter table for custom annotations.
func (r *Registry) Converters() *convert.Registry {
	return r.converters
}

// Add registers a command.
func (r *Registry) Add(cmd *Command) error {
	if cmd.Signature == nil {
		return diagnostics.Newf(diagnostics.ErrR006, "command has no signature")
	}
	if cmd.Handler == nil {
		return diagnostics.Newf(diagnostics.ErrR006, "command %q has no handler", cmd.Signature.Name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.commands = append(r.commands, cmd)
	return nil
}

// AddFunc parses decl into a signature and registers it with the handler.
// Optional verb-noun naming applies to the declared name.
func (r *Registry) AddFunc(decl string, h Handler, verb *Verb) error {
	sig, err := parser.Parse(decl)
	if err != nil {
		return err
	}

	cmd := &Command{Signature: sig, Handler: h}
	if verb != nil {
		cmd.Matches = verb.MatchesFor(sig.Name)
	}
	return r.Add(cmd)
}

// Commands returns a snapshot of the registered commands.
func (r *Registry) Commands() []*Command {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Command, len(r.commands))
	copy(out, r.commands)
	return out
}

// Match finds the command answering to name. A name matching two commands
// is as much an error as one matching none.
func (r *Registry) Match(name string) (*Command, error) {
	lookup := name
	if r.ignoreCase {
		lookup = strings.ToLower(lookup)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched *Command
	for _, cmd := range r.commands {
		for _, m := range cmd.matchNames() {
			if r.ignoreCase {
				m = strings.ToLower(m)
			}
			if m != lookup {
				continue
			}
			if matched != nil {
				return nil, diagnostics.Newf(diagnostics.ErrR004,
					"%q matches two commands: %s and %s",
					name, matched.Signature.Name, cmd.Signature.Name)
			}
			matched = cmd
			break
		}
	}

	if matched == nil {
		return nil, diagnostics.Newf(diagnostics.ErrR003, "command %q not found", name)
	}
	return matched, nil
}

// Execute runs one whole input line: the first entry names the command,
// the rest are its arguments.
func (r *Registry) Execute(line string) (interface{}, error) {
	entries, err := argline.Split(line)
	if err != nil {
		return nil, err
	}
	return r.execute(entries)
}

// ExecuteArgs runs an already-tokenized argument vector.
func (r *Registry) ExecuteArgs(args []string) (interface{}, error) {
	return r.execute(argline.FromArgs(args))
}

func (r *Registry) execute(entries []argline.Entry) (interface{}, error) {
	positionals, keywords, err := argline.Extract(entries)
	if err != nil {
		return nil, err
	}
	if len(positionals) == 0 {
		return nil, diagnostics.Newf(diagnostics.ErrR002, "nothing was entered")
	}

	name := positionals[0]
	positionals = positionals[1:]

	cmd, err := r.Match(name)
	if err != nil {
		return nil, err
	}

	bound, err := binder.Bind(cmd.Signature, binder.Call{
		Positionals: positionals,
		Keywords:    keywords,
	}, r.converters)
	if err != nil {
		return nil, err
	}

	return cmd.Handler(bound)
}
