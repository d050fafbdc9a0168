package cmdline

// Action is what a binding runs when its name matches.
//
// The set of actions is closed: Func, SourceFunc and Delegate.
type Action interface {
	invoke(a *Assembler)
}

// Func is an action that takes no arguments.
type Func func()

func (f Func) invoke(*Assembler) {
	if f != nil {
		f()
	}
}

// SourceFunc is an action that receives the Assembler so it can read its
// parameters with NextToken.
type SourceFunc func(a *Assembler)

func (f SourceFunc) invoke(a *Assembler) {
	if f != nil {
		f(a)
	}
}

// Delegate hands the rest of the line to a nested Router, which consumes the
// next token as its own command name.
type Delegate struct {
	Router *Router
}

func (d Delegate) invoke(*Assembler) {
	if d.Router != nil {
		d.Router.Dispatch()
	}
}

// Outcome describes what Dispatch did with a line.
type Outcome uint8

const (
	// OutcomeNoToken means the line was empty; nothing ran.
	OutcomeNoToken Outcome = iota
	// OutcomeMatched means a binding ran.
	OutcomeMatched
	// OutcomeDefault means no binding matched and the default action ran.
	OutcomeDefault
	// OutcomeUnmatched means no binding matched and no default is set.
	OutcomeUnmatched
)

func (o Outcome) String() string {
	switch o {
	case OutcomeNoToken:
		return "no token"
	case OutcomeMatched:
		return "matched"
	case OutcomeDefault:
		return "default"
	case OutcomeUnmatched:
		return "unmatched"
	default:
		return "unknown"
	}
}

type binding struct {
	name   string
	action Action
}

// Router matches the next token of an Assembler against an ordered list of
// bindings.
//
// Names are compared only up to Config.NameLength bytes. Two bindings that are
// equal under that truncation are both kept, but only the first one can ever
// match. The Router does not own the Assembler; nested Routers must share it.
type Router struct {
	src      *Assembler
	width    int
	bindings []binding
	fallback func(*Assembler)
	empty    func()
}

// NewRouter returns a Router reading tokens from a.
func NewRouter(a *Assembler) *Router {
	return &Router{src: a, width: a.Config().NameLength}
}

// Assembler returns the token source.
func (r *Router) Assembler() *Assembler { return r.src }

// AddCommand appends a binding. Duplicate names are not rejected.
func (r *Router) AddCommand(name string, action Action) {
	r.bindings = append(r.bindings, binding{name: r.truncate(name), action: action})
}

// AddFunc binds a no-argument callback.
func (r *Router) AddFunc(name string, fn func()) {
	r.AddCommand(name, Func(fn))
}

// AddSourceFunc binds a callback that reads its own parameters.
func (r *Router) AddSourceFunc(name string, fn func(*Assembler)) {
	r.AddCommand(name, SourceFunc(fn))
}

// AddHandler binds a nested Router.
func (r *Router) AddHandler(name string, child *Router) {
	r.AddCommand(name, Delegate{Router: child})
}

// SetDefault sets the action run when no binding matches. Later calls replace it.
func (r *Router) SetDefault(fn func(*Assembler)) {
	r.fallback = fn
}

// SetEmpty sets an action run when Dispatch finds no token. It is meant for
// nested Routers, where a parent matched but the sub-command is missing; the
// outcome stays OutcomeNoToken and the default is not run. Later calls replace it.
func (r *Router) SetEmpty(fn func()) {
	r.empty = fn
}

// Names returns the registered names (truncated) in registration order.
func (r *Router) Names() []string {
	out := make([]string, 0, len(r.bindings))
	for _, b := range r.bindings {
		out = append(out, b.name)
	}
	return out
}

// Dispatch reads one token and runs the first binding whose name matches it.
func (r *Router) Dispatch() Outcome {
	tok, ok := r.src.NextToken()
	if !ok {
		if r.empty != nil {
			r.empty()
		}
		return OutcomeNoToken
	}

	name := r.truncate(tok.String())
	for _, b := range r.bindings {
		if b.name != name {
			continue
		}
		if b.action != nil {
			b.action.invoke(r.src)
		}
		return OutcomeMatched
	}

	if r.fallback == nil {
		return OutcomeUnmatched
	}
	r.fallback(r.src)
	return OutcomeDefault
}

func (r *Router) truncate(s string) string {
	if len(s) > r.width {
		return s[:r.width]
	}
	return s
}
