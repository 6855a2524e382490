package steps

import (
	"fmt"
	"regexp"

	"github.com/cucumber/godog"
)

// StepDefinition binds a step pattern to its handler.
type StepDefinition struct {
	Keyword string
	Pattern string
	Handler any
}

// Registry is the dispatch table of step definitions, built once per suite.
type Registry struct {
	defs     []StepDefinition
	compiled []*regexp.Regexp
}

// NewRegistry compiles every pattern. It panics on an invalid pattern, the
// same way godog does when the suite starts.
func NewRegistry(defs []StepDefinition) *Registry {
	r := &Registry{defs: defs, compiled: make([]*regexp.Regexp, len(defs))}
	for i, def := range defs {
		r.compiled[i] = regexp.MustCompile(def.Pattern)
	}
	return r
}

func (r *Registry) Definitions() []StepDefinition {
	return append([]StepDefinition(nil), r.defs...)
}

// Match returns the definition matching a step text with its arguments.
func (r *Registry) Match(text string) (StepDefinition, []string, bool) {
	for i, re := range r.compiled {
		if m := re.FindStringSubmatch(text); m != nil {
			return r.defs[i], m[1:], true
		}
	}
	return StepDefinition{}, nil, false
}

// Ambiguities lists step texts matched by more than one pattern among the
// given samples.
func (r *Registry) Ambiguities(samples []string) []string {
	var out []string
	for _, s := range samples {
		var hits []string
		for i, re := range r.compiled {
			if re.MatchString(s) {
				hits = append(hits, r.defs[i].Pattern)
			}
		}
		if len(hits) > 1 {
			out = append(out, fmt.Sprintf("%q matches %v", s, hits))
		}
	}
	return out
}

// Register adds every definition to a godog scenario.
func (r *Registry) Register(ctx *godog.ScenarioContext) {
	for _, def := range r.defs {
		ctx.Step(def.Pattern, def.Handler)
	}
}
