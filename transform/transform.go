package transform

import "github.com/polkovnikov-ph/peggy/options"

// DefaultPasses is the ordered list of transform-stage passes (spec §4.5):
// proxy rules must be eliminated before match-result inference runs, since
// removing a proxy rewrites rule_ref targets that inference then reads.
func DefaultPasses() []options.Pass {
	return []options.Pass{
		RemoveProxyRules,
		InferMatchResults,
	}
}
