package ast

// Kind discriminates AST node variants. It mirrors the `type` field of the
// source-language AST described by the spec: every node carries a Kind and
// a Location.
type Kind int

const (
	KindGrammar Kind = iota
	KindInitializer
	KindRule
	KindNamed
	KindChoice
	KindAction
	KindSequence
	KindLabeled
	KindPrefixed
	KindSuffixed
	KindGroup
	KindRuleReference
	KindSemanticPredicate
	KindLiteral
	KindCharacterClass
	KindAny
)

func (k Kind) String() string {
	switch k {
	case KindGrammar:
		return "grammar"
	case KindInitializer:
		return "initializer"
	case KindRule:
		return "rule"
	case KindNamed:
		return "named"
	case KindChoice:
		return "choice"
	case KindAction:
		return "action"
	case KindSequence:
		return "sequence"
	case KindLabeled:
		return "labeled"
	case KindPrefixed:
		return "prefixed"
	case KindSuffixed:
		return "suffixed"
	case KindGroup:
		return "group"
	case KindRuleReference:
		return "rule_ref"
	case KindSemanticPredicate:
		return "semantic_predicate"
	case KindLiteral:
		return "literal"
	case KindCharacterClass:
		return "class"
	case KindAny:
		return "any"
	default:
		return "unknown"
	}
}

// Node is implemented by every AST node, expression or not.
type Node interface {
	Kind() Kind
	Location() Location
}

// MatchResult is the three-valued static match-result lattice (spec §3.1,
// §4.5.2): whether an expression, statically, always/never/sometimes
// succeeds.
type MatchResult int

const (
	Never MatchResult = -1
	Sometimes MatchResult = 0
	Always MatchResult = 1
)

func (m MatchResult) String() string {
	switch m {
	case Always:
		return "ALWAYS"
	case Never:
		return "NEVER"
	default:
		return "SOMETIMES"
	}
}

// Expr is implemented by every expression-combinator node: the ones that
// carry the optional `match` annotation populated by the transform stage's
// match-result inference pass.
type Expr interface {
	Node
	Match() *MatchResult
	SetMatch(MatchResult)
}

// annot is embedded by every Expr implementation. The match annotation is a
// field owned by the node itself (per DESIGN NOTES §9): nothing outside the
// session's lifetime ever retains a pointer to it.
type annot struct {
	match *MatchResult
}

func (a *annot) Match() *MatchResult { return a.match }

func (a *annot) SetMatch(m MatchResult) {
	v := m
	a.match = &v
}

// PrefixOp is the operator of a Prefixed node.
type PrefixOp int

const (
	PrefixText PrefixOp = iota
	PrefixSimpleAnd
	PrefixSimpleNot
)

// SuffixOp is the operator of a Suffixed node.
type SuffixOp int

const (
	SuffixOptional SuffixOp = iota
	SuffixZeroOrMore
	SuffixOneOrMore
)

// PartKind discriminates a CharacterClass part.
type PartKind int

const (
	PartChar PartKind = iota
	PartRange
	PartUnicode
)

// ClassPart is one element of a character class: a single character, a
// character range, or a named Unicode class (e.g. from `\pL` / `\p{Latin}`).
type ClassPart struct {
	Kind    PartKind
	Char    rune
	Lo, Hi  rune
	Unicode string
}

// CharClassDesc is the structural descriptor of a character class. It is
// shared verbatim between the AST's CharacterClass node and the `classes`
// constant pool entry the bytecode generator interns it into (spec §3.2):
// the pool simply collects the unique descriptors that appear in the tree.
type CharClassDesc struct {
	Parts      []ClassPart
	Inverted   bool
	IgnoreCase bool
}

// ExpectationKind discriminates an ExpectationDesc variant.
type ExpectationKind int

const (
	ExpectRule ExpectationKind = iota
	ExpectLiteral
	ExpectClass
	ExpectAny
)

// ExpectationDesc is an entry of the `expectations` constant pool: a
// structured description of what input was expected at a failure position.
type ExpectationDesc struct {
	Kind       ExpectationKind
	RuleName   string
	Literal    string
	IgnoreCase bool
	Class      CharClassDesc
}

// FunctionDesc is an entry of the `functions` constant pool: a user-code
// action or predicate body, deduplicated by structural equality of the
// descriptor (spec §3.2, and the open question in spec §9 about aliasing
// across differing label environments).
type FunctionDesc struct {
	Predicate bool
	Params    []string
	Body      string
	Location  Location
}

// ---- root & container nodes -------------------------------------------

// Initializer is either the grammar's top-level initializer or its
// per-parse initializer (spec §3.1): a verbatim code block with its own
// span.
type Initializer struct {
	Loc  Location
	Code string
}

func (i *Initializer) Kind() Kind         { return KindInitializer }
func (i *Initializer) Location() Location { return i.Loc }

// Grammar is the AST root. It owns every descendant node and, once the
// generate stage has run, the four constant pools.
type Grammar struct {
	Loc Location

	TopLevelInitializer *Initializer
	Initializer         *Initializer
	Rules               []*Rule

	Literals     []string
	Classes      []CharClassDesc
	Expectations []ExpectationDesc
	Functions    []FunctionDesc
}

func (g *Grammar) Kind() Kind         { return KindGrammar }
func (g *Grammar) Location() Location { return g.Loc }

// Rule is a named parsing expression.
type Rule struct {
	Loc     Location
	Name    string
	NameLoc Location
	Expr    Expr

	Bytecode []int
}

func (r *Rule) Kind() Kind         { return KindRule }
func (r *Rule) Location() Location { return r.Loc }

// ---- expression combinators --------------------------------------------

// Named gives its operand a human-readable name used in error messages.
type Named struct {
	Loc  Location
	Name string
	Expr Expr
	annot
}

func (n *Named) Kind() Kind         { return KindNamed }
func (n *Named) Location() Location { return n.Loc }

// Choice is an ordered list of alternatives; the first to match wins.
type Choice struct {
	Loc          Location
	Alternatives []Expr
	annot
}

func (c *Choice) Kind() Kind         { return KindChoice }
func (c *Choice) Location() Location { return c.Loc }

// Action wraps an expression with a user code block run on success.
type Action struct {
	Loc     Location
	Expr    Expr
	Code    string
	CodeLoc Location
	annot
}

func (a *Action) Kind() Kind         { return KindAction }
func (a *Action) Location() Location { return a.Loc }

// Sequence is an ordered list of elements that must all match.
type Sequence struct {
	Loc      Location
	Elements []Expr
	annot
}

func (s *Sequence) Kind() Kind         { return KindSequence }
func (s *Sequence) Location() Location { return s.Loc }

// Labeled binds its operand's result to a label, and may additionally be a
// "pluck" (`@`) contributing to an auto-built sequence result.
type Labeled struct {
	Loc      Location
	Label    string
	LabelLoc Location
	Pick     bool
	Expr     Expr
	annot
}

func (l *Labeled) Kind() Kind         { return KindLabeled }
func (l *Labeled) Location() Location { return l.Loc }

// Prefixed is one of text/simple_and/simple_not.
type Prefixed struct {
	Loc Location
	Op  PrefixOp
	Expr Expr
	annot
}

func (p *Prefixed) Kind() Kind         { return KindPrefixed }
func (p *Prefixed) Location() Location { return p.Loc }

// Suffixed is one of optional/zero_or_more/one_or_more.
type Suffixed struct {
	Loc  Location
	Op   SuffixOp
	Expr Expr
	annot
}

func (s *Suffixed) Kind() Kind         { return KindSuffixed }
func (s *Suffixed) Location() Location { return s.Loc }

// Group is a parenthesized expression forming a fresh label scope.
type Group struct {
	Loc  Location
	Expr Expr
	annot
}

func (g *Group) Kind() Kind         { return KindGroup }
func (g *Group) Location() Location { return g.Loc }

// ---- primary atoms ------------------------------------------------------

// RuleReference refers to another rule by name.
type RuleReference struct {
	Loc  Location
	Name string
	annot
}

func (r *RuleReference) Kind() Kind         { return KindRuleReference }
func (r *RuleReference) Location() Location { return r.Loc }

// SemanticPredicate is a user predicate code block, positive (`&{...}`) or
// negative (`!{...}`).
type SemanticPredicate struct {
	Loc      Location
	Negative bool
	Code     string
	CodeLoc  Location
	annot
}

func (s *SemanticPredicate) Kind() Kind         { return KindSemanticPredicate }
func (s *SemanticPredicate) Location() Location { return s.Loc }

// Literal matches a fixed string, possibly case-insensitively.
type Literal struct {
	Loc        Location
	Value      string
	IgnoreCase bool
	annot
}

func (l *Literal) Kind() Kind         { return KindLiteral }
func (l *Literal) Location() Location { return l.Loc }

// CharacterClass matches a class of characters.
type CharacterClass struct {
	Loc  Location
	Desc CharClassDesc
	annot
}

func (c *CharacterClass) Kind() Kind         { return KindCharacterClass }
func (c *CharacterClass) Location() Location { return c.Loc }

// Any matches any single input unit except end of input.
type Any struct {
	Loc Location
	annot
}

func (a *Any) Kind() Kind         { return KindAny }
func (a *Any) Location() Location { return a.Loc }
