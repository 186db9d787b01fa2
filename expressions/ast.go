package expressions

// Cucumber Expression syntax tree

type nodeType int

const (
	textNode nodeType = iota
	optionalNode
	alternationNode
	alternativeNode
	parameterNode
	expressionNode
)

type node struct {
	typ   nodeType
	nodes []node
	text  string // literal text, or the parameter name
	start int    // rune offsets into the expression
	end   int
}

type tokenType int

const (
	tokenText tokenType = iota
	tokenWhitespace
	tokenBeginOptional
	tokenEndOptional
	tokenBeginParameter
	tokenEndParameter
	tokenAlternation
)

type token struct {
	typ   tokenType
	text  string
	start int
	end   int
}
