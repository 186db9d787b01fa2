package expressions

import (
	"strings"
	"unicode"
)

const escapable = `{}()/\`

// tokenize splits an expression into tokens. A backslash makes the next
// character literal; only the characters in escapable may follow it.
func tokenize(expression string) ([]token, error) {
	runes := []rune(expression)
	var tokens []token
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case r == '\\':
			if i+1 >= len(runes) {
				return nil, grammarError(expression, i, "The end of line can not be escaped", `You can use '\\' to escape the '\'`)
			}
			next := runes[i+1]
			if !strings.ContainsRune(escapable, next) {
				return nil, grammarError(expression, i, "Only the characters '{', '}', '(', ')', '\\', '/' can be escaped",
					`If you did mean to use an '\' you can use '\\' to escape it`)
			}
			tokens = append(tokens, token{typ: tokenText, text: string(next), start: i, end: i + 2})
			i++
		case unicode.IsSpace(r):
			tokens = append(tokens, token{typ: tokenWhitespace, text: string(r), start: i, end: i + 1})
		case r == '(':
			tokens = append(tokens, token{typ: tokenBeginOptional, text: "(", start: i, end: i + 1})
		case r == ')':
			tokens = append(tokens, token{typ: tokenEndOptional, text: ")", start: i, end: i + 1})
		case r == '{':
			tokens = append(tokens, token{typ: tokenBeginParameter, text: "{", start: i, end: i + 1})
		case r == '}':
			tokens = append(tokens, token{typ: tokenEndParameter, text: "}", start: i, end: i + 1})
		case r == '/':
			tokens = append(tokens, token{typ: tokenAlternation, text: "/", start: i, end: i + 1})
		default:
			tokens = append(tokens, token{typ: tokenText, text: string(r), start: i, end: i + 1})
		}
	}
	return tokens, nil
}

type parser struct {
	expression string
	tokens     []token
	pos        int
}

// parse builds the syntax tree of a Cucumber Expression.
func parse(expression string) (node, error) {
	tokens, err := tokenize(expression)
	if err != nil {
		return node{}, err
	}
	p := &parser{expression: expression, tokens: tokens}

	var items []node
	for p.pos < len(p.tokens) {
		tok := p.tokens[p.pos]
		switch tok.typ {
		case tokenBeginParameter:
			n, err := p.parseParameter()
			if err != nil {
				return node{}, err
			}
			items = append(items, n)
		case tokenBeginOptional:
			n, err := p.parseOptional()
			if err != nil {
				return node{}, err
			}
			items = append(items, n)
		case tokenEndParameter:
			return node{}, grammarError(expression, tok.start, "The '}' does not have a matching '{'", `If you did not intend to use a parameter you can use '\}' to escape it`)
		case tokenEndOptional:
			return node{}, grammarError(expression, tok.start, "The ')' does not have a matching '('", `If you did not intend to use optional text you can use '\)' to escape it`)
		case tokenWhitespace:
			items = append(items, node{typ: textNode, text: tok.text, start: tok.start, end: tok.end})
			p.pos++
		case tokenAlternation:
			items = append(items, node{typ: alternativeNode, start: tok.start, end: tok.end})
			p.pos++
		default:
			items = append(items, node{typ: textNode, text: tok.text, start: tok.start, end: tok.end})
			p.pos++
		}
	}

	nodes, err := p.splitAlternations(items)
	if err != nil {
		return node{}, err
	}
	return node{typ: expressionNode, nodes: nodes, start: 0, end: len([]rune(expression))}, nil
}

func (p *parser) parseParameter() (node, error) {
	open := p.tokens[p.pos]
	p.pos++
	var name strings.Builder
	for p.pos < len(p.tokens) {
		tok := p.tokens[p.pos]
		switch tok.typ {
		case tokenEndParameter:
			p.pos++
			return node{typ: parameterNode, text: name.String(), start: open.start, end: tok.end}, nil
		case tokenBeginParameter:
			return node{}, grammarError(p.expression, tok.start, "A parameter type may not contain another parameter type", `If you did not mean to use a parameter type you can use '\{' to escape it`)
		}
		name.WriteString(tok.text)
		p.pos++
	}
	return node{}, grammarError(p.expression, open.start, "The '{' does not have a matching '}'", `If you did not intend to use a parameter you can use '\{' to escape it`)
}

// parseOptional reads "(text)". The content may hold literal text and
// alternations only; alternatives inside are bounded by the parentheses.
func (p *parser) parseOptional() (node, error) {
	open := p.tokens[p.pos]
	p.pos++

	var alternatives [][]node
	var current []node
	for p.pos < len(p.tokens) {
		tok := p.tokens[p.pos]
		switch tok.typ {
		case tokenEndOptional:
			p.pos++
			alternatives = append(alternatives, current)
			return p.finishOptional(open, tok, alternatives)
		case tokenBeginOptional:
			return node{}, grammarError(p.expression, tok.start, "An optional may not contain another optional", `If you did not mean to use an optional you can use '\(' to escape it`)
		case tokenBeginParameter:
			return node{}, grammarError(p.expression, tok.start, "An optional may not contain a parameter type", `If you did not mean to use a parameter type you can use '\{' to escape it`)
		case tokenEndParameter:
			return node{}, grammarError(p.expression, tok.start, "The '}' does not have a matching '{'", `If you did not intend to use a parameter you can use '\}' to escape it`)
		case tokenAlternation:
			alternatives = append(alternatives, current)
			current = nil
		default:
			current = appendText(current, tok)
		}
		p.pos++
	}
	return node{}, grammarError(p.expression, open.start, "The '(' does not have a matching ')'", `If you did not intend to use optional text you can use '\(' to escape it`)
}

func (p *parser) finishOptional(open, closing token, alternatives [][]node) (node, error) {
	if len(alternatives) == 1 {
		if len(alternatives[0]) == 0 {
			return node{}, grammarError(p.expression, open.start, "An optional must contain some text", `If you did not mean to use an optional you can use '\(' to escape it`)
		}
		return node{typ: optionalNode, nodes: alternatives[0], start: open.start, end: closing.end}, nil
	}

	alternation := node{typ: alternationNode, start: open.start + 1, end: closing.start}
	for _, alt := range alternatives {
		if len(alt) == 0 {
			return node{}, grammarError(p.expression, open.start, "Alternative may not be empty", `If you did not mean to use an alternative you can use '\/' to escape it`)
		}
		alternation.nodes = append(alternation.nodes, node{typ: alternativeNode, nodes: alt, start: alt[0].start, end: alt[len(alt)-1].end})
	}
	return node{typ: optionalNode, nodes: []node{alternation}, start: open.start, end: closing.end}, nil
}

// splitAlternations groups the top level items into words bounded by
// whitespace, parameters, and the ends of the expression. A word holding a
// '/' becomes an alternation of the pieces between the slashes. Separator
// markers arrive as alternativeNode entries without children.
func (p *parser) splitAlternations(items []node) ([]node, error) {
	var out []node
	var word []node

	flush := func() error {
		if len(word) == 0 {
			return nil
		}
		defer func() { word = nil }()

		hasSeparator := false
		for _, n := range word {
			if isSeparator(n) {
				hasSeparator = true
				break
			}
		}
		if !hasSeparator {
			out = appendNodes(out, word)
			return nil
		}

		alternation := node{typ: alternationNode, start: word[0].start, end: word[len(word)-1].end}
		var current []node
		start := word[0].start
		for _, n := range word {
			if isSeparator(n) {
				if len(current) == 0 {
					return grammarError(p.expression, start, "Alternative may not be empty", `If you did not mean to use an alternative you can use '\/' to escape it`)
				}
				alternation.nodes = append(alternation.nodes, alternative(current))
				current = nil
				start = n.end
				continue
			}
			current = appendNodes(current, []node{n})
		}
		if len(current) == 0 {
			return grammarError(p.expression, start, "Alternative may not be empty", `If you did not mean to use an alternative you can use '\/' to escape it`)
		}
		alternation.nodes = append(alternation.nodes, alternative(current))
		out = append(out, alternation)
		return nil
	}

	for _, n := range items {
		if n.typ == parameterNode || isWhitespace(n) {
			if err := flush(); err != nil {
				return nil, err
			}
			out = appendNodes(out, []node{n})
			continue
		}
		word = append(word, n)
	}
	if err := flush(); err != nil {
		return nil, err
	}
	return out, nil
}

func alternative(nodes []node) node {
	return node{typ: alternativeNode, nodes: nodes, start: nodes[0].start, end: nodes[len(nodes)-1].end}
}

func isSeparator(n node) bool {
	return n.typ == alternativeNode && n.nodes == nil
}

func isWhitespace(n node) bool {
	return n.typ == textNode && strings.TrimSpace(n.text) == ""
}

// appendNodes appends nodes to dst, merging adjacent text.
func appendNodes(dst []node, nodes []node) []node {
	for _, n := range nodes {
		if n.typ == textNode && len(dst) > 0 {
			last := &dst[len(dst)-1]
			if last.typ == textNode && last.end == n.start {
				last.text += n.text
				last.end = n.end
				continue
			}
		}
		dst = append(dst, n)
	}
	return dst
}

func appendText(dst []node, tok token) []node {
	return appendNodes(dst, []node{{typ: textNode, text: tok.text, start: tok.start, end: tok.end}})
}
