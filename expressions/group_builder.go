package expressions

import "strings"

// groupNode is one parenthesised group of a regexp source. Offsets are byte
// positions of the group's content, excluding the parentheses and any
// (?:, (?P<name> or flag prefix.
type groupNode struct {
	start, end int
	capturing  bool
	index      int // capture number, 0 for non-capturing groups
	children   []*groupNode
}

// parseGroups scans a regexp source and returns the root of its group tree.
// The root stands for the whole pattern and has capture number 0.
// Capture numbers follow opening parenthesis order, as regexp numbers them.
func parseGroups(src string) *groupNode {
	root := &groupNode{start: 0, end: len(src), capturing: true}
	stack := []*groupNode{root}
	captures := 0

	for i := 0; i < len(src); i++ {
		switch src[i] {
		case '\\':
			if i+1 < len(src) && src[i+1] == 'Q' {
				if end := strings.Index(src[i+2:], `\E`); end >= 0 {
					i += end + 3
				} else {
					i = len(src)
				}
				continue
			}
			i++
		case '[':
			i = skipCharClass(src, i)
		case '(':
			node := &groupNode{}
			node.start, node.capturing = groupContentStart(src, i)
			if node.capturing {
				captures++
				node.index = captures
			}
			stack = append(stack, node)
			if node.start > i+1 && src[node.start-1] != ':' && src[node.start-1] != '>' {
				// flag group such as (?i): the content is empty
				i = node.start - 1
			}
		case ')':
			if len(stack) == 1 {
				continue
			}
			node := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			node.end = i
			if node.start > node.end {
				node.start = node.end
			}
			parent := stack[len(stack)-1]
			parent.children = append(parent.children, node)
		}
	}
	return root
}

// groupContentStart returns where the content of the group opened at i
// begins and whether the group captures.
func groupContentStart(src string, i int) (int, bool) {
	if i+1 >= len(src) || src[i+1] != '?' {
		return i + 1, true
	}
	rest := src[i+2:]
	if strings.HasPrefix(rest, "P<") || strings.HasPrefix(rest, "<") {
		if end := strings.IndexByte(rest, '>'); end >= 0 {
			return i + 2 + end + 1, true
		}
	}
	for j := i + 2; j < len(src); j++ {
		switch src[j] {
		case ':':
			return j + 1, false
		case ')':
			return j, false
		}
	}
	return len(src), false
}

// skipCharClass returns the index of the ']' closing the class opened at i.
func skipCharClass(src string, i int) int {
	j := i + 1
	if j < len(src) && src[j] == '^' {
		j++
	}
	if j < len(src) && src[j] == ']' {
		j++
	}
	for ; j < len(src); j++ {
		switch src[j] {
		case '\\':
			j++
		case '[':
			if j+1 < len(src) && src[j+1] == ':' {
				if end := strings.Index(src[j+2:], ":]"); end >= 0 {
					j += end + 3
				}
			}
		case ']':
			return j
		}
	}
	return len(src) - 1
}

// captures returns the capturing groups nested in g, in capture order.
// Non-capturing groups are looked through.
func (g *groupNode) captures() []*groupNode {
	var out []*groupNode
	for _, c := range g.children {
		if c.capturing {
			out = append(out, c)
		}
		out = append(out, c.captures()...)
	}
	return out
}

// topCaptures returns the outermost capturing groups below g.
func (g *groupNode) topCaptures() []*groupNode {
	var out []*groupNode
	for _, c := range g.children {
		if c.capturing {
			out = append(out, c)
		} else {
			out = append(out, c.topCaptures()...)
		}
	}
	return out
}

func (g *groupNode) source(src string) string {
	return src[g.start:g.end]
}

// countCaptureGroups returns the number of capture groups src declares,
// nested groups included.
func countCaptureGroups(src string) int {
	return len(parseGroups(src).captures())
}
