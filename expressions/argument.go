package expressions

// Group is the span of text one capture group matched. Value is nil when the
// group did not take part in the match.
type Group struct {
	Value *string
	Start int
	End   int
}

func groupAt(text string, indices []int, n int) Group {
	start, end := indices[2*n], indices[2*n+1]
	if start < 0 {
		return Group{Start: -1, End: -1}
	}
	v := text[start:end]
	return Group{Value: &v, Start: start, End: end}
}

// Argument is the text captured for one parameter occurrence. Transformation
// happens in Value, separately for every call and every Argument, so one
// failing argument never affects another.
type Argument struct {
	parameterType *ParameterType
	group         Group
	values        []*string
}

func (a *Argument) ParameterType() *ParameterType {
	return a.parameterType
}

// Group returns the span matched by the whole parameter occurrence.
func (a *Argument) Group() Group {
	return a.group
}

// Values returns the captured values handed to the transformer.
func (a *Argument) Values() []*string {
	return append([]*string(nil), a.values...)
}

// Value transforms the captured values with the parameter type's transformer.
func (a *Argument) Value() (any, error) {
	return a.parameterType.transform(a.values)
}
