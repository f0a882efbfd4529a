package function

import (
	"fmt"
	"strconv"
)

// Template renders a function by substituting arguments into a pattern.
// ?1 refers to the first argument, ?2 to the second, and so on. A lone
// '?' not followed by a digit is copied through.
//
//	Template{FuncName: "year", Pattern: "extract(year from ?1)"}
type Template struct {
	FuncName string
	Pattern  string
}

func (t Template) Name() string { return t.FuncName }

func (t Template) Render(ctx *RenderContext) error {
	p := t.Pattern
	start := 0
	for i := 0; i < len(p); i++ {
		if p[i] != '?' {
			continue
		}
		j := i + 1
		for j < len(p) && p[j] >= '0' && p[j] <= '9' {
			j++
		}
		if j == i+1 {
			continue
		}
		n, err := strconv.Atoi(p[i+1 : j])
		if err != nil || n < 1 || n > len(ctx.Args) {
			return fmt.Errorf("%s: pattern references argument %s but %d given", t.FuncName, p[i:j], len(ctx.Args))
		}
		ctx.AddChunk(p[start:i])
		ctx.AddArgument(n - 1)
		start = j
		i = j - 1
	}
	ctx.AddChunk(p[start:])
	return nil
}
