package display

import "fmt"

// segment is a run of text sharing one style; an empty style means unstyled
type segment struct {
	style string
	text  string
}

const parenLevels = 4

// parenStyle names the style used at a nesting depth (1-based)
func parenStyle(depth int) string {
	return fmt.Sprintf("Paren%d", (depth-1)%parenLevels)
}

// splitParens splits text into segments colored by parenthesis nesting.
// Quotes do not stop parsing: a "$(VAR)" inside a quoted value is still
// colored. An unbalanced ")" is left unstyled.
func splitParens(text string, base string) []segment {
	var (
		segments []segment
		current  []rune
		style    = base
		depth    int
	)

	flush := func() {
		if len(current) > 0 {
			segments = append(segments, segment{style: style, text: string(current)})
			current = current[:0]
		}
	}
	switchTo := func(s string) {
		if s != style {
			flush()
			style = s
		}
	}

	for _, r := range text {
		switch r {
		case '(':
			depth++
			switchTo(parenStyle(depth))
			current = append(current, r)
		case ')':
			if depth == 0 {
				switchTo(base)
				current = append(current, r)
				continue
			}
			switchTo(parenStyle(depth))
			current = append(current, r)
			depth--
			if depth == 0 {
				switchTo(base)
			} else {
				switchTo(parenStyle(depth))
			}
		default:
			if depth > 0 {
				switchTo(parenStyle(depth))
			} else {
				switchTo(base)
			}
			current = append(current, r)
		}
	}
	flush()
	return segments
}
