// Package patch rewrites a text file in place with line-oriented rules.
//
// Two rule kinds exist. A substitution rewrites the matching part of any
// line it matches. A region rule fires on an anchor line: the anchor is
// kept, the payload is emitted right after it, and every following input
// line is dropped until a line matches the rule's terminator. The
// terminator line itself is kept.
//
// Rules run in registration order on every line, and later rules see the
// output of earlier substitutions on the same line. Several regions may be
// pending at once. The engine assumes a single writer per target file.
package patch

import (
	"regexp"
	"strings"

	"github.com/arthur-debert/buildsetup/pkg/errors"
)

// Kind selects the behaviour of a Rule
type Kind int

const (
	Substitute Kind = iota
	Region
)

func (k Kind) String() string {
	if k == Region {
		return "region"
	}
	return "substitute"
}

// Rule is one registered rewrite
type Rule struct {
	Kind Kind

	// Pattern is the substitution pattern or the region anchor
	Pattern *regexp.Regexp

	// Replacement is inserted literally in place of each Pattern match
	Replacement string

	// Terminator ends a region's suppression; nil means insert only
	Terminator *regexp.Regexp

	// Payload is emitted after the anchor line
	Payload string
}

// NewSubstitute compiles a substitution rule
func NewSubstitute(pattern, replacement string) (Rule, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return Rule{}, errors.Wrapf(err, errors.ErrPatchRule, "invalid substitution pattern %q", pattern)
	}
	return Rule{Kind: Substitute, Pattern: re, Replacement: replacement}, nil
}

// NewRegion compiles a region rule. An empty terminator makes the rule
// insert its payload without suppressing anything.
func NewRegion(anchor, terminator, payload string) (Rule, error) {
	re, err := regexp.Compile(anchor)
	if err != nil {
		return Rule{}, errors.Wrapf(err, errors.ErrPatchRule, "invalid region anchor %q", anchor)
	}
	rule := Rule{Kind: Region, Pattern: re, Payload: payload}
	if terminator != "" {
		term, err := regexp.Compile(terminator)
		if err != nil {
			return Rule{}, errors.Wrapf(err, errors.ErrPatchRule, "invalid region terminator %q", terminator)
		}
		rule.Terminator = term
	}
	return rule, nil
}

// Stats summarises one rewrite
type Stats struct {
	Lines         int
	Substitutions int
	Regions       int
	Suppressed    int
}

// Rewrite applies rules to content in a single forward pass. A region that
// is still suppressing at end of input is an error and no output is
// returned.
func Rewrite(content string, rules []Rule) (string, Stats, error) {
	var stats Stats
	if content == "" {
		return "", stats, nil
	}

	trailingNewline := strings.HasSuffix(content, "\n")
	lines := strings.Split(strings.TrimSuffix(content, "\n"), "\n")
	out := make([]string, 0, len(lines))

	// pending holds the regions whose terminator has not been seen yet
	var pending []Rule

	for _, line := range lines {
		stats.Lines++

		var anchored []Rule
		for _, rule := range rules {
			if !rule.Pattern.MatchString(line) {
				continue
			}
			switch rule.Kind {
			case Substitute:
				line = rule.Pattern.ReplaceAllLiteralString(line, rule.Replacement)
				stats.Substitutions++
			case Region:
				anchored = append(anchored, rule)
			}
		}

		suppressing := len(pending) > 0
		terminated := false
		if suppressing {
			remaining := make([]Rule, 0, len(pending))
			for _, p := range pending {
				if p.Terminator.MatchString(line) {
					terminated = true
					continue
				}
				remaining = append(remaining, p)
			}
			pending = remaining
		}

		switch {
		case len(anchored) > 0:
			out = append(out, line)
			for _, rule := range anchored {
				stats.Regions++
				if rule.Payload != "" {
					out = append(out, rule.Payload)
				}
				if rule.Terminator != nil {
					pending = append(pending, rule)
				}
			}
		case terminated || !suppressing:
			out = append(out, line)
		default:
			stats.Suppressed++
		}
	}

	if len(pending) > 0 {
		anchors := make([]string, 0, len(pending))
		for _, p := range pending {
			anchors = append(anchors, p.Pattern.String())
		}
		return "", stats, errors.Newf(errors.ErrPatchUnterminated,
			"region never terminated: %s", strings.Join(anchors, ", ")).
			WithDetail("anchors", anchors)
	}

	result := strings.Join(out, "\n")
	if trailingNewline {
		result += "\n"
	}
	return result, stats, nil
}
