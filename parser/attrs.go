package parser

import (
	"errors"
	"reflect"
	"strconv"
	"strings"

	"github.com/mlwelles/rttigen/model"
)

// deriveMarker is the directive argument that requests derivation.
const deriveMarker = "derive"

var errUnterminatedQuote = errors.New("unterminated quoted string")

// fieldAttributes extracts the namespace entry from a struct tag. Other tag
// keys are never inspected. The second result is false when the tag has no
// entry for the namespace.
func fieldAttributes(tag, namespace string) (model.Attributes, bool) {
	raw, ok := reflect.StructTag(tag).Lookup(namespace)
	if !ok {
		return model.Attributes{}, false
	}
	return parseAttributes(raw), true
}

// directives returns the arguments of every "//<namespace>:" line in the
// given comment texts, in order. Lines with a space after "//" are ordinary
// comments and are skipped.
func directives(comments []string, namespace string) []string {
	prefix := "//" + namespace + ":"
	var out []string
	for _, c := range comments {
		if arg, ok := strings.CutPrefix(c, prefix); ok {
			out = append(out, strings.TrimSpace(arg))
		}
	}
	return out
}

// hasMarker reports whether the derive marker is among the directives.
func hasMarker(dirs []string) bool {
	for _, d := range dirs {
		if d == deriveMarker {
			return true
		}
	}
	return false
}

// directiveAttributes merges the attribute items of all directives except
// the derive marker.
func directiveAttributes(dirs []string) model.Attributes {
	var attrs model.Attributes
	for _, d := range dirs {
		if d == deriveMarker {
			continue
		}
		a := parseAttributes(d)
		attrs.Hints = append(attrs.Hints, a.Hints...)
		attrs.Ignore = attrs.Ignore || a.Ignore
		attrs.Malformed = append(attrs.Malformed, a.Malformed...)
	}
	return attrs
}

// parseAttributes parses a comma separated item list:
//
//	ignore
//	hint=free text
//	hint="quoted, with commas"
//
// "ignore" may repeat. Hints accumulate in encounter order, duplicates
// included. Unknown items are skipped. Input that cannot be split, or a
// quoted hint that cannot be unquoted, is recorded in Malformed.
func parseAttributes(raw string) model.Attributes {
	var attrs model.Attributes
	if strings.TrimSpace(raw) == "" {
		attrs.Malformed = append(attrs.Malformed, raw)
		return attrs
	}
	items, err := splitItems(raw)
	if err != nil {
		attrs.Malformed = append(attrs.Malformed, raw)
		return attrs
	}
	for _, item := range items {
		if item == "ignore" {
			attrs.Ignore = true
			continue
		}
		key, value, ok := strings.Cut(item, "=")
		if !ok || strings.TrimSpace(key) != "hint" {
			continue
		}
		value = strings.TrimSpace(value)
		if strings.HasPrefix(value, `"`) {
			unquoted, err := strconv.Unquote(value)
			if err != nil {
				attrs.Malformed = append(attrs.Malformed, item)
				continue
			}
			value = unquoted
		}
		attrs.Hints = append(attrs.Hints, value)
	}
	return attrs
}

// splitItems splits on commas outside double-quoted strings and trims each
// item. Empty items are dropped.
func splitItems(raw string) ([]string, error) {
	var (
		items   []string
		current strings.Builder
		quoted  bool
		escaped bool
	)
	flush := func() {
		if item := strings.TrimSpace(current.String()); item != "" {
			items = append(items, item)
		}
		current.Reset()
	}
	for _, r := range raw {
		switch {
		case escaped:
			escaped = false
		case quoted && r == '\\':
			escaped = true
		case r == '"':
			quoted = !quoted
		case r == ',' && !quoted:
			flush()
			continue
		}
		current.WriteRune(r)
	}
	if quoted {
		return nil, errUnterminatedQuote
	}
	flush()
	return items, nil
}
