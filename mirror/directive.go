package mirror

import (
	"fmt"
	"go/ast"
	"go/token"
	"strings"

	"github.com/arloliu/archive/errs"
)

const directivePrefix = "//archive:"

// directive is a parsed //archive: comment.
type directive struct {
	kind     Kind
	variants []string
	repr     string
	pos      token.Pos
}

// parseDirective returns the archive directive in doc, or nil if it has
// none. Directive comments are read from the raw list because
// CommentGroup.Text drops them.
func parseDirective(doc *ast.CommentGroup) (*directive, error) {
	if doc == nil {
		return nil, nil
	}

	var found *directive
	for _, c := range doc.List {
		if !strings.HasPrefix(c.Text, directivePrefix) {
			continue
		}
		if found != nil {
			return nil, fmt.Errorf("%w: more than one archive directive", errs.ErrInvalidDirective)
		}

		d, err := parseDirectiveLine(strings.TrimPrefix(c.Text, directivePrefix))
		if err != nil {
			return nil, err
		}
		d.pos = c.Slash
		found = d
	}

	return found, nil
}

func parseDirectiveLine(line string) (*directive, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: empty directive", errs.ErrInvalidDirective)
	}

	name, args := fields[0], fields[1:]
	switch name {
	case "generate":
		if len(args) > 0 {
			return nil, fmt.Errorf("%w: archive:generate takes no arguments", errs.ErrInvalidDirective)
		}

		return &directive{kind: KindRecord}, nil

	case "variants":
		if len(args) == 0 {
			return nil, fmt.Errorf("%w: archive:variants lists no variants", errs.ErrInvalidDirective)
		}
		seen := make(map[string]bool, len(args))
		for _, v := range args {
			if !token.IsIdentifier(v) {
				return nil, fmt.Errorf("%w: invalid variant name %q", errs.ErrInvalidDirective, v)
			}
			if seen[v] {
				return nil, fmt.Errorf("%w: variant %s listed twice", errs.ErrInvalidDirective, v)
			}
			seen[v] = true
		}

		return &directive{kind: KindVariant, variants: args}, nil

	case "copy":
		d := &directive{kind: KindCopy}
		for _, arg := range args {
			key, value, ok := strings.Cut(arg, "=")
			if !ok || key != "repr" || value == "" {
				return nil, fmt.Errorf("%w: unknown archive:copy argument %q", errs.ErrInvalidDirective, arg)
			}
			d.repr = value
		}

		return d, nil

	default:
		return nil, fmt.Errorf("%w: unknown directive archive:%s", errs.ErrInvalidDirective, name)
	}
}
