package scan

import (
	"fmt"
	"go/ast"
	"go/token"
	"strings"
)

const directivePrefix = "//adaptergen:"

// directive is one parsed //adaptergen:<name> comment line.
type directive struct {
	name string
	args []directiveArg
	pos  token.Pos
}

// directiveArg is key=value, or a bare flag with an empty value.
type directiveArg struct {
	key   string
	value string
	flag  bool
}

// findDirective returns the first directive named name in the comment groups.
func findDirective(name string, groups ...*ast.CommentGroup) (directive, bool) {
	for _, g := range groups {
		if g == nil {
			continue
		}
		for _, c := range g.List {
			d, ok := parseDirective(c)
			if ok && d.name == name {
				return d, true
			}
		}
	}
	return directive{}, false
}

func parseDirective(c *ast.Comment) (directive, bool) {
	rest, ok := strings.CutPrefix(c.Text, directivePrefix)
	if !ok {
		return directive{}, false
	}
	fields := strings.Fields(rest)
	if len(fields) == 0 {
		return directive{}, false
	}
	d := directive{name: fields[0], pos: c.Slash}
	for _, f := range fields[1:] {
		if key, value, ok := strings.Cut(f, "="); ok {
			d.args = append(d.args, directiveArg{key: key, value: value})
		} else {
			d.args = append(d.args, directiveArg{key: f, flag: true})
		}
	}
	return d, true
}

// adapterArgs are the options of an //adaptergen:adapter directive.
type adapterArgs struct {
	target   string
	ctor     string
	context  bool
	typeArgs bool
}

func (d directive) adapterArgs() (adapterArgs, error) {
	var a adapterArgs
	for _, arg := range d.args {
		switch {
		case arg.key == "target" && !arg.flag:
			a.target = arg.value
		case arg.key == "ctor" && !arg.flag:
			a.ctor = arg.value
		case arg.key == "context" && arg.flag:
			a.context = true
		case arg.key == "typeargs" && arg.flag:
			a.typeArgs = true
		default:
			return adapterArgs{}, fmt.Errorf("unknown adapter option %q", arg.key)
		}
	}
	if a.target == "" {
		return adapterArgs{}, fmt.Errorf("adapter directive requires target=<Type>")
	}
	if a.ctor != "" && !token.IsIdentifier(a.ctor) {
		return adapterArgs{}, fmt.Errorf("ctor %q is not an identifier", a.ctor)
	}
	return a, nil
}
