package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"hxsl/internal/ast"
	"hxsl/internal/source"
)

type treeNode struct {
	label    string
	children []*treeNode
}

func (n *treeNode) add(label string) *treeNode {
	child := &treeNode{label: label}
	n.children = append(n.children, child)
	return child
}

func (n *treeNode) addf(format string, args ...any) *treeNode {
	return n.add(fmt.Sprintf(format, args...))
}

// FormatCompilationTree печатает дерево объявлений: пространства имён,
// using, структуры и классы с полями, функции с параметрами, поля и @-ссылки.
func FormatCompilationTree(w io.Writer, c *ast.Compilation, title string, fs *source.FileSet) error {
	if c == nil || c.Released() {
		return fmt.Errorf("compilation is not available")
	}
	root := buildCompilationTree(c, title, fs)
	if _, err := fmt.Fprintln(w, root.label); err != nil {
		return err
	}
	var sb strings.Builder
	for i, child := range root.children {
		writeTree(&sb, child, "", i == len(root.children)-1)
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

func writeTree(sb *strings.Builder, n *treeNode, prefix string, last bool) {
	branch, next := "├─ ", "│  "
	if last {
		branch, next = "└─ ", "   "
	}
	sb.WriteString(prefix)
	sb.WriteString(branch)
	sb.WriteString(n.label)
	sb.WriteByte('\n')
	for i, child := range n.children {
		writeTree(sb, child, prefix+next, i == len(n.children)-1)
	}
}

func buildCompilationTree(c *ast.Compilation, title string, fs *source.FileSet) *treeNode {
	root := &treeNode{label: fmt.Sprintf("%s (%d namespace(s))", title, len(c.Namespaces))}
	for _, nsID := range c.Namespaces {
		ns := c.Namespace(nsID)
		nsNode := root.addf("Namespace %s (span: %s)", ns.Name, formatSpan(ns.Span, fs))
		for _, u := range ns.Usings {
			if u.Alias != "" {
				nsNode.addf("Using %s = %s", u.Alias, u.Target)
			} else {
				nsNode.addf("Using %s", u.Target)
			}
		}
		for _, id := range ns.Structs {
			s := c.Struct(id)
			sn := nsNode.addf("Struct %s [%s] (span: %s)", s.Header.Name, s.Access, formatSpan(s.Span, fs))
			for _, f := range s.Fields {
				sn.add(fieldLabel(c, c.Field(f)))
			}
		}
		for _, id := range ns.Classes {
			cl := c.Class(id)
			cn := nsNode.addf("Class %s (span: %s)", cl.Header.Name, formatSpan(cl.Span, fs))
			for _, f := range cl.Fields {
				cn.add(fieldLabel(c, c.Field(f)))
			}
		}
		for _, id := range ns.Functions {
			nsNode.add(functionLabel(c, c.Function(id)))
		}
		for _, id := range ns.Fields {
			nsNode.add(fieldLabel(c, c.Field(id)))
		}
		for _, ref := range ns.References {
			if ref.Property >= 0 {
				nsNode.addf("@%s -> property %d", ref.Name, ref.Property)
			} else {
				nsNode.addf("@%s (unlinked)", ref.Name)
			}
		}
	}
	return root
}

func fieldLabel(c *ast.Compilation, f *ast.Field) string {
	var sb strings.Builder
	sb.WriteString("Field ")
	sb.WriteString(f.NameText)
	sb.WriteString(": ")
	sb.WriteString(typeName(c, f.Type))
	if f.Semantic != "" {
		sb.WriteString(" : ")
		sb.WriteString(f.Semantic)
	}
	if f.Flags != ast.ModNone {
		fmt.Fprintf(&sb, " [%s]", f.Flags)
	}
	return sb.String()
}

func functionLabel(c *ast.Compilation, fn *ast.Function) string {
	params := make([]string, 0, len(fn.Params))
	for _, id := range fn.Params {
		p := c.Param(id)
		s := typeName(c, p.Type) + " " + p.NameText
		if p.Flags != ast.ParamNone {
			s = p.Flags.String() + " " + s
		}
		if p.Semantic != "" {
			s += " : " + p.Semantic
		}
		params = append(params, s)
	}
	label := fmt.Sprintf("Function %s(%s) -> %s", fn.NameText, strings.Join(params, ", "), typeName(c, fn.ReturnType))
	if fn.Semantic != "" {
		label += " : " + fn.Semantic
	}
	if fn.Flags != ast.ModNone {
		label += " [" + fn.Flags.String() + "]"
	}
	if !fn.HasBody {
		label += " (prototype)"
	}
	return label
}

// typeName: примитивы по каноническому имени, неразрешённые помечены '?'.
func typeName(c *ast.Compilation, id ast.TypeID) string {
	ty := c.Type(id)
	if ty == nil {
		return "<none>"
	}
	switch v := ty.Variant.(type) {
	case *ast.PrimitiveType:
		return v.Name()
	case *ast.UnresolvedType:
		return ty.Header.Name + "?"
	default:
		return ty.Header.Name
	}
}

func formatSpan(span source.Span, fs *source.FileSet) string {
	if fs != nil && fs.Get(span.File) != nil {
		start, end := fs.Resolve(span)
		return fmt.Sprintf("%d:%d-%d:%d", start.Line, start.Col, end.Line, end.Col)
	}
	return fmt.Sprintf("span(%d-%d)", span.Start, span.End)
}

// DeclNodeJSON is the JSON form of the declaration tree.
type DeclNodeJSON struct {
	Label    string         `json:"label"`
	Children []DeclNodeJSON `json:"children,omitempty"`
}

func (n *treeNode) toJSON() DeclNodeJSON {
	out := DeclNodeJSON{Label: n.label}
	for _, child := range n.children {
		out.Children = append(out.Children, child.toJSON())
	}
	return out
}

// FormatCompilationJSON выводит то же дерево в JSON.
func FormatCompilationJSON(w io.Writer, c *ast.Compilation, title string, fs *source.FileSet) error {
	if c == nil || c.Released() {
		return fmt.Errorf("compilation is not available")
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(buildCompilationTree(c, title, fs).toJSON())
}
