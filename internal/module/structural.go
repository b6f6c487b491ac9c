package module

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"hxsl/internal/diag"
	"hxsl/internal/lexer"
	"hxsl/internal/source"
	"hxsl/internal/stream"
	"hxsl/internal/token"
	"hxsl/internal/types"
)

// Load reads a module from path: a TOML manifest, a structural module file
// (`module Name;` header), or a bare shader file that becomes a one-shader
// module named after the file.
func Load(fs *source.FileSet, path string) (*Module, error) {
	if strings.EqualFold(filepath.Ext(path), ManifestExt) {
		return LoadManifest(fs, path)
	}
	id, err := fs.Load(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	file := fs.Get(id)
	if IsModuleSource(file) {
		return ParseSource(file, nil)
	}
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return &Module{
		Name:    name,
		Path:    path,
		Shaders: []Shader{{Name: name, Source: string(file.Content), File: path}},
	}, nil
}

// IsModuleSource reports whether file starts with a `module` declaration.
func IsModuleSource(file *source.File) bool {
	lx := lexer.New(file, lexer.Options{Config: lexer.Structural})
	for {
		tok := lx.Next()
		if tok.Kind != token.Comment {
			return tok.IsKeyword(token.KwModule)
		}
	}
}

// ParseSource parses the structural module grammar:
//
//	module Name ["version"];
//	import Name ["constraint"];
//	property type Name [= v, v, ...];
//	shader Name { hxsl }
//	pass Name { stage = Shader.Function; blend = Mode; }
func ParseSource(file *source.File, reporter diag.Reporter) (*Module, error) {
	lx := lexer.New(file, lexer.Options{Config: lexer.Structural, Reporter: reporter})
	s, err := stream.New(lx, stream.Options{})
	if err != nil {
		return nil, err
	}
	mp := moduleParser{file: file, s: s, m: &Module{Path: file.Path}, cat: types.NewCatalog()}
	if err := mp.parse(); err != nil {
		return nil, err
	}
	if err := errors.Join(mp.errs...); err != nil {
		return nil, err
	}
	if err := mp.m.Validate(); err != nil {
		return nil, err
	}
	return mp.m, nil
}

type moduleParser struct {
	file *source.File
	s    *stream.Stream
	m    *Module
	cat  *types.Catalog
	errs []error
}

func (mp *moduleParser) errorf(code diag.Code, sp source.Span, format string, args ...any) {
	e := newError(code, mp.file.Path, format, args...)
	e.Span = sp
	mp.errs = append(mp.errs, e)
}

func (mp *moduleParser) parse() error {
	if _, err := mp.s.ExpectKeyword(token.KwModule); err != nil {
		return err
	}
	name, err := mp.s.ExpectIdentifier()
	if err != nil {
		return err
	}
	mp.m.Name = name.Text
	if lit, ok := mp.tryString(); ok {
		if mp.m.Version, err = ParseVersion(lit.text); err != nil {
			mp.errorf(diag.ProjBadVersion, lit.span, "%v", err)
		}
	}
	if _, err := mp.s.ExpectDelimiter(';'); err != nil {
		return err
	}

	for !mp.s.IsEndOfTokens() {
		cur := mp.s.Current()
		var err error
		switch cur.Keyword() {
		case token.KwImport:
			err = mp.parseImport()
		case token.KwProperty:
			err = mp.parseProperty()
		case token.KwShader:
			err = mp.parseShader()
		case token.KwPass:
			err = mp.parsePass()
		default:
			err = diag.SyntaxFault(diag.SynUnknownDecl, cur.Span, "import, property, shader or pass", cur.Describe())
		}
		if err != nil {
			return err
		}
	}
	return nil
}

type stringLit struct {
	text string
	span source.Span
}

func (mp *moduleParser) tryString() (stringLit, bool) {
	cur := mp.s.Current()
	if cur.Kind != token.Literal || !strings.HasPrefix(cur.Text, `"`) {
		return stringLit{}, false
	}
	mp.s.TryAdvance()
	text, err := strconv.Unquote(cur.Text)
	if err != nil {
		text = strings.Trim(cur.Text, `"`)
	}
	return stringLit{text: text, span: cur.Span}, true
}

func (mp *moduleParser) parseImport() error {
	mp.s.TryAdvance()
	name, err := mp.qualifiedName()
	if err != nil {
		return err
	}
	constraint, _ := mp.tryString()
	imp, perr := ParseImport(name.text, constraint.text)
	if perr != nil {
		mp.errorf(diag.ProjImportConstraint, constraint.span, "%v", perr)
	} else {
		mp.m.Imports = append(mp.m.Imports, imp)
	}
	_, err = mp.s.ExpectDelimiter(';')
	return err
}

func (mp *moduleParser) qualifiedName() (stringLit, error) {
	first, err := mp.s.ExpectIdentifier()
	if err != nil {
		return stringLit{}, err
	}
	out := stringLit{text: first.Text, span: first.Span}
	for mp.s.TryGetOperator(token.OpDot) {
		seg, err := mp.s.ExpectIdentifier()
		if err != nil {
			return stringLit{}, err
		}
		out.text += "." + seg.Text
		out.span = out.span.Cover(seg.Span)
	}
	return out, nil
}

func (mp *moduleParser) parseProperty() error {
	mp.s.TryAdvance()
	typ, err := mp.s.ExpectIdentifier()
	if err != nil {
		return err
	}
	name, err := mp.s.ExpectIdentifier()
	if err != nil {
		return err
	}
	p := Property{Name: name.Text}
	var ok bool
	if p.Type, ok = ParseSType(mp.cat, typ.Text); !ok {
		mp.errorf(diag.ProjUnknownPropertyType, typ.Span, "property %q: unknown type %q", name.Text, typ.Text)
	}
	if mp.s.TryGetOperator(token.OpAssign) {
		for {
			v, err := mp.parseNumber()
			if err != nil {
				return err
			}
			p.Default = append(p.Default, v)
			if !mp.s.TryGetDelimiter(',') {
				break
			}
		}
	}
	mp.m.AddProperty(p)
	_, err = mp.s.ExpectDelimiter(';')
	return err
}

// parseNumber: [-] literal | true | false.
func (mp *moduleParser) parseNumber() (float64, error) {
	neg := mp.s.TryGetOperator(token.OpMinus)
	cur := mp.s.Current()
	if cur.Kind != token.Literal || strings.HasPrefix(cur.Text, `"`) {
		return 0, diag.SyntaxFault(diag.SynUnexpectedToken, cur.Span, "number", cur.Describe())
	}
	mp.s.TryAdvance()
	var v float64
	switch cur.Text {
	case "true":
		v = 1
	case "false":
	default:
		f, err := parseNumberLiteral(cur.Text)
		if err != nil {
			mp.errorf(diag.ProjManifestInvalid, cur.Span, "bad number %q", cur.Text)
		}
		v = f
	}
	if neg {
		v = -v
	}
	return v, nil
}

func parseNumberLiteral(text string) (float64, error) {
	lower := strings.ToLower(text)
	if strings.HasPrefix(lower, "0x") {
		n, err := strconv.ParseUint(strings.TrimRight(lower, "ul")[2:], 16, 64)
		return float64(n), err
	}
	return strconv.ParseFloat(strings.TrimRight(lower, "fhul"), 64)
}

func (mp *moduleParser) parseShader() error {
	mp.s.TryAdvance()
	name, err := mp.s.ExpectIdentifier()
	if err != nil {
		return err
	}
	body, err := mp.expectCodeblock()
	if err != nil {
		return err
	}
	mp.m.Shaders = append(mp.m.Shaders, Shader{
		Name:   name.Text,
		Source: lexer.CodeblockBody(body),
		File:   mp.file.Path + "#" + name.Text,
	})
	return nil
}

func (mp *moduleParser) expectCodeblock() (token.Token, error) {
	cur := mp.s.Current()
	if cur.Kind != token.Codeblock {
		if cur.IsEOF() {
			f := diag.StreamFault(cur.Span, "")
			f.Expected, f.Found = "'{'", cur.Describe()
			return token.Token{}, f
		}
		return token.Token{}, diag.SyntaxFault(diag.SynExpectDelimiter, cur.Span, "'{'", cur.Describe())
	}
	mp.s.TryAdvance()
	return cur, nil
}

func (mp *moduleParser) parsePass() error {
	mp.s.TryAdvance()
	name, err := mp.s.ExpectIdentifier()
	if err != nil {
		return err
	}
	body, err := mp.expectCodeblock()
	if err != nil {
		return err
	}
	pass := Pass{Name: name.Text, Stages: make(map[Stage]EntryPoint)}

	// тело pass лексится отдельно, с позициями в том же файле
	bs, err := stream.New(stream.NewSliceSource(mp.bodyTokens(body)), stream.Options{})
	if err != nil {
		return err
	}
	for !bs.IsEndOfTokens() {
		key, err := bs.ExpectIdentifier()
		if err != nil {
			return err
		}
		if _, err := bs.ExpectOperator(token.OpAssign); err != nil {
			return err
		}
		val := bs.Current()
		if !bs.TryAdvance() {
			return diag.StreamFault(val.Span, "unexpected end of pass body")
		}
		text := val.Text
		if val.Kind == token.Identifier && bs.TryGetOperator(token.OpDot) {
			fn, err := bs.ExpectIdentifier()
			if err != nil {
				return err
			}
			text += "." + fn.Text
			val.Span = val.Span.Cover(fn.Span)
		} else if val.Kind == token.Literal {
			if s, err := strconv.Unquote(text); err == nil {
				text = s
			}
		}
		if _, err := bs.ExpectDelimiter(';'); err != nil {
			return err
		}
		mp.passKey(&pass, key, text, val.Span)
	}
	mp.m.Passes = append(mp.m.Passes, pass)
	return nil
}

func (mp *moduleParser) passKey(pass *Pass, key token.Token, value string, sp source.Span) {
	if st, ok := ParseStage(key.Text); ok {
		ep, ok := ParseEntryPoint(value)
		if !ok {
			mp.errorf(diag.ProjManifestInvalid, sp, "pass %q: %s entry %q is not Shader.Function", pass.Name, st, value)
			return
		}
		pass.Stages[st] = ep
		return
	}
	switch strings.ToLower(key.Text) {
	case "blend":
		pass.Blend = value
	case "depth":
		pass.Depth = value
	case "rasterizer":
		pass.Rasterizer = value
	default:
		mp.errorf(diag.ProjManifestInvalid, key.Span, "pass %q: unknown key %q", pass.Name, key.Text)
	}
}

// bodyTokens re-lexes the inside of a codeblock and terminates it with EOF.
func (mp *moduleParser) bodyTokens(body token.Token) []token.Token {
	lx := lexer.New(mp.file, lexer.Options{Config: lexer.Structural})
	lx.Seek(body.Span.Start + 1)
	closing := body.Span.End - 1
	var out []token.Token
	for {
		tok := lx.Next()
		if tok.IsEOF() || tok.Span.Start >= closing {
			out = append(out, token.Token{Kind: token.EOF, Span: source.Span{File: body.Span.File, Start: closing, End: closing}})
			return out
		}
		out = append(out, tok)
	}
}
