package parser

// Analyzer is one grammar rule. TryParse either consumes a whole declaration
// and returns true, or returns false leaving no trace: the cursor is where it
// was and nothing stays allocated. A returned error is fatal.
type Analyzer interface {
	Name() string
	TryParse(p *Parser) (bool, error)
}

// Registry is the ordered list of analyzers offered each position.
type Registry struct {
	analyzers []Analyzer
}

func NewRegistry(analyzers ...Analyzer) *Registry {
	return &Registry{analyzers: analyzers}
}

// Register appends a to the end of the list.
func (r *Registry) Register(a Analyzer) {
	r.analyzers = append(r.analyzers, a)
}

func (r *Registry) Analyzers() []Analyzer { return r.analyzers }

// TryParse offers the current position to each analyzer in order and stops
// at the first one that matches.
func (r *Registry) TryParse(p *Parser) (bool, error) {
	for _, a := range r.analyzers {
		ok, err := a.TryParse(p)
		if err != nil || ok {
			return ok, err
		}
	}
	return false, nil
}

// DefaultRegistry: struct, class (если включён), @property, declaration.
// Declaration идёт последним: он принимает любой `type name` префикс.
func DefaultRegistry(opts Options) *Registry {
	r := NewRegistry(StructAnalyzer{})
	if opts.Classes {
		r.Register(ClassAnalyzer{})
	}
	r.Register(PropertyRefAnalyzer{})
	r.Register(DeclarationAnalyzer{})
	return r
}
