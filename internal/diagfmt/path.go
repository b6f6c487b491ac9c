package diagfmt

import "hxsl/internal/source"

func displayPath(f *source.File, fs *source.FileSet, mode PathMode) string {
	if f == nil {
		return "<unknown>"
	}
	switch mode {
	case PathModeAbsolute:
		return f.FormatPath("absolute", "")
	case PathModeRelative:
		return f.FormatPath("relative", fs.BaseDir())
	case PathModeBasename:
		return f.FormatPath("basename", "")
	default:
		return f.FormatPath("auto", "")
	}
}

// located: нулевой span: диагностика уровня модуля или сборки, без позиции.
func located(sp source.Span, fs *source.FileSet) bool {
	return sp != (source.Span{}) && fs != nil && fs.Get(sp.File) != nil
}
