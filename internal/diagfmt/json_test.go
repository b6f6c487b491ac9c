package diagfmt

import (
	"bytes"
	"encoding/json"
	"testing"

	"hxsl/internal/diag"
	"hxsl/internal/source"
)

func TestJSONBasic(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("shaders/test.hxsl", []byte("namespace N;\nfloat4 x = \"oops\n"))

	bag := diag.NewBag(10)
	d := diag.New(diag.SevError, diag.LexUnterminatedString, source.Span{File: fileID, Start: 24, End: 29}, "Unterminated string literal")
	bag.Add(d.WithNote(source.Span{File: fileID, Start: 0, End: 9}, "in namespace N"))
	bag.Add(diag.New(diag.SevInfo, diag.ObsTimings, source.Span{}, "timings").WithNote(source.Span{}, `{"total_ms":1}`))

	var buf bytes.Buffer
	if err := JSON(&buf, bag, fs, JSONOpts{IncludePositions: true, PathMode: PathModeBasename}); err != nil {
		t.Fatalf("JSON() error: %v", err)
	}
	var output DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &output); err != nil {
		t.Fatalf("Invalid JSON output: %v\nOutput: %s", err, buf.String())
	}
	if output.Count != 2 {
		t.Fatalf("count = %d", output.Count)
	}
	first := output.Diagnostics[0]
	if first.Severity != "ERROR" || first.Code != "LEX1002" || first.Title != "Unterminated string" {
		t.Fatalf("first = %+v", first)
	}
	if loc := first.Location; loc == nil || loc.File != "test.hxsl" || loc.StartLine != 2 || loc.StartCol != 12 || loc.EndCol != 17 {
		t.Fatalf("location = %+v", first.Location)
	}
	// без IncludeNotes заметки опускаются, кроме таймингов
	if len(first.Notes) != 0 {
		t.Fatalf("notes = %+v", first.Notes)
	}
	timing := output.Diagnostics[1]
	if timing.Location != nil || len(timing.Notes) != 1 || timing.Notes[0].Location != nil {
		t.Fatalf("timing = %+v", timing)
	}
}

func TestJSONMax(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("x.hxsl", []byte("abc"))
	bag := diag.NewBag(10)
	for i := range 3 {
		bag.Add(diag.NewError(diag.LexUnknownChar, source.Span{File: fileID, Start: uint32(i), End: uint32(i) + 1}, "bad"))
	}
	out := BuildDiagnosticsOutput(bag, fs, JSONOpts{Max: 2})
	if out.Count != 2 || out.Diagnostics[1].Location.StartLine != 0 {
		t.Fatalf("out = %+v", out)
	}
}

func TestSarif(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("x.hxsl", []byte("namespace N;\nTexture2D t;\n"))
	bag := diag.NewBag(4)
	bag.Add(diag.NewError(diag.SemaUnresolvedType, source.Span{File: fileID, Start: 13, End: 22}, "unknown type"))
	bag.Add(diag.New(diag.SevWarning, diag.SemaUnresolvedType, source.Span{File: fileID, Start: 13, End: 22}, "unknown type"))

	var buf bytes.Buffer
	if err := Sarif(&buf, bag, fs, SarifRunMeta{ToolName: "hxslc", ToolVersion: "0.1.0", InvocationArgs: []string{"compile"}}); err != nil {
		t.Fatal(err)
	}
	var log sarifLog
	if err := json.Unmarshal(buf.Bytes(), &log); err != nil {
		t.Fatal(err)
	}
	run := log.Runs[0]
	if log.Version != "2.1.0" || run.Tool.Driver.Name != "hxslc" || len(run.Tool.Driver.Rules) != 1 {
		t.Fatalf("log = %+v", log)
	}
	if len(run.Results) != 2 || run.Results[0].Level != "error" || run.Results[1].Level != "warning" {
		t.Fatalf("results = %+v", run.Results)
	}
	if r := run.Results[0].Locations[0].PhysicalLocation.Region; r.StartLine != 2 || r.StartColumn != 1 || r.EndColumn != 10 {
		t.Fatalf("region = %+v", r)
	}
	if run.Invocations[0].ExecutionSuccessful {
		t.Fatalf("errors reported as success")
	}
}
