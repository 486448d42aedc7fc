package imaging

import (
	"go/ast"
	"go/parser"
	"go/token"
	"strings"
	"testing"
)

// funcDocs returns the doc comment of every function and method declared in
// file, keyed by name.
func funcDocs(t *testing.T, file string) map[string]string {
	t.Helper()
	f, err := parser.ParseFile(token.NewFileSet(), file, nil, parser.ParseComments)
	if err != nil {
		t.Fatalf("failed to parse %s: %v", file, err)
	}
	docs := make(map[string]string)
	for _, decl := range f.Decls {
		if fn, ok := decl.(*ast.FuncDecl); ok {
			docs[fn.Name.Name] = fn.Doc.Text()
		}
	}
	return docs
}

func TestExportedDocSections(t *testing.T) {
	tests := []struct {
		file     string
		name     string
		sections []string
	}{
		{"loader.go", "Load", []string{"Parameters:", "Returns:", "# Errors"}},
		{"loader.go", "LoadBuffer", []string{"Parameters:", "Returns:", "# Errors"}},
		{"loader.go", "Evict", []string{"Parameters:"}},
		{"loader.go", "LoadImageInfo", []string{"Parameters:", "Returns:", "# Format Detection"}},
		{"loader.go", "GetDimensions", []string{"Parameters:", "Returns:"}},
		{"convert.go", "FromBuffer", []string{"Parameters:", "Returns:", "# Errors"}},
		{"result.go", "EncodeBuffer", []string{"Parameters:", "Returns:"}},
		{"sheet.go", "Save", []string{"Parameters:", "# Errors"}},
		{"label.go", "AnnotateRects", []string{"Parameters:", "# Errors"}},
		{"color.go", "SummarizeColor", []string{"Parameters:", "Returns:"}},
	}

	docs := make(map[string]map[string]string)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if docs[tt.file] == nil {
				docs[tt.file] = funcDocs(t, tt.file)
			}
			doc, ok := docs[tt.file][tt.name]
			if !ok {
				t.Fatalf("%s not declared in %s", tt.name, tt.file)
			}
			for _, section := range tt.sections {
				if !strings.Contains(doc, section) {
					t.Errorf("%s doc missing %q section", tt.name, section)
				}
			}
		})
	}
}
