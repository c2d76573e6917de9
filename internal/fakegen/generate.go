package fakegen

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"go/ast"
	"go/format"
	"go/token"
	"go/types"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/tools/go/packages"
)

const (
	stubTag     = "fakestub"
	verstubName = "verstub"
	verstubPath = "github.com/Versent/go-verstub"
	// maxResults is the largest result count with a verstub.CallN helper.
	maxResults = 4
)

// GenerateResult stores the result for a package from a call to Generate.
type GenerateResult struct {
	// PkgPath is the package's PkgPath.
	PkgPath string
	// OutputPath is the path where the generated output should be written.
	// May be empty if there were errors.
	OutputPath string
	// Content is the gofmt'd source code that was generated. May be nil if
	// there were errors during generation.
	Content []byte
	// Errs is a slice of errors identified during generation.
	Errs []error
}

// Commit writes the generated file to disk.
func (gen GenerateResult) Commit() error {
	if len(gen.Content) == 0 {
		return nil
	}
	return os.WriteFile(gen.OutputPath, gen.Content, 0666)
}

// Generate generates a code file for each package matching the given patterns.
// The code file will contain a fake implementation for each struct type in any
// file in the package that has the fakestub build tag. As a consequence, the
// generated files will not be included in the package's build when using the
// fakestub build tag. Every embedded interface of such a struct is replaced by
// generated methods dispatching to verstub.Call0..Call4, and the struct embeds
// verstub.Double instead. Methods the struct already declares are skipped.
// The generated files will be named fake_gen.go, with an optional prefix.
// The generated files will also include a go:generate comment that can be used
// to regenerate the file.
func Generate(ctx context.Context, patterns []string, opts GenerateOptions) ([]GenerateResult, []error) {
	tags := "-tags=" + stubTag
	if opts.Tags != "" {
		tags += " " + opts.Tags
	}

	pkgs, errs := load(ctx, opts.Dir, opts.Env, []string{tags}, patterns)
	if len(errs) > 0 {
		return nil, errs
	}
	generated := make([]GenerateResult, len(pkgs))
	for i, pkg := range pkgs {
		generated[i].PkgPath = pkg.PkgPath
		outDir, err := detectOutputDir(pkg.GoFiles)
		if err != nil {
			generated[i].Errs = append(generated[i].Errs, err)
			continue
		}
		outputFile := opts.PrefixOutputFile + "fake_gen"
		if strings.HasSuffix(pkg.Name, "_test") {
			outputFile += "_test"
		}
		outputFile += ".go"
		generated[i].OutputPath = filepath.Join(outDir, outputFile)
		g := newGen(pkg)
		errs := generateFakes(g, pkg)
		if len(errs) > 0 {
			generated[i].Errs = errs
			continue
		}
		goSrc := g.frame(opts.PrefixOutputFile, opts.Tags)
		if len(goSrc) == 0 {
			continue
		}
		if len(opts.Header) > 0 {
			goSrc = append(opts.Header, goSrc...)
		}
		fmtSrc, err := format.Source(goSrc)
		if err != nil {
			// This is likely a bug from a poorly generated source file.
			// Add an error but also the unformatted source.
			generated[i].Errs = append(generated[i].Errs, err)
		} else {
			goSrc = fmtSrc
		}
		generated[i].Content = goSrc
	}

	return generated, nil
}

func detectOutputDir(paths []string) (string, error) {
	if len(paths) == 0 {
		return "", errors.New("no files to derive output directory from")
	}
	dir := filepath.Dir(paths[0])
	for _, p := range paths[1:] {
		if dir2 := filepath.Dir(p); dir2 != dir {
			return "", fmt.Errorf("found conflicting directories %q and %q", dir, dir2)
		}
	}
	return dir, nil
}

func isFakeStub(syntax *ast.File) bool {
	for _, group := range syntax.Comments {
		if group.Pos() >= syntax.Package {
			break
		}
		for _, comment := range group.List {
			if comment.Text == "// +build "+stubTag {
				return true
			}
			if comment.Text == "//go:build "+stubTag {
				return true
			}
		}
	}
	return false
}

// fake is a struct declared in a fakestub file.
type fake struct {
	name   string
	doc    *ast.CommentGroup
	decl   *ast.GenDecl
	ifaces []embedded
	named  *types.Named
}

type embedded struct {
	expr  ast.Expr
	iface *types.Interface
}

func generateFakes(g *gen, pkg *packages.Package) (errs []error) {
	for _, syntax := range pkg.Syntax {
		if !isFakeStub(syntax) {
			continue
		}

		for _, impt := range syntax.Imports {
			g.addImport(impt)
		}

		for _, decl := range syntax.Decls {
			genDecl, ok := decl.(*ast.GenDecl)
			if ok && genDecl.Tok == token.IMPORT {
				continue
			}
			if !ok || genDecl.Tok != token.TYPE {
				if err := g.addDecl(nil, decl); err != nil {
					errs = append(errs, err)
				}
				continue
			}

			for _, spec := range genDecl.Specs {
				typeSpec, ok := spec.(*ast.TypeSpec)
				if !ok {
					continue
				}

				obj := pkg.TypesInfo.ObjectOf(typeSpec.Name)
				if obj == nil {
					errs = append(errs, fmt.Errorf("%s: no type information", typeSpec.Name.Name))
					continue
				}
				if _, ok := obj.Type().Underlying().(*types.Struct); !ok {
					if !genDecl.Lparen.IsValid() {
						g.addDoc(genDecl.Doc)
					}
					g.addDoc(typeSpec.Doc)
					decl := &ast.GenDecl{
						Tok: token.TYPE,
						Specs: []ast.Spec{
							clone(typeSpec),
						},
					}
					if err := g.addDecl(typeSpec.Name, decl); err != nil {
						errs = append(errs, err)
					}
					continue
				}
				if typeSpec.TypeParams != nil {
					errs = append(errs, fmt.Errorf("%s: generic fakes are not supported", typeSpec.Name.Name))
					continue
				}

				doc := typeSpec.Doc
				if !genDecl.Lparen.IsValid() {
					doc = genDecl.Doc
				}
				f, err := makeFake(g, pkg, typeSpec, doc)
				if err != nil {
					errs = append(errs, err)
					continue
				}
				errs = append(errs, writeFake(g, f)...)
			}
		}
	}

	return errs
}

// makeFake rewrites the struct, replacing its embedded interfaces by an
// embedded verstub.Double.
func makeFake(g *gen, pkg *packages.Package, typeSpec *ast.TypeSpec, doc *ast.CommentGroup) (*fake, error) {
	structType, ok := typeSpec.Type.(*ast.StructType)
	if !ok {
		return nil, fmt.Errorf("%s: expected a struct literal", typeSpec.Name.Name)
	}
	f := &fake{name: typeSpec.Name.Name}
	f.named, _ = pkg.TypesInfo.ObjectOf(typeSpec.Name).Type().(*types.Named)

	fields := &ast.FieldList{}
	hasDouble := false
	for _, field := range structType.Fields.List {
		if len(field.Names) == 0 {
			typ := pkg.TypesInfo.TypeOf(field.Type)
			if isDouble(typ) {
				hasDouble = true
			} else if typ != nil {
				if iface, ok := typ.Underlying().(*types.Interface); ok {
					f.ifaces = append(f.ifaces, embedded{expr: *clone(&field.Type), iface: iface})
					continue
				}
			}
		}
		fields.List = append(fields.List, clone(field))
	}
	if !hasDouble {
		double := &ast.Field{
			Type: &ast.SelectorExpr{
				X:   ast.NewIdent(g.resolveImportName(verstubName, verstubPath)),
				Sel: ast.NewIdent("Double"),
			},
		}
		fields.List = append([]*ast.Field{double}, fields.List...)
	}

	f.doc = doc
	f.decl = &ast.GenDecl{
		Tok: token.TYPE,
		Specs: []ast.Spec{
			&ast.TypeSpec{
				Name: clone(typeSpec.Name),
				Type: &ast.StructType{
					Fields: fields,
				},
			},
		},
	}
	return f, nil
}

func isDouble(typ types.Type) bool {
	named, ok := typ.(*types.Named)
	if !ok {
		return false
	}
	obj := named.Obj()
	return obj.Name() == "Double" && obj.Pkg() != nil && obj.Pkg().Path() == verstubPath
}

// writeFake adds the struct, one interface assertion per embedded
// interface, the method name constants and the methods.
func writeFake(g *gen, f *fake) (errs []error) {
	g.addDoc(f.doc)
	if err := g.addDecl(f.decl.Specs[0].(*ast.TypeSpec).Name, f.decl); err != nil {
		return []error{err}
	}

	declared := map[string]bool{}
	if f.named != nil {
		for i := 0; i < f.named.NumMethods(); i++ {
			declared[f.named.Method(i).Name()] = true
		}
	}

	var methods []*types.Func
	for _, e := range f.ifaces {
		if err := g.addInterfaceAssertion(e.expr, ast.NewIdent(f.name)); err != nil {
			errs = append(errs, err)
		}
		for i := 0; i < e.iface.NumMethods(); i++ {
			method := e.iface.Method(i)
			if declared[method.Name()] {
				continue
			}
			declared[method.Name()] = true
			methods = append(methods, method)
		}
	}
	if len(methods) == 0 {
		return errs
	}
	sort.Slice(methods, func(i, j int) bool { return methods[i].Name() < methods[j].Name() })

	consts := &ast.GenDecl{Tok: token.CONST}
	for _, method := range methods {
		consts.Specs = append(consts.Specs, &ast.ValueSpec{
			Names:  []*ast.Ident{ast.NewIdent(constName(f.name, method.Name()))},
			Values: []ast.Expr{&ast.BasicLit{Kind: token.STRING, Value: strconv.Quote(method.Name())}},
		})
	}
	if err := g.addDecl(ast.NewIdent(f.name), consts); err != nil {
		errs = append(errs, err)
	}

	for _, method := range methods {
		methDecl, err := makeFakeMethod(g, f.name, method)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if err := g.addDecl(methDecl.Name, methDecl); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

// constName names the constant holding the method name, e.g.
// FakeSensorRead for method read of FakeSensor.
func constName(structName, methodName string) string {
	return structName + cases.Title(language.Und, cases.NoLower).String(methodName)
}

func makeFakeMethod(g *gen, structName string, method *types.Func) (*ast.FuncDecl, error) {
	methodName := method.Name()
	sig := method.Type().(*types.Signature)
	if n := sig.Results().Len(); n > maxResults {
		return nil, fmt.Errorf("%s.%s: %d results, at most %d are supported", structName, methodName, n, maxResults)
	}

	methDecl := &ast.FuncDecl{
		Recv: &ast.FieldList{
			List: []*ast.Field{
				{
					Names: []*ast.Ident{{Name: "m"}},
					Type: &ast.StarExpr{
						X: ast.NewIdent(structName),
					},
				},
			},
		},
		Name: ast.NewIdent(methodName),
		Type: &ast.FuncType{},
	}

	// types first, so that parameter names can avoid the imports they use
	methDecl.Type.Params = g.fieldList(sig.Variadic(), sig.Params())
	methDecl.Type.Results = g.fieldList(false, sig.Results())
	constIdent := constName(structName, methodName)
	params := g.paramNames(sig.Params(), constIdent)
	for i, field := range methDecl.Type.Params.List {
		field.Names = []*ast.Ident{{Name: params[i]}}
	}

	call := &ast.CallExpr{
		Fun: &ast.SelectorExpr{
			X:   ast.NewIdent(g.resolveImportName(verstubName, verstubPath)),
			Sel: ast.NewIdent(fmt.Sprintf("Call%d", sig.Results().Len())),
		},
		Args: []ast.Expr{
			ast.NewIdent("m"),
			ast.NewIdent(constIdent),
		},
	}
	for _, name := range params {
		call.Args = append(call.Args, ast.NewIdent(name))
	}

	methDecl.Body = &ast.BlockStmt{}
	if sig.Results().Len() > 0 {
		indices := make([]ast.Expr, sig.Results().Len())
		for i, field := range methDecl.Type.Results.List {
			indices[i] = *clone(&field.Type)
		}
		call.Fun = &ast.IndexListExpr{
			X:       call.Fun,
			Indices: indices,
		}
		methDecl.Body.List = append(methDecl.Body.List, &ast.ReturnStmt{
			Results: []ast.Expr{call},
		})
	} else {
		methDecl.Body.List = append(methDecl.Body.List, &ast.ExprStmt{
			X: call,
		})
	}

	return methDecl, nil
}

// paramNames keeps the declared parameter names unless they are missing
// or would shadow an identifier the method body refers to.
func (g *gen) paramNames(tuple *types.Tuple, constIdent string) []string {
	names := make([]string, tuple.Len())
	seen := map[string]bool{}
	for i := 0; i < tuple.Len(); i++ {
		name := tuple.At(i).Name()
		if name == "" || name == "_" || name == "m" || name == constIdent ||
			types.Universe.Lookup(name) != nil || g.isImportName(name) || seen[name] {
			name = "v" + strconv.Itoa(i)
		}
		seen[name] = true
		names[i] = name
	}
	return names
}

// fieldList returns an unnamed field list for the given tuple.
func (g *gen) fieldList(variadic bool, tuple *types.Tuple) *ast.FieldList {
	if tuple == nil || tuple.Len() == 0 {
		return &ast.FieldList{}
	}
	fields := make([]*ast.Field, tuple.Len())
	for i := 0; i < tuple.Len(); i++ {
		param := tuple.At(i)
		fields[i] = &ast.Field{}
		if variadic && i == tuple.Len()-1 {
			fields[i].Type = &ast.Ellipsis{
				Elt: ast.NewIdent(g.typeString(param.Type().(*types.Slice).Elem())),
			}
		} else {
			fields[i].Type = ast.NewIdent(g.typeString(param.Type()))
		}
	}
	return &ast.FieldList{List: fields}
}

// importInfo holds info about an import.
type importInfo struct {
	// name is the identifier that is used in the generated source.
	name string
	// differs is true if the import is given an identifier that does not
	// match the last element of its path.
	differs bool
}

// gen is the file-wide generator state.
type gen struct {
	pkg         *packages.Package
	buf         bytes.Buffer
	imports     map[string]importInfo
	anonImports map[string]bool
}

func newGen(pkg *packages.Package) *gen {
	return &gen{
		pkg:         pkg,
		anonImports: make(map[string]bool),
		imports:     make(map[string]importInfo),
	}
}

// addImport carries an import of a fakestub file over to the generated
// file.
func (g *gen) addImport(spec *ast.ImportSpec) {
	path, err := strconv.Unquote(spec.Path.Value)
	if err != nil {
		return
	}
	if spec.Name != nil {
		if spec.Name.Name == "_" {
			g.anonImports[path] = true
			return
		}
		if spec.Name.Name == "." {
			return
		}
		g.imports[path] = importInfo{name: spec.Name.Name, differs: true}
		return
	}
	if name, ok := g.resolvePackageName(path); ok {
		g.imports[path] = importInfo{name: name, differs: name != pathBase(path)}
	}
}

func (g *gen) addDecl(name fmt.Stringer, decl ast.Decl) error {
	var buf bytes.Buffer
	if err := format.Node(&buf, g.pkg.Fset, decl); err != nil {
		if name == nil {
			name = g.pkg.Fset.Position(decl.Pos())
		}
		return fmt.Errorf("%s: error formatting declaration: %w", name, err)
	}
	g.buf.Write(buf.Bytes())
	g.buf.WriteString("\n\n") // Add some spacing between decls
	return nil
}

// addDoc writes a doc comment for the next declaration. Comments are
// written as text since cloned nodes carry no positions.
func (g *gen) addDoc(doc *ast.CommentGroup) {
	if doc == nil {
		return
	}
	for _, c := range doc.List {
		g.buf.WriteString(c.Text)
		g.buf.WriteString("\n")
	}
}

func (g *gen) resolvePackageName(path string) (string, bool) {
	for _, pkg := range g.pkg.Imports {
		if pkg.PkgPath == path {
			return pkg.Name, true
		}
	}
	return "", false
}

// resolveImportName returns the identifier for the package at path,
// importing it as name if it is not imported yet.
func (g *gen) resolveImportName(name, path string) string {
	imp, ok := g.imports[path]
	if !ok {
		imp = importInfo{
			name:    name,
			differs: name != pathBase(path),
		}
		g.imports[path] = imp
	}
	return imp.name
}

func (g *gen) isImportName(name string) bool {
	if name == verstubName {
		return true
	}
	for _, imp := range g.imports {
		if imp.name == name {
			return true
		}
	}
	return false
}

// typeString renders t as seen from the generated package, importing the
// packages it refers to.
func (g *gen) typeString(t types.Type) string {
	return types.TypeString(t, func(p *types.Package) string {
		if p.Path() == g.pkg.PkgPath {
			return ""
		}
		return g.resolveImportName(p.Name(), p.Path())
	})
}

func pathBase(p string) string {
	base := path.Base(p)
	// major version suffixes are not part of the package name
	if strings.Contains(p, "/") && len(base) > 1 && base[0] == 'v' && strings.Trim(base[1:], "0123456789") == "" {
		return path.Base(path.Dir(p))
	}
	return base
}

func (g *gen) addInterfaceAssertion(ifaceType, structName ast.Expr) error {
	varDecl := &ast.GenDecl{
		Tok: token.VAR,
		Specs: []ast.Spec{
			&ast.ValueSpec{
				Names: []*ast.Ident{{Name: "_"}},
				Type:  ifaceType,
				Values: []ast.Expr{
					&ast.CallExpr{
						Fun: &ast.ParenExpr{
							X: &ast.StarExpr{
								X: structName,
							},
						},
						Args: []ast.Expr{
							ast.NewIdent("nil"),
						},
					},
				},
			},
		},
	}
	var buf bytes.Buffer
	if err := format.Node(&buf, g.pkg.Fset, varDecl); err != nil {
		return fmt.Errorf("%s: error formatting var: %w", structName, err)
	}
	g.buf.Write(buf.Bytes())
	g.buf.WriteString("\n\n") // Add some spacing between decls
	return nil
}

// frame bakes the built up source body into an unformatted Go source file.
func (g *gen) frame(prefix, tags string) []byte {
	if g.buf.Len() == 0 {
		return nil
	}
	var buf bytes.Buffer
	var args string
	if prefix != "" {
		args += fmt.Sprintf(" -prefix %q", prefix)
	}
	if tags != "" {
		args += fmt.Sprintf(" -tags %q", tags)
	}
	if args != "" {
		args = " gen" + args
	}
	buf.WriteString("// Code generated by fakegen. DO NOT EDIT.\n\n")
	buf.WriteString("//go:generate go run " + verstubPath + "/cmd/fakegen" + args + "\n")
	buf.WriteString("//go:build !" + stubTag + "\n\n")
	buf.WriteString("package ")
	buf.WriteString(g.pkg.Name)
	buf.WriteString("\n\n")
	if len(g.imports)+len(g.anonImports) > 0 {
		imps := make([]string, 0, len(g.imports))
		for path := range g.imports {
			imps = append(imps, path)
		}
		sort.Strings(imps)
		anonImps := make([]string, 0, len(g.anonImports))
		for path := range g.anonImports {
			anonImps = append(anonImps, path)
		}
		sort.Strings(anonImps)

		buf.WriteString("import (\n")
		for _, path := range imps {
			// Omit the local package identifier if it matches the path.
			info := g.imports[path]
			if info.differs {
				fmt.Fprintf(&buf, "\t%s %q\n", info.name, path)
			} else {
				fmt.Fprintf(&buf, "\t%q\n", path)
			}
		}
		for _, path := range anonImps {
			fmt.Fprintf(&buf, "\t_ %q\n", path)
		}
		buf.WriteString(")\n\n")
	}
	buf.Write(g.buf.Bytes())
	return buf.Bytes()
}

// clone returns a deep copy of v without comments.
func clone[T any](v *T) *T {
	if v == nil {
		return nil
	}
	x := new(T)
	switch cloned := any(x).(type) {
	case *[]*ast.Ident:
		v := any(v).(*[]*ast.Ident)
		*cloned = make([]*ast.Ident, len(*v))
		for i, ident := range *v {
			(*cloned)[i] = clone(ident)
		}
	case *ast.Ident:
		cloned.Name = any(v).(*ast.Ident).Name
	case *ast.StarExpr:
		switch x := any(v).(*ast.StarExpr).X.(type) {
		case *ast.Ident:
			cloned.X = clone(x)
		default:
			cloned.X = any(v).(*ast.StarExpr).X
		}
	case *ast.BasicLit:
		cloned.Value = any(v).(*ast.BasicLit).Value
		cloned.Kind = any(v).(*ast.BasicLit).Kind
	case *[]*ast.Field:
		v := any(v).(*[]*ast.Field)
		*cloned = make([]*ast.Field, len(*v))
		for i, field := range *v {
			(*cloned)[i] = clone(field)
		}
	case *ast.Field:
		v := any(v).(*ast.Field)
		cloned.Tag = clone(v.Tag)
		cloned.Names = *clone(&v.Names)
		cloned.Type = *clone(&v.Type)
	case *ast.FieldList:
		v := any(v).(*ast.FieldList)
		cloned.List = *clone(&v.List)
	case *ast.TypeSpec:
		v := any(v).(*ast.TypeSpec)
		cloned.Name = clone(v.Name)
		cloned.Assign = v.Assign
		cloned.TypeParams = clone(v.TypeParams)
		cloned.Type = *clone(&v.Type)
	default:
		*x = *v
	}
	return x
}
