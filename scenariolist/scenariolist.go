package scenariolist

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/mod/modfile"

	"github.com/ethereum-optimism/infra/op-bdd/runner"
)

// scenarioEntrypoints are the call names that mark a test function as
// driving a scenario.
var scenarioEntrypoints = map[string]bool{
	"Scenario":            true,
	"ScenarioWithOptions": true,
}

// Scenario describes a discovered scenario-driving test function.
type Scenario struct {
	// Function is the Go test function name, e.g. "TestSuccessful_login".
	Function string
	// Name is the scenario display name derived from the function name.
	Name string
	// File is the base name of the file declaring the function.
	File string
}

// FindTestFunctions takes a package path and working directory, and returns a list of test function names
func FindTestFunctions(pkgPath string, workingDir string) ([]string, error) {
	functions, err := findFunctions(pkgPath, workingDir, false)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(functions))
	for _, fn := range functions {
		names = append(names, fn.Function)
	}
	return names, nil
}

// FindScenarios returns the test functions in the package that invoke a
// scenario entrypoint, with display names derived from the function names.
func FindScenarios(pkgPath string, workingDir string) ([]Scenario, error) {
	return findFunctions(pkgPath, workingDir, true)
}

// FindTestPackages expands a package pattern into the directories beneath it
// that contain Go test files, relative to workingDir. A trailing "/..."
// matches the tree below the base directory; a plain directory is walked the
// same way.
func FindTestPackages(pattern string, workingDir string) ([]string, error) {
	base := strings.TrimSuffix(pattern, "/...")
	if base == "" {
		base = workingDir
	}

	if _, err := os.Stat(base); os.IsNotExist(err) {
		return nil, fmt.Errorf("directory %s does not exist", base)
	} else if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", base, err)
	}

	seen := make(map[string]bool)
	var packages []string
	walkErr := filepath.WalkDir(base, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), "_test.go") {
			return nil
		}
		rel, err := filepath.Rel(workingDir, filepath.Dir(path))
		if err != nil {
			return err
		}
		pkg := "./" + filepath.ToSlash(rel)
		if rel == "." {
			pkg = "."
		}
		if !seen[pkg] {
			seen[pkg] = true
			packages = append(packages, pkg)
		}
		return nil
	})
	if walkErr != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", base, walkErr)
	}
	return packages, nil
}

func findFunctions(pkgPath string, workingDir string, scenariosOnly bool) ([]Scenario, error) {
	pkgDir, err := resolvePackageDir(pkgPath, workingDir)
	if err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(pkgDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read package directory: %w", err)
	}

	var scenarios []Scenario
	fset := token.NewFileSet()

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), "_test.go") {
			continue
		}

		filePath := filepath.Join(pkgDir, entry.Name())
		f, err := parser.ParseFile(fset, filePath, nil, 0)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", entry.Name(), err)
		}

		// Traverse top-level declarations in search of test functions
		for _, decl := range f.Decls {
			funcDecl, ok := decl.(*ast.FuncDecl)
			if !ok {
				continue
			}
			name := funcDecl.Name.Name
			if !strings.HasPrefix(name, "Test") || name == "TestMain" {
				continue
			}
			if scenariosOnly && !callsScenarioEntrypoint(funcDecl) {
				continue
			}
			scenarios = append(scenarios, Scenario{
				Function: name,
				Name:     runner.NameFromTestName(name),
				File:     entry.Name(),
			})
		}
	}

	return scenarios, nil
}

// resolvePackageDir maps a package path to a directory under workingDir,
// consulting go.mod for module-qualified paths.
func resolvePackageDir(pkgPath string, workingDir string) (string, error) {
	var relPath string

	// Check if pkgPath is already a relative path
	if strings.HasPrefix(pkgPath, "./") {
		relPath = strings.TrimPrefix(pkgPath, "./")
	} else {
		// Read and parse go.mod
		goModPath := filepath.Join(workingDir, "go.mod")
		goModContent, err := os.ReadFile(goModPath)
		if err != nil {
			return "", fmt.Errorf("failed to read go.mod: %w", err)
		}

		modFile, err := modfile.Parse(goModPath, goModContent, nil)
		if err != nil {
			return "", fmt.Errorf("failed to parse go.mod: %w", err)
		}

		moduleName := modFile.Module.Mod.Path
		if moduleName == "" {
			return "", fmt.Errorf("could not find module name in go.mod")
		}

		// Verify that the package is indeed in the module
		if !strings.HasPrefix(pkgPath, moduleName) {
			return "", fmt.Errorf("package %s is not in module %s", pkgPath, moduleName)
		}

		relPath = strings.TrimPrefix(pkgPath, moduleName)
		if relPath == "" {
			relPath = "."
		}
	}

	return filepath.Join(workingDir, relPath), nil
}

// callsScenarioEntrypoint reports whether the function body contains a call
// to one of the scenario entrypoints, either as a method on a runner value or
// as a bare call through a local wrapper with the same name.
func callsScenarioEntrypoint(funcDecl *ast.FuncDecl) bool {
	if funcDecl.Body == nil {
		return false
	}
	found := false
	ast.Inspect(funcDecl.Body, func(n ast.Node) bool {
		if found {
			return false
		}
		call, ok := n.(*ast.CallExpr)
		if !ok {
			return true
		}
		switch fun := call.Fun.(type) {
		case *ast.SelectorExpr:
			if scenarioEntrypoints[fun.Sel.Name] {
				found = true
			}
		case *ast.Ident:
			if scenarioEntrypoints[fun.Name] {
				found = true
			}
		}
		return !found
	})
	return found
}
