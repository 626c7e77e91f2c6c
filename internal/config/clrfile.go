// SPDX-License-Identifier: MPL-2.0

package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/color/clr/pkg/cueutil"
)

const (
	// ClrfileName is the base name of the namespace declaration file.
	ClrfileName = "clrfile"
	// EnvRoot names a directory searched for a clrfile after the working directory's ancestors.
	EnvRoot = "CLR_ROOT"

	// schemeScript locators name a file; relative targets resolve against the clrfile.
	schemeScript = "script"
)

// clrfileExts lists the accepted clrfile formats in lookup order.
var clrfileExts = []string{"cue", "toml"}

//go:embed clrfile_schema.cue
var clrfileSchema []byte

var (
	// ErrClrfileNotFound is returned when no clrfile exists in any searched directory.
	ErrClrfileNotFound = errors.New("clrfile not found")
	// ErrInvalidClrfile is returned when a clrfile cannot be parsed.
	ErrInvalidClrfile = errors.New("invalid clrfile")
)

type (
	// Clrfile is a parsed namespace declaration file.
	Clrfile struct {
		// Path is the absolute path of the file.
		Path string
		// Namespaces maps namespace keys to locators.
		Namespaces map[string]Locator
	}

	// ClrfileNotFoundError lists the directories that were searched.
	ClrfileNotFoundError struct {
		Searched []string
	}

	// InvalidClrfileError wraps a parse or validation failure of a clrfile.
	InvalidClrfileError struct {
		Path string
		Err  error
	}

	clrfileDoc struct {
		Namespaces map[string]string `json:"namespaces" toml:"namespaces"`
	}
)

// Error implements the error interface for ClrfileNotFoundError.
func (e *ClrfileNotFoundError) Error() string {
	return fmt.Sprintf("%s could not be located. Only the `system` namespace will be available. Searched in %s",
		ClrfileName, strings.Join(e.Searched, ", "))
}

// Unwrap returns ErrClrfileNotFound for errors.Is() compatibility.
func (e *ClrfileNotFoundError) Unwrap() error { return ErrClrfileNotFound }

// Error implements the error interface for InvalidClrfileError.
func (e *InvalidClrfileError) Error() string {
	return fmt.Sprintf("invalid clrfile %s: %v", e.Path, e.Err)
}

// Unwrap returns both the sentinel and the cause.
func (e *InvalidClrfileError) Unwrap() []error { return []error{ErrInvalidClrfile, e.Err} }

// SearchPaths returns the directories searched for a clrfile, in order: dir,
// each of its ancestors, then $CLR_ROOT when set.
func SearchPaths(dir string) []string {
	var paths []string
	dir = filepath.Clean(dir)
	for {
		paths = append(paths, dir)
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	if root := os.Getenv(EnvRoot); root != "" {
		paths = append(paths, filepath.Clean(root))
	}
	return paths
}

// FindClrfile returns the first clrfile found in SearchPaths(dir). In each
// directory clrfile.cue takes precedence over clrfile.toml.
func FindClrfile(dir string) (string, error) {
	searched := SearchPaths(dir)
	for _, d := range searched {
		for _, ext := range clrfileExts {
			candidate := filepath.Join(d, ClrfileName+"."+ext)
			if fileExists(candidate) {
				return candidate, nil
			}
		}
	}
	return "", &ClrfileNotFoundError{Searched: searched}
}

// LoadClrfile parses the clrfile at path. Relative targets of script locators
// are made absolute against the clrfile's directory.
func LoadClrfile(path string) (*Clrfile, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, &InvalidClrfileError{Path: abs, Err: err}
	}

	var doc clrfileDoc
	switch filepath.Ext(abs) {
	case ".cue":
		result, err := cueutil.ParseAndDecode[clrfileDoc](clrfileSchema, data, "#Clrfile",
			cueutil.WithFilename(abs), cueutil.WithConcrete(true))
		if err != nil {
			return nil, &InvalidClrfileError{Path: abs, Err: err}
		}
		doc = *result.Value
	case ".toml":
		if err := cueutil.CheckFileSize(data, cueutil.DefaultMaxFileSize, abs); err != nil {
			return nil, &InvalidClrfileError{Path: abs, Err: err}
		}
		if err := toml.Unmarshal(data, &doc); err != nil {
			return nil, &InvalidClrfileError{Path: abs, Err: err}
		}
	default:
		return nil, &InvalidClrfileError{Path: abs, Err: fmt.Errorf("unsupported format %q", filepath.Ext(abs))}
	}

	cf := &Clrfile{Path: abs, Namespaces: make(map[string]Locator, len(doc.Namespaces))}
	var errs []error
	for key, raw := range doc.Namespaces {
		locator := Locator(raw)
		if err := locator.Validate(key); err != nil {
			errs = append(errs, err)
			continue
		}
		cf.Namespaces[key] = resolveLocator(locator, filepath.Dir(abs))
	}
	if len(errs) > 0 {
		return nil, &InvalidClrfileError{Path: abs, Err: errors.Join(errs...)}
	}
	return cf, nil
}

// DiscoverClrfile finds and loads the clrfile for dir.
func DiscoverClrfile(dir string) (*Clrfile, error) {
	path, err := FindClrfile(dir)
	if err != nil {
		return nil, err
	}
	return LoadClrfile(path)
}

// Declarations merges the config's namespace declarations with the clrfile's.
// Either may be nil; the clrfile wins on conflicting keys.
func Declarations(cfg *Config, cf *Clrfile) map[string]string {
	out := map[string]string{}
	if cfg != nil {
		for key, locator := range cfg.Namespaces {
			out[key] = locator.String()
		}
	}
	if cf != nil {
		for key, locator := range cf.Namespaces {
			out[key] = locator.String()
		}
	}
	return out
}

func resolveLocator(l Locator, dir string) Locator {
	if l.Scheme() != schemeScript || filepath.IsAbs(l.Target()) {
		return l
	}
	return Locator(schemeScript + ":" + filepath.Join(dir, l.Target()))
}
