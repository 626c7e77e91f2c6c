// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	cueerrors "cuelang.org/go/cue/errors"
)

// ErrFileTooLarge is the sentinel wrapped by FileTooLargeError.
var ErrFileTooLarge = errors.New("file too large")

type (
	// Problem is one CUE error located at a field path such as "namespaces.deploy"
	// or "commands[0].name". Path is empty for errors that are not tied to a field.
	Problem struct {
		Path    string
		Message string
	}

	// ParseError reports every problem CUE found in one file.
	ParseError struct {
		File     string
		Problems []Problem
		cause    error
	}

	// FileTooLargeError is returned when a document exceeds the configured size limit.
	FileTooLargeError struct {
		File  string
		Size  int64
		Limit int64
	}
)

func (e *ParseError) Error() string {
	lines := make([]string, len(e.Problems))
	for i, p := range e.Problems {
		if p.Path == "" {
			lines[i] = p.Message
			continue
		}
		lines[i] = p.Path + ": " + p.Message
	}
	if len(lines) == 1 {
		return e.File + ": " + lines[0]
	}
	return e.File + ": " + strconv.Itoa(len(lines)) + " problems:\n  " + strings.Join(lines, "\n  ")
}

func (e *ParseError) Unwrap() error { return e.cause }

func (e *FileTooLargeError) Error() string {
	return fmt.Sprintf("%s: %d bytes exceeds maximum of %d bytes", e.File, e.Size, e.Limit)
}

func (e *FileTooLargeError) Unwrap() error { return ErrFileTooLarge }

// FormatError converts err into a *ParseError for file. Errors that do not come
// from CUE become a single problem without a path. A nil err stays nil.
func FormatError(err error, file string) error {
	if err == nil {
		return nil
	}

	pe := &ParseError{File: file, cause: err}
	for _, e := range cueerrors.Errors(err) {
		path := fieldPath(cueerrors.Path(e))
		msg := e.Error()
		if path != "" {
			// CUE sometimes repeats the path in the message.
			msg = strings.TrimSpace(strings.TrimPrefix(strings.TrimPrefix(msg, path), ":"))
		}
		pe.Problems = append(pe.Problems, Problem{Path: path, Message: msg})
	}
	if len(pe.Problems) == 0 {
		pe.Problems = []Problem{{Message: err.Error()}}
	}
	return pe
}

// fieldPath joins CUE path selectors, writing list indexes in brackets.
func fieldPath(selectors []string) string {
	var b strings.Builder
	for i, sel := range selectors {
		if _, err := strconv.Atoi(sel); err == nil && i > 0 {
			b.WriteString("[" + sel + "]")
			continue
		}
		if i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(sel)
	}
	return b.String()
}

// CheckFileSize returns a *FileTooLargeError when data is larger than limit.
func CheckFileSize(data []byte, limit int64, file string) error {
	if size := int64(len(data)); size > limit {
		return &FileTooLargeError{File: file, Size: size, Limit: limit}
	}
	return nil
}
