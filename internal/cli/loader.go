package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/roach88/exprsql/internal/exprdoc"
)

// LoadMode controls how errors are handled during document loading.
type LoadMode int

const (
	// LoadModeFailFast stops on the first error encountered.
	LoadModeFailFast LoadMode = iota
	// LoadModeCollectAll collects all errors before returning.
	LoadModeCollectAll
)

// LoadedDocument is a document together with the file it came from.
type LoadedDocument struct {
	Path     string
	Document *exprdoc.Document
}

// LoadResult contains the documents loaded from a file or directory.
type LoadResult struct {
	Documents []LoadedDocument
	FileCount int // Number of document files found
}

// LoadError represents an error that occurred during document loading.
type LoadError struct {
	Code    string
	Message string
	Path    string // file the error belongs to, if any
}

func (e *LoadError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s: %s", e.Path, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// LoadDocuments loads one document file, or every document file under a
// directory in lexical order. The tree of each document is not built;
// use Document.Tree for that.
func LoadDocuments(path string, mode LoadMode) (*LoadResult, []error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("path not found: %s", path)}}
	}
	if err != nil {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error accessing path: %v", err)}}
	}

	files := []string{path}
	if info.IsDir() {
		files, err = FindDocumentFiles(path)
		if err != nil {
			return nil, []error{&LoadError{Code: ErrCodeScanError, Message: fmt.Sprintf("error scanning directory: %v", err)}}
		}
		if len(files) == 0 {
			return nil, []error{&LoadError{Code: ErrCodeNoFiles, Message: fmt.Sprintf("no document files found in %s", path)}}
		}
	}

	var errs []error
	result := &LoadResult{FileCount: len(files)}
	for _, f := range files {
		doc, err := exprdoc.LoadFile(f)
		if err != nil {
			errs = append(errs, convertDecodeError(err, f))
			if mode == LoadModeFailFast {
				return result, errs
			}
			continue
		}
		result.Documents = append(result.Documents, LoadedDocument{Path: f, Document: doc})
	}
	return result, errs
}

// FindDocumentFiles walks the directory and returns all .yaml, .yml and
// .cue file paths, sorted.
func FindDocumentFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		switch filepath.Ext(path) {
		case ".yaml", ".yml", ".cue":
			files = append(files, path)
		}
		return nil
	})
	sort.Strings(files)
	return files, err
}

// convertDecodeError converts a document error to a LoadError carrying the
// matching CLI code.
func convertDecodeError(err error, path string) *LoadError {
	var de *exprdoc.DecodeError
	if errors.As(err, &de) {
		return &LoadError{Code: MapDecodeErrorCode(de.Code), Message: de.Error(), Path: path}
	}
	return &LoadError{Code: ErrCodeLoadFailed, Message: err.Error(), Path: path}
}

// Error code constants - unified across all CLI commands.
const (
	ErrCodeGeneric     = "E001" // Generic/unknown error
	ErrCodeScanError   = "E002" // Directory scan error
	ErrCodeNoFiles     = "E003" // No document files found
	ErrCodeLoadFailed  = "E004" // Document read failed
	ErrCodeNotFound    = "E005" // Path not found
	ErrCodeWriteFailed = "E007" // File write error

	// Document errors
	ErrCodeFormat       = "E101" // Unreadable YAML or CUE
	ErrCodeSchema       = "E102" // Document fails the schema
	ErrCodeMissingField = "E103" // Required field absent
	ErrCodeInvalidNode  = "E104" // Malformed expression node
	ErrCodeInvalidTree  = "E105" // Structurally invalid tree

	// Rendering errors
	ErrCodeUnknownDialect = "E110" // Dialect not registered
	ErrCodeInvalidClause  = "E111" // Unknown clause name
	ErrCodeRenderFailed   = "E112" // Generator rejected the tree
	ErrCodeBindFailed     = "E113" // Placeholder binding failed
	ErrCodeLimitFailed    = "E114" // Row limiting rejected
)

// MapDecodeErrorCode maps an exprdoc error code to a CLI error code.
func MapDecodeErrorCode(code string) string {
	switch code {
	case exprdoc.ErrCodeFormat:
		return ErrCodeFormat
	case exprdoc.ErrCodeSchema:
		return ErrCodeSchema
	case exprdoc.ErrCodeMissingField:
		return ErrCodeMissingField
	case exprdoc.ErrCodeInvalidNode:
		return ErrCodeInvalidNode
	default:
		return ErrCodeGeneric
	}
}
