package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/getmockd/mockwire/pkg/mock"
	"gopkg.in/yaml.v3"
)

// LoadMocks loads every mock matched by patterns. Relative patterns are
// resolved against baseDir. Files are read in sorted order per pattern and
// mocks keep their order within a file.
//
// A pattern without glob characters must name an existing file; a glob
// that matches nothing is not an error.
func LoadMocks(patterns []string, baseDir string) ([]*mock.Mock, error) {
	var result []*mock.Mock
	for _, pattern := range patterns {
		resolved := ResolvePath(baseDir, pattern)

		if !isGlob(pattern) {
			mocks, err := LoadMockFile(resolved)
			if err != nil {
				return nil, err
			}
			result = append(result, mocks...)
			continue
		}

		matches, err := doublestar.FilepathGlob(resolved, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("expanding glob pattern %q: %w", pattern, err)
		}
		sort.Strings(matches)
		for _, match := range matches {
			mocks, err := LoadMockFile(match)
			if err != nil {
				return nil, err
			}
			result = append(result, mocks...)
		}
	}
	return result, nil
}

// LoadMockFile parses a YAML or JSON file holding one mock or a list of
// mocks. Each mock is checked the same way POST /mocks checks it.
func LoadMockFile(path string) ([]*mock.Mock, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ConfigError{Path: path, Message: err.Error()}
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, &ConfigError{Path: path, Message: "file is empty"}
	}

	var root yaml.Node
	if err := yaml.Unmarshal([]byte(ExpandEnvVars(string(data))), &root); err != nil {
		return nil, yamlError(path, err)
	}

	doc := &root
	if doc.Kind == yaml.DocumentNode && len(doc.Content) > 0 {
		doc = doc.Content[0]
	}

	items := []*yaml.Node{doc}
	if doc.Kind == yaml.SequenceNode {
		items = doc.Content
	}

	mocks := make([]*mock.Mock, 0, len(items))
	for _, item := range items {
		m, err := decodeNode(item)
		if err != nil {
			return nil, &ConfigError{Path: path, Line: item.Line, Column: item.Column, Message: err.Error()}
		}
		mocks = append(mocks, m)
	}
	return mocks, nil
}

// decodeNode re-encodes a YAML node as JSON so seed files share the wire
// codec's schema and rules.
func decodeNode(node *yaml.Node) (*mock.Mock, error) {
	var v any
	if err := node.Decode(&v); err != nil {
		return nil, err
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", mock.ErrInvalidDocument, err)
	}
	return mock.Decode(data)
}

// ResolvePath resolves path against baseDir unless it is absolute.
func ResolvePath(baseDir, path string) string {
	if baseDir == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(baseDir, path)
}

// BaseDir returns the directory relative mock paths in the config file at
// configPath resolve against.
func BaseDir(configPath string) string {
	if configPath == "" {
		if cwd, err := os.Getwd(); err == nil {
			return cwd
		}
		return "."
	}
	return filepath.Dir(configPath)
}

func isGlob(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[{")
}
