package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ScriptExt is the script file extension.
const ScriptExt = ".novconf"

// ExampleName is the file name of the bundled example script.
const ExampleName = "example" + ScriptExt

// Script is a script found in the config directory.
type Script struct {
	Name string // file stem, shown in the picker
	Path string
}

// Discover lists the *.novconf scripts in dir, sorted by name.
func Discover(dir string) ([]Script, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*"+ScriptExt))
	if err != nil {
		return nil, fmt.Errorf("discover scripts: %w", err)
	}
	var scripts []Script
	for _, path := range matches {
		if info, err := os.Stat(path); err != nil || info.IsDir() {
			continue
		}
		scripts = append(scripts, Script{
			Name: strings.TrimSuffix(filepath.Base(path), ScriptExt),
			Path: path,
		})
	}
	sort.Slice(scripts, func(i, j int) bool { return scripts[i].Name < scripts[j].Name })
	return scripts, nil
}

// Names returns the script names in order.
func Names(scripts []Script) []string {
	names := make([]string, len(scripts))
	for i, s := range scripts {
		names[i] = s.Name
	}
	return names
}

// Resolve maps a script argument to a path. Arguments naming an existing
// file are used as is; otherwise the argument is looked up by name in dir.
func Resolve(dir, arg string) (string, error) {
	if info, err := os.Stat(arg); err == nil && !info.IsDir() {
		return arg, nil
	}
	candidate := filepath.Join(dir, strings.TrimSuffix(arg, ScriptExt)+ScriptExt)
	if _, err := os.Stat(candidate); err == nil {
		return candidate, nil
	}
	return "", fmt.Errorf("script %q not found (looked in . and %s)", arg, dir)
}
