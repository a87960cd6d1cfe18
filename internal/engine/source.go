package engine

import "fmt"

// Source names where a recipe comes from: a file on disk, an in-memory YAML
// document, or one of the engine's built-in recipes addressed by name.
type Source struct {
	Type    string // "file", "content", or "builtin"
	Path    string
	Content string
	Name    string
}

// FileSource builds a Source for a recipe file on disk.
func FileSource(path string) Source { return Source{Type: "file", Path: path} }

// ContentSource builds a Source for an in-memory recipe document, named for
// cache-key and error-message purposes.
func ContentSource(name, content string) Source {
	return Source{Type: "content", Name: name, Content: content}
}

// BuiltinSource builds a Source addressing one of the engine's built-in
// recipes by name.
func BuiltinSource(name string) Source { return Source{Type: "builtin", Name: name} }

func (s Source) cacheKey() string {
	switch s.Type {
	case "file":
		return fmt.Sprintf("file:%s", s.Path)
	default:
		return fmt.Sprintf("content:%s", s.Name)
	}
}
