package question

import (
	_ "embed"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

//go:embed builtin.yaml
var builtinCorpus []byte

// LoadYAML reads a corpus file. The file maps collection names to lists of
// documents:
//
//	go-basics:
//	  - 問題: 什麼是 goroutine？
//	    答案: 由 Go runtime 管理的輕量執行緒。
func LoadYAML(path string) (*Static, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read question file: %w", err)
	}
	return ParseYAML(data)
}

// Builtin returns the corpus bundled with the binary.
func Builtin() *Static {
	s, err := ParseYAML(builtinCorpus)
	if err != nil {
		panic(fmt.Sprintf("question: invalid builtin corpus: %v", err))
	}
	return s
}

// ParseYAML decodes corpus data in the LoadYAML format.
func ParseYAML(data []byte) (*Static, error) {
	var collections map[string][]map[string]any
	if err := yaml.Unmarshal(data, &collections); err != nil {
		return nil, fmt.Errorf("parse question corpus: %w", err)
	}

	names := make([]string, 0, len(collections))
	for name := range collections {
		names = append(names, name)
	}
	sort.Strings(names)

	var docs []Document
	for _, name := range names {
		for _, fields := range collections[name] {
			docs = append(docs, Document{Collection: name, Fields: fields})
		}
	}
	return NewStatic(docs...), nil
}
