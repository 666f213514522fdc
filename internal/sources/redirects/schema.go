package redirects

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Config is the redirect table source: an ordered mapping from destination
// URL to one or more trigger paths.
//
//	"https://example.com/target": ["/go", "/g"]
//	"https://example.com/other": /other
//
// Entry order is preserved so duplicate trigger paths resolve predictably.
type Config []Entry

// Entry is one destination and its trigger paths.
type Entry struct {
	Destination string
	Paths       Triggers
	Line        int // source line of the destination key
}

// Triggers accepts a single path or a list of paths.
type Triggers []string

func (c *Config) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: redirect table must be a mapping of destination to paths", node.Line)
	}

	entries := make(Config, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]

		var paths Triggers
		if err := value.Decode(&paths); err != nil {
			return fmt.Errorf("destination %q: %w", key.Value, err)
		}
		entries = append(entries, Entry{
			Destination: key.Value,
			Paths:       paths,
			Line:        key.Line,
		})
	}

	*c = entries
	return nil
}

func (t *Triggers) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		if node.Tag == "!!null" {
			return fmt.Errorf("line %d: no trigger paths", node.Line)
		}
		*t = Triggers{node.Value}
		return nil
	case yaml.SequenceNode:
		var paths []string
		if err := node.Decode(&paths); err != nil {
			return fmt.Errorf("line %d: %w", node.Line, err)
		}
		*t = paths
		return nil
	default:
		return fmt.Errorf("line %d: trigger paths must be a string or a list of strings", node.Line)
	}
}
