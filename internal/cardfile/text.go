package cardfile

import (
	"strings"

	"gopkg.in/yaml.v3"
)

// Text is a free-text scalar that serializes long values in a wrapped
// block style for readability while decoding back to the identical string.
type Text string

// MarshalYAML picks a scalar style. Folded blocks rejoin wrapped lines
// with single spaces, so they are only safe for single-line text with
// plain single-space word separation; anything else stays literal or plain.
func (t Text) MarshalYAML() (any, error) {
	s := string(t)
	node := &yaml.Node{Kind: yaml.ScalarNode, Value: s}
	switch {
	case strings.Contains(s, "\n"):
		node.Style = yaml.LiteralStyle
	case len(s) > 76 && foldSafe(s):
		node.Style = yaml.FoldedStyle
	}
	return node, nil
}

func (t *Text) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	*t = Text(s)
	return nil
}

func foldSafe(s string) bool {
	if s != strings.TrimSpace(s) {
		return false
	}
	return !strings.Contains(s, "  ") && !strings.Contains(s, "\t")
}

// IsZero lets omitempty drop empty text fields.
func (t Text) IsZero() bool { return t == "" }
