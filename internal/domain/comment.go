package domain

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// CommentDelimiter separates text from author in the legacy packed comment form.
const CommentDelimiter = ":--:"

// Comment is a single note left on a task by one of its approvers.
type Comment struct {
	Text      string
	Author    string
	CreatedAt time.Time
}

// NewComment creates a comment stamped with the given time.
func NewComment(text, author string, at time.Time) Comment {
	return Comment{Text: text, Author: author, CreatedAt: at}
}

// Packed returns the legacy "<text>:--:<author>" representation.
func (c Comment) Packed() string {
	return c.Text + CommentDelimiter + c.Author
}

// String returns the packed form for display purposes.
func (c Comment) String() string {
	return c.Packed()
}

// ParsePackedComment decodes the legacy "<text>:--:<author>" form.
// The split happens at the last delimiter, since text is free-form and
// authors are identities. A string without a delimiter becomes text with no author.
func ParsePackedComment(s string) Comment {
	i := strings.LastIndex(s, CommentDelimiter)
	if i < 0 {
		return Comment{Text: s}
	}
	return Comment{
		Text:   s[:i],
		Author: s[i+len(CommentDelimiter):],
	}
}

// PackComments converts comments into their legacy packed strings.
func PackComments(comments []Comment) []string {
	out := make([]string, len(comments))
	for i, c := range comments {
		out[i] = c.Packed()
	}
	return out
}

type commentWire struct {
	Text      string     `json:"text" yaml:"text"`
	Author    string     `json:"author" yaml:"author"`
	CreatedAt *time.Time `json:"createdAt,omitempty" yaml:"createdAt,omitempty"`
}

func (c Comment) wire() commentWire {
	w := commentWire{Text: c.Text, Author: c.Author}
	if !c.CreatedAt.IsZero() {
		at := c.CreatedAt
		w.CreatedAt = &at
	}
	return w
}

// MarshalJSON writes the structured form.
func (c Comment) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.wire())
}

// UnmarshalJSON accepts either the structured object or a legacy packed string.
func (c *Comment) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, `"`) {
		var packed string
		if err := json.Unmarshal(data, &packed); err != nil {
			return err
		}
		*c = ParsePackedComment(packed)
		return nil
	}

	var w commentWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*c = w.comment()
	return nil
}

func (w commentWire) comment() Comment {
	c := Comment{Text: w.Text, Author: w.Author}
	if w.CreatedAt != nil {
		c.CreatedAt = *w.CreatedAt
	}
	return c
}

// MarshalYAML writes the structured form.
func (c Comment) MarshalYAML() (interface{}, error) {
	return c.wire(), nil
}

// UnmarshalYAML accepts either a mapping or a legacy packed scalar.
func (c *Comment) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		var packed string
		if err := value.Decode(&packed); err != nil {
			return err
		}
		*c = ParsePackedComment(packed)
		return nil
	case yaml.MappingNode:
		var w commentWire
		if err := value.Decode(&w); err != nil {
			return err
		}
		*c = w.comment()
		return nil
	default:
		return fmt.Errorf("line %d: comment must be a mapping or a packed string", value.Line)
	}
}
