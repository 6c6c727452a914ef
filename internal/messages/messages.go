package messages

import (
	"fmt"

	language "github.com/graphql-aspnet/graphql-aspnet-sub009/internal/language"
)

// Severity classifies a message. Critical messages invalidate the entity
// they are attached to; informational and warning messages do not.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityCritical
)

func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "INFO"
	case SeverityWarning:
		return "WARNING"
	case SeverityCritical:
		return "CRITICAL"
	}
	return "UNKNOWN"
}

// Message is one validation outcome with an optional source origin.
type Message struct {
	Severity Severity `json:"severity"`
	Code     string   `json:"code,omitempty"`
	Text     string   `json:"message"`
	Line     int      `json:"line,omitempty"`
	Column   int      `json:"column,omitempty"`
}

func (m *Message) String() string {
	if m.Line > 0 {
		return fmt.Sprintf("[%s] %s (%d:%d)", m.Severity, m.Text, m.Line, m.Column)
	}
	return fmt.Sprintf("[%s] %s", m.Severity, m.Text)
}

// Collection accumulates messages for one entity. The zero value is usable.
type Collection struct {
	items []*Message
}

func (c *Collection) Add(m *Message) *Collection {
	c.items = append(c.items, m)
	return c
}

func (c *Collection) AddInfo(text string) *Collection {
	return c.Add(&Message{Severity: SeverityInfo, Text: text})
}

func (c *Collection) AddWarning(text string) *Collection {
	return c.Add(&Message{Severity: SeverityWarning, Text: text})
}

func (c *Collection) AddCritical(code, format string, args ...any) *Collection {
	return c.Add(&Message{Severity: SeverityCritical, Code: code, Text: fmt.Sprintf(format, args...)})
}

// AddCriticalAt records a critical message carrying the source position.
func (c *Collection) AddCriticalAt(pos *language.Position, code, format string, args ...any) *Collection {
	m := &Message{Severity: SeverityCritical, Code: code, Text: fmt.Sprintf(format, args...)}
	if pos != nil {
		m.Line = pos.Line
		m.Column = pos.Column
	}
	return c.Add(m)
}

// Merge appends every message of other into c.
func (c *Collection) Merge(other *Collection) *Collection {
	if other != nil {
		c.items = append(c.items, other.items...)
	}
	return c
}

func (c *Collection) Items() []*Message { return c.items }

func (c *Collection) Count() int { return len(c.items) }

// Ok reports whether the collection carries no critical messages.
func (c *Collection) Ok() bool { return !c.HasCriticals() }

func (c *Collection) HasCriticals() bool {
	for _, m := range c.items {
		if m.Severity == SeverityCritical {
			return true
		}
	}
	return false
}
