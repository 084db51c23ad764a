// Package swift implements a structural (non-validating) parser for the
// SWIFT MT message family and its typed transformations: scan blocks,
// keep a side table of block-4 fields, and round-trip whatever a
// transformation doesn't touch.
package swift

import (
	"strings"
)

// Block is one of an MT message's top-level `{n:content}` blocks.
type Block struct {
	Number  string
	Content string
}

// Field is one `:tag:value` entry inside block 4.
type Field struct {
	Tag   string
	Value string
}

// Message is a parsed MT message: the ordered top-level blocks, plus block
// 4's fields parsed out separately for lookup/replacement while preserving
// the raw content of every other block untouched.
type Message struct {
	Blocks []Block
	Fields []Field // block 4 fields, in original order, repeats preserved
}

// MessageType reads the MT numeric type code out of block 2's content.
// Block 2 content looks like "I103..." (input) or "O1030212..." (output);
// the 3-digit type code follows the single I/O direction letter.
func (m *Message) MessageType() string {
	for _, b := range m.Blocks {
		if b.Number != "2" {
			continue
		}
		c := b.Content
		if len(c) >= 4 {
			return c[1:4]
		}
	}
	return ""
}

// SetMessageType rewrites block 2's type code in place, preserving the
// direction letter and any trailing content.
func (m *Message) SetMessageType(code string) {
	for i, b := range m.Blocks {
		if b.Number != "2" {
			continue
		}
		c := b.Content
		if len(c) >= 4 {
			m.Blocks[i].Content = c[:1] + code + c[4:]
		}
	}
}

// Get returns the value of the first field with tag (e.g. "20", "32A"),
// reporting false when absent.
func (m *Message) Get(tag string) (string, bool) {
	for _, f := range m.Fields {
		if f.Tag == tag {
			return f.Value, true
		}
	}
	return "", false
}

// GetAll returns every field's value for tag, preserving repeats' order.
func (m *Message) GetAll(tag string) []string {
	var out []string
	for _, f := range m.Fields {
		if f.Tag == tag {
			out = append(out, f.Value)
		}
	}
	return out
}

// Set replaces the first field with tag, or appends one if absent.
func (m *Message) Set(tag, value string) {
	for i, f := range m.Fields {
		if f.Tag == tag {
			m.Fields[i].Value = value
			return
		}
	}
	m.Fields = append(m.Fields, Field{Tag: tag, Value: value})
}

// Rename changes a field's tag in place, keeping its value and position.
// If a field with fromTag does not exist, this is a no-op.
func (m *Message) Rename(fromTag, toTag string) {
	for i, f := range m.Fields {
		if f.Tag == fromTag {
			m.Fields[i].Tag = toTag
			return
		}
	}
}

// Delete removes every field with tag.
func (m *Message) Delete(tag string) {
	out := m.Fields[:0]
	for _, f := range m.Fields {
		if f.Tag != tag {
			out = append(out, f)
		}
	}
	m.Fields = out
}

// Parse splits raw into its top-level {n:...} blocks and, for block 4,
// further splits its content into :tag:value fields terminated by "-".
// Parsing is structural, not validating: malformed input yields whatever
// blocks/fields it can recognize rather than an error.
func Parse(raw string) *Message {
	msg := &Message{}
	i := 0
	for i < len(raw) {
		start := strings.IndexByte(raw[i:], '{')
		if start < 0 {
			break
		}
		start += i
		colon := strings.IndexByte(raw[start:], ':')
		if colon < 0 {
			break
		}
		colon += start
		number := raw[start+1 : colon]

		end, content, ok := scanBlockBody(raw, colon+1)
		if !ok {
			break
		}
		msg.Blocks = append(msg.Blocks, Block{Number: number, Content: content})
		if number == "4" {
			msg.Fields = parseFields(content)
		}
		i = end
	}
	return msg
}

// scanBlockBody consumes a block's content starting just after its opening
// "{n:", tracking nested brace depth (block 4 contains sub-blocks like
// {108:...} in some dialects) until the matching top-level '}'. It returns
// the index just past that '}'.
func scanBlockBody(raw string, from int) (end int, content string, ok bool) {
	depth := 1
	i := from
	for i < len(raw) {
		switch raw[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i + 1, raw[from:i], true
			}
		}
		i++
	}
	return 0, "", false
}

// parseFields splits block 4's content into :tag:value entries. The
// trailing "-" sentinel (if present) is dropped.
func parseFields(content string) []Field {
	content = strings.TrimSuffix(strings.TrimSpace(content), "-")
	var fields []Field
	i := 0
	for i < len(content) {
		if content[i] != ':' {
			i++
			continue
		}
		tagEnd := strings.IndexByte(content[i+1:], ':')
		if tagEnd < 0 {
			break
		}
		tagEnd += i + 1
		tag := content[i+1 : tagEnd]

		valueStart := tagEnd + 1
		next := strings.Index(content[valueStart:], "\n:")
		var value string
		if next < 0 {
			value = content[valueStart:]
			i = len(content)
		} else {
			value = content[valueStart : valueStart+next]
			i = valueStart + next + 1
		}
		fields = append(fields, Field{Tag: tag, Value: strings.TrimRight(value, "\r\n")})
	}
	return fields
}

// String reassembles the message, rendering block 4's fields from the
// Fields slice (so edits via Set/Rename/Delete are reflected) and every
// other block verbatim from its stored Content, preserving untouched
// blocks byte-for-byte.
func (m *Message) String() string {
	var sb strings.Builder
	for _, b := range m.Blocks {
		sb.WriteByte('{')
		sb.WriteString(b.Number)
		sb.WriteByte(':')
		if b.Number == "4" {
			sb.WriteString(renderFields(m.Fields))
		} else {
			sb.WriteString(b.Content)
		}
		sb.WriteByte('}')
	}
	return sb.String()
}

func renderFields(fields []Field) string {
	var sb strings.Builder
	sb.WriteByte('\n')
	for _, f := range fields {
		sb.WriteByte(':')
		sb.WriteString(f.Tag)
		sb.WriteByte(':')
		sb.WriteString(f.Value)
		sb.WriteByte('\n')
	}
	sb.WriteString("-")
	return sb.String()
}
