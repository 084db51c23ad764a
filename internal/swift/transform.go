package swift

import (
	"fmt"
	"strings"
)

// Result is the outcome of a single transformation attempt.
type Result struct {
	Status            string
	OutputMessage     string
	OutputMessageType string
	ErrorMessage      string
	ErrorStackTrace   string
	Warnings          []string
	ConfidenceScore   *float64
}

const (
	StatusSuccess        = "SUCCESS"
	StatusPartialSuccess = "PARTIAL_SUCCESS"
	StatusFailed         = "FAILED"
	StatusParseError     = "PARSE_ERROR"
	StatusValidationErr  = "VALIDATION_ERROR"
)

// requiredFields lists the MT tags a transformation cannot proceed
// without; missing ones surface as VALIDATION_ERROR.
var requiredFields = map[string][]string{
	"MT103_TO_MT202": {"20", "32A"},
	"MT202_TO_MT103": {"20", "32A"},
}

// Transform dispatches content (a raw MT message) through the named
// transformation type. Unknown or MT-to-MX types return status=FAILED
// with a stub message, never a runtime error.
func Transform(content, transformationType string) Result {
	switch transformationType {
	case "MT103_TO_MT202":
		return transformMT103ToMT202(content)
	case "MT202_TO_MT103":
		return transformMT202ToMT103(content)
	case "ENRICH_FIELDS":
		return transformEnrichFields(content)
	case "NORMALIZE_FORMAT":
		return transformNormalizeFormat(content)
	default:
		return Result{Status: StatusFailed, ErrorMessage: "transformation not yet implemented"}
	}
}

func missingFields(msg *Message, transformationType string) []string {
	var missing []string
	for _, tag := range requiredFields[transformationType] {
		if _, ok := msg.Get(tag); !ok {
			missing = append(missing, tag)
		}
	}
	return missing
}

// transformMT103ToMT202 maps :50K: -> :52A:, :59: -> :58A:, copies :20:,
// :32A:, :71A: verbatim, sets block 2's type to 202, and preserves an
// existing :52A: if the message already carries one.
func transformMT103ToMT202(content string) Result {
	msg := Parse(content)
	if missing := missingFields(msg, "MT103_TO_MT202"); len(missing) > 0 {
		return Result{Status: StatusValidationErr, ErrorMessage: fmt.Sprintf("missing required field(s): %s", strings.Join(missing, ", "))}
	}

	if _, has52A := msg.Get("52A"); !has52A {
		if v, ok := msg.Get("50K"); ok {
			msg.Set("52A", v)
		}
	}
	msg.Delete("50K")

	if v, ok := msg.Get("59"); ok {
		msg.Set("58A", v)
		msg.Delete("59")
	}

	msg.SetMessageType("202")

	return Result{
		Status:            StatusSuccess,
		OutputMessage:     msg.String(),
		OutputMessageType: "202",
	}
}

// transformMT202ToMT103 is the reverse mapping. Institution-to-customer
// field mapping is inherently lossy (an institution BIC carries no customer
// name/address), so this always returns a warning alongside success.
func transformMT202ToMT103(content string) Result {
	msg := Parse(content)
	if missing := missingFields(msg, "MT202_TO_MT103"); len(missing) > 0 {
		return Result{Status: StatusValidationErr, ErrorMessage: fmt.Sprintf("missing required field(s): %s", strings.Join(missing, ", "))}
	}

	if v, ok := msg.Get("52A"); ok {
		msg.Set("50K", v)
		msg.Delete("52A")
	}
	if v, ok := msg.Get("58A"); ok {
		msg.Set("59", v)
		msg.Delete("58A")
	}

	msg.SetMessageType("103")

	return Result{
		Status:            StatusSuccess,
		OutputMessage:     msg.String(),
		OutputMessageType: "103",
		Warnings:          []string{"institution→customer mapping is lossy"},
	}
}

// transformEnrichFields inserts a synthetic {108:...} user-header marker
// into block 3, leaving block 4 untouched.
func transformEnrichFields(content string) Result {
	msg := Parse(content)

	marker := "{108:BRIDGE-ENRICHED}"
	found := false
	for i, b := range msg.Blocks {
		if b.Number == "3" {
			if !strings.Contains(b.Content, "108:") {
				msg.Blocks[i].Content = b.Content + marker
			}
			found = true
			break
		}
	}
	if !found {
		msg.Blocks = append(msg.Blocks, Block{Number: "3", Content: marker})
		sortBlocksCanonical(msg)
	}

	return Result{Status: StatusSuccess, OutputMessage: msg.String(), OutputMessageType: msg.MessageType()}
}

// sortBlocksCanonical reorders blocks into ascending block-number order
// (1,2,3,4,5) after an insertion, since block 3 must precede block 4.
func sortBlocksCanonical(msg *Message) {
	order := map[string]int{"1": 0, "2": 1, "3": 2, "4": 3, "5": 4}
	blocks := msg.Blocks
	for i := 1; i < len(blocks); i++ {
		j := i
		for j > 0 && order[blocks[j-1].Number] > order[blocks[j].Number] {
			blocks[j-1], blocks[j] = blocks[j], blocks[j-1]
			j--
		}
	}
}

// transformNormalizeFormat canonicalises line endings (CRLF to LF) in
// block 4 field values and trims trailing spaces and tabs from each line,
// without touching any tag.
func transformNormalizeFormat(content string) Result {
	msg := Parse(content)
	for i := range msg.Fields {
		v := strings.ReplaceAll(msg.Fields[i].Value, "\r\n", "\n")
		lines := strings.Split(v, "\n")
		for j, line := range lines {
			lines[j] = strings.TrimRight(line, " \t")
		}
		msg.Fields[i].Value = strings.Join(lines, "\n")
	}
	return Result{Status: StatusSuccess, OutputMessage: msg.String(), OutputMessageType: msg.MessageType()}
}
