package persona

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

type Result struct {
	Raw         string
	DecodeError string
	ModelError  string
	Entries     []Entry
	Issues      []Issue
}

// Entry is one top-level field in the order the model emitted it.
type Entry struct {
	Key    string
	Title  string
	Emoji  string
	Value  string
	IsList bool
	Items  []Item
}

// Item is one element of a list-valued field, usually a person.
type Item struct {
	Attributes []Attribute
	Value      string

	isObject bool
}

type Attribute struct {
	Key   string
	Title string
	Emoji string
	Value string
}

type Issue struct {
	Field   string
	Message string
}

func (i Issue) String() string {
	return fmt.Sprintf("%s: %s", i.Field, i.Message)
}

func (r *Result) OK() bool {
	return r.DecodeError == "" && r.ModelError == ""
}

func (r *Result) Entry(key string) (Entry, bool) {
	for _, e := range r.Entries {
		if e.Key == key {
			return e, true
		}
	}
	return Entry{}, false
}

type member struct {
	key   string
	value json.RawMessage
}

// Parse decodes the analyzer's raw text. It never fails: a payload that is
// not a JSON object yields DecodeError, and schema mismatches are collected
// as Issues while everything that decoded is still rendered.
func Parse(raw string) *Result {
	result := &Result{Raw: raw}

	members, err := decodeObject([]byte(extractObject(raw)))
	if err != nil {
		result.DecodeError = err.Error()
		return result
	}

	for _, m := range members {
		entry := Entry{Key: m.key, Title: Title(m.key), Emoji: Emoji(m.key)}

		switch trimmed := bytes.TrimSpace(m.value); {
		case len(trimmed) > 0 && trimmed[0] == '[':
			entry.IsList = true
			entry.Items = decodeItems(trimmed)
		default:
			entry.Value = scalarString(trimmed)
		}

		if m.key == FieldError {
			result.ModelError = entry.Value
		}
		result.Entries = append(result.Entries, entry)
	}

	if result.ModelError == "" {
		validate(result)
	}
	return result
}

// extractObject drops markdown fences, a leading "QA =" and any prose
// surrounding the outermost braces.
func extractObject(raw string) string {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end < start {
		return raw
	}
	return raw[start : end+1]
}

func decodeObject(data []byte) ([]member, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, errors.New("invalid JSON: expected an object")
	}

	var members []member
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("invalid JSON: %w", err)
		}
		key, ok := tok.(string)
		if !ok {
			return nil, errors.New("invalid JSON: expected a field name")
		}

		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, fmt.Errorf("invalid JSON in %q: %w", key, err)
		}
		members = append(members, member{key: key, value: value})
	}

	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	return members, nil
}

func decodeItems(data []byte) []Item {
	var elems []json.RawMessage
	if err := json.Unmarshal(data, &elems); err != nil {
		return nil
	}

	items := make([]Item, 0, len(elems))
	for _, elem := range elems {
		members, err := decodeObject(elem)
		if err != nil {
			items = append(items, Item{Value: scalarString(elem)})
			continue
		}

		item := Item{isObject: true}
		for _, m := range members {
			item.Attributes = append(item.Attributes, Attribute{
				Key:   m.key,
				Title: Title(m.key),
				Emoji: Emoji(m.key),
				Value: scalarString(m.value),
			})
		}
		items = append(items, item)
	}
	return items
}

// scalarString shows strings unquoted and anything else as compact JSON.
func scalarString(data json.RawMessage) string {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		return s
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, data); err != nil {
		return string(data)
	}
	return buf.String()
}
