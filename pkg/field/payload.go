package field

import (
	"bytes"
	"encoding/json"
	"net/url"
	"strings"
)

// Pair is one identifier/value entry of a payload.
type Pair struct {
	Key   string
	Value string
}

// Payload is the ordered set of validated, trimmed values sent in one
// submission.
type Payload []Pair

// Get returns the value stored under key.
func (p Payload) Get(key string) (string, bool) {
	for _, pair := range p {
		if pair.Key == key {
			return pair.Value, true
		}
	}
	return "", false
}

// Encode renders the payload as a URL query string, preserving order.
func (p Payload) Encode() string {
	if len(p) == 0 {
		return ""
	}
	var sb strings.Builder
	for i, pair := range p {
		if i > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(url.QueryEscape(pair.Key))
		sb.WriteByte('=')
		sb.WriteString(url.QueryEscape(pair.Value))
	}
	return sb.String()
}

// Map returns an unordered copy of the payload.
func (p Payload) Map() map[string]string {
	out := make(map[string]string, len(p))
	for _, pair := range p {
		out[pair.Key] = pair.Value
	}
	return out
}

// MarshalJSON encodes the payload as a JSON object whose keys keep the
// payload order.
func (p Payload) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, pair := range p {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(pair.Key)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(pair.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
