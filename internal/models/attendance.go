package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Attendance is a student's raw day counters as stored by the service.
type Attendance struct {
	TotalDays    int `json:"totalDays"`
	AttendedDays int `json:"attendedDays"`
}

// SubjectMark is a single subject entry.
type SubjectMark struct {
	Subject string
	Mark    json.Number
}

// Marks keeps a student's subject marks in the order the service sent them.
type Marks []SubjectMark

// UnmarshalJSON decodes a {"subject": mark} object preserving key order.
func (m *Marks) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("marks: expected object, got %v", tok)
	}

	out := Marks{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		subject, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("marks: unexpected key %v", keyTok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return err
		}
		out = append(out, SubjectMark{Subject: subject, Mark: json.Number(bytes.TrimSpace(raw))})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*m = out
	return nil
}

// MarshalJSON encodes the marks back into an object.
func (m Marks) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, entry := range m {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(entry.Subject)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		if entry.Mark == "" {
			buf.WriteString("null")
		} else {
			buf.WriteString(string(entry.Mark))
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
