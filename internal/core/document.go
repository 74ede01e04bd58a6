package core

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// State aggregates the six persisted collections. The JSON tags match
// the snapshot document and the export file shape.
type State struct {
	User       Profile      `json:"user"`
	Categories []string     `json:"categories"`
	Entries    []LedgerItem `json:"entries"`
	Expenses   []LedgerItem `json:"expenses"`
	Goals      []Goal       `json:"goals"`
	FixedCosts []FixedCost  `json:"fixedCosts"`
}

// DefaultCategories seeds a fresh state. Names follow the export file
// locale (meus_dados_financeiros.json).
func DefaultCategories() []string {
	return []string{"Alimentação", "Moradia", "Transporte", "Lazer", "Saúde", "Outros"}
}

// DefaultState returns the state used when no snapshot exists yet.
// Slices are non-nil so every key encodes as an empty array.
func DefaultState() State {
	return State{
		Categories: DefaultCategories(),
		Entries:    []LedgerItem{},
		Expenses:   []LedgerItem{},
		Goals:      []Goal{},
		FixedCosts: []FixedCost{},
	}
}

// Clone returns a deep copy so callers can read without holding
// locks. Collections stay non-nil so the copy encodes the same way
// the original does.
func (s State) Clone() State {
	c := s
	c.Categories = append([]string(nil), s.Categories...)
	c.Entries = append([]LedgerItem(nil), s.Entries...)
	c.Expenses = append([]LedgerItem(nil), s.Expenses...)
	c.Goals = append([]Goal(nil), s.Goals...)
	c.FixedCosts = append([]FixedCost(nil), s.FixedCosts...)
	return normalized(c)
}

// EncodeDocument serializes the state as the compact snapshot document.
func EncodeDocument(s State) ([]byte, error) {
	data, err := json.Marshal(normalized(s))
	if err != nil {
		return nil, fmt.Errorf("encode snapshot document: %w", err)
	}
	return data, nil
}

// EncodeDocumentIndent serializes the state pretty-printed, the shape
// offered to the user as an export file.
func EncodeDocumentIndent(s State) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(normalized(s)); err != nil {
		return nil, fmt.Errorf("encode export document: %w", err)
	}
	return buf.Bytes(), nil
}

// DecodeDocument parses a snapshot or import document. Malformed JSON
// is an error; a missing key falls back to its default field by field,
// never failing the whole document.
func DecodeDocument(data []byte) (State, error) {
	var doc struct {
		User       *Profile      `json:"user"`
		Categories *[]string     `json:"categories"`
		Entries    *[]LedgerItem `json:"entries"`
		Expenses   *[]LedgerItem `json:"expenses"`
		Goals      *[]Goal       `json:"goals"`
		FixedCosts *[]FixedCost  `json:"fixedCosts"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return State{}, fmt.Errorf("parse snapshot document: %w", err)
	}
	s := DefaultState()
	if doc.User != nil {
		s.User = *doc.User
	}
	if doc.Categories != nil {
		s.Categories = *doc.Categories
	}
	if doc.Entries != nil {
		s.Entries = *doc.Entries
	}
	if doc.Expenses != nil {
		s.Expenses = *doc.Expenses
	}
	if doc.Goals != nil {
		s.Goals = *doc.Goals
	}
	if doc.FixedCosts != nil {
		s.FixedCosts = *doc.FixedCosts
	}
	return normalized(s), nil
}

// normalized replaces nil slices so the six keys always encode as
// arrays, keeping save/load round trips byte-stable.
func normalized(s State) State {
	if s.Categories == nil {
		s.Categories = []string{}
	}
	if s.Entries == nil {
		s.Entries = []LedgerItem{}
	}
	if s.Expenses == nil {
		s.Expenses = []LedgerItem{}
	}
	if s.Goals == nil {
		s.Goals = []Goal{}
	}
	if s.FixedCosts == nil {
		s.FixedCosts = []FixedCost{}
	}
	return s
}
