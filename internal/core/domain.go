package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Income  Kind = "income"
	Expense Kind = "expense"

	High   Priority = "high"
	Medium Priority = "medium"
	Low    Priority = "low"
)

type (
	// Kind distinguishes the two ledger collections.
	Kind string

	// Priority ranks a wishlist goal.
	Priority string

	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	Profile struct {
		Name  string `json:"name"`
		Email string `json:"email"`
		Bio   string `json:"bio"`
	}

	// LedgerItem is a single income or expense record.
	LedgerItem struct {
		ID          string `json:"id"`
		Value       Money  `json:"value"`
		Description string `json:"description"`
		Category    string `json:"category"`
		Date        Date   `json:"date"`
	}

	// Goal is a wishlist entry with a target price and a purchased flag.
	Goal struct {
		ID       string   `json:"id"`
		Name     string   `json:"name"`
		Price    Money    `json:"price"`
		Priority Priority `json:"priority"`
		Bought   bool     `json:"bought"`
	}

	// FixedCost is a recurring monthly expense tracked apart from ad-hoc ones.
	FixedCost struct {
		ID    string `json:"id"`
		Name  string `json:"name"`
		Value Money  `json:"value"`
	}
)

var (
	ErrInvalidKind        = errors.New("invalid ledger kind")
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrInvalidDate        = errors.New("invalid date")
	ErrInvalidPriority    = errors.New("invalid priority")
	ErrEmptyDescription   = errors.New("empty description")
	ErrDescriptionTooLong = errors.New("description too long (max 200 characters)")
	ErrEmptyName          = errors.New("empty name")
	ErrEmptyCategory      = errors.New("empty category")
	ErrDuplicateCategory  = errors.New("duplicate category")
)

const dateLayout = "2006-01-02"

func (k Kind) Validate() error {
	switch k {
	case Income, Expense:
		return nil
	}
	return ErrInvalidKind
}

// ParsePriority accepts the persisted lowercase form and the
// capitalized form found in older export files.
func ParsePriority(s string) (Priority, error) {
	switch Priority(strings.ToLower(strings.TrimSpace(s))) {
	case High:
		return High, nil
	case Medium:
		return Medium, nil
	case Low:
		return Low, nil
	}
	return "", ErrInvalidPriority
}

func (p Priority) Validate() error {
	_, err := ParsePriority(string(p))
	return err
}

// Today returns the current date truncated to midnight UTC.
func Today() Date {
	y, m, d := time.Now().UTC().Date()
	return NewDate(y, int(m), d)
}

// NewDate creates a Date from year, month, day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses an ISO date string (2006-01-02).
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

func (d Date) String() string {
	return d.Format(dateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte(`""`), nil
	}
	return []byte(`"` + d.Format(dateLayout) + `"`), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		d.Time = time.Time{}
		return nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return ErrInvalidDate
	}
	d.Time = t
	return nil
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (it LedgerItem) Validate() error {
	if err := it.Value.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(it.Description) == "" {
		return ErrEmptyDescription
	}
	if len(it.Description) > 200 {
		return ErrDescriptionTooLong
	}
	if strings.TrimSpace(it.Category) == "" {
		return ErrEmptyCategory
	}
	if it.Date.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

func (g Goal) Validate() error {
	if strings.TrimSpace(g.Name) == "" {
		return ErrEmptyName
	}
	if err := g.Price.Validate(); err != nil {
		return err
	}
	return g.Priority.Validate()
}

func (fc FixedCost) Validate() error {
	if strings.TrimSpace(fc.Name) == "" {
		return ErrEmptyName
	}
	return fc.Value.Validate()
}
