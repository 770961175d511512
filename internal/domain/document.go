package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"time"
)

// SchemaVersion is written to meta.schemaVersion of every new document
const SchemaVersion = "1.0"

// requiredDocumentFields must all be present for a document to be accepted
var requiredDocumentFields = []string{"meta", "settings", "entries"}

type Meta struct {
	SchemaVersion string    `json:"schemaVersion"`
	LastUpdated   time.Time `json:"lastUpdated"`
}

// Document is the single persisted aggregate: every entry, loan, goal and
// setting of the budget.
type Document struct {
	Meta     Meta                 `json:"meta"`
	Settings Settings             `json:"settings"`
	Entries  map[MonthKey][]Entry `json:"entries"`
	Loans    []Loan               `json:"loans"`
	Goals    []Goal               `json:"goals"`
}

// NewDocument creates an empty document with the default categories
func NewDocument(currencyLocale string, now time.Time) *Document {
	if currencyLocale == "" {
		currencyLocale = DefaultCurrencyLocale
	}
	categories := make([]string, len(DefaultExpenseCategories))
	copy(categories, DefaultExpenseCategories)
	return &Document{
		Meta: Meta{
			SchemaVersion: SchemaVersion,
			LastUpdated:   now,
		},
		Settings: Settings{
			CurrencyLocale:    currencyLocale,
			ExpenseCategories: categories,
		},
		Entries: make(map[MonthKey][]Entry),
		Loans:   []Loan{},
		Goals:   []Goal{},
	}
}

// ParseDocument decodes raw JSON into a Document. Input missing any of meta,
// settings or entries is rejected with ErrImportFormat.
func ParseDocument(raw []byte) (*Document, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImportFormat, err)
	}
	for _, name := range requiredDocumentFields {
		value, ok := fields[name]
		if !ok || bytes.Equal(bytes.TrimSpace(value), []byte("null")) {
			return nil, fmt.Errorf("%w: missing %q", ErrImportFormat, name)
		}
	}

	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImportFormat, err)
	}
	for key := range doc.Entries {
		if _, err := ParseMonthKey(string(key)); err != nil {
			return nil, fmt.Errorf("%w: bad entries bucket %q", ErrImportFormat, key)
		}
	}
	doc.Normalize()
	return &doc, nil
}

// Normalize replaces nil collections with empty ones and restores missing
// default categories
func (d *Document) Normalize() {
	if d.Meta.SchemaVersion == "" {
		d.Meta.SchemaVersion = SchemaVersion
	}
	if d.Settings.CurrencyLocale == "" {
		d.Settings.CurrencyLocale = DefaultCurrencyLocale
	}
	d.Settings.ensureDefaults()
	if d.Entries == nil {
		d.Entries = make(map[MonthKey][]Entry)
	}
	for key, bucket := range d.Entries {
		if bucket == nil {
			d.Entries[key] = []Entry{}
			continue
		}
		for i := range bucket {
			d.CanonicalizeCategory(&bucket[i])
		}
	}
	if d.Loans == nil {
		d.Loans = []Loan{}
	}
	if d.Goals == nil {
		d.Goals = []Goal{}
	}
}

// CanonicalizeCategory rewrites an expense category to the stored spelling
// of a known category, so "savings" becomes "Savings"
func (d *Document) CanonicalizeCategory(e *Entry) {
	if e.Type != EntryTypeExpense {
		return
	}
	if stored, ok := d.Settings.FindCategory(e.Category); ok {
		e.Category = stored
	}
}

// Validate checks every record against the entry, loan and goal rules and
// requires ids to be present and unique. Entries are not required to sit in the bucket of their current date:
// updates keep an entry in the bucket it was created in.
func (d *Document) Validate() error {
	seen := make(map[string]bool)
	for _, key := range d.MonthKeys() {
		for i := range d.Entries[key] {
			e := &d.Entries[key][i]
			if err := e.Validate(); err != nil {
				return fmt.Errorf("%w: entry %q in %s: %v", ErrImportFormat, e.ID, key, err)
			}
			if e.ID == "" {
				return fmt.Errorf("%w: entry in %s has no id", ErrImportFormat, key)
			}
			if seen[e.ID] {
				return fmt.Errorf("%w: duplicate entry id %q", ErrImportFormat, e.ID)
			}
			seen[e.ID] = true
		}
	}
	loans := make(map[string]bool, len(d.Loans))
	for i := range d.Loans {
		l := &d.Loans[i]
		if err := l.Validate(); err != nil {
			return fmt.Errorf("%w: loan %q: %v", ErrImportFormat, l.ID, err)
		}
		if l.ID == "" || loans[l.ID] {
			return fmt.Errorf("%w: loan id %q is missing or repeated", ErrImportFormat, l.ID)
		}
		loans[l.ID] = true
	}
	goals := make(map[string]bool, len(d.Goals))
	for i := range d.Goals {
		g := &d.Goals[i]
		if err := g.validateStored(); err != nil {
			return fmt.Errorf("%w: goal %q: %v", ErrImportFormat, g.ID, err)
		}
		if g.ID == "" || goals[g.ID] {
			return fmt.Errorf("%w: goal id %q is missing or repeated", ErrImportFormat, g.ID)
		}
		goals[g.ID] = true
	}
	return nil
}

// ParseImport decodes an import file and validates its records. Unlike
// ParseDocument, any record breaking the entry, loan or goal rules rejects
// the whole file.
func ParseImport(raw []byte) (*Document, error) {
	doc, err := ParseDocument(raw)
	if err != nil {
		return nil, err
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return doc, nil
}

// Clone returns a copy that shares no slices or maps with d. Pointer fields
// inside entries, loans and goals are shared; they are replaced, never
// written through.
func (d *Document) Clone() *Document {
	clone := &Document{
		Meta: d.Meta,
		Settings: Settings{
			CurrencyLocale:    d.Settings.CurrencyLocale,
			ExpenseCategories: append([]string{}, d.Settings.ExpenseCategories...),
		},
		Entries: make(map[MonthKey][]Entry, len(d.Entries)),
		Loans:   append([]Loan{}, d.Loans...),
		Goals:   append([]Goal{}, d.Goals...),
	}
	for key, bucket := range d.Entries {
		clone.Entries[key] = append([]Entry{}, bucket...)
	}
	return clone
}

// MonthKeys returns the bucket keys in ascending order
func (d *Document) MonthKeys() []MonthKey {
	keys := make([]MonthKey, 0, len(d.Entries))
	for key := range d.Entries {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// AllEntries flattens every bucket, oldest bucket first, keeping insertion
// order within a bucket
func (d *Document) AllEntries() []Entry {
	var all []Entry
	for _, key := range d.MonthKeys() {
		all = append(all, d.Entries[key]...)
	}
	return all
}

// FindEntry locates an entry by id across all buckets
func (d *Document) FindEntry(id string) (MonthKey, int, bool) {
	for key, bucket := range d.Entries {
		for i := range bucket {
			if bucket[i].ID == id {
				return key, i, true
			}
		}
	}
	return "", -1, false
}

// AppendEntry stores e under the bucket derived from its date
func (d *Document) AppendEntry(e Entry) MonthKey {
	key := e.MonthKey()
	d.Entries[key] = append(d.Entries[key], e)
	return key
}

// RemoveEntry deletes the entry with id. Empty buckets are kept.
func (d *Document) RemoveEntry(id string) (Entry, bool) {
	key, i, ok := d.FindEntry(id)
	if !ok {
		return Entry{}, false
	}
	bucket := d.Entries[key]
	removed := bucket[i]
	d.Entries[key] = append(bucket[:i:i], bucket[i+1:]...)
	return removed, true
}

// FindLoan returns the index of the loan with id, or -1
func (d *Document) FindLoan(id string) int {
	for i := range d.Loans {
		if d.Loans[i].ID == id {
			return i
		}
	}
	return -1
}

// FindGoal returns the index of the goal with id, or -1
func (d *Document) FindGoal(id string) int {
	for i := range d.Goals {
		if d.Goals[i].ID == id {
			return i
		}
	}
	return -1
}

// Marshal serializes the document in its persisted JSON shape
func (d *Document) Marshal() ([]byte, error) {
	return json.Marshal(d)
}
