package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/budgetbook/budgetbook/internal/domain"
	"github.com/budgetbook/budgetbook/internal/websocket"
	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
)

// ImportMode selects how an imported document is combined with the current one
type ImportMode string

const (
	ImportModeReplace ImportMode = "replace"
	ImportModeMerge   ImportMode = "merge"
)

// ParseImportMode validates an import mode. An empty mode means replace.
func ParseImportMode(s string) (ImportMode, error) {
	switch ImportMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ImportModeReplace:
		return ImportModeReplace, nil
	case ImportModeMerge:
		return ImportModeMerge, nil
	default:
		return "", domain.ErrInvalidImportMode
	}
}

// ImportResult reports what an import changed
type ImportResult struct {
	Mode            ImportMode `json:"mode"`
	EntriesImported int        `json:"entriesImported"`
	LoansImported   int        `json:"loansImported"`
	GoalsImported   int        `json:"goalsImported"`
	CategoriesAdded int        `json:"categoriesAdded"`
	MonthsTouched   int        `json:"monthsTouched"`
}

// TransferService serializes the whole document for export and applies
// imported documents
type TransferService struct {
	store *Store
}

// NewTransferService creates a new TransferService
func NewTransferService(store *Store) *TransferService {
	return &TransferService{store: store}
}

// BackupFilename returns the download name for an export taken at t
func BackupFilename(t time.Time) string {
	return fmt.Sprintf("budget-backup-%s.json", t.UTC().Format("2006-01-02"))
}

// ExportSnapshot returns a copy of the full document
func (s *TransferService) ExportSnapshot() *domain.Document {
	return s.store.Snapshot()
}

// ExportJSON returns the indented JSON export and its file name
func (s *TransferService) ExportJSON() ([]byte, string, error) {
	data, err := json.MarshalIndent(s.store.Snapshot(), "", "  ")
	if err != nil {
		return nil, "", err
	}
	return data, BackupFilename(s.store.Now()), nil
}

// ImportSnapshot parses raw and applies it with mode. Input that fails
// validation is rejected before the current document is touched.
func (s *TransferService) ImportSnapshot(ctx context.Context, raw []byte, mode ImportMode) (*ImportResult, error) {
	if mode != ImportModeReplace && mode != ImportModeMerge {
		return nil, domain.ErrInvalidImportMode
	}
	incoming, err := domain.ParseImport(raw)
	if err != nil {
		return nil, err
	}

	result := &ImportResult{
		Mode:          mode,
		LoansImported: len(incoming.Loans),
		GoalsImported: len(incoming.Goals),
		MonthsTouched: len(incoming.Entries),
	}
	for _, bucket := range incoming.Entries {
		result.EntriesImported += len(bucket)
	}

	err = s.store.mutate(ctx, func(doc *domain.Document) (websocket.Event, error) {
		switch mode {
		case ImportModeReplace:
			*doc = *incoming
		case ImportModeMerge:
			result.CategoriesAdded = mergeDocument(doc, incoming)
		}
		return websocket.DocumentImported(*result), nil
	})
	if err != nil && !isPersistenceError(err) {
		return nil, err
	}
	return result, err
}

// mergeDocument unions incoming into doc: entry buckets key-wise, categories
// as a case-insensitive set, loans and goals concatenated. Nothing is
// de-duplicated, so merging the same file twice doubles its records. Merged
// records whose id is already taken get a fresh one, keeping ids unique.
func mergeDocument(doc, incoming *domain.Document) int {
	added := 0
	for _, name := range incoming.Settings.ExpenseCategories {
		if doc.Settings.AddCategory(name) {
			added++
		}
	}

	taken := make(map[string]bool)
	for _, e := range doc.AllEntries() {
		taken[e.ID] = true
	}
	for _, l := range doc.Loans {
		taken[l.ID] = true
	}
	for _, g := range doc.Goals {
		taken[g.ID] = true
	}
	claim := func(id string) string {
		if id == "" || taken[id] {
			id = uuid.NewString()
		}
		taken[id] = true
		return id
	}

	goalIDs := make(map[string]string, len(incoming.Goals))
	for _, g := range incoming.Goals {
		oldID := g.ID
		g.ID = claim(oldID)
		goalIDs[oldID] = g.ID
		doc.Goals = append(doc.Goals, g)
	}
	for _, l := range incoming.Loans {
		l.ID = claim(l.ID)
		doc.Loans = append(doc.Loans, l)
	}

	for _, key := range incoming.MonthKeys() {
		merged := append([]domain.Entry{}, doc.Entries[key]...)
		for _, e := range incoming.Entries[key] {
			e.ID = claim(e.ID)
			if e.GoalID != nil {
				if id, ok := goalIDs[*e.GoalID]; ok {
					e.GoalID = &id
				}
			}
			doc.CanonicalizeCategory(&e)
			merged = append(merged, e)
		}
		doc.Entries[key] = merged
	}
	return added
}

var xlsxHeaders = []string{"Type", "Date", "Category", "Description", "Note", "Amount"}

// ExportXLSX writes every entry, newest first, as a spreadsheet to w
func (s *TransferService) ExportXLSX(w io.Writer) (string, error) {
	doc := s.store.Snapshot()
	entries := doc.AllEntries()
	sortEntriesNewestFirst(entries)

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Entries"
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return "", fmt.Errorf("failed to create sheet: %w", err)
	}

	for i, h := range xlsxHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, h)
	}

	for idx, e := range entries {
		row := idx + 2
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), string(e.Type))
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), e.Date.String())
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), e.Category)
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), e.Description)
		f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), e.NoteText())
		f.SetCellValue(sheetName, fmt.Sprintf("F%d", row), e.Amount.InexactFloat64())
	}

	f.SetColWidth(sheetName, "A", "A", 10)
	f.SetColWidth(sheetName, "B", "B", 12)
	f.SetColWidth(sheetName, "C", "C", 18)
	f.SetColWidth(sheetName, "D", "E", 30)
	f.SetColWidth(sheetName, "F", "F", 12)

	if err := f.Write(w); err != nil {
		return "", fmt.Errorf("failed to write workbook: %w", err)
	}
	return strings.TrimSuffix(BackupFilename(s.store.Now()), ".json") + ".xlsx", nil
}
