package services

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "defter/internal/errors"
	"defter/internal/models"
	"defter/internal/pagination"
)

// journalService handles journal entry state transitions. Every mutation
// runs as a single transaction: the header and all lines commit together or
// not at all. The fiscal period guard is consulted on every create/update,
// and re-checked right before commit so a concurrent period close fails the
// mutation instead of slipping past it.
type journalService struct {
	db            *gorm.DB
	periodService PeriodServicer
}

// NewJournalService creates a new JournalServicer.
func NewJournalService(db *gorm.DB, periodService PeriodServicer) JournalServicer {
	return &journalService{db: db, periodService: periodService}
}

// buildLines converts line inputs into models, rejecting any line that
// violates the single-direction amount rule.
func buildLines(inputs []EntryLine) ([]models.JournalLine, error) {
	lines := make([]models.JournalLine, len(inputs))
	for i, in := range inputs {
		line := models.JournalLine{
			AccountID: in.AccountID,
			LineNo:    in.LineNo,
			Debit:     in.Debit,
			Credit:    in.Credit,
		}
		if !line.ValidAmounts() {
			return nil, apperrors.ErrInvalidLineAmount
		}
		lines[i] = line
	}
	return lines, nil
}

// assignLineNumbers fills missing line numbers with 1-based sequential values
// in attachment order, continuing after the highest explicit number.
func assignLineNumbers(lines []models.JournalLine) {
	next := 0
	for i := range lines {
		if lines[i].LineNo > next {
			next = lines[i].LineNo
		}
	}
	for i := range lines {
		if lines[i].LineNo == 0 {
			next++
			lines[i].LineNo = next
		}
	}
}

// checkAccountsExist verifies every referenced account exists.
func checkAccountsExist(tx *gorm.DB, lines []models.JournalLine) error {
	if len(lines) == 0 {
		return nil
	}
	ids := make(map[uint]struct{}, len(lines))
	for i := range lines {
		ids[lines[i].AccountID] = struct{}{}
	}
	distinct := make([]uint, 0, len(ids))
	for id := range ids {
		distinct = append(distinct, id)
	}

	var count int64
	if err := tx.Model(&models.Account{}).Where("id IN ?", distinct).Count(&count).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count != int64(len(distinct)) {
		return apperrors.WithMessage(apperrors.ErrAccountNotFound, "a line references an unknown account")
	}
	return nil
}

// assertPeriodOpen fails with ErrPeriodClosed when the period containing the
// date is closed.
func (s *journalService) assertPeriodOpen(tx *gorm.DB, date time.Time) error {
	closed, err := s.periodService.IsClosed(tx, date)
	if err != nil {
		return err
	}
	if closed {
		return apperrors.ErrPeriodClosed
	}
	return nil
}

// CreateEntry creates a draft entry with zero or more lines. Drafts may be
// unbalanced; only the period check and the line amount invariants apply.
func (s *journalService) CreateEntry(date time.Time, description string, createdBy *string, lines []EntryLine) (*models.JournalEntry, error) {
	if description == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "description is required")
	}

	modelLines, err := buildLines(lines)
	if err != nil {
		return nil, err
	}

	entry := &models.JournalEntry{
		Date:        date,
		Description: description,
		Status:      models.EntryStatusDraft,
		CreatedBy:   createdBy,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.assertPeriodOpen(tx, date); err != nil {
			return err
		}
		if err := checkAccountsExist(tx, modelLines); err != nil {
			return err
		}

		if err := tx.Create(entry).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		assignLineNumbers(modelLines)
		for i := range modelLines {
			modelLines[i].EntryID = entry.ID
		}
		if len(modelLines) > 0 {
			if err := tx.Create(&modelLines).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
		}
		entry.Lines = modelLines

		// Re-validate right before commit: a period closed since the first
		// check rejects the whole mutation.
		return s.assertPeriodOpen(tx, date)
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// UpdateEntry updates an entry's header and optionally replaces its lines.
// The period check applies regardless of status; a posted entry must remain
// balanced after the update. Replacing lines renumbers them 1..N.
func (s *journalService) UpdateEntry(id uint, date *time.Time, description *string, lines *[]EntryLine) (*models.JournalEntry, error) {
	entry, err := s.GetEntry(id)
	if err != nil {
		return nil, err
	}

	var newLines []models.JournalLine
	if lines != nil {
		newLines, err = buildLines(*lines)
		if err != nil {
			return nil, err
		}
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		updates := make(map[string]interface{})
		if date != nil {
			entry.Date = *date
			updates["date"] = *date
		}
		if description != nil && *description != "" {
			entry.Description = *description
			updates["description"] = *description
		}

		if err := s.assertPeriodOpen(tx, entry.Date); err != nil {
			return err
		}

		if lines != nil {
			if err := checkAccountsExist(tx, newLines); err != nil {
				return err
			}
			if err := tx.Where("entry_id = ?", entry.ID).Delete(&models.JournalLine{}).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
			assignLineNumbers(newLines)
			for i := range newLines {
				newLines[i].EntryID = entry.ID
			}
			if len(newLines) > 0 {
				if err := tx.Create(&newLines).Error; err != nil {
					return apperrors.Wrap(apperrors.ErrInternalServer, err)
				}
			}
			entry.Lines = newLines
		}

		// An entry that is already posted must stay balanced through any
		// update; drafts may be saved unbalanced.
		if entry.Status == models.EntryStatusPosted && !entry.IsBalanced() {
			return apperrors.ErrUnbalancedEntry
		}

		if len(updates) > 0 {
			if err := tx.Model(&models.JournalEntry{}).Where("id = ?", entry.ID).Updates(updates).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
		}

		return s.assertPeriodOpen(tx, entry.Date)
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// PostEntry transitions an entry from draft to posted. The entry must be
// balanced and dated in an open period. Posting an already-posted balanced
// entry is a no-op.
func (s *journalService) PostEntry(id uint) (*models.JournalEntry, error) {
	entry, err := s.GetEntry(id)
	if err != nil {
		return nil, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.assertPeriodOpen(tx, entry.Date); err != nil {
			return err
		}
		if !entry.IsBalanced() {
			return apperrors.ErrUnbalancedEntry
		}

		if entry.Status != models.EntryStatusPosted {
			if err := tx.Model(&models.JournalEntry{}).Where("id = ?", entry.ID).
				Update("status", models.EntryStatusPosted).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
			entry.Status = models.EntryStatusPosted
		}

		return s.assertPeriodOpen(tx, entry.Date)
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// GetEntry retrieves an entry with its lines ordered by line_no, then ID.
func (s *journalService) GetEntry(id uint) (*models.JournalEntry, error) {
	var entry models.JournalEntry
	err := s.db.Preload("Lines", func(db *gorm.DB) *gorm.DB {
		return db.Order("line_no, id")
	}).First(&entry, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrEntryNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &entry, nil
}

// ListEntries returns entries filtered by date range, newest first, together
// with aggregate totals over the whole filtered set.
func (s *journalService) ListEntries(start, end *time.Time, page pagination.PageRequest) (*pagination.PageResponse[models.JournalEntry], *EntryTotals, error) {
	page.Defaults()

	base := s.db.Model(&models.JournalEntry{})
	if start != nil {
		base = base.Where("date >= ?", *start)
	}
	if end != nil {
		base = base.Where("date <= ?", *end)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var entries []models.JournalEntry
	if err := base.Order("date DESC, id DESC").
		Scopes(pagination.Paginate(page)).
		Preload("Lines", func(db *gorm.DB) *gorm.DB {
			return db.Order("line_no, id")
		}).
		Find(&entries).Error; err != nil {
		return nil, nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	totals, err := s.entryTotals(start, end)
	if err != nil {
		return nil, nil, err
	}
	totals.Count = totalItems

	result := pagination.NewPageResponse(entries, page.Page, page.PageSize, totalItems)
	return &result, totals, nil
}

// entryTotals sums debit and credit over every line of the entries in range.
func (s *journalService) entryTotals(start, end *time.Time) (*EntryTotals, error) {
	q := s.db.Model(&models.JournalLine{}).
		Joins("JOIN journal_entries ON journal_entries.id = journal_lines.entry_id")
	if start != nil {
		q = q.Where("journal_entries.date >= ?", *start)
	}
	if end != nil {
		q = q.Where("journal_entries.date <= ?", *end)
	}

	var rows []amountRow
	if err := q.Select("journal_lines.debit, journal_lines.credit").Scan(&rows).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	totals := &EntryTotals{TotalDebit: decimal.Zero, TotalCredit: decimal.Zero}
	for i := range rows {
		totals.TotalDebit = totals.TotalDebit.Add(rows[i].Debit)
		totals.TotalCredit = totals.TotalCredit.Add(rows[i].Credit)
	}
	return totals, nil
}

// DeleteEntry deletes a draft entry and its lines. Posted entries are
// immutable by convention and cannot be deleted.
func (s *journalService) DeleteEntry(id uint) error {
	entry, err := s.GetEntry(id)
	if err != nil {
		return err
	}
	if entry.Status == models.EntryStatusPosted {
		return apperrors.ErrEntryPosted
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("entry_id = ?", entry.ID).Delete(&models.JournalLine{}).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := tx.Delete(&models.JournalEntry{}, entry.ID).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
}

// BackfillLineNumbers assigns line_no to every line, grouped per entry and
// numbered 1..N in (entry_id, id) order. It is idempotent: lines already
// carrying the right number are left untouched, so it can be re-run safely.
// Returns the number of lines that were renumbered.
func (s *journalService) BackfillLineNumbers() (int, error) {
	updated := 0
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var lines []models.JournalLine
		if err := tx.Order("entry_id, id").Find(&lines).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		currentEntry := uint(0)
		counter := 0
		for i := range lines {
			if lines[i].EntryID != currentEntry {
				currentEntry = lines[i].EntryID
				counter = 1
			} else {
				counter++
			}
			if lines[i].LineNo == counter {
				continue
			}
			if err := tx.Model(&models.JournalLine{}).Where("id = ?", lines[i].ID).
				Update("line_no", counter).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
			updated++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return updated, nil
}
