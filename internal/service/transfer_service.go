package service

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"tindahan/internal/model"
	"tindahan/internal/repository"
	"tindahan/pkg/apperror"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// csvHeader is the fixed column layout of a catalog file. Re-Order (Yes/No)
// is derived from stock versus threshold on export and ignored on import.
var csvHeader = []string{
	"Item No.",
	"Item Name",
	"Description",
	"Unit",
	"Supplier Price (Per Unit)",
	"Selling Price",
	"Current Stock",
	"Re-Order (Yes/No)",
	"Re-Order QTY",
}

// ItemRecord is the portable shape of a catalog row, shared by the CSV and
// JSON codecs.
type ItemRecord struct {
	ItemNo        string `json:"item_no"`
	Name          string `json:"item_name"`
	Description   string `json:"description"`
	Unit          string `json:"unit"`
	SupplierPrice string `json:"supplier_price"`
	SellingPrice  string `json:"selling_price"`
	CurrentStock  int    `json:"current_stock"`
	ReorderNeeded bool   `json:"reorder_needed"`
	ReorderQty    int    `json:"reorder_qty"`

	existing bool `json:"-"` // set during import when the item was already on file
	row      int  `json:"-"` // source row in the import file
}

// RowError ties an import failure to its source line.
type RowError struct {
	Row    int    `json:"row"`
	ItemNo string `json:"item_no,omitempty"`
	Reason string `json:"reason"`
}

// ImportReport summarizes a catalog import. Bad rows never abort the run;
// they land in Errors and the rest of the file still goes through.
type ImportReport struct {
	Added   int        `json:"added"`
	Updated int        `json:"updated"`
	Skipped int        `json:"skipped"`
	Errors  []RowError `json:"errors,omitempty"`
}

type TransferService interface {
	ExportCSV(ctx context.Context, w io.Writer) (int, error)
	ExportJSON(ctx context.Context, w io.Writer) (int, error)
	ExportCSVFile(ctx context.Context, path string) (int, error)
	ExportJSONFile(ctx context.Context, path string) (int, error)
	ImportCSV(ctx context.Context, r io.Reader) (*ImportReport, error)
	ImportJSON(ctx context.Context, r io.Reader) (*ImportReport, error)
	ImportCSVFile(ctx context.Context, path string) (*ImportReport, error)
	ImportJSONFile(ctx context.Context, path string) (*ImportReport, error)
}

type transferService struct {
	itemRepo  repository.ItemRepository
	auditRepo repository.AuditRepository
	txManager repository.TransactionManager
}

func NewTransferService(
	itemRepo repository.ItemRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
) TransferService {
	return &transferService{
		itemRepo:  itemRepo,
		auditRepo: auditRepo,
		txManager: txManager,
	}
}

// --- export ---

func (s *transferService) ExportCSV(ctx context.Context, w io.Writer) (int, error) {
	items, err := s.itemRepo.ListAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list items for export: %w", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return 0, fmt.Errorf("failed to write csv header: %w", err)
	}
	for i := range items {
		rec := toRecord(&items[i])
		row := []string{
			rec.ItemNo,
			rec.Name,
			rec.Description,
			rec.Unit,
			rec.SupplierPrice,
			rec.SellingPrice,
			strconv.Itoa(rec.CurrentStock),
			yesNo(rec.ReorderNeeded),
			strconv.Itoa(rec.ReorderQty),
		}
		if err := cw.Write(row); err != nil {
			return 0, fmt.Errorf("failed to write csv row for %s: %w", rec.ItemNo, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return 0, fmt.Errorf("failed to flush csv: %w", err)
	}
	return len(items), nil
}

func (s *transferService) ExportJSON(ctx context.Context, w io.Writer) (int, error) {
	items, err := s.itemRepo.ListAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list items for export: %w", err)
	}

	records := make([]ItemRecord, 0, len(items))
	for i := range items {
		records = append(records, toRecord(&items[i]))
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return 0, fmt.Errorf("failed to encode catalog json: %w", err)
	}
	return len(records), nil
}

func (s *transferService) ExportCSVFile(ctx context.Context, path string) (int, error) {
	return s.exportFile(ctx, path, s.ExportCSV)
}

func (s *transferService) ExportJSONFile(ctx context.Context, path string) (int, error) {
	return s.exportFile(ctx, path, s.ExportJSON)
}

// exportFile writes to a sibling temp file and renames over the target, so a
// failed export never truncates an existing backup.
func (s *transferService) exportFile(ctx context.Context, path string, write func(context.Context, io.Writer) (int, error)) (int, error) {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return 0, fmt.Errorf("failed to create temp export file: %w", err)
	}
	defer os.Remove(tmp.Name())

	n, err := write(ctx, tmp)
	if err != nil {
		tmp.Close()
		return 0, err
	}
	if err := tmp.Close(); err != nil {
		return 0, fmt.Errorf("failed to close temp export file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return 0, fmt.Errorf("failed to move export into place: %w", err)
	}
	return n, nil
}

// --- import ---

func (s *transferService) ImportCSV(ctx context.Context, r io.Reader) (*ImportReport, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, apperror.Validation("catalog", "file", "empty or unreadable csv file")
	}
	if err := checkHeader(header); err != nil {
		return nil, err
	}

	records := make([]ItemRecord, 0)
	report := &ImportReport{}
	row := 1
	for {
		row++
		fields, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			report.Errors = append(report.Errors, RowError{Row: row, Reason: err.Error()})
			report.Skipped++
			continue
		}
		rec, err := fromCSVRow(fields)
		if err != nil {
			report.Errors = append(report.Errors, RowError{Row: row, ItemNo: rec.ItemNo, Reason: err.Error()})
			report.Skipped++
			continue
		}
		rec.row = row
		records = append(records, rec)
	}

	if err := s.applyRecords(ctx, records, report); err != nil {
		return nil, err
	}
	return report, nil
}

func (s *transferService) ImportJSON(ctx context.Context, r io.Reader) (*ImportReport, error) {
	var records []ItemRecord
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, apperror.Validation("catalog", "file", "invalid catalog json: "+err.Error())
	}
	for i := range records {
		records[i].row = i + 1
	}

	report := &ImportReport{}
	if err := s.applyRecords(ctx, records, report); err != nil {
		return nil, err
	}
	return report, nil
}

func (s *transferService) ImportCSVFile(ctx context.Context, path string) (*ImportReport, error) {
	return s.importFile(ctx, path, s.ImportCSV)
}

func (s *transferService) ImportJSONFile(ctx context.Context, path string) (*ImportReport, error) {
	return s.importFile(ctx, path, s.ImportJSON)
}

func (s *transferService) importFile(ctx context.Context, path string, read func(context.Context, io.Reader) (*ImportReport, error)) (*ImportReport, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open import file: %w", err)
	}
	defer f.Close()
	return read(ctx, f)
}

// applyRecords upserts parsed records one by one. Each record succeeds or
// fails on its own; the whole batch is still wrapped in one transaction so
// the audit entry and the rows land together.
func (s *transferService) applyRecords(ctx context.Context, records []ItemRecord, report *ImportReport) error {
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		for i := range records {
			rec := &records[i]
			if err := s.applyRecord(txCtx, rec); err != nil {
				report.Errors = append(report.Errors, RowError{
					Row:    rec.row,
					ItemNo: rec.ItemNo,
					Reason: err.Error(),
				})
				report.Skipped++
				continue
			}
			if rec.existing {
				report.Updated++
			} else {
				report.Added++
			}
		}

		details, _ := json.Marshal(report)
		entry := &model.AuditLog{
			Action:   model.ActionImportCatalog,
			EntityID: "catalog",
			Details:  string(details),
		}
		if err := s.auditRepo.Log(txCtx, entry); err != nil {
			return fmt.Errorf("failed to write audit log: %w", err)
		}
		return nil
	})
	return err
}

func (s *transferService) applyRecord(ctx context.Context, rec *ItemRecord) error {
	if strings.TrimSpace(rec.ItemNo) == "" {
		return apperror.Validation("item", "item_no", "item number is required")
	}
	if strings.TrimSpace(rec.Name) == "" {
		return apperror.Validation("item", "item_name", "item name is required")
	}
	supplier, selling, err := parseRecordPrices(rec)
	if err != nil {
		return err
	}
	if rec.CurrentStock < 0 {
		return apperror.Validation("item", "current_stock", "stock cannot be negative")
	}
	if rec.ReorderQty < 0 {
		return apperror.Validation("item", "reorder_qty", "reorder quantity cannot be negative")
	}

	item, err := s.itemRepo.FindByItemNo(ctx, rec.ItemNo)
	switch {
	case err == nil:
		rec.existing = true
		item.Name = rec.Name
		item.Description = rec.Description
		item.Unit = rec.Unit
		item.SupplierPrice = supplier
		item.SellingPrice = selling
		item.CurrentStock = rec.CurrentStock
		item.ReorderQty = rec.ReorderQty
		if err := s.itemRepo.Update(ctx, item); err != nil {
			return fmt.Errorf("failed to update item: %w", err)
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		fresh := &model.Item{
			ItemNo:        rec.ItemNo,
			Name:          rec.Name,
			Description:   rec.Description,
			Unit:          rec.Unit,
			SupplierPrice: supplier,
			SellingPrice:  selling,
			CurrentStock:  rec.CurrentStock,
			ReorderLevel:  model.DefaultReorderLevel,
			ReorderQty:    rec.ReorderQty,
			IsActive:      true,
		}
		if err := s.itemRepo.Create(ctx, fresh); err != nil {
			return fmt.Errorf("failed to create item: %w", err)
		}
	default:
		return fmt.Errorf("failed to look up item: %w", err)
	}
	return nil
}

// --- codec helpers ---

func toRecord(item *model.Item) ItemRecord {
	return ItemRecord{
		ItemNo:        item.ItemNo,
		Name:          item.Name,
		Description:   item.Description,
		Unit:          item.Unit,
		SupplierPrice: item.SupplierPrice.StringFixed(2),
		SellingPrice:  item.SellingPrice.StringFixed(2),
		CurrentStock:  item.CurrentStock,
		ReorderNeeded: item.ReorderNeeded(),
		ReorderQty:    item.ReorderQty,
	}
}

func fromCSVRow(fields []string) (ItemRecord, error) {
	var rec ItemRecord
	if len(fields) < len(csvHeader) {
		return rec, fmt.Errorf("expected %d columns, got %d", len(csvHeader), len(fields))
	}
	rec.ItemNo = strings.TrimSpace(fields[0])
	rec.Name = strings.TrimSpace(fields[1])
	rec.Description = strings.TrimSpace(fields[2])
	rec.Unit = strings.TrimSpace(fields[3])
	rec.SupplierPrice = strings.TrimSpace(fields[4])
	rec.SellingPrice = strings.TrimSpace(fields[5])

	stock, err := strconv.Atoi(strings.TrimSpace(fields[6]))
	if err != nil {
		return rec, fmt.Errorf("invalid current stock %q", fields[6])
	}
	rec.CurrentStock = stock

	// fields[7] (Re-Order Yes/No) is derived, not stored.

	qty, err := strconv.Atoi(strings.TrimSpace(fields[8]))
	if err != nil {
		return rec, fmt.Errorf("invalid reorder quantity %q", fields[8])
	}
	rec.ReorderQty = qty
	return rec, nil
}

func parseRecordPrices(rec *ItemRecord) (supplier, selling decimal.Decimal, err error) {
	supplier, err = decimal.NewFromString(rec.SupplierPrice)
	if err != nil || supplier.IsNegative() {
		return decimal.Zero, decimal.Zero, apperror.Validation("item", "supplier_price", "supplier price must be a non-negative number")
	}
	selling, err = decimal.NewFromString(rec.SellingPrice)
	if err != nil || selling.IsNegative() {
		return decimal.Zero, decimal.Zero, apperror.Validation("item", "selling_price", "selling price must be a non-negative number")
	}
	return supplier, selling, nil
}

func checkHeader(header []string) error {
	if len(header) < len(csvHeader) {
		return apperror.Validation("catalog", "header", "unexpected csv header")
	}
	for i, want := range csvHeader {
		if strings.TrimSpace(header[i]) != want {
			return apperror.Validation("catalog", "header", fmt.Sprintf("column %d: expected %q", i+1, want))
		}
	}
	return nil
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
