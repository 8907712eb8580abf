package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"maintenance-system/internal/dto"
	"maintenance-system/internal/maintenance"
	"maintenance-system/internal/repositories"
	apperrors "maintenance-system/pkg/apperrors"
	"maintenance-system/pkg/types"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// EquipmentPortServiceInterface handles bulk file import and export of the
// equipment inventory. CSV and XLSX are supported on both sides.
type EquipmentPortServiceInterface interface {
	// Import parses the file and inserts every row in one transaction. A
	// single invalid row fails the whole batch: the report then lists the
	// per-row errors and Imported is zero.
	Import(ctx context.Context, filename string, r io.Reader) (*dto.EquipmentImportReportDTO, error)
	ExportCSV(ctx context.Context, filter types.Filter) ([]byte, string, error)
	ExportXLSX(ctx context.Context, filter types.Filter) ([]byte, string, error)
}

type EquipmentPortService struct {
	equipmentRepo repositories.EquipmentRepositoryInterface
	locationRepo  repositories.LocationRepositoryInterface
	txManager     repositories.TxManagerInterface
	dueSoonWindow time.Duration
	logger        *zap.Logger
}

func NewEquipmentPortService(
	equipmentRepo repositories.EquipmentRepositoryInterface,
	locationRepo repositories.LocationRepositoryInterface,
	txManager repositories.TxManagerInterface,
	dueSoonWindow time.Duration,
	logger *zap.Logger,
) EquipmentPortServiceInterface {
	if dueSoonWindow <= 0 {
		dueSoonWindow = maintenance.DefaultDueSoonWindow
	}
	return &EquipmentPortService{
		equipmentRepo: equipmentRepo,
		locationRepo:  locationRepo,
		txManager:     txManager,
		dueSoonWindow: dueSoonWindow,
		logger:        logger,
	}
}

// Recognized column headers after normalization. "campus" and "location"
// together resolve to a location id.
var importHeaders = map[string]string{
	"name":                 "name",
	"equipment_name":       "name",
	"tag":                  "tag_number",
	"tag_number":           "tag_number",
	"model":                "model",
	"manufacturer":         "manufacturer",
	"serial":               "serial_number",
	"serial_number":        "serial_number",
	"campus":               "campus",
	"location":             "location",
	"sub_location":         "location",
	"last_maintenance":     "last_maintenance",
	"maintenance_interval": "maintenance_interval",
	"interval":             "maintenance_interval",
	"operational_status":   "operational_status",
	"status":               "operational_status",
}

func normalizeHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	h = strings.ReplaceAll(h, " ", "_")
	h = strings.ReplaceAll(h, "-", "_")
	return h
}

type importRow struct {
	line     int
	campus   string
	location string
	payload  dto.CreateEquipmentDTO
}

func (s *EquipmentPortService) Import(ctx context.Context, filename string, r io.Reader) (*dto.EquipmentImportReportDTO, error) {
	var records [][]string
	var err error

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		records, err = readCSV(r)
	case ".xlsx":
		records, err = readXLSX(r)
	default:
		return nil, apperrors.NewValidationError("unsupported file type %q, expected .csv or .xlsx", filepath.Ext(filename))
	}
	if err != nil {
		return nil, apperrors.NewValidationError("could not parse file: %v", err)
	}
	if len(records) < 2 {
		return nil, apperrors.NewValidationError("file has no data rows")
	}

	columns := make(map[int]string)
	for i, h := range records[0] {
		if field, ok := importHeaders[normalizeHeader(h)]; ok {
			columns[i] = field
		}
	}
	if !containsColumn(columns, "name") || !containsColumn(columns, "tag_number") {
		return nil, apperrors.NewValidationError("file must contain 'name' and 'tag_number' columns")
	}

	rows, errs := s.parseRows(ctx, records[1:], columns)

	report := &dto.EquipmentImportReportDTO{Errors: errs}
	if len(errs) > 0 {
		return report, nil
	}

	err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		for _, row := range rows {
			if _, err := s.equipmentRepo.CreateTx(ctx, tx, row.payload); err != nil {
				return fmt.Errorf("row %d: %w", row.line, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	report.Imported = len(rows)
	s.logger.Info("equipment import finished", zap.Int("imported", report.Imported), zap.String("file", filename))
	return report, nil
}

func containsColumn(columns map[int]string, field string) bool {
	for _, f := range columns {
		if f == field {
			return true
		}
	}
	return false
}

// parseRows validates everything before anything is written: required fields,
// date and interval formats, unknown locations, duplicate tags within the file
// and against the inventory.
func (s *EquipmentPortService) parseRows(ctx context.Context, records [][]string, columns map[int]string) ([]importRow, []string) {
	var rows []importRow
	var errs []string
	seenTags := make(map[string]int)
	locationCache := make(map[string]*uint64)

	for i, record := range records {
		line := i + 2
		if isBlankRecord(record) {
			continue
		}

		row := importRow{line: line}
		for col, field := range columns {
			if col >= len(record) {
				continue
			}
			value := strings.TrimSpace(record[col])
			switch field {
			case "name":
				row.payload.Name = value
			case "tag_number":
				row.payload.TagNumber = value
			case "model":
				row.payload.Model = value
			case "manufacturer":
				row.payload.Manufacturer = value
			case "serial_number":
				row.payload.SerialNumber = value
			case "campus":
				row.campus = value
			case "location":
				row.location = value
			case "operational_status":
				row.payload.OperationalStatus = value
			case "maintenance_interval":
				row.payload.MaintenanceInterval = value
			case "last_maintenance":
				if value == "" {
					continue
				}
				t, err := parseImportDate(value)
				if err != nil {
					errs = append(errs, fmt.Sprintf("row %d: invalid last_maintenance %q", line, value))
					continue
				}
				row.payload.LastMaintenance = &t
			}
		}

		if row.payload.Name == "" {
			errs = append(errs, fmt.Sprintf("row %d: name is required", line))
		}
		if row.payload.TagNumber == "" {
			errs = append(errs, fmt.Sprintf("row %d: tag_number is required", line))
		} else {
			if prev, dup := seenTags[row.payload.TagNumber]; dup {
				errs = append(errs, fmt.Sprintf("row %d: duplicate tag %q (first used on row %d)", line, row.payload.TagNumber, prev))
			} else {
				seenTags[row.payload.TagNumber] = line
				if _, err := s.equipmentRepo.FindByTag(ctx, row.payload.TagNumber); err == nil {
					errs = append(errs, fmt.Sprintf("row %d: tag %q already exists in inventory", line, row.payload.TagNumber))
				}
			}
		}
		if row.payload.MaintenanceInterval != "" {
			if _, _, ok := maintenance.ParseInterval(row.payload.MaintenanceInterval); !ok {
				errs = append(errs, fmt.Sprintf("row %d: unparseable maintenance_interval %q", line, row.payload.MaintenanceInterval))
			}
		}
		if row.campus != "" && row.location != "" {
			key := strings.ToLower(row.campus) + "|" + strings.ToLower(row.location)
			id, cached := locationCache[key]
			if !cached {
				loc, err := s.locationRepo.FindByCampusAndName(ctx, row.campus, row.location)
				if err == nil {
					id = &loc.ID
				}
				locationCache[key] = id
			}
			if id == nil {
				errs = append(errs, fmt.Sprintf("row %d: unknown location %q / %q", line, row.campus, row.location))
			} else {
				row.payload.LocationID = id
			}
		}

		rows = append(rows, row)
	}
	return rows, errs
}

func isBlankRecord(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func parseImportDate(value string) (time.Time, error) {
	for _, layout := range []string{"2006-01-02", time.RFC3339, "02/01/2006"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", value)
}

func readCSV(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	return reader.ReadAll()
}

func readXLSX(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	return f.GetRows(sheets[0])
}

var exportHeader = []string{
	"name", "tag_number", "model", "manufacturer", "serial_number",
	"campus", "location", "last_maintenance", "maintenance_interval",
	"maintenance_status", "next_maintenance", "operational_status",
}

func (s *EquipmentPortService) exportRows(ctx context.Context, filter types.Filter) ([][]string, error) {
	filter.Limit = 0
	items, _, err := s.equipmentRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	out := [][]string{exportHeader}
	for _, row := range items {
		e := row.Equipment
		derived := maintenance.Derive(e.LastMaintenance, e.MaintenanceInterval, now, s.dueSoonWindow)

		var campus, location string
		if row.Location != nil {
			campus = row.Location.Campus
			location = row.Location.Name
		}
		var last, next string
		if e.LastMaintenance != nil {
			last = e.LastMaintenance.Format("2006-01-02")
		}
		if derived.NextMaintenance != nil {
			next = derived.NextMaintenance.Format("2006-01-02")
		}

		out = append(out, []string{
			e.Name, e.TagNumber, e.Model, e.Manufacturer, e.SerialNumber,
			campus, location, last, e.MaintenanceInterval,
			derived.Status, next, e.OperationalStatus,
		})
	}
	return out, nil
}

func (s *EquipmentPortService) ExportCSV(ctx context.Context, filter types.Filter) ([]byte, string, error) {
	rows, err := s.exportRows(ctx, filter)
	if err != nil {
		return nil, "", err
	}

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	if err := writer.WriteAll(rows); err != nil {
		return nil, "", err
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, "", err
	}

	name := fmt.Sprintf("equipment-%s.csv", uuid.NewString())
	return buf.Bytes(), name, nil
}

func (s *EquipmentPortService) ExportXLSX(ctx context.Context, filter types.Filter) ([]byte, string, error) {
	rows, err := s.exportRows(ctx, filter)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return nil, "", err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, "", err
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, "", err
	}

	name := fmt.Sprintf("equipment-%s.xlsx", uuid.NewString())
	return buf.Bytes(), name, nil
}
