package services

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"barangay_app_go/logger"
	"barangay_app_go/models"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// XLSXContentType is the MIME type of generated spreadsheets
const XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ResidentSheet is the sheet name used by export and import
const ResidentSheet = "Residents"

// maxExportRows bounds a single export
const maxExportRows = 50000

// residentHeaders are the spreadsheet columns A to N. Names marked * are
// required on import; birth dates are YYYY-MM-DD.
var residentHeaders = []string{
	"First Name*",
	"Middle Name",
	"Last Name*",
	"Suffix",
	"Birth Date",
	"Gender",
	"Civil Status",
	"Address*",
	"Purok",
	"Contact Number",
	"Email",
	"Household No.",
	"Voter (Y/N)",
	"PWD (Y/N)",
}

// ImportResult contains the summary of an import
type ImportResult struct {
	TotalProcessed int      `json:"total_processed"`
	SuccessCount   int      `json:"success_count"`
	FailedCount    int      `json:"failed_count"`
	Errors         []string `json:"errors"`
}

// ErrInvalidSpreadsheet is returned when an upload is not a resident sheet
var ErrInvalidSpreadsheet = errors.New("invalid spreadsheet format")

func writeResidentHeader(f *excelize.File) error {
	for i, header := range residentHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(ResidentSheet, cell, header); err != nil {
			return err
		}
	}
	headerStyle, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	lastCol, _ := excelize.ColumnNumberToName(len(residentHeaders))
	f.SetCellStyle(ResidentSheet, "A1", lastCol+"1", headerStyle)
	f.SetColWidth(ResidentSheet, "A", lastCol, 18)
	return nil
}

// ExportResidentsExcel writes every resident matching filters to a workbook
func ExportResidentsExcel(db *gorm.DB, filters ResidentFilters) (*bytes.Buffer, int, error) {
	var residents []models.Resident
	err := residentQuery(db, filters).
		Preload("Household").
		Order("last_name ASC, first_name ASC").
		Limit(maxExportRows).
		Find(&residents).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to load residents: %w", err)
	}
	if len(residents) == maxExportRows {
		logger.L.Warn("resident export truncated", zap.Int("limit", maxExportRows))
	}

	f := excelize.NewFile()
	defer f.Close()
	f.SetSheetName("Sheet1", ResidentSheet)
	if err := writeResidentHeader(f); err != nil {
		return nil, 0, fmt.Errorf("failed to write header: %w", err)
	}

	for i, r := range residents {
		householdNumber := ""
		if r.Household != nil {
			householdNumber = r.Household.HouseholdNumber
		}
		row := []interface{}{
			r.FirstName, r.MiddleName, r.LastName, r.Suffix,
			FormatDate(r.BirthDate), r.Gender, r.CivilStatus,
			r.Address, r.Purok, r.ContactNumber, r.Email,
			householdNumber, yesNo(r.IsVoter), yesNo(r.IsPWD),
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(ResidentSheet, cell, &row); err != nil {
			return nil, 0, fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to write excel buffer: %w", err)
	}
	return buf, len(residents), nil
}

// GenerateResidentTemplate returns an empty import sheet with one example row
func GenerateResidentTemplate() (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()
	f.SetSheetName("Sheet1", ResidentSheet)
	if err := writeResidentHeader(f); err != nil {
		return nil, err
	}
	example := []interface{}{"Juan", "Santos", "Dela Cruz", "", "1990-01-31", models.GenderMale,
		models.CivilStatusSingle, "123 Rizal St.", "Purok 1", "09171234567", "", "", "Y", "N"}
	if err := f.SetSheetRow(ResidentSheet, "A2", &example); err != nil {
		return nil, err
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write excel buffer: %w", err)
	}
	return buf, nil
}

// ImportResidentsExcel creates one resident per data row. Rows are validated
// and inserted independently: a bad row is reported and skipped, valid rows
// are kept.
func ImportResidentsExcel(db *gorm.DB, file io.Reader) (*ImportResult, error) {
	f, err := excelize.OpenReader(file)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSpreadsheet, err)
	}
	defer f.Close()

	sheet := ResidentSheet
	if idx, _ := f.GetSheetIndex(sheet); idx < 0 {
		sheet = f.GetSheetName(0)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSpreadsheet, err)
	}
	if len(rows) == 0 || len(rows[0]) < 3 || !strings.HasPrefix(strings.TrimSpace(rows[0][0]), "First Name") {
		return nil, fmt.Errorf("%w: missing header row", ErrInvalidSpreadsheet)
	}

	households := make(map[string]uint)
	var list []models.Household
	if err := db.Select("id", "household_number").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("failed to load households: %w", err)
	}
	for _, h := range list {
		if h.HouseholdNumber != "" {
			households[strings.ToUpper(h.HouseholdNumber)] = h.ID
		}
	}

	result := &ImportResult{Errors: []string{}}
	for i, row := range rows[1:] {
		rowNum := i + 2
		if isBlankRow(row) {
			continue
		}
		result.TotalProcessed++

		input, err := residentInputFromRow(row, households)
		if err == nil {
			_, err = CreateResident(db, input)
		}
		if err != nil {
			result.FailedCount++
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %v", rowNum, err))
			continue
		}
		result.SuccessCount++
	}

	logger.L.Info("resident import finished",
		zap.Int("processed", result.TotalProcessed),
		zap.Int("created", result.SuccessCount),
		zap.Int("failed", result.FailedCount),
	)
	return result, nil
}

func residentInputFromRow(row []string, households map[string]uint) (ResidentInput, error) {
	col := func(i int) string {
		if i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}

	input := ResidentInput{
		FirstName:     col(0),
		MiddleName:    col(1),
		LastName:      col(2),
		Suffix:        col(3),
		BirthDate:     col(4),
		Gender:        normalizeChoice(col(5), models.GenderMale, models.GenderFemale),
		CivilStatus:   normalizeChoice(col(6), models.CivilStatusSingle, models.CivilStatusMarried, models.CivilStatusWidowed, models.CivilStatusSeparated),
		Address:       col(7),
		Purok:         col(8),
		ContactNumber: col(9),
		Email:         col(10),
	}

	if number := col(11); number != "" {
		id, ok := households[strings.ToUpper(number)]
		if !ok {
			return input, newValidationError("household", "unknown household number %q", number)
		}
		input.HouseholdID = &id
	}

	var err error
	if input.IsVoter, err = parseYesNo("voter", col(12)); err != nil {
		return input, err
	}
	if input.IsPWD, err = parseYesNo("pwd", col(13)); err != nil {
		return input, err
	}
	return input, nil
}

// normalizeChoice matches value case-insensitively against choices
func normalizeChoice(value string, choices ...string) string {
	for _, c := range choices {
		if strings.EqualFold(value, c) {
			return c
		}
	}
	return value
}

func parseYesNo(field, value string) (bool, error) {
	switch strings.ToUpper(value) {
	case "", "N", "NO":
		return false, nil
	case "Y", "YES":
		return true, nil
	}
	if b, err := strconv.ParseBool(value); err == nil {
		return b, nil
	}
	return false, newValidationError(field, "expected Y or N, got %q", value)
}

func yesNo(b bool) string {
	if b {
		return "Y"
	}
	return "N"
}

func isBlankRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
