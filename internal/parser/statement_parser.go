package parser

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"bank-recon/internal/domain"
	"bank-recon/pkg/logger"
)

// ErrUnsupportedFileType is wrapped into the errors returned for statement
// uploads the parser cannot handle (PDF included).
var ErrUnsupportedFileType = fmt.Errorf("unsupported statement file type")

// amountCleanPattern strips currency symbols and thousand separators, leaving
// digits, the decimal point and a leading minus.
var amountCleanPattern = regexp.MustCompile(`[^0-9.\-]`)

// Column header synonyms recognized in uploaded statements, Spanish first.
// Extending this table does not affect matcher behavior.
var headerSynonyms = map[string][]string{
	"id":          {"id", "id transaccion", "id transacción", "transaction id", "transaccion", "transacción"},
	"date":        {"fecha", "date", "fecha transaccion", "fecha de transaccion", "transaction date"},
	"description": {"descripcion", "descripción", "description", "concepto", "detalle"},
	"amount":      {"monto", "amount", "valor", "importe"},
	"type":        {"tipo", "type"},
	"reference":   {"referencia", "reference", "ref"},
	"account":     {"cuenta", "account", "numero de cuenta", "número de cuenta"},
}

// StatementParser converts uploaded statement bytes into normalized bank
// transactions. Rows missing date, description or amount are skipped with a
// log entry; a present but unparseable date aborts the whole parse.
type StatementParser struct{}

func NewStatementParser() *StatementParser {
	return &StatementParser{}
}

// Parse dispatches on the file extension. PDF statements are rejected
// outright; everything that is not CSV or a spreadsheet is unsupported.
func (p *StatementParser) Parse(fileName string, data []byte) ([]domain.BankTransaction, error) {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".csv":
		return p.ParseCSV(bytes.NewReader(data))
	case ".xlsx", ".xls":
		return p.ParseXLSX(bytes.NewReader(data))
	case ".pdf":
		return nil, fmt.Errorf("%w: PDF statements are not supported", ErrUnsupportedFileType)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFileType, fileName)
	}
}

// ParseCSV reads a CSV statement with a header row.
func (p *StatementParser) ParseCSV(r io.Reader) ([]domain.BankTransaction, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read statement header: %w", err)
	}

	columns, err := mapColumns(header)
	if err != nil {
		return nil, err
	}

	transactions := make([]domain.BankTransaction, 0)
	rowNumber := 1

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			logger.GetLogger().WithError(err).WithField("row", rowNumber+1).Warn("Failed to read statement row, skipping")
			rowNumber++
			continue
		}

		rowNumber++

		tx, ok, err := p.normalizeRow(record, columns, rowNumber)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}

		transactions = append(transactions, *tx)
	}

	return transactions, nil
}

// ParseXLSX reads the first sheet of a spreadsheet statement.
func (p *StatementParser) ParseXLSX(r io.Reader) ([]domain.BankTransaction, error) {
	file, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open spreadsheet: %w", err)
	}
	defer file.Close()

	sheets := file.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("spreadsheet has no sheets")
	}

	rows, err := file.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("failed to read statement header: sheet %q is empty", sheets[0])
	}

	columns, err := mapColumns(rows[0])
	if err != nil {
		return nil, err
	}

	transactions := make([]domain.BankTransaction, 0, len(rows)-1)
	for i, record := range rows[1:] {
		rowNumber := i + 2

		tx, ok, err := p.normalizeRow(record, columns, rowNumber)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}

		transactions = append(transactions, *tx)
	}

	return transactions, nil
}

// normalizeRow converts one raw record into a bank transaction. The second
// return value is false when the row was skipped.
func (p *StatementParser) normalizeRow(record []string, columns map[string]int, rowNumber int) (*domain.BankTransaction, bool, error) {
	dateStr := cell(record, columns, "date")
	description := cell(record, columns, "description")
	amountStr := cell(record, columns, "amount")

	if dateStr == "" || description == "" || amountStr == "" {
		logger.GetLogger().WithField("row", rowNumber).Warn("Statement row missing required fields, skipping")
		return nil, false, nil
	}

	amount, err := parseAmount(amountStr)
	if err != nil {
		logger.GetLogger().WithError(err).WithField("row", rowNumber).Warn("Invalid amount in statement row, skipping")
		return nil, false, nil
	}

	date, err := parseDate(dateStr)
	if err != nil {
		return nil, false, fmt.Errorf("invalid date %q at row %d: %w", dateStr, rowNumber, err)
	}

	txType := domain.Credit
	if typeStr := strings.ToUpper(cell(record, columns, "type")); typeStr != "" {
		if strings.Contains(typeStr, "DEB") || strings.Contains(typeStr, "CARGO") || strings.Contains(typeStr, "RETIRO") {
			txType = domain.Debit
		}
	}
	if amount.IsNegative() {
		txType = domain.Debit
		amount = amount.Abs()
	}

	id := cell(record, columns, "id")
	if id == "" {
		id = fmt.Sprintf("ROW_%d", rowNumber)
	}

	return &domain.BankTransaction{
		TransactionID: id,
		Date:          date,
		Description:   description,
		Amount:        amount,
		Type:          txType,
		Reference:     cell(record, columns, "reference"),
		Account:       cell(record, columns, "account"),
	}, true, nil
}

func mapColumns(header []string) (map[string]int, error) {
	columns := make(map[string]int)
	for i, raw := range header {
		normalized := strings.ToLower(strings.TrimSpace(raw))
		for field, synonyms := range headerSynonyms {
			if _, taken := columns[field]; taken {
				continue
			}
			for _, synonym := range synonyms {
				if normalized == synonym {
					columns[field] = i
					break
				}
			}
		}
	}

	for _, required := range []string{"date", "description", "amount"} {
		if _, ok := columns[required]; !ok {
			return nil, fmt.Errorf("invalid statement format: missing %s column", required)
		}
	}
	return columns, nil
}

func cell(record []string, columns map[string]int, field string) string {
	idx, ok := columns[field]
	if !ok || idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}

func parseAmount(s string) (decimal.Decimal, error) {
	cleaned := amountCleanPattern.ReplaceAllString(s, "")
	if cleaned == "" {
		return decimal.Zero, fmt.Errorf("no numeric content in %q", s)
	}
	return decimal.NewFromString(cleaned)
}

func parseDate(s string) (time.Time, error) {
	formats := []string{
		time.RFC3339,
		"2006-01-02 15:04:05",
		"02/01/2006",
		"2006-01-02",
		"02-01-2006",
	}

	for _, format := range formats {
		if t, err := time.Parse(format, s); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unable to parse date: %s", s)
}
