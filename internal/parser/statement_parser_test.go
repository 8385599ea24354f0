package parser_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/xuri/excelize/v2"

	"bank-recon/internal/domain"
	"bank-recon/internal/parser"
)

func TestParseCSV_SpanishHeaders(t *testing.T) {
	csvContent := `Fecha,Descripcion,Monto,Referencia,Tipo,Cuenta
2024-01-15,PAGO CUOTA ADMON,100000,REF001,CREDITO,12345678
2024-01-16,RETIRO CAJERO,50000,,DEBITO,12345678
`

	p := parser.NewStatementParser()
	transactions, err := p.ParseCSV(strings.NewReader(csvContent))

	assert.NoError(t, err)
	assert.Len(t, transactions, 2)

	first := transactions[0]
	assert.Equal(t, "ROW_2", first.TransactionID)
	assert.Equal(t, "PAGO CUOTA ADMON", first.Description)
	assert.True(t, first.Amount.Equal(decimal.NewFromInt(100000)))
	assert.Equal(t, domain.Credit, first.Type)
	assert.Equal(t, "REF001", first.Reference)
	assert.Equal(t, "12345678", first.Account)

	assert.Equal(t, domain.Debit, transactions[1].Type)
}

func TestParseCSV_EnglishHeaders(t *testing.T) {
	csvContent := `Transaction ID,Date,Description,Amount
TX-100,2024-01-15,monthly fee payment,250.75
`

	p := parser.NewStatementParser()
	transactions, err := p.ParseCSV(strings.NewReader(csvContent))

	assert.NoError(t, err)
	assert.Len(t, transactions, 1)
	assert.Equal(t, "TX-100", transactions[0].TransactionID)
	assert.True(t, transactions[0].Amount.Equal(decimal.NewFromFloat(250.75)))
}

func TestParseCSV_AmountCleaning(t *testing.T) {
	csvContent := `fecha,descripcion,monto
2024-01-15,pago,"$1,234.56"
`

	p := parser.NewStatementParser()
	transactions, err := p.ParseCSV(strings.NewReader(csvContent))

	assert.NoError(t, err)
	assert.Len(t, transactions, 1)
	assert.True(t, transactions[0].Amount.Equal(decimal.NewFromFloat(1234.56)))
}

func TestParseCSV_NegativeAmountBecomesDebit(t *testing.T) {
	csvContent := `fecha,descripcion,monto
2024-01-15,retiro,-500.00
`

	p := parser.NewStatementParser()
	transactions, err := p.ParseCSV(strings.NewReader(csvContent))

	assert.NoError(t, err)
	assert.Len(t, transactions, 1)
	assert.Equal(t, domain.Debit, transactions[0].Type)
	assert.True(t, transactions[0].Amount.Equal(decimal.NewFromInt(500)))
}

func TestParseCSV_SkipsRowsMissingRequiredFields(t *testing.T) {
	csvContent := `fecha,descripcion,monto
2024-01-15,pago uno,100
2024-01-16,,200
,pago tres,300
2024-01-18,pago cuatro,
2024-01-19,pago cinco,abc
2024-01-20,pago seis,600
`

	p := parser.NewStatementParser()
	transactions, err := p.ParseCSV(strings.NewReader(csvContent))

	assert.NoError(t, err)
	assert.Len(t, transactions, 2)
	assert.Equal(t, "pago uno", transactions[0].Description)
	assert.Equal(t, "pago seis", transactions[1].Description)
}

func TestParseCSV_DateFormats(t *testing.T) {
	csvContent := `fecha,descripcion,monto
15/01/2024,formato dia mes anio,100
2024-01-15,formato iso,200
15-01-2024,formato con guiones,300
`

	p := parser.NewStatementParser()
	transactions, err := p.ParseCSV(strings.NewReader(csvContent))

	assert.NoError(t, err)
	assert.Len(t, transactions, 3)
	for _, tx := range transactions {
		assert.Equal(t, 2024, tx.Date.Year())
		assert.Equal(t, 15, tx.Date.Day())
	}
}

func TestParseCSV_UnparseableDateAbortsParse(t *testing.T) {
	csvContent := `fecha,descripcion,monto
2024-01-15,pago uno,100
enero quince,pago dos,200
`

	p := parser.NewStatementParser()
	transactions, err := p.ParseCSV(strings.NewReader(csvContent))

	assert.Error(t, err)
	assert.Nil(t, transactions)
	assert.Contains(t, err.Error(), "row 3")
}

func TestParseCSV_MissingRequiredColumn(t *testing.T) {
	csvContent := `fecha,monto
2024-01-15,100
`

	p := parser.NewStatementParser()
	_, err := p.ParseCSV(strings.NewReader(csvContent))

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "description")
}

func TestParse_RejectsPDF(t *testing.T) {
	p := parser.NewStatementParser()
	_, err := p.Parse("extracto.pdf", []byte("%PDF-1.4"))

	assert.ErrorIs(t, err, parser.ErrUnsupportedFileType)
	assert.Contains(t, err.Error(), "PDF")
}

func TestParse_RejectsUnknownExtension(t *testing.T) {
	p := parser.NewStatementParser()
	_, err := p.Parse("extracto.txt", []byte("whatever"))

	assert.ErrorIs(t, err, parser.ErrUnsupportedFileType)
}

func TestParseXLSX(t *testing.T) {
	file := excelize.NewFile()
	sheet := file.GetSheetName(0)

	rows := [][]interface{}{
		{"Fecha", "Descripcion", "Monto", "Referencia"},
		{"2024-01-15", "PAGO CUOTA", "100000", "REF001"},
		{"2024-01-16", "TRANSFERENCIA", "250000", ""},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		assert.NoError(t, err)
		assert.NoError(t, file.SetSheetRow(sheet, cell, &row))
	}

	var buf bytes.Buffer
	assert.NoError(t, file.Write(&buf))

	p := parser.NewStatementParser()
	transactions, err := p.Parse("extracto.xlsx", buf.Bytes())

	assert.NoError(t, err)
	assert.Len(t, transactions, 2)
	assert.Equal(t, "PAGO CUOTA", transactions[0].Description)
	assert.True(t, transactions[0].Amount.Equal(decimal.NewFromInt(100000)))
	assert.Equal(t, "REF001", transactions[0].Reference)
}
