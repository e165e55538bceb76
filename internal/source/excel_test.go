package source

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"kpicli/internal/errors"
)

func workbookBytes(t *testing.T, sheetName string, rows [][]string) *bytes.Buffer {
	t.Helper()

	workbook := excelize.NewFile()
	defer workbook.Close()

	require.NoError(t, workbook.SetSheetName("Sheet1", sheetName))
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, workbook.SetSheetRow(sheetName, cell, &row))
	}

	var buf bytes.Buffer
	require.NoError(t, workbook.Write(&buf))
	return &buf
}

func TestReadExcelGrid(t *testing.T) {
	buf := workbookBytes(t, "dashboard", [][]string{
		{"Metric", "1/31/2025", "2/28/2025"},
		{"GMV", "1000000", "1100000"},
	})

	grid, err := ReadExcelGrid(buf, "dashboard", nil)
	require.NoError(t, err)
	require.Len(t, grid, 2)
	assert.Equal(t, "GMV", grid[1][0])
	assert.Equal(t, "1100000", grid[1][2])
}

func TestReadExcelGridSheetFallback(t *testing.T) {
	buf := workbookBytes(t, "other_name", [][]string{
		{"Metric", "1/31/2025"},
		{"GMV", "500"},
	})

	// requested sheet absent, first sheet used instead
	grid, err := ReadExcelGrid(buf, "dashboard", nil)
	require.NoError(t, err)
	require.Len(t, grid, 2)
	assert.Equal(t, "GMV", grid[1][0])
}

func TestReadExcelGridNotAWorkbook(t *testing.T) {
	_, err := ReadExcelGrid(bytes.NewBufferString("not an xlsx"), "dashboard", nil)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrTypeParsing))
}
