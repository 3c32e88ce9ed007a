package reporting

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/nexusdex/tradecore/internal/position"
)

// excelStyles holds the style IDs used across sheets.
type excelStyles struct {
	header   int
	currency int
	percent  int
	loss     int
	profit   int
}

// ExcelReporter writes the closed trade history to an Excel workbook.
type ExcelReporter struct{}

// NewExcelReporter creates a new Excel reporter.
func NewExcelReporter() *ExcelReporter {
	return &ExcelReporter{}
}

// WriteTradesXLSX writes the closed trades and a summary sheet to path.
func (r *ExcelReporter) WriteTradesXLSX(trades []*position.Position, path string) error {
	// Ensure directory exists before creating file
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	fx := excelize.NewFile()
	defer fx.Close()

	const tradesSheet = "Trades"
	const summarySheet = "Summary"

	fx.SetSheetName(fx.GetSheetName(0), tradesSheet)
	fx.NewSheet(summarySheet)

	styles, err := r.createStyles(fx)
	if err != nil {
		return err
	}

	if err := r.writeTradesSheet(fx, tradesSheet, trades, styles); err != nil {
		return err
	}
	if err := r.writeSummarySheet(fx, summarySheet, trades, styles); err != nil {
		return err
	}

	return fx.SaveAs(path)
}

func (r *ExcelReporter) createStyles(fx *excelize.File) (excelStyles, error) {
	var styles excelStyles
	var err error

	styles.header, err = fx.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold:   true,
			Size:   11,
			Color:  "FFFFFF",
			Family: "Calibri",
		},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"2F4F4F"},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		return styles, err
	}

	styles.currency, err = fx.NewStyle(&excelize.Style{
		NumFmt: 7, // Currency format with $ symbol
		Alignment: &excelize.Alignment{
			Horizontal: "right",
		},
	})
	if err != nil {
		return styles, err
	}

	styles.percent, err = fx.NewStyle(&excelize.Style{
		NumFmt: 9, // Percentage format with % symbol
		Alignment: &excelize.Alignment{
			Horizontal: "right",
		},
	})
	if err != nil {
		return styles, err
	}

	styles.loss, err = fx.NewStyle(&excelize.Style{
		NumFmt: 7,
		Font: &excelize.Font{
			Color: "FF0000",
		},
		Alignment: &excelize.Alignment{
			Horizontal: "right",
		},
	})
	if err != nil {
		return styles, err
	}

	styles.profit, err = fx.NewStyle(&excelize.Style{
		NumFmt: 7,
		Font: &excelize.Font{
			Color: "008000",
		},
		Alignment: &excelize.Alignment{
			Horizontal: "right",
		},
	})
	return styles, err
}

func (r *ExcelReporter) writeTradesSheet(fx *excelize.File, sheet string, trades []*position.Position, styles excelStyles) error {
	headers := []string{"Opened", "Closed", "Pair", "Side", "Entry", "Exit", "Size", "Leverage", "PnL", "PnL %", "Reason"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := fx.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
	}
	lastCol, _ := excelize.CoordinatesToCellName(len(headers), 1)
	if err := fx.SetCellStyle(sheet, "A1", lastCol, styles.header); err != nil {
		return err
	}

	row := 2
	for _, p := range trades {
		if p.Status != position.StatusClosed {
			continue
		}

		pnlStyle := styles.profit
		if p.PnL < 0 {
			pnlStyle = styles.loss
		}

		values := []interface{}{
			p.OpenedAt.Format("2006-01-02 15:04:05"),
			p.ClosedAt.Format("2006-01-02 15:04:05"),
			p.Pair,
			string(p.Side),
			p.EntryPrice,
			p.ExitPrice,
			p.Size,
			p.Leverage,
			p.PnL,
			p.PnLPercent / 100,
			string(p.CloseReason),
		}
		for i, v := range values {
			cell, _ := excelize.CoordinatesToCellName(i+1, row)
			if err := fx.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
		}

		entryCell, _ := excelize.CoordinatesToCellName(5, row)
		sizeCell, _ := excelize.CoordinatesToCellName(7, row)
		fx.SetCellStyle(sheet, entryCell, sizeCell, styles.currency)

		pnlCell, _ := excelize.CoordinatesToCellName(9, row)
		fx.SetCellStyle(sheet, pnlCell, pnlCell, pnlStyle)

		pctCell, _ := excelize.CoordinatesToCellName(10, row)
		fx.SetCellStyle(sheet, pctCell, pctCell, styles.percent)

		row++
	}

	fx.SetColWidth(sheet, "A", "B", 20)
	fx.SetColWidth(sheet, "C", "K", 12)
	return nil
}

func (r *ExcelReporter) writeSummarySheet(fx *excelize.File, sheet string, trades []*position.Position, styles excelStyles) error {
	var closed, wins int
	var grossPnL, grossWin, grossLoss float64
	for _, p := range trades {
		if p.Status != position.StatusClosed {
			continue
		}
		closed++
		grossPnL += p.PnL
		if p.PnL >= 0 {
			wins++
			grossWin += p.PnL
		} else {
			grossLoss += -p.PnL
		}
	}

	winRate := 0.0
	if closed > 0 {
		winRate = float64(wins) / float64(closed)
	}
	profitFactor := 0.0
	if grossLoss > 0 {
		profitFactor = grossWin / grossLoss
	}

	rows := []struct {
		label string
		value interface{}
		style int
	}{
		{"Total Trades", closed, 0},
		{"Wins", wins, 0},
		{"Losses", closed - wins, 0},
		{"Win Rate", winRate, styles.percent},
		{"Gross PnL", grossPnL, styles.currency},
		{"Gross Win", grossWin, styles.currency},
		{"Gross Loss", grossLoss, styles.currency},
		{"Profit Factor", profitFactor, 0},
	}

	fx.SetCellValue(sheet, "A1", "Metric")
	fx.SetCellValue(sheet, "B1", "Value")
	fx.SetCellStyle(sheet, "A1", "B1", styles.header)

	for i, r := range rows {
		labelCell, _ := excelize.CoordinatesToCellName(1, i+2)
		valueCell, _ := excelize.CoordinatesToCellName(2, i+2)
		fx.SetCellValue(sheet, labelCell, r.label)
		fx.SetCellValue(sheet, valueCell, r.value)
		if r.style != 0 {
			fx.SetCellStyle(sheet, valueCell, valueCell, r.style)
		}
	}

	fx.SetColWidth(sheet, "A", "A", 18)
	fx.SetColWidth(sheet, "B", "B", 15)
	return nil
}
