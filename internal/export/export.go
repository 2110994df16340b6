// Package export выгружает отчёт в файл: JSON как есть или XLSX, по листу на раздел.
package export

import (
	"fmt"
	"io"
	"time"

	"github.com/aarondl/null/v8"
	"github.com/xuri/excelize/v2"

	"support-desk/internal/metrics"
)

const (
	FormatJSON = "json"
	FormatXLSX = "xlsx"

	XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

const (
	sheetSummary    = "Сводка"
	sheetWeekly     = "По неделям"
	sheetMonthly    = "По месяцам"
	sheetCompanies  = "По компаниям"
	sheetCategories = "По категориям"
)

const dateLayout = "02.01.2006"

// FileName: IT_Support_Report_<YYYY-MM-DD>.<ext>, дата - день формирования отчёта.
func FileName(generatedAt time.Time, format string) string {
	return fmt.Sprintf("IT_Support_Report_%s.%s", generatedAt.Format("2006-01-02"), format)
}

// WriteXLSX пишет отчёт в книгу из пяти листов.
func WriteXLSX(w io.Writer, report metrics.Report) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetSummary); err != nil {
		return err
	}
	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	sheets := []struct {
		name    string
		headers []string
		rows    [][]interface{}
	}{
		{sheetSummary, []string{"Показатель", "Значение"}, summaryRows(report)},
		{sheetWeekly, []string{"Неделя", "Начало", "Конец", "Заявок", "Решено", "В работе", "Часы"}, weeklyRows(report.WeeklyData)},
		{sheetMonthly, []string{"Месяц", "Год", "Заявок", "Решено", "В работе", "Часы", "Среднее время решения (ч)"}, monthlyRows(report.MonthlyData)},
		{sheetCompanies, []string{
			"Компания", "Заявок", "Решено", "В работе", "Часы", "Среднее время решения (ч)",
			"Договор", "Часы решённых", "Стоимость часа", "Стоимость",
		}, companyRows(report.CompanyData)},
		{sheetCategories, []string{"Категория", "Заявок", "Часы"}, categoryRows(report.TicketsByType)},
	}

	for i, s := range sheets {
		if i > 0 {
			if _, err := f.NewSheet(s.name); err != nil {
				return err
			}
		}
		if err := writeTable(f, s.name, s.headers, s.rows, style); err != nil {
			return fmt.Errorf("лист %q: %w", s.name, err)
		}
	}

	return f.Write(w)
}

func writeTable(f *excelize.File, sheet string, headers []string, rows [][]interface{}, style int) error {
	if err := f.SetSheetRow(sheet, "A1", &headers); err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(len(headers), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", last, style); err != nil {
		return err
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	lastCol, _ := excelize.ColumnNumberToName(len(headers))
	return f.SetColWidth(sheet, "A", lastCol, 18)
}

func summaryRows(r metrics.Report) [][]interface{} {
	s := r.Stats
	return [][]interface{}{
		{"Период", string(r.Period)},
		{"Компания", r.Company},
		{"Сформирован", r.GeneratedAt.Format(dateLayout + " 15:04")},
		{"Всего заявок", s.TotalTickets},
		{"Решено", s.ResolvedTickets},
		{"В работе", s.PendingTickets},
		{"Закрыто", s.ClosedTickets},
		{"Часы", s.TotalHoursSpent},
		{"Среднее время решения (ч)", optionalHours(s.AvgResolutionTime)},
		{"Общая стоимость", s.TotalCost},
		{"Стоимость заявки", s.CostPerTicket},
		{"Заявок на компанию", s.AvgTicketsPerCompany},
	}
}

func weeklyRows(buckets []metrics.WeeklyBucket) [][]interface{} {
	rows := make([][]interface{}, 0, len(buckets))
	for _, b := range buckets {
		rows = append(rows, []interface{}{
			b.Week, b.Start.Format(dateLayout), b.End.Format(dateLayout),
			b.Tickets, b.Resolved, b.Pending, b.HoursSpent,
		})
	}
	return rows
}

func monthlyRows(buckets []metrics.MonthlyBucket) [][]interface{} {
	rows := make([][]interface{}, 0, len(buckets))
	for _, b := range buckets {
		rows = append(rows, []interface{}{
			b.Month, b.Year, b.Tickets, b.Resolved, b.Pending, b.HoursSpent, optionalHours(b.AvgResolutionTime),
		})
	}
	return rows
}

func companyRows(rollups []metrics.CompanyRollup) [][]interface{} {
	rows := make([][]interface{}, 0, len(rollups))
	for _, c := range rollups {
		rows = append(rows, []interface{}{
			c.Name, c.Tickets, c.Resolved, c.Pending, c.HoursSpent, optionalHours(c.AvgResolutionTime),
			optional(c.Salary), c.ResolvedHours, optional(c.CostPerHour), c.CostImpact,
		})
	}
	return rows
}

func categoryRows(stats []metrics.CategoryStat) [][]interface{} {
	rows := make([][]interface{}, 0, len(stats))
	for _, c := range stats {
		rows = append(rows, []interface{}{c.Name, c.Value, c.HoursSpent})
	}
	return rows
}

// optional: отсутствующее значение - пустая ячейка, а не ноль.
func optional(v null.Float64) interface{} {
	if !v.Valid {
		return ""
	}
	return v.Float64
}

// optionalHours - то же, но часы округляются до десятых для таблицы.
func optionalHours(v null.Float64) interface{} {
	if !v.Valid {
		return ""
	}
	return metrics.RoundHours(v.Float64)
}
