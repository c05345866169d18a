package report

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

const sheetName = "Attendance"

// WriteXLSX 将月度报表写为 Excel 文件
//
// 布局：
//   - 第 1 行：标题（合并 A:C）
//   - 第 2-4 行：校历 / 月份 / 教学日
//   - 第 6 行起：Member | Product | Total，末行为合计
func WriteXLSX(r MonthlyReport) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	idx, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("创建工作表失败: %w", err)
	}
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	f.SetColWidth(sheetName, "A", "A", 36)
	f.SetColWidth(sheetName, "B", "B", 28)
	f.SetColWidth(sheetName, "C", "C", 10)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	boldStyle, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})

	// 标题
	f.SetCellValue(sheetName, "A1", r.Title)
	f.MergeCell(sheetName, "A1", "C1")
	f.SetCellStyle(sheetName, "A1", "C1", headerStyle)

	// 概要
	f.SetCellValue(sheetName, "A2", "School Calendar")
	f.SetCellValue(sheetName, "B2", r.SchoolCalendarName)
	f.SetCellValue(sheetName, "A3", "Month")
	f.SetCellValue(sheetName, "B3", r.Month.Name)
	f.SetCellValue(sheetName, "A4", "Total Lective Days")
	f.SetCellValue(sheetName, "B4", r.LectiveDays)
	f.SetCellStyle(sheetName, "A2", "A4", boldStyle)

	// 表头
	row := 6
	f.SetCellValue(sheetName, cell("A", row), "Member")
	f.SetCellValue(sheetName, cell("B", row), "Product")
	f.SetCellValue(sheetName, cell("C", row), "Total")
	f.SetCellStyle(sheetName, cell("A", row), cell("C", row), headerStyle)

	// 数据行
	row++
	for _, l := range r.Lines {
		f.SetCellValue(sheetName, cell("A", row), l.Partner)
		f.SetCellValue(sheetName, cell("B", row), l.Product)
		f.SetCellValue(sheetName, cell("C", row), l.Total)
		row++
	}

	// 合计
	f.SetCellValue(sheetName, cell("A", row), "Total")
	f.SetCellValue(sheetName, cell("C", row), r.TotalAttendance())
	f.SetCellStyle(sheetName, cell("A", row), cell("C", row), boldStyle)

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		return nil, fmt.Errorf("写入 Excel 失败: %w", err)
	}
	return buf, nil
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
