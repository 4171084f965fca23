package service

import (
	"bytes"
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// RosterService 场次名单导出
//
// 导出以 bytes.Buffer 返回，由 Handler 层设置响应头后写入
type RosterService interface {
	// Export 导出某场次的有效预约名单为 Excel
	Export(ctx context.Context, scheduleID, date string) (*bytes.Buffer, string, error)
}

type rosterService struct {
	reservations ReservationService
	logger       *zap.Logger
}

// NewRosterService 创建 RosterService 实例
func NewRosterService(reservations ReservationService, logger *zap.Logger) RosterService {
	return &rosterService{reservations: reservations, logger: logger}
}

// ═══════════════════════════════════════════════════════════
// Export — 场次名单 Excel
// ═══════════════════════════════════════════════════════════
//
// 输出格式：
//   - 第 1 行：课程名 日期（合并单元格）
//   - 第 2 行：序号 / 用户 / 预约号 / 预约时间
//   - 数据行按预约先后排列，末行为 已约/容量 汇总

func (s *rosterService) Export(ctx context.Context, scheduleID, date string) (*bytes.Buffer, string, error) {
	roster, err := s.reservations.ListForOccurrence(ctx, scheduleID, date)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "名单"
	idx, _ := f.NewSheet(sheetName)
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	f.SetColWidth(sheetName, "A", "A", 8)
	f.SetColWidth(sheetName, "B", "B", 24)
	f.SetColWidth(sheetName, "C", "C", 40)
	f.SetColWidth(sheetName, "D", "D", 26)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	// 标题行
	f.SetCellValue(sheetName, "A1", fmt.Sprintf("%s %s", roster.ClassName, roster.Date))
	f.MergeCell(sheetName, "A1", "D1")
	f.SetCellStyle(sheetName, "A1", "D1", headerStyle)

	// 表头
	for i, h := range []string{"序号", "用户", "预约号", "预约时间"} {
		f.SetCellValue(sheetName, cell(colName(i), 2), h)
	}
	f.SetCellStyle(sheetName, "A2", "D2", headerStyle)

	// 数据行
	row := 3
	for i, e := range roster.Entries {
		f.SetCellValue(sheetName, cell("A", row), i+1)
		f.SetCellValue(sheetName, cell("B", row), e.UserID)
		f.SetCellValue(sheetName, cell("C", row), e.ReservationID)
		f.SetCellValue(sheetName, cell("D", row), e.BookedAt)
		row++
	}
	f.SetCellValue(sheetName, cell("A", row), "合计")
	f.SetCellValue(sheetName, cell("B", row), fmt.Sprintf("%d/%d", len(roster.Entries), roster.Capacity))

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.String("schedule_id", scheduleID), zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("名单_%s_%s.xlsx", roster.ClassName, roster.Date)
	return buf, filename, nil
}

// ── 辅助函数 ──

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
