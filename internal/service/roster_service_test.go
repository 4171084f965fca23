package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

func TestRosterService_Export(t *testing.T) {
	svc, _, _ := setupTestReservationService(5)
	ctx := context.Background()
	svc.Book(ctx, "user-a", bookReq("2024-06-03"))
	svc.Book(ctx, "user-b", bookReq("2024-06-03"))

	roster := NewRosterService(svc, zap.NewNop())
	buf, filename, err := roster.Export(ctx, "sch-spin", "2024-06-03")
	if err != nil {
		t.Fatalf("Export 应成功: %v", err)
	}
	if !strings.HasSuffix(filename, ".xlsx") || !strings.Contains(filename, "2024-06-03") {
		t.Errorf("文件名不符合预期: %s", filename)
	}

	xf, err := excelize.OpenReader(buf)
	if err != nil {
		t.Fatalf("生成的文件应可被解析: %v", err)
	}
	defer xf.Close()

	rows, err := xf.GetRows("名单")
	if err != nil {
		t.Fatalf("读取名单 Sheet 失败: %v", err)
	}
	// 标题 + 表头 + 2 条数据 + 合计
	if len(rows) != 5 {
		t.Fatalf("期望 5 行，实际 %d", len(rows))
	}
	if rows[2][1] != "user-a" || rows[3][1] != "user-b" {
		t.Errorf("名单顺序应按预约先后，实际 %v / %v", rows[2], rows[3])
	}
	if rows[4][1] != "2/5" {
		t.Errorf("期望合计 2/5，实际 %s", rows[4][1])
	}
}

func TestRosterService_Export_ScheduleNotFound(t *testing.T) {
	svc, _, _ := setupTestReservationService(5)
	roster := NewRosterService(svc, zap.NewNop())

	_, _, err := roster.Export(context.Background(), "missing", "2024-06-03")
	if !errors.Is(err, ErrScheduleNotFound) {
		t.Errorf("期望 ErrScheduleNotFound，实际: %v", err)
	}
}
