package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/yasir-hameed381/idreesia-backend1-sub000/internal/dto"
	"github.com/yasir-hameed381/idreesia-backend1-sub000/internal/model"
	"github.com/yasir-hameed381/idreesia-backend1-sub000/internal/repository"
	pkgerrors "github.com/yasir-hameed381/idreesia-backend1-sub000/pkg/errors"
)

// ── 导出模块业务错误 ──

var ErrExportGenerateFail = pkgerrors.New(pkgerrors.KindInternal, "Failed to generate the roster sheet")

// ExportService 导出业务接口
//
// 导出与列表接口使用相同的查询参数与两种视图：
//   - 指定 mehfil：每个名册一行，单元格为当天的值班类型
//   - 全区：每个 karkun 一行，单元格附带 mehfil 编号
type ExportService interface {
	// ExportRosters 导出名册为 Excel，返回内容与建议文件名
	ExportRosters(ctx context.Context, q dto.RosterQuery) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo    *repository.Repository
	rosters DutyRosterService
	logger  *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(repo *repository.Repository, rosters DutyRosterService, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, rosters: rosters, logger: logger}
}

// exportRow 与视图无关的一行数据
type exportRow struct {
	name    string
	phone   string
	mehfils string
	cells   map[string]string // day → 单元格文本
}

// ═══════════════════════════════════════════════════════════
// ExportRosters
// ═══════════════════════════════════════════════════════════
//
// 表头：| Karkun | Phone | Mehfil | Monday … Sunday |

func (s *exportService) ExportRosters(ctx context.Context, q dto.RosterQuery) (*bytes.Buffer, string, error) {
	if q.ZoneID == nil || *q.ZoneID == 0 {
		return nil, "", ErrZoneRequired
	}

	zone, err := s.repo.Zone.GetByID(ctx, *q.ZoneID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrZoneNotFound
		}
		s.logger.Error("查询 zone 失败", zap.Uint("zone_id", *q.ZoneID), zap.Error(err))
		return nil, "", err
	}

	list, err := s.rosters.List(ctx, q)
	if err != nil {
		return nil, "", err
	}

	var rows []exportRow
	switch data := list.Data.(type) {
	case []dto.RosterRowResponse:
		rows = rowsFromMehfilView(data)
	case []dto.KarkunRosterRow:
		rows = rowsFromZoneView(data)
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Duty Roster"
	idx, _ := f.NewSheet(sheetName)
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	f.SetColWidth(sheetName, "A", "A", 24)
	f.SetColWidth(sheetName, "B", "B", 16)
	f.SetColWidth(sheetName, "C", "C", 20)
	f.SetColWidth(sheetName, colName(3), colName(2+len(model.Weekdays)), 22)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	// 标题行
	title := "Duty Roster: " + zone.TitleEn
	f.SetCellValue(sheetName, "A1", title)
	f.MergeCell(sheetName, "A1", cell(colName(2+len(model.Weekdays)), 1))
	f.SetCellStyle(sheetName, "A1", "A1", headerStyle)

	// 表头
	row := 2
	f.SetCellValue(sheetName, cell("A", row), "Karkun")
	f.SetCellValue(sheetName, cell("B", row), "Phone")
	f.SetCellValue(sheetName, cell("C", row), "Mehfil")
	for i, day := range model.Weekdays {
		f.SetCellValue(sheetName, cell(colName(3+i), row), dayLabel(day))
	}
	f.SetCellStyle(sheetName, cell("A", row), cell(colName(2+len(model.Weekdays)), row), headerStyle)

	// 数据行
	row = 3
	for _, r := range rows {
		f.SetCellValue(sheetName, cell("A", row), r.name)
		f.SetCellValue(sheetName, cell("B", row), r.phone)
		f.SetCellValue(sheetName, cell("C", row), r.mehfils)
		for i, day := range model.Weekdays {
			text := r.cells[day]
			if text == "" {
				text = "-"
			}
			f.SetCellValue(sheetName, cell(colName(3+i), row), text)
		}
		row++
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("duty_roster_zone_%d.xlsx", zone.ID)
	if q.MehfilID != nil && *q.MehfilID != 0 {
		filename = fmt.Sprintf("duty_roster_zone_%d_mehfil_%d.xlsx", zone.ID, *q.MehfilID)
	}
	return buf, filename, nil
}

func rowsFromMehfilView(data []dto.RosterRowResponse) []exportRow {
	rows := make([]exportRow, 0, len(data))
	for _, r := range data {
		er := exportRow{cells: make(map[string]string)}
		if r.User != nil {
			er.name, er.phone = r.User.Name, r.User.PhoneNumber
		}
		if r.Mehfil != nil {
			er.mehfils = r.Mehfil.MehfilNumber
		}
		for day, items := range r.Duties {
			er.cells[day] = joinDuties(items, false)
		}
		rows = append(rows, er)
	}
	return rows
}

func rowsFromZoneView(data []dto.KarkunRosterRow) []exportRow {
	rows := make([]exportRow, 0, len(data))
	for _, r := range data {
		er := exportRow{cells: make(map[string]string)}
		if r.User != nil {
			er.name, er.phone = r.User.Name, r.User.PhoneNumber
		}
		numbers := make([]string, 0, len(r.Mehfils))
		for _, m := range r.Mehfils {
			numbers = append(numbers, m.MehfilNumber)
		}
		er.mehfils = strings.Join(numbers, ", ")
		for day, items := range r.Duties {
			er.cells[day] = joinDuties(items, true)
		}
		rows = append(rows, er)
	}
	return rows
}

// joinDuties 单元格文本，如 "Coordinator (#12), Gate"
func joinDuties(items []dto.AssignmentResponse, withMehfil bool) string {
	parts := make([]string, 0, len(items))
	for _, a := range items {
		name := fmt.Sprintf("#%d", a.DutyTypeID)
		if a.DutyType != nil {
			name = a.DutyType.Name
		}
		if withMehfil && a.Mehfil != nil {
			name = fmt.Sprintf("%s (#%s)", name, a.Mehfil.MehfilNumber)
		}
		parts = append(parts, name)
	}
	return strings.Join(parts, ", ")
}

// ── 辅助函数 ──

// dayLabel monday → Monday
func dayLabel(day string) string {
	if day == "" {
		return day
	}
	return strings.ToUpper(day[:1]) + day[1:]
}

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
