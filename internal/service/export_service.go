package service

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"tipsy/internal/model"
	"tipsy/internal/repository"
	pkgerrors "tipsy/pkg/errors"
)

var ErrExportGenerateFail = pkgerrors.New(pkgerrors.KindInternal, "EXPORT_FAILED", "Failed to generate spreadsheet")

const tipSheet = "Tips"

// ExportService spreadsheet exports.
//
// The workbook is returned as a buffer; the handler sets the download
// headers and writes it out.
type ExportService interface {
	// ExportTips exports the caller's own tips, or every tip of
	// restaurantID when it is non-zero and the caller manages it.
	ExportTips(ctx context.Context, caller *model.User, restaurantID uint) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewExportService creates an ExportService.
func NewExportService(repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, logger: logger}
}

func (s *exportService) ExportTips(ctx context.Context, caller *model.User, restaurantID uint) (*bytes.Buffer, string, error) {
	var filter repository.TipExportFilter
	title := "My tips"
	filename := fmt.Sprintf("tips_user_%d_%s.xlsx", caller.ID, now().Format("20060102"))

	if restaurantID != 0 {
		restaurant, err := loadRestaurant(ctx, s.repo, restaurantID)
		if err != nil {
			return nil, "", err
		}
		if !CanManageStaff(caller, restaurant) {
			return nil, "", ErrAccessDenied
		}
		filter.RestaurantID = &restaurant.ID
		title = restaurant.Name + " tips"
		filename = fmt.Sprintf("tips_restaurant_%d_%s.xlsx", restaurant.ID, now().Format("20060102"))
	} else {
		filter.WorkerUserID = &caller.ID
	}

	rows, err := s.repo.Tip.ListForExport(ctx, filter)
	if err != nil {
		s.logger.Error("load tips for export failed", zap.Error(err))
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	idx, _ := f.NewSheet(tipSheet)
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	headers := []string{"ID", "Date", "Worker", "Restaurant", "Amount", "Currency", "Payer", "Message", "Rating"}
	widths := []float64{8, 20, 20, 24, 12, 10, 20, 40, 8}
	for i, w := range widths {
		col := colName(i)
		f.SetColWidth(tipSheet, col, col, w)
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	amountStyle, _ := f.NewStyle(&excelize.Style{NumFmt: 4})

	f.SetCellValue(tipSheet, "A1", title)
	f.MergeCell(tipSheet, "A1", cell(colName(len(headers)-1), 1))
	f.SetCellStyle(tipSheet, "A1", "A1", headerStyle)

	for i, h := range headers {
		f.SetCellValue(tipSheet, cell(colName(i), 2), h)
	}
	f.SetCellStyle(tipSheet, "A2", cell(colName(len(headers)-1), 2), headerStyle)

	row := 3
	var total int64
	for _, t := range rows {
		f.SetCellValue(tipSheet, cell("A", row), t.ID)
		f.SetCellValue(tipSheet, cell("B", row), t.CreatedAt.UTC().Format(time.DateTime))
		f.SetCellValue(tipSheet, cell("C", row), t.WorkerName)
		f.SetCellValue(tipSheet, cell("D", row), derefOr(t.RestaurantName, "-"))
		f.SetCellValue(tipSheet, cell("E", row), float64(t.AmountCents)/100)
		f.SetCellStyle(tipSheet, cell("E", row), cell("E", row), amountStyle)
		f.SetCellValue(tipSheet, cell("F", row), t.Currency)
		f.SetCellValue(tipSheet, cell("G", row), derefOr(t.PayerName, ""))
		f.SetCellValue(tipSheet, cell("H", row), derefOr(t.Message, ""))
		if t.Rating != nil {
			f.SetCellValue(tipSheet, cell("I", row), *t.Rating)
		}
		total += t.AmountCents
		row++
	}
	f.SetCellValue(tipSheet, cell("D", row), "Total")
	f.SetCellValue(tipSheet, cell("E", row), float64(total)/100)
	f.SetCellStyle(tipSheet, cell("E", row), cell("E", row), amountStyle)

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("write spreadsheet failed", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}
	return buf, filename, nil
}

// ── helpers ──

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}

func derefOr(s *string, fallback string) string {
	if s == nil {
		return fallback
	}
	return *s
}
