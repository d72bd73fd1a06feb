package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"erp-system/internal/dto"
	"erp-system/internal/repositories"
	"erp-system/pkg/types"
	"erp-system/pkg/utils"

	"github.com/aarondl/null/v8"
)

type EquipmentImporterInterface interface {
	ImportFromExcel(ctx context.Context, reader io.Reader) (*dto.ImportReportDTO, error)
	ExportToExcel(ctx context.Context) (*bytes.Buffer, error)
}

// EquipmentImporter загружает номенклатуру из xlsx и выгружает текущий
// срез склада обратно. Формат листа фиксированный, первая строка — шапка.
type EquipmentImporter struct {
	equipmentService EquipmentServiceInterface
	equipmentRepo    repositories.EquipmentRepositoryInterface
	logger           *zap.Logger
}

func NewEquipmentImporter(
	equipmentService EquipmentServiceInterface,
	equipmentRepo repositories.EquipmentRepositoryInterface,
	logger *zap.Logger,
) EquipmentImporterInterface {
	return &EquipmentImporter{
		equipmentService: equipmentService,
		equipmentRepo:    equipmentRepo,
		logger:           logger,
	}
}

var importHeader = []string{
	"Серийный номер", "Наименование", "Категория", "Филиал (ID)",
	"Количество", "Порог остатка", "Производитель", "Модель", "Локация",
}

// ImportFromExcel построчно создаёт позиции. Ошибочные строки не прерывают
// импорт: они копятся в отчёте с номером строки и причиной.
func (imp *EquipmentImporter) ImportFromExcel(ctx context.Context, reader io.Reader) (*dto.ImportReportDTO, error) {
	file, err := excelize.OpenReader(reader)
	if err != nil {
		return nil, fmt.Errorf("не удалось открыть xlsx: %w", err)
	}
	defer file.Close()

	sheet := file.GetSheetName(0)
	rows, err := file.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("не удалось прочитать лист %q: %w", sheet, err)
	}

	report := &dto.ImportReportDTO{Errors: []dto.ImportRowError{}}

	for i, row := range rows {
		if i == 0 {
			continue // шапка
		}
		rowNum := i + 1

		payload, err := parseImportRow(row)
		if err != nil {
			report.Failed++
			report.Errors = append(report.Errors, dto.ImportRowError{Row: rowNum, Reason: err.Error()})
			continue
		}

		if _, err := imp.equipmentService.CreateEquipment(ctx, *payload); err != nil {
			report.Failed++
			report.Errors = append(report.Errors, dto.ImportRowError{Row: rowNum, Reason: err.Error()})
			continue
		}
		report.Imported++
	}

	imp.logger.Info("Импорт номенклатуры завершён",
		zap.Int("imported", report.Imported),
		zap.Int("failed", report.Failed),
	)
	return report, nil
}

func parseImportRow(row []string) (*dto.CreateEquipmentDTO, error) {
	cell := func(idx int) string {
		if idx < len(row) {
			return strings.TrimSpace(row[idx])
		}
		return ""
	}

	serial, name, category := cell(0), cell(1), cell(2)
	if serial == "" || name == "" || category == "" {
		return nil, fmt.Errorf("серийный номер, наименование и категория обязательны")
	}

	branchID, err := strconv.ParseUint(cell(3), 10, 64)
	if err != nil || branchID == 0 {
		return nil, fmt.Errorf("некорректный ID филиала: %q", cell(3))
	}

	quantity := int64(0)
	if v := cell(4); v != "" {
		quantity, err = strconv.ParseInt(v, 10, 64)
		if err != nil || quantity < 0 {
			return nil, fmt.Errorf("некорректное количество: %q", v)
		}
	}

	threshold := int64(0)
	if v := cell(5); v != "" {
		threshold, err = strconv.ParseInt(v, 10, 64)
		if err != nil || threshold < 0 {
			return nil, fmt.Errorf("некорректный порог остатка: %q", v)
		}
	}

	payload := &dto.CreateEquipmentDTO{
		BranchID:          branchID,
		SerialNumber:      serial,
		Name:              name,
		Category:          category,
		Quantity:          quantity,
		LowStockThreshold: threshold,
	}
	if v := cell(6); v != "" {
		payload.Manufacturer = null.StringFrom(v)
	}
	if v := cell(7); v != "" {
		payload.Model = null.StringFrom(v)
	}
	if v := cell(8); v != "" {
		payload.Location = null.StringFrom(v)
	}
	return payload, nil
}

// ExportToExcel выгружает все позиции компании (включая неактивные).
func (imp *EquipmentImporter) ExportToExcel(ctx context.Context) (*bytes.Buffer, error) {
	companyID, err := utils.GetCompanyIDFromCtx(ctx)
	if err != nil {
		return nil, err
	}

	list, _, err := imp.equipmentRepo.GetEquipments(ctx, companyID, types.Filter{Limit: utils.MaxLimit, Filter: map[string]interface{}{}}, true)
	if err != nil {
		return nil, err
	}

	file := excelize.NewFile()
	defer file.Close()

	sheet := file.GetSheetName(0)
	header := append(append([]string{}, importHeader...), "Остаток", "Статус", "Активна")
	if err := file.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, err
	}

	for i, e := range list {
		row := []interface{}{
			e.SerialNumber, e.Name, e.Category, e.BranchID,
			e.Quantity, e.LowStockThreshold,
			utils.SafeDeref(e.Manufacturer), utils.SafeDeref(e.Model), utils.SafeDeref(e.Location),
			e.AvailableQuantity, e.Status, e.IsActive,
		}
		cellRef, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := file.SetSheetRow(sheet, cellRef, &row); err != nil {
			return nil, err
		}
	}

	buf, err := file.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf, nil
}
