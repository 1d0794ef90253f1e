package handler

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/classicalvivekch/building-shop-manager-sub000/internal/repository"
	"github.com/classicalvivekch/building-shop-manager-sub000/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/xuri/excelize/v2"
)

type ReportHandler struct {
	Repo     repository.ReportRepository
	Currency string
}

func (h ReportHandler) RegisterRoutes(r chi.Router) {
	r.Get("/reports", h.report)
	r.Get("/reports/export", h.export)
}

func (h ReportHandler) resolvePeriod(r *http.Request) (service.Period, error) {
	startDate, err := parseDateQuery(r, "startDate")
	if err != nil {
		return service.Period{}, service.ErrInvalidPeriod
	}
	endDate, err := parseDateQuery(r, "endDate")
	if err != nil {
		return service.Period{}, service.ErrInvalidPeriod
	}
	return service.ResolvePeriod(r.URL.Query().Get("period"), time.Now(), startDate, endDate)
}

func (h ReportHandler) report(w http.ResponseWriter, r *http.Request) {
	period, err := h.resolvePeriod(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid period")
		return
	}
	ctx := r.Context()

	sales, err := h.Repo.SalesTotals(ctx, period.Start, period.End)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	prevSales, err := h.Repo.SalesTotals(ctx, period.PrevStart, period.PrevEnd)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	expenses, err := h.Repo.ExpenseTotal(ctx, period.Start, period.End)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	prevExpenses, err := h.Repo.ExpenseTotal(ctx, period.PrevStart, period.PrevEnd)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	categories, err := h.Repo.SalesByCategory(ctx, period.Start, period.End)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	topItems, err := h.Repo.TopItems(ctx, period.Start, period.End, 5)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	customers, err := h.Repo.CustomerTotals(ctx, period.Start, period.End)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	employees, err := h.Repo.EmployeeTotals(ctx, period.Start, period.End)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	now := time.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	monthEnd := monthStart.AddDate(0, 1, 0)
	invoiceCount, err := h.Repo.MonthlyInvoiceCount(ctx, monthStart, monthEnd)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	inventoryLoss, err := h.Repo.InventoryLoss(ctx, monthStart, monthEnd)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	netProfit := sales.Total - expenses

	categoryViews := make([]map[string]any, 0, len(categories))
	for _, c := range categories {
		categoryViews = append(categoryViews, map[string]any{
			"category": c.Category,
			"total":    c.Total,
			"count":    c.Count,
			"share":    service.Share(c.Total, sales.Total),
		})
	}

	itemViews := make([]map[string]any, 0, len(topItems))
	for _, it := range topItems {
		itemViews = append(itemViews, map[string]any{
			"name":     it.Name,
			"quantity": it.Quantity,
			"revenue":  it.Revenue,
		})
	}

	customerViews := make([]map[string]any, 0, len(customers))
	for _, c := range customers {
		customerViews = append(customerViews, map[string]any{
			"customerId": strconv.FormatInt(c.CustomerID, 10),
			"name":       c.Name,
			"mobile":     c.Mobile,
			"total":      c.Total,
			"paid":       c.Paid,
			"pending":    c.Pending,
			"orderCount": c.OrderCount,
			"isRepeat":   c.OrderCount > 1,
		})
	}

	employeeViews := make([]map[string]any, 0, len(employees))
	for _, e := range employees {
		employeeViews = append(employeeViews, map[string]any{
			"userId": strconv.FormatInt(e.UserID, 10),
			"name":   e.Name,
			"total":  e.Total,
			"count":  e.Count,
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"currency": h.Currency,
		"period": map[string]any{
			"name":  period.Name,
			"start": period.Start.Format(dateLayout),
			"end":   period.End.AddDate(0, 0, -1).Format(dateLayout),
		},
		"sales": map[string]any{
			"total":  sales.Total,
			"count":  sales.Count,
			"change": service.PercentChange(sales.Total, prevSales.Total),
		},
		"expenses": map[string]any{
			"total":  expenses,
			"change": service.PercentChange(expenses, prevExpenses),
		},
		"netProfit":           netProfit,
		"profitMargin":        service.ProfitMargin(netProfit, sales.Total),
		"salesByCategory":     categoryViews,
		"topItems":            itemViews,
		"customers":           customerViews,
		"employees":           employeeViews,
		"monthlyInvoiceCount": invoiceCount,
		"inventoryLoss":       inventoryLoss,
	})
}

func (h ReportHandler) export(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "csv"
	}

	period, err := h.resolvePeriod(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid period")
		return
	}

	rows, err := h.Repo.SaleRows(r.Context(), period.Start, period.End)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	filenameSuffix := fmt.Sprintf("%s_%s",
		period.Start.Format("20060102"),
		period.End.AddDate(0, 0, -1).Format("20060102"))

	switch format {
	case "csv":
		data, err := exportSalesCSV(rows)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"sales_%s.csv\"", filenameSuffix))
		_, _ = w.Write(data)
	case "xlsx", "excel":
		data, err := exportSalesXLSX(rows)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"sales_%s.xlsx\"", filenameSuffix))
		_, _ = w.Write(data)
	default:
		writeError(w, http.StatusBadRequest, "invalid format (use csv or xlsx)")
	}
}

func exportSalesCSV(rows []repository.SaleExportRow) ([]byte, error) {
	buf := new(bytes.Buffer)
	w := csv.NewWriter(buf)
	_ = w.Write([]string{"order_number", "date", "customer", "employee", "total_amount", "payment_status", "is_borrow"})
	for _, row := range rows {
		_ = w.Write([]string{
			row.OrderNumber,
			row.Date.Format(dateLayout),
			row.CustomerName,
			row.EmployeeName,
			strconv.FormatInt(row.TotalAmount, 10),
			row.PaymentStatus,
			strconv.FormatBool(row.IsBorrow),
		})
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

func exportSalesXLSX(rows []repository.SaleExportRow) ([]byte, error) {
	f := excelize.NewFile()
	sheet := "Sales"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, err
	}
	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	header := []string{"Order Number", "Date", "Customer", "Employee", "Total Amount", "Payment Status", "Borrow"}
	for c, v := range header {
		cell, _ := excelize.CoordinatesToCellName(c+1, 1)
		_ = f.SetCellValue(sheet, cell, v)
	}
	for r, row := range rows {
		values := []any{
			row.OrderNumber,
			row.Date.Format(dateLayout),
			row.CustomerName,
			row.EmployeeName,
			row.TotalAmount,
			row.PaymentStatus,
			row.IsBorrow,
		}
		for c, v := range values {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			_ = f.SetCellValue(sheet, cell, v)
		}
	}

	_ = f.SetColWidth(sheet, "A", "A", 14)
	_ = f.SetColWidth(sheet, "B", "B", 12)
	_ = f.SetColWidth(sheet, "C", "D", 22)
	_ = f.SetColWidth(sheet, "E", "E", 14)
	_ = f.SetColWidth(sheet, "F", "G", 14)

	style, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#1F2937"}, Pattern: 1},
	})
	_ = f.SetCellStyle(sheet, "A1", "G1", style)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
