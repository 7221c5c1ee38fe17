// Package export writes a filtered record subset to an Excel workbook.
package export

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"
	"pilgrim-insights-go/internal/types"
)

// SheetName is the single sheet of an export workbook.
const SheetName = "Pilgrims"

type column struct {
	header string
	value  func(p *types.Pilgrim) any
}

// columns use the Arabic headers operators expect.
var columns = []column{
	{"المعرف", func(p *types.Pilgrim) any { return p.ID }},
	{"رقم_الحجز", func(p *types.Pilgrim) any { return p.BookingID }},
	{"الجنس", func(p *types.Pilgrim) any { return p.Gender }},
	{"الجنسية", func(p *types.Pilgrim) any { return p.Nationality }},
	{"الباقة", func(p *types.Pilgrim) any { return p.Package }},
	{"مدينة_الوصول", func(p *types.Pilgrim) any { return p.ArrivalCity }},
	{"مدينة_المغادرة", func(p *types.Pilgrim) any { return p.DepartureCity }},
	{"فندق_الوصول", func(p *types.Pilgrim) any { return p.ArrivalHotel }},
	{"فندق_المغادرة", func(p *types.Pilgrim) any { return p.DepartureHotel }},
	{"العمر", func(p *types.Pilgrim) any { return p.Age }},
	{"تاريخ_الوصول", func(p *types.Pilgrim) any { return p.ArrivalDate }},
	{"تاريخ_مغادرة_فندق_الوصول", func(p *types.Pilgrim) any { return p.ArrivalHotelCheckoutDate }},
	{"تاريخ_الوصول_لمدينة_المغادرة", func(p *types.Pilgrim) any { return p.DepartureCityArrivalDate }},
	{"تاريخ_مغادرة_فندق_المغادرة", func(p *types.Pilgrim) any { return p.DepartureHotelCheckoutDate }},
	{"تاريخ_المغادرة", func(p *types.Pilgrim) any { return p.DepartureDate }},
	{"نوع_غرفة_مكة", func(p *types.Pilgrim) any { return p.MakkahRoomType }},
	{"نوع_غرفة_المدينة", func(p *types.Pilgrim) any { return p.MadinahRoomType }},
}

// Headers returns the export column headers in order.
func Headers() []string {
	out := make([]string, len(columns))
	for i, c := range columns {
		out[i] = c.header
	}
	return out
}

// WriteXLSX writes records as one header row plus one row per record.
func WriteXLSX(w io.Writer, records []types.Pilgrim) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	sw, err := f.NewStreamWriter(SheetName)
	if err != nil {
		return fmt.Errorf("stream writer: %w", err)
	}

	header := make([]any, len(columns))
	for i, c := range columns {
		header[i] = c.header
	}
	if err := sw.SetRow("A1", header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i := range records {
		row := make([]any, len(columns))
		for j, c := range columns {
			row[j] = c.value(&records[i])
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}
	if err := sw.Flush(); err != nil {
		return fmt.Errorf("flush: %w", err)
	}
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// FileName is the download name for an export taken at t.
func FileName(t time.Time) string {
	return "pilgrims-export-" + t.Format("2006-01-02_15-04") + ".xlsx"
}
