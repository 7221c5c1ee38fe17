package dataset

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
	"pilgrim-insights-go/internal/types"
)

// Write stores records at path as .json or .xlsx, in the layout Load reads back.
func Write(records []types.Pilgrim, path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return writeJSON(path, records)
	case ".xlsx":
		return writeXLSX(path, records)
	}
	return fmt.Errorf("unsupported dataset format %q", filepath.Ext(path))
}

func writeJSON(path string, data any) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("encode json for %s: %w", path, err)
	}
	return nil
}

func writeXLSX(path string, records []types.Pilgrim) error {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	header := make([]any, len(Columns))
	for i, c := range Columns {
		header[i] = c
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i := range records {
		p := &records[i]
		row := []any{
			p.ID, p.BookingID, p.Gender, p.Nationality, p.Company, p.Package, p.FlightContractType,
			p.ArrivalCity, p.ArrivalPoint, p.DepartureCity, p.DeparturePoint,
			p.ArrivalHotel, p.MakkahHotel, p.DepartureHotel, p.AccommodationStatus, p.Age,
			p.ArrivalDate, p.ArrivalHotelCheckoutDate, p.DepartureCityArrivalDate,
			p.DepartureHotelCheckoutDate, p.DepartureDate, p.MakkahRoomType, p.MadinahRoomType,
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}
