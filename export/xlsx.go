package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"opendwg/dwg"
)

const (
	SheetLayers   = "Layers"
	SheetEntities = "Entities"
	defaultSheet  = "Sheet1"
)

var (
	layerColumns  = []interface{}{"Name", "Handle", "Color", "On", "Frozen", "Locked", "Plotting", "Line weight", "Members", "Tags"}
	entityColumns = []interface{}{"Layer", "Handle", "Insert", "Kind"}
)

// WriteXLSX writes an inventory workbook: one row per layer on the Layers
// sheet and one row per materialized member on the Entities sheet.
func WriteXLSX(w io.Writer, file *dwg.File) error {
	drawn, err := Collect(file)
	if err != nil {
		return errors.Wrap(err, "export.WriteXLSX error")
	}

	workbook := excelize.NewFile()
	defer workbook.Close()
	if err := workbook.SetSheetName(defaultSheet, SheetLayers); err != nil {
		return errors.Wrap(err, "export.WriteXLSX error")
	}
	if _, err := workbook.NewSheet(SheetEntities); err != nil {
		return errors.Wrap(err, "export.WriteXLSX error")
	}

	layerRows := [][]interface{}{layerColumns}
	entityRows := [][]interface{}{entityColumns}
	for _, d := range drawn {
		layer := d.Layer
		tags := make([]string, 0)
		for _, tag := range layer.TagNames() {
			count, _ := layer.Tags.Get(tag)
			tags = append(tags, fmt.Sprintf("%s (%d)", tag, count))
		}
		layerRows = append(layerRows, []interface{}{
			layer.Name, hex(layer.Handle), layer.Color, layer.On, layer.Frozen, layer.Locked,
			layer.Plotting, layer.LineWeight, len(layer.Members), strings.Join(tags, ", "),
		})
		for i, geometry := range d.Geometries {
			insert := ""
			if d.Members[i].Insert != 0 {
				insert = hex(d.Members[i].Insert)
			}
			entityRows = append(entityRows, []interface{}{
				layer.Name, hex(geometry.Common().Handle), insert, string(geometry.Kind()),
			})
		}
	}

	if err := setRows(workbook, SheetLayers, layerRows); err != nil {
		return errors.Wrap(err, "export.WriteXLSX error")
	}
	if err := setRows(workbook, SheetEntities, entityRows); err != nil {
		return errors.Wrap(err, "export.WriteXLSX error")
	}
	return errors.Wrap(workbook.Write(w), "export.WriteXLSX error")
}

func setRows(workbook *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		row := row
		if err := workbook.SetSheetRow(sheet, cell, &row); err != nil {
			return errors.Wrapf(err, "sheet %s row %d", sheet, i+1)
		}
	}
	return nil
}

func hex(handle uint64) string {
	return fmt.Sprintf("%X", handle)
}
