package utils

import (
	"io"

	"github.com/Govind-619/Threadly/models"
	"github.com/tealeg/xlsx"
)

var orderExportHeaders = []string{"Order ID", "Reference", "Customer", "Email", "Date", "Items", "Subtotal", "Shipping", "Total", "Payment", "Payment Status", "Status", "Pincode"}

// WriteOrdersXLSX writes one row per order to an Excel workbook
func WriteOrdersXLSX(w io.Writer, orders []models.Order) error {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Orders")
	if err != nil {
		return err
	}

	style := xlsx.NewStyle()
	font := xlsx.DefaultFont()
	font.Bold = true
	style.Font = *font

	headerRow := sheet.AddRow()
	for _, h := range orderExportHeaders {
		cell := headerRow.AddCell()
		cell.SetString(h)
		cell.SetStyle(style)
	}

	for _, order := range orders {
		items := 0
		for _, item := range order.OrderItems {
			items += item.Quantity
		}
		subtotal, _ := order.Subtotal.Float64()
		shipping, _ := order.Shipping.Float64()
		total, _ := order.Total.Float64()

		row := sheet.AddRow()
		row.AddCell().SetInt(int(order.ID))
		row.AddCell().SetString(order.Reference)
		row.AddCell().SetString(order.User.Name)
		row.AddCell().SetString(order.User.Email)
		row.AddCell().SetString(order.CreatedAt.Format("2006-01-02 15:04"))
		row.AddCell().SetInt(items)
		row.AddCell().SetFloat(subtotal)
		row.AddCell().SetFloat(shipping)
		row.AddCell().SetFloat(total)
		row.AddCell().SetString(order.PaymentMethod)
		row.AddCell().SetString(order.PaymentStatus)
		row.AddCell().SetString(order.Status)
		row.AddCell().SetString(order.ShipPincode)
	}

	return file.Write(w)
}
