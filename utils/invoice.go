package utils

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/Govind-619/Threadly/models"
	"github.com/jung-kurt/gofpdf"
)

// GenerateInvoicePDF renders an A4 invoice for the order
func GenerateInvoicePDF(order *models.Order) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 18)
	pdf.Cell(100, 10, AppName)
	pdf.Ln(12)

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(100, 10, "INVOICE")
	pdf.Ln(12)
	pdf.SetFont("Arial", "", 12)
	pdf.Cell(70, 8, "Order: "+order.Reference)
	pdf.Cell(70, 8, "Date: "+order.CreatedAt.Format("2006-01-02 15:04"))
	pdf.Ln(8)
	pdf.Cell(70, 8, "Payment: "+strings.ToUpper(order.PaymentMethod)+" ("+order.PaymentStatus+")")
	pdf.Cell(70, 8, "Status: "+order.Status)
	pdf.Ln(12)

	pdf.SetFont("Arial", "B", 13)
	pdf.Cell(100, 8, "Ship To:")
	pdf.Ln(7)
	pdf.SetFont("Arial", "", 12)
	pdf.Cell(100, 7, order.ShipName+"  ("+order.ShipPhone+")")
	pdf.Ln(6)
	pdf.Cell(100, 7, order.ShipAddressLine1)
	pdf.Ln(6)
	if order.ShipAddressLine2 != "" {
		pdf.Cell(100, 7, order.ShipAddressLine2)
		pdf.Ln(6)
	}
	pdf.Cell(100, 7, order.ShipCity+", "+order.ShipState+" - "+order.ShipPincode)
	pdf.Ln(12)

	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(80, 8, "Item", "1", 0, "C", false, 0, "")
	pdf.CellFormat(20, 8, "Size", "1", 0, "C", false, 0, "")
	pdf.CellFormat(20, 8, "Qty", "1", 0, "C", false, 0, "")
	pdf.CellFormat(30, 8, "Price", "1", 0, "C", false, 0, "")
	pdf.CellFormat(30, 8, "Total", "1", 0, "C", false, 0, "")
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 12)
	for _, item := range order.OrderItems {
		pdf.CellFormat(80, 8, Truncate(item.Name, 38), "1", 0, "L", false, 0, "")
		pdf.CellFormat(20, 8, item.Size, "1", 0, "C", false, 0, "")
		pdf.CellFormat(20, 8, strconv.Itoa(item.Quantity), "1", 0, "C", false, 0, "")
		pdf.CellFormat(30, 8, FormatMoney(item.Price), "1", 0, "R", false, 0, "")
		pdf.CellFormat(30, 8, FormatMoney(item.Total), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}

	pdf.Ln(4)
	summary := [][2]string{
		{"Subtotal:", FormatMoney(order.Subtotal)},
		{"Shipping:", FormatMoney(order.Shipping)},
		{"Total (INR):", FormatMoney(order.Total)},
	}
	for i, row := range summary {
		style := ""
		if i == len(summary)-1 {
			style = "B"
		}
		pdf.SetFont("Arial", style, 12)
		pdf.CellFormat(150, 8, row[0], "", 0, "R", false, 0, "")
		pdf.CellFormat(30, 8, row[1], "", 1, "R", false, 0, "")
	}

	pdf.Ln(10)
	pdf.SetFont("Arial", "I", 11)
	pdf.Cell(0, 10, "Thank you for shopping with "+AppName+"!")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
