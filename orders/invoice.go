package orders

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"net/http"
	"os"
	"time"

	"krumeku/utils"

	"github.com/julienschmidt/httprouter"
	"github.com/phpdave11/gofpdf"
	"github.com/skip2/go-qrcode"
	"go.mongodb.org/mongo-driver/bson"
)

func invoiceSecret() []byte {
	if s := os.Getenv("INVOICE_HMAC_SECRET"); s != "" {
		return []byte(s)
	}
	return []byte("krumeku-invoice-secret")
}

// invoiceQRPayload returns orderID|userID|timestamp|signature so a scanned
// invoice can be verified against tampering.
func invoiceQRPayload(orderID, userID string) string {
	data := fmt.Sprintf("%s|%s|%d", orderID, userID, time.Now().Unix())
	h := hmac.New(sha256.New, invoiceSecret())
	h.Write([]byte(data))
	sig := base64.StdEncoding.EncodeToString(h.Sum(nil))
	return fmt.Sprintf("%s|%s", data, sig)
}

// PrintInvoice renders a PDF invoice for one of the caller's orders.
func PrintInvoice(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	order, err := findOrder(ctx, bson.M{"orderId": ps.ByName("id"), "userId": userID})
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, ErrOrderNotFound.Error())
		return
	}

	qrPNG, err := qrcode.Encode(invoiceQRPayload(order.OrderID, userID), qrcode.Medium, 256)
	if err != nil {
		http.Error(w, "Failed to generate QR code", http.StatusInternalServerError)
		return
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(40, 10, "Krumeku Invoice")
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Order ID: %s", order.OrderID))
	pdf.Ln(6)
	pdf.Cell(0, 8, fmt.Sprintf("Date: %s", order.CreatedAt.Format("02 Jan 2006")))
	pdf.Ln(6)
	pdf.Cell(0, 8, fmt.Sprintf("Status: %s", order.OrderStatus))
	pdf.Ln(6)
	pdf.Cell(0, 8, fmt.Sprintf("Ship to: %s, %s, %s %s",
		order.ShippingAddress.Name, order.ShippingAddress.City,
		order.ShippingAddress.State, order.ShippingAddress.Pincode))
	pdf.Ln(10)

	pdf.SetFont("Arial", "B", 11)
	pdf.Cell(90, 8, "Item")
	pdf.Cell(25, 8, "Qty")
	pdf.Cell(35, 8, "Unit Price")
	pdf.Cell(35, 8, "Total")
	pdf.Ln(8)

	pdf.SetFont("Arial", "", 11)
	for _, it := range order.Items {
		label := it.ProductName
		if it.Size != "" {
			label += " (" + it.Size + ")"
		}
		pdf.Cell(90, 7, label)
		pdf.Cell(25, 7, fmt.Sprintf("%d", it.Quantity))
		pdf.Cell(35, 7, fmt.Sprintf("Rs %.2f", it.Price))
		pdf.Cell(35, 7, fmt.Sprintf("Rs %.2f", it.Price*float64(it.Quantity)))
		pdf.Ln(7)
	}

	pdf.Ln(5)
	rows := []struct {
		label string
		value float64
	}{
		{"Subtotal", order.ItemsPrice},
		{"Discount", -order.DiscountPrice},
		{"GST", order.TaxPrice},
		{"Shipping", order.ShippingPrice},
		{"Grand Total", order.TotalPrice},
	}
	for _, row := range rows {
		pdf.Cell(115, 7, "")
		pdf.Cell(35, 7, row.label)
		pdf.Cell(35, 7, fmt.Sprintf("Rs %.2f", row.value))
		pdf.Ln(7)
	}

	imageOpts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("qr", imageOpts, bytes.NewReader(qrPNG))
	pdf.ImageOptions("qr", 160, 10, 35, 35, false, imageOpts, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		http.Error(w, "Failed to generate PDF", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=invoice-"+order.OrderID+".pdf")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}
