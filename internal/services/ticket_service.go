package services

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"quickrail/internal/domain"
	"quickrail/internal/domain/models"
	"quickrail/internal/utils"

	"github.com/phpdave11/gofpdf"
	qrcode "github.com/skip2/go-qrcode"
)

// TicketService renders PDF e-tickets and receipts for completed bookings.
type TicketService struct {
	Store     QuickBookingStore
	RequestID string
	UserID    string
}

// core PDF fonts are latin-1 only, so Korean values are transliterated.
var seatWords = map[string]string{
	domain.SeatClassGeneral:      "Standard",
	domain.SeatClassSpecial:      "First class",
	domain.SeatPositionWindow:    "Window",
	domain.SeatPositionAisle:     "Aisle",
	domain.SeatDirectionForward:  "Forward",
	domain.SeatDirectionBackward: "Backward",
}

func latin(v string) string {
	if w, ok := seatWords[v]; ok {
		return w
	}
	return domain.Romanize(v)
}

func (s TicketService) loadCompleted(ctx context.Context, id string) (models.QuickBooking, error) {
	rec, err := s.Store.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return rec, err
	}
	if rec.UserID != s.UserID {
		return models.QuickBooking{}, domain.NotFoundError{Resource: "quick booking"}
	}
	if rec.BookingStatus != domain.StatusCompleted {
		return rec, domain.ConflictError{Resource: "ticket", Msg: "booking belum selesai dibayar"}
	}
	return rec, nil
}

// GenerateTicket returns the e-ticket PDF and its file name.
func (s TicketService) GenerateTicket(ctx context.Context, id string) ([]byte, string, error) {
	rec, err := s.loadCompleted(ctx, id)
	if err != nil {
		return nil, "", err
	}
	utils.LogEvent(s.RequestID, "ticket", "generate_eticket", "id="+rec.ID)
	return buildTicketPDF(rec)
}

// GenerateReceipt returns the payment receipt PDF and its file name.
func (s TicketService) GenerateReceipt(ctx context.Context, id string) ([]byte, string, error) {
	rec, err := s.loadCompleted(ctx, id)
	if err != nil {
		return nil, "", err
	}
	utils.LogEvent(s.RequestID, "ticket", "generate_receipt", "id="+rec.ID)
	return buildReceiptPDF(rec)
}

func ticketCode(rec models.QuickBooking) string {
	code := strings.ToUpper(strings.ReplaceAll(rec.ID, "-", ""))
	if len(code) > 12 {
		code = code[:12]
	}
	return "TCK-" + code
}

func seatLine(rec models.QuickBooking) string {
	if rec.CarNumber == 0 {
		return "-"
	}
	seats := safe(rec.SeatNumbers, "-")
	return fmt.Sprintf("Car %d, seat %s", rec.CarNumber, seats)
}

func buildTicketPDF(rec models.QuickBooking) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("E-Ticket", false)
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "E-TICKET "+safe(rec.TrainType, domain.DefaultTrainType))
	pdf.Ln(14)

	yStart := pdf.GetY()
	pdf.SetFont("Helvetica", "", 12)
	lines := []string{
		fmt.Sprintf("Route        : %s -> %s", safe(latin(rec.Departure), "-"), safe(latin(rec.Arrival), "-")),
		fmt.Sprintf("Departure    : %s", safe(rec.DepartureTime, "-")),
		fmt.Sprintf("Passengers   : adult %d / child %d / infant %d", rec.Adults, rec.Children, rec.Infants),
		fmt.Sprintf("Class        : %s", safe(latin(rec.SeatClass), "-")),
		fmt.Sprintf("Seat         : %s", seatLine(rec)),
		fmt.Sprintf("Preference   : %s %s", safe(latin(rec.SeatPosition), "-"), latin(rec.SeatDirection)),
		fmt.Sprintf("Ticket code  : %s", ticketCode(rec)),
	}
	for _, l := range lines {
		pdf.Cell(120, 7, l)
		pdf.Ln(7)
	}

	qrBytes, err := qrcode.Encode(rec.ID, qrcode.Medium, 256)
	if err != nil {
		return nil, "", fmt.Errorf("qr: %w", err)
	}
	pdf.RegisterImageOptionsReader("qr", gofpdf.ImageOptions{ImageType: "png"}, bytes.NewReader(qrBytes))
	pdf.ImageOptions("qr", 145, yStart, 45, 0, false, gofpdf.ImageOptions{ImageType: "png"}, 0, "")

	pdf.Ln(10)
	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(0, 6, "Show this ticket and QR code to the crew on board.", "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}
	filename := fmt.Sprintf("ETICKET_%s_%s.pdf", ticketCode(rec), safeFilenamePart(latin(rec.Departure)+"_"+latin(rec.Arrival)))
	return buf.Bytes(), filename, nil
}

func buildReceiptPDF(rec models.QuickBooking) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Receipt", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "RECEIPT")
	pdf.Ln(12)

	paid := "-"
	if rec.PaymentDate != nil {
		paid = rec.PaymentDate.In(utils.KST).Format("2006-01-02 15:04")
	}
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 7, "Receipt no : RCP-"+strings.TrimPrefix(ticketCode(rec), "TCK-"))
	pdf.Ln(7)
	pdf.Cell(0, 7, "Paid at    : "+paid)
	pdf.Ln(7)
	pdf.Cell(0, 7, "Method     : "+safe(rec.PaymentMethod, "-"))
	pdf.Ln(10)

	q, _ := QuoteFor(rec.PassengerTotal(), "")
	desc := fmt.Sprintf("%s %s -> %s (%s), %d passenger(s)",
		safe(rec.TrainType, domain.DefaultTrainType),
		safe(latin(rec.Departure), "-"), safe(latin(rec.Arrival), "-"),
		safe(rec.DepartureTime, "-"), rec.PassengerTotal(),
	)
	pdf.SetFont("Helvetica", "", 11)
	pdf.MultiCell(0, 6, desc, "", "", false)
	pdf.Ln(2)
	pdf.Cell(0, 6, "Fare       : "+formatKRW(q.Subtotal))
	pdf.Ln(6)
	pdf.Cell(0, 6, "Discount   : "+formatKRW(q.Subtotal-rec.TotalPrice))
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Total      : "+formatKRW(rec.TotalPrice))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), fmt.Sprintf("RECEIPT_%s.pdf", ticketCode(rec)), nil
}

func safe(v, fallback string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return fallback
	}
	return v
}

func safeFilenamePart(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "NA"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "_", "\\", "_", ":", "_", "*", "_", "?", "_", "\"", "_", "<", "_", ">", "_", "|", "_", "(", "_", ")", "_")
	s = replacer.Replace(s)
	if len(s) > 40 {
		s = s[:40]
	}
	return s
}

// formatKRW is FormatWon with an ASCII currency code for PDF output.
func formatKRW(v int64) string {
	return "KRW " + strings.TrimSuffix(utils.FormatWon(v), "원")
}
