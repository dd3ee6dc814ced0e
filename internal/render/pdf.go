package render

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"

	"github.com/Lllllllleong/commercialoffer/internal/media"
	"github.com/Lllllllleong/commercialoffer/internal/offer"
	"github.com/jung-kurt/gofpdf"
)

// PDFOptions configures the printable document.
// Without FontPath the core Helvetica font is used, which cannot show Cyrillic glyphs.
type PDFOptions struct {
	FontPath string
}

const (
	pageWidth   = 190.0
	descWidth   = 70.0
	tierWidth   = 40.0
	rowHeight   = 7.0
	photoWidth  = 60.0
	photoGutter = 5.0
)

type pdfWriter struct {
	pdf    *gofpdf.Fpdf
	family string
	tr     func(string) string
}

// WritePDF renders the printable offer to w.
func WritePDF(w io.Writer, v View, opts PDFOptions) error {
	doc := v.Document
	pw := &pdfWriter{pdf: gofpdf.New("P", "mm", "A4", ""), family: "Helvetica"}
	pw.tr = pw.pdf.UnicodeTranslatorFromDescriptor("")
	if opts.FontPath != "" {
		pw.pdf.AddUTF8Font("offer", "", opts.FontPath)
		pw.pdf.AddUTF8Font("offer", "B", opts.FontPath)
		pw.family = "offer"
		pw.tr = func(s string) string { return s }
	}
	pw.pdf.SetTitle("Коммерческое предложение "+doc.OfferNumber, true)
	pw.pdf.SetAutoPageBreak(true, 15)
	pw.pdf.AddPage()

	pw.header(v)
	pw.paragraph(doc.Introduction)
	pw.photos(doc.Photos)
	pw.pricing(v)
	if v.ShowDiscounts {
		pw.discounts(v.DiscountRows)
	}

	pw.text("Примечания и условия:", 10, "B")
	pw.paragraph(doc.Notes)
	pw.footer(v)

	if err := pw.pdf.Output(w); err != nil {
		return fmt.Errorf("failed to write PDF: %w", err)
	}
	return nil
}

func (pw *pdfWriter) text(s string, size float64, style string) {
	pw.pdf.SetFont(pw.family, style, size)
	pw.pdf.MultiCell(pageWidth, 5, pw.tr(s), "", "L", false)
}

func (pw *pdfWriter) paragraph(s string) {
	pw.text(s, 10, "")
	pw.pdf.Ln(4)
}

func (pw *pdfWriter) header(v View) {
	doc := v.Document
	top := pw.pdf.GetY()
	title := v.HeaderTitle
	if title == "" {
		if h, ok := pw.image("logo", doc.Logo, 10, top, 50); ok {
			pw.pdf.SetY(top + h + 2)
		} else {
			title = doc.From.Name
		}
	}
	if title != "" {
		pw.text(title, 16, "B")
	}

	pw.text(fmt.Sprintf("Номер: %s", doc.OfferNumber), 10, "")
	pw.text(fmt.Sprintf("Дата: %s", doc.Date), 10, "")
	pw.text(fmt.Sprintf("Действительно до: %s", doc.ValidUntil), 10, "")
	pw.pdf.Ln(3)

	pw.text("Кому:", 10, "B")
	pw.text(doc.To.Name, 10, "")
	pw.text(doc.To.Company, 10, "")
	for _, line := range v.RecipientLines {
		pw.text(line, 10, "")
	}
	pw.pdf.Ln(5)
}

// image places a data URL image at (x, y) with width w and returns the rendered height.
// Formats gofpdf cannot embed are skipped.
func (pw *pdfWriter) image(name, dataURL string, x, y, w float64) (float64, bool) {
	mimeType, data, err := media.ParseDataURL(dataURL)
	if err != nil {
		slog.Warn("Skipping image that is not a data URL.", "image", name, "error", err)
		return 0, false
	}
	imageType := map[string]string{"image/png": "PNG", "image/jpeg": "JPG", "image/gif": "GIF"}[mimeType]
	if imageType == "" {
		slog.Warn("Skipping image format the PDF writer cannot embed.", "image", name, "mimeType", mimeType)
		return 0, false
	}
	imgOpts := gofpdf.ImageOptions{ImageType: imageType}
	info := pw.pdf.RegisterImageOptionsReader(name, imgOpts, bytes.NewReader(data))
	if !pw.pdf.Ok() || info == nil || info.Width() == 0 {
		slog.Warn("Skipping image the PDF writer could not decode.", "image", name, "error", pw.pdf.Error())
		pw.pdf.ClearError()
		return 0, false
	}
	h := w * info.Height() / info.Width()
	pw.pdf.ImageOptions(name, x, y, w, h, false, imgOpts, 0, "")
	return h, true
}

func (pw *pdfWriter) photos(photos []string) {
	if len(photos) == 0 {
		return
	}
	top := pw.pdf.GetY()
	var tallest float64
	for i, p := range photos {
		x := 10 + float64(i)*(photoWidth+photoGutter)
		if h, ok := pw.image(fmt.Sprintf("photo-%d", i), p, x, top, photoWidth); ok {
			tallest = max(tallest, h)
		}
	}
	pw.pdf.SetY(top + tallest + 5)
}

func (pw *pdfWriter) row(cells [4]string, style string) {
	pw.pdf.SetFont(pw.family, style, 9)
	pw.pdf.CellFormat(descWidth, rowHeight, pw.tr(cells[0]), "1", 0, "L", false, 0, "")
	pw.pdf.CellFormat(tierWidth, rowHeight, pw.tr(cells[1]), "1", 0, "R", false, 0, "")
	pw.pdf.CellFormat(tierWidth, rowHeight, pw.tr(cells[2]), "1", 0, "R", false, 0, "")
	pw.pdf.CellFormat(tierWidth, rowHeight, pw.tr(cells[3]), "1", 1, "R", false, 0, "")
}

func (pw *pdfWriter) pricing(v View) {
	pw.row([4]string{"Стоимость проекта", "Стандарт", "Оптимальный", "Премиум"}, "B")
	pw.row([4]string{"Итого:", v.FormattedTotals.Standard, v.FormattedTotals.Optimal, v.FormattedTotals.Premium}, "B")
	for _, item := range v.Document.Items {
		pw.row([4]string{
			item.Description,
			offer.FormatCurrency(item.Prices.Standard),
			offer.FormatCurrency(item.Prices.Optimal),
			offer.FormatCurrency(item.Prices.Premium),
		}, "")
	}
	pw.pdf.Ln(5)
}

func (pw *pdfWriter) discounts(rows []offer.DiscountRow) {
	pw.row([4]string{"Скидки", "Стандарт", "Оптимальный", "Премиум"}, "B")
	for _, r := range rows {
		pw.row([4]string{fmt.Sprintf("%d. %s", r.Number, r.Label), r.Standard, r.Optimal, r.Premium}, "")
	}
	pw.pdf.Ln(5)
}

func (pw *pdfWriter) footer(v View) {
	f := v.Document.Footer
	pw.pdf.Ln(3)
	pw.paragraph(f.Mission)
	pw.text("Контакты компании:", 10, "B")
	for _, line := range []string{f.Contact.Phone1, f.Contact.Phone2, f.Contact.Email, f.Contact.Website, f.Contact.Address} {
		if line != "" {
			pw.text(line, 9, "")
		}
	}
	pw.pdf.Ln(2)
	pw.pdf.SetFont(pw.family, "", 9)
	if f.Telegram != "" {
		pw.pdf.CellFormat(pageWidth/2, rowHeight, pw.tr("Написать в Telegram"), "", 0, "L", false, 0, f.Telegram)
	}
	if f.WhatsApp != "" {
		pw.pdf.CellFormat(pageWidth/2, rowHeight, pw.tr("Написать в WhatsApp"), "", 1, "L", false, 0, f.WhatsApp)
	}
}
