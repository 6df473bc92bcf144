package export

import (
	"bytes"
	"fmt"
	"io"
	"math"

	"github.com/jung-kurt/gofpdf"
	"github.com/pkg/errors"
	qrcode "github.com/skip2/go-qrcode"

	"opendwg/dwg"
	"opendwg/dwg/dgeom"
	"opendwg/dwg/lbits"
)

const (
	titleBlockHeight = 28.0
	qrSize           = 24.0
	qrImageName      = "fingerprint"
	pointRadius      = 0.3
)

// plot maps model coordinates onto the drawing area of a page.
type plot struct {
	extents Extents
	scale   float64
	left    float64
	bottom  float64
}

func newPlot(extents Extents, x float64, y float64, w float64, h float64) plot {
	scale := 1.0
	if extents.Width() > 0 || extents.Height() > 0 {
		scale = math.Min(
			w/math.Max(extents.Width(), math.SmallestNonzeroFloat64),
			h/math.Max(extents.Height(), math.SmallestNonzeroFloat64),
		)
	}
	return plot{
		extents: extents,
		scale:   scale,
		left:    x + (w-extents.Width()*scale)/2,
		bottom:  y + h - (h-extents.Height()*scale)/2,
	}
}

func (p plot) point(v lbits.Vector) (float64, float64) {
	return p.left + (v.X-p.extents.Min.X)*p.scale, p.bottom - (v.Y-p.extents.Min.Y)*p.scale
}

// WritePDF plots every layer of file on one landscape page, each in its
// layer color, above a title block with the file metadata and a QR code of
// the drawing fingerprint.
func WritePDF(w io.Writer, file *dwg.File, options Options) error {
	drawn, err := Collect(file)
	if err != nil {
		return errors.Wrap(err, "export.WritePDF error")
	}
	extents := ExtentsOf(drawn)
	if !extents.Valid() {
		return errors.Wrap(ErrEmptyDrawing, "export.WritePDF error")
	}
	if options.PDFPage == "" {
		options.PDFPage = DefaultOptions().PDFPage
	}
	margin := options.PDFMarginMM

	pdf := gofpdf.New("L", "mm", options.PDFPage, "")
	pdf.SetTitle("opendwg plot", false)
	pdf.SetCreator("opendwg", false)
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(false, margin)
	pdf.AddPage()

	pageWidth, pageHeight := pdf.GetPageSize()
	areaWidth := pageWidth - 2*margin
	areaHeight := pageHeight - 2*margin - titleBlockHeight
	p := newPlot(extents, margin, margin, areaWidth, areaHeight)

	pdf.SetLineWidth(0.2)
	for _, d := range drawn {
		if !d.Layer.On || d.Layer.Frozen {
			continue
		}
		layerRGB := dgeom.ResolveColor(256, d.Layer.Color)
		for _, geometry := range d.Geometries {
			rgb := geometry.Common().Color
			if rgb == nil {
				rgb = layerRGB
			}
			if rgb == nil {
				rgb = &dgeom.RGB{}
			}
			drawPDF(pdf, p, geometry, *rgb)
		}
	}

	addTitleBlock(pdf, file, margin, pageHeight-margin-titleBlockHeight, areaWidth)

	if pdf.Err() {
		return errors.Wrap(pdf.Error(), "export.WritePDF error")
	}
	return errors.Wrap(pdf.Output(w), "export.WritePDF error")
}

func drawPDF(pdf *gofpdf.Fpdf, p plot, geometry dgeom.Geometry, rgb dgeom.RGB) {
	pdf.SetDrawColor(int(rgb.R), int(rgb.G), int(rgb.B))
	pdf.SetFillColor(int(rgb.R), int(rgb.G), int(rgb.B))
	pdf.SetTextColor(int(rgb.R), int(rgb.G), int(rgb.B))

	if label, height, _, ok := Label(geometry); ok {
		anchor, _ := Anchor(geometry)
		x, y := p.point(anchor)
		size := math.Max(height*p.scale*72/25.4, 2)
		pdf.SetFont("Helvetica", "", size)
		pdf.Text(x, y, label)
		return
	}
	if point, ok := geometry.(*dgeom.Point); ok {
		x, y := p.point(point.Position)
		pdf.Circle(x, y, pointRadius, "F")
		return
	}
	for _, path := range Outline(geometry) {
		for i := 1; i < len(path); i++ {
			x1, y1 := p.point(path[i-1])
			x2, y2 := p.point(path[i])
			pdf.Line(x1, y1, x2, y2)
		}
	}
}

func addTitleBlock(pdf *gofpdf.Fpdf, file *dwg.File, x float64, y float64, width float64) {
	metadata := file.Metadata()
	pdf.SetDrawColor(0, 0, 0)
	pdf.SetTextColor(0, 0, 0)
	pdf.Rect(x, y, width, titleBlockHeight, "D")

	lines := []string{
		fmt.Sprintf("Version %s (maintenance %d)", metadata.Version, metadata.Maintenance),
		fmt.Sprintf("Code page %d, units %d", metadata.CodePage, metadata.Units),
		fmt.Sprintf("%d layers, %d objects", len(file.Layers()), file.Index.Len()),
	}
	pdf.SetFont("Helvetica", "", 9)
	for i, line := range lines {
		pdf.Text(x+3, y+7+float64(i)*6, line)
	}

	fingerprint := file.Header.String("FINGERPRINTGUID")
	if fingerprint == "" {
		return
	}
	png, err := qrcode.Encode(fingerprint, qrcode.Medium, 256)
	if err != nil {
		return
	}
	pdf.RegisterImageOptionsReader(qrImageName, gofpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(png))
	pdf.ImageOptions(
		qrImageName, x+width-qrSize-2, y+(titleBlockHeight-qrSize)/2, qrSize, qrSize,
		false, gofpdf.ImageOptions{ImageType: "PNG"}, 0, "",
	)
	pdf.SetFont("Helvetica", "", 7)
	pdf.Text(x+width-qrSize-2-70, y+titleBlockHeight-3, fingerprint)
}
