// Package labels renders box labels: a QR payload, a PNG preview and ZPL for 4x2 inch
// thermal printers at 203 dpi.
package labels

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"strconv"
	"strings"

	"outward-wms/wms/consignment"

	"github.com/skip2/go-qrcode"
)

// Label geometry in dots (4in x 2in at 203 dpi).
const (
	Width   = 812
	Height  = 406
	qrSize  = 380
	margin  = 13
	border  = 4
	stripeW = 24
)

// LabelPayload is the compact JSON encoded in the QR code.
type LabelPayload struct {
	Consignment string  `json:"c"`
	BoxID       string  `json:"b"`
	BoxNumber   int     `json:"n"`
	Article     string  `json:"a"`
	Lot         string  `json:"lot,omitempty"`
	NetWeight   float64 `json:"nw"`
	GrossWeight float64 `json:"gw"`
}

// Payload builds the QR payload of a box. The article batch number stands in for
// a missing lot number.
func Payload(box consignment.Box, article consignment.Article, consignmentID string) LabelPayload {
	lot := box.LotNumber
	if lot == "" {
		lot = article.BatchNumber
	}
	return LabelPayload{
		Consignment: consignmentID,
		BoxID:       box.ID,
		BoxNumber:   box.BoxNumber,
		Article:     box.Article,
		Lot:         lot,
		NetWeight:   box.NetWeight,
		GrossWeight: box.GrossWeight,
	}
}

func (p LabelPayload) String() string {
	raw, _ := json.Marshal(p)
	return string(raw)
}

// PNG draws the label preview: the QR code on the left, a stripe per box number
// on the right edge and a frame.
func PNG(p LabelPayload) ([]byte, error) {
	qr, err := qrcode.New(p.String(), qrcode.Medium)
	if err != nil {
		return nil, fmt.Errorf("qr code: %w", err)
	}
	qr.DisableBorder = true

	canvas := image.NewRGBA(image.Rect(0, 0, Width, Height))
	draw.Draw(canvas, canvas.Bounds(), image.White, image.Point{}, draw.Src)

	code := qr.Image(qrSize)
	offset := image.Pt(margin, (Height-qrSize)/2)
	draw.Draw(canvas, code.Bounds().Add(offset), code, image.Point{}, draw.Src)

	black := image.NewUniform(color.Black)
	frame := []image.Rectangle{
		image.Rect(0, 0, Width, border),
		image.Rect(0, Height-border, Width, Height),
		image.Rect(0, 0, border, Height),
		image.Rect(Width-border, 0, Width, Height),
		image.Rect(Height, border, Height+border, Height-border),
	}
	for _, r := range frame {
		draw.Draw(canvas, r, black, image.Point{}, draw.Src)
	}

	// one stripe per box number, wrapping after as many as fit the height
	slots := (Height - 2*margin) / (stripeW / 2)
	n := p.BoxNumber % slots
	if n == 0 && p.BoxNumber > 0 {
		n = slots
	}
	for i := 0; i < n; i++ {
		y := margin + i*(stripeW/2)
		r := image.Rect(Width-margin-stripeW, y, Width-margin, y+stripeW/4)
		draw.Draw(canvas, r, black, image.Point{}, draw.Src)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, canvas); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ZPL renders one ^XA...^XZ block per box. Boxes whose article is not in articles
// still print, without a batch fallback for the lot.
func ZPL(boxes []consignment.Box, articles []consignment.Article, consignmentID string) string {
	byLabel := make(map[string]consignment.Article, len(articles))
	for _, a := range articles {
		if _, ok := byLabel[a.Label()]; !ok {
			byLabel[a.Label()] = a
		}
	}

	var b strings.Builder
	for _, box := range boxes {
		p := Payload(box, byLabel[box.Article], consignmentID)
		writeZPL(&b, p)
	}
	return b.String()
}

func writeZPL(b *strings.Builder, p LabelPayload) {
	const textX = Height + 20

	b.WriteString("^XA\n")
	b.WriteString("^CI28\n")
	fmt.Fprintf(b, "^PW%d\n", Width)
	fmt.Fprintf(b, "^LL%d\n", Height)
	fmt.Fprintf(b, "^FO%d,%d^BQN,2,7^FDQA,%s^FS\n", margin, margin, fieldData(p.String()))
	fmt.Fprintf(b, "^FO%d,30^A0N,34,34^FD%s^FS\n", textX, fieldData(p.Consignment))
	fmt.Fprintf(b, "^FO%d,76^A0N,30,30^FDBox %d^FS\n", textX, p.BoxNumber)
	fmt.Fprintf(b, "^FO%d,118^A0N,28,28^FB%d,2,0,L^FD%s^FS\n", textX, Width-textX-margin, fieldData(p.Article))
	fmt.Fprintf(b, "^FO%d,196^A0N,26,26^FDLot: %s^FS\n", textX, fieldData(p.Lot))
	fmt.Fprintf(b, "^FO%d,236^A0N,26,26^FDNet: %s g^FS\n", textX, weight(p.NetWeight))
	fmt.Fprintf(b, "^FO%d,276^A0N,26,26^FDGross: %s g^FS\n", textX, weight(p.GrossWeight))
	fmt.Fprintf(b, "^FO%d,336^A0N,22,22^FD%s^FS\n", textX, fieldData(p.BoxID))
	b.WriteString("^XZ\n")
}

// fieldData keeps ZPL control characters out of ^FD data.
func fieldData(s string) string {
	return strings.NewReplacer("^", " ", "~", " ", "\n", " ", "\r", " ").Replace(s)
}

func weight(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
