package bmp

import (
	"bufio"
	"fmt"
	"io"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/gogpu/boxblur/pixbuf"
)

// Dump writes a human-readable listing of the file and info headers to w.
// Numbers are grouped by thousands.
func (img *Image) Dump(w io.Writer) error {
	p := message.NewPrinter(language.English)
	bw := bufio.NewWriter(w)

	f, info := &img.File, &img.Info
	p.Fprintf(bw, "File header\n")
	p.Fprintf(bw, "  signature:        %s\n", string(f.Signature[:]))
	p.Fprintf(bw, "  file size:        %d bytes\n", f.Size)
	p.Fprintf(bw, "  reserved:         %d, %d\n", f.Reserved1, f.Reserved2)
	p.Fprintf(bw, "  pixel offset:     %d\n", f.Offset)
	p.Fprintf(bw, "Info header\n")
	p.Fprintf(bw, "  header size:      %d bytes\n", info.HeaderSize)
	p.Fprintf(bw, "  width:            %d\n", info.Width)
	p.Fprintf(bw, "  height:           %d\n", info.Height)
	p.Fprintf(bw, "  planes:           %d\n", info.Planes)
	p.Fprintf(bw, "  bits per pixel:   %d\n", info.BitCount)
	p.Fprintf(bw, "  compression:      %d\n", info.Compression)
	p.Fprintf(bw, "  image size:       %d bytes\n", info.ImageSize)
	p.Fprintf(bw, "  resolution:       %d x %d pixels/m\n", info.XPelsPerMeter, info.YPelsPerMeter)
	p.Fprintf(bw, "  colors used:      %d\n", info.ColorsUsed)
	p.Fprintf(bw, "  colors important: %d\n", info.ColorsImportant)
	if len(img.Extra) > 0 {
		p.Fprintf(bw, "  extra header:     %d bytes\n", len(img.Extra))
	}

	return bw.Flush()
}

// DumpPixels writes buf to w as blue-green-red hex triplets, tab separated,
// one image row per line starting from the top.
func DumpPixels(w io.Writer, buf *pixbuf.Buffer) error {
	bw := bufio.NewWriter(w)
	for y := range buf.Height() {
		for _, px := range buf.Row(y) {
			fmt.Fprintf(bw, "%.2x%.2x%.2x\t", px.B, px.G, px.R)
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}
