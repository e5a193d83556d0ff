package report

import (
	"encoding/xml"
	"io"
)

// Writer streams a DFXML document: header first, then one fileobject per
// recovered artifact, closed by Close. File objects are flushed as they
// are written, so a report survives an interrupted scan.
type Writer struct {
	w   io.Writer
	enc *xml.Encoder
}

func NewWriter(w io.Writer) *Writer {
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	return &Writer{w: w, enc: enc}
}

func (w *Writer) WriteHeader(hdr Header) error {
	if _, err := w.w.Write([]byte(xml.Header)); err != nil {
		return err
	}

	start := xml.StartElement{
		Name: xml.Name{Local: "dfxml"},
		Attr: []xml.Attr{
			{Name: xml.Name{Local: "xmloutputversion"}, Value: XMLOutputVersion},
		},
	}
	if err := w.enc.EncodeToken(start); err != nil {
		return err
	}

	if err := w.enc.EncodeElement(hdr.Metadata, xml.StartElement{Name: xml.Name{Local: "metadata"}}); err != nil {
		return err
	}
	if err := w.enc.EncodeElement(hdr.Creator, xml.StartElement{Name: xml.Name{Local: "creator"}}); err != nil {
		return err
	}
	if err := w.enc.EncodeElement(hdr.Source, xml.StartElement{Name: xml.Name{Local: "source"}}); err != nil {
		return err
	}
	return w.enc.Flush()
}

func (w *Writer) WriteFileObject(obj FileObject) error {
	if err := w.enc.Encode(obj); err != nil {
		return err
	}
	return w.enc.Flush()
}

// Close writes the closing dfxml tag.
func (w *Writer) Close() error {
	if err := w.enc.EncodeToken(xml.EndElement{Name: xml.Name{Local: "dfxml"}}); err != nil {
		return err
	}
	return w.enc.Flush()
}
