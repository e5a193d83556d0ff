package report

import (
	"encoding/xml"
	"io"
)

// Reader streams fileobject entries out of a DFXML report one at a time,
// without holding the document in memory. The surrounding document is not
// validated.
type Reader struct {
	dec *xml.Decoder
}

func NewReader(r io.Reader) *Reader {
	return &Reader{dec: xml.NewDecoder(r)}
}

// Next returns the next fileobject in the report, or io.EOF once the
// document is exhausted. Anything in the document that is not a fileobject
// is skipped.
func (r *Reader) Next() (FileObject, error) {
	for {
		tok, err := r.dec.Token()
		if err != nil {
			return FileObject{}, err
		}
		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "fileobject" {
			continue
		}
		var obj FileObject
		err = r.dec.DecodeElement(&obj, &start)
		return obj, err
	}
}

// ReadFileObjects drains every fileobject from a report into a slice. A
// report left unclosed by an interrupted scan yields the entries written
// before the interruption.
func ReadFileObjects(r io.Reader) ([]FileObject, error) {
	rd := NewReader(r)
	var objects []FileObject
	for {
		obj, err := rd.Next()
		if err == io.EOF {
			return objects, nil
		}
		if err != nil {
			if len(objects) > 0 {
				// Interrupted scans leave the document unclosed.
				return objects, nil
			}
			return nil, err
		}
		objects = append(objects, obj)
	}
}
