package client

import (
	"bytes"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/textproto"
	"path/filepath"
	"strings"
)

// Multipart is a pre-built multipart/form-data body. Build errors are kept
// and reported when the request is dispatched.
type Multipart struct {
	buf    bytes.Buffer
	w      *multipart.Writer
	err    error
	closed bool
}

// NewMultipart starts an empty multipart body.
func NewMultipart() *Multipart {
	m := &Multipart{}
	m.w = multipart.NewWriter(&m.buf)
	return m
}

// Field adds a text field.
func (m *Multipart) Field(name, value string) *Multipart {
	if m.err != nil || m.closed {
		return m
	}
	if err := m.w.WriteField(name, value); err != nil {
		m.err = fmt.Errorf("multipart field %s: %w", name, err)
	}
	return m
}

// File adds a file part. The part content type is guessed from filename.
func (m *Multipart) File(field, filename string, r io.Reader) *Multipart {
	if m.err != nil || m.closed {
		return m
	}
	ctype := mime.TypeByExtension(strings.ToLower(filepath.Ext(filename)))
	if ctype == "" {
		ctype = "application/octet-stream"
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, field, filepath.Base(filename)))
	h.Set("Content-Type", ctype)
	part, err := m.w.CreatePart(h)
	if err != nil {
		m.err = fmt.Errorf("multipart file %s: %w", field, err)
		return m
	}
	if _, err := io.Copy(part, r); err != nil {
		m.err = fmt.Errorf("multipart file %s: %w", field, err)
	}
	return m
}

// ContentType is multipart/form-data with this body's boundary.
func (m *Multipart) ContentType() string {
	return m.w.FormDataContentType()
}

func (m *Multipart) reader() (io.Reader, error) {
	if m.err != nil {
		return nil, m.err
	}
	if !m.closed {
		if err := m.w.Close(); err != nil {
			return nil, fmt.Errorf("multipart close: %w", err)
		}
		m.closed = true
	}
	return bytes.NewReader(m.buf.Bytes()), nil
}
