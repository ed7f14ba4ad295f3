// Package filetype decides whether a picked file may be uploaded.
package filetype

import (
	"mime"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

const (
	CSV  = "text/csv"
	XLS  = "application/vnd.ms-excel"
	XLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	octetStream = "application/octet-stream"
)

// Accept is the value for an <input type="file"> accept attribute.
const Accept = ".csv,.xls,.xlsx," + CSV + "," + XLS + "," + XLSX

var byExt = map[string]string{
	".csv":  CSV,
	".xls":  XLS,
	".xlsx": XLSX,
}

// Allowed reports whether ct, ignoring parameters, is one of the three
// spreadsheet types.
func Allowed(ct string) bool {
	switch mediaType(ct) {
	case CSV, XLS, XLSX:
		return true
	}
	return false
}

// Resolve returns the content type to upload with and whether it is allowed.
// A declared type wins. Only when nothing useful was declared is the type
// sniffed from data. The file extension is consulted only when the sniff
// found nothing more specific than plain text or raw bytes.
func Resolve(name, declared string, data []byte) (string, bool) {
	if mt := mediaType(declared); mt != "" && mt != octetStream {
		return mt, Allowed(mt)
	}

	detected := mimetype.Detect(data)
	for m := detected; m != nil; m = m.Parent() {
		if Allowed(m.String()) {
			return mediaType(m.String()), true
		}
	}
	if !inconclusive(detected) {
		return mediaType(detected.String()), false
	}
	if ct, ok := byExt[strings.ToLower(filepath.Ext(name))]; ok {
		return ct, true
	}
	return mediaType(detected.String()), false
}

func inconclusive(m *mimetype.MIME) bool {
	return m.Is("text/plain") || m.Is(octetStream)
}

func mediaType(ct string) string {
	ct = strings.TrimSpace(ct)
	if ct == "" {
		return ""
	}
	mt, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return strings.ToLower(ct)
	}
	return mt
}
