package services

import (
	"bytes"
	"encoding/base64"
	"errors"
	"path"
	"regexp"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	applog "pflegebox/internal/log"
	"pflegebox/internal/metrics"
)

const DefaultDocumentName = "Bestellung_final.pdf"

// Flatten outcomes, as counted by the documents_flattened metric.
const (
	FlattenPassthrough = "passthrough"
	FlattenFlattened   = "flattened"
	FlattenFormDropped = "form_dropped"
	FlattenUnchanged   = "unchanged"
	FlattenError       = "error"
)

var ErrNoDocument = errors.New("missing pdfBase64")

// DocumentError is a failure to load or rewrite a submitted document.
type DocumentError struct {
	Op  string
	Err error
}

func (e *DocumentError) Error() string { return "document " + e.Op + ": " + e.Err.Error() }
func (e *DocumentError) Unwrap() error { return e.Err }

// DocumentService flattens filled-in PDF forms: every field is locked
// read-only and the interactive form is dropped, leaving only the rendered
// appearances on the pages.
type DocumentService struct {
	conf *model.Configuration
}

func NewDocumentService() *DocumentService {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return &DocumentService{conf: conf}
}

// config hands out a private copy; pdfcpu commands write into it.
func (s *DocumentService) config() *model.Configuration {
	c := *s.conf
	return &c
}

// Decode reads a base64 document, with or without a data: URL prefix.
func (s *DocumentService) Decode(b64 string) ([]byte, error) {
	b64 = strings.TrimSpace(b64)
	if i := strings.Index(b64, ";base64,"); i >= 0 && strings.HasPrefix(b64, "data:") {
		b64 = b64[i+len(";base64,"):]
	}
	if b64 == "" {
		return nil, ErrNoDocument
	}
	raw, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return nil, &DocumentError{Op: "decode", Err: err}
	}
	if len(raw) == 0 {
		return nil, ErrNoDocument
	}
	return raw, nil
}

// Flatten returns the flattened document and how it was produced (one of
// the Flatten* outcomes). A document without form fields is returned as is.
// Only unreadable input is an error: when the fields cannot be locked the
// form is still dropped, and when that fails too the document is returned
// as it came.
func (s *DocumentService) Flatten(in []byte) ([]byte, string, error) {
	ctx, err := api.ReadContext(bytes.NewReader(in), s.config())
	if err != nil {
		metrics.DocumentsFlattened.WithLabelValues(FlattenError).Inc()
		return nil, FlattenError, &DocumentError{Op: "load", Err: err}
	}
	n, err := formFieldCount(ctx)
	if err != nil {
		metrics.DocumentsFlattened.WithLabelValues(FlattenError).Inc()
		return nil, FlattenError, &DocumentError{Op: "load", Err: err}
	}
	if n == 0 {
		metrics.DocumentsFlattened.WithLabelValues(FlattenPassthrough).Inc()
		return in, FlattenPassthrough, nil
	}

	// a readable document always yields a result from here on
	src, result := in, FlattenFormDropped
	var locked bytes.Buffer
	if err := api.LockFormFields(bytes.NewReader(in), &locked, nil, s.config()); err != nil {
		applog.Error(nil, "document.lock.fail", err, map[string]any{"fields": n})
	} else {
		src, result = locked.Bytes(), FlattenFlattened
	}
	out, err := s.dropForm(src)
	if err != nil {
		applog.Error(nil, "document.flatten.fail", err, map[string]any{"fields": n})
		out, result = src, FlattenUnchanged
	}
	metrics.DocumentsFlattened.WithLabelValues(result).Inc()
	return out, result, nil
}

func (s *DocumentService) dropForm(in []byte) ([]byte, error) {
	ctx, err := api.ReadContext(bytes.NewReader(in), s.config())
	if err != nil {
		return nil, err
	}
	root, err := ctx.Catalog()
	if err != nil {
		return nil, err
	}
	delete(root, "AcroForm")
	var out bytes.Buffer
	if err := api.WriteContext(ctx, &out); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

func formFieldCount(ctx *model.Context) (int, error) {
	root, err := ctx.Catalog()
	if err != nil {
		return 0, err
	}
	obj, ok := root.Find("AcroForm")
	if !ok || obj == nil {
		return 0, nil
	}
	form, err := ctx.DereferenceDict(obj)
	if err != nil || form == nil {
		return 0, err
	}
	fields, ok := form.Find("Fields")
	if !ok || fields == nil {
		return 0, nil
	}
	arr, err := ctx.DereferenceArray(fields)
	if err != nil {
		return 0, err
	}
	return len(arr), nil
}

var reUnsafeName = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// AttachmentName reduces a client supplied file name to a safe .pdf name.
func AttachmentName(name string) string {
	name = path.Base(strings.ReplaceAll(strings.TrimSpace(name), `\`, "/"))
	name = strings.Trim(reUnsafeName.ReplaceAllString(name, "_"), "._")
	if name == "" {
		return DefaultDocumentName
	}
	if !strings.HasSuffix(strings.ToLower(name), ".pdf") {
		name += ".pdf"
	}
	return name
}
