package handlers_test

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"strings"
	"testing"

	"pflegebox/internal/http/handlers"
)

func writePDF(objs ...string) []byte {
	var b bytes.Buffer
	b.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objs))
	for i, o := range objs {
		offsets[i] = b.Len()
		fmt.Fprintf(&b, "%d 0 obj\n%s\nendobj\n", i+1, o)
	}
	xref := b.Len()
	fmt.Fprintf(&b, "xref\n0 %d\n0000000000 65535 f \n", len(objs)+1)
	for _, off := range offsets {
		fmt.Fprintf(&b, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&b, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objs)+1, xref)
	return b.Bytes()
}

func onePagePDF() []byte {
	return writePDF(
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 200 200] >>",
	)
}

// filledFormPDF has one text field; da is its default appearance, possibly empty.
func filledFormPDF(da string) []byte {
	return writePDF(
		"<< /Type /Catalog /Pages 2 0 R /AcroForm 5 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 200 200] /Annots [4 0 R] /Resources << /Font << /Helv 6 0 R >> >> >>",
		"<< /Type /Annot /Subtype /Widget /FT /Tx /T (name) /V (Anna Muller) /Rect [20 150 180 170] /P 3 0 R /F 4 "+da+" >>",
		"<< /Fields [4 0 R] "+da+" /DR << /Font << /Helv 6 0 R >> >> >>",
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>",
	)
}

func TestFinalizeMethodNotAllowed(t *testing.T) {
	env := newTestEnv(t, handlers.AppOptions{})
	for _, m := range []string{"GET", "PUT", "DELETE"} {
		resp := env.do(t, m, "/api/finalize", nil)
		if resp.StatusCode != http.StatusMethodNotAllowed {
			t.Fatalf("%s: expected 405, got %d", m, resp.StatusCode)
		}
		if body := decodeJSON(t, resp); body["error"] != "Method Not Allowed" {
			t.Fatalf("%s: unexpected body %v", m, body)
		}
	}
}

func TestFinalizeMissingDocument(t *testing.T) {
	env := newTestEnv(t, handlers.AppOptions{})
	resp := env.do(t, "POST", "/api/finalize", map[string]string{"filename": "x.pdf"})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestFinalizeMalformedDocument(t *testing.T) {
	env := newTestEnv(t, handlers.AppOptions{})
	junk := base64.StdEncoding.EncodeToString([]byte("definitely not a pdf"))
	resp := env.do(t, "POST", "/api/finalize", map[string]string{"pdfBase64": junk})
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.StatusCode)
	}
}

func TestFinalizeReturnsAttachment(t *testing.T) {
	env := newTestEnv(t, handlers.AppOptions{})
	in := onePagePDF()
	resp := env.do(t, "POST", "/api/finalize", map[string]string{"pdfBase64": base64.StdEncoding.EncodeToString(in)})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/pdf" {
		t.Fatalf("unexpected content type %q", ct)
	}
	if cd := resp.Header.Get("Content-Disposition"); !strings.Contains(cd, "Bestellung_final.pdf") {
		t.Fatalf("unexpected disposition %q", cd)
	}
	out, _ := io.ReadAll(resp.Body)
	if !bytes.Equal(in, out) {
		t.Fatal("a document without form fields must pass through unchanged")
	}
}

func TestFinalizeFlattensFilledForm(t *testing.T) {
	env := newTestEnv(t, handlers.AppOptions{})
	for _, da := range []string{"/DA (/Helv 10 Tf 0 g)", ""} {
		in := filledFormPDF(da)
		var resp *http.Response
		entries := captureLogs(t, func() {
			resp = env.do(t, "POST", "/api/finalize", map[string]string{
				"pdfBase64": base64.StdEncoding.EncodeToString(in),
				"filename":  "Antrag.pdf",
			})
		})
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("da=%q: expected 200, got %d", da, resp.StatusCode)
		}
		out, _ := io.ReadAll(resp.Body)
		if !bytes.HasPrefix(out, []byte("%PDF")) || bytes.Equal(in, out) {
			t.Fatalf("da=%q: expected a rewritten document", da)
		}
		e, ok := hasAction(entries, "document.flatten")
		if !ok {
			t.Fatalf("da=%q: missing document.flatten entry", da)
		}
		if da != "" && e.Fields["result"] != "flattened" {
			t.Fatalf("unexpected result %v", e.Fields["result"])
		}
		if _, failed := hasAction(entries, "document.lock.fail"); failed != (da == "") {
			t.Fatalf("da=%q: lock failure logged=%v", da, failed)
		}
	}
}
