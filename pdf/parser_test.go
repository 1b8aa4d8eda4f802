package pdf_test

import (
	"bytes"
	"context"
	"fmt"
	"testing"

	"github.com/fwojciec/findmystore"
	"github.com/fwojciec/findmystore/pdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildPDF writes a single-page PDF showing each line with Tj operators.
func buildPDF(title string, lines ...string) []byte {
	var content bytes.Buffer
	content.WriteString("BT /F1 12 Tf 72 720 Td\n")
	for i, line := range lines {
		if i > 0 {
			content.WriteString("0 -16 Td\n")
		}
		fmt.Fprintf(&content, "(%s) Tj\n", line)
	}
	content.WriteString("ET")

	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 4 0 R >> >> /Contents 5 0 R >>",
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>",
		fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", content.Len(), content.String()),
		fmt.Sprintf("<< /Title (%s) >>", title),
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}
	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objects)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R /Info 6 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)
	return buf.Bytes()
}

func TestParser_Parse(t *testing.T) {
	t.Parallel()

	t.Run("extracts page text and title", func(t *testing.T) {
		t.Parallel()

		data := buildPDF("Weekly Deals", "Rice 10kg 489", "XYZ Shampoo 150")

		result, err := pdf.NewParser().Parse(context.Background(), data)
		require.NoError(t, err)

		assert.Equal(t, "Weekly Deals", result.Title)
		assert.Contains(t, result.Text, "Rice 10kg 489")
		assert.Contains(t, result.Text, "XYZ Shampoo 150")
	})

	t.Run("rejects empty input", func(t *testing.T) {
		t.Parallel()

		_, err := pdf.NewParser().Parse(context.Background(), nil)
		assert.Equal(t, findmystore.EINVALID, findmystore.ErrorCode(err))
	})

	t.Run("rejects non-PDF bytes", func(t *testing.T) {
		t.Parallel()

		_, err := pdf.NewParser().Parse(context.Background(), []byte("Rice 10kg 489, not a PDF"))
		assert.Equal(t, findmystore.EINVALID, findmystore.ErrorCode(err))
	})
}
