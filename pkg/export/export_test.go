package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteCSV(t *testing.T) {
	data := Dataset{Headers: []string{"reference", "email"}}
	data.Append("ref-1", "ada@example.com")
	data.Append("ref-2", "a,b@example.com")

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, data))
	assert.Equal(t, "reference,email\nref-1,ada@example.com\nref-2,\"a,b@example.com\"\n", buf.String())
}

func TestWriteCSVRequiresHeaders(t *testing.T) {
	assert.Error(t, WriteCSV(&bytes.Buffer{}, Dataset{}))
}

func TestWritePDF(t *testing.T) {
	data := Dataset{Title: "Registrations", Headers: []string{"reference", "status"}}
	data.Append("ref-1", "completed")

	var buf bytes.Buffer
	require.NoError(t, WritePDF(&buf, data))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))
}

func TestWriteReceipt(t *testing.T) {
	var buf bytes.Buffer
	err := WriteReceipt(&buf, Receipt{
		Brand:      "Fixlab Academy",
		Reference:  "ref-1",
		FullName:   "Ada Lovelace",
		Course:     "Data Science",
		Amount:     "150000.00",
		Currency:   "NGN",
		VerifiedAt: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))

	assert.Error(t, WriteReceipt(&buf, Receipt{}))
}
