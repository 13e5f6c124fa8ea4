package export

import (
	"bytes"
	"image"
	"image/jpeg"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestXLSX(t *testing.T) {
	data, err := XLSX(Sheet{
		Name:    "Profiles",
		Headers: []string{"Name", "Budget"},
		Rows: [][]string{
			{"Asha", "₹5,00,000"},
			{"Ravi", ""},
		},
	})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Profiles")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Name", "Budget"}, rows[0])
	assert.Equal(t, []string{"Asha", "₹5,00,000"}, rows[1])
	assert.Equal(t, "Ravi", rows[2][0])
}

func TestPDF(t *testing.T) {
	var photo bytes.Buffer
	require.NoError(t, jpeg.Encode(&photo, image.NewRGBA(image.Rect(0, 0, 20, 30)), nil))

	data, err := PDF(Document{
		Title: "Asha Sharma",
		Fields: []Field{
			{Label: "Religion", Value: "Hindu"},
			{Label: "Budget", Value: "₹5,00,000"},
			{Label: "Gotra", Value: ""},
		},
		Photo: photo.Bytes(),
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
}

func TestPDFIgnoresBrokenPhoto(t *testing.T) {
	data, err := PDF(Document{Title: "X", Photo: []byte("nope")})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
}
