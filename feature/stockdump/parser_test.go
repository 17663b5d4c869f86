package stockdump

import (
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validLine = "7891234567890 000123456 CHOCOLATE AO LEITE 90G 00012990 00001000 00000850 00042"

func TestParse_ValidLine(t *testing.T) {
	records, report, err := Parse(strings.NewReader(validLine + "\n"))
	require.NoError(t, err)
	require.Len(t, records, 1)

	rec := records[0]
	assert.Equal(t, "7891234567890", rec.GTIN)
	assert.Equal(t, "123456", rec.InternalCode)
	assert.Equal(t, "CHOCOLATE AO LEITE 90G", rec.Description)
	assert.Equal(t, 129.90, rec.Price)
	assert.Equal(t, 10.0, rec.Quantity)
	assert.Equal(t, 8.50, rec.Cost)
	assert.Equal(t, "42", rec.Section)

	assert.Equal(t, Report{Lines: 1, Records: 1, Malformed: 0}, report)
}

func TestParse_MalformedLinesAreSkippedNotFatal(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 95; i++ {
		fmt.Fprintf(&b, "789123456%04d 000000001 PRODUTO %d 00000100 00000200 00000050 00001\n", i, i)
	}
	for i := 0; i < 5; i++ {
		fmt.Fprintf(&b, "linha invalida %d\n", i)
	}

	records, report, err := Parse(strings.NewReader(b.String()))
	require.NoError(t, err)
	assert.Len(t, records, 95)
	assert.Equal(t, 100, report.Lines)
	assert.Equal(t, 95, report.Records)
	assert.Equal(t, 5, report.Malformed)
}

func TestParse_EmptyResultFromGarbage(t *testing.T) {
	_, report, err := Parse(strings.NewReader("garbage\nmore garbage\n"))
	assert.ErrorIs(t, err, ErrEmptyResult)
	assert.Equal(t, 2, report.Lines)
	assert.Equal(t, 2, report.Malformed)
}

func TestParse_TriviallyEmptyInput(t *testing.T) {
	records, report, err := Parse(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, records)
	assert.Zero(t, report.Lines)
}

func TestParse_ZeroRunTakesPriorityOverDoubleSpace(t *testing.T) {
	// The description contains an internal double space; the zero padding of
	// the price field must still be what terminates it.
	line := "7891234567890 000000042 CAFE  TORRADO 500G 00004550 00000300 00002100 00007"

	records, _, err := Parse(strings.NewReader(line))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "CAFE  TORRADO 500G", records[0].Description)
	assert.Equal(t, 45.50, records[0].Price)
}

func TestParse_DoubleSpaceTermination(t *testing.T) {
	// Price without a three-zero run, description separated by a wide gap.
	line := "7891234567890 000000042 ARROZ BRANCO TIPO 1   12345678 00000100 00002100 00007"

	records, _, err := Parse(strings.NewReader(line))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "ARROZ BRANCO TIPO 1", records[0].Description)
	assert.Equal(t, 123456.78, records[0].Price)
}

func TestParse_LeadingZeroStripping(t *testing.T) {
	line := "0001234567890 000000001 PRODUTO ZERADO 00000001 00000000 00000001 00000"

	records, _, err := Parse(strings.NewReader(line))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "1234567890", records[0].GTIN)
	assert.Equal(t, "1", records[0].InternalCode)
	assert.Equal(t, "0", records[0].Section)
}

// Parsing the canonicalized representation of a parsed record yields the same
// record: canonicalization is idempotent.
func TestParse_CanonicalizationIsIdempotent(t *testing.T) {
	records, _, err := Parse(strings.NewReader(validLine))
	require.NoError(t, err)
	require.Len(t, records, 1)
	first := records[0]

	pad := func(s string, width int) string {
		return strings.Repeat("0", width-len(s)) + s
	}
	canonical := fmt.Sprintf("%s %s %s %08d %08d %08d %s",
		pad(first.GTIN, 13), first.InternalCode, first.Description,
		int64(math.Round(first.Price*100)), int64(math.Round(first.Quantity*100)),
		int64(math.Round(first.Cost*100)), pad(first.Section, 5))

	again, _, err := Parse(strings.NewReader(canonical))
	require.NoError(t, err)
	require.Len(t, again, 1)
	assert.Equal(t, first, again[0])
}
