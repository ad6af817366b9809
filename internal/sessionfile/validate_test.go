package sessionfile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_MinimalDocument(t *testing.T) {
	errs := Validate([]byte("version: 1\n"))
	assert.Empty(t, errs)
}

func TestValidate_FullDocument(t *testing.T) {
	doc := []byte(`
version: 1
sources:
  - display_name: lap1.csv
    signals: [temp, rpm]
tabs:
  - title: main
    rows: 1
    cols: 2
    subplots:
      - cell: 0
        mode: regular
        signals:
          - {source: lap1.csv, name: temp}
        x_override: {source: lap1.csv, name: rpm}
      - cell: 1
        mode: tuple
        pairs:
          - x: {source: lap1.csv, name: temp}
            y: {source: lap1.csv, name: rpm}
attributes:
  - signal: {source: lap1.csv, name: temp}
    scale: 2.5
    hidden: true
links:
  - name: laps
    members: [lap1.csv, lap2.csv]
    color: "#336699"
`)
	errs := Validate(doc)
	assert.Empty(t, errs)
}

func TestValidate_WrongVersion(t *testing.T) {
	errs := Validate([]byte("version: 2\n"))
	require.NotEmpty(t, errs)
	assert.Equal(t, ErrSchemaViolation, errs[0].Code)
}

func TestValidate_BadMode(t *testing.T) {
	doc := []byte(`
version: 1
tabs:
  - rows: 1
    cols: 1
    subplots:
      - cell: 0
        mode: sideways
`)
	errs := Validate(doc)
	require.NotEmpty(t, errs)
	assert.Equal(t, ErrSchemaViolation, errs[0].Code)
}

func TestValidate_UnknownField(t *testing.T) {
	errs := Validate([]byte("version: 1\nfavorite_color: blue\n"))
	require.NotEmpty(t, errs)
	assert.Equal(t, ErrSchemaViolation, errs[0].Code)
}

func TestValidate_ZeroScale(t *testing.T) {
	doc := []byte(`
version: 1
attributes:
  - signal: {name: delta}
    scale: 0
`)
	errs := Validate(doc)
	require.NotEmpty(t, errs)
	assert.Equal(t, ErrSchemaViolation, errs[0].Code)
}

func TestValidate_MalformedYAML(t *testing.T) {
	errs := Validate([]byte("version: [1\n"))
	require.NotEmpty(t, errs)
	assert.Equal(t, ErrMalformedYAML, errs[0].Code)
}

func TestDecode_RejectsInvalid(t *testing.T) {
	_, err := Decode([]byte("version: 99\n"))
	assert.Error(t, err)
}
