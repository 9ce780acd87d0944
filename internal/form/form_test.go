package form

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/airbuds-price-predictor/pkg/normalize"
	"github.com/donaldgifford/airbuds-price-predictor/pkg/schema"
	domain "github.com/donaldgifford/airbuds-price-predictor/pkg/types"
)

func TestNew_DefaultsPrefilled(t *testing.T) {
	t.Parallel()

	f := New(schema.Features(), nil)
	rec, err := f.Record()
	require.NoError(t, err)

	require.Len(t, rec, len(schema.Names()))
	assert.Equal(t, "Unknown", rec[domain.FieldNoiseCancellation])
	assert.Equal(t, "Type-C", rec[domain.FieldChargingInterface])
	assert.Equal(t, "Android & iOS", rec[domain.FieldCompatibility])
	assert.Equal(t, 10.0, rec[domain.FieldDriverSize])
	assert.Equal(t, 1.5, rec[domain.FieldChargingTime])
	assert.Equal(t, 300.0, rec[domain.FieldCaseCapacity])
}

func TestNew_SeedOverridesDefaults(t *testing.T) {
	t.Parallel()

	f := New(schema.Features(), domain.RawRecord{
		domain.FieldNoiseCancellation: "yes",
		domain.FieldMic:               "Sometimes",
		domain.FieldPlaytime:          "6.5",
		domain.FieldDriverSize:        13.0,
		domain.FieldBudsCapacity:      "forty",
	})
	rec, err := f.Record()
	require.NoError(t, err)

	assert.Equal(t, "Yes", rec[domain.FieldNoiseCancellation])
	assert.Equal(t, "Yes", rec[domain.FieldMic], "unknown option falls back to default")
	assert.Equal(t, 6.5, rec[domain.FieldPlaytime])
	assert.Equal(t, 13.0, rec[domain.FieldDriverSize])
	assert.Equal(t, 40.0, rec[domain.FieldBudsCapacity], "unparseable seed falls back to default")
}

func TestRecord_NormalizesCleanly(t *testing.T) {
	t.Parallel()

	rec, err := New(schema.Features(), nil).Record()
	require.NoError(t, err)

	norm, report := normalize.Record(rec)
	assert.Empty(t, report.Degraded)
	assert.Empty(t, report.Ignored)
	require.NoError(t, schema.Validate(norm))
}

func TestRecord_RejectsNonNumeric(t *testing.T) {
	t.Parallel()

	f := New(schema.Features(), nil)
	*f.values[domain.FieldPlaytime] = "lots"

	_, err := f.Record()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `Playtime: "lots" is not a number`)
}

func TestValidateNumber(t *testing.T) {
	t.Parallel()

	spec, ok := schema.Lookup(string(domain.FieldBluetoothVersion))
	require.True(t, ok)
	validate := ValidateNumber(spec)

	tests := []struct {
		name    string
		input   string
		wantErr string
	}{
		{name: "lower bound", input: "3"},
		{name: "upper bound", input: "6"},
		{name: "decimal with spaces", input: " 5.3 "},
		{name: "below range", input: "2.9", wantErr: "must be between 3 and 6"},
		{name: "above range", input: "6.1", wantErr: "must be between 3 and 6"},
		{name: "not a number", input: "5.0v", wantErr: "enter a number"},
		{name: "empty", input: "", wantErr: "enter a number"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := validate(tt.input)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.wantErr, err.Error())
		})
	}
}

func TestParseAssignments(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		pairs   []string
		want    domain.RawRecord
		wantErr string
	}{
		{
			name:  "labels resolve to column names",
			pairs: []string{"Driver Size=12mm", "Battery - Playtime= 5 Hrs", "mic=yes=no", "Colour=black"},
			want: domain.RawRecord{
				domain.FieldDriverSize: "12mm",
				domain.FieldPlaytime:   " 5 Hrs",
				domain.FieldMic:        "yes=no",
				"Colour":               "black",
			},
		},
		{
			name:  "empty value is kept",
			pairs: []string{"Noise Cancellation="},
			want:  domain.RawRecord{domain.FieldNoiseCancellation: ""},
		},
		{
			name:    "missing separator",
			pairs:   []string{"Driver Size"},
			wantErr: `invalid field assignment "Driver Size"`,
		},
		{
			name:    "missing name",
			pairs:   []string{"=12mm"},
			wantErr: `invalid field assignment "=12mm"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := ParseAssignments(tt.pairs)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
