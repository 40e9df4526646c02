package export

import (
	"bytes"
	"context"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tipsdash/internal/chart"
	"tipsdash/internal/dataset"
)

func newBuilder(t *testing.T) *chart.Builder {
	t.Helper()
	ds, err := dataset.Load(context.Background(), dataset.EmbeddedSource{})
	require.NoError(t, err)
	b, err := chart.New(ds)
	require.NoError(t, err)
	return b
}

func decode(t *testing.T, buf *bytes.Buffer) (int, int) {
	t.Helper()
	img, err := png.Decode(buf)
	require.NoError(t, err)
	return img.Bounds().Dx(), img.Bounds().Dy()
}

func TestParseHex(t *testing.T) {
	tests := []struct {
		in      string
		want    color.RGBA
		wantErr bool
	}{
		{in: "#ff3fd8", want: color.RGBA{R: 0xff, G: 0x3f, B: 0xd8, A: 0xff}},
		{in: "4290ff", want: color.RGBA{R: 0x42, G: 0x90, B: 0xff, A: 0xff}},
		{in: "#fff", want: color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}},
		{in: "#12345", wantErr: true},
		{in: "#gg0000", wantErr: true},
		{in: "blue", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseHex(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSeriesColor_Fallback(t *testing.T) {
	assert.Equal(t, color.RGBA{R: 0x80, G: 0x80, B: 0x80, A: 0xff}, seriesColor("not-a-color"))
}

func TestScatterPNG(t *testing.T) {
	series, err := newBuilder(t).ScatterSeries(dataset.Day)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, ScatterPNG(&buf, series))

	w, h := decode(t, &buf)
	assert.Equal(t, Width, w)
	assert.Equal(t, Height, h)
}

func TestCategoricalPNG(t *testing.T) {
	b := newBuilder(t)

	for _, kind := range chart.CategoricalKinds {
		t.Run(string(kind), func(t *testing.T) {
			series, err := b.CategoricalSeries(kind, dataset.Day)
			require.NoError(t, err)

			var buf bytes.Buffer
			require.NoError(t, CategoricalPNG(&buf, kind, chart.AxisLabel(dataset.Day), series))

			w, h := decode(t, &buf)
			assert.InDelta(t, Width, w, 1)
			assert.InDelta(t, Height, h, 1)
		})
	}
}

func TestExport_Errors(t *testing.T) {
	var buf bytes.Buffer
	assert.ErrorIs(t, ScatterPNG(&buf, nil), ErrNoSeries)
	assert.ErrorIs(t, CategoricalPNG(&buf, chart.KindBar, "Sex", nil), ErrNoSeries)

	series, err := newBuilder(t).CategoricalSeries(chart.KindBar, dataset.Sex)
	require.NoError(t, err)
	assert.ErrorIs(t, CategoricalPNG(&buf, chart.KindMarkers, "Sex", series), chart.ErrUnknownKind)
}
