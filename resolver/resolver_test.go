package resolver

import (
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/color-names/api/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadSample(t *testing.T, opts Options) *Resolver {
	t.Helper()
	doc, err := models.LoadDocumentFile("../testdata/iscc-nbs-sample.xml")
	require.NoError(t, err)
	res, err := Load(doc, opts)
	require.NoError(t, err)
	return res
}

func matchedIDs(matches []Match) []int {
	ids := make([]int, len(matches))
	for i, m := range matches {
		ids[i] = m.Color.ID
	}
	return ids
}

func matchedCharts(matches []Match) []string {
	charts := make([]string, len(matches))
	for i, m := range matches {
		charts[i] = m.Chart
	}
	return charts
}

func TestResolveInteriorSingleMatch(t *testing.T) {
	res := loadSample(t, Options{})

	matches, err := res.ResolveToken("2R", 4.5, 5.0)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, 10, matches[0].Color.ID)
	assert.Equal(t, "strong red", matches[0].Color.Name)
	assert.Equal(t, "1R-4R", matches[0].Chart)
}

func TestResolveHueBoundaryMatchesBothCharts(t *testing.T) {
	res := loadSample(t, Options{})

	// 4R is the shared boundary between the 1R-4R and 4R-6R charts;
	// both must be reported.
	matches, err := res.ResolveToken("4R", 4.5, 5.0)
	require.NoError(t, err)
	assert.Equal(t, []int{10, 10}, matchedIDs(matches))
	assert.Equal(t, []string{"1R-4R", "4R-6R"}, matchedCharts(matches))
}

func TestResolveValueBoundaryMatchesBothCells(t *testing.T) {
	res := loadSample(t, Options{})

	matches, err := res.ResolveToken("2R", 5.5, 5.0)
	require.NoError(t, err)
	assert.Equal(t, []int{10, 4}, matchedIDs(matches))
}

func TestResolveChromaBoundaryMatchesBothCells(t *testing.T) {
	res := loadSample(t, Options{})

	matches, err := res.ResolveToken("2R", 4.5, 3.0)
	require.NoError(t, err)
	assert.Equal(t, []int{13, 10}, matchedIDs(matches))
}

func TestResolveCornerMatchesEveryTouchingCell(t *testing.T) {
	res := loadSample(t, Options{})

	// A hue, value and chroma boundary all at once: four cells on each
	// of the two touching charts.
	matches, err := res.ResolveToken("4R", 5.5, 3.0)
	require.NoError(t, err)
	assert.Equal(t, []int{13, 10, 6, 4, 13, 10, 6, 4}, matchedIDs(matches))
}

func TestResolveHueWraparound(t *testing.T) {
	res := loadSample(t, Options{})

	// 1R closes the circle: it ends the 1YR-1R chart and begins the
	// 1R-4R chart.
	matches, err := res.ResolveToken("1R", 4.5, 5.0)
	require.NoError(t, err)
	assert.Equal(t, []string{"1R-4R", "1YR-1R"}, matchedCharts(matches))
}

func TestResolveOutOfGamutIsEmptyNotError(t *testing.T) {
	doc := models.Document{
		Names: []models.ColorName{{ID: 1, Name: "moderate red", Abbr: "m.R"}},
		Ranges: []models.HueRange{{
			Begin: "4R", End: "6R",
			Ranges: []models.CellRange{
				{Color: 1, ValueBegin: "2", ValueEnd: "4", ChromaBegin: "2", ChromaEnd: "4"},
			},
		}},
	}
	res, err := Load(doc, Options{})
	require.NoError(t, err)

	matches, err := res.ResolveToken("5R", 8.0, 8.0)
	require.NoError(t, err)
	assert.Empty(t, matches)

	// A hue outside the only chart is also just an empty result.
	matches, err = res.ResolveToken("5G", 3.0, 3.0)
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestResolveInvalidCoordinates(t *testing.T) {
	res := loadSample(t, Options{})

	var coordinateErr *InvalidCoordinateError

	_, err := res.ResolveToken("2R", -1.0, 5.0)
	require.Error(t, err)
	assert.True(t, errors.As(err, &coordinateErr))

	_, err = res.ResolveToken("2R", 4.5, -0.5)
	require.Error(t, err)
	assert.True(t, errors.As(err, &coordinateErr))

	_, err = res.ResolveToken("5Q", 4.5, 5.0)
	require.Error(t, err)
	assert.True(t, errors.As(err, &coordinateErr))

	_, err = res.ResolveToken("11R", 4.5, 5.0)
	require.Error(t, err)
	assert.True(t, errors.As(err, &coordinateErr))
}

// +Inf would otherwise sail through the range checks and land in every
// unbounded outer cell, so non-finite inputs are coordinate errors too.
func TestResolveNonFiniteCoordinates(t *testing.T) {
	res := loadSample(t, Options{})

	var coordinateErr *InvalidCoordinateError

	for _, bad := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		_, err := res.Resolve(models.NewHue(97.0), bad, 5.0)
		require.Error(t, err, bad)
		assert.True(t, errors.As(err, &coordinateErr), bad)

		_, err = res.Resolve(models.NewHue(97.0), 4.5, bad)
		require.Error(t, err, bad)
		assert.True(t, errors.As(err, &coordinateErr), bad)
	}
}

func TestResolveVividRedRegion(t *testing.T) {
	doc := models.Document{
		Names: []models.ColorName{{
			ID: 1, Name: "red", Abbr: "R",
			Children: []models.ColorName{{
				ID: 2, Name: "red", Abbr: "R",
				Children: []models.ColorName{{ID: 3, Name: "vivid red", Abbr: "v.R"}},
			}},
		}},
		Ranges: []models.HueRange{{
			Begin: "4R", End: "6R",
			Ranges: []models.CellRange{
				{Color: 3, ValueBegin: "3.5", ValueEnd: "5.5", ChromaBegin: "2", ChromaEnd: "7"},
			},
		}},
	}
	res, err := Load(doc, Options{})
	require.NoError(t, err)

	matches, err := res.ResolveToken("5R", 5.0, 4.0)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "vivid red", matches[0].Color.Name)
}

func TestResolveMatchesRoundTripThroughLookup(t *testing.T) {
	res := loadSample(t, Options{})

	queries := []struct {
		hue           string
		value, chroma float64
	}{
		{"2R", 4.5, 5.0},
		{"5R", 7.0, 2.0},
		{"8R", 9.0, 12.0},
		{"5Y", 2.0, 1.0},
	}
	for _, q := range queries {
		matches, err := res.ResolveToken(q.hue, q.value, q.chroma)
		require.NoError(t, err)
		for _, m := range matches {
			name, err := res.LookupById(m.Color.ID)
			require.NoError(t, err)
			assert.NotEmpty(t, name.Name)
			assert.NotEmpty(t, name.Abbr)
		}
	}
}

func TestResolveIsIdempotent(t *testing.T) {
	res := loadSample(t, Options{})

	first, err := res.ResolveToken("4R", 5.5, 3.0)
	require.NoError(t, err)
	second, err := res.ResolveToken("4R", 5.5, 3.0)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestResolveConcurrently(t *testing.T) {
	res := loadSample(t, Options{})

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				matches, err := res.ResolveToken("2R", 4.5, 5.0)
				assert.NoError(t, err)
				assert.Len(t, matches, 1)
			}
		}()
	}
	wg.Wait()
}

func TestLookupById(t *testing.T) {
	res := loadSample(t, Options{})

	name, err := res.LookupById(9)
	require.NoError(t, err)
	assert.Equal(t, "vivid red", name.Name)
	assert.Equal(t, "v.R", name.Abbr)

	var notFoundErr *NotFoundError
	_, err = res.LookupById(999)
	require.Error(t, err)
	assert.True(t, errors.As(err, &notFoundErr))
	assert.Equal(t, 999, notFoundErr.ColorID)
}

func TestAncestors(t *testing.T) {
	res := loadSample(t, Options{})

	chain, err := res.Ancestors(9)
	require.NoError(t, err)
	require.Len(t, chain, 2)
	assert.Equal(t, 7, chain[0].ID)
	assert.Equal(t, 8, chain[1].ID)
	assert.Nil(t, chain[0].Children)
	assert.Nil(t, chain[1].Children)

	chain, err = res.Ancestors(7)
	require.NoError(t, err)
	assert.Empty(t, chain)

	_, err = res.Ancestors(999)
	assert.Error(t, err)
}

func TestLoadRejectsUnknownColorID(t *testing.T) {
	doc := models.Document{
		Names: []models.ColorName{{ID: 1, Name: "red", Abbr: "R"}},
		Ranges: []models.HueRange{{
			Begin: "4R", End: "6R",
			Ranges: []models.CellRange{
				{Color: 42, ValueBegin: "0", ValueEnd: "INF", ChromaBegin: "0", ChromaEnd: "INF"},
			},
		}},
	}

	var integrityErr *DatasetIntegrityError
	_, err := Load(doc, Options{})
	require.Error(t, err)
	assert.True(t, errors.As(err, &integrityErr))
	assert.Contains(t, integrityErr.Reason, "unknown color id 42")
}

func TestLoadRejectsBadHueToken(t *testing.T) {
	doc := models.Document{
		Names:  []models.ColorName{{ID: 1, Name: "red", Abbr: "R"}},
		Ranges: []models.HueRange{{Begin: "4Q", End: "6R"}},
	}

	var integrityErr *DatasetIntegrityError
	_, err := Load(doc, Options{})
	require.Error(t, err)
	assert.True(t, errors.As(err, &integrityErr))
}

func TestLoadRejectsDegenerateHueRange(t *testing.T) {
	doc := models.Document{
		Names:  []models.ColorName{{ID: 1, Name: "red", Abbr: "R"}},
		Ranges: []models.HueRange{{Begin: "4R", End: "4R"}},
	}

	var integrityErr *DatasetIntegrityError
	_, err := Load(doc, Options{})
	require.Error(t, err)
	assert.True(t, errors.As(err, &integrityErr))
	assert.Contains(t, integrityErr.Reason, "degenerate")
}

func TestLoadRejectsDuplicateColorID(t *testing.T) {
	doc := models.Document{
		Names: []models.ColorName{
			{ID: 1, Name: "red", Abbr: "R"},
			{ID: 1, Name: "pink", Abbr: "Pk"},
		},
		Ranges: []models.HueRange{{
			Begin: "4R", End: "6R",
			Ranges: []models.CellRange{
				{Color: 1, ValueBegin: "0", ValueEnd: "INF", ChromaBegin: "0", ChromaEnd: "INF"},
			},
		}},
	}

	var integrityErr *DatasetIntegrityError
	_, err := Load(doc, Options{})
	require.Error(t, err)
	assert.True(t, errors.As(err, &integrityErr))
	assert.Contains(t, integrityErr.Reason, "conflicting color ids")
}

func TestLoadRejectsEmptyCellRange(t *testing.T) {
	doc := models.Document{
		Names: []models.ColorName{{ID: 1, Name: "red", Abbr: "R"}},
		Ranges: []models.HueRange{{
			Begin: "4R", End: "6R",
			Ranges: []models.CellRange{
				{Color: 1, ValueBegin: "4", ValueEnd: "4", ChromaBegin: "0", ChromaEnd: "INF"},
			},
		}},
	}

	var integrityErr *DatasetIntegrityError
	_, err := Load(doc, Options{})
	require.Error(t, err)
	assert.True(t, errors.As(err, &integrityErr))
}
