package resolver

import (
	"errors"
	"math"

	"github.com/color-names/api/models"
)

// ErrNoRegion reports a centroid request for a color that exists in
// the name tree but owns no cell ranges anywhere in the dataset.
var ErrNoRegion = errors.New("color has no defined region")

// Centroid computes the volume-weighted centroid of a color's region
// in cylindrical Munsell space, aggregated over the color and its
// descendants so the coarser grouping names have centroids too.
// Unbounded outer cells are capped at chroma 16 and value 10 for the
// weighting.
func (r *Resolver) Centroid(colorID int) (models.Munsell, error) {
	node, ok := r.names[colorID]
	if !ok {
		return models.Munsell{}, &NotFoundError{ColorID: colorID}
	}

	ids := make(map[int]bool)
	node.Walk(0, func(_ int, n *models.ColorName) error {
		ids[n.ID] = true
		return nil
	})

	var acc centroidAccumulator
	for _, span := range r.spans {
		for _, c := range span.cells {
			if ids[c.colorID] {
				acc.addCell(span, c)
			}
		}
	}
	if acc.volume == 0 {
		return models.Munsell{}, ErrNoRegion
	}
	return acc.centroid(), nil
}

type centroidAccumulator struct {
	value  float64
	chroma float64
	hueX   float64
	hueY   float64
	volume float64
}

func (a *centroidAccumulator) addCell(span hueSpan, c cell) {
	beginDeg := span.begin.Degrees()
	endDeg := span.end.Degrees()
	chromaEnd := math.Min(c.chromaEnd, 16.0)
	valueEnd := math.Min(c.valueEnd, 10.0)

	hueDelta := degreeDiff(beginDeg, endDeg)
	areaOuter := chromaEnd * chromaEnd * (hueDelta / 360.0)
	areaInner := c.chromaBegin * c.chromaBegin * (hueDelta / 360.0)
	volume := (areaOuter - areaInner) * (valueEnd - c.valueBegin)

	centerDeg := degreeAverage(beginDeg, endDeg)
	a.value += (c.valueBegin + valueEnd) / 2.0 * volume
	a.chroma += (c.chromaBegin + chromaEnd) / 2.0 * volume
	a.hueX += math.Cos(radians(centerDeg)) * volume
	a.hueY += math.Sin(radians(centerDeg)) * volume
	a.volume += volume
}

func (a *centroidAccumulator) centroid() models.Munsell {
	degrees := math.Atan2(a.hueY/a.volume, a.hueX/a.volume) * 180.0 / math.Pi
	return models.Munsell{
		Hue:    models.HueFromDegrees(degrees),
		Value:  a.value / a.volume,
		Chroma: a.chroma / a.volume,
	}
}

// degreeAverage is the circular mean of two angles in degrees.
func degreeAverage(f1, f2 float64) float64 {
	cavg := (math.Cos(radians(f1)) + math.Cos(radians(f2))) / 2.0
	savg := (math.Sin(radians(f1)) + math.Sin(radians(f2))) / 2.0
	return math.Atan2(savg, cavg) * 180.0 / math.Pi
}

// degreeDiff is the absolute circular distance between two angles in
// degrees, always taking the shorter way around.
func degreeDiff(f1, f2 float64) float64 {
	c := math.Cos(radians(f1) - radians(f2))
	s := math.Sin(radians(f1) - radians(f2))
	return math.Abs(math.Atan2(s, c) * 180.0 / math.Pi)
}

func radians(degrees float64) float64 {
	return degrees * math.Pi / 180.0
}
