package resolver

import (
	"math"

	"github.com/color-names/api/models"
)

// Options controls how strictly Load validates a dataset. Referential
// integrity is always checked; the printed-chart audits are opt-in.
type Options struct {
	// StrictCoverage re-runs the audits applied to the published
	// dataset: per-level name and abbreviation uniqueness, contiguous
	// color ids, sorted axis tables, and a discretized
	// hue x chroma x value grid in which every slot is named exactly
	// once.
	StrictCoverage bool
}

// Match pairs a matched color name with the chart span it came from.
type Match struct {
	Color models.ColorName `json:"color"`
	Chart string           `json:"chart"`
}

type cell struct {
	colorID     int
	valueBegin  float64
	valueEnd    float64
	chromaBegin float64
	chromaEnd   float64
}

type hueSpan struct {
	begin models.Hue
	end   models.Hue
	label string
	cells []cell
}

// Resolver answers Munsell point-in-region queries against a loaded
// dataset. It is immutable after Load and safe for concurrent use from
// any number of goroutines without locking.
type Resolver struct {
	doc     models.Document
	names   map[int]*models.ColorName
	parents map[int]int
	spans   []hueSpan
	// buckets holds, per hue family, the indexes of the spans touching
	// that family in chart appearance order. Resolve only scans the
	// bucket of the query's own family.
	buckets [][]int
}

// Load builds a resolver from a parsed dataset document. A dataset
// that fails any check yields no resolver at all.
func Load(doc models.Document, opts Options) (*Resolver, error) {
	r := &Resolver{
		doc:     doc,
		names:   make(map[int]*models.ColorName),
		parents: make(map[int]int),
		buckets: make([][]int, len(models.HueFamilies)),
	}

	if len(r.doc.Names) == 0 {
		return nil, integrityErrorf("dataset has no color names")
	}
	if err := r.indexNames(); err != nil {
		return nil, err
	}
	if err := r.buildSpans(); err != nil {
		return nil, err
	}
	if opts.StrictCoverage {
		if err := r.validateStrict(); err != nil {
			return nil, err
		}
	}

	return r, nil
}

func (r *Resolver) indexNames() error {
	for i := range r.doc.Names {
		if err := r.indexSubtree(&r.doc.Names[i], 0); err != nil {
			return err
		}
	}
	return nil
}

func (r *Resolver) indexSubtree(node *models.ColorName, parentID int) error {
	if node.ID < 1 {
		return integrityErrorf("color id %d for %q is not positive", node.ID, node.Name)
	}
	if existing, ok := r.names[node.ID]; ok {
		return integrityErrorf("conflicting color ids for %d: %q and %q", node.ID, existing.Name, node.Name)
	}
	r.names[node.ID] = node
	r.parents[node.ID] = parentID

	for i := range node.Children {
		if err := r.indexSubtree(&node.Children[i], node.ID); err != nil {
			return err
		}
	}
	return nil
}

func (r *Resolver) buildSpans() error {
	if len(r.doc.Ranges) == 0 {
		return integrityErrorf("dataset has no hue ranges")
	}

	for _, hr := range r.doc.Ranges {
		begin, err := models.ParseHue(hr.Begin)
		if err != nil {
			return integrityErrorf("hue range begin: %v", err)
		}
		end, err := models.ParseHue(hr.End)
		if err != nil {
			return integrityErrorf("hue range end: %v", err)
		}
		if begin.Point() == end.Point() {
			return integrityErrorf("degenerate hue range %s-%s", hr.Begin, hr.End)
		}

		span := hueSpan{begin: begin, end: end, label: hr.Begin + "-" + hr.End}
		for _, cr := range hr.Ranges {
			if _, ok := r.names[cr.Color]; !ok {
				return integrityErrorf("cell range in %s references unknown color id %d", span.label, cr.Color)
			}

			c, err := parseCell(cr, span.label)
			if err != nil {
				return err
			}
			span.cells = append(span.cells, c)
		}

		r.spans = append(r.spans, span)
		index := len(r.spans) - 1
		for _, family := range span.touchedFamilies() {
			r.buckets[family] = append(r.buckets[family], index)
		}
	}
	return nil
}

func parseCell(cr models.CellRange, chart string) (cell, error) {
	c := cell{colorID: cr.Color}

	var err error
	if c.valueBegin, err = models.ParseAmount(cr.ValueBegin); err != nil {
		return cell{}, integrityErrorf("value-begin for color %d in %s: %v", cr.Color, chart, err)
	}
	if c.valueEnd, err = models.ParseAmount(cr.ValueEnd); err != nil {
		return cell{}, integrityErrorf("value-end for color %d in %s: %v", cr.Color, chart, err)
	}
	if c.chromaBegin, err = models.ParseAmount(cr.ChromaBegin); err != nil {
		return cell{}, integrityErrorf("chroma-begin for color %d in %s: %v", cr.Color, chart, err)
	}
	if c.chromaEnd, err = models.ParseAmount(cr.ChromaEnd); err != nil {
		return cell{}, integrityErrorf("chroma-end for color %d in %s: %v", cr.Color, chart, err)
	}

	if c.valueBegin < 0 || c.chromaBegin < 0 {
		return cell{}, integrityErrorf("negative boundary for color %d in %s", cr.Color, chart)
	}
	if c.valueEnd <= c.valueBegin || c.chromaEnd <= c.chromaBegin {
		return cell{}, integrityErrorf("empty cell range for color %d in %s", cr.Color, chart)
	}
	return c, nil
}

// touchedFamilies returns the hue families the span's arc intersects.
// Sampling at a 2.5-point step cannot skip a 10-point family arc, and
// both endpoints are always sampled.
func (s hueSpan) touchedFamilies() []int {
	arc := math.Mod(s.end.Point()-s.begin.Point()+100.0, 100.0)

	seen := make(map[int]bool)
	var families []int
	mark := func(f int) {
		if !seen[f] {
			seen[f] = true
			families = append(families, f)
		}
	}

	for t := 0.0; t < arc; t += 2.5 {
		mark(models.NewHue(s.begin.Point() + t).FamilyIndex())
	}
	mark(s.end.FamilyIndex())

	return families
}

// Resolve returns every color name whose defining region contains the
// query point, in chart appearance order. Containment is closed on
// both ends of every interval, so a point on a shared boundary matches
// every touching region, reproducing the "falls on a boundary, read
// both charts" rule. An empty result is a legal outcome meaning the
// point lies outside the named gamut.
func (r *Resolver) Resolve(hue models.Hue, value, chroma float64) ([]Match, error) {
	if math.IsNaN(value) || math.IsInf(value, 0) || value < 0 {
		return nil, coordinateErrorf("value %v is not a finite non-negative number", value)
	}
	if math.IsNaN(chroma) || math.IsInf(chroma, 0) || chroma < 0 {
		return nil, coordinateErrorf("chroma %v is not a finite non-negative number", chroma)
	}

	point := hue.Point()
	var matches []Match
	for _, index := range r.buckets[hue.FamilyIndex()] {
		span := r.spans[index]
		if !hueContains(span.begin.Point(), span.end.Point(), point) {
			continue
		}
		for _, c := range span.cells {
			if c.valueBegin <= value && value <= c.valueEnd &&
				c.chromaBegin <= chroma && chroma <= c.chromaEnd {
				matches = append(matches, Match{Color: *r.names[c.colorID], Chart: span.label})
			}
		}
	}
	return matches, nil
}

// ResolveToken is Resolve with the hue supplied as a chart token such
// as "5R" or "2.5YR".
func (r *Resolver) ResolveToken(hueToken string, value, chroma float64) ([]Match, error) {
	hue, err := models.ParseHue(hueToken)
	if err != nil {
		return nil, coordinateErrorf("%v", err)
	}
	return r.Resolve(hue, value, chroma)
}

// LookupById returns the color name node with the given id.
func (r *Resolver) LookupById(colorID int) (models.ColorName, error) {
	node, ok := r.names[colorID]
	if !ok {
		return models.ColorName{}, &NotFoundError{ColorID: colorID}
	}
	return *node, nil
}

// Ancestors returns the chain of coarser names above colorID,
// outermost first. The returned copies carry no children.
func (r *Resolver) Ancestors(colorID int) ([]models.ColorName, error) {
	if _, ok := r.names[colorID]; !ok {
		return nil, &NotFoundError{ColorID: colorID}
	}

	var chain []models.ColorName
	for id := r.parents[colorID]; id != 0; id = r.parents[id] {
		node := *r.names[id]
		node.Children = nil
		chain = append([]models.ColorName{node}, chain...)
	}
	return chain, nil
}

// Names returns the root nodes of the name tree.
func (r *Resolver) Names() []models.ColorName {
	return r.doc.Names
}

// Document returns the dataset the resolver was loaded from.
func (r *Resolver) Document() models.Document {
	return r.doc
}

// hueContains tests containment on the cyclic hue circle. Both ends
// are deliberately inclusive; the interval may wrap past 100.
func hueContains(begin, end, point float64) bool {
	if begin < end {
		return begin <= point && point <= end
	}
	return point >= begin || point <= end
}
