package resolver

import (
	"math"

	"github.com/color-names/api/models"
)

func (r *Resolver) validateStrict() error {
	if err := r.validateNameLevels(); err != nil {
		return err
	}
	return r.validateGrid()
}

// validateNameLevels checks that names and abbreviations are unique
// within their tree level and that color ids run contiguously from 1.
// A level-1 grouping may legitimately share its display string with a
// level-2 child, so uniqueness is per level, not global.
func (r *Resolver) validateNameLevels() error {
	type levelMaps struct {
		names map[string]int
		abbrs map[string]int
	}
	levels := make(map[int]*levelMaps)
	maxID := 0

	for i := range r.doc.Names {
		err := r.doc.Names[i].Walk(0, func(depth int, node *models.ColorName) error {
			lm := levels[depth]
			if lm == nil {
				lm = &levelMaps{names: make(map[string]int), abbrs: make(map[string]int)}
				levels[depth] = lm
			}
			if other, ok := lm.names[node.Name]; ok {
				return integrityErrorf("duplicate name %q used for both id %d and %d", node.Name, other, node.ID)
			}
			if other, ok := lm.abbrs[node.Abbr]; ok {
				return integrityErrorf("duplicate abbr %q used for both id %d and %d", node.Abbr, other, node.ID)
			}
			lm.names[node.Name] = node.ID
			lm.abbrs[node.Abbr] = node.ID
			if node.ID > maxID {
				maxID = node.ID
			}
			return nil
		})
		if err != nil {
			return err
		}
	}

	for id := 1; id <= maxID; id++ {
		if _, ok := r.names[id]; !ok {
			return integrityErrorf("missing color id %d in 1..%d", id, maxID)
		}
	}
	return nil
}

// validateGrid rebuilds the discretized lookup table the printed
// charts define: one slot per (hue boundary, chroma band, value band)
// combination, with hue wrapping past the end of the table. Every slot
// must be claimed by exactly one cell range.
func (r *Resolver) validateGrid() error {
	if len(r.doc.Hues) == 0 || len(r.doc.Chromas) < 2 || len(r.doc.Values) < 2 {
		return integrityErrorf("strict validation requires hue, chroma and value tables")
	}

	huePos := make(map[string]int, len(r.doc.Hues))
	for i, h := range r.doc.Hues {
		huePos[h.ID] = i
	}
	chromaPos, err := amountPositions("chromas", r.doc.Chromas)
	if err != nil {
		return err
	}
	valuePos, err := amountPositions("values", r.doc.Values)
	if err != nil {
		return err
	}

	// The trailing INF sentinel closes the last band on each linear
	// axis, so the band counts drop it.
	nh := len(r.doc.Hues)
	nc := len(r.doc.Chromas) - 1
	nv := len(r.doc.Values) - 1
	table := make([]int, nh*nc*nv)
	slot := func(h, c, v int) int { return (h*nc+c)*nv + v }

	for _, hr := range r.doc.Ranges {
		hueBegin, ok := huePos[hr.Begin]
		if !ok {
			return integrityErrorf("hue range begin %q is not on the hue table", hr.Begin)
		}
		hueEnd, ok := huePos[hr.End]
		if !ok {
			return integrityErrorf("hue range end %q is not on the hue table", hr.End)
		}
		// Hues wrap around; walk begin..end on the extended index and
		// reduce modulo the table length.
		if hueEnd < hueBegin {
			hueEnd += nh
		}

		for _, cr := range hr.Ranges {
			chromaBegin, ok := chromaPos[cr.ChromaBegin]
			if !ok {
				return integrityErrorf("chroma-begin %q of color %d is not on the chroma table", cr.ChromaBegin, cr.Color)
			}
			chromaEnd, ok := chromaPos[cr.ChromaEnd]
			if !ok {
				return integrityErrorf("chroma-end %q of color %d is not on the chroma table", cr.ChromaEnd, cr.Color)
			}
			valueBegin, ok := valuePos[cr.ValueBegin]
			if !ok {
				return integrityErrorf("value-begin %q of color %d is not on the value table", cr.ValueBegin, cr.Color)
			}
			valueEnd, ok := valuePos[cr.ValueEnd]
			if !ok {
				return integrityErrorf("value-end %q of color %d is not on the value table", cr.ValueEnd, cr.Color)
			}

			for h := hueBegin; h < hueEnd; h++ {
				for c := chromaBegin; c < chromaEnd; c++ {
					for v := valueBegin; v < valueEnd; v++ {
						index := slot(h%nh, c, v)
						if table[index] != 0 {
							return integrityErrorf("color %d placed over %d at h=%s c=%s v=%s",
								cr.Color, table[index], r.doc.Hues[h%nh].ID, r.doc.Chromas[c].Text, r.doc.Values[v].Text)
						}
						table[index] = cr.Color
					}
				}
			}
		}
	}

	for h := 0; h < nh; h++ {
		for c := 0; c < nc; c++ {
			for v := 0; v < nv; v++ {
				if table[slot(h, c, v)] == 0 {
					return integrityErrorf("no color placed at h=%s c=%s v=%s",
						r.doc.Hues[h].ID, r.doc.Chromas[c].Text, r.doc.Values[v].Text)
				}
			}
		}
	}
	return nil
}

// amountPositions maps each axis boundary string to its table index,
// rejecting tables that are not strictly ascending.
func amountPositions(axis string, amounts []models.Amount) (map[string]int, error) {
	pos := make(map[string]int, len(amounts))
	prev := math.Inf(-1)
	for i, a := range amounts {
		f, err := models.ParseAmount(a.Text)
		if err != nil {
			return nil, integrityErrorf("%s table: %v", axis, err)
		}
		if f <= prev {
			return nil, integrityErrorf("%s table is not in sorted order", axis)
		}
		prev = f
		pos[a.Text] = i
	}
	return pos, nil
}
