package models

import (
	"encoding/xml"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
)

// Document is the parsed shape of an iscc-nbs dataset file. Amount and
// range boundaries are kept as the original attribute strings; the
// resolver parses them when it builds its index, and the datastore can
// round-trip a document through postgres without reformatting.
type Document struct {
	XMLName xml.Name    `xml:"system" json:"-"`
	Names   []ColorName `xml:"names>name" json:"names"`
	Hues    []HueAmount `xml:"hues>amount" json:"hues"`
	Chromas []Amount    `xml:"chromas>amount" json:"chromas"`
	Values  []Amount    `xml:"values>amount" json:"values"`
	Ranges  []HueRange  `xml:"ranges>hue-range" json:"ranges"`
}

// HueAmount is a chart-boundary hue token, e.g. "1R" or "6YR".
type HueAmount struct {
	ID string `xml:"id,attr" json:"id"`
}

// Amount is a reference point on the value or chroma axis. The lists
// are sorted ascending and end with the unbounded "INF" sentinel.
type Amount struct {
	ID   string `xml:"id,attr,omitempty" json:"id,omitempty"`
	Text string `xml:",chardata" json:"amount"`
}

// HueRange is one chart: a span of the hue circle holding the cell
// ranges printed on that chart.
type HueRange struct {
	Begin  string      `xml:"begin,attr" json:"begin"`
	End    string      `xml:"end,attr" json:"end"`
	Ranges []CellRange `xml:"range" json:"ranges"`
}

// CellRange is a rectangle in value x chroma space tagged with the
// color name it belongs to. End boundaries may be "INF".
type CellRange struct {
	Color       int    `xml:"color,attr" json:"color"`
	ValueBegin  string `xml:"value-begin,attr" json:"valueBegin"`
	ValueEnd    string `xml:"value-end,attr" json:"valueEnd"`
	ChromaBegin string `xml:"chroma-begin,attr" json:"chromaBegin"`
	ChromaEnd   string `xml:"chroma-end,attr" json:"chromaEnd"`
}

// ParseAmount parses an axis boundary attribute, mapping the "INF"
// sentinel to +Inf.
func ParseAmount(s string) (float64, error) {
	if s == "INF" {
		return math.Inf(1), nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %v", s, err)
	}
	return f, nil
}

// ParseDocument decodes a dataset document from r.
func ParseDocument(r io.Reader) (Document, error) {
	var doc Document
	decoder := xml.NewDecoder(r)
	if err := decoder.Decode(&doc); err != nil {
		return Document{}, fmt.Errorf("error parsing dataset xml: %v", err)
	}
	return doc, nil
}

// LoadDocumentFile reads and decodes a dataset document from disk.
func LoadDocumentFile(path string) (Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return Document{}, fmt.Errorf("error opening dataset file: %v", err)
	}
	defer f.Close()
	return ParseDocument(f)
}
