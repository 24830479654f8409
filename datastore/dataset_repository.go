package datastore

import (
	"database/sql"
	"fmt"

	"github.com/color-names/api/models"
	_ "github.com/lib/pq"
)

const (
	axisHues    = "hues"
	axisChromas = "chromas"
	axisValues  = "values"
)

type DatasetRepository interface {
	Seed(doc models.Document) error
	LoadDocument() (models.Document, error)
}

type DatasetDatabase struct {
	database *sql.DB
}

func NewDatasetDatabase(db *sql.DB) (DatasetDatabase, error) {
	var datasetDB DatasetDatabase
	datasetDB.database = db
	return datasetDB, nil
}

// Seed replaces the stored dataset with doc in a single transaction.
// Boundary attributes are stored as their original strings, so a
// document round-trips through the database unchanged.
func (ddb DatasetDatabase) Seed(doc models.Document) error {
	tx, err := ddb.database.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin seed transaction: %v", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"cell_ranges", "hue_ranges", "axis_amounts", "color_names"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("failed to clear %s: %v", table, err)
		}
	}

	for position := range doc.Names {
		if err := seedName(tx, &doc.Names[position], sql.NullInt64{}, 1, position); err != nil {
			return err
		}
	}

	if err := seedAxis(tx, axisHues, hueAmounts(doc.Hues)); err != nil {
		return err
	}
	if err := seedAxis(tx, axisChromas, doc.Chromas); err != nil {
		return err
	}
	if err := seedAxis(tx, axisValues, doc.Values); err != nil {
		return err
	}

	for position, hr := range doc.Ranges {
		var hueRangeID int
		err := tx.QueryRow(`
			INSERT INTO hue_ranges (begin_hue, end_hue, position)
			VALUES ($1, $2, $3)
			RETURNING id`,
			hr.Begin, hr.End, position,
		).Scan(&hueRangeID)
		if err != nil {
			return fmt.Errorf("failed to insert hue range %s-%s: %v", hr.Begin, hr.End, err)
		}

		for cellPosition, cr := range hr.Ranges {
			_, err := tx.Exec(`
				INSERT INTO cell_ranges (hue_range_id, color_id, value_begin, value_end, chroma_begin, chroma_end, position)
				VALUES ($1, $2, $3, $4, $5, $6, $7)`,
				hueRangeID, cr.Color, cr.ValueBegin, cr.ValueEnd, cr.ChromaBegin, cr.ChromaEnd, cellPosition,
			)
			if err != nil {
				return fmt.Errorf("failed to insert cell range for color %d: %v", cr.Color, err)
			}
		}
	}

	return tx.Commit()
}

func seedName(tx *sql.Tx, node *models.ColorName, parentID sql.NullInt64, level, position int) error {
	_, err := tx.Exec(`
		INSERT INTO color_names (color_id, name, abbr, parent_id, level, position)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		node.ID, node.Name, node.Abbr, parentID, level, position,
	)
	if err != nil {
		return fmt.Errorf("failed to insert color name %d: %v", node.ID, err)
	}

	childParent := sql.NullInt64{Int64: int64(node.ID), Valid: true}
	for childPosition := range node.Children {
		if err := seedName(tx, &node.Children[childPosition], childParent, level+1, childPosition); err != nil {
			return err
		}
	}
	return nil
}

func seedAxis(tx *sql.Tx, axis string, amounts []models.Amount) error {
	for position, amount := range amounts {
		amountID := sql.NullString{String: amount.ID, Valid: amount.ID != ""}
		_, err := tx.Exec(`
			INSERT INTO axis_amounts (axis, position, amount_id, amount)
			VALUES ($1, $2, $3, $4)`,
			axis, position, amountID, amount.Text,
		)
		if err != nil {
			return fmt.Errorf("failed to insert %s amount %d: %v", axis, position, err)
		}
	}
	return nil
}

// hueAmounts widens the hue table to the shared amount shape. Hue
// boundaries carry only an id token and no numeric text.
func hueAmounts(hues []models.HueAmount) []models.Amount {
	amounts := make([]models.Amount, len(hues))
	for i, h := range hues {
		amounts[i] = models.Amount{ID: h.ID}
	}
	return amounts
}

// LoadDocument reconstructs the dataset document from the database,
// preserving the original element order via the position columns.
func (ddb DatasetDatabase) LoadDocument() (models.Document, error) {
	var doc models.Document

	names, err := ddb.loadNames()
	if err != nil {
		return models.Document{}, err
	}
	doc.Names = names

	hues, err := ddb.loadAxis(axisHues)
	if err != nil {
		return models.Document{}, err
	}
	for _, amount := range hues {
		doc.Hues = append(doc.Hues, models.HueAmount{ID: amount.ID})
	}

	if doc.Chromas, err = ddb.loadAxis(axisChromas); err != nil {
		return models.Document{}, err
	}
	if doc.Values, err = ddb.loadAxis(axisValues); err != nil {
		return models.Document{}, err
	}

	if doc.Ranges, err = ddb.loadRanges(); err != nil {
		return models.Document{}, err
	}

	return doc, nil
}

type nameRow struct {
	node     models.ColorName
	parentID int
}

func (ddb DatasetDatabase) loadNames() ([]models.ColorName, error) {
	rows, err := ddb.database.Query(`
		SELECT color_id, name, abbr, parent_id
		FROM color_names
		ORDER BY level, parent_id NULLS FIRST, position`)
	if err != nil {
		return nil, fmt.Errorf("failed to load color names: %v", err)
	}
	defer rows.Close()

	// Children are grouped under their parent id; 0 keys the roots.
	children := make(map[int][]nameRow)
	ids := make(map[int]bool)
	for rows.Next() {
		var row nameRow
		var parentID sql.NullInt64
		if err := rows.Scan(&row.node.ID, &row.node.Name, &row.node.Abbr, &parentID); err != nil {
			return nil, fmt.Errorf("failed to scan color name: %v", err)
		}
		row.parentID = int(parentID.Int64)
		children[row.parentID] = append(children[row.parentID], row)
		ids[row.node.ID] = true
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// A row whose parent was deleted out from under it would otherwise
	// vanish from the rebuilt tree.
	for parentID := range children {
		if parentID != 0 && !ids[parentID] {
			return nil, fmt.Errorf("color names reference missing parent id %d", parentID)
		}
	}

	var build func(row nameRow) models.ColorName
	build = func(row nameRow) models.ColorName {
		node := row.node
		for _, child := range children[node.ID] {
			node.Children = append(node.Children, build(child))
		}
		return node
	}

	var roots []models.ColorName
	for _, row := range children[0] {
		roots = append(roots, build(row))
	}
	return roots, nil
}

func (ddb DatasetDatabase) loadAxis(axis string) ([]models.Amount, error) {
	rows, err := ddb.database.Query(`
		SELECT amount_id, amount
		FROM axis_amounts
		WHERE axis = $1
		ORDER BY position`, axis)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s table: %v", axis, err)
	}
	defer rows.Close()

	var amounts []models.Amount
	for rows.Next() {
		var amountID sql.NullString
		var amount models.Amount
		if err := rows.Scan(&amountID, &amount.Text); err != nil {
			return nil, fmt.Errorf("failed to scan %s amount: %v", axis, err)
		}
		amount.ID = amountID.String
		amounts = append(amounts, amount)
	}
	return amounts, rows.Err()
}

func (ddb DatasetDatabase) loadRanges() ([]models.HueRange, error) {
	rows, err := ddb.database.Query(`
		SELECT id, begin_hue, end_hue
		FROM hue_ranges
		ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("failed to load hue ranges: %v", err)
	}
	defer rows.Close()

	var ranges []models.HueRange
	rangeIndex := make(map[int]int)
	for rows.Next() {
		var id int
		var hr models.HueRange
		if err := rows.Scan(&id, &hr.Begin, &hr.End); err != nil {
			return nil, fmt.Errorf("failed to scan hue range: %v", err)
		}
		rangeIndex[id] = len(ranges)
		ranges = append(ranges, hr)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	cellRows, err := ddb.database.Query(`
		SELECT hue_range_id, color_id, value_begin, value_end, chroma_begin, chroma_end
		FROM cell_ranges
		ORDER BY hue_range_id, position`)
	if err != nil {
		return nil, fmt.Errorf("failed to load cell ranges: %v", err)
	}
	defer cellRows.Close()

	for cellRows.Next() {
		var hueRangeID int
		var cr models.CellRange
		if err := cellRows.Scan(&hueRangeID, &cr.Color, &cr.ValueBegin, &cr.ValueEnd, &cr.ChromaBegin, &cr.ChromaEnd); err != nil {
			return nil, fmt.Errorf("failed to scan cell range: %v", err)
		}
		index, ok := rangeIndex[hueRangeID]
		if !ok {
			return nil, fmt.Errorf("cell range references missing hue range %d", hueRangeID)
		}
		ranges[index].Ranges = append(ranges[index].Ranges, cr)
	}
	return ranges, cellRows.Err()
}
