package column

import (
	"database/sql"
	"encoding/json"
	"time"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db}
}

func (r *Repository) ListColumns() ([]Definition, error) {
	rows, err := r.db.Query(
		`SELECT id, name, type, options, width, order_index, is_custom, show_in_form
		FROM admin_column_definitions
		ORDER BY order_index ASC, created_at ASC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanDefinitions(rows)
}

func (r *Repository) ListFormColumns() ([]Definition, error) {
	rows, err := r.db.Query(
		`SELECT id, name, type, options, width, order_index, is_custom, show_in_form
		FROM admin_column_definitions
		WHERE show_in_form = TRUE
		ORDER BY order_index ASC, created_at ASC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanDefinitions(rows)
}

func (r *Repository) GetColumn(id string) (Definition, error) {
	row := r.db.QueryRow(
		`SELECT id, name, type, options, width, order_index, is_custom, show_in_form
		FROM admin_column_definitions WHERE id = $1`, id,
	)
	var col Definition
	var typ string
	var optionsJSON []byte
	if err := row.Scan(&col.ID, &col.Name, &typ, &optionsJSON, &col.Width, &col.OrderIndex, &col.IsCustom, &col.ShowInForm); err != nil {
		return Definition{}, err
	}
	col.Type = FieldType(typ)
	if err := json.Unmarshal(optionsJSON, &col.Options); err != nil {
		return Definition{}, err
	}
	return col, nil
}

// AddColumn assigns a generated id and appends the column after all
// existing ones.
func (r *Repository) AddColumn(name string, fieldType FieldType, options []Option) (Definition, error) {
	if err := Validate(name, fieldType, options); err != nil {
		return Definition{}, err
	}
	nextOrder, err := r.nextOrderIndex()
	if err != nil {
		return Definition{}, err
	}
	col := Definition{
		ID:         NewCustomID(),
		Name:       name,
		Type:       fieldType,
		Options:    options,
		Width:      DefaultWidth,
		OrderIndex: nextOrder,
		IsCustom:   true,
		ShowInForm: false,
	}
	optionsJSON, err := json.Marshal(col.Options)
	if err != nil {
		return Definition{}, err
	}
	_, err = r.db.Exec(
		`INSERT INTO admin_column_definitions (id, name, type, options, width, order_index, is_custom, show_in_form, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		col.ID, col.Name, string(col.Type), optionsJSON, col.Width, col.OrderIndex, col.IsCustom, col.ShowInForm, time.Now().UTC(),
	)
	if err != nil {
		return Definition{}, err
	}
	return col, nil
}

// EditColumn overwrites name/type/options and preserves width and
// order_index.
func (r *Repository) EditColumn(id, name string, fieldType FieldType, options []Option) error {
	if err := Validate(name, fieldType, options); err != nil {
		return err
	}
	optionsJSON, err := json.Marshal(options)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(
		`UPDATE admin_column_definitions SET name = $1, type = $2, options = $3 WHERE id = $4`,
		name, string(fieldType), optionsJSON, id,
	)
	return err
}

// DeleteColumn removes the definition only. Row bag entries stored
// under the id are left in place until PruneOrphanedValues is run.
func (r *Repository) DeleteColumn(id string) error {
	_, err := r.db.Exec(`DELETE FROM admin_column_definitions WHERE id = $1`, id)
	return err
}

func (r *Repository) SetColumnWidth(id string, width int) error {
	_, err := r.db.Exec(`UPDATE admin_column_definitions SET width = $1 WHERE id = $2`, width, id)
	return err
}

func (r *Repository) SetColumnOrder(id string, orderIndex int) error {
	_, err := r.db.Exec(`UPDATE admin_column_definitions SET order_index = $1 WHERE id = $2`, orderIndex, id)
	return err
}

func (r *Repository) SetShowInForm(id string, showInForm bool) error {
	_, err := r.db.Exec(`UPDATE admin_column_definitions SET show_in_form = $1 WHERE id = $2`, showInForm, id)
	return err
}

// PruneOrphanedValues strips bag keys whose column definition no longer
// exists. Never called automatically, column deletion keeps orphans.
func (r *Repository) PruneOrphanedValues() (int64, error) {
	res, err := r.db.Exec(
		`UPDATE application a SET custom_admin_fields = jsonb_set(
			custom_admin_fields, '{values}',
			COALESCE((
				SELECT jsonb_object_agg(kv.key, kv.value)
				FROM jsonb_each(a.custom_admin_fields->'values') kv
				WHERE kv.key IN (SELECT id FROM admin_column_definitions)
			), '{}'::jsonb)
		)
		WHERE EXISTS (
			SELECT 1 FROM jsonb_each(a.custom_admin_fields->'values') kv
			WHERE kv.key NOT IN (SELECT id FROM admin_column_definitions)
		)`,
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *Repository) nextOrderIndex() (int, error) {
	var next int
	row := r.db.QueryRow(`SELECT COALESCE(MAX(order_index), 0) + 1 FROM admin_column_definitions`)
	if err := row.Scan(&next); err != nil {
		return 0, err
	}
	return next, nil
}

func scanDefinitions(rows *sql.Rows) ([]Definition, error) {
	cols := make([]Definition, 0)
	for rows.Next() {
		var col Definition
		var typ string
		var optionsJSON []byte
		if err := rows.Scan(&col.ID, &col.Name, &typ, &optionsJSON, &col.Width, &col.OrderIndex, &col.IsCustom, &col.ShowInForm); err != nil {
			return cols, err
		}
		col.Type = FieldType(typ)
		if err := json.Unmarshal(optionsJSON, &col.Options); err != nil {
			return cols, err
		}
		cols = append(cols, col)
	}
	return cols, nil
}
