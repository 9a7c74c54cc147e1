package grid

import (
	"encoding/json"
	"sort"

	"github.com/careersdesk/portal/internal/column"
)

// layoutKey is the single client-local slot holding hide flags.
const layoutKey = "columnState"

// ColumnStore is the slice of the column repository the grid writes
// through to.
type ColumnStore interface {
	ListColumns() ([]column.Definition, error)
	SetColumnWidth(id string, width int) error
	SetColumnOrder(id string, orderIndex int) error
}

// KV is the narrow local-storage port. The substrate (file, in-memory
// map for tests) is swappable; readers must tolerate absent or
// malformed data.
type KV interface {
	Get(key string) (string, bool)
	Set(key, value string) error
}

type ColumnState struct {
	ColID string `json:"colId"`
	Hide  bool   `json:"hide"`
	Width int    `json:"width,omitempty"`
	Order int    `json:"order,omitempty"`
}

type Logger func(err error, msg string)

// Manager merges persisted column definitions with the locally held
// hidden-set. Layout writes are optimistic: failures are logged and
// swallowed, the in-memory view keeps the attempted change.
type Manager struct {
	store ColumnStore
	kv    KV
	log   Logger
}

func NewManager(store ColumnStore, kv KV, log Logger) *Manager {
	if log == nil {
		log = func(error, string) {}
	}
	return &Manager{store: store, kv: kv, log: log}
}

// Columns returns every definition ordered by order_index, falling
// back to the default set when the store read fails.
func (m *Manager) Columns() []column.Definition {
	cols, err := m.store.ListColumns()
	if err != nil || len(cols) == 0 {
		if err != nil {
			m.log(err, "unable to list column definitions, falling back to defaults")
		}
		cols = column.DefaultColumns()
	}
	sort.SliceStable(cols, func(i, j int) bool {
		return cols[i].OrderIndex < cols[j].OrderIndex
	})
	return cols
}

// VisibleColumns is Columns minus the locally hidden set.
func (m *Manager) VisibleColumns() []column.Definition {
	hidden := m.hiddenSet()
	cols := m.Columns()
	visible := make([]column.Definition, 0, len(cols))
	for _, col := range cols {
		if !hidden[col.ID] {
			visible = append(visible, col)
		}
	}
	return visible
}

func (m *Manager) HiddenColumnIDs() []string {
	hidden := m.hiddenSet()
	ids := make([]string, 0, len(hidden))
	for _, col := range m.Columns() {
		if hidden[col.ID] {
			ids = append(ids, col.ID)
		}
	}
	return ids
}

// ToggleColumnVisibility flips one column. Hiding remembers the
// column's current order_index in the local slot and pushes the stored
// one past the end; re-showing reinserts at the remembered position
// relative to the currently visible columns. Best effort, exact
// original order is not guaranteed after surrounding columns move.
func (m *Manager) ToggleColumnVisibility(id string) {
	cols := m.Columns()
	var target *column.Definition
	for i := range cols {
		if cols[i].ID == id {
			target = &cols[i]
			break
		}
	}
	if target == nil {
		return
	}
	hidden := m.hiddenStates()
	if st, ok := hidden[id]; ok {
		delete(hidden, id)
		remembered := st.Order
		if remembered <= 0 {
			remembered = target.OrderIndex
		}
		newOrder := remembered
		for _, col := range cols {
			if col.ID == id {
				continue
			}
			if _, stillHidden := hidden[col.ID]; stillHidden {
				continue
			}
			if col.OrderIndex >= remembered {
				newOrder = col.OrderIndex
				break
			}
		}
		if err := m.store.SetColumnOrder(id, newOrder); err != nil {
			m.log(err, "unable to persist order for re-shown column "+id)
		}
	} else {
		hidden[id] = ColumnState{ColID: id, Hide: true, Order: target.OrderIndex}
		maxOrder := 0
		for _, col := range cols {
			if col.OrderIndex > maxOrder {
				maxOrder = col.OrderIndex
			}
		}
		if err := m.store.SetColumnOrder(id, maxOrder+1); err != nil {
			m.log(err, "unable to persist order for hidden column "+id)
		}
	}
	m.writeHiddenStates(hidden)
}

// ShowAllColumns clears the hidden set and renumbers every column
// densely 1..N to restore the canonical order.
func (m *Manager) ShowAllColumns() {
	m.writeHiddenStates(map[string]ColumnState{})
	for i, col := range m.Columns() {
		if col.OrderIndex == i+1 {
			continue
		}
		if err := m.store.SetColumnOrder(col.ID, i+1); err != nil {
			m.log(err, "unable to renumber column "+col.ID)
		}
	}
}

// SaveLayout persists the widths and orders observed after a drag or
// resize to the store in one batch, and only the hide flags locally.
func (m *Manager) SaveLayout(states []ColumnState) {
	hidden := make(map[string]ColumnState)
	for _, st := range states {
		if st.Hide {
			hidden[st.ColID] = st
		}
		if st.Width > 0 {
			if err := m.store.SetColumnWidth(st.ColID, st.Width); err != nil {
				m.log(err, "unable to persist width for column "+st.ColID)
			}
		}
		if st.Order > 0 {
			if err := m.store.SetColumnOrder(st.ColID, st.Order); err != nil {
				m.log(err, "unable to persist order for column "+st.ColID)
			}
		}
	}
	m.writeHiddenStates(hidden)
}

func (m *Manager) hiddenSet() map[string]bool {
	hidden := make(map[string]bool)
	for id := range m.hiddenStates() {
		hidden[id] = true
	}
	return hidden
}

// hiddenStates reads the local slot keyed by column id, keeping the
// remembered pre-hide order alongside each hide flag.
func (m *Manager) hiddenStates() map[string]ColumnState {
	hidden := make(map[string]ColumnState)
	raw, ok := m.kv.Get(layoutKey)
	if !ok || raw == "" {
		return hidden
	}
	var states []ColumnState
	if err := json.Unmarshal([]byte(raw), &states); err != nil {
		// malformed local state falls back to nothing hidden
		return hidden
	}
	for _, st := range states {
		if st.Hide {
			hidden[st.ColID] = st
		}
	}
	return hidden
}

func (m *Manager) writeHiddenStates(hidden map[string]ColumnState) {
	states := make([]ColumnState, 0, len(hidden))
	for _, col := range m.Columns() {
		if st, ok := hidden[col.ID]; ok {
			states = append(states, ColumnState{ColID: col.ID, Hide: true, Order: st.Order})
		}
	}
	data, err := json.Marshal(states)
	if err != nil {
		m.log(err, "unable to encode column state")
		return
	}
	if err := m.kv.Set(layoutKey, string(data)); err != nil {
		m.log(err, "unable to save column state")
	}
}
