package model

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/emirpasic/gods/lists/arraylist"
	"github.com/emirpasic/gods/maps/treemap"
	"github.com/google/uuid"
	"github.com/muesli/reflow/wordwrap"
	"github.com/muesli/reflow/wrap"
	"github.com/robinovitch61/itemview/internal/dev"
	"github.com/robinovitch61/itemview/internal/itemview"
	"github.com/robinovitch61/itemview/internal/message"
)

// Record is one element of the list
type Record struct {
	ID   uuid.UUID
	Text string
}

func NewRecord(text string) Record {
	return Record{ID: uuid.New(), Text: text}
}

// Row is the visual for a record: its text broken into the lines it occupies at the list width
type Row struct {
	id       uuid.UUID
	text     string
	lines    []string
	attached *itemview.Attached
}

// type assertions that *Row is a visual the view binds
var (
	_ itemview.Visual = (*Row)(nil)
	_ itemview.Binder = (*Row)(nil)
)

func (r *Row) Size() float64 {
	return float64(len(r.lines))
}

func (r *Row) Bind(a *itemview.Attached) {
	r.attached = a
}

func (r *Row) ID() uuid.UUID {
	return r.id
}

func (r *Row) Text() string {
	return r.text
}

func (r *Row) Lines() []string {
	return r.lines
}

func (r *Row) IsCurrent() bool {
	return r.attached != nil && r.attached.IsCurrentItem()
}

// Section is the section of the row's record, empty without sections
func (r *Row) Section() string {
	if r.attached == nil {
		return ""
	}
	return r.attached.Section()
}

type rowEntry struct {
	row  *Row
	refs int
}

// ListModel is an in-memory list of records that hands out reference counted rows. With async
// set, rows requested asynchronously are completed later by ItemReadyMsg.
type ListModel struct {
	records    *arraylist.List
	rows       *treemap.Map
	observer   itemview.Observer
	width      int
	wrapLines  bool
	async      bool
	asyncDelay time.Duration

	// pending maps the record IDs of outstanding asynchronous creations to their request tokens
	pending   map[uuid.UUID]int
	requests  []message.ItemReadyMsg
	nextToken int
	moveID    int
}

// type assertions that *ListModel is an adapter that can cancel requests
var (
	_ itemview.Adapter  = (*ListModel)(nil)
	_ itemview.Canceler = (*ListModel)(nil)
)

type Option func(*ListModel)

// WithAsync makes asynchronous requests complete after delay
func WithAsync(delay time.Duration) Option {
	return func(m *ListModel) {
		m.async = true
		m.asyncDelay = delay
	}
}

// WithWrap wraps row text to the list width instead of leaving each row a single line
func WithWrap(wrapLines bool) Option {
	return func(m *ListModel) {
		m.wrapLines = wrapLines
	}
}

func New(width int, texts []string, opts ...Option) *ListModel {
	m := &ListModel{
		records:   arraylist.New(),
		rows:      treemap.NewWithStringComparator(),
		width:     width,
		wrapLines: true,
		pending:   make(map[uuid.UUID]int),
	}
	for _, opt := range opts {
		opt(m)
	}
	for _, text := range texts {
		m.records.Add(NewRecord(text))
	}
	return m
}

func (m *ListModel) Count() int {
	return m.records.Size()
}

func (m *ListModel) IsValid() bool {
	return true
}

// Record returns the record at index
func (m *ListModel) Record(index int) (Record, bool) {
	v, ok := m.records.Get(index)
	if !ok {
		return Record{}, false
	}
	return v.(Record), true
}

// InitialSection groups records by the upper-cased first rune of their text
func (m *ListModel) InitialSection(index int) string {
	rec, ok := m.Record(index)
	if !ok || rec.Text == "" {
		return ""
	}
	r, _ := utf8.DecodeRuneInString(rec.Text)
	return strings.ToUpper(string(r))
}

func (m *ListModel) Item(index int, async bool) (itemview.Visual, error) {
	rec, ok := m.Record(index)
	if !ok {
		return nil, fmt.Errorf("item %d of %d: %w", index, m.Count(), itemview.ErrInvalidIndex)
	}
	if e := m.entry(rec.ID); e != nil {
		e.refs++
		return e.row, nil
	}
	if async && m.async {
		if _, ok := m.pending[rec.ID]; !ok {
			m.nextToken++
			m.pending[rec.ID] = m.nextToken
			m.requests = append(m.requests, message.ItemReadyMsg{ID: rec.ID, Token: m.nextToken})
		}
		return nil, itemview.ErrPending
	}
	delete(m.pending, rec.ID)
	row := m.newRow(rec)
	m.rows.Put(rec.ID.String(), &rowEntry{row: row, refs: 1})
	return row, nil
}

func (m *ListModel) Release(visual itemview.Visual) itemview.ReleaseResult {
	row := visual.(*Row)
	e := m.entry(row.id)
	if e == nil {
		return itemview.Destroyed
	}
	e.refs--
	if e.refs > 0 {
		return itemview.StillReferenced
	}
	m.destroy(e)
	return itemview.Destroyed
}

func (m *ListModel) IndexOf(visual itemview.Visual) int {
	row, ok := visual.(*Row)
	if !ok {
		return -1
	}
	return m.indexOfID(row.id)
}

func (m *ListModel) SetObserver(o itemview.Observer) {
	m.observer = o
}

// Cancel abandons the asynchronous creation for index
func (m *ListModel) Cancel(index int) {
	if rec, ok := m.Record(index); ok {
		delete(m.pending, rec.ID)
	}
}

// Requests returns a command delivering the asynchronous creations requested since the last
// call, or nil if there are none
func (m *ListModel) Requests() tea.Cmd {
	if len(m.requests) == 0 {
		return nil
	}
	var cmds []tea.Cmd
	for _, req := range m.requests {
		if m.asyncDelay <= 0 {
			cmds = append(cmds, func() tea.Msg { return req })
			continue
		}
		cmds = append(cmds, tea.Tick(m.asyncDelay, func(time.Time) tea.Msg { return req }))
	}
	m.requests = nil
	return tea.Batch(cmds...)
}

// Complete finishes an asynchronous creation. It returns false if the request was cancelled or
// its record removed in the meantime.
func (m *ListModel) Complete(msg message.ItemReadyMsg) bool {
	token, ok := m.pending[msg.ID]
	if !ok || token != msg.Token {
		return false
	}
	delete(m.pending, msg.ID)
	index := m.indexOfID(msg.ID)
	if index == -1 {
		return false
	}
	rec, _ := m.Record(index)
	row := m.newRow(rec)
	m.rows.Put(rec.ID.String(), &rowEntry{row: row})
	if m.observer.OnCreatedItem != nil {
		m.observer.OnCreatedItem(index, row)
	}
	return true
}

// Pending is the number of outstanding asynchronous creations
func (m *ListModel) Pending() int {
	return len(m.pending)
}

// Insert adds records with texts before index
func (m *ListModel) Insert(index int, texts ...string) error {
	if index < 0 || index > m.Count() {
		return fmt.Errorf("insert at %d of %d: %w", index, m.Count(), itemview.ErrInvalidIndex)
	}
	if len(texts) == 0 {
		return nil
	}
	recs := make([]interface{}, len(texts))
	for i, text := range texts {
		recs[i] = NewRecord(text)
	}
	m.records.Insert(index, recs...)
	m.notify(itemview.InsertSet(index, len(texts)))
	return nil
}

func (m *ListModel) Append(texts ...string) error {
	return m.Insert(m.Count(), texts...)
}

// Remove removes count records starting at index
func (m *ListModel) Remove(index, count int) error {
	if index < 0 || count < 0 || index+count > m.Count() {
		return fmt.Errorf("remove %d at %d of %d: %w", count, index, m.Count(), itemview.ErrInvalidIndex)
	}
	if count == 0 {
		return nil
	}
	for range count {
		v, _ := m.records.Get(index)
		m.forget(v.(Record).ID)
		m.records.Remove(index)
	}
	m.notify(itemview.RemoveSet(index, count))
	return nil
}

// Move moves count records at from so the first of them ends up at to, an index into the list
// without the moved records
func (m *ListModel) Move(from, to, count int) error {
	if from < 0 || count <= 0 || from+count > m.Count() || to < 0 || to > m.Count()-count {
		return fmt.Errorf("move %d from %d to %d of %d: %w", count, from, to, m.Count(), itemview.ErrInvalidIndex)
	}
	if from == to {
		return nil
	}
	moved := make([]interface{}, count)
	for i := range count {
		moved[i], _ = m.records.Get(from)
		m.records.Remove(from)
	}
	m.records.Insert(to, moved...)
	m.moveID++
	m.notify(itemview.MoveSet(from, to, count, m.moveID))
	return nil
}

// Reset replaces every record
func (m *ListModel) Reset(texts []string) {
	it := m.records.Iterator()
	for it.Next() {
		m.forget(it.Value().(Record).ID)
	}
	m.records.Clear()
	for _, text := range texts {
		m.records.Add(NewRecord(text))
	}
	dev.Debug("model reset", "count", len(texts))
	if m.observer.OnModelUpdated != nil {
		m.observer.OnModelUpdated(itemview.ChangeSet{}, true)
	}
	if m.observer.OnCountChanged != nil {
		m.observer.OnCountChanged()
	}
}

// SetWidth rewraps every live row to width and returns the rows whose size changed
func (m *ListModel) SetWidth(width int) []itemview.Visual {
	if width == m.width {
		return nil
	}
	m.width = width
	return m.rewrap()
}

// SetWrap turns wrapping on or off and returns the rows whose size changed
func (m *ListModel) SetWrap(wrapLines bool) []itemview.Visual {
	if wrapLines == m.wrapLines {
		return nil
	}
	m.wrapLines = wrapLines
	return m.rewrap()
}

func (m *ListModel) Wrap() bool {
	return m.wrapLines
}

func (m *ListModel) rewrap() []itemview.Visual {
	var changed []itemview.Visual
	for _, v := range m.rows.Values() {
		row := v.(*rowEntry).row
		old := len(row.lines)
		row.lines = wrapText(row.text, m.width, m.wrapLines)
		if len(row.lines) != old {
			changed = append(changed, row)
		}
	}
	return changed
}

func (m *ListModel) newRow(rec Record) *Row {
	return &Row{id: rec.ID, text: rec.Text, lines: wrapText(rec.Text, m.width, m.wrapLines)}
}

func (m *ListModel) entry(id uuid.UUID) *rowEntry {
	v, ok := m.rows.Get(id.String())
	if !ok {
		return nil
	}
	return v.(*rowEntry)
}

// forget drops what the model holds for a record leaving the list. Rows still referenced by the
// view stay until released.
func (m *ListModel) forget(id uuid.UUID) {
	delete(m.pending, id)
	if e := m.entry(id); e != nil && e.refs == 0 {
		m.destroy(e)
	}
}

func (m *ListModel) destroy(e *rowEntry) {
	if m.observer.OnDestroyingItem != nil {
		m.observer.OnDestroyingItem(e.row)
	}
	m.rows.Remove(e.row.id.String())
}

func (m *ListModel) indexOfID(id uuid.UUID) int {
	index, _ := m.records.Find(func(_ int, v interface{}) bool {
		return v.(Record).ID == id
	})
	return index
}

func (m *ListModel) notify(cs itemview.ChangeSet) {
	if m.observer.OnModelUpdated != nil {
		m.observer.OnModelUpdated(cs, false)
	}
	if m.observer.OnCountChanged != nil && cs.Difference() != 0 {
		m.observer.OnCountChanged()
	}
}

// wrapText breaks text into lines no wider than width, preferring to break between words
func wrapText(text string, width int, wrapLines bool) []string {
	if !wrapLines || width <= 0 {
		return []string{text}
	}
	return strings.Split(wrap.String(wordwrap.String(text, width), width), "\n")
}
