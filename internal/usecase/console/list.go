package console

import (
	"context"
	"sync"
	"time"

	"voucher-console/internal/domain/voucher"
	"voucher-console/internal/pkg/errs"
	"voucher-console/internal/usecase/commands"
	"voucher-console/internal/usecase/queries"
	"voucher-console/internal/usecase/shared"
)

const (
	FilterAll    = "all"
	PrintColumns = 6
)

var (
	ErrUnknownFilter   = errs.New("unknown status filter")
	ErrNothingSelected = errs.New("no vouchers selected")
)

type SelectionState string

const (
	SelectionNone    SelectionState = "none"
	SelectionPartial SelectionState = "partial"
	SelectionAll     SelectionState = "all"
)

// List holds one session's voucher collection. Search and filter work on the fetched slice in
// memory; only Load, Reload and mutations reach the backend.
type List struct {
	queries queries.VoucherQueries
	cmds    commands.VoucherCommands

	mu       sync.Mutex
	loaded   bool
	cards    []*Card
	search   string
	filter   string
	selected map[string]struct{}
	loadErr  error
}

func NewList(q queries.VoucherQueries, cmds commands.VoucherCommands) *List {
	return &List{
		queries:  q,
		cmds:     cmds,
		filter:   FilterAll,
		selected: make(map[string]struct{}),
	}
}

// Load fetches the collection unless it has already been fetched. Entering the voucher view
// calls Reload instead, so Load only serves refreshes within one visit.
func (l *List) Load(ctx context.Context) error {
	l.mu.Lock()
	loaded := l.loaded
	l.mu.Unlock()
	if loaded {
		return nil
	}
	return l.Reload(ctx)
}

// Reload replaces every card with the backend's current view, discarding local overrides.
// On failure the previous cards stay and the error is kept for display.
func (l *List) Reload(ctx context.Context) error {
	vs, err := l.queries.List(ctx)

	l.mu.Lock()
	defer l.mu.Unlock()
	l.loaded = true
	if err != nil {
		l.loadErr = err
		return err
	}
	l.loadErr = nil
	l.cards = make([]*Card, 0, len(vs))
	for _, v := range vs {
		l.cards = append(l.cards, NewCard(v, l.cmds))
	}
	l.pruneSelectionLocked()
	return nil
}

func (l *List) SetSearch(q string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.search = q
	l.pruneSelectionLocked()
}

func (l *List) SetStatusFilter(f string) error {
	if f == "" {
		f = FilterAll
	}
	if f != FilterAll && !voucher.ParseStatus(f).IsKnown() {
		return errs.Mark(errs.Wrapf(ErrUnknownFilter, "filter %q", f), errs.ErrValidation)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.filter = f
	if f != FilterAll {
		l.filter = voucher.ParseStatus(f).String()
	}
	l.pruneSelectionLocked()
	return nil
}

func (l *List) matchesLocked(c *Card) bool {
	if !c.server.MatchesCode(l.search) {
		return false
	}
	return l.filter == FilterAll || c.Status().String() == l.filter
}

func (l *List) filteredLocked() []*Card {
	out := make([]*Card, 0, len(l.cards))
	for _, c := range l.cards {
		if l.matchesLocked(c) {
			out = append(out, c)
		}
	}
	return out
}

// Filtered returns the cards passing search AND status filter, in fetch order.
func (l *List) Filtered() []*Card {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.filteredLocked()
}

func (l *List) Card(id string) (*Card, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, c := range l.cards {
		if c.ID() == id {
			return c, nil
		}
	}
	return nil, errs.Wrapf(errs.ErrVoucherNotFound, "voucher %s", id)
}

// Toggle flips one card between active and disabled. The new status can move the card out of
// the status filter, so the selection is pruned afterwards.
func (l *List) Toggle(ctx context.Context, id string) (*Card, Notification, error) {
	card, err := l.Card(id)
	if err != nil {
		return nil, Notification{}, err
	}
	n, err := card.ToggleEnabled(ctx)
	if err != nil {
		return card, n, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.pruneSelectionLocked()
	return card, n, nil
}

// pruneSelectionLocked keeps the selection a subset of the filtered view.
func (l *List) pruneSelectionLocked() {
	visible := make(map[string]struct{}, len(l.cards))
	for _, c := range l.filteredLocked() {
		visible[c.ID()] = struct{}{}
	}
	for id := range l.selected {
		if _, ok := visible[id]; !ok {
			delete(l.selected, id)
		}
	}
}

// ToggleSelect flips one id. Only ids in the filtered view can be selected.
func (l *List) ToggleSelect(id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.selected[id]; ok {
		delete(l.selected, id)
		return nil
	}
	for _, c := range l.filteredLocked() {
		if c.ID() == id {
			l.selected[id] = struct{}{}
			return nil
		}
	}
	return errs.Wrapf(errs.ErrVoucherNotFound, "voucher %s is not in the current view", id)
}

// SelectAll selects exactly the filtered set.
func (l *List) SelectAll() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.selected = make(map[string]struct{})
	for _, c := range l.filteredLocked() {
		l.selected[c.ID()] = struct{}{}
	}
}

func (l *List) ClearSelection() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.selected = make(map[string]struct{})
}

// Selected returns the selected ids in display order.
func (l *List) Selected() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.selectedLocked()
}

func (l *List) selectedLocked() []string {
	out := make([]string, 0, len(l.selected))
	for _, c := range l.filteredLocked() {
		if _, ok := l.selected[c.ID()]; ok {
			out = append(out, c.ID())
		}
	}
	return out
}

func (l *List) SelectionState() SelectionState {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.selectionStateLocked()
}

func (l *List) selectionStateLocked() SelectionState {
	n := len(l.selectedLocked())
	switch {
	case n == 0:
		return SelectionNone
	case n == len(l.filteredLocked()):
		return SelectionAll
	default:
		return SelectionPartial
	}
}

// BulkDelete deletes every selected voucher, then clears the selection and reloads. The
// returned result reports each id; a reload failure is returned as the error.
func (l *List) BulkDelete(ctx context.Context) (commands.BulkResult, error) {
	ids := l.Selected()
	if len(ids) == 0 {
		return commands.BulkResult{}, errs.Mark(ErrNothingSelected, errs.ErrValidation)
	}

	result := l.cmds.BulkDelete(ctx, ids)

	l.ClearSelection()
	if err := l.Reload(ctx); err != nil {
		return result, err
	}
	return result, nil
}

// ConfirmDelete deletes one voucher through its card and reloads on success.
func (l *List) ConfirmDelete(ctx context.Context, id string) (Notification, error) {
	card, err := l.Card(id)
	if err != nil {
		return Notification{}, err
	}
	n, err := card.ConfirmDelete(ctx)
	if err != nil {
		return n, err
	}
	if rerr := l.Reload(ctx); rerr != nil {
		return n, rerr
	}
	return n, nil
}

func (l *List) Export(ctx context.Context) (*shared.ExportFile, error) {
	return l.queries.Export(ctx)
}

// PrintRows lays the filtered codes out in rows of PrintColumns. Only codes are included.
func (l *List) PrintRows() [][]string {
	cards := l.Filtered()
	rows := make([][]string, 0, (len(cards)+PrintColumns-1)/PrintColumns)
	for start := 0; start < len(cards); start += PrintColumns {
		end := min(start+PrintColumns, len(cards))
		row := make([]string, 0, PrintColumns)
		for _, c := range cards[start:end] {
			row = append(row, c.Code())
		}
		rows = append(rows, row)
	}
	return rows
}

type ListView struct {
	Loaded        bool
	Error         string
	Search        string
	Filter        string
	Total         int
	Cards         []CardView
	SelectedIDs   []string
	Selection     SelectionState
	FilterOptions []string
}

func (l *List) View(now time.Time) ListView {
	l.mu.Lock()
	defer l.mu.Unlock()

	filtered := l.filteredLocked()
	cards := make([]CardView, 0, len(filtered))
	for _, c := range filtered {
		cards = append(cards, c.View(now))
	}
	view := ListView{
		Loaded:        l.loaded,
		Search:        l.search,
		Filter:        l.filter,
		Total:         len(l.cards),
		Cards:         cards,
		SelectedIDs:   l.selectedLocked(),
		Selection:     l.selectionStateLocked(),
		FilterOptions: filterOptions(),
	}
	if l.loadErr != nil {
		view.Error = l.loadErr.Error()
	}
	return view
}

func filterOptions() []string {
	opts := []string{FilterAll}
	for _, s := range voucher.FilterStatuses {
		opts = append(opts, s.String())
	}
	return opts
}
