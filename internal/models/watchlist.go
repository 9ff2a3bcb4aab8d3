package models

// DefaultWatchlist holds the materia XI and XII item IDs monitored when the
// configuration does not override the list. Quickarm and Quicktongue XI are
// deliberately absent: their market volume is too low for a useful baseline.
var DefaultWatchlist = []int{
	41758, // Heavens' Eye Materia XI
	41759, // Savage Aim Materia XI
	41760, // Savage Might Materia XI
	41762, // Gatherer's Guerdon Materia XI
	41763, // Gatherer's Guile Materia XI
	41764, // Gatherer's Grasp Materia XI
	41765, // Craftsman's Competence Materia XI
	41766, // Craftsman's Cunning Materia XI
	41767, // Craftsman's Command Materia XI
	41771, // Heavens' Eye Materia XII
	41772, // Savage Aim Materia XII
	41773, // Savage Might Materia XII
	41775, // Gatherer's Guerdon Materia XII
	41776, // Gatherer's Guile Materia XII
	41777, // Gatherer's Grasp Materia XII
	41778, // Craftsman's Competence Materia XII
	41779, // Craftsman's Cunning Materia XII
	41780, // Craftsman's Command Materia XII
	41781, // Quickarm Materia XII
	41782, // Quicktongue Materia XII
}

// Watchlist is an immutable set of watched item IDs, fixed for the lifetime
// of the process. Membership tests run at feed volume and must stay O(1).
type Watchlist struct {
	ids map[int]struct{}
}

// NewWatchlist builds a watchlist from the given item IDs. Duplicates are
// collapsed.
func NewWatchlist(ids []int) *Watchlist {
	set := make(map[int]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return &Watchlist{ids: set}
}

// Contains reports whether id is watched.
func (w *Watchlist) Contains(id int) bool {
	_, ok := w.ids[id]
	return ok
}

// Len returns the number of watched items.
func (w *Watchlist) Len() int {
	return len(w.ids)
}

// IDs returns a copy of the watched item IDs in unspecified order.
func (w *Watchlist) IDs() []int {
	out := make([]int, 0, len(w.ids))
	for id := range w.ids {
		out = append(out, id)
	}
	return out
}
