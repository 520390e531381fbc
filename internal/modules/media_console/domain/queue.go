package domain

import (
	"fmt"

	"github.com/samber/lo"
)

// HistoryPolicy controls whether Enqueue also rejects tracks found in the history.
type HistoryPolicy int

const (
	// HistoryPolicyIgnore only checks the upcoming queue for duplicates.
	HistoryPolicyIgnore HistoryPolicy = iota
	// HistoryPolicyReject also rejects tracks that are in the history.
	HistoryPolicyReject
)

// ParseHistoryPolicy converts a configuration string to a HistoryPolicy.
func ParseHistoryPolicy(s string) (HistoryPolicy, error) {
	switch s {
	case "", "ignore":
		return HistoryPolicyIgnore, nil
	case "reject":
		return HistoryPolicyReject, nil
	default:
		return HistoryPolicyIgnore, fmt.Errorf("unknown history policy %q", s)
	}
}

// String returns the configuration name of the policy.
func (p HistoryPolicy) String() string {
	if p == HistoryPolicyReject {
		return "reject"
	}
	return "ignore"
}

// noSelection marks that no queue row is selected.
const noSelection = -1

// Queue holds the upcoming tracks (index 0 plays next) and the history of
// tracks that have left the player. Clearing the queue also clears the history.
// Queue is not safe for concurrent use.
type Queue struct {
	upcoming TrackList
	history  []Track
	selected int
	policy   HistoryPolicy
}

// NewQueue creates an empty Queue.
func NewQueue(policy HistoryPolicy) *Queue {
	return &Queue{
		selected: noSelection,
		policy:   policy,
	}
}

// Restore replaces the upcoming tracks, e.g. after loading them from storage.
func (q *Queue) Restore(tracks []Track) {
	q.upcoming = NewTrackList(tracks...)
	q.selected = noSelection
}

// Len returns the number of upcoming tracks.
func (q *Queue) Len() int {
	return q.upcoming.Len()
}

// IsEmpty returns true if there are no upcoming tracks.
func (q *Queue) IsEmpty() bool {
	return q.upcoming.IsEmpty()
}

// Tracks returns a copy of the upcoming tracks.
func (q *Queue) Tracks() []Track {
	return q.upcoming.Tracks()
}

// History returns a copy of the history, oldest first.
func (q *Queue) History() []Track {
	result := make([]Track, len(q.history))
	copy(result, q.history)
	return result
}

// HistoryLen returns the number of tracks in the history.
func (q *Queue) HistoryLen() int {
	return len(q.history)
}

// Selected returns the selected row, or -1 if none.
func (q *Queue) Selected() int {
	return q.selected
}

// Enqueue appends a track. It returns ErrDuplicateTrack if the track is
// already queued, or (with HistoryPolicyReject) already in the history.
func (q *Queue) Enqueue(t Track) error {
	if q.policy == HistoryPolicyReject && q.inHistory(t.ID) {
		return ErrDuplicateTrack
	}
	if !q.upcoming.Append(t) {
		return ErrDuplicateTrack
	}
	return nil
}

func (q *Queue) inHistory(id TrackID) bool {
	return lo.ContainsBy(q.history, func(t Track) bool { return t.ID == id })
}

// DequeueNext removes and returns the first track. It returns false on an empty queue.
func (q *Queue) DequeueNext() (Track, bool) {
	t, ok := q.upcoming.PopFront()
	if !ok {
		return Track{}, false
	}
	q.shiftSelection(0)
	return t, true
}

// Remove deletes the track at index. Removing the selected row clears the selection.
func (q *Queue) Remove(index int) (Track, error) {
	t, ok := q.upcoming.RemoveAt(index)
	if !ok {
		return Track{}, ErrInvalidPosition
	}
	q.shiftSelection(index)
	return t, nil
}

// shiftSelection keeps the selection pointing at the same track after the row
// at index was removed.
func (q *Queue) shiftSelection(index int) {
	switch {
	case q.selected == index:
		q.selected = noSelection
	case q.selected > index:
		q.selected--
	}
}

// MoveUp swaps the track at index with its predecessor. Returns false at the
// top of the queue or for an invalid index.
func (q *Queue) MoveUp(index int) bool {
	if index <= 0 || index >= q.upcoming.Len() {
		return false
	}
	return q.swap(index, index-1)
}

// MoveDown swaps the track at index with its successor. Returns false at the
// bottom of the queue or for an invalid index.
func (q *Queue) MoveDown(index int) bool {
	if index < 0 || index >= q.upcoming.Len()-1 {
		return false
	}
	return q.swap(index, index+1)
}

func (q *Queue) swap(from, to int) bool {
	if !q.upcoming.Swap(from, to) {
		return false
	}
	switch q.selected {
	case from:
		q.selected = to
	case to:
		q.selected = from
	}
	return true
}

// Select toggles the selected row.
func (q *Queue) Select(index int) error {
	if index < 0 || index >= q.upcoming.Len() {
		return ErrInvalidPosition
	}
	if q.selected == index {
		q.selected = noSelection
		return nil
	}
	q.selected = index
	return nil
}

// Clear empties the upcoming tracks and the history. It returns the number of
// upcoming tracks removed.
func (q *Queue) Clear() int {
	q.history = nil
	q.selected = noSelection
	return q.upcoming.Clear()
}

// SkipTo moves the tracks before index to the end of the history, oldest
// first, so that the track at index becomes the head of the queue.
func (q *Queue) SkipTo(index int) error {
	if index < 0 || index >= q.upcoming.Len() {
		return ErrInvalidPosition
	}
	q.history = append(q.history, q.upcoming.TakeFront(index)...)
	q.selected = noSelection
	return nil
}

// PushFront puts a track at the head of the queue. A queued copy of the same
// track is moved rather than duplicated.
func (q *Queue) PushFront(t Track) {
	q.upcoming.PushFront(t)
	q.selected = noSelection
}

// PushHistory appends a track to the history.
func (q *Queue) PushHistory(t Track) {
	q.history = append(q.history, t)
}

// PopHistory removes and returns the most recent history entry.
func (q *Queue) PopHistory() (Track, bool) {
	if len(q.history) == 0 {
		return Track{}, false
	}
	last := len(q.history) - 1
	t := q.history[last]
	q.history = q.history[:last]
	return t, true
}
