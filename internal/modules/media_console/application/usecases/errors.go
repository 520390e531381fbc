package usecases

import "errors"

// Application errors for the media console.
var (
	// ErrNoHistory is returned when going back with an empty history.
	ErrNoHistory = errors.New("no previous songs in history")

	// ErrQueueAlreadyEmpty is returned when clearing an empty queue.
	ErrQueueAlreadyEmpty = errors.New("queue is already empty")

	// ErrPlaylistEmpty is returned when loading a playlist without tracks.
	ErrPlaylistEmpty = errors.New("playlist is empty")

	// ErrNoResults is returned when a lookup yields no tracks.
	ErrNoResults = errors.New("no results found")

	// ErrConsoleClosed is returned when dispatching to a console that has stopped.
	ErrConsoleClosed = errors.New("console is closed")
)
