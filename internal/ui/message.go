package ui

// catalogLoadedMsg is sent when a catalog search, trending load or overlay refresh finishes.
type catalogLoadedMsg struct {
	err error
}

// libraryLoadedMsg is sent when the library finishes loading.
type libraryLoadedMsg struct {
	err error
}

// actionDoneMsg reports the outcome of a save or progress action.
type actionDoneMsg struct {
	message string
	err     error
}
