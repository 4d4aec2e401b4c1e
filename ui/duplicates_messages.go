package ui

// DeletionCompleteMsg reports the outcome of a confirmed deletion batch
type DeletionCompleteMsg struct {
	Removed []string
	Failed  []DeletionFailure
}

// DeletionFailure is one file the batch could not remove
type DeletionFailure struct {
	Path  string
	Error error
}
