package ports

// HistoryStore persists input history across sessions.
type HistoryStore interface {
	// AddCmd appends a command and returns its sequence number.
	AddCmd(cmd string) (int, error)

	// LastCmds returns up to n most recent commands, oldest first.
	LastCmds(n int) ([]string, error)

	// Close releases the underlying storage.
	Close() error
}
