package ports

// LineEditor reads lines of interactive input and keeps a recallable history.
type LineEditor interface {
	// ReadLine displays prompt and blocks until a full line is entered.
	// It returns io.EOF when the input source has no more lines.
	ReadLine(prompt string) (string, error)

	// AddHistory appends line to the recallable history.
	AddHistory(line string) error
}
