package receipt

// Archive keeps the original uploaded documents so a parse can be reviewed
// against its source later.
type Archive interface {
	// Save stores a document and returns the path/filename it was stored under
	Save(filename string, data []byte) (string, error)

	// Get retrieves a document by path
	Get(path string) ([]byte, error)

	// Delete removes a document
	Delete(path string) error

	// Close releases archive resources
	Close() error
}
