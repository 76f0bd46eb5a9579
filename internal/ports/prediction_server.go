package ports

// PredictionServer exposes a trained classifier to clients
type PredictionServer interface {
	// Start starts serving in the background
	Start() error

	// Stop gracefully stops the server
	Stop() error

	// Addr returns the address the server listens on
	Addr() string
}
