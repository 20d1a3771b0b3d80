package postgres

import "sketchplot/internal/storage"

func init() {
	// registers the backend factory
	storage.Register("postgres", New)
}
