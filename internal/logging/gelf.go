package logging

import (
	"fmt"

	"github.com/Graylog2/go-gelf/gelf"
)

// NewGelfWriter opens a GELF UDP connection to a Graylog endpoint.
// The returned writer can be passed to SlogManager.Setup as an extra output.
func NewGelfWriter(address string) (*gelf.Writer, error) {
	w, err := gelf.NewWriter(address)
	if err != nil {
		return nil, fmt.Errorf("failed to connect GELF writer to %s: %w", address, err)
	}
	w.Facility = "marisim"
	return w, nil
}
