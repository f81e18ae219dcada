package providers

import (
	"context"
	"io"
)

// ImageClassifier turns a skin photo into a condition label.
type ImageClassifier interface {
	// Classify reads image and returns the name of a catalog condition.
	// It returns an image read error when the payload cannot be read.
	Classify(ctx context.Context, image io.Reader) (string, error)
}
