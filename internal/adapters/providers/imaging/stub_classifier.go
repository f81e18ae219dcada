package imaging

import (
	"context"
	"io"
	"math/rand/v2"
	"time"

	"github.com/skinsight/diagnosis/backend/internal/domain/providers"
	apperrors "github.com/skinsight/diagnosis/backend/pkg/errors"
)

// StubClassifier stands in for a trained vision model. It reads the image
// payload but never inspects it, waits for the configured delay and returns
// a label drawn uniformly at random from its label set.
type StubClassifier struct {
	labels []string
	delay  time.Duration
	pick   func(n int) int
}

// Option configures a StubClassifier.
type Option func(*StubClassifier)

// WithPicker replaces the uniform random index source. pick must return a
// value in [0, n).
func WithPicker(pick func(n int) int) Option {
	return func(s *StubClassifier) {
		s.pick = pick
	}
}

// NewStubClassifier creates a placeholder classifier over labels.
func NewStubClassifier(labels []string, delay time.Duration, opts ...Option) providers.ImageClassifier {
	s := &StubClassifier{
		labels: append([]string(nil), labels...),
		delay:  delay,
		pick:   rand.IntN,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Classify implements providers.ImageClassifier.
func (s *StubClassifier) Classify(ctx context.Context, image io.Reader) (string, error) {
	if image == nil {
		return "", apperrors.NewReadError("image payload is missing", nil)
	}

	if s.delay > 0 {
		timer := time.NewTimer(s.delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-timer.C:
		}
	}

	if _, err := io.Copy(io.Discard, image); err != nil {
		return "", apperrors.NewReadError("failed to read image payload", err)
	}

	if len(s.labels) == 0 {
		return "", apperrors.NewInternalError("image classifier has no labels", nil)
	}
	return s.labels[s.pick(len(s.labels))], nil
}
