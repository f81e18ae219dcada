package services_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"testing/iotest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/skinsight/diagnosis/backend/internal/adapters/providers/imaging"
	"github.com/skinsight/diagnosis/backend/internal/application/services"
	"github.com/skinsight/diagnosis/backend/internal/domain/catalog"
	"github.com/skinsight/diagnosis/backend/internal/domain/entities"
	apperrors "github.com/skinsight/diagnosis/backend/pkg/errors"
)

type MockImageClassifier struct {
	mock.Mock
}

func (m *MockImageClassifier) Classify(ctx context.Context, image io.Reader) (string, error) {
	args := m.Called(ctx, image)
	return args.String(0), args.Error(1)
}

// sequenceRandom returns the queued values in order and fails the test when
// asked for more than it holds.
type sequenceRandom struct {
	t      *testing.T
	mu     sync.Mutex
	values []float64
}

func newSequenceRandom(t *testing.T, values ...float64) *sequenceRandom {
	return &sequenceRandom{t: t, values: values}
}

func (r *sequenceRandom) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.values) == 0 {
		r.t.Fatal("random source exhausted")
		return 0
	}
	v := r.values[0]
	r.values = r.values[1:]
	return v
}

func (r *sequenceRandom) remaining() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.values)
}

func newDiagnosisService(t *testing.T, label string, random ...float64) (*services.DiagnosisService, *MockImageClassifier, *sequenceRandom) {
	classifier := new(MockImageClassifier)
	classifier.On("Classify", mock.Anything, mock.Anything).Return(label, nil)

	service := services.NewDiagnosisService(catalog.Default(), classifier)
	seq := newSequenceRandom(t, random...)
	service.SetRandomSource(seq)
	return service, classifier, seq
}

func TestDiagnosisService_Diagnose(t *testing.T) {
	image := func() io.Reader { return strings.NewReader("jpeg") }

	t.Run("symptom path when coin keeps the symptom choice", func(t *testing.T) {
		service, classifier, seq := newDiagnosisService(t, "Rosacea", 0.4, 0.0)

		result, err := service.Diagnose(context.Background(), image(), "pimple and blackhead on oily skin")

		require.NoError(t, err)
		assert.Equal(t, "Acne Vulgaris", result.Disease)
		assert.Equal(t, 79, result.Confidence)
		assert.Equal(t, entities.DiagnosisSourceSymptoms, result.Source)
		assert.Equal(t, catalog.Default().Lookup("Acne Vulgaris").Recommendations, result.Recommendations)
		assert.Equal(t, 0, seq.remaining())
		classifier.AssertExpectations(t)
	})

	t.Run("coin of exactly one half keeps the symptom choice", func(t *testing.T) {
		service, _, _ := newDiagnosisService(t, "Rosacea", 0.5, 0.999999)

		result, err := service.Diagnose(context.Background(), image(), "pimple and blackhead on oily skin")

		require.NoError(t, err)
		assert.Equal(t, "Acne Vulgaris", result.Disease)
		assert.Equal(t, 88, result.Confidence)
	})

	t.Run("coin above one half overrides with the image label", func(t *testing.T) {
		service, _, _ := newDiagnosisService(t, "Rosacea", 0.51, 0.25)

		result, err := service.Diagnose(context.Background(), image(), "pimple and blackhead on oily skin")

		require.NoError(t, err)
		assert.Equal(t, "Rosacea", result.Disease)
		assert.Equal(t, 81, result.Confidence) // floor(79 + 2.5)
		assert.Equal(t, entities.DiagnosisSourceImage, result.Source)
		assert.Equal(t, catalog.Default().Lookup("Rosacea").Description, result.Description)
	})

	t.Run("zero score uses the image label without flipping the coin", func(t *testing.T) {
		service, _, seq := newDiagnosisService(t, "Psoriasis", 0.5)

		result, err := service.Diagnose(context.Background(), image(), "")

		require.NoError(t, err)
		assert.Equal(t, "Psoriasis", result.Disease)
		assert.Equal(t, 84, result.Confidence)
		assert.Equal(t, entities.DiagnosisSourceImage, result.Source)
		assert.Equal(t, 0, seq.remaining())
	})

	t.Run("unknown image label falls back to the first catalog entry", func(t *testing.T) {
		service, _, _ := newDiagnosisService(t, "Chickenpox", 0.0)

		result, err := service.Diagnose(context.Background(), image(), "numbness in toes")

		require.NoError(t, err)
		assert.Equal(t, "Acne Vulgaris", result.Disease)
	})

	t.Run("confidence is capped at 85 before jitter", func(t *testing.T) {
		service, _, _ := newDiagnosisService(t, "Rosacea", 0.1, 0.999999)

		result, err := service.Diagnose(context.Background(), image(), "itch dry red rash flaky scaly")

		require.NoError(t, err)
		assert.Equal(t, "Eczema (Atopic Dermatitis)", result.Disease)
		assert.Equal(t, 94, result.Confidence)
	})

	t.Run("single hit gives base 63", func(t *testing.T) {
		service, _, _ := newDiagnosisService(t, "Rosacea", 0.0, 0.0)

		result, err := service.Diagnose(context.Background(), image(), "blister")

		require.NoError(t, err)
		assert.Equal(t, "Contact Dermatitis", result.Disease)
		assert.Equal(t, 63, result.Confidence)
	})

	t.Run("classifier failure propagates and returns no result", func(t *testing.T) {
		classifier := new(MockImageClassifier)
		readErr := apperrors.NewReadError("failed to read image payload", errors.New("truncated"))
		classifier.On("Classify", mock.Anything, mock.Anything).Return("", readErr)

		service := services.NewDiagnosisService(catalog.Default(), classifier)
		result, err := service.Diagnose(context.Background(), image(), "pimple")

		assert.Nil(t, result)
		assert.True(t, apperrors.IsReadError(err))
		assert.ErrorIs(t, err, readErr)
	})

	t.Run("result does not alias the catalog", func(t *testing.T) {
		service, _, _ := newDiagnosisService(t, "Rosacea", 0.0, 0.0)

		result, err := service.Diagnose(context.Background(), image(), "pimple")
		require.NoError(t, err)
		result.Recommendations[0] = "changed"

		assert.NotEqual(t, "changed", service.Catalog().Lookup("Acne Vulgaris").Recommendations[0])
	})
}

func TestDiagnosisService_WithStubClassifier(t *testing.T) {
	cat := catalog.Default()

	t.Run("confidence stays within range", func(t *testing.T) {
		service := services.NewDiagnosisService(cat, imaging.NewStubClassifier(cat.ImageLabels(), 0))
		inputs := []string{"", "pimple and blackhead on oily skin", "itch dry red rash flaky scaly", "ring", "numbness"}

		for i := 0; i < 200; i++ {
			result, err := service.Diagnose(context.Background(), strings.NewReader("x"), inputs[i%len(inputs)])
			require.NoError(t, err)
			assert.GreaterOrEqual(t, result.Confidence, 55)
			assert.Less(t, result.Confidence, 95)
			_, ok := cat.Get(result.Disease)
			assert.True(t, ok)
		}
	})

	t.Run("empty symptoms always come from the image label set", func(t *testing.T) {
		service := services.NewDiagnosisService(cat, imaging.NewStubClassifier(cat.ImageLabels(), 0))

		for i := 0; i < 50; i++ {
			result, err := service.Diagnose(context.Background(), strings.NewReader("x"), "")
			require.NoError(t, err)
			assert.Contains(t, catalog.DefaultImageLabels, result.Disease)
			assert.Equal(t, entities.DiagnosisSourceImage, result.Source)
		}
	})

	t.Run("unreadable payload fails with read error", func(t *testing.T) {
		service := services.NewDiagnosisService(cat, imaging.NewStubClassifier(cat.ImageLabels(), 0))

		result, err := service.Diagnose(context.Background(), iotest.ErrReader(errors.New("bad file")), "pimple")

		assert.Nil(t, result)
		assert.True(t, apperrors.IsReadError(err))
	})

	t.Run("waits for the classifier before returning", func(t *testing.T) {
		service := services.NewDiagnosisService(cat, imaging.NewStubClassifier(cat.ImageLabels(), 40*time.Millisecond))

		start := time.Now()
		_, err := service.Diagnose(context.Background(), strings.NewReader("x"), "pimple")
		require.NoError(t, err)
		assert.GreaterOrEqual(t, time.Since(start), 40*time.Millisecond)
	})

	t.Run("concurrent requests share the catalog safely", func(t *testing.T) {
		service := services.NewDiagnosisService(cat, imaging.NewStubClassifier(cat.ImageLabels(), time.Millisecond))
		before := cat.Entries()

		var wg sync.WaitGroup
		for i := 0; i < 20; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := service.Diagnose(context.Background(), strings.NewReader("x"), "itchy red rash")
				assert.NoError(t, err)
			}()
		}
		wg.Wait()

		assert.Equal(t, before, cat.Entries())
	})
}
