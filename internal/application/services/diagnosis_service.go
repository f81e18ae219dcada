package services

import (
	"context"
	"io"
	"math"
	"math/rand/v2"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"github.com/skinsight/diagnosis/backend/internal/domain/catalog"
	"github.com/skinsight/diagnosis/backend/internal/domain/entities"
	"github.com/skinsight/diagnosis/backend/internal/domain/providers"
	"github.com/skinsight/diagnosis/backend/internal/infrastructure/observability"
)

const (
	// imageEffectiveScore stands in for a keyword-hit count when the image
	// label is chosen.
	imageEffectiveScore = 3

	minConfidence     = 55
	maxBaseConfidence = 85
	confidencePerHit  = 8
	confidenceJitter  = 10
	imageOverrideOdds = 0.5
)

// RandomSource yields uniform floats in [0, 1).
type RandomSource interface {
	Float64() float64
}

type globalRandom struct{}

func (globalRandom) Float64() float64 { return rand.Float64() }

// DiagnosisService combines the symptom ranking and the image label into a
// single diagnosis.
type DiagnosisService struct {
	catalog    *catalog.Catalog
	scorer     *SymptomScorer
	classifier providers.ImageClassifier
	random     RandomSource
	metrics    *observability.Metrics
}

// NewDiagnosisService creates a new diagnosis service.
func NewDiagnosisService(cat *catalog.Catalog, classifier providers.ImageClassifier) *DiagnosisService {
	return &DiagnosisService{
		catalog:    cat,
		scorer:     NewSymptomScorer(cat),
		classifier: classifier,
		random:     globalRandom{},
	}
}

// SetRandomSource replaces the source used for the override coin flip and
// the confidence jitter. The source must be safe for concurrent use if the
// service is.
func (s *DiagnosisService) SetRandomSource(random RandomSource) {
	s.random = random
}

// SetMetrics enables diagnosis metrics.
func (s *DiagnosisService) SetMetrics(metrics *observability.Metrics) {
	s.metrics = metrics
}

// Catalog returns the catalog the service diagnoses against.
func (s *DiagnosisService) Catalog() *catalog.Catalog {
	return s.catalog
}

// Diagnose classifies image and scores symptoms concurrently, then picks a
// condition. It fails only when the image classifier fails.
func (s *DiagnosisService) Diagnose(ctx context.Context, image io.Reader, symptoms string) (*entities.DiagnosisResult, error) {
	ctx, span := observability.StartSpan(ctx, "DiagnosisService.Diagnose")
	defer span.End()

	logger := observability.LoggerFromContext(ctx)

	var (
		label  string
		ranked []entities.ScoredCandidate
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		l, err := s.classifier.Classify(gctx, image)
		if err != nil {
			return err
		}
		label = l
		return nil
	})
	g.Go(func() error {
		ranked = s.scorer.Score(symptoms)
		return nil
	})
	if err := g.Wait(); err != nil {
		observability.RecordError(span, err)
		logger.Warn().Err(err).Msg("image classification failed")
		return nil, err
	}

	result := s.combine(ranked, label)

	observability.SetSpanAttributes(span,
		attribute.String("diagnosis.disease", result.Disease),
		attribute.String("diagnosis.source", string(result.Source)),
		attribute.Int("diagnosis.confidence", result.Confidence),
	)
	if s.metrics != nil {
		observability.RecordDiagnosisMetric(ctx, s.metrics, result.Disease, string(result.Source))
	}
	logger.Debug().
		Str("disease", result.Disease).
		Str("source", string(result.Source)).
		Int("confidence", result.Confidence).
		Int("top_score", ranked[0].Score).
		Str("image_label", label).
		Msg("diagnosis complete")

	return result, nil
}

func (s *DiagnosisService) combine(ranked []entities.ScoredCandidate, imageLabel string) *entities.DiagnosisResult {
	top := ranked[0]
	chosen, score, source := top.ConditionName, top.Score, entities.DiagnosisSourceSymptoms

	// The coin is only flipped when symptoms matched something.
	if top.Score == 0 || s.random.Float64() > imageOverrideOdds {
		chosen, score, source = imageLabel, imageEffectiveScore, entities.DiagnosisSourceImage
	}

	condition := s.catalog.Lookup(chosen)

	return &entities.DiagnosisResult{
		Disease:         condition.Name,
		Confidence:      s.confidence(score),
		Description:     condition.Description,
		Recommendations: condition.Recommendations,
		Source:          source,
	}
}

// confidence maps a keyword-hit count to a percentage in [55, 95).
func (s *DiagnosisService) confidence(score int) int {
	base := min(maxBaseConfidence, minConfidence+score*confidencePerHit)
	return int(math.Floor(float64(base) + s.random.Float64()*confidenceJitter))
}
