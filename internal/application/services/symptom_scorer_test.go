package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skinsight/diagnosis/backend/internal/application/services"
	"github.com/skinsight/diagnosis/backend/internal/domain/catalog"
	"github.com/skinsight/diagnosis/backend/internal/domain/entities"
)

func scoreOf(t *testing.T, ranked []entities.ScoredCandidate, name string) int {
	t.Helper()
	for _, c := range ranked {
		if c.ConditionName == name {
			return c.Score
		}
	}
	t.Fatalf("condition %q not ranked", name)
	return 0
}

func TestSymptomScorer_Score(t *testing.T) {
	cat := catalog.Default()
	scorer := services.NewSymptomScorer(cat)

	t.Run("eczema description ranks eczema first", func(t *testing.T) {
		ranked := scorer.Score("itchy red patches, dry and flaky skin")

		require.Len(t, ranked, cat.Len())
		assert.Equal(t, "Eczema (Atopic Dermatitis)", ranked[0].ConditionName)
		assert.Equal(t, 4, ranked[0].Score)
		assert.Equal(t, 2, scoreOf(t, ranked, "Psoriasis"))
	})

	t.Run("acne description scores three hits", func(t *testing.T) {
		ranked := scorer.Score("pimple and blackhead on oily skin")

		assert.Equal(t, "Acne Vulgaris", ranked[0].ConditionName)
		assert.Equal(t, 3, ranked[0].Score)
		assert.Equal(t, 1, scoreOf(t, ranked, "Seborrheic Dermatitis"))
	})

	t.Run("empty text scores zero in catalog order", func(t *testing.T) {
		ranked := scorer.Score("")

		require.Len(t, ranked, cat.Len())
		for i, c := range ranked {
			assert.Equal(t, 0, c.Score)
			assert.Equal(t, cat.Names()[i], c.ConditionName)
		}
	})

	t.Run("no keyword matches keeps catalog order", func(t *testing.T) {
		ranked := scorer.Score("numbness in toes")

		assert.Equal(t, "Acne Vulgaris", ranked[0].ConditionName)
		assert.Equal(t, 0, ranked[0].Score)
	})

	t.Run("matching is case insensitive", func(t *testing.T) {
		ranked := scorer.Score("PIMPLE BLACKHEAD OILY")
		assert.Equal(t, 3, scoreOf(t, ranked, "Acne Vulgaris"))
	})

	t.Run("keywords match inside longer words", func(t *testing.T) {
		ranked := scorer.Score("itchiness, I am bored")

		assert.Equal(t, 2, scoreOf(t, ranked, "Eczema (Atopic Dermatitis)"))
		assert.Equal(t, 1, scoreOf(t, ranked, "Psoriasis"))
	})

	t.Run("repeated keyword counts once", func(t *testing.T) {
		ranked := scorer.Score("pimple pimple pimple")
		assert.Equal(t, 1, scoreOf(t, ranked, "Acne Vulgaris"))
	})

	t.Run("multi word keyword", func(t *testing.T) {
		ranked := scorer.Score("visible vessels on my face")
		assert.Equal(t, 2, scoreOf(t, ranked, "Rosacea"))
	})

	t.Run("compatibility forms are not folded", func(t *testing.T) {
		for _, symptoms := range []string{"ｐｉｍｐｌｅ", "ＰＩＭＰＬＥ", "ﬂaky"} {
			for _, c := range scorer.Score(symptoms) {
				assert.Zero(t, c.Score, "%q scored for %s", symptoms, c.ConditionName)
			}
		}
	})

	t.Run("ties keep catalog order", func(t *testing.T) {
		// "red" hits Eczema, Psoriasis, Contact Dermatitis and Rosacea.
		ranked := scorer.Score("red")

		names := []string{}
		for _, c := range ranked[:4] {
			names = append(names, c.ConditionName)
		}
		assert.Equal(t, []string{
			"Eczema (Atopic Dermatitis)",
			"Psoriasis",
			"Contact Dermatitis",
			"Rosacea",
		}, names)
	})

	t.Run("more matching keywords never lowers score", func(t *testing.T) {
		texts := []string{"itch", "itch dry", "itch dry rash", "itch dry rash scaly"}
		prev := 0
		for _, text := range texts {
			score := scoreOf(t, scorer.Score(text), "Eczema (Atopic Dermatitis)")
			assert.GreaterOrEqual(t, score, prev, text)
			prev = score
		}
	})
}

func TestSymptomScorer_DuplicateCatalogKeywords(t *testing.T) {
	cat, err := catalog.New([]entities.Condition{
		{Name: "Hives", Keywords: []string{"itch", "itch", "Itch"}, Recommendations: []string{"Take an antihistamine"}},
		{Name: "Xerosis", Keywords: []string{"itch", "dry"}, Recommendations: []string{"Moisturize daily"}},
	}, nil)
	require.NoError(t, err)

	ranked := services.NewSymptomScorer(cat).Score("itchy and dry")
	require.Len(t, ranked, 2)

	assert.Equal(t, "Xerosis", ranked[0].ConditionName)
	assert.Equal(t, 2, ranked[0].Score)
	assert.Equal(t, "Hives", ranked[1].ConditionName)
	assert.Equal(t, 1, ranked[1].Score)
}
