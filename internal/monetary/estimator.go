package monetary

import (
	"context"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/donorlens/leverage-cli/internal/model"
	"github.com/donorlens/leverage-cli/internal/store"
)

// cacheTTL bounds how long a classification stays valid. Race categories
// rarely change inside a cycle, but the table itself may be tuned.
const cacheTTL = time.Hour

// Estimator turns classified races into monetary estimates. The cache is
// optional; without one every batch re-classifies.
type Estimator struct {
	classifier *LLMClassifier
	cache      store.Store
}

// NewEstimator builds an Estimator. Both arguments may be nil.
func NewEstimator(classifier *LLMClassifier, cache store.Store) *Estimator {
	return &Estimator{classifier: classifier, cache: cache}
}

// cacheKey identifies a race for classification caching. The provider race ID
// is preferred; the position name and level stand in when it is absent.
func cacheKey(race model.Race) string {
	if race.ID != "" {
		return "race_" + race.ID
	}
	return fmt.Sprintf("pos_%s_%s", race.Level, race.Name)
}

// EstimateBatch classifies the given races and returns one estimate per race,
// in order. Cached categories skip the classifier; fresh classifications are
// written back with first-writer-wins semantics.
func (e *Estimator) EstimateBatch(ctx context.Context, races []model.Race, donationAmount float64) []model.MonetaryEstimate {
	categories := make([]string, len(races))
	methods := make([]string, len(races))

	var uncached []model.Race
	var uncachedIdx []int
	for i, r := range races {
		if cat, ok := e.cachedCategory(ctx, r); ok {
			categories[i] = cat
			methods[i] = "cached"
			continue
		}
		uncached = append(uncached, r)
		uncachedIdx = append(uncachedIdx, i)
	}

	if len(uncached) > 0 {
		method := "rule_based"
		if e.classifier != nil && e.classifier.client != nil {
			method = "llm"
		}
		fresh := e.classifier.ClassifyBatch(ctx, uncached)
		for j, cat := range fresh {
			i := uncachedIdx[j]
			categories[i] = cat
			methods[i] = method
			e.storeCategory(ctx, uncached[j], cat)
		}
	}

	out := make([]model.MonetaryEstimate, len(races))
	for i, r := range races {
		out[i] = buildEstimate(r, categories[i], methods[i], donationAmount)
	}
	return out
}

func buildEstimate(race model.Race, category, method string, donationAmount float64) model.MonetaryEstimate {
	band := RangeFor(category)
	volume := TotalVolume(band.Mid(), len(race.Candidacies))

	est := model.MonetaryEstimate{
		Category:    category,
		MinPerCand:  band.Min,
		MaxPerCand:  band.Max,
		MidPerCand:  band.Mid(),
		TotalVolume: volume,
		Multiplier:  Multiplier(donationAmount, volume),
		Method:      method,
	}
	if donationAmount > 0 {
		est.DonationAmount = donationAmount
	}
	return est
}

func (e *Estimator) cachedCategory(ctx context.Context, race model.Race) (string, bool) {
	if e.cache == nil {
		return "", false
	}
	cat, ok, err := e.cache.GetCachedCategory(ctx, cacheKey(race))
	if err != nil {
		zap.L().Warn("category cache read failed", zap.String("race", race.Name), zap.Error(err))
		return "", false
	}
	if !ok || !KnownCategory(cat) {
		return "", false
	}
	return cat, true
}

func (e *Estimator) storeCategory(ctx context.Context, race model.Race, category string) {
	if e.cache == nil {
		return
	}
	if err := e.cache.PutCategoryIfAbsent(ctx, cacheKey(race), category, cacheTTL); err != nil {
		zap.L().Warn("category cache write failed", zap.String("race", race.Name), zap.Error(err))
	}
}

// TotalVolume estimates total race spending: the per-candidate midpoint times
// the candidate count. Zero candidates yields zero.
func TotalVolume(midPerCandidate float64, candidateCount int) float64 {
	if candidateCount <= 0 {
		return 0
	}
	return midPerCandidate * float64(candidateCount)
}

// Multiplier scales a donation's leverage by its share of total race volume.
// Logarithmic so larger donations see diminishing returns:
//
//	0.1% of volume -> ~1.6, 1% -> ~2.4, 10% -> ~3.4, 100% -> ~4.6
//
// Returns exactly 1.0 when the donation or the volume is not positive.
func Multiplier(donationAmount, totalVolume float64) float64 {
	if totalVolume <= 0 || donationAmount <= 0 {
		return 1.0
	}
	proportion := math.Min(donationAmount/totalVolume, 1.0)
	m := 1.0 + math.Log10(1.0+proportion*1000)*2.0
	return math.Max(0.5, math.Min(5.0, m))
}
