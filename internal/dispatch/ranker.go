package dispatch

import (
	"github.com/gb714us/csharplang/internal/conversions"
	"github.com/gb714us/csharplang/internal/typesystem"
)

// SpecificityRanker keeps the candidates no other candidate beats. A
// candidate beats another when its receiver converts to the other's receiver
// but not the reverse; with equivalent receivers a non-generic method beats a
// generic one.
type SpecificityRanker struct {
	Conversions *conversions.Classifier
}

func (r *SpecificityRanker) Best(_ typesystem.Type, candidates []Candidate) []Candidate {
	var best []Candidate
	for i, c := range candidates {
		beaten := false
		for j, other := range candidates {
			if i != j && r.better(other, c) {
				beaten = true
				break
			}
		}
		if !beaten {
			best = append(best, c)
		}
	}
	return best
}

func (r *SpecificityRanker) better(a, b Candidate) bool {
	ab := r.Conversions.Classify(a.Receiver, b.Receiver).Exists()
	ba := r.Conversions.Classify(b.Receiver, a.Receiver).Exists()
	if ab != ba {
		return ab
	}
	if !ab {
		return false
	}
	return len(a.Method.TypeParams) == 0 && len(b.Method.TypeParams) > 0
}
