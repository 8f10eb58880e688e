package bong

import (
	"github.com/jonathan/buildorder-validator/internal/types"
)

// WoodWorkers splits wood gatherers by location
type WoodWorkers struct {
	Lumber    int `json:"lumber"`
	Straggler int `json:"straggler"`
}

// FoodWorkers splits food gatherers by source
type FoodWorkers struct {
	Animals int `json:"animals"`
	Berries int `json:"berries"`
	Farms   int `json:"farms"`
}

// WorkerState is the running worker simulation for one validation run
type WorkerState struct {
	Wood  WoodWorkers `json:"wood"`
	Food  FoodWorkers `json:"food"`
	Gold  int         `json:"gold"`
	Stone int         `json:"stone"`
	Total int         `json:"total"`
}

// StepInput is one decoded step handed to a Reconciler
type StepInput struct {
	Number       int
	Step         *types.Step
	Notes        []string
	Tokens       []NoteTokens
	WorkersAdded int

	// AddedByBucket splits WorkersAdded by gathering location; adds whose image
	// is not in the resource table are left out
	AddedByBucket map[Bucket]int
}

// addTokens records a note's tokens and the workers they add
func (in *StepInput) addTokens(tokens NoteTokens) {
	in.Tokens = append(in.Tokens, tokens)
	in.WorkersAdded += tokens.WorkersAdded()
	for _, add := range tokens.Adds {
		if !add.Valid {
			continue
		}
		if placement, ok := PlacementOf(add.Image); ok {
			if in.AddedByBucket == nil {
				in.AddedByBucket = make(map[Bucket]int)
			}
			in.AddedByBucket[placement.Bucket] += add.Count
		}
	}
}

// Reconciler computes the worker state after a step from the state before it.
// It is only called for steps that produced no errors.
type Reconciler interface {
	Reconcile(pre WorkerState, step StepInput) WorkerState
}

// FinalChecker is implemented by reconcilers that cross-check the last step's
// resource metadata against the accumulated state (Rule #5).
type FinalChecker interface {
	FinalCheck(state WorkerState, last StepInput) []types.Violation
}

// MetadataReconciler trusts the step metadata: the total becomes the declared
// villager count and each resource bucket is overwritten from the step's resources.
type MetadataReconciler struct{}

// Reconcile implements Reconciler
func (MetadataReconciler) Reconcile(pre WorkerState, step StepInput) WorkerState {
	post := pre
	if step.Step == nil {
		return post
	}
	if step.Step.TracksVillagers() {
		post.Total = *step.Step.VillagerCount
	}
	if res := step.Step.Resources; res != nil {
		post.Wood.Lumber = res.Wood
		post.Food.Animals = res.Food
		post.Gold = res.Gold
		post.Stone = res.Stone
	}
	return post
}

// FinalCheck implements FinalChecker. Buckets are copied from the metadata on
// every commit, so a committed last step matches the state by construction.
func (MetadataReconciler) FinalCheck(_ WorkerState, _ StepInput) []types.Violation {
	return nil
}
