package bong

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/jonathan/buildorder-validator/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustBuildOrder(t *testing.T, content string) *types.BuildOrder {
	t.Helper()
	var doc types.BuildOrder
	require.NoError(t, json.Unmarshal([]byte(content), &doc))
	return &doc
}

func validate(t *testing.T, content string) types.ValidationResult {
	t.Helper()
	return NewValidator().ValidateResult("test.json", mustBuildOrder(t, content))
}

func TestValidate_SingleStepValid(t *testing.T) {
	result := validate(t, `{
		"name": "A",
		"build_order": [
			{"villager_count": 3, "notes": ["3 - @resource/Aoe2de_wood.png@₃"]}
		]
	}`)

	assert.True(t, result.Valid)
	assert.Empty(t, result.Errors)
	assert.Empty(t, result.Warnings)
}

func TestValidate_WorkerCountMismatch(t *testing.T) {
	result := validate(t, `{
		"name": "B",
		"build_order": [
			{"villager_count": 5, "notes": ["3 - @resource/Aoe2de_wood.png@₃"]}
		]
	}`)

	assert.False(t, result.Valid)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "Step 1: Worker count mismatch. Metadata: 5, Calculated: 3 (Rule #3)", result.Errors[0])
}

func TestValidate_CalculationNotation(t *testing.T) {
	result := validate(t, `{
		"name": "C",
		"build_order": [
			{"villager_count": -1, "notes": ["(2+1) - @resource/Aoe2de_gold.png@₃"]}
		]
	}`)

	assert.False(t, result.Valid)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "Step 1, line 1")
	assert.Contains(t, result.Errors[0], "(Rule #6)")
	assert.Contains(t, result.Errors[0], "(2+1)")
	assert.Contains(t, result.Errors[0], "write 3 instead")
}

func TestValidate_CalculationFiresPerOccurrence(t *testing.T) {
	result := validate(t, `{
		"build_order": [
			{"villager_count": -1, "notes": ["(2+1) on wood and (1+1) on gold"]}
		]
	}`)

	require.Len(t, result.Errors, 2)
	for _, e := range result.Errors {
		assert.Contains(t, e, "(Rule #6)")
	}
}

func TestValidate_ArrowSpacing(t *testing.T) {
	result := validate(t, `{
		"build_order": [
			{"villager_count": -1, "notes": [
				"1@animal/Sheep_aoe2DE.png@₂→ @resource/Aoe2de_wood.png@₄",
				"1@animal/Sheep_aoe2DE.png@₁ → @resource/Aoe2de_wood.png@₅"
			]}
		]
	}`)

	require.Len(t, result.Errors, 1)
	assert.Equal(t, "Step 1, line 1: Missing space before arrow (Rule #8)", result.Errors[0])
}

func TestValidate_InstructionalText(t *testing.T) {
	result := validate(t, `{
		"build_order": [
			{"villager_count": -1, "notes": ["Make sure to research loom"]}
		]
	}`)

	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "(Rule #7)")
}

func TestValidate_InvalidAddSubscript(t *testing.T) {
	result := validate(t, `{
		"build_order": [
			{"villager_count": 0, "notes": ["3 - @resource/Aoe2de_wood.png@3"]}
		]
	}`)

	require.Len(t, result.Errors, 1, "the invalid add contributes nothing, so the count of 0 matches")
	assert.Equal(t, "Step 1, line 1: Invalid subscript, write ₃ instead of 3", result.Errors[0])
}

func TestValidate_InvalidMoveSubscript(t *testing.T) {
	result := validate(t, `{
		"build_order": [
			{"villager_count": -1, "notes": ["1@animal/Sheep_aoe2DE.png@2 → @resource/Aoe2de_wood.png@₄"]}
		]
	}`)

	require.Len(t, result.Errors, 1)
	assert.Equal(t, "Step 1, line 1: Invalid subscript in movement, write ₂ instead of 2 (Rule #11)", result.Errors[0])
}

func TestValidate_TemporaryMustReturn(t *testing.T) {
	result := validate(t, `{
		"build_order": [
			{"villager_count": -1, "notes": [
				"1@resource/Aoe2de_wood.png@ → @house/House_aoe2DE.png@ → @resource/Aoe2de_wood.png@",
				"1@resource/Aoe2de_wood.png@ → @house/House_aoe2DE.png@ → @resource/Aoe2de_gold.png@"
			]}
		]
	}`)

	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "Step 1, line 2")
	assert.Contains(t, result.Errors[0], "(Rule #10)")
}

func TestValidate_SeveralRoundTripsInOneNote(t *testing.T) {
	result := validate(t, `{
		"build_order": [
			{"villager_count": -1, "notes": [
				"1@resource/Aoe2de_wood.png@ → @house/House_aoe2DE.png@ → @resource/Aoe2de_wood.png@, 1@resource/Aoe2de_gold.png@ → @house/House_aoe2DE.png@ → @resource/Aoe2de_gold.png@",
				"1@resource/Aoe2de_wood.png@ → @house/House_aoe2DE.png@ → @resource/Aoe2de_wood.png@, 2@animal/Sheep_aoe2DE.png@₃ → @resource/Aoe2de_gold.png@₂"
			]}
		]
	}`)

	assert.True(t, result.Valid, "errors: %v", result.Errors)
	assert.Empty(t, result.Errors)
}

func TestValidate_CumulativeCounts(t *testing.T) {
	doc := `{
		"build_order": [
			{"villager_count": 3, "notes": ["3 - @animal/Sheep_aoe2DE.png@₃"]},
			{"villager_count": %d, "notes": ["2 - @resource/Aoe2de_wood.png@₂"]}
		]
	}`

	result := validate(t, fmt.Sprintf(doc, 5))
	assert.True(t, result.Valid)

	result = validate(t, fmt.Sprintf(doc, 6))
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "Step 2: Worker count mismatch. Metadata: 6, Calculated: 5 (Rule #3)", result.Errors[0])
}

func TestValidate_UntrackedStepKeepsTotal(t *testing.T) {
	result := validate(t, `{
		"build_order": [
			{"villager_count": 3, "notes": ["3 - @animal/Sheep_aoe2DE.png@₃"]},
			{"villager_count": -1, "notes": ["Build a house"]},
			{"villager_count": 4, "notes": ["1 - @resource/Aoe2de_wood.png@₁"]}
		]
	}`)

	assert.True(t, result.Valid, "errors: %v", result.Errors)
}

func TestValidate_FailedStepIsNotCommitted(t *testing.T) {
	result := validate(t, `{
		"build_order": [
			{"villager_count": 5, "notes": ["3 - @animal/Sheep_aoe2DE.png@₃"]},
			{"villager_count": 2, "notes": ["2 - @resource/Aoe2de_wood.png@₂"]}
		]
	}`)

	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "Step 1:")
}

func TestValidate_FileLevelErrors(t *testing.T) {
	result := validate(t, `{"name": "no steps"}`)
	assert.Equal(t, []string{"Missing 'build_order' field"}, result.Errors)

	result = validate(t, `{"build_order": []}`)
	assert.Equal(t, []string{"Build order has no steps"}, result.Errors)

	result = validate(t, `{"build_order": null}`)
	assert.Equal(t, []string{"Build order has no steps"}, result.Errors)

	result = validate(t, `{"build_order": {"age": 1}}`)
	assert.Equal(t, []string{"'build_order' must be a list"}, result.Errors)
}

func TestValidate_StepShapeErrors(t *testing.T) {
	result := validate(t, `{
		"build_order": [
			{"villager_count": 0},
			{"villager_count": 0, "notes": "3 - @resource/Aoe2de_wood.png@₃"},
			{"villager_count": 3, "notes": [7, "3 - @resource/Aoe2de_wood.png@₃"]},
			"not a step"
		]
	}`)

	require.Len(t, result.Errors, 4)
	assert.Equal(t, "Step 1: Missing 'notes' field", result.Errors[0])
	assert.Equal(t, "Step 2: 'notes' must be a list", result.Errors[1])
	assert.Equal(t, "Step 3, line 1: Note must be a string", result.Errors[2])
	assert.Contains(t, result.Errors[3], "Step 4: Malformed step")
}

func TestValidate_Idempotent(t *testing.T) {
	doc := mustBuildOrder(t, `{
		"build_order": [
			{"villager_count": 3, "notes": ["3 - @animal/Sheep_aoe2DE.png@₃"]},
			{"villager_count": 5, "notes": ["2 - @resource/Aoe2de_wood.png@₂"]}
		]
	}`)
	v := NewValidator()

	first := v.ValidateResult("a.json", doc)
	second := v.ValidateResult("a.json", doc)

	assert.Equal(t, types.ValidationResult{File: "a.json", Valid: true, Errors: []string{}, Warnings: []string{}}, first)
	assert.Equal(t, first, second)
}

func TestValidate_ViolationLocations(t *testing.T) {
	doc := mustBuildOrder(t, `{
		"build_order": [
			{"villager_count": -1, "notes": ["ok", "a→b"]}
		]
	}`)

	violations := NewValidator().Validate(doc)
	require.Len(t, violations.Violations, 1)
	v := violations.Violations[0]
	assert.Equal(t, "arrow_spacing", v.Type)
	assert.Equal(t, RuleArrowSpacing, v.Rule)
	require.NotNil(t, v.StepNumber)
	require.NotNil(t, v.LineNumber)
	assert.Equal(t, 1, *v.StepNumber)
	assert.Equal(t, 2, *v.LineNumber)
}

type recordingReconciler struct {
	committed []int
	final     StepInput
}

func (r *recordingReconciler) Reconcile(pre WorkerState, step StepInput) WorkerState {
	r.committed = append(r.committed, step.Number)
	return MetadataReconciler{}.Reconcile(pre, step)
}

func (r *recordingReconciler) FinalCheck(_ WorkerState, last StepInput) []types.Violation {
	r.final = last
	return []types.Violation{{
		Type:     "metadata_notice",
		Severity: types.SeverityWarning,
		Details:  "resources not simulated (Rule #5)",
		Rule:     RuleMetadataMatch,
	}}
}

func TestValidate_ReconcilerOnlySeesCleanSteps(t *testing.T) {
	rec := &recordingReconciler{}
	v := NewValidator(WithReconciler(rec))

	result := v.ValidateResult("x.json", mustBuildOrder(t, `{
		"build_order": [
			{"villager_count": 3, "notes": ["3 - @animal/Sheep_aoe2DE.png@₃"]},
			{"villager_count": 9, "notes": ["2 - @resource/Aoe2de_wood.png@₂"]},
			{"villager_count": 4, "resources": {"wood": 1, "food": 3, "gold": 0, "stone": 0},
			 "notes": ["1 - @resource/Aoe2de_wood.png@₁", "1@animal/Sheep_aoe2DE.png@₂ → @mill/FarmDE.png@₁"]}
		]
	}`))

	assert.Equal(t, []int{1, 3}, rec.committed)
	assert.Equal(t, 3, rec.final.Number)
	assert.Equal(t, 1, rec.final.WorkersAdded)
	assert.Equal(t, map[Bucket]int{BucketStraggler: 1}, rec.final.AddedByBucket)
	assert.Len(t, rec.final.Tokens, 2)

	assert.False(t, result.Valid)
	assert.Len(t, result.Errors, 1)
	assert.Equal(t, []string{"resources not simulated (Rule #5)"}, result.Warnings)
}

func TestValidate_WarningsDoNotInvalidate(t *testing.T) {
	v := NewValidator(WithReconciler(&recordingReconciler{}))
	result := v.ValidateResult("x.json", mustBuildOrder(t, `{
		"build_order": [{"villager_count": 1, "notes": ["1 - @resource/Aoe2de_gold.png@₁"]}]
	}`))

	assert.True(t, result.Valid)
	assert.Len(t, result.Warnings, 1)
	assert.False(t, result.Clean(true))
	assert.True(t, result.Clean(false))
}

func TestMetadataReconciler(t *testing.T) {
	vc := 7
	step := &types.Step{
		VillagerCount: &vc,
		Resources:     &types.Resources{Wood: 2, Food: 3, Gold: 1, Stone: 1},
	}

	post := MetadataReconciler{}.Reconcile(WorkerState{Total: 4}, StepInput{Number: 1, Step: step})
	assert.Equal(t, 7, post.Total)
	assert.Equal(t, 2, post.Wood.Lumber)
	assert.Equal(t, 3, post.Food.Animals)
	assert.Equal(t, 1, post.Gold)
	assert.Equal(t, 1, post.Stone)

	untracked := types.OngoingVillagerCount
	post = MetadataReconciler{}.Reconcile(WorkerState{Total: 4}, StepInput{Step: &types.Step{VillagerCount: &untracked}})
	assert.Equal(t, 4, post.Total)
}

func TestCheck(t *testing.T) {
	v := NewValidator()

	result := v.Check("a.json", []byte(`{"build_order": [{"villager_count": 3, "notes": ["3 - @resource/Aoe2de_wood.png@₃"]}]}`))
	assert.True(t, result.Valid)
	assert.Equal(t, "a.json", result.File)

	result = v.Check("b.json", []byte(`[1, 2]`))
	assert.False(t, result.Valid)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "must be a JSON object")
}
