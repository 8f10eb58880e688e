package types

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
)

// OngoingVillagerCount marks a step whose villager count is not tracked
const OngoingVillagerCount = -1

// ErrStepsNotList is returned when build_order is not a JSON array
var ErrStepsNotList = errors.New("'build_order' must be a list")

// BuildOrder represents a build order file as consumed by the overlay.
// Steps are kept raw so a malformed step is reported against its own index
// rather than failing the whole decode; descriptive fields are kept raw so a
// wrongly typed one does not hide the notation checks.
type BuildOrder struct {
	Name         json.RawMessage `json:"name,omitempty"`
	Civilization json.RawMessage `json:"civilization,omitempty"`
	Author       json.RawMessage `json:"author,omitempty"`
	Steps        json.RawMessage `json:"build_order,omitempty"`
}

// Text renders a descriptive field for display: strings are unquoted, lists of
// strings are joined with ", " and anything else is shown as raw JSON.
func Text(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return strings.Join(list, ", ")
	}
	return string(raw)
}

// HasSteps reports whether the build_order key was present in the document
func (b *BuildOrder) HasSteps() bool {
	return len(b.Steps) > 0
}

// DecodeSteps splits build_order into its raw step objects. A JSON null yields no steps.
func (b *BuildOrder) DecodeSteps() ([]json.RawMessage, error) {
	trimmed := bytes.TrimSpace(b.Steps)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}
	if trimmed[0] != '[' {
		return nil, ErrStepsNotList
	}
	var steps []json.RawMessage
	if err := json.Unmarshal(trimmed, &steps); err != nil {
		return nil, err
	}
	return steps, nil
}

// Step represents one entry of a build order
type Step struct {
	Age           *int            `json:"age,omitempty"`
	VillagerCount *int            `json:"villager_count,omitempty"`
	Resources     *Resources      `json:"resources,omitempty"`
	Notes         json.RawMessage `json:"notes,omitempty"`
}

// TracksVillagers reports whether the step declares a villager count to check.
// Any negative count, including OngoingVillagerCount, is untracked.
func (s *Step) TracksVillagers() bool {
	return s.VillagerCount != nil && *s.VillagerCount >= 0
}

// Resources holds the declared worker counts per resource
type Resources struct {
	Wood    int  `json:"wood"`
	Food    int  `json:"food"`
	Gold    int  `json:"gold"`
	Stone   int  `json:"stone"`
	Builder *int `json:"builder,omitempty"`
}
