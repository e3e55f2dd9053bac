package schema

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var outgoSchema = Schema{
	"applier":      {Kind: Array, Required: true, Items: &Field{Kind: String}},
	"approver":     {Kind: String, Required: true},
	"reason":       {Kind: String, Required: true},
	"detailReason": {Kind: String, Default: ""},
	"duration": {Kind: Object, Required: true, Fields: Schema{
		"start": {Kind: Date, Required: true},
		"end":   {Kind: Date, Required: true},
	}},
}

func TestValidate_MissingRequiredFields(t *testing.T) {
	s := Schema{
		"location": {Kind: String, Required: true},
		"remark":   {Kind: String, Required: true},
	}

	_, err := s.Validate(map[string]any{"location": "gate-1"})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"remark"}, verr.Fields())
	assert.Equal(t, "is required", verr.Errors[0].Constraint)
}

func TestValidate_ReportsEveryFailingField(t *testing.T) {
	_, err := outgoSchema.Validate(map[string]any{
		"applier":  []any{"a", 3.0},
		"duration": map[string]any{"start": "not-a-date"},
	})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.ElementsMatch(t, []string{
		"applier[1]", "approver", "duration.end", "duration.start", "reason",
	}, verr.Fields())
}

func TestValidate_AppliesDefaults(t *testing.T) {
	out, err := outgoSchema.Validate(map[string]any{
		"applier":  []any{"s1"},
		"approver": "t1",
		"reason":   "hospital",
		"duration": map[string]any{"start": "2026-10-19T09:00:00Z", "end": "2026-10-19T11:00:00Z"},
	})

	require.NoError(t, err)
	assert.Equal(t, "", out["detailReason"])
	duration := out["duration"].(map[string]any)
	assert.Equal(t, time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC), duration["start"])
}

func TestValidate_SliceDefaultIsCopied(t *testing.T) {
	s := Schema{"lunch": {Kind: Array, Items: &Field{Kind: String}, Default: []string{}}}

	first, err := s.Validate(map[string]any{})
	require.NoError(t, err)
	second, err := s.Validate(map[string]any{})
	require.NoError(t, err)

	first["lunch"] = append(first["lunch"].([]string), "rice")
	assert.Empty(t, second["lunch"])
}

func TestValidate_Enum(t *testing.T) {
	s := Schema{"time": {Kind: Int, Required: true, Enum: []any{1, 2}}}

	t.Run("member", func(t *testing.T) {
		out, err := s.Validate(map[string]any{"time": 2.0})
		require.NoError(t, err)
		assert.Equal(t, 2, out["time"])
	})

	t.Run("outside the set", func(t *testing.T) {
		_, err := s.Validate(map[string]any{"time": 3.0})
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "must be one of [1, 2]", verr.Errors[0].Constraint)
	})

	t.Run("string enum", func(t *testing.T) {
		status := Schema{"status": {Kind: String, Required: true, Enum: []any{"approved", "denied"}}}
		_, err := status.Validate(map[string]any{"status": "applied"})
		assert.Error(t, err)
		_, err = status.Validate(map[string]any{"status": "denied"})
		assert.NoError(t, err)
	})
}

func TestValidate_TypeConformance(t *testing.T) {
	s := Schema{
		"name":  {Kind: String},
		"grade": {Kind: Int},
		"date":  {Kind: Date},
	}

	_, err := s.Validate(map[string]any{"name": 1.0, "grade": 1.5, "date": true})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []FieldError{
		{Field: "date", Constraint: "must be a valid date"},
		{Field: "grade", Constraint: "must be an integer"},
		{Field: "name", Constraint: "must be a string"},
	}, verr.Errors)
}

func TestValidate_IntOutOfRange(t *testing.T) {
	s := Schema{"grade": {Kind: Int, Required: true}}

	for _, raw := range []any{1e20, 1.8e19, -1e20, "9223372036854775808", "1e20"} {
		_, err := s.Validate(map[string]any{"grade": raw})

		var verr *ValidationError
		require.ErrorAs(t, err, &verr, "grade=%v", raw)
		assert.Equal(t, []FieldError{{Field: "grade", Constraint: "must be an integer"}}, verr.Errors)
	}

	out, err := s.Validate(map[string]any{"grade": "3"})
	require.NoError(t, err)
	assert.Equal(t, 3, out["grade"])
}

func TestValidate_DatesWithoutOffsetUseSchoolZone(t *testing.T) {
	kst := time.FixedZone("KST", 9*60*60)
	SetLocation(kst)
	t.Cleanup(func() { SetLocation(time.UTC) })

	s := Schema{"start": {Kind: Date, Required: true}}

	cases := map[string]time.Time{
		"2026-10-19T09:00":          time.Date(2026, 10, 19, 9, 0, 0, 0, kst),
		"2026-10-19T09:00:30":       time.Date(2026, 10, 19, 9, 0, 30, 0, kst),
		"2026-10-19":                time.Date(2026, 10, 19, 0, 0, 0, 0, kst),
		"2026-10-19T09:00:00Z":      time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC),
		"2026-10-19T09:00:00+09:00": time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC),
	}
	for raw, want := range cases {
		out, err := s.Validate(map[string]any{"start": raw})
		require.NoError(t, err, raw)
		got := out["start"].(time.Time)
		assert.True(t, want.Equal(got), "%s: want %s, got %s", raw, want, got)
	}
}

func TestValidate_EmptyStringRejected(t *testing.T) {
	s := Schema{"remark": {Kind: String, Required: true}}
	_, err := s.Validate(map[string]any{"remark": ""})
	assert.Error(t, err)
}

func TestValidate_IgnoresUnknownFields(t *testing.T) {
	s := Schema{"location": {Kind: String, Required: true}}

	out, err := s.Validate(map[string]any{"location": "gate-1", "student": "someone-else"})

	require.NoError(t, err)
	assert.Equal(t, map[string]any{"location": "gate-1"}, out)
}

func TestFromQuery_CoercesNumbers(t *testing.T) {
	s := Schema{
		"grade": {Kind: Int, Required: true},
		"class": {Kind: Int, Required: true},
	}

	out, err := s.Validate(FromQuery(url.Values{"grade": {"2"}, "class": {"3"}}))

	require.NoError(t, err)
	assert.Equal(t, 2, out["grade"])
	assert.Equal(t, 3, out["class"])
}
