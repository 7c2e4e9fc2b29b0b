package rules

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pwpolicy/internal/policy/models"
)

type stubReuse struct {
	reused bool
	calls  int
}

func (s *stubReuse) IsReused(context.Context, string, string) bool {
	s.calls++
	return s.reused
}

func ptr(s string) *string { return &s }

func kinds(violations []models.Violation) []models.ViolationKind {
	out := make([]models.ViolationKind, 0, len(violations))
	for _, v := range violations {
		out = append(out, v.Kind)
	}
	return out
}

func TestNilPasswordShortCircuits(t *testing.T) {
	reuse := &stubReuse{reused: true}
	got := Evaluate(context.Background(), Input{UserID: "hossain", Reuse: reuse})

	assert.Equal(t, []models.Violation{{Kind: models.ViolationPasswordNull}}, got)
	assert.Zero(t, reuse.calls)
}

func TestMinLength(t *testing.T) {
	tests := []struct {
		name       string
		password   string
		configured int
		violation  *models.Violation
	}{
		{name: "shorter than minimum", password: "Ab1!", configured: 12,
			violation: &models.Violation{Kind: models.ViolationMinLength, Params: []any{12, 4}}},
		{name: "exactly minimum", password: "Abcdefgh12!x", configured: 12},
		{name: "zero falls back to default", password: "Ab1!", configured: 0,
			violation: &models.Violation{Kind: models.ViolationMinLength, Params: []any{12, 4}}},
		{name: "negative falls back to default", password: "Ab1!", configured: -3,
			violation: &models.Violation{Kind: models.ViolationMinLength, Params: []any{12, 4}}},
		{name: "custom minimum", password: "Ab1!Ab1!", configured: 8},
		{name: "counts characters not bytes", password: "Ab1!€€€€€€€", configured: 12,
			violation: &models.Violation{Kind: models.ViolationMinLength, Params: []any{12, 11}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, failed := checkMinLength(tt.password, tt.configured)
			if tt.violation == nil {
				assert.False(t, failed)
				return
			}
			require.True(t, failed)
			assert.Equal(t, *tt.violation, v)
		})
	}
}

func TestForbiddenWordsReportsFirstMatchOnly(t *testing.T) {
	tokens := []string{"2024", "hossain", "shahadat", "dewan"}

	v, failed := checkForbiddenWords("DewanShahadat!", tokens)
	require.True(t, failed)
	assert.Equal(t, []any{"shahadat"}, v.Params)

	v, failed = checkForbiddenWords("x2024xHOSSAIN", tokens)
	require.True(t, failed)
	assert.Equal(t, []any{"2024"}, v.Params)

	_, failed = checkForbiddenWords("Unrelated!Pass9", tokens)
	assert.False(t, failed)

	_, failed = checkForbiddenWords("anything", nil)
	assert.False(t, failed)
}

func TestComplexity(t *testing.T) {
	t.Run("two groups fail with full detail", func(t *testing.T) {
		v, failed := checkComplexity("shahadat123456")
		require.True(t, failed)
		assert.Equal(t, []any{
			[]models.CharGroup{models.GroupDigits, models.GroupLowercase},
			[]models.CharGroup{models.GroupUppercase, models.GroupSymbols},
		}, v.Params)
	})

	t.Run("one group lists three missing", func(t *testing.T) {
		v, failed := checkComplexity("abcdefghijkl")
		require.True(t, failed)
		assert.Len(t, v.Params[1], 3)
	})

	t.Run("three groups pass", func(t *testing.T) {
		_, failed := checkComplexity("abcDEF123456")
		assert.False(t, failed)
	})

	t.Run("four groups pass", func(t *testing.T) {
		_, failed := checkComplexity("MyStr0ng!Pass")
		assert.False(t, failed)
	})

	t.Run("characters outside every group count for nothing", func(t *testing.T) {
		found, missing := Groups("~~~___")
		assert.Empty(t, found)
		assert.Len(t, missing, 4)
	})
}

func TestDisallowedChars(t *testing.T) {
	v, failed := checkDisallowedChars("a+b+c+")
	require.True(t, failed)
	assert.Equal(t, []any{[]string{"+"}}, v.Params)

	v, failed = checkDisallowedChars("São-Paulo+ção")
	require.True(t, failed)
	assert.Equal(t, []any{[]string{"ã", "-", "+", "ç"}}, v.Params)

	_, failed = checkDisallowedChars("MyStr0ng!Pass")
	assert.False(t, failed)
}

func TestEvaluatePipeline(t *testing.T) {
	ctx := context.Background()

	t.Run("scenario A forbidden name token", func(t *testing.T) {
		got := Evaluate(ctx, Input{
			Password:  ptr("shahadat123456"),
			UserID:    "hossain",
			Tokens:    []string{"hossain", "shahadat", "dewan"},
			MinLength: 12,
		})
		require.NotEmpty(t, got)
		assert.Equal(t, models.ViolationForbiddenWord, got[0].Kind)
		assert.Equal(t, []any{"shahadat"}, got[0].Params)
	})

	t.Run("scenario C strong password passes", func(t *testing.T) {
		assert.Empty(t, Evaluate(ctx, Input{Password: ptr("MyStr0ng!Pass"), MinLength: 12}))
	})

	t.Run("scenario D plus sign", func(t *testing.T) {
		got := Evaluate(ctx, Input{Password: ptr("Valid+Pass123"), MinLength: 12})
		require.Len(t, got, 1)
		assert.Equal(t, models.ViolationDisallowedChars, got[0].Kind)
		assert.Equal(t, []any{[]string{"+"}}, got[0].Params)
	})

	t.Run("history violation comes first and others still run", func(t *testing.T) {
		got := Evaluate(ctx, Input{
			Password:  ptr("short+"),
			UserID:    "hossain",
			MinLength: 12,
			Reuse:     &stubReuse{reused: true},
		})
		assert.Equal(t, []models.ViolationKind{
			models.ViolationHistoryReuse,
			models.ViolationMinLength,
			models.ViolationComplexity,
			models.ViolationDisallowedChars,
		}, kinds(got))
	})

	t.Run("history skipped without a user", func(t *testing.T) {
		reuse := &stubReuse{reused: true}
		got := Evaluate(ctx, Input{Password: ptr("MyStr0ng!Pass"), Reuse: reuse})
		assert.Empty(t, got)
		assert.Zero(t, reuse.calls)
	})
}
