package check

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/onsi/gomega"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	scenario "github.com/pumped-fn/pumped-scenario"
)

type order struct {
	ID    string
	Items []string
	note  string
}

func TestEqual(t *testing.T) {
	want := order{ID: "o-1", Items: []string{"tea"}}

	assert.NoError(t, Equal(want, cmpopts.IgnoreUnexported(order{}))(order{ID: "o-1", Items: []string{"tea"}, note: "x"}))

	err := Equal(want, cmpopts.IgnoreUnexported(order{}))(order{ID: "o-2", Items: []string{"tea"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "result mismatch (-want +got):")
	assert.Contains(t, err.Error(), `"o-1"`)
	assert.Contains(t, err.Error(), `"o-2"`)
}

func TestMatches(t *testing.T) {
	assert.NoError(t, Matches[string](gomega.ContainSubstring("lo w"))("hello world"))
	assert.NoError(t, Matches[[]int](gomega.HaveLen(2))([]int{1, 2}))

	err := Matches[int](gomega.BeNumerically(">", 10))(3)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "to be >")

	err = Matches[string](gomega.BeNumerically(">", 10))("three")
	require.Error(t, err, "matcher errors are reported as failures")
}

func TestWith_ReportsEveryFailure(t *testing.T) {
	c := With(func(t assert.TestingT, got []int) {
		assert.Len(t, got, 3)
		assert.Contains(t, got, 9)
		assert.NotEmpty(t, got)
	})

	assert.NoError(t, c([]int{1, 2, 9}))

	err := c([]int{1})
	var agg *scenario.AssertionErrors
	require.ErrorAs(t, err, &agg)
	assert.Len(t, agg.Errs, 2)
}

func TestWithRequire_StopsAtFirstFailure(t *testing.T) {
	reached := false
	c := WithRequire(func(t require.TestingT, got string) {
		require.NotEmpty(t, got)
		reached = true
		require.Equal(t, "ok", got)
	})

	err := c("")
	require.Error(t, err)
	assert.False(t, reached)
	assert.False(t, isAggregate(err))

	reached = false
	assert.NoError(t, c("ok"))
	assert.True(t, reached)
}

func TestWithRequire_PropagatesOtherPanics(t *testing.T) {
	c := WithRequire(func(t require.TestingT, got int) {
		panic("unrelated")
	})

	assert.PanicsWithValue(t, "unrelated", func() { _ = c(1) })
}

func TestAll(t *testing.T) {
	positive := func(x int) error {
		if x <= 0 {
			return errors.New("not positive")
		}
		return nil
	}
	even := func(x int) error {
		if x%2 != 0 {
			return errors.New("not even")
		}
		return nil
	}

	assert.NoError(t, All(positive, even)(4))
	assert.EqualError(t, All(positive, even)(3), "not even")

	err := All(positive, even, Equal(2))(-1)
	var agg *scenario.AssertionErrors
	require.ErrorAs(t, err, &agg)
	assert.Len(t, agg.Errs, 3)
	assert.True(t, strings.HasPrefix(err.Error(), "3 assertions failed:"))
}

func isAggregate(err error) bool {
	_, ok := err.(*scenario.AssertionErrors)
	return ok
}
