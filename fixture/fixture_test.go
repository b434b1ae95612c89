package fixture

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	scenario "github.com/pumped-fn/pumped-scenario"
)

type account struct {
	Owner   string   `yaml:"owner"`
	Balance int      `yaml:"balance"`
	Tags    []string `yaml:"tags"`
}

type point struct {
	X int
	Y int
}

func TestFromYAML(t *testing.T) {
	got, err := FromYAML[account]("testdata/account.yaml").Arrange(context.Background())
	require.NoError(t, err)

	assert.Equal(t, account{Owner: "ada", Balance: 100, Tags: []string{"premium", "verified"}}, got)
}

func TestFromYAML_MissingFile(t *testing.T) {
	_, err := FromYAML[account]("testdata/missing.yaml").Arrange(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading fixture testdata/missing.yaml")
}

func TestSeeded_IsDeterministic(t *testing.T) {
	a, err := Seeded[point](7).Arrange(context.Background())
	require.NoError(t, err)
	b, err := Seeded[point](7).Arrange(context.Background())
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestMany(t *testing.T) {
	got, err := Many[point](5).Arrange(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, 5)
}

func TestFrom_DrawsWithinGenerator(t *testing.T) {
	arranged := From(rapid.IntRange(10, 20))

	for i := 0; i < 20; i++ {
		n, err := arranged.Arrange(context.Background())
		require.NoError(t, err)
		assert.GreaterOrEqual(t, n, 10)
		assert.LessOrEqual(t, n, 20)
	}
}

func TestAny_FeedsScenario(t *testing.T) {
	test := scenario.Verify(
		scenario.Transform(Any[point](), func(_ context.Context, p point) (int, error) { return p.X + p.Y, nil }),
		func(_ context.Context, p point, sum int) error {
			if sum != p.X+p.Y {
				t.Errorf("sum %d does not match %+v", sum, p)
			}
			return nil
		},
	)

	require.NoError(t, test.Run(context.Background()))
}

func TestUUID_FreshPerRun(t *testing.T) {
	arranged := UUID()

	a, err := arranged.Arrange(context.Background())
	require.NoError(t, err)
	b, err := arranged.Arrange(context.Background())
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, a)
	assert.NotEqual(t, a, b)
}
