package analysis_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/finsight/internal/analysis"
)

type entityView struct {
	kind       analysis.EntityKind
	value      string
	normalized float64
	position   int
}

func view(entities []analysis.Entity) []entityView {
	out := make([]entityView, len(entities))
	for i, e := range entities {
		v := entityView{kind: e.Kind, value: e.Value, position: e.Position}
		if e.NormalizedValue != nil {
			v.normalized = *e.NormalizedValue
		}
		out[i] = v
	}
	return out
}

func TestExtract_MixedEntities(t *testing.T) {
	text := "Acme Holdings Inc reported $1.5 million in revenue on March 5, 2024."

	got := view(analysis.Default().Extract(text))

	assert.Equal(t, []entityView{
		{analysis.KindOrg, "Acme Holdings Inc", 0, 0},
		{analysis.KindMoney, "$1.5 million", 1_500_000, 27},
		{analysis.KindDate, "March 5, 2024", 1709596800, 54},
	}, got)
}

func TestExtract_Money(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		value string
		want  float64
	}{
		{"grouped with cents", "Paid $1,250.50 today", "$1,250.50", 1250.5},
		{"currency code prefix", "USD 3 million was wired", "USD 3 million", 3_000_000},
		{"currency word suffix", "40 million dollars", "40 million dollars", 40_000_000},
		{"euro billions", "€2.5bn raised", "€2.5bn", 2_500_000_000},
		{"pound thousands", "£750k fee", "£750k", 750_000},
		{"detached letter is not a scale", "Paid $5 M&A advisory fees", "$5", 5},
		{"attached letter scale", "Raised $12M today", "$12M", 12_000_000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := analysis.Default().Extract(tt.text)
			require.Len(t, got, 1)
			assert.Equal(t, analysis.KindMoney, got[0].Kind)
			assert.Equal(t, tt.value, got[0].Value)
			require.NotNil(t, got[0].NormalizedValue)
			assert.InDelta(t, tt.want, *got[0].NormalizedValue, 1e-6)
		})
	}
}

func TestExtract_Dates(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		value string
		unix  float64
	}{
		{"iso", "Filed 2024-03-31", "2024-03-31", 1711843200},
		{"us numeric", "On 03/15/2023 we", "03/15/2023", 1678838400},
		{"quarter", "Q3 2024 results", "Q3 2024", 1719792000},
		{"fiscal year", "FY2023 close", "FY2023", 1672531200},
		{"day month year", "15 January 2024", "15 January 2024", 1705276800},
		{"month year", "June 2024 close", "June 2024", 1717200000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := analysis.Default().Extract(tt.text)
			require.Len(t, got, 1)
			assert.Equal(t, analysis.KindDate, got[0].Kind)
			assert.Equal(t, tt.value, got[0].Value)
			require.NotNil(t, got[0].NormalizedValue)
			assert.Equal(t, tt.unix, *got[0].NormalizedValue)
		})
	}
}

func TestExtract_InvalidCalendarDate(t *testing.T) {
	assert.Empty(t, analysis.Default().Extract("Due 2024-02-30"))
}

func TestExtract_Metrics(t *testing.T) {
	t.Run("flow metric with decline and level", func(t *testing.T) {
		got := view(analysis.Default().Extract("Net income fell 12% to $3M"))
		assert.Equal(t, []entityView{
			{analysis.KindMetric, "net_income_growth", -12, 0},
			{analysis.KindMetric, "net_income", 3_000_000, 0},
			{analysis.KindMoney, "$3M", 3_000_000, 23},
		}, got)
	})

	t.Run("flow metric from one level to another", func(t *testing.T) {
		got := view(analysis.Default().Extract("Revenue grew 10% from $100M to $150M."))
		assert.Equal(t, []entityView{
			{analysis.KindMetric, "revenue_growth", 10, 0},
			{analysis.KindMetric, "revenue", 100_000_000, 0},
			{analysis.KindMetric, "revenue", 150_000_000, 0},
			{analysis.KindMoney, "$100M", 100_000_000, 22},
			{analysis.KindMoney, "$150M", 150_000_000, 31},
		}, got)
	})

	t.Run("levels stated newest first", func(t *testing.T) {
		got := view(analysis.Default().Extract("Revenue grew 10% to $150M from $100M."))
		assert.Equal(t, []entityView{
			{analysis.KindMetric, "revenue_growth", 10, 0},
			{analysis.KindMetric, "revenue", 100_000_000, 0},
			{analysis.KindMetric, "revenue", 150_000_000, 0},
			{analysis.KindMoney, "$150M", 150_000_000, 20},
			{analysis.KindMoney, "$100M", 100_000_000, 31},
		}, got)
	})

	t.Run("ratio metric", func(t *testing.T) {
		got := view(analysis.Default().Extract("The current ratio of 1.4x held"))
		assert.Equal(t, []entityView{
			{analysis.KindMetric, "current_ratio", 1.4, 4},
		}, got)
	})

	t.Run("numbers inside dates are not metric values", func(t *testing.T) {
		for _, e := range analysis.Default().Extract("Acme Holdings Inc reported revenue on March 5, 2024.") {
			assert.NotEqual(t, analysis.KindMetric, e.Kind)
		}
	})
}

func TestExtract_People(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		value    string
		position int
	}{
		{"after title acronym", "CFO Jane Doe resigned", "Jane Doe", 4},
		{"with honorific", "Dr. John Smith joined", "John Smith", 4},
		{"after article and title", "The Chairman Robert Jones resigned.", "Robert Jones", 13},
		{"after weekday", "On Tuesday Mary Smith resigned.", "Mary Smith", 11},
		{"after time word", "Yesterday Mary Smith resigned.", "Mary Smith", 10},
		{"with middle initial", "Director Jane Q. Public signed.", "Jane Q. Public", 9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := analysis.Default().Extract(tt.text)
			require.Len(t, got, 1)
			assert.Equal(t, analysis.KindPerson, got[0].Kind)
			assert.Equal(t, tt.value, got[0].Value)
			assert.Equal(t, tt.position, got[0].Position)
		})
	}
}

func TestExtract_Organizations(t *testing.T) {
	got := view(analysis.Default().Extract("The Board met with Globex Corporation and Initech LLC."))

	assert.Equal(t, []entityView{
		{analysis.KindOrg, "Globex Corporation", 0, 19},
		{analysis.KindOrg, "Initech LLC", 0, 42},
	}, got)
}

func TestExtract_NoSignal(t *testing.T) {
	assert.Empty(t, analysis.Default().Extract("nothing to see here"))
}

func TestEntity_Key(t *testing.T) {
	v := 5_000_000.0
	a := analysis.Entity{Kind: analysis.KindMoney, Value: "$5M", NormalizedValue: &v, Position: 3}
	b := analysis.Entity{Kind: analysis.KindMoney, Value: "5 million dollars", NormalizedValue: &v, Position: 90}
	c := analysis.Entity{Kind: analysis.KindOrg, Value: "Acme   Corp", Position: 0}
	d := analysis.Entity{Kind: analysis.KindOrg, Value: "Acme Corp", Position: 12}

	assert.Equal(t, a.Key(), b.Key())
	assert.Equal(t, c.Key(), d.Key())
	assert.NotEqual(t, a.Key(), c.Key())
}
