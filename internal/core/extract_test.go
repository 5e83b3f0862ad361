package core

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sampleRules mirrors the downloadable configuration workbook.
func sampleRules() *RuleSet {
	return CompileRules([]ConfigRow{
		{Attribute: "Voltagem", Value: Text("110V"), Patterns: Text("110, 110v")},
		{Attribute: "Cor", Value: Text("Branco"), Patterns: Text("branco, branca")},
		{Attribute: "Potência", Value: Text("500W"), Patterns: Text("500, 500w")},
	})
}

func productTable(descriptions ...Value) *Table {
	tbl := NewTable("ID", "Descrição")
	for i, d := range descriptions {
		tbl.Append(Other(string(rune('1'+i))), d)
	}
	return tbl
}

func TestExtract_EndToEndMatch(t *testing.T) {
	data := productTable(Text("Liquidificador Mondial 110V 500W cor branca"))

	result, err := Extract(data, sampleRules(), nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"ID", "Descrição", "Voltagem", "Cor", "Potência"}, result.Columns)
	require.Len(t, result.Rows, 1)
	row := result.Rows[0]
	assert.Equal(t, Text("110V"), row.Get("Voltagem"))
	assert.Equal(t, Text("Branco"), row.Get("Cor"))
	assert.Equal(t, Text("500W"), row.Get("Potência"))
}

func TestExtract_EndToEndNoMatch(t *testing.T) {
	data := productTable(Text("Geladeira Brastemp Frost Free 375L"))

	result, err := Extract(data, sampleRules(), nil)
	require.NoError(t, err)

	row := result.Rows[0]
	for _, attr := range []string{"Voltagem", "Cor", "Potência"} {
		assert.True(t, row.Get(attr).IsNull(), "%s should be absent", attr)
	}
}

func TestExtract_NonTextDescriptions(t *testing.T) {
	data := productTable(Null(), Other("110"), Text("branca"))

	result, err := Extract(data, sampleRules(), nil)
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		for _, attr := range []string{"Voltagem", "Cor", "Potência"} {
			assert.True(t, result.Rows[i].Get(attr).IsNull(), "row %d %s", i, attr)
		}
	}
	assert.Equal(t, Text("Branco"), result.Rows[2].Get("Cor"))
}

func TestExtract_DoesNotMutateInput(t *testing.T) {
	data := productTable(Text("110v"))
	before := data.Clone()

	_, err := Extract(data, sampleRules(), nil)
	require.NoError(t, err)

	assert.Equal(t, before, data)
}

func TestExtract_MissingDescriptionColumn(t *testing.T) {
	data := NewTable("ID", "Nome")
	data.Append(Other("1"), Text("Ventilador"))

	_, err := Extract(data, sampleRules(), nil)
	assert.ErrorIs(t, err, ErrMissingDescriptionColumn)
}

func TestExtract_AttributeOverwritesExistingColumn(t *testing.T) {
	data := NewTable("Descrição", "Cor")
	data.Append(Text("cor branca"), Text("antiga"))

	result, err := Extract(data, sampleRules(), nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"Descrição", "Cor", "Voltagem", "Potência"}, result.Columns)
	assert.Equal(t, Text("Branco"), result.Rows[0].Get("Cor"))
}

func TestExtract_ProgressPerAttribute(t *testing.T) {
	rows := make([]ConfigRow, 0, 7)
	for _, attr := range []string{"A", "B", "C", "D", "E", "F", "G"} {
		rows = append(rows, ConfigRow{Attribute: attr, Value: Text(attr), Patterns: Text(attr)})
	}
	rules := CompileRules(rows)
	total := rules.Len()

	var got []int
	_, err := Extract(productTable(Text("abc")), rules, func(p int) { got = append(got, p) })
	require.NoError(t, err)

	require.Len(t, got, total+1)
	for i := 1; i <= total; i++ {
		want := int(math.Round(100 * float64(i) / float64(total)))
		assert.Equal(t, want, got[i-1], "after attribute %d", i)
	}
	assert.Equal(t, 100, got[len(got)-1])

	for i := 1; i < len(got); i++ {
		assert.GreaterOrEqual(t, got[i], got[i-1], "progress must not decrease")
	}
}

func TestExtract_NoAttributes(t *testing.T) {
	var got []int
	result, err := Extract(productTable(Text("x")), CompileRules(nil), func(p int) { got = append(got, p) })
	require.NoError(t, err)

	assert.Equal(t, []int{100}, got)
	assert.Equal(t, []string{"ID", "Descrição"}, result.Columns)
}

func TestPercentDone(t *testing.T) {
	tests := []struct {
		done, total, want int
	}{
		{1, 3, 33},
		{2, 3, 67},
		{3, 3, 100},
		{1, 8, 13},
		{0, 0, 100},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, percentDone(tt.done, tt.total), "%d/%d", tt.done, tt.total)
	}
}

func TestExtract_RuleValueKeepsCellKind(t *testing.T) {
	rules := CompileRules([]ConfigRow{
		{Attribute: "Voltagem", Value: Other("110"), Patterns: Text("110")},
		{Attribute: "Cor", Value: Null(), Patterns: Text("branc")},
		{Attribute: "Cor", Value: Text("Branco"), Patterns: Text("branca")},
	})
	data := productTable(Text("Liquidificador Mondial 110V 500W cor branca"))

	result, err := Extract(data, rules, nil)
	require.NoError(t, err)

	row := result.Rows[0]
	assert.Equal(t, Other("110"), row.Get("Voltagem"))
	// The empty-valued rule matches first and shadows the later one.
	assert.True(t, row.Get("Cor").IsNull())
	assert.Contains(t, result.Columns, "Cor")
}
