package sheet

import (
	"strconv"

	"github.com/JonMunkholm/AttrExtract/internal/core"
)

// Download names of the generated workbooks.
const (
	ProductsTemplateName = "modelo_produtos.xlsx"
	ConfigTemplateName   = "modelo_configuracao.xlsx"
	ResultDownloadName   = "resultados_processados.xlsx"
)

// ProductsTemplate returns the sample data table offered for download.
func ProductsTemplate() *core.Table {
	products := []struct {
		description string
		category    string
	}{
		{"Liquidificador Mondial 110V 500W cor branca", "Eletroportátil"},
		{"Ventilador Arno 220V com 3 velocidades", "Eletroportátil"},
		{"Fogão Consul 4 bocas cor inox", "Eletrodoméstico"},
		{"Micro-ondas Panasonic 20L 110V", "Eletrodoméstico"},
		{"Geladeira Brastemp Frost Free 375L", "Eletrodoméstico"},
	}

	t := core.NewTable("ID", "Descrição", "Categoria")
	for i, p := range products {
		t.Append(core.Other(strconv.Itoa(i+1)), core.Text(p.description), core.Text(p.category))
	}
	return t
}

// ConfigTemplate returns the sample configuration table offered for download.
func ConfigTemplate() *core.Table {
	rules := [][3]string{
		{"Voltagem", "110V", "110, 110v, 110 volts"},
		{"Voltagem", "220V", "220, 220v, 220 volts"},
		{"Cor", "Branco", "branco, white, branca"},
		{"Cor", "Preto", "preto, black, pretinha"},
		{"Tamanho", "Grande", "grande, large, xl, gg"},
		{"Potência", "500W", "500, 500w, 500 watts"},
		{"Marca", "Mondial", "mondial, arno, consul"},
	}

	t := core.NewTable("Atributo", "Valor", "Padrões")
	for _, r := range rules {
		t.Append(core.Text(r[0]), core.Text(r[1]), core.Text(r[2]))
	}
	return t
}
