package models

// Collector is a row of the coletores table (barcode/RFID data collectors).
type Collector struct {
	Base
	Marca              string  `db:"marca" json:"marca"`
	Serie              string  `db:"serie" json:"serie"`
	Responsavel        string  `db:"responsavel" json:"responsavel"`
	Localizacao        string  `db:"localizacao" json:"localizacao"`
	Patrimonio         *string `db:"patrimonio" json:"patrimonio"`
	Tipo               *string `db:"tipo" json:"tipo"`
	Conectividade      *string `db:"conectividade" json:"conectividade"`
	SistemaOperacional *string `db:"sistema_operacional" json:"sistema_operacional"`
	VersaoSoftware     *string `db:"versao_software" json:"versao_software"`
	DataAquisicao      *string `db:"data_aquisicao" json:"data_aquisicao"`
	Observacoes        *string `db:"observacoes" json:"observacoes"`
}

func (c Collector) Values() map[string]string {
	v := c.values()
	v["marca"] = c.Marca
	v["serie"] = c.Serie
	v["responsavel"] = c.Responsavel
	v["localizacao"] = c.Localizacao
	v["patrimonio"] = str(c.Patrimonio)
	v["tipo"] = str(c.Tipo)
	v["conectividade"] = str(c.Conectividade)
	v["sistema_operacional"] = str(c.SistemaOperacional)
	v["versao_software"] = str(c.VersaoSoftware)
	v["data_aquisicao"] = str(c.DataAquisicao)
	v["observacoes"] = str(c.Observacoes)
	return v
}
