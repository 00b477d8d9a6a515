package models

// Phone is a row of the celulares table.
type Phone struct {
	Base
	Marca         string  `db:"marca" json:"marca"`
	Numero        string  `db:"numero" json:"numero"`
	IMEI          string  `db:"imei" json:"imei"`
	Responsavel   string  `db:"responsavel" json:"responsavel"`
	Setor         string  `db:"setor" json:"setor"`
	Operadora     *string `db:"operadora" json:"operadora"`
	Plano         *string `db:"plano" json:"plano"`
	Patrimonio    *string `db:"patrimonio" json:"patrimonio"`
	DataAquisicao *string `db:"data_aquisicao" json:"data_aquisicao"`
	Observacoes   *string `db:"observacoes" json:"observacoes"`
}

func (p Phone) Values() map[string]string {
	v := p.values()
	v["marca"] = p.Marca
	v["numero"] = p.Numero
	v["imei"] = p.IMEI
	v["responsavel"] = p.Responsavel
	v["setor"] = p.Setor
	v["operadora"] = str(p.Operadora)
	v["plano"] = str(p.Plano)
	v["patrimonio"] = str(p.Patrimonio)
	v["data_aquisicao"] = str(p.DataAquisicao)
	v["observacoes"] = str(p.Observacoes)
	return v
}
