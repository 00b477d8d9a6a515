package models

// Computer is a row of the computadores table.
type Computer struct {
	Base
	Nome          string  `db:"nome" json:"nome"`
	Patrimonio    string  `db:"patrimonio" json:"patrimonio"`
	MacAddress    string  `db:"mac_address" json:"mac_address"`
	Localizacao   string  `db:"localizacao" json:"localizacao"`
	Responsavel   string  `db:"responsavel" json:"responsavel"`
	Setor         string  `db:"setor" json:"setor"`
	Marca         *string `db:"marca" json:"marca"`
	Processador   *string `db:"processador" json:"processador"`
	Memoria       *string `db:"memoria" json:"memoria"`
	Armazenamento *string `db:"armazenamento" json:"armazenamento"`
	Observacoes   *string `db:"observacoes" json:"observacoes"`
}

func (c Computer) Values() map[string]string {
	v := c.values()
	v["nome"] = c.Nome
	v["patrimonio"] = c.Patrimonio
	v["mac_address"] = c.MacAddress
	v["localizacao"] = c.Localizacao
	v["responsavel"] = c.Responsavel
	v["setor"] = c.Setor
	v["marca"] = str(c.Marca)
	v["processador"] = str(c.Processador)
	v["memoria"] = str(c.Memoria)
	v["armazenamento"] = str(c.Armazenamento)
	v["observacoes"] = str(c.Observacoes)
	return v
}
