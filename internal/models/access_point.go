package models

// AccessPoint is a row of the access_points table.
type AccessPoint struct {
	Base
	Marca          string  `db:"marca" json:"marca"`
	MacAddress     string  `db:"mac_address" json:"mac_address"`
	Localizacao    string  `db:"localizacao" json:"localizacao"`
	SSID           string  `db:"ssid" json:"ssid"`
	IPAcesso       string  `db:"ip_acesso" json:"ip_acesso"`
	Patrimonio     *string `db:"patrimonio" json:"patrimonio"`
	Banda          *string `db:"banda" json:"banda"`
	Padrao         *string `db:"padrao" json:"padrao"`
	Canal          *string `db:"canal" json:"canal"`
	Potencia       *string `db:"potencia" json:"potencia"`
	DataInstalacao *string `db:"data_instalacao" json:"data_instalacao"`
	Observacoes    *string `db:"observacoes" json:"observacoes"`
}

func (a AccessPoint) Values() map[string]string {
	v := a.values()
	v["marca"] = a.Marca
	v["mac_address"] = a.MacAddress
	v["localizacao"] = a.Localizacao
	v["ssid"] = a.SSID
	v["ip_acesso"] = a.IPAcesso
	v["patrimonio"] = str(a.Patrimonio)
	v["banda"] = str(a.Banda)
	v["padrao"] = str(a.Padrao)
	v["canal"] = str(a.Canal)
	v["potencia"] = str(a.Potencia)
	v["data_instalacao"] = str(a.DataInstalacao)
	v["observacoes"] = str(a.Observacoes)
	return v
}
