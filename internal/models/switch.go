package models

// Switch is a row of the switches table.
type Switch struct {
	Base
	Marca          string  `db:"marca" json:"marca"`
	NumeroPortas   string  `db:"numero_portas" json:"numero_portas"`
	MacAddress     string  `db:"mac_address" json:"mac_address"`
	Localizacao    string  `db:"localizacao" json:"localizacao"`
	IPAcesso       string  `db:"ip_acesso" json:"ip_acesso"`
	Patrimonio     *string `db:"patrimonio" json:"patrimonio"`
	VersaoFirmware *string `db:"versao_firmware" json:"versao_firmware"`
	Velocidade     *string `db:"velocidade" json:"velocidade"`
	Protocolo      *string `db:"protocolo" json:"protocolo"`
	DataInstalacao *string `db:"data_instalacao" json:"data_instalacao"`
	Observacoes    *string `db:"observacoes" json:"observacoes"`
}

func (s Switch) Values() map[string]string {
	v := s.values()
	v["marca"] = s.Marca
	v["numero_portas"] = s.NumeroPortas
	v["mac_address"] = s.MacAddress
	v["localizacao"] = s.Localizacao
	v["ip_acesso"] = s.IPAcesso
	v["patrimonio"] = str(s.Patrimonio)
	v["versao_firmware"] = str(s.VersaoFirmware)
	v["velocidade"] = str(s.Velocidade)
	v["protocolo"] = str(s.Protocolo)
	v["data_instalacao"] = str(s.DataInstalacao)
	v["observacoes"] = str(s.Observacoes)
	return v
}
