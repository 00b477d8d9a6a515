package entity

import (
	"itassets-dashboard/internal/form"
	"itassets-dashboard/internal/models"
	"itassets-dashboard/internal/table"
)

func line(name, label, placeholder string, required bool) form.Field {
	return form.Field{Name: name, Label: label, Kind: form.KindLine, Placeholder: placeholder, Required: required}
}

func choice(name, label string, required bool, choices ...string) form.Field {
	return form.Field{Name: name, Label: label, Kind: form.KindChoice, Required: required, Choices: choices}
}

func notes(placeholder string) form.Field {
	return form.Field{Name: "observacoes", Label: "Observações", Kind: form.KindMultiline, Placeholder: placeholder}
}

var statusField = choice("status", "Status", true, models.StatusChoices...)

var (
	statusColumn  = table.Column{Key: "status", Label: "Status", Kind: table.KindStatus}
	createdColumn = table.Column{Key: "created_at", Label: "Cadastrado em", Kind: table.KindDate}
)

const (
	ownerPlaceholder = "Nome do usuário responsável"
	macPlaceholder   = "Ex: 00:1B:44:11:3A:B7"
	datePlaceholder  = "DD/MM/AAAA"
)

var departments = []string{"TI", "Administrativo", "Vendas", "Marketing", "RH", "Financeiro"}

var Computers = Definition{
	Table:       "computadores",
	Slug:        "computadores",
	Unique:      []string{"patrimonio"},
	Singular:    "Computador",
	Plural:      "Computadores",
	Description: "Controle e gerenciamento de desktops, notebooks e estações de trabalho",
	Fields: []form.Field{
		line("nome", "Nome do Equipamento", "Ex: Notebook Dell Latitude", true),
		line("patrimonio", "Número do Patrimônio", "Ex: PAT001234", true),
		line("macAddress", "MAC Address", macPlaceholder, true),
		choice("localizacao", "Localização", true, "Matriz", "Filial 1", "Filial 2", "Home Office", "Almoxarifado"),
		line("responsavel", "Responsável", ownerPlaceholder, true),
		choice("setor", "Setor", true, departments...),
		statusField,
		line("marca", "Marca/Modelo", "Ex: Dell Latitude 5520", false),
		line("processador", "Processador", "Ex: Intel Core i5-1135G7", false),
		line("memoria", "Memória RAM", "Ex: 8GB DDR4", false),
		line("armazenamento", "Armazenamento", "Ex: SSD 256GB", false),
		notes("Informações adicionais..."),
	},
	Mappings: []Mapping{
		{"nome", "nome"},
		{"patrimonio", "patrimonio"},
		{"macAddress", "mac_address"},
		{"localizacao", "localizacao"},
		{"responsavel", "responsavel"},
		{"setor", "setor"},
		{"status", "status"},
		{"marca", "marca"},
		{"processador", "processador"},
		{"memoria", "memoria"},
		{"armazenamento", "armazenamento"},
		{"observacoes", "observacoes"},
	},
	Columns: []table.Column{
		{Key: "nome", Label: "Nome do Equipamento"},
		{Key: "patrimonio", Label: "Patrimônio"},
		{Key: "responsavel", Label: "Responsável"},
		{Key: "localizacao", Label: "Localização"},
		statusColumn,
		createdColumn,
	},
}

var Phones = Definition{
	Table:       "celulares",
	Slug:        "celulares",
	Unique:      []string{"imei"},
	Singular:    "Celular",
	Plural:      "Celulares",
	Description: "Controle de smartphones corporativos e planos de telefonia",
	Fields: []form.Field{
		line("marca", "Marca/Modelo", "Ex: iPhone 13 Pro", true),
		line("numero", "Número de Telefone", "Ex: (11) 99999-9999", true),
		line("imei", "IMEI", "Ex: 123456789012345", true),
		line("responsavel", "Responsável", ownerPlaceholder, true),
		choice("setor", "Setor", true, append(append([]string{}, departments...), "Diretoria")...),
		statusField,
		choice("operadora", "Operadora", false, "Vivo", "Claro", "TIM", "Oi", "Algar"),
		line("plano", "Plano", "Ex: Controle 10GB", false),
		line("patrimonio", "Patrimônio", "Ex: CEL001234", false),
		line("dataAquisicao", "Data de Aquisição", datePlaceholder, false),
		notes("Informações adicionais..."),
	},
	Mappings: []Mapping{
		{"marca", "marca"},
		{"numero", "numero"},
		{"imei", "imei"},
		{"responsavel", "responsavel"},
		{"setor", "setor"},
		{"status", "status"},
		{"operadora", "operadora"},
		{"plano", "plano"},
		{"patrimonio", "patrimonio"},
		{"dataAquisicao", "data_aquisicao"},
		{"observacoes", "observacoes"},
	},
	Columns: []table.Column{
		{Key: "marca", Label: "Marca/Modelo"},
		{Key: "numero", Label: "Número"},
		{Key: "responsavel", Label: "Responsável"},
		{Key: "setor", Label: "Setor"},
		statusColumn,
		createdColumn,
	},
}

var Switches = Definition{
	Table:       "switches",
	Slug:        "switches",
	Singular:    "Switch",
	Plural:      "Switches",
	Description: "Controle de switches de rede e equipamentos de conectividade",
	Fields: []form.Field{
		line("marca", "Marca/Modelo", "Ex: Cisco SG300-28", true),
		choice("numeroPortas", "Número de Portas", true, "8", "16", "24", "28", "48", "52"),
		line("macAddress", "MAC Address", macPlaceholder, true),
		choice("localizacao", "Localização", true, "Rack Principal", "Sala TI", "Andar 1", "Andar 2", "Andar 3", "Subsolo"),
		line("ipAcesso", "IP de Acesso", "Ex: 192.168.1.10", true),
		statusField,
		line("patrimonio", "Patrimônio", "Ex: SW001234", false),
		line("versaoFirmware", "Versão do Firmware", "Ex: 1.4.8.05", false),
		choice("velocidade", "Velocidade das Portas", false, "10/100 Mbps", "10/100/1000 Mbps", "1 Gbps", "10 Gbps"),
		choice("protocolo", "Protocolo de Gerência", false, "SNMP", "SSH", "Telnet", "Web Interface"),
		line("dataInstalacao", "Data de Instalação", datePlaceholder, false),
		notes("Configurações especiais, VLANs, etc..."),
	},
	Mappings: []Mapping{
		{"marca", "marca"},
		{"numeroPortas", "numero_portas"},
		{"macAddress", "mac_address"},
		{"localizacao", "localizacao"},
		{"ipAcesso", "ip_acesso"},
		{"status", "status"},
		{"patrimonio", "patrimonio"},
		{"versaoFirmware", "versao_firmware"},
		{"velocidade", "velocidade"},
		{"protocolo", "protocolo"},
		{"dataInstalacao", "data_instalacao"},
		{"observacoes", "observacoes"},
	},
	Columns: []table.Column{
		{Key: "marca", Label: "Marca/Modelo"},
		{Key: "numero_portas", Label: "Portas"},
		{Key: "ip_acesso", Label: "IP de Acesso"},
		{Key: "localizacao", Label: "Localização"},
		statusColumn,
		createdColumn,
	},
}

var AccessPoints = Definition{
	Table:       "access_points",
	Slug:        "access-points",
	Singular:    "Access Point",
	Plural:      "Access Points",
	Description: "Controle de pontos de acesso Wi-Fi e infraestrutura wireless",
	Fields: []form.Field{
		line("marca", "Marca/Modelo", "Ex: Ubiquiti UniFi AP-AC-PRO", true),
		line("macAddress", "MAC Address", macPlaceholder, true),
		choice("localizacao", "Localização", true, "Recepção", "Sala de Reunião", "Andar 1", "Andar 2", "Andar 3", "Área Externa", "Auditório"),
		line("ssid", "SSID Principal", "Ex: EmpresaWiFi", true),
		line("ipAcesso", "IP de Acesso", "Ex: 192.168.1.50", true),
		statusField,
		line("patrimonio", "Patrimônio", "Ex: AP001234", false),
		choice("banda", "Banda de Frequência", false, "2.4 GHz", "5 GHz", "Dual Band"),
		choice("padrao", "Padrão Wi-Fi", false, "802.11n", "802.11ac", "802.11ax (Wi-Fi 6)"),
		line("canal", "Canal", "Ex: Auto / 6 / 36", false),
		choice("potencia", "Potência de Transmissão", false, "Baixa", "Média", "Alta", "Auto"),
		line("dataInstalacao", "Data de Instalação", datePlaceholder, false),
		notes("SSIDs adicionais, configurações especiais..."),
	},
	Mappings: []Mapping{
		{"marca", "marca"},
		{"macAddress", "mac_address"},
		{"localizacao", "localizacao"},
		{"ssid", "ssid"},
		{"ipAcesso", "ip_acesso"},
		{"status", "status"},
		{"patrimonio", "patrimonio"},
		{"banda", "banda"},
		{"padrao", "padrao"},
		{"canal", "canal"},
		{"potencia", "potencia"},
		{"dataInstalacao", "data_instalacao"},
		{"observacoes", "observacoes"},
	},
	Columns: []table.Column{
		{Key: "marca", Label: "Marca/Modelo"},
		{Key: "ssid", Label: "SSID Principal"},
		{Key: "localizacao", Label: "Localização"},
		{Key: "ip_acesso", Label: "IP de Acesso"},
		statusColumn,
		createdColumn,
	},
}

var Collectors = Definition{
	Table:       "coletores",
	Slug:        "coletores",
	Unique:      []string{"serie"},
	Singular:    "Coletor",
	Plural:      "Coletores",
	Description: "Controle de coletores de dados e dispositivos de captura",
	Fields: []form.Field{
		line("marca", "Marca/Modelo", "Ex: Zebra MC3300", true),
		line("serie", "Número de Série", "Ex: 12345678901", true),
		line("responsavel", "Responsável", ownerPlaceholder, true),
		statusField,
		choice("localizacao", "Localização", true, "Almoxarifado", "Expedição", "Recebimento", "Estoque", "Produção", "Vendas"),
		line("patrimonio", "Patrimônio", "Ex: COL001234", false),
		choice("tipo", "Tipo de Coletor", false, "Código de Barras", "RFID", "Híbrido"),
		choice("conectividade", "Conectividade", false, "Wi-Fi", "Bluetooth", "4G", "Wi-Fi + Bluetooth", "Wi-Fi + 4G"),
		choice("sistemaOperacional", "Sistema Operacional", false, "Android", "Windows CE", "Windows Mobile", "Proprietário"),
		line("versaoSoftware", "Versão do Software", "Ex: v2.1.5", false),
		line("dataAquisicao", "Data de Aquisição", datePlaceholder, false),
		notes("Configurações especiais, aplicativos instalados..."),
	},
	Mappings: []Mapping{
		{"marca", "marca"},
		{"serie", "serie"},
		{"responsavel", "responsavel"},
		{"status", "status"},
		{"localizacao", "localizacao"},
		{"patrimonio", "patrimonio"},
		{"tipo", "tipo"},
		{"conectividade", "conectividade"},
		{"sistemaOperacional", "sistema_operacional"},
		{"versaoSoftware", "versao_software"},
		{"dataAquisicao", "data_aquisicao"},
		{"observacoes", "observacoes"},
	},
	Columns: []table.Column{
		{Key: "marca", Label: "Marca/Modelo"},
		{Key: "serie", Label: "Número de Série"},
		{Key: "responsavel", Label: "Responsável"},
		{Key: "localizacao", Label: "Localização"},
		statusColumn,
		createdColumn,
	},
}

// All returns the definitions in sidebar order.
func All() []Definition {
	return []Definition{Computers, Phones, Switches, AccessPoints, Collectors}
}

// BySlug finds a definition by its URL path segment.
func BySlug(slug string) (Definition, bool) {
	for _, d := range All() {
		if d.Slug == slug {
			return d, true
		}
	}
	return Definition{}, false
}

// ByName finds a definition by slug, table name or plural label, ignoring
// case. Used to match spreadsheet sheet names.
func ByName(name string) (Definition, bool) {
	for _, d := range All() {
		for _, candidate := range []string{d.Slug, d.Table, d.Plural} {
			if equalFold(candidate, name) {
				return d, true
			}
		}
	}
	return Definition{}, false
}
