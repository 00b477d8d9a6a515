package ui

import (
	"net/http"

	"itassets-dashboard/internal/assets"
	"itassets-dashboard/internal/entity"
	"itassets-dashboard/internal/notify"
)

type metricCard struct {
	Title       string
	Href        string
	Value       int
	Description string
}

type dashboardBody struct {
	Total int
	Cards []metricCard
	Role  string
}

var cardDescriptions = map[string]string{
	entity.Computers.Slug:    "Desktops e Notebooks",
	entity.Phones.Slug:       "Smartphones corporativos",
	entity.Switches.Slug:     "Equipamentos de rede",
	entity.AccessPoints.Slug: "Pontos de acesso Wi-Fi",
	entity.Collectors.Slug:   "Coletores de dados",
}

func (h *Handler) dashboard(w http.ResponseWriter, r *http.Request) {
	var notices []notify.Notice
	counts, err := h.opts.Tables.Count(r.Context())
	if err != nil {
		h.log.WithError(err).Warn("count assets")
		notices = append(notices, notify.Failure("Erro", "Não foi possível carregar os dados dos ativos."))
		counts = assets.Counts{}
	}

	body := dashboardBody{Total: counts.Total, Role: "Usuário"}
	if h.opts.IsAdmin(r.Context()) {
		body.Role = "Administrador"
	}
	for _, d := range entity.All() {
		body.Cards = append(body.Cards, metricCard{
			Title:       d.Plural,
			Href:        "/" + d.Slug,
			Value:       counts.Of(d.Slug),
			Description: cardDescriptions[d.Slug],
		})
	}

	h.render(w, http.StatusOK, "dashboard", h.newView(w, r, "Dashboard de Ativos de TI", "", notices, body))
}
