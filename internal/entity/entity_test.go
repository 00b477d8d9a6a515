package entity

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"itassets-dashboard/internal/form"
	"itassets-dashboard/internal/models"
)

func TestDefinitionsAreConsistent(t *testing.T) {
	slugs := map[string]bool{}
	for _, d := range All() {
		t.Run(d.Slug, func(t *testing.T) {
			require.NoError(t, d.Check())
			assert.False(t, slugs[d.Slug], "duplicate slug")
			slugs[d.Slug] = true

			f, ok := d.Field("status")
			require.True(t, ok)
			assert.True(t, f.Required)
			assert.Equal(t, form.KindChoice, f.Kind)

			for _, c := range d.Columns {
				if c.Key == "created_at" {
					continue
				}
				found := false
				for _, m := range d.Mappings {
					if m.Column == c.Key {
						found = true
					}
				}
				assert.True(t, found, "column %s is not mapped", c.Key)
			}
		})
	}
}

func TestToColumnsRenames(t *testing.T) {
	cols, err := Computers.ToColumns(map[string]string{
		"nome":       "Notebook",
		"macAddress": "00:1B:44:11:3A:B7",
		"marca":      "",
		"patrimonio": "",
	})
	require.NoError(t, err)

	assert.Equal(t, "00:1B:44:11:3A:B7", cols["mac_address"])
	assert.Equal(t, "Notebook", cols["nome"])
	assert.Nil(t, cols["marca"], "empty optional value becomes NULL")
	assert.Equal(t, "", cols["patrimonio"], "required values are never nulled")
	_, hasForm := cols["macAddress"]
	assert.False(t, hasForm)
}

func TestToColumnsRejectsUnknownField(t *testing.T) {
	_, err := Phones.ToColumns(map[string]string{"marca": "X", "hostname": "pc-01"})
	require.ErrorIs(t, err, ErrUnknownField)
	assert.Contains(t, err.Error(), "hostname")
}

func TestForInsertDefaultsStatus(t *testing.T) {
	cols, err := Switches.ForInsert(map[string]string{"marca": "Cisco"})
	require.NoError(t, err)
	assert.Equal(t, models.StatusActive, cols["status"])

	cols, err = Switches.ForInsert(map[string]string{"marca": "Cisco", "status": "Inativo"})
	require.NoError(t, err)
	assert.Equal(t, models.StatusInactive, cols["status"])
}

func TestToFormInvertsMapping(t *testing.T) {
	obs := "sala 3"
	ap := models.AccessPoint{
		Base:        models.Base{ID: uuid.New(), Status: models.StatusActive, CreatedAt: time.Now()},
		Marca:       "Ubiquiti",
		MacAddress:  "AA:BB",
		Localizacao: "Recepção",
		SSID:        "Empresa",
		IPAcesso:    "10.0.0.2",
		Observacoes: &obs,
	}

	values := AccessPoints.ToForm(ap)
	assert.Equal(t, "AA:BB", values["macAddress"])
	assert.Equal(t, "10.0.0.2", values["ipAcesso"])
	assert.Equal(t, "sala 3", values["observacoes"])
	assert.Equal(t, "", values["banda"])
	assert.Len(t, values, len(AccessPoints.Mappings))

	cols, err := AccessPoints.ToColumns(values)
	require.NoError(t, err)
	assert.Equal(t, "AA:BB", cols["mac_address"])
	assert.Nil(t, cols["banda"])
}

func TestMessages(t *testing.T) {
	assert.Equal(t, "Computador cadastrado com sucesso!", Computers.Message("cadastrado"))
	assert.Equal(t, "Erro ao cadastrar computador.", Computers.Fallback("cadastrar"))
	assert.Equal(t, "Não foi possível carregar os computadores.", Computers.LoadFailure())
	assert.Equal(t, "Cadastrar Novo Access Point", AccessPoints.FormTitle())
	assert.Equal(t, "Gestão de Coletores", Collectors.Heading())
}

func TestLookup(t *testing.T) {
	d, ok := BySlug("access-points")
	require.True(t, ok)
	assert.Equal(t, "access_points", d.Table)

	_, ok = BySlug("impressoras")
	assert.False(t, ok)

	d, ok = ByName(" Access_Points ")
	require.True(t, ok)
	assert.Equal(t, "access-points", d.Slug)

	d, ok = ByName("Celulares")
	require.True(t, ok)
	assert.Equal(t, "celulares", d.Table)
}
