package offer

import "github.com/iachat/chat-widget/internal/model/chat"

// DemoCompanyID is the company used by the bundled demo page.
const DemoCompanyID = "fe0a9769-3960-4bb4-a9ce-f9802b3f3de1"

// Entry is a catalog row: the offer plus what it is matched on.
// An empty CompanyID makes the entry visible to every company.
type Entry struct {
	CompanyID  string   `json:"companyId,omitempty" yaml:"companyId,omitempty"`
	Keywords   []string `json:"keywords,omitempty" yaml:"keywords,omitempty"`
	chat.Offer `yaml:",inline"`
}

// Seed provides the demo catalog served when no OFFERS_FILE is configured.
func Seed() []Entry {
	return []Entry{
		{
			CompanyID: DemoCompanyID,
			Keywords:  []string{"internet", "fibra", "wifi", "conexion", "velocidad"},
			Offer: chat.Offer{
				Title:       "Fibra 600 Mb",
				Description: "Internet simétrico con router wifi 6 incluido y sin permanencia.",
				Price:       "$29.990/mes",
				URL:         "https://demo.iachat.dev/ofertas/fibra-600",
				Category:    "internet",
				Discount:    "20%",
			},
		},
		{
			CompanyID: DemoCompanyID,
			Keywords:  []string{"movil", "celular", "plan", "datos", "gigas"},
			Offer: chat.Offer{
				Title:       "Plan Móvil Libre",
				Description: "Gigas ilimitados, minutos ilimitados y roaming en América.",
				Price:       "$15.990/mes",
				URL:         "https://demo.iachat.dev/ofertas/movil-libre",
				Category:    "movil",
			},
		},
		{
			CompanyID: DemoCompanyID,
			Keywords:  []string{"television", "tv", "canales", "futbol", "peliculas"},
			Offer: chat.Offer{
				Title:       "TV Full HD",
				Description: "Más de 180 canales, 40 en alta definición y partidos en vivo.",
				Price:       "$12.990/mes",
				Category:    "television",
			},
		},
		{
			Keywords: []string{"soporte", "ayuda", "tecnico", "problema", "falla"},
			Offer: chat.Offer{
				Title:       "Soporte técnico 24/7",
				Description: "Atención remota sin costo para clientes, todos los días.",
				URL:         "https://demo.iachat.dev/soporte",
				Category:    "servicio",
			},
		},
	}
}
