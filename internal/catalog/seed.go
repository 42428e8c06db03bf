package catalog

import "github.com/cwrk-planet/epanel/internal/domain"

const pexelsParams = "?auto=compress&cs=tinysrgb&w=200&h=200&fit=crop"

func randomUser(kind string, n string) string {
	return "https://randomuser.me/api/portraits/" + kind + "/" + n + ".jpg"
}

func pexels(id string) string {
	return "https://images.pexels.com/photos/" + id + "/pexels-photo-" + id + ".jpeg" + pexelsParams
}

// Seed returns the upcoming panels shown on the site.
func Seed() []domain.Panel {
	return []domain.Panel{
		{
			ID:        1,
			Title:     "Panel Santé Publique",
			Date:      "15 Mars 2024",
			Location:  "Dakar, Sénégal",
			Theme:     "Innovation en santé digitale",
			Gradient:  "from-emerald-500 to-teal-600",
			Moderator: domain.Person{Name: "Dr. Amadou Ba", Avatar: randomUser("men", "32"), Title: "Médecin Chef"},
			Panelists: []domain.Person{
				{Name: "Marie Diallo", Avatar: pexels("774909"), Title: "Spécialiste Santé Digitale"},
				{Name: "Alioune Sarr", Avatar: randomUser("men", "45"), Title: "Consultant e-Santé"},
			},
		},
		{
			ID:        2,
			Title:     "Panel Économie Numérique",
			Date:      "22 Mars 2024",
			Location:  "Thiès, Sénégal",
			Theme:     "Transformation digitale des entreprises",
			Gradient:  "from-purple-500 to-indigo-600",
			Moderator: domain.Person{Name: "Fatou Sow", Avatar: randomUser("women", "44"), Title: "Directrice Innovation"},
			Panelists: []domain.Person{
				{Name: "Ousmane Ndiaye", Avatar: pexels("1222271"), Title: "Expert Fintech"},
				{Name: "Moussa Diop", Avatar: randomUser("men", "46"), Title: "Entrepreneur Numérique"},
			},
		},
		{
			ID:        3,
			Title:     "Panel Éducation",
			Date:      "28 Mars 2024",
			Location:  "Saint-Louis, Sénégal",
			Theme:     "L'avenir de l'éducation en Afrique",
			Gradient:  "from-rose-500 to-pink-600",
			Moderator: domain.Person{Name: "Mamadou Diop", Avatar: randomUser("men", "47"), Title: "Inspecteur Académique"},
			Panelists: []domain.Person{
				{Name: "Aïssatou Sarr", Avatar: pexels("1239291"), Title: "Professeure Université"},
				{Name: "Fatou Bintou", Avatar: randomUser("women", "48"), Title: "Chercheuse"},
			},
		},
		{
			ID:        4,
			Title:     "Panel Agriculture",
			Date:      "5 Avril 2024",
			Location:  "Kaolack, Sénégal",
			Theme:     "Agriculture durable et technologie",
			Gradient:  "from-orange-500 to-red-600",
			Moderator: domain.Person{Name: "Aminata Touré", Avatar: randomUser("women", "49"), Title: "Ingénieure Agronome"},
			Panelists: []domain.Person{
				{Name: "Ibrahima Fall", Avatar: pexels("1681010"), Title: "Expert AgroTech"},
				{Name: "Cheikh Mbaye", Avatar: randomUser("men", "50"), Title: "Consultant Rural"},
			},
		},
		{
			ID:        5,
			Title:     "Panel Technologie",
			Date:      "12 Avril 2024",
			Location:  "Ziguinchor, Sénégal",
			Theme:     "Intelligence artificielle et société",
			Gradient:  "from-blue-500 to-cyan-600",
			Moderator: domain.Person{Name: "Ndeye Fatou", Avatar: randomUser("women", "51"), Title: "Data Scientist"},
			Panelists: []domain.Person{
				{Name: "Cheikh Sy", Avatar: pexels("1043471"), Title: "Ingénieur IA"},
				{Name: "Mame Diarra", Avatar: randomUser("women", "52"), Title: "Développeuse ML"},
			},
		},
	}
}
