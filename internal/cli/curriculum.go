package cli

// curriculum lists the grammar topics a learner can pick as lesson focus,
// grouped by CEFR band.
var curriculum = []struct {
	band    string
	lessons []string
}{
	{"A1 (Débutant)", []string{
		"Présent Simple (to be)",
		"Présent Simple (verbes d'action)",
		"Articles et Pluriels",
		"Pronoms Possessifs",
		"Questions simples (Do/Does)",
		"Il y a (There is/are)",
		"Prépositions de lieu",
		"Nombres et dates",
	}},
	{"A2 (Élémentaire)", []string{
		"Présent Continu (be + ing)",
		"Prétérit Simple (réguliers)",
		"Prétérit Simple (irréguliers)",
		"Comparatifs et Superlatifs",
		"Futur proche (going to)",
		"Modaux simples (can, must, should)",
		"Quantificateurs (some, any, much, many)",
		"Prépositions de temps",
	}},
	{"B1 (Intermédiaire)", []string{
		"Present Perfect Simple",
		"Past Continuous",
		"Futur Simple (will)",
		"Conditionnel Type 1 (If... will)",
		"Voix Passive (présent/passé)",
		"Gérondif vs Infinitif",
		"Modaux de probabilité",
		"Discours indirect (base)",
	}},
	{"B2 (Intermédiaire Sup)", []string{
		"Present Perfect Continuous",
		"Past Perfect",
		"Conditionnel Type 2 & 3",
		"Discours Indirect (avancé)",
		"Modaux de déduction",
		"Connecteurs logiques",
		"Voix Passive (temps complexes)",
		"Relatives complexes",
	}},
	{"C1 (Avancé)", []string{
		"Inversion (Had I known...)",
		"Subjonctif et structures formelles",
		"Phrasal Verbs avancés",
		"Structures emphatiques",
		"Nuances lexicales",
		"Style indirect libre",
		"Ellipse et substitution",
		"Registres de langue",
	}},
	{"C2 (Maîtrise)", []string{
		"Style académique et formel",
		"Idiomes et expressions figées",
		"Archaïsmes et style littéraire",
		"Ironie et sous-entendus",
		"Variations dialectales",
		"Jeux de mots et calembours",
		"Rhétorique et argumentation",
		"Créativité linguistique",
	}},
}

// themes are the selectable exercise contexts. The first entry disables the
// theme.
var themes = []string{
	"Aléatoire (Aucun)",
	"Voyage & Aventure",
	"Business & Travail",
	"Technologie & IA",
	"Cuisine & Restauration",
	"Cinéma & Culture",
	"Science & Nature",
	"Politique & Société",
	"Philosophie & Psychologie",
	"Sport & Santé",
	"Famille & Relations",
	"Éducation & Apprentissage",
	"Art & Créativité",
	"Environnement & Écologie",
	"Histoire & Géographie",
	"Actualités & Médias",
	"Littérature & Écriture",
}

func allLessons() []string {
	var out []string
	for _, band := range curriculum {
		out = append(out, band.lessons...)
	}
	return out
}
