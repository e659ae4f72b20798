package flashcards

// phrasebook holds the question templates of one language. Templates take
// a single %s argument.
type phrasebook struct {
	definition     string
	definitionOnly string
	concept        string
	whySubject     string
	whyContext     string
	salary         string
	price          string
	hourlyRate     string
	numeric        string
	category       string
	shortMeaning   string
	entity         map[string]string
}

var phrasebooks = map[Language]phrasebook{
	French: {
		definition:     "Qu'est-ce que %s?",
		definitionOnly: "Qu'est-ce que %s ?",
		concept:        "Que dit le texte à propos de '%s'?",
		whySubject:     "Pourquoi %s...?",
		whyContext:     "Pourquoi « %s... » ?",
		salary:         "Quel salaire est indiqué dans « %s... » ?",
		price:          "Quel prix est indiqué dans « %s... » ?",
		hourlyRate:     "Quel taux horaire est indiqué dans « %s... » ?",
		numeric:        "Quelle est l'information chiffrée concernant '%s...'?",
		category:       "Quels éléments appartiennent à la catégorie « %s » ?",
		shortMeaning:   "Que signifie « %s » ?",
		entity: map[string]string{
			"PER":   "Qui est %s?",
			"LOC":   "Où se trouve %s?",
			"ORG":   "Qu'est-ce que %s?",
			"EVENT": "Qu'est-ce que %s?",
			"DATE":  "Quand a eu lieu %s?",
		},
	},
	English: {
		definition:     "What is %s?",
		definitionOnly: "What is %s?",
		concept:        "What does the text say about '%s'?",
		whySubject:     "Why does %s...?",
		whyContext:     "Why \"%s...\"?",
		salary:         "What salary is stated in '%s...'?",
		price:          "What price is stated in '%s...'?",
		hourlyRate:     "What hourly rate is stated in '%s...'?",
		numeric:        "What is the numeric information about '%s...'?",
		category:       "What items belong to the category \"%s\"?",
		shortMeaning:   "What does \"%s\" mean?",
		entity: map[string]string{
			"PER":   "Who is %s?",
			"LOC":   "Where is %s located?",
			"ORG":   "What is %s?",
			"EVENT": "What is %s?",
			"DATE":  "When did %s take place?",
		},
	},
}

func phrasesFor(lang Language) phrasebook {
	if p, ok := phrasebooks[lang]; ok {
		return p
	}
	return phrasebooks[French]
}
