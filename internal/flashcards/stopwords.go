package flashcards

func wordSet(words ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

var frenchStopwords = wordSet(
	"a", "à", "afin", "ai", "aie", "ainsi", "alors", "au", "aucun", "aucune", "aussi", "autre", "autres",
	"aux", "avait", "avaient", "avant", "avec", "avoir", "bien", "c", "ça", "car", "ce", "ceci", "cela",
	"celle", "celles", "celui", "cependant", "ces", "cet", "cette", "ceux", "chaque", "chez", "comme",
	"comment", "d", "dans", "de", "des", "deux", "doit", "donc", "dont", "du", "elle", "elles", "en",
	"encore", "entre", "est", "et", "étaient", "était", "été", "être", "eu", "eux", "fait", "faire",
	"font", "ici", "il", "ils", "j", "je", "jusqu", "l", "la", "là", "le", "les", "leur", "leurs", "lui",
	"m", "ma", "mais", "me", "même", "mes", "moi", "moins", "mon", "n", "ne", "ni", "nos", "notre",
	"nous", "on", "ont", "ou", "où", "par", "parce", "pas", "peu", "peut", "peuvent", "plus", "pour",
	"pourquoi", "qu", "quand", "que", "quel", "quelle", "quelles", "quels", "qui", "quoi", "s", "sa",
	"sans", "se", "selon", "ses", "si", "son", "sont", "sous", "sur", "t", "ta", "te", "tes", "toi",
	"ton", "tous", "tout", "toute", "toutes", "très", "tu", "un", "une", "uns", "vers", "voici", "voilà",
	"vos", "votre", "vous", "y",
)

var englishStopwords = wordSet(
	"a", "about", "above", "after", "again", "against", "all", "also", "am", "an", "and", "any", "are",
	"as", "at", "be", "because", "been", "before", "being", "below", "between", "both", "but", "by",
	"can", "could", "did", "do", "does", "doing", "down", "during", "each", "few", "for", "from",
	"further", "had", "has", "have", "having", "he", "her", "here", "hers", "herself", "him", "himself",
	"his", "how", "i", "if", "in", "into", "is", "it", "its", "itself", "just", "may", "me", "might",
	"more", "most", "much", "must", "my", "myself", "no", "nor", "not", "now", "of", "off", "on",
	"once", "only", "or", "other", "our", "ours", "ourselves", "out", "over", "own", "same", "shall",
	"she", "should", "so", "some", "such", "than", "that", "the", "their", "theirs", "them",
	"themselves", "then", "there", "these", "they", "this", "those", "through", "to", "too", "under",
	"until", "up", "very", "was", "we", "were", "what", "when", "where", "which", "while", "who",
	"whom", "why", "will", "with", "would", "you", "your", "yours", "yourself", "yourselves",
)

// commonFrenchVerbs are lemmas too frequent to be worth a vocabulary card.
var commonFrenchVerbs = wordSet(
	"être", "avoir", "faire", "aller", "pouvoir", "vouloir", "devoir", "dire", "voir", "savoir",
	"venir", "prendre", "mettre", "falloir", "donner", "passer", "trouver", "rester",
)

func stopwordsFor(lang Language) map[string]struct{} {
	if lang == English {
		return englishStopwords
	}
	return frenchStopwords
}
