package textnorm

// Stopword sets are intentionally small: they only need to keep generic
// job-posting filler out of the keyword ranking, not model the language.

var stopwordsEN = map[string]struct{}{
	"and": {}, "or": {}, "the": {}, "a": {}, "an": {}, "to": {}, "of": {},
	"in": {}, "on": {}, "for": {}, "with": {}, "as": {}, "at": {}, "by": {},
	"from": {}, "is": {}, "are": {}, "be": {}, "will": {}, "you": {},
	"we": {}, "our": {}, "your": {}, "this": {}, "that": {}, "these": {},
	"those": {}, "it": {}, "they": {}, "their": {}, "them": {}, "us": {},
	"who": {}, "what": {}, "when": {}, "where": {},
	"job": {}, "role": {}, "work": {}, "team": {}, "years": {}, "year": {},
	"experience": {}, "skills": {}, "skill": {}, "responsibilities": {},
	"responsibility": {},
}

var stopwordsRO = map[string]struct{}{
	"si": {}, "sau": {}, "un": {}, "o": {}, "unei": {}, "ale": {}, "al": {},
	"a": {}, "la": {}, "in": {}, "pe": {}, "pentru": {}, "cu": {}, "ca": {},
	"din": {}, "este": {}, "sunt": {}, "fi": {}, "vei": {}, "voi": {},
	"tu": {}, "noi": {}, "nostru": {}, "noastra": {}, "acest": {},
	"aceasta": {}, "aceste": {}, "acestia": {},
	"job": {}, "rol": {}, "munca": {}, "echipa": {}, "ani": {}, "an": {},
	"experienta": {}, "abilitati": {}, "competente": {},
	"responsabilitati": {}, "responsabilitate": {},
}
