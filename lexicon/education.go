package lexicon

var eliteInstitutes = map[string][]string{
	"IIT":  {"iit", "i.i.t", "indian institute of technology"},
	"NIT":  {"nit", "n.i.t", "national institute of technology"},
	"BITS": {"bits", "b.i.t.s", "bits pilani", "birla institute of technology", "birla institute of technology and science"},
}

// institutionTiers ranks institution labels on a 0-1 scale.
var institutionTiers = map[string]float64{
	"IIT":  1.0,
	"BITS": 0.9,
	"NIT":  0.8,
}

var degrees = []string{
	"b.tech", "btech", "b.e", "be", "bsc", "b.sc", "m.tech", "mtech", "m.e", "me",
	"mca", "mba", "phd", "ms", "bca", "bba",
}

var majors = []string{
	"computer science", "cse", "ece", "electrical", "mechanical", "civil",
	"information technology", "it", "ai", "ml", "data science", "electronics",
}

// ExtractInstitutions returns the institution labels (e.g. "IIT") whose
// variants appear in text.
func (l *Lexicon) ExtractInstitutions(text string) []string {
	return scan(text, l.institutes)
}

// ExtractDegrees returns the degrees mentioned in text.
func (l *Lexicon) ExtractDegrees(text string) []string {
	return scan(text, l.degrees)
}

// ExtractMajors returns the majors mentioned in text.
func (l *Lexicon) ExtractMajors(text string) []string {
	return scan(text, l.majors)
}

// InstitutionTier returns the tier weight of an institution label, or 0
// for labels outside the tier table.
func (l *Lexicon) InstitutionTier(label string) float64 {
	return l.institutionTiers[label]
}

// BestTier returns the highest tier weight across labels.
func (l *Lexicon) BestTier(labels []string) float64 {
	best := 0.0
	for _, label := range labels {
		if t := l.institutionTiers[label]; t > best {
			best = t
		}
	}
	return best
}
