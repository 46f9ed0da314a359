package lexicon

var hardSkills = []string{
	"c", "c++", "java", "python", "go", "ruby", "rust", "php", "kotlin", "swift",
	"javascript", "typescript", "node", "express", "react", "next.js", "redux",
	"vue", "angular", "svelte",
	"html", "css", "tailwind", "sass",
	"mongodb", "mysql", "postgresql", "sqlite", "redis", "elasticsearch",
	"graphql", "rest", "grpc",
	"docker", "kubernetes", "aws", "gcp", "azure", "lambda", "s3", "ec2",
	"terraform", "ansible",
	"hadoop", "spark", "kafka", "airflow",
	"tensorflow", "pytorch", "sklearn", "xgboost", "opencv", "nlp", "bert",
	"huggingface",
	"jest", "cypress", "playwright",
	"git", "github", "gitlab", "ci/cd", "mern",
}

// skillAliases maps variant spellings to canonical skills.
var skillAliases = map[string]string{
	"node.js":             "node",
	"nodejs":              "node",
	"reactjs":             "react",
	"react.js":            "react",
	"express.js":          "express",
	"expressjs":           "express",
	"postgres":            "postgresql",
	"tf":                  "tensorflow",
	"scikit-learn":        "sklearn",
	"azure devops":        "azure",
	"amazon web services": "aws",
	"mern stack":          "mern",
	"mongo":               "mongodb",
}

// skillExpansions lists shorthand skills that stand for a stack. The
// shorthand itself is never reported.
var skillExpansions = map[string][]string{
	"mern": {"mongodb", "express", "react", "node"},
}

var softSkills = []string{
	"leadership", "communication", "teamwork", "problem solving",
	"critical thinking", "ownership", "mentoring", "collaboration",
	"presentation", "time management", "empathy", "adaptability",
}

// ExtractSkills returns the canonical hard skills mentioned in text.
// Stack shorthands such as "mern" are replaced by their members.
func (l *Lexicon) ExtractSkills(text string) []string {
	found := scan(text, l.hardSkills)
	return l.expand(found)
}

// CanonicalSkills maps labels through the alias table and expands stack
// shorthands. The input may already be canonical.
func (l *Lexicon) CanonicalSkills(skills []string) []string {
	out := make([]string, 0, len(skills))
	for _, s := range skills {
		out = append(out, canonicalSkill(s))
	}
	return l.expand(out)
}

func (l *Lexicon) expand(skills []string) []string {
	set := make(map[string]struct{}, len(skills))
	for _, s := range skills {
		if members, ok := l.expansions[s]; ok {
			for _, m := range members {
				set[m] = struct{}{}
			}
			continue
		}
		set[s] = struct{}{}
	}
	return setOf(set)
}

// ExtractSoftSkills returns the soft skills mentioned in text.
func (l *Lexicon) ExtractSoftSkills(text string) []string {
	return scan(text, l.softSkills)
}
