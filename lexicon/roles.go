package lexicon

var roleTags = []string{
	"frontend", "backend", "fullstack", "web", "mobile",
	"ios", "android",
	"devops", "sre", "mlops",
	"ml", "ai", "data-engineer", "analytics-engineer", "bi-engineer",
	"research-scientist",
	"security", "appsec", "cloud-security",
	"cloud", "distributed-systems", "systems",
	"embedded", "networking",
	"vr", "gaming", "crypto",
	"qa", "developer-advocate",
	"salesforce", "workday", "forward-deployed",
	"production-engineer", "quant", "linguistics",
	"bioinformatics",
	"engineering-manager",
}

// roleAliases maps job titles to role tags.
var roleAliases = map[string]string{
	"frontend engineer":  "frontend",
	"frontend developer": "frontend",
	"react developer":    "frontend",
	"reactjs developer":  "frontend",
	"next.js developer":  "frontend",
	"web developer":      "web",
	"ux engineer":        "frontend",
	"ui engineer":        "frontend",

	"backend engineer":     "backend",
	"backend developer":    "backend",
	"server-side engineer": "backend",
	"full-stack engineer":  "fullstack",
	"full stack engineer":  "fullstack",
	"full-stack developer": "fullstack",

	"ios engineer":      "ios",
	"ios developer":     "ios",
	"android engineer":  "android",
	"android developer": "android",
	"mobile engineer":   "mobile",
	"mobile developer":  "mobile",

	"devops engineer":           "devops",
	"site reliability engineer": "sre",
	"sre":                       "sre",
	"ml ops engineer":           "mlops",
	"mlops engineer":            "mlops",

	"machine learning engineer":      "ml",
	"ml engineer":                    "ml",
	"ai engineer":                    "ai",
	"ai researcher":                  "ai",
	"research scientist":             "research-scientist",
	"data engineer":                  "data-engineer",
	"analytics engineer":             "analytics-engineer",
	"business intelligence engineer": "bi-engineer",
	"bioinformatics engineer":        "bioinformatics",

	"security software engineer":    "security",
	"application security engineer": "appsec",
	"appsec engineer":               "appsec",
	"cloud security engineer":       "cloud-security",

	"cloud engineer":               "cloud",
	"distributed systems engineer": "distributed-systems",
	"systems engineer":             "systems",
	"networking engineer":          "networking",
	"embedded systems engineer":    "embedded",
	"embedded software engineer":   "embedded",

	"salesforce developer":               "salesforce",
	"workday engineer":                   "workday",
	"forward deployed software engineer": "forward-deployed",
	"production software engineer":       "production-engineer",
	"developer advocate":                 "developer-advocate",

	"video game software engineer": "gaming",
	"game developer":               "gaming",
	"vr engineer":                  "vr",
	"crypto engineer":              "crypto",
	"quantitative developer":       "quant",
	"linguistic engineer":          "linguistics",

	"qa engineer":                "qa",
	"quality assurance engineer": "qa",

	"software engineering manager": "engineering-manager",
}

// skillToRoles maps a skill to the roles it signals. A skill may signal
// several roles.
var skillToRoles = map[string][]string{
	"react": {"frontend"}, "next.js": {"frontend"}, "redux": {"frontend"},
	"vue": {"frontend"}, "angular": {"frontend"}, "svelte": {"frontend"},
	"tailwind": {"frontend"}, "css": {"frontend"}, "html": {"frontend"},

	"node": {"backend"}, "express": {"backend"}, "django": {"backend"},
	"flask": {"backend"}, "spring": {"backend"}, "go": {"backend"}, "rust": {"backend"},

	"graphql": {"fullstack"}, "rest": {"fullstack"},

	"swift": {"ios"}, "objective-c": {"ios"},
	"kotlin": {"android"}, "java": {"android"},
	"react native": {"mobile"}, "flutter": {"mobile"},

	"docker": {"devops", "sre"}, "kubernetes": {"devops", "sre"},
	"terraform": {"devops"}, "ansible": {"devops"},
	"aws": {"devops", "cloud"}, "gcp": {"devops", "cloud"}, "azure": {"devops", "cloud"},
	"prometheus": {"sre"}, "grafana": {"sre"}, "nginx": {"sre"},
	"ci/cd": {"devops"},

	"spark": {"data-engineer"}, "kafka": {"data-engineer"}, "airflow": {"data-engineer"},
	"pytorch": {"ml"}, "tensorflow": {"ml"}, "sklearn": {"ml"},
	"xgboost": {"ml"}, "opencv": {"ml"},
	"mlflow": {"mlops"}, "kubeflow": {"mlops"}, "sagemaker": {"mlops"},

	"burp": {"appsec"}, "zap": {"appsec"}, "threat modeling": {"security"},
	"iam": {"cloud-security"}, "cspm": {"cloud-security"},

	"grpc": {"distributed-systems"}, "distributed": {"distributed-systems"},
	"os": {"systems"}, "kernel": {"systems"},

	"tcp/ip": {"networking"}, "fpga": {"embedded"}, "rtos": {"embedded"},

	"tableau": {"bi-engineer"}, "power bi": {"bi-engineer"},

	"paper": {"research-scientist"}, "arxiv": {"research-scientist"},
}

// roleToCoreSkills lists the skills a recruiter implicitly asks for
// when naming a role.
var roleToCoreSkills = map[string][]string{
	"frontend":            {"react", "next.js", "javascript", "typescript", "html", "css", "tailwind"},
	"backend":             {"node", "express", "python", "django", "flask", "go", "java", "spring"},
	"fullstack":           {"react", "node"},
	"ios":                 {"swift", "objective-c"},
	"android":             {"kotlin", "java"},
	"mobile":              {"flutter", "react native"},
	"devops":              {"docker", "kubernetes", "terraform", "aws", "ci/cd"},
	"sre":                 {"kubernetes", "prometheus", "grafana", "nginx"},
	"mlops":               {"mlflow", "kubeflow", "sagemaker", "docker", "kubernetes"},
	"ml":                  {"pytorch", "tensorflow", "sklearn", "xgboost"},
	"ai":                  {"pytorch", "transformers"},
	"data-engineer":       {"spark", "kafka", "airflow", "sql"},
	"analytics-engineer":  {"dbt", "sql"},
	"bi-engineer":         {"tableau", "power bi", "sql"},
	"security":            {"threat modeling"},
	"appsec":              {"zap", "burp"},
	"cloud-security":      {"iam"},
	"cloud":               {"aws", "gcp", "azure"},
	"distributed-systems": {"grpc"},
	"systems":             {"c", "c++", "os"},
	"embedded":            {"c", "fpga", "rtos"},
	"networking":          {"tcp/ip"},
	"gaming":              {"unity", "unreal"},
	"vr":                  {"unity"},
	"crypto":              {"solidity"},
	"qa":                  {"jest", "cypress", "playwright"},
	"developer-advocate":  {"documentation", "talks"},
	"salesforce":          {"apex"},
	"workday":             {"workday"},
	"forward-deployed":    {"python", "react"},
	"production-engineer": {"linux", "nginx"},
	"quant":               {"python", "numpy", "pandas"},
	"linguistics":         {"nlp"},
	"bioinformatics":      {"python", "rna", "genomics"},
	"engineering-manager": {"leadership", "management"},
}

// NormalizeRoles returns the role tags named in text, either through a
// job title alias or by the tag itself.
func (l *Lexicon) NormalizeRoles(text string) []string {
	found := make(map[string]struct{})
	for _, r := range scan(text, l.roleAliases) {
		found[r] = struct{}{}
	}
	for _, r := range scan(text, l.roleTags) {
		found[r] = struct{}{}
	}
	return setOf(found)
}

// RolesFromSkills returns the roles signalled by a set of skills.
func (l *Lexicon) RolesFromSkills(skills []string) []string {
	found := make(map[string]struct{})
	for _, s := range skills {
		for _, r := range l.skillToRoles[s] {
			found[r] = struct{}{}
		}
	}
	return setOf(found)
}

// ExpandSkillsForRoles returns the union of the core skills of roles.
func (l *Lexicon) ExpandSkillsForRoles(roles []string) []string {
	found := make(map[string]struct{})
	for _, r := range roles {
		for _, s := range l.roleToCoreSkills[r] {
			found[s] = struct{}{}
		}
	}
	return setOf(found)
}

// ExtractResumeRoles combines roles named in resume text with roles
// signalled by the resume's skills.
func (l *Lexicon) ExtractResumeRoles(text string, skills []string) []string {
	found := make(map[string]struct{})
	for _, r := range l.NormalizeRoles(text) {
		found[r] = struct{}{}
	}
	for _, r := range l.RolesFromSkills(skills) {
		found[r] = struct{}{}
	}
	return setOf(found)
}
