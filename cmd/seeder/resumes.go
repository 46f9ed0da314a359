package main

import (
	"fmt"
	"iter"
	"math/rand/v2"
	"strings"

	"github.com/poiesic/hirex/ingestion"
)

var (
	firstNames = []string{"Aarav", "Diya", "Ishaan", "Meera", "Kabir", "Ananya", "Rohan", "Saanvi", "Vikram", "Priya", "Arjun", "Nisha"}
	lastNames  = []string{"Sharma", "Iyer", "Reddy", "Gupta", "Nair", "Menon", "Kulkarni", "Bose", "Chatterjee", "Rao"}
	colleges   = []string{
		"Indian Institute of Technology, Bombay",
		"National Institute of Technology, Trichy",
		"BITS Pilani",
		"State Engineering College",
		"City Institute of Computer Applications",
	}
	degreeNames = []string{"B.Tech in Computer Science", "B.E in Electronics", "MCA", "M.Tech in Data Science"}
	cities      = []string{"Bangalore", "Hyderabad", "Pune", "Chennai", "Remote"}
)

type track struct {
	title    string
	skills   []string
	projects []string
}

var tracks = []track{
	{"Backend Engineer", []string{"Go", "Kafka", "PostgreSQL", "Redis", "Docker", "gRPC"},
		[]string{"Payment gateway with idempotent retries", "Order event pipeline on Kafka"}},
	{"Frontend Developer", []string{"React", "TypeScript", "Redux", "Tailwind", "Jest"},
		[]string{"Design system for a retail storefront", "Realtime dashboard with websockets"}},
	{"Data Scientist", []string{"Python", "PyTorch", "sklearn", "Spark", "Airflow"},
		[]string{"Churn prediction model", "Recommendation engine for articles"}},
	{"DevOps Engineer", []string{"Kubernetes", "Terraform", "AWS", "Ansible", "Docker"},
		[]string{"Blue-green deploys on EKS", "Cost dashboards for cloud spend"}},
	{"Full Stack Developer", []string{"Node", "React", "MongoDB", "Express", "GraphQL"},
		[]string{"Campus marketplace app", "Hackathon scheduling tool"}},
}

var extras = []string{
	"Captain of the college cricket team",
	"Organized the annual tech fest as event head",
	"Volunteer at a coding club for school students",
	"Member of the debate society",
}

// resumes yields n synthetic resumes. The same seed yields the same resumes.
func resumes(seed uint64, n int) iter.Seq[ingestion.Document] {
	return func(yield func(ingestion.Document) bool) {
		r := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
		for i := 0; i < n; i++ {
			doc := ingestion.Document{
				Source: fmt.Sprintf("synthetic-%04d.txt", i+1),
				Text:   resume(r, i),
			}
			if !yield(doc) {
				return
			}
		}
	}
}

func pick[T any](r *rand.Rand, xs []T) T {
	return xs[r.IntN(len(xs))]
}

func resume(r *rand.Rand, i int) string {
	first, last := pick(r, firstNames), pick(r, lastNames)
	t := pick(r, tracks)
	years := r.IntN(9)
	start := 2024 - years
	gpa := 6.0 + float64(r.IntN(40))/10

	skills := append([]string(nil), t.skills...)
	r.Shuffle(len(skills), func(a, b int) { skills[a], skills[b] = skills[b], skills[a] })
	skills = skills[:3+r.IntN(len(skills)-2)]

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", first, last)
	fmt.Fprintf(&b, "%s.%s%d@example.com | +91 98%08d\n", strings.ToLower(first), strings.ToLower(last), i+1, r.IntN(100000000))
	fmt.Fprintf(&b, "Location: %s\n", pick(r, cities))
	fmt.Fprintf(&b, "github.com/%s%s\n\n", strings.ToLower(first), strings.ToLower(last))

	fmt.Fprintf(&b, "Summary\n%s with %d years of experience.\n\n", t.title, years)

	b.WriteString("Skills\n")
	b.WriteString(strings.Join(skills, ", "))
	b.WriteString("\n\n")

	if years > 0 {
		b.WriteString("Experience\n")
		fmt.Fprintf(&b, "%s, Example Corp\nJan %d - Present\n", t.title, start)
		fmt.Fprintf(&b, "- Built services using %s\n\n", strings.Join(skills[:2], " and "))
	}

	b.WriteString("Projects\n")
	for _, p := range t.projects[:1+r.IntN(len(t.projects))] {
		fmt.Fprintf(&b, "%s\n- Implemented with %s\n\n", p, pick(r, skills))
	}

	b.WriteString("Education\n")
	fmt.Fprintf(&b, "%s, %s\nCGPA: %.1f\n\n", pick(r, degreeNames), pick(r, colleges), gpa)

	if wins := r.IntN(3); wins > 0 {
		b.WriteString("Achievements\n")
		fmt.Fprintf(&b, "- %d hackathons won\n\n", wins)
	}
	if r.IntN(2) == 0 {
		b.WriteString("Extracurricular\n")
		fmt.Fprintf(&b, "- %s\n", pick(r, extras))
	}
	return b.String()
}
