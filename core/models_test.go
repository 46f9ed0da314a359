package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIDFromContent(t *testing.T) {
	t.Run("same content produces same ID", func(t *testing.T) {
		assert.Equal(t, IDFromContent("resume text"), IDFromContent("resume text"))
	})

	t.Run("different content produces different IDs", func(t *testing.T) {
		assert.NotEqual(t, IDFromContent("resume a"), IDFromContent("resume b"))
	})
}

func TestNormalizeSet(t *testing.T) {
	got := NormalizeSet([]string{"React", " node ", "react", "", "AWS"})
	assert.Equal(t, []string{"aws", "node", "react"}, got)

	assert.NotNil(t, NormalizeSet(nil))
	assert.Empty(t, NormalizeSet(nil))
}

func TestSortedSet(t *testing.T) {
	assert.Equal(t, []string{"BITS", "IIT"}, SortedSet([]string{"IIT", "BITS", "IIT"}))
}

func TestIntersect(t *testing.T) {
	assert.Equal(t, []string{"node", "react"}, Intersect([]string{"react", "node", "go"}, []string{"node", "react", "aws"}))
	assert.Empty(t, Intersect([]string{"go"}, nil))
}

func TestCandidateGPAValue(t *testing.T) {
	c := &Candidate{}
	assert.Equal(t, 0.0, c.GPAValue())

	gpa := 8.7
	c.GPA = &gpa
	assert.Equal(t, 8.7, c.GPAValue())
}

func TestCandidateMUS(t *testing.T) {
	gpa := 9.1
	in := Candidate{
		Id:                   42,
		Fingerprint:          IDFromContent("text"),
		Name:                 "Asha Rao",
		Email:                "asha@example.com",
		Links:                Links{GitHub: "https://github.com/asha"},
		YearsExperience:      3.5,
		GPA:                  &gpa,
		ProjectCount:         4,
		HackathonWins:        2,
		ExtracurricularScore: 3,
		Skills:               []string{"go", "react"},
		Institutions:         []string{"IIT"},
		Projects:             []Project{{Title: "search engine", Description: "built a search engine", Tech: []string{"go"}}},
		Experience:           []ExperienceEntry{{Range: "Jan 2020 - Jan 2021", Months: 12, Text: "backend intern"}},
		Text:                 "full resume text",
		InsertedAt:           time.Now().UTC().Truncate(time.Microsecond),
	}

	buf := make([]byte, CandidateMUS.Size(in))
	n := CandidateMUS.Marshal(in, buf)
	require.Equal(t, len(buf), n)

	out, m, err := CandidateMUS.Unmarshal(buf)
	require.NoError(t, err)
	assert.Equal(t, n, m)
	assert.Equal(t, in, out)

	t.Run("truncated input fails", func(t *testing.T) {
		_, _, err := CandidateMUS.Unmarshal(buf[:len(buf)/2])
		assert.Error(t, err)
	})
}
