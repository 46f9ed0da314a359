// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package core

import (
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
)

// IDMUS serializes IDs in the MUS format.
var IDMUS = idMUS{}

// CandidateMUS serializes Candidates in the MUS format.
var CandidateMUS = candidateMUS{}

type idMUS struct{}

func (idMUS) Marshal(v ID, bs []byte) (n int) {
	return varint.Uint64.Marshal(uint64(v), bs)
}

func (idMUS) Unmarshal(bs []byte) (v ID, n int, err error) {
	u, n, err := varint.Uint64.Unmarshal(bs)
	return ID(u), n, err
}

func (idMUS) Size(v ID) (size int) {
	return varint.Uint64.Size(uint64(v))
}

// musWriter appends fields to a pre-sized buffer.
type musWriter struct {
	bs []byte
	n  int
}

func (w *musWriter) uint(v uint64)   { w.n += varint.Uint64.Marshal(v, w.bs[w.n:]) }
func (w *musWriter) int(v int)       { w.n += varint.Int.Marshal(v, w.bs[w.n:]) }
func (w *musWriter) int64(v int64)   { w.n += varint.Int64.Marshal(v, w.bs[w.n:]) }
func (w *musWriter) str(v string)    { w.n += ord.String.Marshal(v, w.bs[w.n:]) }
func (w *musWriter) boolean(v bool)  { w.n += ord.Bool.Marshal(v, w.bs[w.n:]) }
func (w *musWriter) float(v float64) { w.n += raw.Float64.Marshal(v, w.bs[w.n:]) }

func (w *musWriter) strs(v []string) {
	w.uint(uint64(len(v)))
	for _, s := range v {
		w.str(s)
	}
}

// musReader consumes fields in order and remembers the first error.
type musReader struct {
	bs  []byte
	n   int
	err error
}

func (r *musReader) step(n int, err error) bool {
	if r.err != nil {
		return false
	}
	if err != nil {
		r.err = err
		return false
	}
	r.n += n
	return true
}

func (r *musReader) uint() uint64 {
	if r.err != nil {
		return 0
	}
	v, n, err := varint.Uint64.Unmarshal(r.bs[r.n:])
	r.step(n, err)
	return v
}

func (r *musReader) int() int {
	if r.err != nil {
		return 0
	}
	v, n, err := varint.Int.Unmarshal(r.bs[r.n:])
	r.step(n, err)
	return v
}

func (r *musReader) int64() int64 {
	if r.err != nil {
		return 0
	}
	v, n, err := varint.Int64.Unmarshal(r.bs[r.n:])
	r.step(n, err)
	return v
}

func (r *musReader) str() string {
	if r.err != nil {
		return ""
	}
	v, n, err := ord.String.Unmarshal(r.bs[r.n:])
	r.step(n, err)
	return v
}

func (r *musReader) boolean() bool {
	if r.err != nil {
		return false
	}
	v, n, err := ord.Bool.Unmarshal(r.bs[r.n:])
	r.step(n, err)
	return v
}

func (r *musReader) float() float64 {
	if r.err != nil {
		return 0
	}
	v, n, err := raw.Float64.Unmarshal(r.bs[r.n:])
	r.step(n, err)
	return v
}

// length reads a collection length and rejects lengths that cannot
// fit in the remaining bytes.
func (r *musReader) length() int {
	l := r.uint()
	if r.err == nil && l > uint64(len(r.bs)-r.n) {
		r.err = ErrTruncatedRecord
		return 0
	}
	return int(l)
}

func (r *musReader) strs() []string {
	l := r.length()
	if r.err != nil || l == 0 {
		return nil
	}
	out := make([]string, l)
	for i := range out {
		out[i] = r.str()
	}
	return out
}

func strsSize(v []string) int {
	size := varint.Uint64.Size(uint64(len(v)))
	for _, s := range v {
		size += ord.String.Size(s)
	}
	return size
}

func timeMicro(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMicro()
}

func fromMicro(v int64) time.Time {
	if v == 0 {
		return time.Time{}
	}
	return time.UnixMicro(v).UTC()
}

type candidateMUS struct{}

func (candidateMUS) Marshal(v Candidate, bs []byte) (n int) {
	w := &musWriter{bs: bs}
	w.uint(uint64(v.Id))
	w.uint(uint64(v.Fingerprint))
	w.str(v.Name)
	w.str(v.Email)
	w.str(v.Phone)
	w.str(v.Location)
	w.str(v.Links.LinkedIn)
	w.str(v.Links.GitHub)
	w.str(v.Links.Portfolio)
	w.str(v.Source)
	w.float(v.YearsExperience)
	w.boolean(v.GPA != nil)
	if v.GPA != nil {
		w.float(*v.GPA)
	}
	w.int(v.ProjectCount)
	w.int(v.HackathonWins)
	w.int(v.ExtracurricularScore)
	w.int(v.LeadershipScore)
	w.int(v.ResponsibilityScore)
	w.strs(v.Skills)
	w.strs(v.SoftSkills)
	w.strs(v.Institutions)
	w.strs(v.Degrees)
	w.strs(v.Majors)
	w.strs(v.Roles)
	w.uint(uint64(len(v.Projects)))
	for _, p := range v.Projects {
		w.str(p.Title)
		w.str(p.Description)
		w.strs(p.Tech)
	}
	w.uint(uint64(len(v.Experience)))
	for _, e := range v.Experience {
		w.str(e.Range)
		w.int(e.Months)
		w.str(e.Text)
	}
	w.strs(v.Certifications)
	w.strs(v.Achievements)
	w.strs(v.Publications)
	w.str(v.Text)
	w.int64(timeMicro(v.InsertedAt))
	return w.n
}

func (candidateMUS) Unmarshal(bs []byte) (v Candidate, n int, err error) {
	r := &musReader{bs: bs}
	v.Id = ID(r.uint())
	v.Fingerprint = ID(r.uint())
	v.Name = r.str()
	v.Email = r.str()
	v.Phone = r.str()
	v.Location = r.str()
	v.Links.LinkedIn = r.str()
	v.Links.GitHub = r.str()
	v.Links.Portfolio = r.str()
	v.Source = r.str()
	v.YearsExperience = r.float()
	if r.boolean() {
		gpa := r.float()
		v.GPA = &gpa
	}
	v.ProjectCount = r.int()
	v.HackathonWins = r.int()
	v.ExtracurricularScore = r.int()
	v.LeadershipScore = r.int()
	v.ResponsibilityScore = r.int()
	v.Skills = r.strs()
	v.SoftSkills = r.strs()
	v.Institutions = r.strs()
	v.Degrees = r.strs()
	v.Majors = r.strs()
	v.Roles = r.strs()
	if l := r.length(); l > 0 {
		v.Projects = make([]Project, l)
		for i := range v.Projects {
			v.Projects[i] = Project{Title: r.str(), Description: r.str(), Tech: r.strs()}
		}
	}
	if l := r.length(); l > 0 {
		v.Experience = make([]ExperienceEntry, l)
		for i := range v.Experience {
			v.Experience[i] = ExperienceEntry{Range: r.str(), Months: r.int(), Text: r.str()}
		}
	}
	v.Certifications = r.strs()
	v.Achievements = r.strs()
	v.Publications = r.strs()
	v.Text = r.str()
	v.InsertedAt = fromMicro(r.int64())
	if r.err != nil {
		return Candidate{}, r.n, r.err
	}
	return v, r.n, nil
}

func (candidateMUS) Size(v Candidate) (size int) {
	size += varint.Uint64.Size(uint64(v.Id))
	size += varint.Uint64.Size(uint64(v.Fingerprint))
	for _, s := range []string{v.Name, v.Email, v.Phone, v.Location,
		v.Links.LinkedIn, v.Links.GitHub, v.Links.Portfolio, v.Source} {
		size += ord.String.Size(s)
	}
	size += raw.Float64.Size(v.YearsExperience)
	size += ord.Bool.Size(v.GPA != nil)
	if v.GPA != nil {
		size += raw.Float64.Size(*v.GPA)
	}
	for _, i := range []int{v.ProjectCount, v.HackathonWins, v.ExtracurricularScore,
		v.LeadershipScore, v.ResponsibilityScore} {
		size += varint.Int.Size(i)
	}
	for _, set := range [][]string{v.Skills, v.SoftSkills, v.Institutions,
		v.Degrees, v.Majors, v.Roles} {
		size += strsSize(set)
	}
	size += varint.Uint64.Size(uint64(len(v.Projects)))
	for _, p := range v.Projects {
		size += ord.String.Size(p.Title) + ord.String.Size(p.Description) + strsSize(p.Tech)
	}
	size += varint.Uint64.Size(uint64(len(v.Experience)))
	for _, e := range v.Experience {
		size += ord.String.Size(e.Range) + varint.Int.Size(e.Months) + ord.String.Size(e.Text)
	}
	size += strsSize(v.Certifications) + strsSize(v.Achievements) + strsSize(v.Publications)
	size += ord.String.Size(v.Text)
	size += varint.Int64.Size(timeMicro(v.InsertedAt))
	return size
}
