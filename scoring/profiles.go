package scoring

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/poiesic/hirex/core"
)

// DefaultProfile is used when no profile, or an unknown one, is requested.
const DefaultProfile = "balanced"

// ErrInvalidProfile indicates a profile with a negative weight or no name.
var ErrInvalidProfile = errors.New("invalid scoring profile")

// Profile weights the five scoring signals.
type Profile struct {
	Name            string  `validate:"required"`
	Semantic        float64 `validate:"gte=0"`
	Experience      float64 `validate:"gte=0"`
	GPA             float64 `validate:"gte=0"`
	Institution     float64 `validate:"gte=0"`
	Extracurricular float64 `validate:"gte=0"`
}

// Sum returns the total of the profile's weights, the largest score a
// candidate can reach before the role bonus.
func (p Profile) Sum() float64 {
	return p.Semantic + p.Experience + p.GPA + p.Institution + p.Extracurricular
}

// Validate checks that the profile is named and has no negative weight.
func (p Profile) Validate() error {
	if err := core.Validator().Struct(p); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fmt.Errorf("%w: %s failed %q", ErrInvalidProfile, verrs[0].Field(), verrs[0].Tag())
		}
		return fmt.Errorf("%w: %w", ErrInvalidProfile, err)
	}
	return nil
}

var registry = []Profile{
	{Name: "balanced", Semantic: 0.45, Experience: 0.20, GPA: 0.15, Institution: 0.10, Extracurricular: 0.10},
	{Name: "cgpa-heavy", Semantic: 0.30, Experience: 0.15, GPA: 0.40, Institution: 0.10, Extracurricular: 0.05},
	{Name: "experience-heavy", Semantic: 0.35, Experience: 0.40, GPA: 0.10, Institution: 0.10, Extracurricular: 0.05},
	{Name: "college-heavy", Semantic: 0.35, Experience: 0.15, GPA: 0.15, Institution: 0.30, Extracurricular: 0.05},
	{Name: "leadership-heavy", Semantic: 0.35, Experience: 0.20, GPA: 0.10, Institution: 0.10, Extracurricular: 0.25},
}

// Profiles returns the registered profiles in registration order.
func Profiles() []Profile {
	return append([]Profile(nil), registry...)
}

// Names returns the registered profile names in registration order.
func Names() []string {
	out := make([]string, len(registry))
	for i, p := range registry {
		out[i] = p.Name
	}
	return out
}

// Lookup returns the profile registered under name.
func Lookup(name string) (Profile, bool) {
	for _, p := range registry {
		if p.Name == name {
			return p, true
		}
	}
	return Profile{}, false
}

// Resolve returns the profile registered under name, falling back to
// DefaultProfile.
func Resolve(name string) Profile {
	if p, ok := Lookup(name); ok {
		return p
	}
	p, _ := Lookup(DefaultProfile)
	return p
}
