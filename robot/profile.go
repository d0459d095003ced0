package robot

import (
	"encoding/json"
	"errors"
	"fmt"

	"robopad/control"
)

// ProfilesFile is the embedded asset listing the supported robots.
const ProfilesFile = "assets/robots.json"

// ErrUnknownProfile is returned when no profile matches a robot name.
var ErrUnknownProfile = errors.New("unknown robot profile")

// ContentReader defines the interface for reading content from the embedded file system.
type ContentReader interface {
	ReadFile(name string) ([]byte, error)
}

// Profile describes one robot screen: which controls it shows.
type Profile struct {
	Name     string       `json:"name"`
	Title    string       `json:"title"`
	Controls []control.ID `json:"controls"`
}

// Has reports whether the profile shows the control.
func (p *Profile) Has(id control.ID) bool {
	for _, c := range p.Controls {
		if c == id {
			return true
		}
	}
	return false
}

// HasClaw reports whether the profile shows any claw control.
func (p *Profile) HasClaw() bool {
	return p.Has(control.ClawOpenStep) || p.Has(control.ClawCloseStep) || p.Has(control.ClawFullOpen)
}

// LoadProfiles loads robot profiles from the JSON asset.
func LoadProfiles(reader ContentReader) ([]*Profile, error) {
	data, err := reader.ReadFile(ProfilesFile)
	if err != nil {
		return nil, fmt.Errorf("read robot profiles: %w", err)
	}
	return ParseProfiles(data)
}

// ParseProfiles decodes and validates a JSON profile list.
func ParseProfiles(data []byte) ([]*Profile, error) {
	var profiles []*Profile
	if err := json.Unmarshal(data, &profiles); err != nil {
		return nil, fmt.Errorf("unmarshal robot profiles: %w", err)
	}
	seen := make(map[string]bool, len(profiles))
	for _, p := range profiles {
		if p.Name == "" {
			return nil, errors.New("robot profile without a name")
		}
		if seen[p.Name] {
			return nil, fmt.Errorf("duplicate robot profile %q", p.Name)
		}
		seen[p.Name] = true
		for _, c := range p.Controls {
			if !control.Known(c) {
				return nil, fmt.Errorf("robot profile %q: unknown control %q", p.Name, c)
			}
		}
		if p.Title == "" {
			p.Title = p.Name
		}
	}
	return profiles, nil
}

// FindProfile returns the profile with the given name.
func FindProfile(profiles []*Profile, name string) (*Profile, error) {
	for _, p := range profiles {
		if p.Name == name {
			return p, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownProfile, name)
}
