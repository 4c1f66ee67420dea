package profile

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cast"
)

// Patch is the normalised form of a loosely-typed profile submission. Only
// keys present in the submission appear in it.
type Patch struct {
	UserID    uuid.UUID
	Scalars   map[string]string
	Skills    []string
	HasSkills bool
	Social    map[string]string
	Extra     map[string]any
}

var scalarKeys = map[string]bool{
	"company":        true,
	"website":        true,
	"location":       true,
	"bio":            true,
	"status":         true,
	"githubusername": true,
}

var socialKeys = map[string]bool{
	"youtube":   true,
	"twitter":   true,
	"facebook":  true,
	"instagram": true,
	"linkedin":  true,
}

// Keys the owner can never set through a submission.
var reservedKeys = map[string]bool{
	"id":         true,
	"_id":        true,
	"user":       true,
	"experience": true,
	"education":  true,
	"date":       true,
	"version":    true,
	"updated_at": true,
}

// Reconcile turns raw into a Patch owned by callerID. Known scalar fields are
// stringified, skills are split on commas, social keys are matched without
// regard to case and anything else lands in Extra.
func Reconcile(callerID uuid.UUID, raw map[string]any) Patch {
	p := Patch{
		UserID:  callerID,
		Scalars: map[string]string{},
		Social:  map[string]string{},
		Extra:   map[string]any{},
	}
	for key, v := range raw {
		switch {
		case reservedKeys[key]:
		case scalarKeys[key]:
			p.Scalars[key] = cast.ToString(v)
		case key == "skills":
			p.Skills = splitSkills(v)
			p.HasSkills = true
		case socialKeys[strings.ToLower(key)]:
			p.Social[strings.ToLower(key)] = cast.ToString(v)
		case key == "social":
			for inner, sv := range cast.ToStringMap(v) {
				if lk := strings.ToLower(inner); socialKeys[lk] {
					p.Social[lk] = cast.ToString(sv)
				}
			}
		default:
			p.Extra[key] = v
		}
	}
	return p
}

// splitSkills accepts a comma separated string or a list. Pieces are trimmed
// but empty pieces are kept.
func splitSkills(v any) []string {
	switch list := v.(type) {
	case []any:
		out := make([]string, 0, len(list))
		for _, s := range list {
			out = append(out, strings.TrimSpace(cast.ToString(s)))
		}
		return out
	case []string:
		out := make([]string, 0, len(list))
		for _, s := range list {
			out = append(out, strings.TrimSpace(s))
		}
		return out
	}
	parts := strings.Split(cast.ToString(v), ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

// Apply overwrites the fields present in patch and leaves the rest alone.
// Experience and education are never touched. Applying the same patch twice
// yields the same profile.
func (p *Profile) Apply(patch Patch, now time.Time) {
	for key, v := range patch.Scalars {
		switch key {
		case "company":
			p.Company = v
		case "website":
			p.Website = v
		case "location":
			p.Location = v
		case "bio":
			p.Bio = v
		case "status":
			p.Status = v
		case "githubusername":
			p.GithubUsername = v
		}
	}
	if patch.HasSkills {
		p.Skills = patch.Skills
	}
	for key, v := range patch.Social {
		switch key {
		case "youtube":
			p.Social.YouTube = v
		case "twitter":
			p.Social.Twitter = v
		case "facebook":
			p.Social.Facebook = v
		case "instagram":
			p.Social.Instagram = v
		case "linkedin":
			p.Social.LinkedIn = v
		}
	}
	if len(patch.Extra) > 0 && p.Extra == nil {
		p.Extra = make(map[string]any, len(patch.Extra))
	}
	for key, v := range patch.Extra {
		p.Extra[key] = v
	}
	p.UpdatedAt = now
}
