package form

import (
	"time"

	"github.com/ascollins/portfolioctl/internal/models"
)

// Media field names shared by the dialogs and the upload helper.
const (
	FieldImages = "images"
	FieldVideos = "videos"
)

// ProjectSchema describes the project edit dialog.
func ProjectSchema() Schema {
	return Schema{Fields: []Field{
		{Name: "title", Label: "Title", Kind: Text, Required: true, MaxLen: 200},
		{Name: "description", Label: "Description", Kind: Multiline, Required: true, MaxLen: 2000},
		{Name: "demoLink", Label: "Demo Link", Kind: URL},
		{Name: "repoLink", Label: "Repo Link", Kind: URL},
		{Name: "techStack", Label: "Tech Stack", Kind: Tags},
		{Name: "additionalInfo", Label: "Additional Info", Kind: Multiline, MaxLen: 1000},
	}}
}

// AchievementSchema describes the achievement edit dialog.
func AchievementSchema() Schema {
	return Schema{Fields: []Field{
		{Name: "title", Label: "Title", Kind: Text, Required: true, MaxLen: 200},
		{Name: "description", Label: "Description", Kind: Multiline, Required: true, MaxLen: 2000},
		{Name: "date", Label: "Date", Kind: Date, Required: true},
	}}
}

// ProfileSchema describes the profile edit dialog.
func ProfileSchema() Schema {
	return Schema{Fields: []Field{
		{Name: "name", Label: "Name", Kind: Text, Required: true, MaxLen: 100},
		{Name: "email", Label: "Email", Kind: Text, Required: true, MaxLen: 200},
		{Name: "role", Label: "Role", Kind: Text, MaxLen: 50},
		{Name: "bio", Label: "Bio", Kind: Multiline, MaxLen: 1000},
		{Name: "avatar", Label: "Avatar URL", Kind: URL},
		{Name: "github", Label: "GitHub URL", Kind: URL},
		{Name: "linkedin", Label: "LinkedIn URL", Kind: URL},
		{Name: "twitter", Label: "Twitter URL", Kind: URL},
		{Name: "resume", Label: "Resume URL", Kind: URL},
	}}
}

// OpenProjectDialog opens d pre-populated from p, or in create mode when p
// is nil.
func OpenProjectDialog(d *Dialog, p *models.Project) {
	if p == nil {
		d.OpenCreate()
		return
	}
	d.OpenEdit(p.ID, p.Version, Values{
		"title":          p.Title,
		"description":    p.Description,
		"demoLink":       p.DemoLink,
		"repoLink":       p.RepoLink,
		"techStack":      joinTags(p.TechStack),
		"additionalInfo": p.AdditionalInfo,
	}, map[string][]string{
		FieldImages: p.Images,
		FieldVideos: p.Videos,
	})
}

// ProjectPayload builds the project to submit from the dialog state. ID and
// Version carry the edit target; both are zero in create mode.
func ProjectPayload(d *Dialog) models.Project {
	return models.Project{
		ID:             d.EntityID(),
		Title:          d.Value("title"),
		Description:    d.Value("description"),
		TechStack:      TagList(d.Value("techStack")),
		DemoLink:       d.Value("demoLink"),
		RepoLink:       d.Value("repoLink"),
		AdditionalInfo: d.Value("additionalInfo"),
		Images:         d.Media(FieldImages),
		Videos:         d.Media(FieldVideos),
		Version:        d.BaseVersion(),
	}
}

// OpenAchievementDialog opens d pre-populated from a, or in create mode when
// a is nil. A blank date defaults to today, matching the dashboard form.
func OpenAchievementDialog(d *Dialog, a *models.Achievement) {
	if a == nil {
		d.OpenCreate()
		d.Set("date", time.Now().Format("2006-01-02"))
		return
	}
	date := a.Date
	if t, err := ParseDate(a.Date); err == nil {
		date = t.Format("2006-01-02")
	}
	d.OpenEdit(a.ID, a.Version, Values{
		"title":       a.Title,
		"description": a.Description,
		"date":        date,
	}, map[string][]string{
		FieldImages: a.Images,
	})
}

// AchievementPayload builds the achievement to submit from the dialog state.
// The date is normalized to a full ISO-8601 timestamp.
func AchievementPayload(d *Dialog) models.Achievement {
	date := d.Value("date")
	if t, err := ParseDate(date); err == nil {
		date = t.UTC().Format(time.RFC3339)
	}
	return models.Achievement{
		ID:          d.EntityID(),
		Title:       d.Value("title"),
		Description: d.Value("description"),
		Date:        date,
		Images:      d.Media(FieldImages),
		Version:     d.BaseVersion(),
	}
}

// OpenProfileDialog opens d pre-populated from u. The profile always exists,
// so the dialog is always in edit mode.
func OpenProfileDialog(d *Dialog, u models.User) {
	d.OpenEdit(0, u.Version, Values{
		"name":     u.Name,
		"email":    u.Email,
		"role":     u.Role,
		"bio":      u.Bio,
		"avatar":   u.Avatar,
		"github":   u.GitHub,
		"linkedin": u.LinkedIn,
		"twitter":  u.Twitter,
		"resume":   u.Resume,
	}, nil)
}

// ProfilePayload builds the user to submit from the dialog state.
func ProfilePayload(d *Dialog) models.User {
	return models.User{
		Name:     d.Value("name"),
		Email:    d.Value("email"),
		Role:     d.Value("role"),
		Bio:      d.Value("bio"),
		Avatar:   d.Value("avatar"),
		GitHub:   d.Value("github"),
		LinkedIn: d.Value("linkedin"),
		Twitter:  d.Value("twitter"),
		Resume:   d.Value("resume"),
		Version:  d.BaseVersion(),
	}
}

func joinTags(tags []string) string {
	out := ""
	for i, t := range tags {
		if i > 0 {
			out += ", "
		}
		out += t
	}
	return out
}
