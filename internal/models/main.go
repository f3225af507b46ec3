// Package models defines the core data structures of the portfolio dashboard:
// the user profile, projects, achievements, activity entries and settings.
package models

// User represents the profile of the authenticated student. There is exactly
// one per session; it is never deleted, only updated.
type User struct {
	// Name is the display name of the user.
	Name string `json:"name"`
	// Email is the contact address shown on the profile.
	Email string `json:"email"`
	// Role is the account role label (e.g. "STUDENT").
	Role string `json:"role"`
	// Bio is an optional free-text description.
	Bio string `json:"bio,omitempty"`
	// Avatar is an optional URL of the profile picture.
	Avatar string `json:"avatar,omitempty"`
	// GitHub, LinkedIn and Twitter are optional social profile URLs.
	GitHub   string `json:"github,omitempty"`
	LinkedIn string `json:"linkedin,omitempty"`
	Twitter  string `json:"twitter,omitempty"`
	// Resume is an optional URL to a hosted resume document.
	Resume string `json:"resume,omitempty"`
	// Version is the optimistic-concurrency token for profile updates.
	Version int64 `json:"version,omitempty"`
}

// ProjectStatus is the lifecycle label of a project.
type ProjectStatus string

const (
	// StatusLive marks a deployed, publicly reachable project.
	StatusLive ProjectStatus = "live"
	// StatusBuilding marks a project under active development.
	StatusBuilding ProjectStatus = "building"
	// StatusIdea marks a project that exists only as a concept.
	StatusIdea ProjectStatus = "idea"
)

// Project is a single portfolio project. An absent (zero) ID means the
// project has not been persisted yet; after the first successful create the
// backend assigns the ID and all further operations key on it.
type Project struct {
	// ID is the backend-assigned identifier. Zero means unsaved.
	ID int64 `json:"id,omitempty"`
	// Title is the project name.
	Title string `json:"title"`
	// Description is the short project summary.
	Description string `json:"description"`
	// TechStack is the ordered list of technology tags.
	TechStack []string `json:"techStack"`
	// Status is the optional lifecycle label.
	Status ProjectStatus `json:"status,omitempty"`
	// DemoLink and RepoLink are optional external URLs.
	DemoLink string `json:"demoLink,omitempty"`
	RepoLink string `json:"repoLink,omitempty"`
	// Image is the legacy single cover image URL. Kept for reading older
	// records; new media goes into Images.
	Image string `json:"image,omitempty"`
	// Images and Videos are ordered lists of uploaded media URLs.
	Images []string `json:"images"`
	Videos []string `json:"videos"`
	// AdditionalInfo is optional free-form text.
	AdditionalInfo string `json:"additionalInfo,omitempty"`
	// Version is the optimistic-concurrency token. A save whose base version
	// is stale is rejected by the backend with a conflict.
	Version int64 `json:"version,omitempty"`
}

// Achievement is a dated accomplishment entry. ID lifecycle matches Project.
type Achievement struct {
	// ID is the backend-assigned identifier. Zero means unsaved.
	ID int64 `json:"id,omitempty"`
	// Title is the achievement headline.
	Title string `json:"title"`
	// Description is the achievement summary.
	Description string `json:"description"`
	// Date is the achievement date as an ISO-8601 string.
	Date string `json:"date"`
	// Images is the optional ordered list of uploaded image URLs.
	Images []string `json:"images,omitempty"`
	// Version is the optimistic-concurrency token.
	Version int64 `json:"version,omitempty"`
}

// ActivityStatus is the progress label of an activity entry.
type ActivityStatus string

const (
	// ActivityDone marks a completed activity.
	ActivityDone ActivityStatus = "done"
	// ActivityInProgress marks an activity still being worked on.
	ActivityInProgress ActivityStatus = "in-progress"
	// ActivityDraft marks an activity that was started but parked.
	ActivityDraft ActivityStatus = "draft"
)

// Activity is a read-only feed entry. The timestamp is a relative
// human-readable string produced by the backend ("12m ago", "Yesterday").
type Activity struct {
	Title     string         `json:"title"`
	Timestamp string         `json:"timestamp"`
	Status    ActivityStatus `json:"status"`
}

// SettingsItem is a read-only settings toggle description.
type SettingsItem struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Enabled     bool   `json:"enabled"`
}

// Sandbox identifies a provisioned preview sandbox.
type Sandbox struct {
	// ID is the sandbox identifier returned by the provisioning call.
	ID string `json:"sandboxId"`
}
